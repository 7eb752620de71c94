/*
Package trie provides a prefix tree for exact lookup, prefix checks and
autocompletion of words. Tries can be written to and restored from a
versioned YAML snapshot, and optionally fold case and strip diacritics.
*/
package trie
