package trie

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// rootIndex is the arena position of the root node. The root always exists.
const rootIndex int32 = 0

// Trie is a prefix tree storing words so that shared prefixes share a path.
// Nodes live in an arena and reference their children by index.
type Trie struct {
	nodes                     []node
	words                     int
	mu                        sync.RWMutex
	normalised, caseSensitive bool
}

// node is one character position in a Trie. children is kept sorted by char,
// which is the order used by autocomplete and serialization.
type node struct {
	char     rune
	terminal bool
	children []edge
}

type edge struct {
	char  rune
	index int32
}

// New creates a new empty trie. By default it is case sensitive and does not
// normalise, so each code point of a word is one trie character.
func New() *Trie {
	t := new(Trie)
	t.nodes = []node{{}}
	t.CaseSensitive()
	t.WithoutNormalisation()
	return t
}

// Option configures a Trie. The setting methods can be passed directly:
//
//	BuildFromWords(words, (*Trie).CaseInsensitive, (*Trie).WithNormalisation)
type Option func(*Trie) *Trie

// BuildFromWords creates a trie, applies opts and inserts every word.
func BuildFromWords(words []string, opts ...Option) *Trie {
	t := New()
	for _, opt := range opts {
		opt(t)
	}
	t.Insert(words...)
	return t
}

// LoadFromSnapshot restores a trie previously produced by Serialize.
func LoadFromSnapshot(data []byte) (*Trie, error) {
	return Deserialize(data)
}

// WithNormalisation sets the Trie to strip diacritics from words and queries.
// For example, Jurg will find Jürgen, Jürg will find Jurgen.
// It must be set before any word is inserted.
func (t *Trie) WithNormalisation() *Trie {
	t.normalised = true
	return t
}

// WithoutNormalisation sets the Trie to store words exactly as given.
func (t *Trie) WithoutNormalisation() *Trie {
	t.normalised = false
	return t
}

// CaseSensitive sets the Trie to distinguish upper and lower case.
func (t *Trie) CaseSensitive() *Trie {
	t.caseSensitive = true
	return t
}

// CaseInsensitive sets the Trie to fold words and queries to lower case.
// It must be set before any word is inserted.
func (t *Trie) CaseInsensitive() *Trie {
	t.caseSensitive = false
	return t
}

// canonical applies the trie's settings to a word or query.
func (t *Trie) canonical(s string) string {
	if t.normalised {
		transformer := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if normal, _, err := transform.String(transformer, s); err == nil {
			s = normal
		}
	}
	if !t.caseSensitive {
		s = strings.ToLower(s)
	}
	return s
}

// Insert inserts words into the Trie. Inserting a word twice has no further
// effect. Inserting the empty string marks the root, so "" becomes found.
//
// Words are stored as code points. Each byte of invalid UTF-8 is stored as
// U+FFFD, so Insert("a\xff") is found by Search("a\xff") and by
// Search("a\uFFFD"), and Autocomplete returns it as "a\uFFFD".
func (t *Trie) Insert(words ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, word := range words {
		t.insertInternal(t.canonical(word))
	}
}

// insertInternal performs the actual insertion without locking.
func (t *Trie) insertInternal(word string) {
	current := rootIndex
	for _, character := range word {
		child, ok := t.child(current, character)
		if !ok {
			child = t.addChild(current, character)
		}
		current = child
	}
	if !t.nodes[current].terminal {
		t.nodes[current].terminal = true
		t.words++
	}
}

// child returns the index of the child of parent reached by character.
func (t *Trie) child(parent int32, character rune) (int32, bool) {
	children := t.nodes[parent].children
	i := sort.Search(len(children), func(i int) bool { return children[i].char >= character })
	if i < len(children) && children[i].char == character {
		return children[i].index, true
	}
	return 0, false
}

// addChild appends a new node to the arena and links it under parent,
// keeping the parent's children sorted.
func (t *Trie) addChild(parent int32, character rune) int32 {
	index := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{char: character})
	children := t.nodes[parent].children
	i := sort.Search(len(children), func(i int) bool { return children[i].char >= character })
	children = append(children, edge{})
	copy(children[i+1:], children[i:])
	children[i] = edge{char: character, index: index}
	t.nodes[parent].children = children
	return index
}

// locate walks from the root along s and returns the node reached, or false
// as soon as a character has no matching child.
func (t *Trie) locate(s string) (int32, bool) {
	current := rootIndex
	for _, character := range s {
		next, ok := t.child(current, character)
		if !ok {
			return 0, false
		}
		current = next
	}
	return current, true
}

// Search reports whether word was inserted, as opposed to merely being a
// prefix of an inserted word.
func (t *Trie) Search(word string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	index, ok := t.locate(t.canonical(word))
	return ok && t.nodes[index].terminal
}

// StartsWith reports whether any inserted word has prefix as a prefix.
// The empty prefix always matches.
func (t *Trie) StartsWith(prefix string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.locate(t.canonical(prefix))
	return ok
}

// Len returns the number of distinct words in the Trie.
func (t *Trie) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.words
}

// NodeCount returns the number of nodes in the Trie, including the root.
func (t *Trie) NodeCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}
