package trie

// Autocomplete returns every inserted word that has prefix as a prefix. Words
// are listed depth first: a word comes before its extensions, and siblings are
// visited in ascending character order. The result is empty, never nil, when
// nothing matches.
func (t *Trie) Autocomplete(prefix string) []string {
	return t.AutocompleteN(prefix, 0)
}

// AutocompleteN is just like Autocomplete, but returns at most limit words.
// A limit of zero or less means no limit.
func (t *Trie) AutocompleteN(prefix string, limit int) []string {
	results := []string{}
	t.Walk(prefix, func(word string) bool {
		results = append(results, word)
		return limit <= 0 || len(results) < limit
	})
	return results
}

// Walk calls fn for each word that Autocomplete would return, in the same
// order, until fn returns false. fn must not modify the Trie.
func (t *Trie) Walk(prefix string, fn func(word string) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	prefix = t.canonical(prefix)
	start, ok := t.locate(prefix)
	if !ok {
		return
	}
	t.collect(start, prefix, fn)
}

// frame is a pending node in collect. depth counts the characters between
// the starting node and this node.
type frame struct {
	index int32
	depth int
}

// collect is a pre-order traversal of the subtree under start. It uses an
// explicit stack, so long words cannot exhaust the goroutine stack. path holds
// the characters from start down to the node being visited.
func (t *Trie) collect(start int32, prefix string, fn func(word string) bool) {
	stack := []frame{{index: start}}
	path := make([]rune, 0, 16)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[current.index]
		if current.depth > 0 {
			path = append(path[:current.depth-1], n.char)
		}
		if n.terminal && !fn(prefix+string(path)) {
			return
		}
		// push in reverse so the smallest character is popped first
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{index: n.children[i].index, depth: current.depth + 1})
		}
	}
}
