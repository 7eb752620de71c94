package trie

import (
	"fmt"

	"github.com/disiqueira/gotree"
)

// String renders the Trie as a tree diagram, one line per node. Terminal
// nodes are marked with a star.
func (t *Trie) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	type item struct {
		index  int32
		parent gotree.Tree
	}
	tree := gotree.New(fmt.Sprintf("trie words=%d nodes=%d", t.words, len(t.nodes)))
	if t.nodes[rootIndex].terminal {
		tree.Add(`"" *`)
	}
	stack := make([]item, 0, len(t.nodes[rootIndex].children))
	for i := len(t.nodes[rootIndex].children) - 1; i >= 0; i-- {
		stack = append(stack, item{index: t.nodes[rootIndex].children[i].index, parent: tree})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[it.index]
		label := fmt.Sprintf("%q", n.char)
		if n.terminal {
			label += " *"
		}
		sub := it.parent.Add(label)
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, item{index: n.children[i].index, parent: sub})
		}
	}
	return tree.Print()
}
