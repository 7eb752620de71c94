package trie

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// SnapshotVersion is the schema version written by Serialize. Deserialize
// accepts only this version.
const SnapshotVersion = 2

// Snapshot field names. They are shared by the writer and the reader and must
// not change without bumping SnapshotVersion.
const (
	fieldVersion       = "version"
	fieldCaseSensitive = "case-sensitive"
	fieldNormalised    = "normalised"
	fieldNodes         = "nodes"
	fieldChar          = "char"
	fieldTerminal      = "terminal"
	fieldChildren      = "children"
)

// ErrMalformedSnapshot is matched by every error returned from Deserialize.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// DeserializationError describes why a snapshot could not be read. Path
// locates the offending value, for example nodes[3]/children.
type DeserializationError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *DeserializationError) Error() string {
	var b bytes.Buffer
	b.WriteString("trie: malformed snapshot")
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		b.WriteString(" (line ")
		b.WriteString(strconv.Itoa(e.Line))
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedSnapshot) true for every DeserializationError.
func (e *DeserializationError) Is(target error) bool { return target == ErrMalformedSnapshot }

func malformed(path string, n *yaml.Node, format string, args ...interface{}) *DeserializationError {
	e := &DeserializationError{Path: path, Reason: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line = n.Line
	}
	return e
}

// Serialize encodes the Trie as a YAML document holding a flat list of nodes.
// Node 0 is the root, and each node maps a child's character to the child's
// position in the list:
//
//	version: 2
//	case-sensitive: true
//	normalised: false
//	nodes:
//	  - {char: "", terminal: false, children: {"a": 1}}
//	  - {char: "a", terminal: false, children: {"p": 2}}
//	  - {char: "p", terminal: true, children: {}}
//
// Nodes are numbered in pre-order with children in ascending character
// order, so equal tries always produce identical bytes. Every child comes
// after its parent. The document nests to a fixed depth however long the
// words are.
func (t *Trie) Serialize() ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	order, position := t.preorder()
	nodes := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, index := range order {
		n := &t.nodes[index]
		children := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Style: yaml.FlowStyle}
		for _, e := range n.children {
			children.Content = append(children.Content, charNode(e.char), intNode(int(position[e.index])))
		}
		char := charNode(n.char)
		if index == rootIndex {
			char = stringNode("", yaml.DoubleQuotedStyle)
		}
		encoded := mappingNode(
			fieldChar, char,
			fieldTerminal, boolNode(n.terminal),
			fieldChildren, children,
		)
		encoded.Style = yaml.FlowStyle
		nodes.Content = append(nodes.Content, encoded)
	}
	doc := mappingNode(
		fieldVersion, intNode(SnapshotVersion),
		fieldCaseSensitive, boolNode(t.caseSensitive),
		fieldNormalised, boolNode(t.normalised),
		fieldNodes, nodes,
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("trie: encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("trie: encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// preorder lists arena indices in pre-order over sorted children and returns
// the inverse mapping from arena index to list position.
func (t *Trie) preorder() ([]int32, []int32) {
	order := make([]int32, 0, len(t.nodes))
	position := make([]int32, len(t.nodes))
	stack := []int32{rootIndex}
	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		position[index] = int32(len(order))
		order = append(order, index)
		children := t.nodes[index].children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i].index)
		}
	}
	return order, position
}

func mappingNode(pairs ...interface{}) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i < len(pairs); i += 2 {
		m.Content = append(m.Content, stringNode(pairs[i].(string), 0), pairs[i+1].(*yaml.Node))
	}
	return m
}

func stringNode(s string, style yaml.Style) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: style}
}

// charNode always quotes, so characters such as ':' or '~' read back as strings.
func charNode(r rune) *yaml.Node {
	return stringNode(string(r), yaml.DoubleQuotedStyle)
}

func boolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}

// Deserialize rebuilds a Trie from the output of Serialize. Any structural
// problem (trailing documents, missing or unknown fields, wrong types,
// duplicate children, a child keyed differently from its char, a node with
// two parents or none, aliases) returns a *DeserializationError and no Trie.
func Deserialize(data []byte) (*Trie, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, malformed("", nil, "empty document")
		}
		return nil, &DeserializationError{Reason: "invalid yaml", Err: err}
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, &DeserializationError{Reason: "invalid yaml after the snapshot", Err: err}
		}
		return nil, malformed("", &extra, "more than one document")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, malformed("", nil, "empty document")
	}
	top, err := fields(doc.Content[0], "", fieldVersion, fieldCaseSensitive, fieldNormalised, fieldNodes)
	if err != nil {
		return nil, err
	}
	version, err := intField(top, "", fieldVersion)
	if err != nil {
		return nil, err
	}
	if version != SnapshotVersion {
		return nil, malformed("", top[fieldVersion], "unsupported version %d", version)
	}

	t := New()
	if t.caseSensitive, err = boolField(top, "", fieldCaseSensitive); err != nil {
		return nil, err
	}
	if t.normalised, err = boolField(top, "", fieldNormalised); err != nil {
		return nil, err
	}
	if err := t.decodeNodes(top[fieldNodes]); err != nil {
		return nil, err
	}
	return t, nil
}

// decoded is one entry of the snapshot node list before linking.
type decoded struct {
	char     string
	terminal bool
	children *yaml.Node
}

// decodeNodes fills the arena from the snapshot node list. A child must come
// after its parent and every node but the root must have exactly one parent,
// which rules out cycles, sharing and unreachable nodes.
func (t *Trie) decodeNodes(list *yaml.Node) error {
	if err := checkKind(list, fieldNodes, yaml.SequenceNode); err != nil {
		return err
	}
	if len(list.Content) == 0 {
		return malformed(fieldNodes, list, "root node missing")
	}

	entries := make([]decoded, len(list.Content))
	for i, item := range list.Content {
		path := nodePath(i)
		f, err := fields(item, path, fieldChar, fieldTerminal, fieldChildren)
		if err != nil {
			return err
		}
		if entries[i].char, err = scalarField(f, path, fieldChar); err != nil {
			return err
		}
		if entries[i].terminal, err = boolField(f, path, fieldTerminal); err != nil {
			return err
		}
		entries[i].children = f[fieldChildren]
		if err := checkKind(entries[i].children, path+"/"+fieldChildren, yaml.MappingNode); err != nil {
			return err
		}
		if i == 0 && entries[i].char != "" {
			return malformed(path, f[fieldChar], "root char must be empty, got %q", entries[i].char)
		}
		if i > 0 && !entries[i].terminal && len(entries[i].children.Content) == 0 {
			return malformed(path, item, "leaf is not a word")
		}
	}

	// arena[i] is the arena index of list entry i, or -1 until it is linked.
	arena := make([]int32, len(entries))
	for i := range arena {
		arena[i] = -1
	}
	arena[0] = rootIndex
	for i, entry := range entries {
		// every parent precedes its children, so an unlinked entry stays unlinked
		if arena[i] < 0 {
			return malformed(nodePath(i), list.Content[i], "node is not reachable from the root")
		}
		path := nodePath(i) + "/" + fieldChildren
		if entry.terminal {
			t.nodes[arena[i]].terminal = true
			t.words++
		}
		children := entry.children.Content
		for k := 0; k+1 < len(children); k += 2 {
			key, value := children[k], children[k+1]
			if err := checkScalar(key, path); err != nil {
				return err
			}
			r, size := utf8.DecodeRuneInString(key.Value)
			if size == 0 || size != len(key.Value) {
				return malformed(path, key, "child key %q is not a single character", key.Value)
			}
			j, err := intValue(value, path+"/"+key.Value)
			if err != nil {
				return err
			}
			switch {
			case j <= i || j >= len(entries):
				return malformed(path, value, "child %d must come after node %d and before %d", j, i, len(entries))
			case arena[j] >= 0:
				return malformed(path, value, "node %d has more than one parent", j)
			case entries[j].char != key.Value:
				return malformed(nodePath(j), value, "char %q does not match its key %q", entries[j].char, key.Value)
			}
			if _, ok := t.child(arena[i], r); ok {
				return malformed(path, key, "duplicate child %q", key.Value)
			}
			arena[j] = t.addChild(arena[i], r)
		}
	}
	return nil
}

func nodePath(i int) string {
	return fieldNodes + "[" + strconv.Itoa(i) + "]"
}

// fields checks that n is a mapping holding exactly the given keys and
// returns their values.
func fields(n *yaml.Node, path string, keys ...string) (map[string]*yaml.Node, error) {
	if err := checkKind(n, path, yaml.MappingNode); err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(keys))
	for _, k := range keys {
		allowed[k] = true
	}
	values := make(map[string]*yaml.Node, len(keys))
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if err := checkScalar(key, path); err != nil {
			return nil, err
		}
		if !allowed[key.Value] {
			return nil, malformed(path, key, "unknown field %q", key.Value)
		}
		if _, ok := values[key.Value]; ok {
			return nil, malformed(path, key, "duplicate field %q", key.Value)
		}
		values[key.Value] = n.Content[i+1]
	}
	for _, k := range keys {
		if _, ok := values[k]; !ok {
			return nil, malformed(path, n, "missing field %q", k)
		}
	}
	return values, nil
}

func checkKind(n *yaml.Node, path string, kind yaml.Kind) error {
	if n.Kind == yaml.AliasNode {
		return malformed(path, n, "aliases are not allowed")
	}
	if n.Kind != kind {
		return malformed(path, n, "expected %s, got %s", kindName(kind), kindName(n.Kind))
	}
	return nil
}

func checkScalar(n *yaml.Node, path string) error {
	if err := checkKind(n, path, yaml.ScalarNode); err != nil {
		return err
	}
	if n.ShortTag() == "!!null" {
		return malformed(path, n, "unexpected null")
	}
	return nil
}

func scalarField(f map[string]*yaml.Node, path, key string) (string, error) {
	n := f[key]
	if err := checkScalar(n, path+"/"+key); err != nil {
		return "", err
	}
	return n.Value, nil
}

func boolField(f map[string]*yaml.Node, path, key string) (bool, error) {
	n := f[key]
	if err := checkScalar(n, path+"/"+key); err != nil {
		return false, err
	}
	if n.ShortTag() != "!!bool" {
		return false, malformed(path+"/"+key, n, "expected bool, got %q", n.Value)
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, &DeserializationError{Path: path + "/" + key, Line: n.Line, Reason: "expected bool", Err: err}
	}
	return b, nil
}

func intField(f map[string]*yaml.Node, path, key string) (int, error) {
	return intValue(f[key], path+"/"+key)
}

func intValue(n *yaml.Node, path string) (int, error) {
	if err := checkScalar(n, path); err != nil {
		return 0, err
	}
	if n.ShortTag() != "!!int" {
		return 0, malformed(path, n, "expected int, got %q", n.Value)
	}
	var i int
	if err := n.Decode(&i); err != nil {
		return 0, &DeserializationError{Path: path, Line: n.Line, Reason: "expected int", Err: err}
	}
	return i, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "nothing"
}
