// Package sgml implements a validating XML/SGML parser: a character-driven
// tokenizer that builds an in-memory document tree, expands entities in
// place, resolves external DTDs, and optionally checks element nesting
// against a DTD-derived content model.
package sgml

import "strings"

// Name is the qualified name of an element, attribute, or declaration: an
// optional namespace prefix plus a local name. Equality against a bare
// string compares the local name only; equality against another Name
// compares both parts.
type Name struct {
	Space string
	Local string
}

// NewName builds a Name with no namespace prefix.
func NewName(local string) Name { return Name{Local: local} }

func (n Name) String() string {
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

// Equal compares names the way the document model requires: a bare string
// matches on local name alone, while another Name must match on both parts.
func (n Name) Equal(other any) bool {
	switch o := other.(type) {
	case string:
		return n.Local == o
	case Name:
		return n.Local == o.Local && n.Space == o.Space
	}
	return false
}

// Kind discriminates the closed set of node variants that make up a parsed
// document tree. A single tagged struct plus this discriminant stands in
// for a class-per-variant hierarchy.
type Kind int

const (
	KindDocument Kind = iota
	KindElement
	KindAttribute
	KindText
	KindProcessingInstruction
	KindDocumentType
	KindElementType
	KindEntityDefinition
	KindComment
)

// Node is the single tagged variant for every node in a parsed document.
// Fields are populated according to Kind; unused fields are the zero value.
// Parent is a non-owning back-reference; the root is its own parent,
// which lets every node walk Ancestors without a nil check at the top.
type Node struct {
	Kind   Kind
	Name   Name
	Parent *Node

	children []*Node

	// Text (KindText)
	runes []rune

	// Attribute (KindAttribute)
	value *Node // a KindText node holding the attribute's value

	// ProcessingInstruction (KindProcessingInstruction) keeps its raw
	// content after the target name as a single KindText child; its
	// pseudo-attributes are not split into KindAttribute nodes.

	// DocumentType (KindDocumentType)
	Root     string
	Location []string // zero, one (SYSTEM) or two (PUBLIC) URIs

	// ElementType (KindElementType)
	Content *ContentModel
	Attrs   map[string]string // per-instance; never shared between declarations

	// EntityDefinition (KindEntityDefinition)
	EntityValue string
	System      bool

	// MarkupComment (KindComment)
	Comment string
}

// NewDocument creates a root node that is its own parent.
func NewDocument() *Node {
	doc := &Node{Kind: KindDocument}
	doc.Parent = doc
	return doc
}

// NewElement creates an element node, namespaced by name, attached to no
// parent yet; callers append it to the current ancestor-stack frame.
func NewElement(name Name, parent *Node) *Node {
	return &Node{Kind: KindElement, Name: name, Parent: parent}
}

// NewText creates a text node from an initial rune slice.
func NewText(s string) *Node {
	return &Node{Kind: KindText, runes: []rune(s)}
}

// NewAttribute creates an attribute node with the given qualified name and
// string value.
func NewAttribute(name Name, value string) *Node {
	return &Node{Kind: KindAttribute, Name: name, value: NewText(value)}
}

// Append adds a child to n and sets the child's parent to n, matching the
// lifecycle rule that a node is only mutated while it is the ancestor
// stack's top-of-stack frame.
func (n *Node) Append(child *Node) {
	child.Parent = n
	n.children = append(n.children, child)
}

// Children returns n's direct child slice. Callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// Text returns the string content of a KindText node.
func (n *Node) Text() string { return string(n.runes) }

// AppendRunes extends a KindText node's content in place, used by the
// tokenizer to accumulate a text run character by character.
func (n *Node) AppendRunes(s string) { n.runes = append(n.runes, []rune(s)...) }

// Value returns the string value of a KindAttribute node.
func (n *Node) Value() string {
	if n.value == nil {
		return ""
	}
	return n.value.Text()
}

// SetValue overwrites a KindAttribute node's value.
func (n *Node) SetValue(v string) { n.value = NewText(v) }

// Collapse returns a copy of a text node's content with runs of whitespace
// (space, tab, CR, LF) normalized to a single space.
func (n *Node) Collapse() string {
	var b strings.Builder
	lastSpace := false
	for _, r := range n.runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// Escape returns the text content with &, <, ', " escaped for serialization.
func (n *Node) Escape() string { return EscapeText(n.Text()) }

// EscapeText XML-escapes &, <, ', " in s.
func EscapeText(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		"'", "&apos;",
		"\"", "&quot;",
	)
	return r.Replace(s)
}

// Predicate decides whether a node matches a filter/find query.
type Predicate func(*Node) bool

// IsElement matches any element node.
func IsElement(n *Node) bool { return n.Kind == KindElement }

// IsText matches any text node.
func IsText(n *Node) bool { return n.Kind == KindText }

// NameIs returns a Predicate matching elements (or any named node) whose
// Name equals the given local name.
func NameIs(local string) Predicate {
	return func(n *Node) bool { return n.Name.Equal(local) }
}

// Find returns the index paths (pre-order, parent before child) of
// descendants matching cond, descending up to walk levels: 0 restricts to
// n's direct children, -1 is unbounded.
func (n *Node) Find(cond Predicate, walk int) [][]int {
	var out [][]int
	for i, child := range n.children {
		if cond(child) {
			out = append(out, []int{i})
		}
		if walk != 0 {
			nextWalk := walk - 1
			for _, sub := range child.Find(cond, nextWalk) {
				out = append(out, append([]int{i}, sub...))
			}
		}
	}
	return out
}

// Filter lazily (eagerly, for simplicity — the tree is already in memory)
// yields the nodes matching cond up to walk levels deep. walk=0 restricts
// the search to n's direct children; walk=-1 is unbounded.
func (n *Node) Filter(cond Predicate, walk int) []*Node {
	paths := n.Find(cond, walk)
	out := make([]*Node, 0, len(paths))
	for _, p := range paths {
		out = append(out, n.AtPath(p))
	}
	return out
}

// AtPath descends n level by level following a path of child indices.
func (n *Node) AtPath(path []int) *Node {
	cur := n
	for _, idx := range path {
		cur = cur.children[idx]
	}
	return cur
}

// Replace rewrites every node matching cond (up to walk levels deep) with
// the result of applying by.
func (n *Node) Replace(cond Predicate, by func(*Node) *Node, walk int) {
	for _, path := range n.Find(cond, walk) {
		parent := n
		for _, idx := range path[:len(path)-1] {
			parent = parent.children[idx]
		}
		last := path[len(path)-1]
		replacement := by(parent.children[last])
		replacement.Parent = parent
		parent.children[last] = replacement
	}
}

// ChildElements returns n's direct child elements matching cond, or all of
// them if cond is nil.
func (n *Node) ChildElements(cond Predicate) []*Node {
	if cond == nil {
		cond = func(*Node) bool { return true }
	}
	var out []*Node
	for _, c := range n.Filter(cond, 0) {
		if c.Kind == KindElement {
			out = append(out, c)
		}
	}
	return out
}

// Siblings returns n's siblings (elements sharing n's parent) matching cond.
func (n *Node) Siblings(cond Predicate) []*Node {
	if cond == nil {
		cond = func(*Node) bool { return true }
	}
	var out []*Node
	for _, s := range n.Parent.ChildElements(cond) {
		if s != n {
			out = append(out, s)
		}
	}
	return out
}

// Preceding returns the closest prior sibling element matching cond, or nil.
func (n *Node) Preceding(cond Predicate) *Node {
	if cond == nil {
		cond = func(*Node) bool { return true }
	}
	var last *Node
	for _, s := range n.Parent.ChildElements(nil) {
		if s == n {
			return last
		}
		if cond(s) {
			last = s
		}
	}
	return nil
}

// Following returns the closest next sibling element matching cond, or nil.
func (n *Node) Following(cond Predicate) *Node {
	if cond == nil {
		cond = func(*Node) bool { return true }
	}
	over := false
	for _, s := range n.Parent.ChildElements(nil) {
		if s == n {
			over = true
			continue
		}
		if over && cond(s) {
			return s
		}
	}
	return nil
}

// Ancestors yields n's ancestors, nearest first, matching cond, stopping
// after walk levels (-1 is unbounded).
func (n *Node) Ancestors(cond Predicate, walk int) []*Node {
	if cond == nil {
		cond = func(*Node) bool { return true }
	}
	var out []*Node
	cur := n
	for walk != 0 {
		next := cur.Parent
		if next == cur {
			break // root is its own parent: sentinel for "no further ancestor"
		}
		walk--
		cur = next
		if cond(cur) {
			out = append(out, cur)
		}
	}
	return out
}
