package sgml

import (
	"math"
	"strings"
)

// Occurrence carries the (min, max) occurrence bounds of a content-model
// node. Max uses math.Inf(1) to represent the unbounded '*'/'+' modifiers.
type Occurrence struct {
	Min int
	Max float64 // math.Inf(1) for unbounded
}

var (
	occOne      = Occurrence{1, 1}
	occOptional = Occurrence{0, 1}    // '?'
	occAny      = Occurrence{0, math.Inf(1)} // '*'
	occAtLeast1 = Occurrence{1, math.Inf(1)} // '+'
)

// occurrenceFor maps a trailing modifier character to its (min, max) pair,
// defaulting to exactly-once when the character is unrecognized.
func occurrenceFor(mod byte) Occurrence {
	switch mod {
	case '?':
		return occOptional
	case '*':
		return occAny
	case '+':
		return occAtLeast1
	default:
		return occOne
	}
}

// modifierFor returns the canonical serialization suffix for an occurrence.
func modifierFor(o Occurrence) string {
	switch {
	case o.Min == 0 && o.Max == 1:
		return "?"
	case o.Min == 1 && math.IsInf(o.Max, 1):
		return "+"
	case o.Min == 0 && math.IsInf(o.Max, 1):
		return "*"
	default:
		return ""
	}
}

// ModelKind discriminates the content-model mini-language's variants.
type ModelKind int

const (
	ModelLeaf ModelKind = iota
	ModelChoice
	ModelSequence
	ModelAny
	ModelEmpty
	ModelCharacters
)

// ContentModel is the DTD mini-language node: a leaf element name, a choice
// or sequence group of children, or one of the special terminals ANY, EMPTY,
// #PCDATA. Every node carries an Occurrence. It is immutable once the
// ELEMENT declaration that built it closes.
type ContentModel struct {
	Kind     ModelKind
	Leaf     string // ModelLeaf: the element's local name
	Children []*ContentModel
	Occurrence
}

// NewLeaf builds a leaf content-model node matching an element named local.
func NewLeaf(local string, occ Occurrence) *ContentModel {
	return &ContentModel{Kind: ModelLeaf, Leaf: local, Occurrence: occ}
}

// NewGroup builds an empty Choice or Sequence group with the given
// occurrence, ready to receive children via Append.
func NewGroup(kind ModelKind, occ Occurrence) *ContentModel {
	return &ContentModel{Kind: kind, Occurrence: occ}
}

// Append adds a child to a Choice or Sequence group.
func (m *ContentModel) Append(child *ContentModel) {
	m.Children = append(m.Children, child)
}

// specialTerminal resolves identifiers matching ANY/EMPTY/#PCDATA to their
// terminal ContentModel, or nil if ident names neither.
func specialTerminal(ident string, occ Occurrence) *ContentModel {
	switch ident {
	case "ANY":
		return &ContentModel{Kind: ModelAny, Occurrence: occ}
	case "EMPTY":
		return &ContentModel{Kind: ModelEmpty, Occurrence: occ}
	case "#PCDATA":
		return &ContentModel{Kind: ModelCharacters, Occurrence: occ}
	}
	return nil
}

// Matches reports whether node (an Element or Text) satisfies this model's
// terminal kind: a Leaf matches an Element whose local name equals the
// leaf string; #PCDATA matches Text; ANY matches any Element or Text;
// EMPTY matches nothing (no content is ever "a" node satisfying it).
func (m *ContentModel) Matches(node *Node) bool {
	switch m.Kind {
	case ModelLeaf:
		return node.Kind == KindElement && node.Name.Equal(m.Leaf)
	case ModelCharacters:
		return node.Kind == KindText
	case ModelAny:
		return node.Kind == KindElement || node.Kind == KindText
	case ModelEmpty:
		return false
	default:
		return false
	}
}

// Contains is the coarse "allowed somewhere" membership test (model ∋ node)
// used by the validator's parent-legality check: Choice ∋ x iff some branch
// does; Sequence ∋ x iff some position does. Ordered matching instead uses
// First/Last below.
func (m *ContentModel) Contains(node *Node) bool {
	switch m.Kind {
	case ModelChoice, ModelSequence:
		for _, c := range m.Children {
			if c.Contains(node) {
				return true
			}
		}
		return false
	default:
		return m.Matches(node)
	}
}

// First returns the set of Leaf terminal names that may begin a legal
// expansion of m: the union over branches for a Choice, and — for a
// Sequence — a left-to-right walk that stops at (and includes) the first
// child whose min >= 1, after unioning the nullable prefix.
func (m *ContentModel) First() map[string]bool {
	out := map[string]bool{}
	m.collectFirst(out)
	return out
}

func (m *ContentModel) collectFirst(out map[string]bool) {
	switch m.Kind {
	case ModelLeaf:
		out[m.Leaf] = true
	case ModelCharacters:
		out["#PCDATA"] = true
	case ModelChoice:
		for _, c := range m.Children {
			c.collectFirst(out)
		}
	case ModelSequence:
		for _, c := range m.Children {
			c.collectFirst(out)
			if c.Min >= 1 {
				return
			}
		}
	}
}

// Last returns the set of Leaf terminal names that may end a legal
// expansion of m: in a Sequence, walk right-to-left, unioning nullable
// tails until (and including) the first child whose min >= 1; in a
// Choice, union over all branches.
func (m *ContentModel) Last() map[string]bool {
	out := map[string]bool{}
	m.collectLast(out)
	return out
}

func (m *ContentModel) collectLast(out map[string]bool) {
	switch m.Kind {
	case ModelLeaf:
		out[m.Leaf] = true
	case ModelCharacters:
		out["#PCDATA"] = true
	case ModelChoice:
		for _, c := range m.Children {
			c.collectLast(out)
		}
	case ModelSequence:
		for i := len(m.Children) - 1; i >= 0; i-- {
			c := m.Children[i]
			c.collectLast(out)
			if c.Min >= 1 {
				return
			}
		}
	}
}

// String renders m in canonical `(A, B?)+` DTD syntax.
func (m *ContentModel) String() string {
	switch m.Kind {
	case ModelAny:
		return "ANY"
	case ModelEmpty:
		return "EMPTY"
	case ModelCharacters:
		return "#PCDATA"
	case ModelLeaf:
		return m.Leaf + modifierFor(m.Occurrence)
	case ModelChoice:
		return m.join(" | ") + modifierFor(m.Occurrence)
	case ModelSequence:
		return m.join(", ") + modifierFor(m.Occurrence)
	}
	return ""
}

func (m *ContentModel) join(sep string) string {
	parts := make([]string, len(m.Children))
	for i, c := range m.Children {
		switch c.Kind {
		case ModelChoice, ModelSequence:
			parts[i] = c.join(joinSepFor(c.Kind)) + modifierFor(c.Occurrence)
		default:
			parts[i] = c.String()
		}
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func joinSepFor(k ModelKind) string {
	if k == ModelChoice {
		return " | "
	}
	return ", "
}
