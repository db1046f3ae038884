package sgml

import "strings"

// badNameStart holds the characters that may not begin an element or
// attribute name.
const badNameStart = "0123456789@#%^"

// Validator runs a fixed set of pluggable structural checks, invoked at
// defined hook points during parsing. A zero-value Validator with Enabled
// false makes every hook a no-op.
type Validator struct {
	Enabled bool
}

// TestName rejects an element or attribute name whose first character is
// in badNameStart.
func (v *Validator) TestName(first rune, pos int, ancestors []*Node) error {
	if !v.Enabled {
		return nil
	}
	if strings.ContainsRune(badNameStart, first) {
		return newInvalidMarkup(IllegalCharacter,
			"this character is not allowed at the beginning of a name: '"+string(first)+"'",
			Context{Token: string(first), Position: pos, Ancestors: ancestorNames(ancestors)})
	}
	return nil
}

// TestDoctype requires exactly one DocumentType in scope before any
// element may open.
func (v *Validator) TestDoctype(doc *Node, pos int, ancestors []*Node) error {
	if !v.Enabled {
		return nil
	}
	dtds := doc.Filter(func(n *Node) bool { return n.Kind == KindDocumentType }, -1)
	switch len(dtds) {
	case 0:
		return newInvalidMarkup(NoDTDDefined, "there is no doctype to be found",
			Context{Position: pos, Ancestors: ancestorNames(ancestors)})
	case 1:
		return nil
	default:
		return newInvalidMarkup(NoDTDDefined, "not sure which doctype to use",
			Context{Position: pos, Ancestors: ancestorNames(ancestors)})
	}
}

// TestExistence requires an ElementType named name under the nearest
// DocumentType.
func (v *Validator) TestExistence(doc *Node, name Name, pos int, ancestors []*Node) error {
	if !v.Enabled {
		return nil
	}
	doctype := nearestDocumentType(append(ancestors, doc))
	if doctype == nil {
		return nil // TestDoctype already reports the missing DTD
	}
	defs := doctype.Filter(func(n *Node) bool {
		return n.Kind == KindElementType && n.Name.Equal(name.Local)
	}, 0)
	if len(defs) == 0 {
		return newInvalidMarkup(ElementNotDefined, "element '"+name.String()+"' is not defined",
			Context{Token: name.String(), Position: pos, Ancestors: ancestorNames(ancestors)})
	}
	return nil
}

// TestParent requires some ElementType whose content allows name as a
// child and whose own name matches the current parent's name, unless the
// parent is the document root.
func (v *Validator) TestParent(doc *Node, name Name, pos int, ancestors []*Node) error {
	if !v.Enabled || len(ancestors) <= 1 {
		return nil
	}
	parent := ancestors[len(ancestors)-1]
	doctype := nearestDocumentType(append(ancestors, doc))
	if doctype == nil {
		return nil
	}
	matches := doctype.Filter(func(n *Node) bool {
		return n.Kind == KindElementType && n.Name.Equal(parent.Name.Local) &&
			n.Content != nil && n.Content.Contains(&Node{Kind: KindElement, Name: name})
	}, 0)
	if len(matches) == 0 {
		return newInvalidMarkup(InvalidNesting,
			"element '"+name.String()+"' has the wrong parent ('"+parent.Name.String()+"')",
			Context{Token: name.String(), Position: pos, Ancestors: ancestorNames(ancestors)})
	}
	return nil
}

// TestSiblings enforces root multiplicity: a second root-level element is
// rejected with MultipleRoots. Order-sensitive sibling legality against a
// content model's sequencing is intentionally left unchecked here; it
// would require re-deriving position within the parent's expansion on
// every insert, which ContentModel.Contains does not attempt.
func (v *Validator) TestSiblings(parent *Node, pos int, ancestors []*Node) error {
	if !v.Enabled {
		return nil
	}
	if parent.Kind != KindDocument {
		return nil
	}
	if len(parent.ChildElements(nil)) > 0 {
		return newInvalidMarkup(MultipleRoots, "there is more than one root to this document",
			Context{Position: pos, Ancestors: ancestorNames(ancestors)})
	}
	return nil
}

// TestClosing requires that a closing tag's name matches the element it is
// closing.
func (v *Validator) TestClosing(opened *Node, name Name, pos int, ancestors []*Node) error {
	if !v.Enabled {
		return nil
	}
	if !opened.Name.Equal(name.Local) {
		return newInvalidMarkup(TagNotMatching,
			"tag '"+opened.Name.String()+"' has not been closed, and tag '"+name.String()+"' is being closed",
			Context{Token: name.String(), Position: pos, Ancestors: ancestorNames(ancestors)})
	}
	return nil
}

// TestKids compares an element's non-whitespace children against its
// ElementType's content model: the final significant child (an element by
// its local name, or non-blank text as "#PCDATA") must lie in
// Last(content). Earlier children are not checked for order.
func (v *Validator) TestKids(doc *Node, elem *Node, pos int, ancestors []*Node) error {
	if !v.Enabled {
		return nil
	}
	doctype := nearestDocumentType(append(ancestors, doc))
	if doctype == nil {
		return nil
	}
	defs := doctype.Filter(func(n *Node) bool {
		return n.Kind == KindElementType && n.Name.Equal(elem.Name.Local)
	}, 0)
	if len(defs) == 0 {
		return nil // TestExistence already reports this
	}
	model := defs[0].Content
	if model == nil || model.Kind == ModelAny {
		return nil
	}

	content := significantChildren(elem)
	if len(content) == 0 {
		if model.Kind == ModelEmpty || model.Min == 0 {
			return nil
		}
	}
	if len(content) == 0 {
		return newInvalidMarkup(InvalidNesting, "this is not where it belongs",
			Context{Position: pos, Ancestors: ancestorNames(ancestors)})
	}

	last := content[len(content)-1]
	lastSet := model.Last()
	name := "#PCDATA"
	if last.Kind == KindElement {
		name = last.Name.Local
	}
	if !lastSet[name] {
		return newInvalidMarkup(InvalidNesting, "this is not where it belongs",
			Context{Token: name, Position: pos, Ancestors: ancestorNames(ancestors)})
	}
	return nil
}

// significantChildren returns elem's Element and non-blank Text children,
// stripping the superfluous whitespace-only text nodes the tokenizer emits
// between tags.
func significantChildren(elem *Node) []*Node {
	var out []*Node
	for _, c := range elem.Children() {
		if c.Kind == KindElement {
			out = append(out, c)
			continue
		}
		if c.Kind == KindText && strings.TrimSpace(c.Text()) != "" {
			out = append(out, c)
		}
	}
	return out
}
