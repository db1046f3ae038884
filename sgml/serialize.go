package sgml

import (
	"bytes"
	"fmt"
	"sort"
)

// String renders the subtree rooted at n as indented markup, attributes in
// declaration order. It is meant for humans: diffing two renderings of the
// same logical document is Canonicalize's job, not this one.
func (n *Node) String() string {
	var buf bytes.Buffer
	writeIndented(&buf, n, 0)
	return buf.String()
}

func writeIndented(buf *bytes.Buffer, n *Node, depth int) {
	indent := func() {
		for i := 0; i < depth; i++ {
			buf.WriteString("  ")
		}
	}
	switch n.Kind {
	case KindDocument:
		for _, c := range n.Children() {
			writeIndented(buf, c, depth)
		}
	case KindText:
		if s := n.Text(); len(s) > 0 {
			indent()
			buf.WriteString(n.Escape())
			buf.WriteByte('\n')
		}
	case KindComment:
		indent()
		fmt.Fprintf(buf, "<!--%s-->\n", n.Comment)
	case KindProcessingInstruction:
		indent()
		fmt.Fprintf(buf, "<?%s", n.Name.String())
		for _, c := range n.Children() {
			if c.Kind == KindText {
				buf.WriteByte(' ')
				buf.WriteString(c.Text())
			}
		}
		buf.WriteString("?>\n")
	case KindDocumentType:
		indent()
		fmt.Fprintf(buf, "<!DOCTYPE %s", n.Root)
		switch len(n.Location) {
		case 1:
			fmt.Fprintf(buf, " SYSTEM \"%s\"", n.Location[0])
		case 2:
			fmt.Fprintf(buf, " PUBLIC \"%s\" \"%s\"", n.Location[0], n.Location[1])
		}
		buf.WriteString(">\n")
	case KindElement:
		indent()
		buf.WriteByte('<')
		buf.WriteString(n.Name.String())
		for _, a := range n.children {
			if a.Kind == KindAttribute {
				fmt.Fprintf(buf, " %s=\"%s\"", a.Name.String(), EscapeText(a.Value()))
			}
		}
		kids := n.ChildElements(nil)
		text := n.Filter(IsText, 0)
		if len(kids) == 0 && len(text) == 0 {
			buf.WriteString("/>\n")
			return
		}
		buf.WriteString(">\n")
		for _, c := range n.children {
			if c.Kind != KindAttribute {
				writeIndented(buf, c, depth+1)
			}
		}
		indent()
		fmt.Fprintf(buf, "</%s>\n", n.Name.String())
	}
}

// Canonicalize renders the subtree rooted at n in a fixed, comparison-
// friendly form: attributes sorted by name, no self-closing tags, no
// indentation whitespace. Two documents that differ only in attribute
// order or formatting canonicalize to the same bytes.
func Canonicalize(n *Node) []byte {
	var buf bytes.Buffer
	writeCanonical(&buf, n)
	return buf.Bytes()
}

func writeCanonical(buf *bytes.Buffer, n *Node) {
	switch n.Kind {
	case KindDocument:
		for _, c := range n.Children() {
			writeCanonical(buf, c)
		}
	case KindText:
		buf.WriteString(n.Escape())
	case KindComment:
		fmt.Fprintf(buf, "<!--%s-->", n.Comment)
	case KindElement:
		buf.WriteByte('<')
		buf.WriteString(n.Name.String())

		var attrs []*Node
		for _, a := range n.children {
			if a.Kind == KindAttribute {
				attrs = append(attrs, a)
			}
		}
		sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name.String() < attrs[j].Name.String() })
		for _, a := range attrs {
			fmt.Fprintf(buf, " %s=\"%s\"", a.Name.String(), EscapeText(a.Value()))
		}
		buf.WriteByte('>')

		for _, c := range n.children {
			if c.Kind != KindAttribute {
				writeCanonical(buf, c)
			}
		}
		fmt.Fprintf(buf, "</%s>", n.Name.String())
	case KindProcessingInstruction, KindDocumentType, KindElementType, KindEntityDefinition:
		// declarations carry no content identity once a document is parsed;
		// they are excluded from the canonical form, same as XML C14N drops
		// the doctype.
	}
}
