package sgml

import "testing"

func TestNameEqual(t *testing.T) {
	n := Name{Space: "ns", Local: "title"}
	if !n.Equal("title") {
		t.Fatalf("Equal(string) should match on local name alone")
	}
	if !n.Equal(Name{Space: "ns", Local: "title"}) {
		t.Fatalf("Equal(Name) should match on both parts")
	}
	if n.Equal(Name{Local: "title"}) {
		t.Fatalf("Equal(Name) should not ignore namespace")
	}
}

func TestNodeAppendAndChildren(t *testing.T) {
	doc := NewDocument()
	book := NewElement(NewName("book"), nil)
	title := NewElement(NewName("title"), nil)
	doc.Append(book)
	book.Append(title)

	if title.Parent != book {
		t.Fatalf("Append should set the child's parent")
	}
	if len(doc.Children()) != 1 || len(book.Children()) != 1 {
		t.Fatalf("Append should extend the parent's child slice")
	}
}

func TestCollapseNormalizesWhitespace(t *testing.T) {
	text := NewText("  hello\t\tworld \n ")
	if got := text.Collapse(); got != " hello world " {
		t.Fatalf("Collapse() = %q", got)
	}
}

func TestEscapeText(t *testing.T) {
	got := EscapeText(`a & b < c > "d" 'e'`)
	want := `a &amp; b &lt; c > &quot;d&quot; &apos;e&apos;`
	if got != want {
		t.Fatalf("EscapeText() = %q, want %q", got, want)
	}
}

func TestFilterAndAtPath(t *testing.T) {
	doc := NewDocument()
	root := NewElement(NewName("library"), nil)
	doc.Append(root)
	for _, title := range []string{"Dune", "Foundation"} {
		book := NewElement(NewName("book"), nil)
		book.Append(NewText(title))
		root.Append(book)
	}

	books := doc.Filter(NameIs("book"), -1)
	if len(books) != 2 {
		t.Fatalf("Filter found %d books, want 2", len(books))
	}
	if got := books[1].Children()[0].Text(); got != "Foundation" {
		t.Fatalf("second book text = %q", got)
	}
}

func TestSiblingsAndAncestors(t *testing.T) {
	doc := NewDocument()
	root := NewElement(NewName("shelf"), nil)
	doc.Append(root)
	a := NewElement(NewName("book"), nil)
	b := NewElement(NewName("book"), nil)
	c := NewElement(NewName("book"), nil)
	root.Append(a)
	root.Append(b)
	root.Append(c)

	if got := b.Preceding(nil); got != a {
		t.Fatalf("Preceding(b) = %v, want a", got)
	}
	if got := b.Following(nil); got != c {
		t.Fatalf("Following(b) = %v, want c", got)
	}
	if len(b.Siblings(nil)) != 2 {
		t.Fatalf("Siblings(b) should exclude b itself")
	}
	ancestors := c.Ancestors(nil, -1)
	if len(ancestors) != 2 || ancestors[0] != root || ancestors[1] != doc {
		t.Fatalf("Ancestors(c) = %v", ancestors)
	}
}
