package sgml

import "testing"

func TestParseBasicDocument(t *testing.T) {
	doc, err := New().ParseString(`<book><title>Dune</title><author>Herbert</author></book>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	books := doc.Filter(NameIs("book"), -1)
	if len(books) != 1 {
		t.Fatalf("expected 1 book, got %d", len(books))
	}
	titles := books[0].Filter(NameIs("title"), 0)
	if len(titles) != 1 || titles[0].Children()[0].Text() != "Dune" {
		t.Fatalf("title not parsed correctly: %+v", titles)
	}
}

func TestParseAttributesAndSelfClosing(t *testing.T) {
	doc, err := New().ParseString(`<img src="a.png" alt="cover"/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	imgs := doc.Filter(NameIs("img"), -1)
	if len(imgs) != 1 {
		t.Fatalf("expected 1 img, got %d", len(imgs))
	}
	img := imgs[0]
	if len(img.Children()) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(img.Children()))
	}
	if v, ok := img.QueryString("@src"); !ok || v != "a.png" {
		t.Fatalf("@src = %q, %v", v, ok)
	}
}

func TestParseNamespacedElement(t *testing.T) {
	doc, err := New().ParseString(`<ns:book ns:id="1"></ns:book>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	book := doc.Filter(IsElement, -1)[0]
	if book.Name.Space != "ns" || book.Name.Local != "book" {
		t.Fatalf("Name = %+v", book.Name)
	}
}

func TestParseMismatchedCloseTagIsLenientWithoutValidation(t *testing.T) {
	// Without validation, TestClosing never runs: a closing tag only pops
	// whatever frame is on top of the ancestor stack, regardless of
	// whether its name matches.
	if _, err := New().ParseString(`<a><b></a></b>`); err != nil {
		t.Fatalf("non-validating parse should not check closing-tag names: %v", err)
	}
}

func TestParseCloseTagWithNoOpenElementReturnsPartialTreeWithoutValidation(t *testing.T) {
	doc, err := New().ParseString(`<a></a></a>`)
	if err != nil {
		t.Fatalf("a non-validating parse should suppress InvalidMarkup and return the partial tree: %v", err)
	}
	if len(doc.Filter(NameIs("a"), -1)) != 1 {
		t.Fatalf("doc = %v, want the single completed <a></a> already parsed", doc)
	}
}

func TestParseCloseTagWithNoOpenElementIsAnErrorWhenValidating(t *testing.T) {
	_, err := New(WithValidation(true)).ParseString(`<!DOCTYPE a [<!ELEMENT a EMPTY>]>
<a></a></a>`)
	if err == nil {
		t.Fatalf("expected an error: a closing tag with no open element")
	}
	me, ok := err.(*InvalidMarkupError)
	if !ok || me.Kind != TagNotMatching {
		t.Fatalf("err = %v, want *InvalidMarkupError{Kind: TagNotMatching}", err)
	}
}

func TestParseEntityReferenceInText(t *testing.T) {
	doc, err := New().ParseString(`<note>Tom &amp; Jerry</note>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	note := doc.Filter(NameIs("note"), -1)[0]
	if got := note.Children()[0].Text(); got != "Tom & Jerry" {
		t.Fatalf("text = %q", got)
	}
}

func TestParseComment(t *testing.T) {
	doc, err := New().ParseString(`<a><!-- note --></a>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	comments := doc.Filter(func(n *Node) bool { return n.Kind == KindComment }, -1)
	if len(comments) != 1 || comments[0].Comment != " note " {
		t.Fatalf("comments = %+v", comments)
	}
}

func TestParseCDATA(t *testing.T) {
	doc, err := New().ParseString(`<a><![CDATA[<raw> & unescaped]]></a>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a := doc.Filter(NameIs("a"), -1)[0]
	if got := a.Children()[0].Text(); got != "<raw> & unescaped" {
		t.Fatalf("CDATA text = %q", got)
	}
}

func TestParseDoctypeWithInternalSubsetValidatesAccept(t *testing.T) {
	src := `<!DOCTYPE book [
  <!ELEMENT book (title, author)>
  <!ELEMENT title (#PCDATA)>
  <!ELEMENT author (#PCDATA)>
]>
<book><title>Dune</title><author>Herbert</author></book>`
	if _, err := New(WithValidation(true)).ParseString(src); err != nil {
		t.Fatalf("expected valid document, got error: %v", err)
	}
}

func TestParseValidationRejectsUndeclaredElement(t *testing.T) {
	src := `<!DOCTYPE book [
  <!ELEMENT book (title)>
  <!ELEMENT title (#PCDATA)>
]>
<book><subtitle>oops</subtitle></book>`
	_, err := New(WithValidation(true)).ParseString(src)
	me, ok := err.(*InvalidMarkupError)
	if !ok {
		t.Fatalf("err = %v, want *InvalidMarkupError", err)
	}
	if me.Kind != ElementNotDefined {
		t.Fatalf("Kind = %v, want ElementNotDefined", me.Kind)
	}
}

func TestParseValidationRejectsMismatchedClose(t *testing.T) {
	src := `<!DOCTYPE book [
  <!ELEMENT book (title)>
  <!ELEMENT title (#PCDATA)>
]>
<book><title>Dune</book></title>`
	_, err := New(WithValidation(true)).ParseString(src)
	me, ok := err.(*InvalidMarkupError)
	if !ok {
		t.Fatalf("err = %v, want *InvalidMarkupError", err)
	}
	if me.Kind != TagNotMatching {
		t.Fatalf("Kind = %v, want TagNotMatching", me.Kind)
	}
}

func TestParseValidationRequiresDoctype(t *testing.T) {
	_, err := New(WithValidation(true)).ParseString(`<book/>`)
	me, ok := err.(*InvalidMarkupError)
	if !ok {
		t.Fatalf("err = %v, want *InvalidMarkupError", err)
	}
	if me.Kind != NoDTDDefined {
		t.Fatalf("Kind = %v, want NoDTDDefined", me.Kind)
	}
}

func TestParseAttlistDefaults(t *testing.T) {
	src := `<!DOCTYPE book [
  <!ELEMENT book (#PCDATA)>
  <!ATTLIST book lang CDATA "en">
]>
<book>hi</book>`
	doc, err := New(WithValidation(true)).ParseString(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	doctype := doc.Filter(func(n *Node) bool { return n.Kind == KindDocumentType }, -1)[0]
	et := doctype.Filter(NameIs("book"), 0)[0]
	if et.Attrs["lang"] != "en" {
		t.Fatalf("Attrs = %v", et.Attrs)
	}
}

func TestParseEntityDeclarationAndExpansion(t *testing.T) {
	src := `<!DOCTYPE note [
  <!ENTITY writer "Herbert">
]>
<note>&writer;</note>`
	doc, err := New().ParseString(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	note := doc.Filter(NameIs("note"), -1)[0]
	if got := note.Children()[0].Text(); got != "Herbert" {
		t.Fatalf("note text = %q", got)
	}
}

func TestParseUnclosedElementReturnsPartialTreeWithoutValidation(t *testing.T) {
	doc, err := New().ParseString(`<a><b></b>`)
	if err != nil {
		t.Fatalf("a non-validating parse should suppress InvalidMarkup and return the partial tree: %v", err)
	}
	a := doc.Filter(NameIs("a"), -1)
	if len(a) != 1 || len(a[0].Filter(NameIs("b"), -1)) != 1 {
		t.Fatalf("doc = %v, want the partial <a><b></b> tree", doc)
	}
}

func TestParseUnclosedElementIsAnErrorWhenValidating(t *testing.T) {
	_, err := New(WithValidation(true)).ParseString(`<!DOCTYPE a [
  <!ELEMENT a (b)>
  <!ELEMENT b EMPTY>
]>
<a><b></b>`)
	if err == nil {
		t.Fatalf("expected an error for an unclosed element while validating")
	}
	me, ok := err.(*InvalidMarkupError)
	if !ok || me.Kind != TagNotMatching {
		t.Fatalf("err = %v, want *InvalidMarkupError{Kind: TagNotMatching}", err)
	}
}
