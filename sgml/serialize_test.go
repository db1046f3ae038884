package sgml

import (
	"strings"
	"testing"
)

func TestStringRendersNestedElements(t *testing.T) {
	doc, err := New().ParseString(`<book lang="en"><title>Dune</title></book>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := doc.String()
	for _, want := range []string{`<book lang="en">`, "<title>", "Dune", "</title>", "</book>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("String() = %q, missing %q", out, want)
		}
	}
}

func TestStringSelfClosesEmptyElement(t *testing.T) {
	doc, err := New().ParseString(`<br/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := strings.TrimSpace(doc.String()); got != "<br/>" {
		t.Fatalf("String() = %q, want <br/>", got)
	}
}

func TestCanonicalizeSortsAttributes(t *testing.T) {
	doc, err := New().ParseString(`<a z="1" a="2"></a>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := string(Canonicalize(doc))
	want := `<a a="2" z="1"></a>`
	if got != want {
		t.Fatalf("Canonicalize() = %q, want %q", got, want)
	}
}

func TestCanonicalizeIgnoresAttributeOrder(t *testing.T) {
	a, _ := New().ParseString(`<a x="1" y="2"/>`)
	b, _ := New().ParseString(`<a y="2" x="1"/>`)
	if string(Canonicalize(a)) != string(Canonicalize(b)) {
		t.Fatalf("documents differing only in attribute order should canonicalize identically")
	}
}
