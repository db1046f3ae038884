package sgml

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeNumericReference(t *testing.T) {
	cases := []struct {
		name string
		want rune
		ok   bool
	}{
		{"#65", 'A', true},
		{"#x41", 'A', true},
		{"#X41", 'A', true},
		{"0x41", 'A', true},
		{"0o101", 'A', true},
		{"#x110000", 0, false}, // past the Unicode maximum
		{"notanumber", 0, false},
	}
	for _, c := range cases {
		got, ok := decodeNumericReference(c.name)
		if ok != c.ok {
			t.Errorf("decodeNumericReference(%q) ok = %v, want %v", c.name, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("decodeNumericReference(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestEntityResolverBuiltins(t *testing.T) {
	s := NewCharStream("amp;rest")
	r := newEntityResolver(false, "")
	accum := NewText("")
	if err := r.Reference(s, nil, accum); err != nil {
		t.Fatalf("Reference: %v", err)
	}
	if accum.Text() != "&" {
		t.Fatalf("accum.Text() = %q, want &", accum.Text())
	}
	if got := s.Read(4); got != "rest" {
		t.Fatalf("stream should resume right after the ';', got %q", got)
	}
}

func TestEntityResolverValidatingUndefined(t *testing.T) {
	s := NewCharStream("nosuch;")
	r := newEntityResolver(true, "")
	err := r.Reference(s, nil, NewText(""))
	me, ok := err.(*InvalidMarkupError)
	if !ok {
		t.Fatalf("Reference() error = %v, want *InvalidMarkupError", err)
	}
	if me.Kind != EntityNotDefined {
		t.Fatalf("Kind = %v, want EntityNotDefined", me.Kind)
	}
}

func TestEntityResolverNonValidatingLogsUndefined(t *testing.T) {
	s := NewCharStream("nosuch;")
	r := newEntityResolver(false, "")
	if err := r.Reference(s, nil, NewText("")); err != nil {
		t.Fatalf("non-validating Reference should not fail: %v", err)
	}
	if got := r.UndefinedEntities(); len(got) != 1 || got[0] != "nosuch" {
		t.Fatalf("UndefinedEntities() = %v", got)
	}
}

func TestEntityResolverNonValidatingPersistsLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "entities_to_define")
	r := newEntityResolver(false, logPath)

	if err := r.Reference(NewCharStream("first;"), nil, NewText("")); err != nil {
		t.Fatalf("Reference: %v", err)
	}
	if err := r.Reference(NewCharStream("second;"), nil, NewText("")); err != nil {
		t.Fatalf("Reference: %v", err)
	}

	got, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "first\nsecond\n" {
		t.Fatalf("log contents = %q", got)
	}
}

func TestEntityResolverGeneralDefinition(t *testing.T) {
	doctype := &Node{Kind: KindDocumentType}
	doctype.Append(&Node{Kind: KindEntityDefinition, Name: NewName("writer"), EntityValue: "Herbert"})
	doc := NewDocument()
	doc.Append(doctype)
	ancestors := []*Node{doc, doctype}

	s := NewCharStream("writer;remainder")
	r := newEntityResolver(false, "")
	if err := r.Reference(s, ancestors, NewText("")); err != nil {
		t.Fatalf("Reference: %v", err)
	}
	if got := s.Read(100); got != "Herbertremainder" {
		t.Fatalf("stream after splice = %q", got)
	}
}
