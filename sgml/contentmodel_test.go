package sgml

import "testing"

func TestContentModelMatches(t *testing.T) {
	leaf := NewLeaf("title", occOne)
	elem := &Node{Kind: KindElement, Name: NewName("title")}
	other := &Node{Kind: KindElement, Name: NewName("author")}

	if !leaf.Matches(elem) {
		t.Fatalf("leaf 'title' should match an element named title")
	}
	if leaf.Matches(other) {
		t.Fatalf("leaf 'title' should not match an element named author")
	}
}

func TestContentModelFirstLastSequence(t *testing.T) {
	// (title, author?, note*) — the sequence's First is just {title}
	// since title's min is 1; Last walks right to left, taking note and
	// author (both min 0, so the walk continues) and then title (min 1,
	// where it stops).
	seq := NewGroup(ModelSequence, occOne)
	seq.Append(NewLeaf("title", occOne))
	seq.Append(NewLeaf("author", occOptional))
	seq.Append(NewLeaf("note", occAny))

	first := seq.First()
	if len(first) != 1 || !first["title"] {
		t.Fatalf("First() = %v, want {title}", first)
	}

	last := seq.Last()
	for _, want := range []string{"note", "author", "title"} {
		if !last[want] {
			t.Fatalf("Last() = %v, missing %q", last, want)
		}
	}
}

func TestContentModelChoiceFirstLast(t *testing.T) {
	choice := NewGroup(ModelChoice, occOne)
	choice.Append(NewLeaf("a", occOne))
	choice.Append(NewLeaf("b", occOne))

	if len(choice.First()) != 2 || len(choice.Last()) != 2 {
		t.Fatalf("a Choice's First/Last should union every branch")
	}
}

func TestContentModelString(t *testing.T) {
	seq := NewGroup(ModelSequence, occOne)
	seq.Append(NewLeaf("title", occOne))
	seq.Append(NewLeaf("author", occOptional))

	if got, want := seq.String(), "(title, author?)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestPCDATASequenceFirstLast(t *testing.T) {
	seq := NewGroup(ModelSequence, occOne)
	seq.Append(specialTerminal("#PCDATA", occOne))

	if !seq.First()["#PCDATA"] || !seq.Last()["#PCDATA"] {
		t.Fatalf("a (#PCDATA) sequence should report #PCDATA in both First and Last")
	}
}

func TestSpecialTerminals(t *testing.T) {
	anyModel := specialTerminal("ANY", occOne)
	empty := specialTerminal("EMPTY", occOne)
	pcdata := specialTerminal("#PCDATA", occOne)

	elem := &Node{Kind: KindElement, Name: NewName("x")}
	text := &Node{Kind: KindText}

	if !anyModel.Matches(elem) || !anyModel.Matches(text) {
		t.Fatalf("ANY should match both elements and text")
	}
	if empty.Matches(elem) || empty.Matches(text) {
		t.Fatalf("EMPTY should match nothing")
	}
	if !pcdata.Matches(text) || pcdata.Matches(elem) {
		t.Fatalf("#PCDATA should match only text")
	}
}
