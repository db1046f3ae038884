package sgml

import (
	"fmt"
)

// endOfTag is an internal control value raised while scanning a
// declaration body to signal "the closing '>' was reached". It is caught
// by the immediate caller and never surfaces past that call.
type endOfTag struct{}

func (endOfTag) Error() string { return "end of tag (internal)" }

// MarkupKind enumerates the subkinds of InvalidMarkupError.
type MarkupKind int

const (
	ElementNotDefined MarkupKind = iota
	InvalidNesting
	IllegalCharacter
	TagNotMatching
	NoDTDDefined
	MultipleRoots
	EntityNotDefined
)

func (k MarkupKind) String() string {
	switch k {
	case ElementNotDefined:
		return "ElementNotDefined"
	case InvalidNesting:
		return "InvalidNesting"
	case IllegalCharacter:
		return "IllegalCharacter"
	case TagNotMatching:
		return "TagNotMatching"
	case NoDTDDefined:
		return "NoDTDDefined"
	case MultipleRoots:
		return "MultipleRoots"
	case EntityNotDefined:
		return "EntityNotDefined"
	}
	return "InvalidMarkup"
}

// Context is the post-mortem tuple carried by an InvalidMarkup error: the
// offending token or name, the stream position it was found at, and a
// snapshot of the ancestor-stack names at the time of failure.
type Context struct {
	Token     string
	Position  int
	Ancestors []string
}

// InvalidMarkupError aborts the current document parse when validation is
// enabled. It always carries a Context for post-mortem inspection.
type InvalidMarkupError struct {
	Kind    MarkupKind
	Message string
	Context Context
}

func (e *InvalidMarkupError) Error() string {
	return fmt.Sprintf("%s: %s (at %d, token %q, in %v)",
		e.Kind, e.Message, e.Context.Position, e.Context.Token, e.Context.Ancestors)
}

func newInvalidMarkup(kind MarkupKind, msg string, ctx Context) *InvalidMarkupError {
	return &InvalidMarkupError{Kind: kind, Message: msg, Context: ctx}
}

// UnexpectedEOFError reports that a read_to-style scan ran off the end of
// the stream before finding its delimiter.
type UnexpectedEOFError struct {
	Delim string
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("unexpected end of stream looking for %q", e.Delim)
}

// FetchError wraps a failure to retrieve an external DTD. It is always
// non-fatal: callers log it and continue without the external subset.
type FetchError struct {
	URI string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching external DTD %q: %v", e.URI, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
