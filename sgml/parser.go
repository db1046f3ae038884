package sgml

import "strings"

// Config holds the parser's tunable behavior. The zero Config is not
// usable directly; build one with New and the With* options, which follow
// the functional-options shape used throughout this codebase.
type Config struct {
	Validating  bool
	BaseDir     string // resolves relative SYSTEM/PUBLIC identifiers
	MaxDTDDepth int    // external-subset fetch recursion guard
	CacheDir    string // caches remote external-subset fetches, mirroring URI path components
	EntityLog   string // appends undefined-entity names here as they're encountered
}

func defaultConfig() Config {
	return Config{MaxDTDDepth: 8}
}

// Option configures a Parser at construction time.
type Option func(*Config)

// WithValidation turns on the structural checks in Validator. Off by
// default: a Parser with no options builds a document tree but never
// rejects one.
func WithValidation(on bool) Option {
	return func(c *Config) { c.Validating = on }
}

// WithBaseDir sets the directory relative SYSTEM/PUBLIC identifiers
// resolve against when fetching an external DTD subset.
func WithBaseDir(dir string) Option {
	return func(c *Config) { c.BaseDir = dir }
}

// WithMaxDTDDepth caps how deeply external-subset fetches may nest (a
// fetched subset whose own declarations fetch another), guarding against
// a subset that references itself through a nested DOCTYPE.
func WithMaxDTDDepth(n int) Option {
	return func(c *Config) { c.MaxDTDDepth = n }
}

// WithDTDCache turns on on-disk caching of remote external-subset fetches
// under dir, mirroring each URI's host and path as nested directories so
// repeated parses of documents sharing a DOCTYPE don't refetch it.
func WithDTDCache(dir string) Option {
	return func(c *Config) { c.CacheDir = dir }
}

// WithEntityLog appends every entity name that resolution missed in
// non-validating mode to path, one per line, as it's encountered —
// a persisted record of entities_to_define alongside the in-memory one
// returned by UndefinedEntities.
func WithEntityLog(path string) Option {
	return func(c *Config) { c.EntityLog = path }
}

// Parser drives the character-level tokenizer and dispatcher over a
// CharStream, building a document tree and optionally validating it
// against the DTD declarations it encounters along the way.
type Parser struct {
	cfg       Config
	validator *Validator
	entities  *EntityResolver

	doc       *Node
	ancestors []*Node

	fetchDepth int
	fetchErrs  []error
}

// New builds a Parser ready to parse one or more documents.
func New(opts ...Option) *Parser {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Parser{
		cfg:       cfg,
		validator: &Validator{Enabled: cfg.Validating},
		entities:  newEntityResolver(cfg.Validating, cfg.EntityLog),
	}
}

// ParseString parses text into a fresh document tree.
func (p *Parser) ParseString(text string) (*Node, error) {
	return p.Parse(NewCharStream(text))
}

// ParseFile opens path under the advisory file lock and parses its
// contents into a fresh document tree.
func (p *Parser) ParseFile(path string) (*Node, error) {
	s, err := OpenCharStream(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return p.Parse(s)
}

// Parse runs the tokenizer/dispatcher main loop over s: plain characters
// accumulate into a text node, '&' dispatches to entity resolution, and
// '<' dispatches to tag/declaration parsing. It returns the document root
// built so far even on error, so callers can inspect how far parsing got.
func (p *Parser) Parse(s *CharStream) (*Node, error) {
	p.doc = NewDocument()
	p.ancestors = []*Node{p.doc}

	var text *Node
	flushText := func() {
		if text != nil && len(text.runes) > 0 {
			p.top().Append(text)
		}
		text = nil
	}
	ensureText := func() *Node {
		if text == nil {
			text = NewText("")
		}
		return text
	}

	for {
		r, ok := s.Peek()
		if !ok {
			break
		}
		switch r {
		case '<':
			flushText()
			if err := p.dispatchTag(s); err != nil {
				if p.suppressed(err) {
					return p.doc, nil
				}
				return p.doc, err
			}
		case '&':
			s.Next()
			if err := p.entities.Reference(s, p.ancestors, ensureText()); err != nil {
				return p.doc, err
			}
		default:
			s.Next()
			ensureText().AppendRunes(string(r))
		}
	}
	flushText()

	if len(p.ancestors) > 1 {
		unclosed := p.top()
		err := newInvalidMarkup(TagNotMatching,
			"element '"+unclosed.Name.String()+"' was never closed",
			Context{Position: s.Tell(), Ancestors: ancestorNames(p.ancestors[:len(p.ancestors)-1])})
		if p.suppressed(err) {
			return p.doc, nil
		}
		return p.doc, err
	}
	return p.doc, nil
}

// suppressed reports whether err is an InvalidMarkupError that the
// non-validating policy swallows: in that mode malformed markup never
// aborts a parse with an error, it only stops the tree at the best partial
// point reached so far. EndOfTag never reaches here (it is caught by its
// immediate caller), and UnexpectedEOFError/FetchError are never
// suppressed — both mean the stream itself ran out or a fetch failed,
// which validation status has no bearing on.
func (p *Parser) suppressed(err error) bool {
	if p.cfg.Validating {
		return false
	}
	_, ok := err.(*InvalidMarkupError)
	return ok
}

// dispatchTag is entered with the cursor on '<'. It consumes that
// character and routes to the right sub-parser based on the one after it.
func (p *Parser) dispatchTag(s *CharStream) error {
	s.Next() // consume '<'
	r, ok := s.Peek()
	if !ok {
		return &UnexpectedEOFError{Delim: ">"}
	}
	switch {
	case r == '!':
		s.Next()
		return p.parseDeclarationBody(s)
	case r == '?':
		return p.parseProcessingInstruction(s)
	case r == '/':
		return p.parseEndTag(s)
	default:
		return p.parseStartOrEmptyTag(s)
	}
}

func (p *Parser) top() *Node { return p.ancestors[len(p.ancestors)-1] }

func (p *Parser) push(n *Node) { p.ancestors = append(p.ancestors, n) }

func (p *Parser) pop() { p.ancestors = p.ancestors[:len(p.ancestors)-1] }

func (p *Parser) skipSpace(s *CharStream) {
	for {
		r, ok := s.Peek()
		if !ok || !isSpace(r) {
			return
		}
		s.Next()
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// readUntilSeq consumes and returns everything up to (not including) the
// first occurrence of seq, consuming seq itself. It is the substrate for
// comments, CDATA sections, and processing instructions, all of which are
// terminated by a multi-character delimiter rather than a single rune.
func readUntilSeq(s *CharStream, seq string) (string, error) {
	sr := []rune(seq)
	var b strings.Builder
	for {
		r, ok := s.Peek()
		if !ok {
			return "", &UnexpectedEOFError{Delim: seq}
		}
		if r == sr[0] {
			save := s.Tell()
			matched := true
			for i := 0; i < len(sr); i++ {
				rr, ok2 := s.Next()
				if !ok2 || rr != sr[i] {
					matched = false
					break
				}
			}
			if matched {
				return b.String(), nil
			}
			s.Seek(save, SeekStart)
		}
		rr, _ := s.Next()
		b.WriteRune(rr)
	}
}

// logFetchError records a non-fatal external-DTD fetch failure for later
// inspection via FetchErrors; parsing continues without the subset.
func (p *Parser) logFetchError(err error) {
	p.fetchErrs = append(p.fetchErrs, err)
}

// FetchErrors returns every external-DTD fetch failure encountered during
// the most recent Parse call, in encounter order.
func (p *Parser) FetchErrors() []error { return p.fetchErrs }

// UndefinedEntities returns the entity names that could not be resolved
// while validation was off, in encounter order.
func (p *Parser) UndefinedEntities() []string { return p.entities.UndefinedEntities() }
