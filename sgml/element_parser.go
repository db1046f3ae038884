package sgml

import (
	"strings"
	"unicode"
)

// isNameChar reports whether r may appear in an element, attribute, or
// declaration name (after the first character, which the validator's
// TestName additionally screens against badNameStart).
func isNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' || r == ':'
}

// readName scans a qualified name, splitting on the first ':' into a
// namespace prefix and local part.
func (p *Parser) readName(s *CharStream) (Name, error) {
	var b strings.Builder
	for {
		r, ok := s.Peek()
		if !ok || !isNameChar(r) {
			break
		}
		b.WriteRune(r)
		s.Next()
	}
	raw := b.String()
	if raw == "" {
		return Name{}, newInvalidMarkup(IllegalCharacter, "expected a name",
			Context{Position: s.Tell(), Ancestors: ancestorNames(p.ancestors)})
	}
	if idx := strings.IndexByte(raw, ':'); idx > 0 {
		return Name{Space: raw[:idx], Local: raw[idx+1:]}, nil
	}
	return Name{Local: raw}, nil
}

// readQuoted consumes a double-quoted string and returns its contents.
// Single quotes are not accepted.
func (p *Parser) readQuoted(s *CharStream) (string, error) {
	r, ok := s.Next()
	if !ok || r != '"' {
		return "", newInvalidMarkup(IllegalCharacter, "expected a double-quoted string",
			Context{Position: s.Tell(), Ancestors: ancestorNames(p.ancestors)})
	}
	raw, err := s.ReadTo('"')
	if err != nil {
		return "", err
	}
	s.Next() // consume closing quote
	return raw, nil
}

// peekWord reads the run of uppercase letters at the cursor without
// consuming them, used to decide between SYSTEM/PUBLIC and a literal
// entity value without committing to either branch first.
func (p *Parser) peekWord(s *CharStream) (string, bool) {
	save := s.Tell()
	word, err := p.readUpperIdent(s)
	s.Seek(save, SeekStart)
	if err != nil {
		return "", false
	}
	return word, true
}

// parseStartOrEmptyTag is entered with the cursor just past '<' on a
// character that begins a name. It reads the name, any attributes, and
// the tag's close, opening the element (and pushing it onto the ancestor
// stack) unless the tag is self-closing.
func (p *Parser) parseStartOrEmptyTag(s *CharStream) error {
	pos := s.Tell()
	first, _ := s.Peek()
	if err := p.validator.TestName(first, pos, p.ancestors); err != nil {
		return err
	}
	name, err := p.readName(s)
	if err != nil {
		return err
	}
	elem := NewElement(name, nil)

	for {
		p.skipSpace(s)
		r, ok := s.Peek()
		if !ok {
			return &UnexpectedEOFError{Delim: ">"}
		}
		switch r {
		case '/':
			s.Next()
			r2, ok2 := s.Next()
			if !ok2 || r2 != '>' {
				return newInvalidMarkup(IllegalCharacter, "expected '>' after '/'",
					Context{Token: name.String(), Position: pos, Ancestors: ancestorNames(p.ancestors)})
			}
			return p.openElement(elem, pos, true)
		case '>':
			s.Next()
			return p.openElement(elem, pos, false)
		default:
			attr, err := p.parseAttribute(s)
			if err != nil {
				return err
			}
			elem.Append(attr)
		}
	}
}

// openElement runs the structural validator hooks, appends elem to the
// current top-of-stack frame, and — unless selfClosing — pushes it so
// subsequent content is parsed as elem's children.
func (p *Parser) openElement(elem *Node, pos int, selfClosing bool) error {
	if err := p.validator.TestDoctype(p.doc, pos, p.ancestors); err != nil {
		return err
	}
	if err := p.validator.TestExistence(p.doc, elem.Name, pos, p.ancestors); err != nil {
		return err
	}
	if err := p.validator.TestParent(p.doc, elem.Name, pos, p.ancestors); err != nil {
		return err
	}
	if err := p.validator.TestSiblings(p.top(), pos, p.ancestors); err != nil {
		return err
	}
	p.top().Append(elem)
	if !selfClosing {
		p.push(elem)
	}
	return nil
}

// parseEndTag is entered with the cursor just past '<' on '/'.
func (p *Parser) parseEndTag(s *CharStream) error {
	s.Next() // consume '/'
	pos := s.Tell()
	name, err := p.readName(s)
	if err != nil {
		return err
	}
	p.skipSpace(s)
	r, ok := s.Next()
	if !ok || r != '>' {
		return newInvalidMarkup(IllegalCharacter, "expected '>' closing tag '"+name.String()+"'",
			Context{Token: name.String(), Position: pos, Ancestors: ancestorNames(p.ancestors)})
	}
	if len(p.ancestors) <= 1 {
		return newInvalidMarkup(TagNotMatching, "closing tag '"+name.String()+"' has no matching open element",
			Context{Token: name.String(), Position: pos, Ancestors: ancestorNames(p.ancestors)})
	}
	top := p.top()
	if err := p.validator.TestClosing(top, name, pos, p.ancestors); err != nil {
		return err
	}
	if err := p.validator.TestKids(p.doc, top, pos, p.ancestors); err != nil {
		return err
	}
	p.pop()
	return nil
}

// parseAttribute reads one `name="value"` pair, expanding entity
// references found inside the value.
func (p *Parser) parseAttribute(s *CharStream) (*Node, error) {
	pos := s.Tell()
	first, _ := s.Peek()
	if err := p.validator.TestName(first, pos, p.ancestors); err != nil {
		return nil, err
	}
	name, err := p.readName(s)
	if err != nil {
		return nil, err
	}
	p.skipSpace(s)
	r, ok := s.Next()
	if !ok || r != '=' {
		return nil, newInvalidMarkup(IllegalCharacter, "expected '=' after attribute name '"+name.String()+"'",
			Context{Token: name.String(), Position: pos, Ancestors: ancestorNames(p.ancestors)})
	}
	p.skipSpace(s)
	raw, err := p.readQuoted(s)
	if err != nil {
		return nil, err
	}
	value, err := p.expandAttributeValue(raw)
	if err != nil {
		return nil, err
	}
	return NewAttribute(name, value), nil
}

// expandAttributeValue resolves entity references inside an already fully
// read attribute value. Unlike Reference, it never splices back into a
// CharStream — the value is a flat string, not a position entity
// expansion can leave the cursor inside.
func (p *Parser) expandAttributeValue(raw string) (string, error) {
	runes := []rune(raw)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		if runes[i] != '&' {
			b.WriteRune(runes[i])
			continue
		}
		j := i + 1
		for j < len(runes) && runes[j] != ';' {
			j++
		}
		if j >= len(runes) {
			return "", &UnexpectedEOFError{Delim: ";"}
		}
		name := string(runes[i+1 : j])
		if v, ok := builtinEntities[name]; ok {
			b.WriteString(v)
		} else if v, ok := decodeNumericReference(name); ok {
			b.WriteRune(v)
		} else if def := lookupEntityDefinition(p.ancestors, name, EntityGeneral); def != nil {
			b.WriteString(def.EntityValue)
		} else if p.cfg.Validating {
			return "", newInvalidMarkup(EntityNotDefined, "entity '"+name+"' is not defined",
				Context{Token: name, Ancestors: ancestorNames(p.ancestors)})
		}
		i = j
	}
	return b.String(), nil
}

// parseProcessingInstruction is entered with the cursor just past '<' on
// '?'. Its raw content up to "?>" is kept verbatim as a single text child,
// since processing-instruction targets carry no content model to validate
// against.
func (p *Parser) parseProcessingInstruction(s *CharStream) error {
	s.Next() // consume '?'
	name, err := p.readName(s)
	if err != nil {
		return err
	}
	p.skipSpace(s)
	raw, err := readUntilSeq(s, "?>")
	if err != nil {
		return err
	}
	pi := &Node{Kind: KindProcessingInstruction, Name: name}
	pi.Append(NewText(raw))
	p.top().Append(pi)
	return nil
}
