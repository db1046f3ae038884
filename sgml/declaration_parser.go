package sgml

import "unicode"

// parseDeclarationBody is entered with '<!' already consumed, shared by
// top-level dispatch and by the declaration loops inside a DOCTYPE's
// internal and external subsets.
func (p *Parser) parseDeclarationBody(s *CharStream) error {
	if r, ok := s.Peek(); ok && r == '-' {
		return p.parseComment(s)
	}
	if r, ok := s.Peek(); ok && r == '[' {
		return p.parseCDATA(s)
	}
	kw, err := p.readKeyword(s)
	if err != nil {
		return err
	}
	switch kw {
	case "DOCTYPE":
		return p.parseDoctype(s)
	case "ELEMENT":
		return p.parseElementDecl(s)
	case "ATTLIST":
		return p.parseAttlistDecl(s)
	case "ENTITY":
		return p.parseEntityDecl(s)
	default:
		return newInvalidMarkup(IllegalCharacter, "unknown declaration '<!"+kw+"'",
			Context{Token: kw, Position: s.Tell(), Ancestors: ancestorNames(p.ancestors)})
	}
}

func (p *Parser) readKeyword(s *CharStream) (string, error) {
	var b []rune
	for {
		r, ok := s.Peek()
		if !ok || !unicode.IsUpper(r) {
			break
		}
		b = append(b, r)
		s.Next()
	}
	if len(b) == 0 {
		return "", newInvalidMarkup(IllegalCharacter, "expected a declaration keyword",
			Context{Position: s.Tell(), Ancestors: ancestorNames(p.ancestors)})
	}
	return string(b), nil
}

// parseComment is entered with the cursor on the first '-' of "<!--".
func (p *Parser) parseComment(s *CharStream) error {
	pos := s.Tell()
	for i := 0; i < 2; i++ {
		r, ok := s.Next()
		if !ok || r != '-' {
			return newInvalidMarkup(IllegalCharacter, "malformed comment opening",
				Context{Position: pos, Ancestors: ancestorNames(p.ancestors)})
		}
	}
	raw, err := readUntilSeq(s, "-->")
	if err != nil {
		return err
	}
	p.top().Append(&Node{Kind: KindComment, Comment: raw})
	return nil
}

// parseCDATA is entered with the cursor on the '[' of "<![CDATA[". Its
// content is appended to the current parent as plain text, unescaped and
// unvalidated.
func (p *Parser) parseCDATA(s *CharStream) error {
	pos := s.Tell()
	s.Next() // consume '['
	for _, want := range "CDATA[" {
		r, ok := s.Next()
		if !ok || r != want {
			return newInvalidMarkup(IllegalCharacter, "malformed CDATA section opening",
				Context{Position: pos, Ancestors: ancestorNames(p.ancestors)})
		}
	}
	raw, err := readUntilSeq(s, "]]>")
	if err != nil {
		return err
	}
	p.top().Append(NewText(raw))
	return nil
}

// parseDoctype is entered with "DOCTYPE" already consumed. It reads the
// root name, an optional SYSTEM/PUBLIC external identifier, an optional
// internal subset, and fetches the external subset (if any) before the
// internal one, so that internal declarations can override it.
func (p *Parser) parseDoctype(s *CharStream) error {
	pos := s.Tell()
	p.skipSpace(s)
	rootName, err := p.readName(s)
	if err != nil {
		return err
	}
	p.skipSpace(s)

	dt := &Node{Kind: KindDocumentType, Root: rootName.Local}
	if kw, ok := p.peekWord(s); ok && (kw == "SYSTEM" || kw == "PUBLIC") {
		p.readName(s) // consume the keyword; it parses like a bare name
		p.skipSpace(s)
		first, err := p.readQuoted(s)
		if err != nil {
			return err
		}
		if kw == "PUBLIC" {
			p.skipSpace(s)
			second, err := p.readQuoted(s)
			if err != nil {
				return err
			}
			dt.Location = []string{first, second}
		} else {
			dt.Location = []string{first}
		}
	}

	p.top().Append(dt)
	p.push(dt)
	defer p.pop()

	if len(dt.Location) > 0 {
		uri := dt.Location[len(dt.Location)-1]
		data, err := p.fetchURI(uri)
		if err != nil {
			p.logFetchError(err)
		} else {
			// Count the fetched subset as one level of nesting while it is
			// parsed, so fetches it triggers see the deeper depth.
			p.fetchDepth++
			perr := p.parseExternalSubset(NewCharStream(data), dt)
			p.fetchDepth--
			if perr != nil {
				p.logFetchError(&FetchError{URI: uri, Err: perr})
			}
		}
	}

	p.skipSpace(s)
	if r, ok := s.Peek(); ok && r == '[' {
		s.Next()
		if err := p.parseInternalSubset(s); err != nil {
			return err
		}
	}
	p.skipSpace(s)
	r, ok := s.Next()
	if !ok || r != '>' {
		return newInvalidMarkup(IllegalCharacter, "expected '>' closing DOCTYPE",
			Context{Position: pos, Ancestors: ancestorNames(p.ancestors)})
	}
	return nil
}

// parseInternalSubset reads declarations and parameter-entity references
// until the closing ']', with dt already on the ancestor stack.
func (p *Parser) parseInternalSubset(s *CharStream) error {
	for {
		p.skipSpace(s)
		r, ok := s.Peek()
		if !ok {
			return &UnexpectedEOFError{Delim: "]"}
		}
		if r == ']' {
			s.Next()
			return nil
		}
		if r == '%' {
			s.Next()
			if err := p.entities.ParameterReference(s, p.ancestors); err != nil {
				return err
			}
			continue
		}
		if err := p.expectDeclaration(s); err != nil {
			return err
		}
	}
}

// parseExternalSubset reads declarations from a fetched DTD document's
// entire content, which has no closing ']' of its own.
func (p *Parser) parseExternalSubset(s *CharStream, dt *Node) error {
	for {
		p.skipSpace(s)
		r, ok := s.Peek()
		if !ok {
			return nil
		}
		if r == '%' {
			s.Next()
			if err := p.entities.ParameterReference(s, p.ancestors); err != nil {
				return err
			}
			continue
		}
		if err := p.expectDeclaration(s); err != nil {
			return err
		}
	}
}

func (p *Parser) expectDeclaration(s *CharStream) error {
	r, ok := s.Next()
	if !ok || r != '<' {
		return newInvalidMarkup(IllegalCharacter, "expected a declaration",
			Context{Position: s.Tell(), Ancestors: ancestorNames(p.ancestors)})
	}
	r2, ok := s.Next()
	if !ok || r2 != '!' {
		return newInvalidMarkup(IllegalCharacter, "expected '<!' opening a declaration",
			Context{Position: s.Tell(), Ancestors: ancestorNames(p.ancestors)})
	}
	return p.parseDeclarationBody(s)
}

// parseElementDecl is entered with "ELEMENT" already consumed.
func (p *Parser) parseElementDecl(s *CharStream) error {
	p.skipSpace(s)
	name, err := p.readName(s)
	if err != nil {
		return err
	}
	p.skipSpace(s)
	model, err := p.parseContentSpec(s)
	if err != nil {
		return err
	}
	p.skipSpace(s)
	r, ok := s.Next()
	if !ok || r != '>' {
		return newInvalidMarkup(IllegalCharacter, "expected '>' closing ELEMENT declaration for '"+name.String()+"'",
			Context{Token: name.String(), Position: s.Tell(), Ancestors: ancestorNames(p.ancestors)})
	}
	if et := p.findElementType(name); et != nil {
		et.Content = model
		return nil
	}
	p.top().Append(&Node{Kind: KindElementType, Name: name, Content: model})
	return nil
}

// parseContentSpec reads either a bare keyword (ANY, EMPTY) or a
// parenthesized group.
func (p *Parser) parseContentSpec(s *CharStream) (*ContentModel, error) {
	if r, ok := s.Peek(); !ok {
		return nil, &UnexpectedEOFError{Delim: ")"}
	} else if r != '(' {
		ident, err := p.readUpperIdent(s)
		if err != nil {
			return nil, err
		}
		occ := p.readOccurrence(s)
		if m := specialTerminal(ident, occ); m != nil {
			return m, nil
		}
		return nil, newInvalidMarkup(IllegalCharacter, "unknown content spec '"+ident+"'",
			Context{Token: ident, Position: s.Tell(), Ancestors: ancestorNames(p.ancestors)})
	}
	return p.parseContentGroup(s)
}

func (p *Parser) readUpperIdent(s *CharStream) (string, error) {
	var b []rune
	for {
		r, ok := s.Peek()
		if !ok || !(unicode.IsLetter(r) || r == '#') {
			break
		}
		b = append(b, r)
		s.Next()
	}
	if len(b) == 0 {
		return "", newInvalidMarkup(IllegalCharacter, "expected an identifier",
			Context{Position: s.Tell(), Ancestors: ancestorNames(p.ancestors)})
	}
	return string(b), nil
}

func (p *Parser) readOccurrence(s *CharStream) Occurrence {
	r, ok := s.Peek()
	if !ok {
		return occOne
	}
	switch r {
	case '?', '*', '+':
		s.Next()
		return occurrenceFor(byte(r))
	default:
		return occOne
	}
}

// parseContentGroup is entered with the cursor on '('. A group with a
// single member defaults to Sequence (its separator is never read); one
// with more than one member takes its kind from whichever separator, ','
// or '|', appears after the first member — DTD grammar forbids mixing
// the two within one group, so the first separator decides it.
func (p *Parser) parseContentGroup(s *CharStream) (*ContentModel, error) {
	s.Next() // consume '('
	p.skipSpace(s)
	first, err := p.parseContentMember(s)
	if err != nil {
		return nil, err
	}
	p.skipSpace(s)

	r, ok := s.Peek()
	if !ok {
		return nil, &UnexpectedEOFError{Delim: ")"}
	}
	if r == ')' {
		s.Next()
		group := NewGroup(ModelSequence, p.readOccurrence(s))
		group.Append(first)
		return group, nil
	}

	kind := ModelSequence
	if r == '|' {
		kind = ModelChoice
	}
	group := NewGroup(kind, occOne)
	group.Append(first)
	for {
		p.skipSpace(s)
		r, ok := s.Peek()
		if !ok {
			return nil, &UnexpectedEOFError{Delim: ")"}
		}
		if r == ')' {
			s.Next()
			group.Occurrence = p.readOccurrence(s)
			return group, nil
		}
		s.Next() // consume separator
		p.skipSpace(s)
		member, err := p.parseContentMember(s)
		if err != nil {
			return nil, err
		}
		group.Append(member)
	}
}

func (p *Parser) parseContentMember(s *CharStream) (*ContentModel, error) {
	if r, ok := s.Peek(); ok && r == '(' {
		return p.parseContentGroup(s)
	}
	ident, err := p.readUpperIdent(s)
	if err != nil {
		return nil, err
	}
	occ := p.readOccurrence(s)
	if m := specialTerminal(ident, occ); m != nil {
		return m, nil
	}
	return NewLeaf(ident, occ), nil
}

// parseAttlistDecl is entered with "ATTLIST" already consumed. Each
// attribute-definition triple is read by readAttlistEntry until it signals
// the list's closing '>' with endOfTag.
func (p *Parser) parseAttlistDecl(s *CharStream) error {
	p.skipSpace(s)
	name, err := p.readName(s)
	if err != nil {
		return err
	}
	defaults := map[string]string{}
	for {
		p.skipSpace(s)
		if _, err := p.readAttlistEntry(s, defaults); err != nil {
			if _, ok := err.(endOfTag); ok {
				break
			}
			return err
		}
	}
	et := p.findElementType(name)
	if et == nil {
		et = &Node{Kind: KindElementType, Name: name}
		p.top().Append(et)
	}
	if et.Attrs == nil {
		et.Attrs = map[string]string{}
	}
	for k, v := range defaults {
		et.Attrs[k] = v
	}
	return nil
}

// readAttlistEntry reads one `name TYPE default` triple, where TYPE is
// either a bare identifier (CDATA, ID, ...) or a parenthesized
// enumeration, and default is #IMPLIED, #REQUIRED, #FIXED "value", or a
// bare quoted default. It returns endOfTag once '>' is reached instead of
// another attribute name.
func (p *Parser) readAttlistEntry(s *CharStream, defaults map[string]string) (string, error) {
	r, ok := s.Peek()
	if !ok {
		return "", &UnexpectedEOFError{Delim: ">"}
	}
	if r == '>' {
		s.Next()
		return "", endOfTag{}
	}
	attrName, err := p.readName(s)
	if err != nil {
		return "", err
	}
	p.skipSpace(s)

	if r2, ok := s.Peek(); ok && r2 == '(' {
		if _, err := readUntilSeq(s, ")"); err != nil {
			return "", err
		}
	} else if _, err := p.readUpperIdent(s); err != nil {
		return "", err
	}
	p.skipSpace(s)

	def := ""
	if r3, ok := s.Peek(); ok && r3 == '#' {
		kw, err := p.readUpperIdent(s)
		if err != nil {
			return "", err
		}
		def = kw
		p.skipSpace(s)
		if r4, ok := s.Peek(); ok && r4 == '"' {
			val, err := p.readQuoted(s)
			if err != nil {
				return "", err
			}
			def = val
		}
	} else if r3 == '"' {
		val, err := p.readQuoted(s)
		if err != nil {
			return "", err
		}
		def = val
	}
	defaults[attrName.Local] = def
	return attrName.Local, nil
}

func (p *Parser) findElementType(name Name) *Node {
	doctype := nearestDocumentType(p.ancestors)
	if doctype == nil {
		return nil
	}
	for _, c := range doctype.Children() {
		if c.Kind == KindElementType && c.Name.Equal(name.Local) {
			return c
		}
	}
	return nil
}

// parseEntityDecl is entered with "ENTITY" already consumed. A leading
// '%' marks a parameter entity; otherwise it is a general entity.
// External entities (SYSTEM/PUBLIC) are fetched eagerly and their fetched
// text becomes the entity's value, same as an internal literal's.
func (p *Parser) parseEntityDecl(s *CharStream) error {
	p.skipSpace(s)
	kind := EntityGeneral
	if r, ok := s.Peek(); ok && r == '%' {
		s.Next()
		p.skipSpace(s)
		kind = EntityParameter
	}
	name, err := p.readName(s)
	if err != nil {
		return err
	}
	p.skipSpace(s)

	def := &Node{Kind: KindEntityDefinition, Name: name, System: kind == EntityParameter}
	if kw, ok := p.peekWord(s); ok && (kw == "SYSTEM" || kw == "PUBLIC") {
		p.readName(s)
		p.skipSpace(s)
		uri, err := p.readQuoted(s)
		if err != nil {
			return err
		}
		if kw == "PUBLIC" {
			p.skipSpace(s)
			uri, err = p.readQuoted(s)
			if err != nil {
				return err
			}
		}
		data, ferr := p.fetchURI(uri)
		if ferr != nil {
			p.logFetchError(ferr)
		}
		def.EntityValue = data
		def.System = true
	} else {
		val, err := p.readQuoted(s)
		if err != nil {
			return err
		}
		def.EntityValue = val
	}

	p.skipSpace(s)
	r, ok := s.Next()
	if !ok || r != '>' {
		return newInvalidMarkup(IllegalCharacter, "expected '>' closing ENTITY declaration for '"+name.String()+"'",
			Context{Token: name.String(), Position: s.Tell(), Ancestors: ancestorNames(p.ancestors)})
	}
	p.top().Append(def)
	return nil
}
