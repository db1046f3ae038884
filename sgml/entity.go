package sgml

import (
	"os"
	"strconv"
)

// builtinEntities are the entities resolvable without any DOCTYPE in
// scope.
var builtinEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": "\"",
	"apos": "'",
	"copy": "©",
}

// EntityKind distinguishes a general (internal) entity, resolved at
// reference sites with a bare &name;, from a parameter (system-scope)
// entity, resolved inside declarations with %name;.
type EntityKind int

const (
	EntityGeneral EntityKind = iota
	EntityParameter
)

// lookupEntityDefinition walks up from ancestors' nearest DocumentType
// looking for an EntityDefinition named name with the requested kind —
// a reference always resolves against the nearest enclosing DocumentType.
func lookupEntityDefinition(ancestors []*Node, name string, kind EntityKind) *Node {
	doctype := nearestDocumentType(ancestors)
	if doctype == nil {
		return nil
	}
	wantSystem := kind == EntityParameter
	var found *Node
	for _, def := range doctype.Filter(func(n *Node) bool {
		return n.Kind == KindEntityDefinition && n.Name.Equal(name) && n.System == wantSystem
	}, -1) {
		found = def // last definition wins on redeclaration
	}
	return found
}

func nearestDocumentType(ancestors []*Node) *Node {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if ancestors[i].Kind == KindDocumentType {
			return ancestors[i]
		}
		for _, d := range ancestors[i].Filter(func(n *Node) bool { return n.Kind == KindDocumentType }, -1) {
			return d
		}
	}
	return nil
}

// EntityResolver resolves named references found by the tokenizer and
// splices their value back into the CharStream at the reference's start
// position, so that parsing re-enters the substituted text.
type EntityResolver struct {
	validating bool
	logPath    string   // entities_to_define log path; empty means in-memory only
	undefined  []string // entities_to_define log, appended to in non-validating mode
}

func newEntityResolver(validating bool, logPath string) *EntityResolver {
	return &EntityResolver{validating: validating, logPath: logPath}
}

// logUndefined records name in both the in-memory UndefinedEntities list and,
// when a log path was configured, the persisted entities_to_define file,
// opened in append mode so concurrent parses accumulate into the same log.
func (r *EntityResolver) logUndefined(name string) {
	r.undefined = append(r.undefined, name)
	if r.logPath == "" {
		return
	}
	f, err := os.OpenFile(r.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	f.WriteString(name + "\n")
}

// Reference reads a `&name;` already positioned just after the '&', and
// either appends resolved text to the current text accumulator (built-ins
// and numeric references) or splices an EntityDefinition's value into the
// stream for re-reading. ancestors is the live ancestor stack, used to
// scope EntityDefinition lookups to the nearest DocumentType.
func (r *EntityResolver) Reference(s *CharStream, ancestors []*Node, accum *Node) error {
	name, err := s.ReadTo(';')
	if err != nil {
		return err
	}
	s.Next() // consume ';'

	if v, ok := builtinEntities[name]; ok {
		accum.AppendRunes(v)
		return nil
	}

	if v, ok := decodeNumericReference(name); ok {
		accum.AppendRunes(string(v))
		return nil
	}

	if def := lookupEntityDefinition(ancestors, name, EntityGeneral); def != nil {
		s.InsertAtCursor(def.EntityValue)
		return nil
	}
	if def := lookupEntityDefinition(ancestors, name, EntityParameter); def != nil {
		s.InsertAtCursor(def.EntityValue)
		return nil
	}

	if r.validating {
		return newInvalidMarkup(EntityNotDefined, "entity '"+name+"' is not defined",
			Context{Token: name, Position: s.Tell(), Ancestors: ancestorNames(ancestors)})
	}
	r.logUndefined(name)
	return nil
}

// ParameterReference resolves a %name; reference found inside a
// declaration, consulting only parameter-scope EntityDefinitions.
func (r *EntityResolver) ParameterReference(s *CharStream, ancestors []*Node) error {
	name, err := s.ReadTo(';')
	if err != nil {
		return err
	}
	s.Next()

	if def := lookupEntityDefinition(ancestors, name, EntityParameter); def != nil {
		s.InsertAtCursor(def.EntityValue)
		return nil
	}
	if r.validating {
		return newInvalidMarkup(EntityNotDefined, "parameter entity '"+name+"' is not defined",
			Context{Token: name, Position: s.Tell(), Ancestors: ancestorNames(ancestors)})
	}
	return nil
}

// decodeNumericReference decodes the supported numeric-character-reference
// dialect: decimal `#DDDD`, hex `#xHH`, and the extensions `0xHH`, `0oOO`.
// Values above the Unicode maximum (0x10FFFF) are rejected.
func decodeNumericReference(name string) (rune, bool) {
	var digits string
	var base int
	switch {
	case len(name) > 2 && name[0] == '#' && (name[1] == 'x' || name[1] == 'X'):
		digits, base = name[2:], 16
	case len(name) > 1 && name[0] == '#':
		digits, base = name[1:], 10
	case len(name) > 2 && name[0:2] == "0x":
		digits, base = name[2:], 16
	case len(name) > 2 && name[0:2] == "0o":
		digits, base = name[2:], 8
	default:
		return 0, false
	}
	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil || v < 0 || v > 0x10FFFF {
		return 0, false
	}
	return rune(v), true
}

func ancestorNames(ancestors []*Node) []string {
	out := make([]string, len(ancestors))
	for i, a := range ancestors {
		out[i] = a.Name.String()
	}
	return out
}

// UndefinedEntities returns the names logged when resolution missed in
// non-validating mode, matching the entities_to_define persisted log.
func (r *EntityResolver) UndefinedEntities() []string { return r.undefined }
