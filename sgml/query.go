package sgml

import (
	"strconv"
	"strings"
)

// Query evaluates a restricted path expression against n's subtree:
//
//	a/b        direct child elements named b under child a
//	a/b[1]     the second (0-indexed) such match
//	a/*        every child element of a
//	a/@attr    the attr attribute node of each matching a
//	a/#text    the text children of each matching a
//	//name     every descendant named name, at any depth
//
// It is not XPath: there is no axis syntax, no predicates beyond a
// trailing index, and no boolean combinators. It covers the lookups a
// caller actually needs to pull values and counts out of a parsed tree.
func (n *Node) Query(path string) ([]*Node, error) {
	if path == "" {
		return []*Node{n}, nil
	}
	if strings.HasPrefix(path, "//") {
		return n.Filter(NameIs(strings.TrimPrefix(path, "//")), -1), nil
	}

	candidates := []*Node{n}
	for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if seg == "" {
			continue
		}
		key, idx, err := parseQuerySegment(seg)
		if err != nil {
			return nil, err
		}
		var next []*Node
		for _, c := range candidates {
			matches := selectQuerySegment(c, key)
			if idx < 0 {
				next = append(next, matches...)
			} else if idx < len(matches) {
				next = append(next, matches[idx])
			}
		}
		candidates = next
	}
	return candidates, nil
}

// parseQuerySegment splits "name[3]" into ("name", 3), or ("name", -1)
// when there is no index.
func parseQuerySegment(seg string) (string, int, error) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return seg, -1, nil
	}
	if !strings.HasSuffix(seg, "]") {
		return "", 0, newInvalidMarkup(IllegalCharacter, "malformed query segment '"+seg+"'", Context{})
	}
	idx, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil {
		return "", 0, newInvalidMarkup(IllegalCharacter, "malformed query index in '"+seg+"'", Context{})
	}
	return seg[:open], idx, nil
}

func selectQuerySegment(n *Node, key string) []*Node {
	switch {
	case key == "*":
		return n.ChildElements(nil)
	case key == "#text":
		return n.Filter(IsText, 0)
	case strings.HasPrefix(key, "@"):
		attrName := key[1:]
		for _, c := range n.children {
			if c.Kind == KindAttribute && c.Name.Equal(attrName) {
				return []*Node{c}
			}
		}
		return nil
	default:
		return n.ChildElements(NameIs(key))
	}
}

// QueryString evaluates path and returns the string value of its first
// result: an attribute's value, a text node's content, or an element's
// direct text content collapsed to a single line. The second return is
// false when the path matches nothing.
func (n *Node) QueryString(path string) (string, bool) {
	results, err := n.Query(path)
	if err != nil || len(results) == 0 {
		return "", false
	}
	switch r := results[0]; r.Kind {
	case KindAttribute:
		return r.Value(), true
	case KindText:
		return r.Collapse(), true
	case KindElement:
		var b strings.Builder
		for _, t := range r.Filter(IsText, 0) {
			b.WriteString(t.Collapse())
		}
		return b.String(), true
	default:
		return "", false
	}
}

// QueryCount evaluates path and returns the number of matching nodes.
func (n *Node) QueryCount(path string) int {
	results, err := n.Query(path)
	if err != nil {
		return 0
	}
	return len(results)
}
