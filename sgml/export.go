package sgml

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// ToOrderedMap flattens an element's attributes, text content, and child
// elements into an OrderedMap: attributes as "@name", collapsed text as
// "#text", and each distinct child element name as either a nested
// OrderedMap (one child) or a slice of them (repeated children).
func ToOrderedMap(n *Node) *OrderedMap {
	om := NewMap()
	for _, a := range n.children {
		if a.Kind == KindAttribute {
			om.Put("@"+a.Name.String(), a.Value())
		}
	}
	if text := n.Filter(IsText, 0); len(text) > 0 {
		var b strings.Builder
		for _, t := range text {
			b.WriteString(t.Collapse())
		}
		if s := b.String(); s != "" {
			om.Put("#text", s)
		}
	}

	grouped := map[string][]*Node{}
	var order []string
	for _, kid := range n.ChildElements(nil) {
		key := kid.Name.String()
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], kid)
	}
	for _, key := range order {
		kids := grouped[key]
		if len(kids) == 1 {
			om.Put(key, ToOrderedMap(kids[0]))
			continue
		}
		var list []any
		for _, k := range kids {
			list = append(list, ToOrderedMap(k))
		}
		om.Put(key, list)
	}
	return om
}

// ToJSON renders n as a JSON object via its OrderedMap bridge.
func ToJSON(n *Node) (string, error) {
	b, err := ToOrderedMap(n).MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToCSV writes one row per node in rows to w, one column per distinct
// non-attribute, non-text child-element name seen across all of them,
// sorted alphabetically for a deterministic header.
func ToCSV(w io.Writer, rows []*Node) error {
	if len(rows) == 0 {
		return nil
	}
	maps := make([]*OrderedMap, len(rows))
	headerSet := map[string]bool{}
	for i, r := range rows {
		maps[i] = ToOrderedMap(r)
		for _, k := range maps[i].Keys() {
			if !strings.HasPrefix(k, "@") && !strings.HasPrefix(k, "#") {
				headerSet[k] = true
			}
		}
	}
	headers := make([]string, 0, len(headerSet))
	for h := range headerSet {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	if _, err := fmt.Fprintln(w, strings.Join(headers, ",")); err != nil {
		return err
	}
	for _, m := range maps {
		row := make([]string, len(headers))
		for i, h := range headers {
			val := m.String(h)
			val = strings.ReplaceAll(val, "\"", "\"\"")
			if strings.ContainsAny(val, ",\n\"") {
				val = "\"" + val + "\""
			}
			row[i] = val
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, ",")); err != nil {
			return err
		}
	}
	return nil
}
