package sgml

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// OrderedMap is an insertion-ordered string-keyed map, used as the bridge
// representation between a parsed document tree and export formats (JSON,
// CSV) that have no notion of Node or ContentModel. Attribute keys are
// prefixed with '@' and a text value is stored under "#text", mirroring
// the convention a JSON rendering of markup typically uses.
type OrderedMap struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty OrderedMap.
func NewMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]any)}
}

// Put inserts or overwrites key, appending it to the key order only the
// first time it is set.
func (om *OrderedMap) Put(key string, value any) *OrderedMap {
	if _, exists := om.values[key]; !exists {
		om.keys = append(om.keys, key)
	}
	om.values[key] = value
	return om
}

// Get returns the value stored at key, or nil if absent.
func (om *OrderedMap) Get(key string) any { return om.values[key] }

// Has reports whether key has been set.
func (om *OrderedMap) Has(key string) bool {
	_, ok := om.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (om *OrderedMap) Keys() []string { return om.keys }

// Len returns the number of keys stored.
func (om *OrderedMap) Len() int { return len(om.keys) }

// String returns the value at key formatted as a string, or "" if absent.
func (om *OrderedMap) String(key string) string {
	switch v := om.values[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// MarshalJSON renders the map as a JSON object, preserving key order —
// encoding/json sorts map keys alphabetically, so OrderedMap writes its
// own object syntax instead of delegating to a plain map[string]any.
func (om *OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range om.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(om.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
