package i18n

import "strings"

// Table is a tree of translation strings. Values are either strings or
// nested tables (map[string]any as produced by the JSON/TOML decoders).
type Table map[string]any

// Lookup resolves a dotted key such as "app.title". It reports false when a
// segment is missing, an intermediate node is not a table, or the final
// value is not a string.
func (t Table) Lookup(key string) (string, bool) {
	var node any = t
	for _, seg := range strings.Split(key, ".") {
		m, ok := asTable(node)
		if !ok {
			return "", false
		}
		if node, ok = m[seg]; !ok {
			return "", false
		}
	}
	s, ok := node.(string)
	return s, ok
}

// Clone returns a deep copy, safe to hand to encoders while the store swaps tables.
func (t Table) Clone() Table {
	if t == nil {
		return Table{}
	}
	out := make(Table, len(t))
	for k, v := range t {
		if m, ok := asTable(v); ok {
			out[k] = map[string]any(m.Clone())
			continue
		}
		out[k] = v
	}
	return out
}

func asTable(v any) (Table, bool) {
	switch m := v.(type) {
	case Table:
		return m, true
	case map[string]any:
		return Table(m), true
	}
	return nil, false
}
