package models

import (
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// Row is an ordered column -> Value mapping. Column order follows the source
// header so exports stay readable.
type Row struct {
	keys []string
	vals map[string]Value
}

func NewRow() Row {
	return Row{vals: make(map[string]Value)}
}

// Set stores v under key, appending key if it is new.
func (r *Row) Set(key string, v Value) {
	if r.vals == nil {
		r.vals = make(map[string]Value)
	}
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

// Get returns the value at key and whether the column exists.
func (r Row) Get(key string) (Value, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Value returns the value at key, absent when the column does not exist.
func (r Row) Value(key string) Value {
	return r.vals[key]
}

func (r Row) Has(key string) bool {
	_, ok := r.vals[key]
	return ok
}

// Keys returns the columns in insertion order.
func (r Row) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r Row) Len() int { return len(r.keys) }

// Clone returns a deep copy safe to modify.
func (r Row) Clone() Row {
	c := Row{keys: append([]string(nil), r.keys...), vals: make(map[string]Value, len(r.vals))}
	for k, v := range r.vals {
		c.vals[k] = v
	}
	return c
}

// Without returns a copy of r lacking key.
func (r Row) Without(key string) Row {
	c := Row{vals: make(map[string]Value, len(r.vals))}
	for _, k := range r.keys {
		if k == key {
			continue
		}
		c.keys = append(c.keys, k)
		c.vals[k] = r.vals[k]
	}
	return c
}

// Key is a stable identity for full-row comparisons. Column order is ignored.
func (r Row) Key() string {
	keys := r.Keys()
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r.vals[k].key())
		b.WriteByte(0x1f)
	}
	return b.String()
}

type rowCell struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

func (r Row) MarshalJSON() ([]byte, error) {
	cells := make([]rowCell, 0, len(r.keys))
	for _, k := range r.keys {
		cells = append(cells, rowCell{Key: k, Value: r.vals[k]})
	}
	return json.Marshal(cells)
}

func (r *Row) UnmarshalJSON(data []byte) error {
	var cells []rowCell
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	*r = NewRow()
	for _, c := range cells {
		r.Set(c.Key, c.Value)
	}
	return nil
}
