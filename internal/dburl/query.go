package dburl

import (
	"net/url"
	"slices"
	"strings"
)

// Query holds query parameters in encounter order. A key seen once is a
// scalar; a repeated key becomes a list of its values. The zero value is an
// empty query ready to use.
type Query struct {
	keys   []string
	values map[string][]string
}

// Add appends a value for key, promoting the key to a list on repetition.
func (q *Query) Add(key, value string) {
	if q.values == nil {
		q.values = make(map[string][]string)
	}
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = append(q.values[key], value)
}

// Get returns the first value for key, or "".
func (q Query) Get(key string) string {
	if vs := q.values[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Has reports whether key is present.
func (q Query) Has(key string) bool {
	_, ok := q.values[key]
	return ok
}

// Values returns every value for key in encounter order.
func (q Query) Values(key string) []string {
	return slices.Clone(q.values[key])
}

// IsList reports whether key occurred more than once.
func (q Query) IsList(key string) bool {
	return len(q.values[key]) > 1
}

// Keys returns the keys in first-seen order.
func (q Query) Keys() []string {
	return slices.Clone(q.keys)
}

// Len returns the number of distinct keys.
func (q Query) Len() int {
	return len(q.keys)
}

// Clone returns a deep copy.
func (q Query) Clone() Query {
	if q.values == nil {
		return Query{}
	}
	c := Query{
		keys:   slices.Clone(q.keys),
		values: make(map[string][]string, len(q.values)),
	}
	for k, vs := range q.values {
		c.values[k] = slices.Clone(vs)
	}
	return c
}

// Equal compares keys and values. Key order does not matter; value order
// within a list does.
func (q Query) Equal(o Query) bool {
	if len(q.values) != len(o.values) {
		return false
	}
	for k, vs := range q.values {
		ovs, ok := o.values[k]
		if !ok || !slices.Equal(vs, ovs) {
			return false
		}
	}
	return true
}

// Map returns the query as scalars and lists, suitable for JSON output.
func (q Query) Map() map[string]any {
	m := make(map[string]any, len(q.keys))
	for _, k := range q.keys {
		if vs := q.values[k]; len(vs) > 1 {
			m[k] = slices.Clone(vs)
		} else {
			m[k] = vs[0]
		}
	}
	return m
}

// Encode renders the query in encounter order.
func (q Query) Encode() string {
	var parts []string
	for _, k := range q.keys {
		for _, v := range q.values[k] {
			parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}
