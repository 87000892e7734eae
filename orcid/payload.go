package orcid

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Node is a read-only view over a decoded JSON document. Every lookup is
// total: a missing key, a wrong type or an out of range index yields an
// absent Node rather than an error.
type Node struct {
	value interface{}
}

// Parse decodes raw JSON into a Node. Numbers are kept as json.Number so
// identifiers like put-code round-trip without float formatting.
func Parse(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return Node{}, err
	}
	return Node{value: v}, nil
}

// NodeOf wraps an already decoded value.
func NodeOf(v interface{}) Node { return Node{value: v} }

// Present reports whether the node holds a non-null value.
func (n Node) Present() bool { return n.value != nil }

// Get walks nested object keys.
func (n Node) Get(keys ...string) Node {
	cur := n.value
	for _, k := range keys {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return Node{}
		}
		cur = obj[k]
	}
	return Node{value: cur}
}

// Index returns the i-th element of an array node.
func (n Node) Index(i int) Node {
	arr, ok := n.value.([]interface{})
	if !ok || i < 0 || i >= len(arr) {
		return Node{}
	}
	return Node{value: arr[i]}
}

// List returns the elements of an array node, or nil.
func (n Node) List() []Node {
	arr, ok := n.value.([]interface{})
	if !ok {
		return nil
	}
	out := make([]Node, len(arr))
	for i, v := range arr {
		out[i] = Node{value: v}
	}
	return out
}

// Text returns the scalar value as a string. Objects, arrays and null are absent.
func (n Node) Text() (string, bool) {
	switch v := n.value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// String returns Text or the empty string.
func (n Node) String() string {
	s, _ := n.Text()
	return s
}

// Size is the length of the node's JSON serialization.
func (n Node) Size() int {
	if n.value == nil {
		return 0
	}
	b, err := json.Marshal(n.value)
	if err != nil {
		return 0
	}
	return len(b)
}

// MarshalJSON emits the wrapped value.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value)
}
