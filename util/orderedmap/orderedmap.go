// Package orderedmap implements a map that remembers the insertion order of its keys, so that
// iterating it (and encoding it) is deterministic.
package orderedmap

import (
	"bytes"
	"encoding/gob"
	"io"
)

// OrderedMap is a map whose iteration order is the insertion order of its keys.
type OrderedMap[K comparable, V any] struct {
	inner map[K]V
	keys  []K
}

// New returns an empty ordered map.
func New[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{inner: make(map[K]V)}
}

// Load returns the value stored for key and whether it was present.
func (m *OrderedMap[K, V]) Load(key K) (V, bool) {
	v, ok := m.inner[key]
	return v, ok
}

// Value returns the value stored for key, or the zero value if absent.
func (m *OrderedMap[K, V]) Value(key K) V {
	return m.inner[key]
}

// Store sets the value for key. A new key is appended to the iteration order, an existing key
// keeps its position.
func (m *OrderedMap[K, V]) Store(key K, value V) {
	if _, ok := m.inner[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.inner[key] = value
}

// Len returns the number of keys in the map.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// OrderedRange calls f for each key/value pair in insertion order until f returns false.
func (m *OrderedMap[K, V]) OrderedRange(f func(key K, value V) bool) {
	for _, k := range m.keys {
		if !f(k, m.inner[k]) {
			return
		}
	}
}

// Values returns the values in insertion order.
func (m *OrderedMap[K, V]) Values() []V {
	values := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		values = append(values, m.inner[k])
	}
	return values
}

// GobEncode encodes the pairs in insertion order.
func (m *OrderedMap[K, V]) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	for _, k := range m.keys {
		if err := enc.Encode(k); err != nil {
			return nil, err
		}
		if err := enc.Encode(m.inner[k]); err != nil {
			return nil, err
		}
	}

	if buf.Len() == 0 {
		return nil, nil
	}
	return buf.Bytes(), nil
}

// GobDecode decodes pairs produced by GobEncode, preserving their order.
func (m *OrderedMap[K, V]) GobDecode(b []byte) error {
	if m.inner == nil {
		m.inner = make(map[K]V)
	}
	dec := gob.NewDecoder(bytes.NewBuffer(b))
	for {
		var k K
		if err := dec.Decode(&k); err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if _, ok := m.inner[k]; !ok {
			m.keys = append(m.keys, k)
		}
		m.inner[k] = v
	}

	return nil
}
