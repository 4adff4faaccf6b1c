// Package orderedmap provides a generic map that remembers insertion order.
// The preprocessing passes report configurations in discovery order, and
// that order must survive storage, iteration and gob round-trips.
package orderedmap

import (
	"bytes"
	"encoding/gob"
	"io"
)

// An OrderedMap maps K to V while preserving the order in which keys were
// first stored. The zero value is an empty map ready for use; New returns
// the same.
type OrderedMap[K comparable, V any] struct {
	inner map[K]V
	keys  []K
}

// New returns an empty OrderedMap.
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

// Store sets the value for key. A key keeps its original position when
// stored again.
func (m *OrderedMap[K, V]) Store(key K, value V) {
	if m.inner == nil {
		m.inner = make(map[K]V)
	}
	if _, ok := m.inner[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.inner[key] = value
}

// Len returns the number of stored keys.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the stored keys in insertion order. The returned slice is
// shared with the map and must not be modified.
func (m *OrderedMap[K, V]) Keys() []K {
	return m.keys
}

// OrderedRange calls f for each key and value in insertion order. If f
// returns false, iteration stops.
func (m *OrderedMap[K, V]) OrderedRange(f func(key K, value V) bool) {
	for _, k := range m.keys {
		if !f(k, m.inner[k]) {
			return
		}
	}
}

// GobEncode encodes the pairs in insertion order so the encoding is
// deterministic. An empty map encodes to nil.
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

// GobDecode appends the encoded pairs to the map, preserving their encoded
// order. It initializes the inner storage so a map allocated by the gob
// machinery decodes correctly.
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
