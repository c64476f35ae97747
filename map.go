package probemap

import "iter"

// Map is an open-addressing hash map with linear probing.
// Deleted entries leave tombstones behind so probe chains stay intact, the
// map grows to the next prime of twice its capacity whenever live entries
// plus tombstones would reach 75% of the slots. It never shrinks.
//
// Map is not safe for concurrent writes. Concurrent reads are fine.
type Map[K comparable, V any] struct {
	table[K, V]
}

// Returns a new map with at least `capacity` slots.
func NewMap[K comparable, V any](capacity int, opts ...Option[K, V]) *Map[K, V] {
	var m Map[K, V]
	m.init(capacity, opts...)

	return &m
}

// Puts a key in the map, overwriting the value of an existing key.
func (m *Map[K, V]) Put(key K, value V) error {
	_, err := m.put(key, value)
	return err
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.get(key)
}

func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.has(key)
}

// Removes a key, returning its value if it was present.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	return m.delete(key)
}

// Returns a snapshot of the live keys in no particular order.
func (m *Map[K, V]) Keys() []K {
	return m.keys()
}

func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return m.all()
}
