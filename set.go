package probemap

import "iter"

type SetOption[E comparable] = Option[E, struct{}]

// Set is a hash set backed by the same table as Map, with empty values.
type Set[E comparable] struct {
	table[E, struct{}]
}

func NewSet[E comparable](capacity int, opts ...SetOption[E]) *Set[E] {
	var s Set[E]
	s.init(capacity, opts...)

	return &s
}

// Adds an element to the set.
// Returns true if it wasn't present before.
func (s *Set[E]) Add(e E) (bool, error) {
	return s.put(e, struct{}{})
}

// Removes an element, returning whether it was present.
func (s *Set[E]) Remove(e E) bool {
	_, ok := s.delete(e)
	return ok
}

func (s *Set[E]) Contains(e E) bool {
	return s.has(e)
}

func (s *Set[E]) IsEmpty() bool {
	return s.live == 0
}

// Clear is Reset under the name sets usually use.
func (s *Set[E]) Clear() {
	s.Reset()
}

// Returns a snapshot of the elements in no particular order.
// The order may change after the set grows.
func (s *Set[E]) Values() []E {
	return s.keys()
}

func (s *Set[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for e := range s.all() {
			if !yield(e) {
				return
			}
		}
	}
}
