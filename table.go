package probemap

import (
	"fmt"
	"io"
	"iter"

	"github.com/pkg/errors"
)

const (
	// DefaultCapacity is used when a non-positive capacity is requested.
	// The table rounds it up to the next prime.
	DefaultCapacity = 16

	// Load factor is loadFactorNum/loadFactorDen, 0.75.
	// Live slots plus tombstones must stay below it after every insert.
	loadFactorNum = 3
	loadFactorDen = 4
)

type table[K comparable, V any] struct {
	slots []slot[K, V]

	capacity   int
	live       int
	tombstones int

	hashFunc HashFunc[K]
	keyValid func(K) bool

	emptyV V
}

type Option[K comparable, V any] func(t *table[K, V])

// Override default hash function.
func WithHashFunc[K comparable, V any](f HashFunc[K]) Option[K, V] {
	return func(t *table[K, V]) {
		t.hashFunc = f
	}
}

// Override the check deciding whether a key may be stored.
// By default the zero value of K is rejected, so "" is never a valid string key.
func WithKeyValidator[K comparable, V any](f func(K) bool) Option[K, V] {
	return func(t *table[K, V]) {
		t.keyValid = f
	}
}

func nonZeroKey[K comparable](k K) bool {
	var zero K
	return k != zero
}

func (t *table[K, V]) init(capacity int, opts ...Option[K, V]) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	t.capacity = NextPrime(capacity)
	t.slots = make([]slot[K, V], t.capacity)

	for _, opt := range opts {
		opt(t)
	}

	if t.hashFunc == nil {
		t.hashFunc = MakeDefaultHashFunc[K]()
	}

	if t.keyValid == nil {
		t.keyValid = nonZeroKey[K]
	}
}

// probe walks the linear probe sequence of key.
// match is the index of the live slot holding key, or -1.
// target is where key would be inserted: the first tombstone seen, otherwise
// the empty slot that ended the walk. It's -1 if neither exists.
func (t *table[K, V]) probe(key K) (match, target int) {
	start := HashIndex(t.hashFunc(key), t.capacity)
	target = -1

	for p, idx := 0, start; p < t.capacity; p++ {
		s := &t.slots[idx]

		switch s.state {
		case slotEmpty:
			if target < 0 {
				target = idx
			}

			return -1, target
		case slotDeleted:
			if target < 0 {
				target = idx
			}
		case slotFull:
			if s.key == key {
				return idx, target
			}
		}

		idx++
		if idx == t.capacity {
			idx = 0
		}
	}

	return -1, target
}

// exceedsLoad reports whether occupying `n` more empty slots would break
// the load factor.
func (t *table[K, V]) exceedsLoad(n int) bool {
	return (t.live+t.tombstones+n)*loadFactorDen >= t.capacity*loadFactorNum
}

// put inserts or overwrites key. Returns whether the key is new.
func (t *table[K, V]) put(key K, value V) (bool, error) {
	if !t.keyValid(key) {
		return false, errors.Wrapf(ErrInvalidKey, "put %v", key)
	}

	match, target := t.probe(key)
	if match >= 0 {
		t.slots[match].value = value
		return false, nil
	}

	if target < 0 {
		return false, errors.Wrapf(ErrTableFull, "put %v: probed %d slots", key, t.capacity)
	}

	// Reusing a tombstone keeps live+tombstones unchanged, so only
	// landing on an empty slot may push the table over the load factor.
	if t.slots[target].state == slotEmpty && t.exceedsLoad(1) {
		if err := t.rehash(NextPrime(2 * t.capacity)); err != nil {
			return false, err
		}

		if _, target = t.probe(key); target < 0 {
			return false, errors.Wrapf(ErrTableFull, "put %v after rehash", key)
		}
	}

	t.occupy(target, key, value)

	return true, nil
}

func (t *table[K, V]) occupy(idx int, key K, value V) {
	s := &t.slots[idx]
	if s.state == slotDeleted {
		t.tombstones--
	}

	s.state = slotFull
	s.key = key
	s.value = value
	t.live++
}

func (t *table[K, V]) get(key K) (V, bool) {
	if !t.keyValid(key) {
		return t.emptyV, false
	}

	match, _ := t.probe(key)
	if match < 0 {
		return t.emptyV, false
	}

	return t.slots[match].value, true
}

func (t *table[K, V]) has(key K) bool {
	if !t.keyValid(key) {
		return false
	}

	match, _ := t.probe(key)

	return match >= 0
}

func (t *table[K, V]) delete(key K) (V, bool) {
	if !t.keyValid(key) {
		return t.emptyV, false
	}

	match, _ := t.probe(key)
	if match < 0 {
		return t.emptyV, false
	}

	// Mark as deleted to preserve the probe chain
	s := &t.slots[match]
	value := s.value
	*s = slot[K, V]{state: slotDeleted}

	t.live--
	t.tombstones++

	return value, true
}

// rehash moves every live entry into a fresh array of `capacity` slots,
// dropping all tombstones.
func (t *table[K, V]) rehash(capacity int) error {
	old := t.slots

	t.slots = make([]slot[K, V], capacity)
	t.capacity = capacity
	t.live = 0
	t.tombstones = 0

	for i := range old {
		if old[i].state != slotFull {
			continue
		}

		_, target := t.probe(old[i].key)
		if target < 0 {
			return errors.Wrapf(ErrTableFull, "rehash into %d slots", capacity)
		}

		t.occupy(target, old[i].key, old[i].value)
	}

	return nil
}

func (t *table[K, V]) keys() []K {
	keys := make([]K, 0, t.live)

	for i := range t.slots {
		if t.slots[i].state == slotFull {
			keys = append(keys, t.slots[i].key)
		}
	}

	return keys
}

// all iterates the slot array as it was when iteration started. A rehash
// during iteration doesn't affect the walk, in-place writes and deletes do.
func (t *table[K, V]) all() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		slots := t.slots

		for i := range slots {
			if slots[i].state != slotFull {
				continue
			}

			if !yield(slots[i].key, slots[i].value) {
				return
			}
		}
	}
}

func (t *table[K, V]) stats() Stats {
	s := Stats{
		Size:       t.live,
		Tombstones: t.tombstones,
		Capacity:   t.capacity,
		LoadFactor: float32(t.live+t.tombstones) / float32(t.capacity),

		TombstonesCapacityRatio: float32(t.tombstones) / float32(t.capacity),
	}

	if t.live > 0 {
		s.TombstonesSizeRatio = float32(t.tombstones) / float32(t.live)
	}

	return s
}

func (t *table[K, V]) dump(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Table (Capacity: %d, Size: %d, Tombstones: %d):\n", t.capacity, t.live, t.tombstones)
	if err != nil {
		return err
	}

	for i := range t.slots {
		s := &t.slots[i]
		if s.state == slotFull {
			_, err = fmt.Fprintf(w, "Index %d: Key=%v, Value=%v\n", i, s.key, s.value)
		} else {
			_, err = fmt.Fprintf(w, "Index %d: %s\n", i, s.state)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (t *table[K, V]) Len() int {
	return t.live
}

func (t *table[K, V]) Capacity() int {
	return t.capacity
}

func (t *table[K, V]) Stats() Stats {
	return t.stats()
}

// Empties the table in place, keeping its capacity.
func (t *table[K, V]) Reset() {
	clear(t.slots)

	t.live = 0
	t.tombstones = 0
}

// Drops all tombstones by rebuilding the table at its current capacity.
func (t *table[K, V]) Compact() error {
	return t.rehash(t.capacity)
}

// Writes every slot of the table to `w`, one per line.
func (t *table[K, V]) Dump(w io.Writer) error {
	return t.dump(w)
}
