package probemap

import (
	"bytes"
	"math/rand"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable[K comparable, V any](capacity int, opts ...Option[K, V]) *table[K, V] {
	var tt table[K, V]
	tt.init(capacity, opts...)

	return &tt
}

// Every key starts probing at slot 0.
func collisionHash(string) uint64 {
	return 0
}

func requireLoadFactor[K comparable, V any](t *testing.T, tt *table[K, V]) {
	t.Helper()

	used := tt.live + tt.tombstones
	require.LessOrEqual(t, used, tt.capacity)
	require.Less(t, used*loadFactorDen, tt.capacity*loadFactorNum,
		"load factor broken: live=%d tombstones=%d capacity=%d", tt.live, tt.tombstones, tt.capacity)
}

func countStates[K comparable, V any](tt *table[K, V]) (full, deleted int) {
	for i := range tt.slots {
		switch tt.slots[i].state {
		case slotFull:
			full++
		case slotDeleted:
			deleted++
		}
	}

	return full, deleted
}

func TestTable_init(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{"negative uses default", -5, 17},
		{"zero uses default", 0, 17},
		{"one", 1, 2},
		{"prime stays", 13, 13},
		{"rounds up to prime", 120000, 120011},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt := newTable[string, int](tc.capacity)

			require.Equal(t, tc.want, tt.capacity)
			require.Len(t, tt.slots, tc.want)
			require.True(t, IsPrime(tt.capacity))
			require.Zero(t, tt.live)
			require.Zero(t, tt.tombstones)
		})
	}
}

func TestTable_put(t *testing.T) {
	tt := newTable[string, string](16)

	ok, err := tt.put("foo", "bar")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = tt.put("foo", "bar2")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, tt.live)

	v, found := tt.get("foo")
	require.True(t, found)
	require.Equal(t, "bar2", v)
}

func TestTable_put_InvalidKey(t *testing.T) {
	tt := newTable[string, int](16)

	ok, err := tt.put("", 1)
	require.ErrorIs(t, err, ErrInvalidKey)
	require.False(t, ok)
	require.Zero(t, tt.live)

	full, deleted := countStates(tt)
	require.Zero(t, full)
	require.Zero(t, deleted)

	_, found := tt.get("")
	assert.False(t, found)
	assert.False(t, tt.has(""))

	_, found = tt.delete("")
	assert.False(t, found)
}

func TestTable_put_CustomValidator(t *testing.T) {
	tt := newTable(16, WithKeyValidator[int, int](func(k int) bool { return k >= 0 }))

	_, err := tt.put(0, 10)
	require.NoError(t, err)

	_, err = tt.put(-1, 10)
	require.ErrorIs(t, err, ErrInvalidKey)

	v, ok := tt.get(0)
	require.True(t, ok)
	require.Equal(t, 10, v)
}

func TestTable_put_LinearProbe(t *testing.T) {
	tt := newTable(16, WithHashFunc[string, string](collisionHash))

	for _, k := range []string{"A", "B", "C"} {
		_, err := tt.put(k, k)
		require.NoError(t, err)
	}

	// Collisions land in consecutive slots.
	require.Equal(t, "A", tt.slots[0].key)
	require.Equal(t, "B", tt.slots[1].key)
	require.Equal(t, "C", tt.slots[2].key)
}

func TestTable_put_Wraps(t *testing.T) {
	lastSlot := func(string) uint64 { return 16 } // 17 slots, index 16 is the last one

	tt := newTable(16, WithHashFunc[string, int](lastSlot))

	_, err := tt.put("A", 1)
	require.NoError(t, err)
	_, err = tt.put("B", 2)
	require.NoError(t, err)

	require.Equal(t, "A", tt.slots[16].key)
	require.Equal(t, "B", tt.slots[0].key, "probe did not wrap to the start of the table")

	v, ok := tt.get("B")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestTable_put_Tombstones(t *testing.T) {
	tt := newTable(16, WithHashFunc[string, string](collisionHash))

	_, err := tt.put("A", "foo") // Slot 0
	require.NoError(t, err)
	_, err = tt.put("B", "bar") // Slot 1 (via probe)
	require.NoError(t, err)
	_, err = tt.put("C", "lol") // Slot 2 (via probe)
	require.NoError(t, err)

	// Delete the "bridge" element
	v, ok := tt.delete("B")
	require.True(t, ok)
	require.Equal(t, "bar", v)
	require.Equal(t, slotDeleted, tt.slots[1].state)

	// Verify we can still find "C" even though there's a hole at "B"
	v, ok = tt.get("C")
	require.True(t, ok, "Probe chain broken: could not find 'C' after deleting 'B'")
	require.Equal(t, "lol", v)

	require.False(t, tt.has("B"))
	_, ok = tt.get("B")
	require.False(t, ok)
}

func TestTable_put_ReusesFirstTombstone(t *testing.T) {
	tt := newTable(16, WithHashFunc[string, int](collisionHash))

	for i, k := range []string{"A", "B", "C", "D"} {
		_, err := tt.put(k, i)
		require.NoError(t, err)
	}

	tt.delete("B")
	tt.delete("C")
	require.Equal(t, 2, tt.tombstones)

	ok, err := tt.put("E", 5)
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, "E", tt.slots[1].key, "new key must land on the first tombstone")
	require.Equal(t, slotDeleted, tt.slots[2].state)
	require.Equal(t, 3, tt.live)
	require.Equal(t, 1, tt.tombstones)
}

func TestTable_put_ExistingKeyBehindTombstone(t *testing.T) {
	tt := newTable(16, WithHashFunc[string, int](collisionHash))

	_, err := tt.put("A", 1)
	require.NoError(t, err)
	_, err = tt.put("B", 2)
	require.NoError(t, err)

	tt.delete("A")

	// "B" lives past the tombstone, so this is an overwrite not a reuse.
	ok, err := tt.put("B", 20)
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, 1, tt.live)
	require.Equal(t, 1, tt.tombstones)
	require.Equal(t, slotDeleted, tt.slots[0].state)

	v, _ := tt.get("B")
	require.Equal(t, 20, v)
}

func TestTable_put_Rehash(t *testing.T) {
	tt := newTable[int, int](5)
	require.Equal(t, 5, tt.capacity)

	// 3/5 stays below 0.75 and 4/5 does not, so the 4th key triggers growth.
	for i := 1; i <= 3; i++ {
		_, err := tt.put(i, i)
		require.NoError(t, err)
		require.Equal(t, 5, tt.capacity)
	}

	_, err := tt.put(4, 4)
	require.NoError(t, err)
	require.Equal(t, 11, tt.capacity) // NextPrime(10)

	for i := 1; i <= 4; i++ {
		v, ok := tt.get(i)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestTable_put_RehashDropsTombstones(t *testing.T) {
	tt := newTable[int, int](17)

	for i := 1; i <= 12; i++ {
		_, err := tt.put(i, i)
		require.NoError(t, err)
	}

	for i := 1; i <= 6; i++ {
		_, ok := tt.delete(i)
		require.True(t, ok)
	}

	require.Equal(t, 6, tt.live)
	require.Equal(t, 6, tt.tombstones)

	// Fresh keys eventually land on empty slots and trigger a rehash.
	for i := 100; tt.capacity == 17; i++ {
		_, err := tt.put(i, i)
		require.NoError(t, err)
		requireLoadFactor(t, tt)
	}

	require.Equal(t, 37, tt.capacity) // NextPrime(34)
	require.Zero(t, tt.tombstones)

	full, deleted := countStates(tt)
	require.Equal(t, tt.live, full)
	require.Zero(t, deleted)

	for i := 7; i <= 12; i++ {
		v, ok := tt.get(i)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestTable_put_LoadFactor(t *testing.T) {
	tt := newTable[string, int](2)
	r := rand.New(rand.NewSource(42))

	present := make(map[string]int)

	for i := range 20000 {
		key := "k" + strconv.Itoa(r.Intn(3000))

		if r.Intn(3) == 0 {
			_, ok := tt.delete(key)
			_, want := present[key]
			require.Equal(t, want, ok)
			delete(present, key)
		} else {
			_, err := tt.put(key, i)
			require.NoError(t, err)
			present[key] = i
		}

		requireLoadFactor(t, tt)
		require.True(t, IsPrime(tt.capacity))
		require.Equal(t, len(present), tt.live)
	}

	full, deleted := countStates(tt)
	require.Equal(t, tt.live, full)
	require.Equal(t, tt.tombstones, deleted)

	for k, v := range present {
		got, ok := tt.get(k)
		require.True(t, ok, "lost key %q", k)
		require.Equal(t, v, got)
	}
}

func TestTable_put_ErrTableFull(t *testing.T) {
	tt := newTable[string, int](5)

	// Corrupt the table: every slot full, counters claiming it's empty.
	for i := range tt.slots {
		tt.slots[i] = slot[string, int]{state: slotFull, key: "x" + strconv.Itoa(i), value: i}
	}

	ok, err := tt.put("new", 1)
	require.ErrorIs(t, err, ErrTableFull)
	require.False(t, ok)

	// Lookups must terminate as well.
	_, found := tt.get("missing")
	require.False(t, found)
}

func TestTable_delete(t *testing.T) {
	tt := newTable[string, int](16)

	_, err := tt.put("foo", 1)
	require.NoError(t, err)

	v, ok := tt.delete("foo")
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.Zero(t, tt.live)
	require.Equal(t, 1, tt.tombstones)

	_, ok = tt.delete("foo")
	require.False(t, ok)
	require.Equal(t, 1, tt.tombstones)
}

func TestTable_get_SkipsAllTombstones(t *testing.T) {
	tt := newTable(5, WithHashFunc[string, int](collisionHash))

	_, err := tt.put("A", 1)
	require.NoError(t, err)
	_, err = tt.put("B", 2)
	require.NoError(t, err)
	_, err = tt.put("C", 3)
	require.NoError(t, err)

	tt.delete("A")
	tt.delete("B")
	tt.delete("C")

	// Fill the rest with tombstones too, so no empty slot ends the walk.
	for i := range tt.slots {
		if tt.slots[i].state == slotEmpty {
			tt.slots[i].state = slotDeleted
			tt.tombstones++
		}
	}

	require.False(t, tt.has("A"))

	// Insertion still works by reusing the first tombstone.
	ok, err := tt.put("D", 4)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "D", tt.slots[0].key)
}

func TestTable_keys(t *testing.T) {
	tt := newTable[string, int](16)

	for i, k := range []string{"a", "b", "c", "d"} {
		_, err := tt.put(k, i)
		require.NoError(t, err)
	}

	tt.delete("b")

	keys := tt.keys()
	slices.Sort(keys)
	require.Equal(t, []string{"a", "c", "d"}, keys)

	// Snapshot is not affected by later writes.
	_, err := tt.put("e", 5)
	require.NoError(t, err)
	require.Len(t, keys, 3)
}

func TestTable_all(t *testing.T) {
	tt := newTable[string, int](16)

	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		_, err := tt.put(k, v)
		require.NoError(t, err)
	}

	got := make(map[string]int)
	for k, v := range tt.all() {
		got[k] = v
	}

	require.Equal(t, want, got)

	n := 0
	for range tt.all() {
		n++
		break
	}

	require.Equal(t, 1, n)
}

func TestTable_Compact(t *testing.T) {
	tt := newTable[int, int](32)

	for i := 1; i <= 20; i++ {
		_, err := tt.put(i, i*10)
		require.NoError(t, err)
	}

	for i := 1; i < 20; i++ {
		_, ok := tt.delete(i)
		require.True(t, ok)
	}

	capacity := tt.capacity

	require.NoError(t, tt.Compact())
	require.Equal(t, capacity, tt.capacity)
	require.Zero(t, tt.tombstones)
	require.Equal(t, 1, tt.live)

	v, ok := tt.get(20)
	require.True(t, ok, "lost key 20 after compaction")
	require.Equal(t, 200, v)

	_, deleted := countStates(tt)
	require.Zero(t, deleted)
}

func TestTable_Reset(t *testing.T) {
	tt := newTable[int, int](16)

	for i := 1; i <= 10; i++ {
		_, err := tt.put(i, i)
		require.NoError(t, err)
	}

	tt.delete(3)
	capacity := tt.capacity

	tt.Reset()

	require.Equal(t, capacity, tt.capacity)
	require.Zero(t, tt.live)
	require.Zero(t, tt.tombstones)
	require.False(t, tt.has(1))
}

func TestTable_dump(t *testing.T) {
	tt := newTable(2, WithHashFunc[string, int](collisionHash))

	_, err := tt.put("A", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tt.dump(&buf))

	require.Equal(t,
		"Table (Capacity: 2, Size: 1, Tombstones: 0):\n"+
			"Index 0: Key=A, Value=1\n"+
			"Index 1: empty\n",
		buf.String())

	tt.delete("A")
	buf.Reset()
	require.NoError(t, tt.dump(&buf))
	require.Contains(t, buf.String(), "Index 0: tombstone\n")
}

func TestTable_Deterministic(t *testing.T) {
	layout := func() []string {
		tt := newTable[string, int](16)
		for i := range 100 {
			_, err := tt.put("word"+strconv.Itoa(i), i)
			require.NoError(t, err)
		}

		for i := 0; i < 100; i += 3 {
			tt.delete("word" + strconv.Itoa(i))
		}

		return tt.keys()
	}

	require.Equal(t, layout(), layout())
}
