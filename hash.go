package probemap

import (
	"encoding/binary"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

type HashFunc[K comparable] func(K) uint64

var fallbackSeed = maphash.MakeSeed()

// Returns the default hash function for K.
//
// Strings, booleans and integer kinds are hashed by content with xxhash, so
// the same sequence of operations lays out the table identically on every
// run. Any other comparable type falls back to maphash with a per-process seed.
func MakeDefaultHashFunc[K comparable]() HashFunc[K] {
	return func(k K) uint64 {
		var buf [8]byte

		switch v := any(k).(type) {
		case string:
			return xxhash.Sum64String(v)
		case bool:
			if v {
				buf[0] = 1
			}
		case int:
			binary.LittleEndian.PutUint64(buf[:], uint64(v))
		case int8:
			buf[0] = byte(v)
		case int16:
			binary.LittleEndian.PutUint16(buf[:], uint16(v))
		case int32:
			binary.LittleEndian.PutUint32(buf[:], uint32(v))
		case int64:
			binary.LittleEndian.PutUint64(buf[:], uint64(v))
		case uint:
			binary.LittleEndian.PutUint64(buf[:], uint64(v))
		case uint8:
			buf[0] = v
		case uint16:
			binary.LittleEndian.PutUint16(buf[:], v)
		case uint32:
			binary.LittleEndian.PutUint32(buf[:], v)
		case uint64:
			binary.LittleEndian.PutUint64(buf[:], v)
		case uintptr:
			binary.LittleEndian.PutUint64(buf[:], uint64(v))
		default:
			return maphash.Comparable(fallbackSeed, k)
		}

		return xxhash.Sum64(buf[:])
	}
}

// Reduces a hash to a slot index of a table with `capacity` slots.
func HashIndex(hash uint64, capacity int) int {
	return int(hash % uint64(capacity))
}
