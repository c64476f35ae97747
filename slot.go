package probemap

type slotState uint8

const (
	// The zero value, so a freshly allocated slots array is all empty.
	slotEmpty slotState = iota
	slotDeleted
	slotFull
)

func (s slotState) String() string {
	switch s {
	case slotEmpty:
		return "empty"
	case slotDeleted:
		return "tombstone"
	case slotFull:
		return "full"
	}

	return "unknown"
}

// slot is a single cell of the table array.
// Key and value are only meaningful while the state is slotFull. A deleted
// slot keeps nothing, its key and value are cleared so the GC can collect them.
type slot[K comparable, V any] struct {
	state slotState
	key   K
	value V
}
