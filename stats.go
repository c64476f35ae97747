package probemap

type Stats struct {
	Size                    int
	Tombstones              int
	Capacity                int
	LoadFactor              float32
	TombstonesCapacityRatio float32
	TombstonesSizeRatio     float32
}
