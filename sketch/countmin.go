package sketch

import (
	"hash/fnv"
	"math"
)

// CountMinSketch is a fixed-size approximate frequency counter used by
// most_frequent. Depth×width uint32 matrix, FNV-1a-seeded hash family —
// stdlib hashing is sufficient here since the sketch only needs cheap,
// well-distributed 64-bit hashes, not a cryptographic or specialized
// string-hashing library (see DESIGN.md).
type CountMinSketch struct {
	depth, width int
	counters     [][]uint32
	seeds        []uint64
}

// NewCountMinSketch builds a sketch sized from the desired error bound
// (tolerance) and failure probability, following the standard CM-sketch
// sizing formulas: width = ceil(e/tolerance), depth = ceil(ln(1/probability)).
func NewCountMinSketch(probability, tolerance float64) *CountMinSketch {
	if tolerance <= 0 {
		tolerance = 0.01
	}
	if probability <= 0 || probability >= 1 {
		probability = 0.01
	}
	width := int(math.Ceil(math.E / tolerance))
	depth := int(math.Ceil(math.Log(1 / probability)))
	if width < 1 {
		width = 1
	}
	if depth < 1 {
		depth = 1
	}
	counters := make([][]uint32, depth)
	seeds := make([]uint64, depth)
	for i := range counters {
		counters[i] = make([]uint32, width)
		seeds[i] = uint64(i)*0x9E3779B97F4A7C15 + 1
	}
	return &CountMinSketch{depth: depth, width: width, counters: counters, seeds: seeds}
}

func (s *CountMinSketch) rowIndex(row int, key string) int {
	h := fnv.New64a()
	var seedBuf [8]byte
	for i := 0; i < 8; i++ {
		seedBuf[i] = byte(s.seeds[row] >> (8 * i))
	}
	_, _ = h.Write(seedBuf[:])
	_, _ = h.Write([]byte(key))
	return int(h.Sum64() % uint64(s.width))
}

// Push records one occurrence of key.
func (s *CountMinSketch) Push(key string) {
	for row := 0; row < s.depth; row++ {
		idx := s.rowIndex(row, key)
		s.counters[row][idx]++
	}
}

// Estimate returns the approximate count for key (always an over-estimate,
// never an under-estimate).
func (s *CountMinSketch) Estimate(key string) uint32 {
	min := uint32(math.MaxUint32)
	for row := 0; row < s.depth; row++ {
		idx := s.rowIndex(row, key)
		if s.counters[row][idx] < min {
			min = s.counters[row][idx]
		}
	}
	return min
}

// Merge folds other's counts into s. Both sketches must share the same
// dimensions (guaranteed when both come from factories built with the
// same parameters).
func (s *CountMinSketch) Merge(other *CountMinSketch) {
	if other == nil {
		return
	}
	for row := 0; row < s.depth && row < other.depth; row++ {
		for col := 0; col < s.width && col < other.width; col++ {
			s.counters[row][col] += other.counters[row][col]
		}
	}
}
