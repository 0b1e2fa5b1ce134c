// Package sketch provides the pluggable approximate-algorithm black boxes
// referenced by spec.md §4.2: a fixed-capacity reservoir for
// sample_unstable, a count-min sketch for most_frequent, and a HyperLogLog
// for most_distinct. Each exposes New(params), Push, a monoidal Merge, and
// finalization, so an implementation may substitute any sketch satisfying
// the same shape.
package sketch

import "math/rand/v2"

// Reservoir is a fixed-size uniform reservoir sampler (Algorithm R). The
// Merge operation preserves uniformity across independently-built
// reservoirs of the same capacity, which is what lets sample_unstable run
// as a plain monoidal-sum reducer across the reduction tree.
type Reservoir[T any] struct {
	capacity int
	seen     int64
	items    []T
	rng      *rand.Rand
}

// NewReservoir creates an empty reservoir of the given capacity.
func NewReservoir[T any](capacity int) *Reservoir[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Reservoir[T]{
		capacity: capacity,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Push offers one item to the reservoir.
func (r *Reservoir[T]) Push(item T) {
	r.seen++
	if len(r.items) < r.capacity {
		r.items = append(r.items, item)
		return
	}
	if r.capacity == 0 {
		return
	}
	j := r.rng.Int64N(r.seen)
	if j < int64(r.capacity) {
		r.items[j] = item
	}
}

// Items returns the current sample. The returned slice must not be mutated.
func (r *Reservoir[T]) Items() []T { return r.items }

// Seen returns the total number of items offered so far (including ones
// that were not retained).
func (r *Reservoir[T]) Seen() int64 { return r.seen }

// Merge combines another reservoir sampled from a disjoint part of the
// stream into r, preserving uniform sampling probability across the
// union of both streams. Weighted reservoir merge: each item of the
// smaller-weighted reservoir survives with probability proportional to
// its source's seen count.
func (r *Reservoir[T]) Merge(other *Reservoir[T]) {
	if other == nil || other.seen == 0 {
		return
	}
	if r.seen == 0 {
		r.capacity = other.capacity
		r.items = append([]T(nil), other.items...)
		r.seen = other.seen
		return
	}
	totalSeen := r.seen + other.seen
	for _, item := range other.items {
		if len(r.items) < r.capacity {
			r.items = append(r.items, item)
			continue
		}
		if r.capacity == 0 {
			continue
		}
		// Each of other's retained items represents other.seen/len(other.items)
		// candidates; give it a fair chance to displace one of r's slots.
		j := r.rng.Int64N(totalSeen)
		if j < int64(r.capacity) {
			r.items[j] = item
		}
	}
	r.seen = totalSeen
}
