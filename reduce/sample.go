package reduce

import (
	"context"

	"github.com/kbukum/treereduce/sketch"
)

// sampleReducer wraps a fixed-capacity Reservoir as a Reducer.
type sampleReducer[Item any] struct {
	capacity int
	r        *sketch.Reservoir[Item]
}

func newSampleReducer[Item any](capacity int) *sampleReducer[Item] {
	return &sampleReducer[Item]{capacity: capacity, r: sketch.NewReservoir[Item](capacity)}
}

func (s *sampleReducer[Item]) Push(_ context.Context, item Item) error {
	s.r.Push(item)
	return nil
}

func (s *sampleReducer[Item]) Output(_ context.Context) (*sketch.Reservoir[Item], error) {
	return s.r, nil
}

// sampleMergeReducer merges upstream Reservoir partials monoidally, which
// is what lets SampleUnstable run as a plain tree reduction despite the
// sampler's internal randomness.
type sampleMergeReducer[Item any] struct {
	capacity int
	r        *sketch.Reservoir[Item]
}

func (s *sampleMergeReducer[Item]) Push(_ context.Context, partial *sketch.Reservoir[Item]) error {
	if s.r == nil {
		s.r = sketch.NewReservoir[Item](s.capacity)
	}
	s.r.Merge(partial)
	return nil
}

func (s *sampleMergeReducer[Item]) Output(_ context.Context) (*sketch.Reservoir[Item], error) {
	if s.r == nil {
		s.r = sketch.NewReservoir[Item](s.capacity)
	}
	return s.r, nil
}

// SampleUnstable expands into the sample_unstable terminal operator: a
// fixed-capacity reservoir sample, uniform over the whole stream but with
// no guaranteed order among the retained elements — reduction-tree merges
// are true Algorithm-R-weighted merges, not mere concatenation.
func SampleUnstable[Item any](capacity int) *Terminal[Item, *sketch.Reservoir[Item], *sketch.Reservoir[Item], *sketch.Reservoir[Item]] {
	fa := FactoryFunc[Item, *sketch.Reservoir[Item]](func() Reducer[Item, *sketch.Reservoir[Item]] {
		return newSampleReducer[Item](capacity)
	})
	fb := FactoryFunc[*sketch.Reservoir[Item], *sketch.Reservoir[Item]](func() Reducer[*sketch.Reservoir[Item], *sketch.Reservoir[Item]] {
		return &sampleMergeReducer[Item]{capacity: capacity}
	})
	return &Terminal[Item, *sketch.Reservoir[Item], *sketch.Reservoir[Item], *sketch.Reservoir[Item]]{
		FactoryA: fa,
		FactoryB: fb,
		ReducerC: fb.Make(),
	}
}
