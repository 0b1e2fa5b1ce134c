package reduce

import (
	"context"

	"github.com/kbukum/treereduce/either"
)

// groupByReducer buckets (K, V) pairs into a per-key fold, using the same
// FoldOp at every key; a key absent from the map is seeded lazily.
type groupByReducer[K comparable, V, C any] struct {
	seed func() C
	op   FoldOp[V, C]
	m    map[K]C
}

func (r *groupByReducer[K, V, C]) Push(_ context.Context, item Pair[K, V]) error {
	if r.m == nil {
		r.m = make(map[K]C)
	}
	acc, ok := r.m[item.Key]
	if !ok {
		acc = r.seed()
	}
	r.m[item.Key] = r.op(acc, either.Left[V, C](item.Value))
	return nil
}

func (r *groupByReducer[K, V, C]) Output(_ context.Context) (map[K]C, error) {
	if r.m == nil {
		return make(map[K]C), nil
	}
	return r.m, nil
}

// groupByMergeReducer is the tree-level counterpart: each input is itself a
// map[K]C of partials, folded key-by-key into the accumulator with the same
// op (routed through Either's Right case).
type groupByMergeReducer[K comparable, V, C any] struct {
	seed func() C
	op   FoldOp[V, C]
	m    map[K]C
}

func (r *groupByMergeReducer[K, V, C]) Push(_ context.Context, partials map[K]C) error {
	if r.m == nil {
		r.m = make(map[K]C)
	}
	for k, partial := range partials {
		acc, ok := r.m[k]
		if !ok {
			acc = r.seed()
		}
		r.m[k] = r.op(acc, either.Right[V, C](partial))
	}
	return nil
}

func (r *groupByMergeReducer[K, V, C]) Output(_ context.Context) (map[K]C, error) {
	if r.m == nil {
		return make(map[K]C), nil
	}
	return r.m, nil
}

// GroupBy expands into the GroupBy terminal operator: a (K, V) stream
// folds into map[K]C, with every tree level re-folding values/partials per
// key using the same op (§4.2/§4.3).
func GroupBy[K comparable, V, C any](seed func() C, op FoldOp[V, C]) *Terminal[Pair[K, V], map[K]C, map[K]C, map[K]C] {
	fa := FactoryFunc[Pair[K, V], map[K]C](func() Reducer[Pair[K, V], map[K]C] {
		return &groupByReducer[K, V, C]{seed: seed, op: op}
	})
	fb := FactoryFunc[map[K]C, map[K]C](func() Reducer[map[K]C, map[K]C] {
		return &groupByMergeReducer[K, V, C]{seed: seed, op: op}
	})
	return &Terminal[Pair[K, V], map[K]C, map[K]C, map[K]C]{
		FactoryA: fa,
		FactoryB: fb,
		ReducerC: fb.Make(),
	}
}
