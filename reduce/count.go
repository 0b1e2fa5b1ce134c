package reduce

import "context"

// countReducer increments per input, ignoring the value itself.
type countReducer[Item any] struct {
	n int64
}

func (r *countReducer[Item]) Push(_ context.Context, _ Item) error {
	r.n++
	return nil
}

func (r *countReducer[Item]) Output(_ context.Context) (int64, error) {
	return r.n, nil
}

// CountFactory returns a Factory producing fresh count reducers.
func CountFactory[Item any]() Factory[Item, int64] {
	return FactoryFunc[Item, int64](func() Reducer[Item, int64] {
		return &countReducer[Item]{}
	})
}

// Count expands into the Count terminal operator. Tree-level aggregation
// of partial counts is itself a sum, so B/C both reuse SumFactory/sumReducer.
func Count[Item any]() *Terminal[Item, int64, int64, int64] {
	return &Terminal[Item, int64, int64, int64]{
		FactoryA: CountFactory[Item](),
		FactoryB: SumFactory[int64](),
		ReducerC: SumFactory[int64]().Make(),
	}
}
