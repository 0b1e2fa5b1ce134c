package reduce

import "context"

// Summable is any numeric type a Sum reducer can accumulate.
type Summable interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// sumReducer accumulates a running sum; Push/Output never suspend since
// the accumulation itself is synchronous.
type sumReducer[S Summable] struct {
	total S
}

func (r *sumReducer[S]) Push(_ context.Context, item S) error {
	r.total += item
	return nil
}

func (r *sumReducer[S]) Output(_ context.Context) (S, error) {
	return r.total, nil
}

// SumFactory returns a Factory producing fresh sum reducers, seeded at the
// empty-iterator sum (the type's zero value).
func SumFactory[S Summable]() Factory[S, S] {
	return FactoryFunc[S, S](func() Reducer[S, S] {
		return &sumReducer[S]{}
	})
}

// Sum expands into the Sum terminal operator: a monoidal aggregator, so
// all three tree levels share the same reducer shape.
func Sum[S Summable]() *Terminal[S, S, S, S] {
	return &Terminal[S, S, S, S]{
		FactoryA: SumFactory[S](),
		FactoryB: SumFactory[S](),
		ReducerC: SumFactory[S]().Make(),
	}
}
