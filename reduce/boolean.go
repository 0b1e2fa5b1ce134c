package reduce

import "context"

// allReducer stays true until a predicate failure is observed; once
// tripped, further Push calls are no-ops so the reducer remains
// well-formed if driven past its logical short-circuit point.
type allReducer[Item any] struct {
	pred func(Item) bool
	ok   bool
}

func newAllReducer[Item any](pred func(Item) bool) *allReducer[Item] {
	return &allReducer[Item]{pred: pred, ok: true}
}

func (r *allReducer[Item]) Push(_ context.Context, item Item) error {
	if !r.ok {
		return nil
	}
	if !r.pred(item) {
		r.ok = false
	}
	return nil
}

func (r *allReducer[Item]) Output(_ context.Context) (bool, error) {
	return r.ok, nil
}

// allMergeReducer ANDs partial bool results together at the B/C levels.
type allMergeReducer struct{ ok bool }

func newAllMergeReducer() *allMergeReducer { return &allMergeReducer{ok: true} }

func (r *allMergeReducer) Push(_ context.Context, partial bool) error {
	r.ok = r.ok && partial
	return nil
}

func (r *allMergeReducer) Output(_ context.Context) (bool, error) {
	return r.ok, nil
}

// All expands into the All terminal operator: A stops flipping on the
// first predicate failure, B/C AND the partials together.
func All[Item any](pred func(Item) bool) *Terminal[Item, bool, bool, bool] {
	fa := FactoryFunc[Item, bool](func() Reducer[Item, bool] { return newAllReducer(pred) })
	fb := FactoryFunc[bool, bool](func() Reducer[bool, bool] { return newAllMergeReducer() })
	return &Terminal[Item, bool, bool, bool]{
		FactoryA: fa,
		FactoryB: fb,
		ReducerC: fb.Make(),
	}
}

// anyReducer stays false until a predicate match is observed; once
// tripped, further Push calls are no-ops.
type anyReducer[Item any] struct {
	pred func(Item) bool
	hit  bool
}

func newAnyReducer[Item any](pred func(Item) bool) *anyReducer[Item] {
	return &anyReducer[Item]{pred: pred}
}

func (r *anyReducer[Item]) Push(_ context.Context, item Item) error {
	if r.hit {
		return nil
	}
	if r.pred(item) {
		r.hit = true
	}
	return nil
}

func (r *anyReducer[Item]) Output(_ context.Context) (bool, error) {
	return r.hit, nil
}

// anyMergeReducer ORs partial bool results together at the B/C levels.
type anyMergeReducer struct{ hit bool }

func (r *anyMergeReducer) Push(_ context.Context, partial bool) error {
	r.hit = r.hit || partial
	return nil
}

func (r *anyMergeReducer) Output(_ context.Context) (bool, error) {
	return r.hit, nil
}

// Any expands into the Any terminal operator: A stops flipping on the
// first predicate match, B/C OR the partials together.
func Any[Item any](pred func(Item) bool) *Terminal[Item, bool, bool, bool] {
	fa := FactoryFunc[Item, bool](func() Reducer[Item, bool] { return newAnyReducer(pred) })
	fb := FactoryFunc[bool, bool](func() Reducer[bool, bool] { return &anyMergeReducer{} })
	return &Terminal[Item, bool, bool, bool]{
		FactoryA: fa,
		FactoryB: fb,
		ReducerC: fb.Make(),
	}
}
