package reduce

import "context"

// combineReducer holds an optional accumulator; for each input a, if
// empty it stores into(a), else it replaces the stored value with
// op(cur, a). Output is a *B — nil if no input was ever seen.
type combineReducer[A, B any] struct {
	into func(A) B
	op   func(cur B, a A) B
	cur  *B
}

func (r *combineReducer[A, B]) Push(_ context.Context, a A) error {
	if r.cur == nil {
		v := r.into(a)
		r.cur = &v
		return nil
	}
	v := r.op(*r.cur, a)
	r.cur = &v
	return nil
}

func (r *combineReducer[A, B]) Output(_ context.Context) (*B, error) {
	return r.cur, nil
}

// combineFactory builds a Factory for a Combine reducer with the given
// into/op pair. Used directly by Combine and indirectly by Min/Max and
// their *By/*ByKey variants.
func combineFactory[A, B any](into func(A) B, op func(cur B, a A) B) Factory[A, *B] {
	return FactoryFunc[A, *B](func() Reducer[A, *B] {
		return &combineReducer[A, B]{into: into, op: op}
	})
}

// mergeOptional folds the A-level/B-level optional accumulator shape
// across a tree level: a sentinel-aware reducer that treats a nil partial
// as "no contribution" and otherwise re-applies op.
type mergeOptionalReducer[B any] struct {
	op  func(cur B, next B) B
	cur *B
}

func (r *mergeOptionalReducer[B]) Push(_ context.Context, next *B) error {
	if next == nil {
		return nil
	}
	if r.cur == nil {
		v := *next
		r.cur = &v
		return nil
	}
	v := r.op(*r.cur, *next)
	r.cur = &v
	return nil
}

func (r *mergeOptionalReducer[B]) Output(_ context.Context) (*B, error) {
	return r.cur, nil
}

func mergeOptionalFactory[B any](op func(cur, next B) B) Factory[*B, *B] {
	return FactoryFunc[*B, *B](func() Reducer[*B, *B] {
		return &mergeOptionalReducer[B]{op: op}
	})
}

// Combine expands into the Combine terminal operator: the A-level op
// folds raw items into partials via into/op; B/C levels re-apply the same
// op over the already-Option-wrapped partials, which share the item type T.
func Combine[T any](into func(T) T, op func(cur, next T) T) *Terminal[T, *T, *T, *T] {
	fa := combineFactory(into, op)
	fb := mergeOptionalFactory(op)
	return &Terminal[T, *T, *T, *T]{
		FactoryA: fa,
		FactoryB: fb,
		ReducerC: fb.Make(),
	}
}

// Ordered constrains types with a natural less-than order.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}

// Max expands into the Max terminal operator. Tie-break: prefer the later
// element when it is not strictly greater (so a later equal value
// displaces an earlier one — "[5,5] records the later 5").
func Max[T Ordered]() *Terminal[T, *T, *T, *T] {
	return Combine(identity[T], maxOp[T])
}

// Min expands into the Min terminal operator. Tie-break: prefer the
// earlier element when it is not strictly greater (an earlier equal value
// is kept over a later one).
func Min[T Ordered]() *Terminal[T, *T, *T, *T] {
	return Combine(identity[T], minOp[T])
}

// MaxBy expands into a Max terminal using an explicit less(a, b) order
// instead of T's natural order.
func MaxBy[T any](less func(a, b T) bool) *Terminal[T, *T, *T, *T] {
	return Combine(identity[T], maxOpBy(less))
}

// MinBy expands into a Min terminal using an explicit less(a, b) order.
func MinBy[T any](less func(a, b T) bool) *Terminal[T, *T, *T, *T] {
	return Combine(identity[T], minOpBy(less))
}

// MaxByKey expands into a Max terminal ordered by key(item), with the
// same "prefer later on tie" rule applied to the keys.
func MaxByKey[T any, K Ordered](key func(T) K) *Terminal[T, *T, *T, *T] {
	return MaxBy(func(a, b T) bool { return key(a) < key(b) })
}

// MinByKey expands into a Min terminal ordered by key(item), with the
// same "prefer earlier on tie" rule applied to the keys.
func MinByKey[T any, K Ordered](key func(T) K) *Terminal[T, *T, *T, *T] {
	return MinBy(func(a, b T) bool { return key(a) < key(b) })
}

func identity[T any](v T) T { return v }

func maxOp[T Ordered](cur, next T) T {
	if next < cur {
		return cur
	}
	return next
}

func minOp[T Ordered](cur, next T) T {
	if next < cur {
		return next
	}
	return cur
}

func maxOpBy[T any](less func(a, b T) bool) func(cur, next T) T {
	return func(cur, next T) T {
		if less(next, cur) {
			return cur
		}
		return next
	}
}

func minOpBy[T any](less func(a, b T) bool) func(cur, next T) T {
	return func(cur, next T) T {
		if less(next, cur) {
			return next
		}
		return cur
	}
}
