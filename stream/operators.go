package stream

import "context"

// Map transforms every element of every task using fn. Pure rename: order
// within a task is preserved. Grounded on pipeline.Map,
// lifted from Iterator[T] to Stream[T]/Task[T].
func Map[I, O any](s Stream[I], fn func(context.Context, I) (O, error)) Stream[O] {
	return &mapStream[I, O]{source: s, fn: fn}
}

type mapStream[I, O any] struct {
	source Stream[I]
	fn     func(context.Context, I) (O, error)
}

func (m *mapStream[I, O]) Hint() SizeHint { return m.source.Hint() }

func (m *mapStream[I, O]) NextTask(ctx context.Context) (Task[O], bool, error) {
	t, ok, err := m.source.NextTask(ctx)
	if err != nil || !ok {
		return nil, ok, err
	}
	return NewTask[O](t.ID(), func(ctx context.Context) (Iterator[O], error) {
		it, err := t.Run(ctx)
		if err != nil {
			return nil, err
		}
		return &mapIter[I, O]{source: it, fn: m.fn}, nil
	}), true, nil
}

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		var zero O
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

// Update calls fn(&item) in place and passes the mutated item through.
// Same shape as Map but communicates intent: the transform mutates rather
// than renames.
func Update[T any](s Stream[T], fn func(context.Context, *T) error) Stream[T] {
	return Map(s, func(ctx context.Context, item T) (T, error) {
		if err := fn(ctx, &item); err != nil {
			var zero T
			return zero, err
		}
		return item, nil
	})
}

// Inspect calls fn(item) for side effects only; the stream of elements
// is otherwise passed through untouched, in source order.
func Inspect[T any](s Stream[T], fn func(context.Context, T) error) Stream[T] {
	return &inspectStream[T]{source: s, fn: fn}
}

type inspectStream[T any] struct {
	source Stream[T]
	fn     func(context.Context, T) error
}

func (s *inspectStream[T]) Hint() SizeHint { return s.source.Hint() }

func (s *inspectStream[T]) NextTask(ctx context.Context) (Task[T], bool, error) {
	t, ok, err := s.source.NextTask(ctx)
	if err != nil || !ok {
		return nil, ok, err
	}
	return NewTask[T](t.ID(), func(ctx context.Context) (Iterator[T], error) {
		it, err := t.Run(ctx)
		if err != nil {
			return nil, err
		}
		return &inspectIter[T]{source: it, fn: s.fn}, nil
	}), true, nil
}

type inspectIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) error
}

func (it *inspectIter[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := it.fn(ctx, val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *inspectIter[T]) Close() error { return it.source.Close() }

// Filter keeps only elements satisfying fn. fn may itself be async
// (block on ctx); awaiting it never reorders items.
func Filter[T any](s Stream[T], fn func(context.Context, T) (bool, error)) Stream[T] {
	return &filterStream[T]{source: s, fn: fn}
}

type filterStream[T any] struct {
	source Stream[T]
	fn     func(context.Context, T) (bool, error)
}

func (s *filterStream[T]) Hint() SizeHint {
	h := s.source.Hint()
	// Filtering can only shrink the stream; the lower bound becomes 0.
	return SizeHint{Lower: 0, Upper: h.Upper}
}

func (s *filterStream[T]) NextTask(ctx context.Context) (Task[T], bool, error) {
	t, ok, err := s.source.NextTask(ctx)
	if err != nil || !ok {
		return nil, ok, err
	}
	return NewTask[T](t.ID(), func(ctx context.Context) (Iterator[T], error) {
		it, err := t.Run(ctx)
		if err != nil {
			return nil, err
		}
		return &filterIter[T]{source: it, fn: s.fn}, nil
	}), true, nil
}

type filterIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) (bool, error)
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		keep, err := it.fn(ctx, val)
		if err != nil {
			var zero T
			return zero, false, err
		}
		if keep {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

// FlatMap transforms each element into an Iterator and flattens the
// results; the inner iterator is fully drained before the outer element
// advances.
func FlatMap[I, O any](s Stream[I], fn func(context.Context, I) (Iterator[O], error)) Stream[O] {
	return &flatMapStream[I, O]{source: s, fn: fn}
}

type flatMapStream[I, O any] struct {
	source Stream[I]
	fn     func(context.Context, I) (Iterator[O], error)
}

func (s *flatMapStream[I, O]) Hint() SizeHint {
	return SizeHint{Lower: 0, Upper: nil}
}

func (s *flatMapStream[I, O]) NextTask(ctx context.Context) (Task[O], bool, error) {
	t, ok, err := s.source.NextTask(ctx)
	if err != nil || !ok {
		return nil, ok, err
	}
	return NewTask[O](t.ID(), func(ctx context.Context) (Iterator[O], error) {
		it, err := t.Run(ctx)
		if err != nil {
			return nil, err
		}
		return &flatMapIter[I, O]{source: it, fn: s.fn}, nil
	}), true, nil
}

type flatMapIter[I, O any] struct {
	source  Iterator[I]
	fn      func(context.Context, I) (Iterator[O], error)
	current Iterator[O]
}

func (it *flatMapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				var zero O
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero O
			return zero, false, err
		}
		inner, err := it.fn(ctx, in)
		if err != nil {
			var zero O
			return zero, false, err
		}
		it.current = inner
	}
}

func (it *flatMapIter[I, O]) Close() error {
	if it.current != nil {
		_ = it.current.Close()
	}
	return it.source.Close()
}

// Chain exhausts a, then b. Task ordering across the two streams is
// preserved (all of a's tasks before any of b's); no ordering is
// guaranteed between tasks beyond that.
func Chain[T any](a, b Stream[T]) Stream[T] {
	return &chainStream[T]{streams: []Stream[T]{a, b}}
}

type chainStream[T any] struct {
	streams []Stream[T]
	index   int
}

func (s *chainStream[T]) Hint() SizeHint {
	lower := 0
	upperKnown := true
	upper := 0
	for _, sub := range s.streams {
		h := sub.Hint()
		lower += h.Lower
		if h.Upper == nil {
			upperKnown = false
		} else {
			upper += *h.Upper
		}
	}
	if !upperKnown {
		return SizeHint{Lower: lower, Upper: nil}
	}
	return SizeHint{Lower: lower, Upper: &upper}
}

func (s *chainStream[T]) NextTask(ctx context.Context) (Task[T], bool, error) {
	for s.index < len(s.streams) {
		t, ok, err := s.streams[s.index].NextTask(ctx)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return t, true, nil
		}
		s.index++
	}
	return nil, false, nil
}

// Limit bounds the stream to at most n tasks. Grounded on the original
// implementation's take-combinator (see original_source/); not named in
// spec.md's combinator table but present in the system it was distilled
// from.
func Limit[T any](s Stream[T], n int) Stream[T] {
	return &limitStream[T]{source: s, remaining: n}
}

type limitStream[T any] struct {
	source    Stream[T]
	remaining int
}

func (s *limitStream[T]) Hint() SizeHint {
	h := s.source.Hint()
	if h.Lower > s.remaining {
		h.Lower = s.remaining
	}
	remaining := s.remaining
	if h.Upper == nil || *h.Upper > remaining {
		h.Upper = &remaining
	}
	return h
}

func (s *limitStream[T]) NextTask(ctx context.Context) (Task[T], bool, error) {
	if s.remaining <= 0 {
		return nil, false, nil
	}
	t, ok, err := s.source.NextTask(ctx)
	if err != nil || !ok {
		return nil, ok, err
	}
	s.remaining--
	return t, true, nil
}

// Enumerated pairs an element with its 0-based position within its task.
type Enumerated[T any] struct {
	Index int
	Value T
}

// Enumerate pairs each element with its 0-based position within its own
// task. Grounded on the original implementation's enumerate combinator
// (see original_source/); supplements spec.md's combinator table.
func Enumerate[T any](s Stream[T]) Stream[Enumerated[T]] {
	return &enumerateStream[T]{source: s}
}

type enumerateStream[T any] struct {
	source Stream[T]
}

func (s *enumerateStream[T]) Hint() SizeHint { return s.source.Hint() }

func (s *enumerateStream[T]) NextTask(ctx context.Context) (Task[Enumerated[T]], bool, error) {
	t, ok, err := s.source.NextTask(ctx)
	if err != nil || !ok {
		return nil, ok, err
	}
	return NewTask[Enumerated[T]](t.ID(), func(ctx context.Context) (Iterator[Enumerated[T]], error) {
		it, err := t.Run(ctx)
		if err != nil {
			return nil, err
		}
		return &enumerateIter[T]{source: it}, nil
	}), true, nil
}

type enumerateIter[T any] struct {
	source Iterator[T]
	index  int
}

func (it *enumerateIter[T]) Next(ctx context.Context) (Enumerated[T], bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return Enumerated[T]{}, false, err
	}
	e := Enumerated[T]{Index: it.index, Value: val}
	it.index++
	return e, true, nil
}

func (it *enumerateIter[T]) Close() error { return it.source.Close() }
