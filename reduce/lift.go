package reduce

import "context"

// intoReducer wraps an inner reducer whose Output converts into T via
// convert, for when the natural accumulator (e.g. a slice) differs from
// the declared container (e.g. a ring buffer or heap).
type intoReducer[Item, Raw, T any] struct {
	inner   Reducer[Item, Raw]
	convert func(Raw) T
}

func (r *intoReducer[Item, Raw, T]) Push(ctx context.Context, item Item) error {
	return r.inner.Push(ctx, item)
}

func (r *intoReducer[Item, Raw, T]) Output(ctx context.Context) (T, error) {
	raw, err := r.inner.Output(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.convert(raw), nil
}

// IntoFactory lifts a Factory[Item, Raw] into Factory[Item, T] via convert.
func IntoFactory[Item, Raw, T any](inner Factory[Item, Raw], convert func(Raw) T) Factory[Item, T] {
	return FactoryFunc[Item, T](func() Reducer[Item, T] {
		return &intoReducer[Item, Raw, T]{inner: inner.Make(), convert: convert}
	})
}

// optionReducer lifts a reducer into an Option[Output]: the first time an
// item satisfies isSentinel it yields nil (None) and stops forwarding
// further items to the inner reducer; otherwise items pass through
// unchanged to the inner reducer.
type optionReducer[Item, Output any] struct {
	inner      Reducer[Item, Output]
	isSentinel func(Item) bool
	tripped    bool
}

func (r *optionReducer[Item, Output]) Push(ctx context.Context, item Item) error {
	if r.tripped {
		return nil
	}
	if r.isSentinel(item) {
		r.tripped = true
		return nil
	}
	return r.inner.Push(ctx, item)
}

func (r *optionReducer[Item, Output]) Output(ctx context.Context) (*Output, error) {
	if r.tripped {
		return nil, nil
	}
	v, err := r.inner.Output(ctx)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// OptionFactory lifts inner into a Factory producing Option-yielding
// reducers: Output is nil ("None") the first time an item satisfies
// isSentinel, otherwise the inner reducer's output.
func OptionFactory[Item, Output any](inner Factory[Item, Output], isSentinel func(Item) bool) Factory[Item, *Output] {
	return FactoryFunc[Item, *Output](func() Reducer[Item, *Output] {
		return &optionReducer[Item, Output]{inner: inner.Make(), isSentinel: isSentinel}
	})
}

// resultReducer lifts a reducer into a Result[Output, E]: the first time
// toErr(item) returns a non-nil error, that error becomes the aggregate
// and further items stop reaching the inner reducer.
type resultReducer[Item, Output, E any] struct {
	inner Reducer[Item, Output]
	toErr func(Item) (E, bool)
	err   *E
}

func (r *resultReducer[Item, Output, E]) Push(ctx context.Context, item Item) error {
	if r.err != nil {
		return nil
	}
	if e, isErr := r.toErr(item); isErr {
		r.err = &e
		return nil
	}
	return r.inner.Push(ctx, item)
}

// ResultOutput is the Result[Output, E] shape: exactly one of Value or Err
// is populated; IsErr reports which.
type ResultOutput[Output, E any] struct {
	Value Output
	Err   E
	IsErr bool
}

func (r *resultReducer[Item, Output, E]) Output(ctx context.Context) (ResultOutput[Output, E], error) {
	if r.err != nil {
		return ResultOutput[Output, E]{Err: *r.err, IsErr: true}, nil
	}
	v, err := r.inner.Output(ctx)
	if err != nil {
		var zero ResultOutput[Output, E]
		return zero, err
	}
	return ResultOutput[Output, E]{Value: v}, nil
}

// ResultFactory lifts inner into a Factory collapsing the first
// toErr-identified error into the aggregate, per the user-value-errors
// error class (§7): a task's stream yields Result-shaped values, and this
// lift is how a reducer surfaces the first one it observes.
func ResultFactory[Item, Output, E any](inner Factory[Item, Output], toErr func(Item) (E, bool)) Factory[Item, ResultOutput[Output, E]] {
	return FactoryFunc[Item, ResultOutput[Output, E]](func() Reducer[Item, ResultOutput[Output, E]] {
		return &resultReducer[Item, Output, E]{inner: inner.Make(), toErr: toErr}
	})
}
