package reduce

import "context"

// Both pairs the two outputs of a forked reduction — the driver-level
// result of running two Terminals over the same stream with no
// duplication and no loss, per stream.Fork.
type Both[A, B any] struct {
	First  A
	Second B
}

// forkReducer drives an item into two independent reducers, mirroring
// stream.Fork's sinkB-then-sinkA ordering so both branches see every item
// exactly once.
type forkReducer[Item, A1, A2 any] struct {
	ra Reducer[Item, A1]
	rb Reducer[Item, A2]
}

func (r *forkReducer[Item, A1, A2]) Push(ctx context.Context, item Item) error {
	if err := r.rb.Push(ctx, item); err != nil {
		return err
	}
	return r.ra.Push(ctx, item)
}

func (r *forkReducer[Item, A1, A2]) Output(ctx context.Context) (Both[A1, A2], error) {
	a, err := r.ra.Output(ctx)
	if err != nil {
		var zero Both[A1, A2]
		return zero, err
	}
	b, err := r.rb.Output(ctx)
	if err != nil {
		var zero Both[A1, A2]
		return zero, err
	}
	return Both[A1, A2]{First: a, Second: b}, nil
}

// forkMergeReducer is the general two-branch merge shape shared by the B
// and C tree levels of a forked terminal: it splits an incoming Both pair
// and routes each half to its own branch reducer.
type forkMergeReducer[In1, Out1, In2, Out2 any] struct {
	r1 Reducer[In1, Out1]
	r2 Reducer[In2, Out2]
}

func (r *forkMergeReducer[In1, Out1, In2, Out2]) Push(ctx context.Context, partial Both[In1, In2]) error {
	if err := r.r1.Push(ctx, partial.First); err != nil {
		return err
	}
	return r.r2.Push(ctx, partial.Second)
}

func (r *forkMergeReducer[In1, Out1, In2, Out2]) Output(ctx context.Context) (Both[Out1, Out2], error) {
	o1, err := r.r1.Output(ctx)
	if err != nil {
		var zero Both[Out1, Out2]
		return zero, err
	}
	o2, err := r.r2.Output(ctx)
	if err != nil {
		var zero Both[Out1, Out2]
		return zero, err
	}
	return Both[Out1, Out2]{First: o1, Second: o2}, nil
}

// Fork combines two Terminal operators into one paired Terminal: every
// item reaches both t1 and t2 (via forkReducer at the A level), and every
// tree level above A carries a Both[...] pair instead of a single partial.
// This is the reducer-side half of the spec's Fork combinator — the
// stream-side half is stream.Fork. The engine does not call stream.Fork:
// forkReducer itself pushes each element to the two independently
// manufactured ReducerA instances.
func Fork[Item, A1, B1, F1, A2, B2, F2 any](
	t1 *Terminal[Item, A1, B1, F1],
	t2 *Terminal[Item, A2, B2, F2],
) *Terminal[Item, Both[A1, A2], Both[B1, B2], Both[F1, F2]] {
	fa := FactoryFunc[Item, Both[A1, A2]](func() Reducer[Item, Both[A1, A2]] {
		return &forkReducer[Item, A1, A2]{ra: t1.FactoryA.Make(), rb: t2.FactoryA.Make()}
	})
	fb := FactoryFunc[Both[A1, A2], Both[B1, B2]](func() Reducer[Both[A1, A2], Both[B1, B2]] {
		return &forkMergeReducer[A1, B1, A2, B2]{r1: t1.FactoryB.Make(), r2: t2.FactoryB.Make()}
	})
	rc := &forkMergeReducer[B1, F1, B2, F2]{r1: t1.ReducerC, r2: t2.ReducerC}
	return &Terminal[Item, Both[A1, A2], Both[B1, B2], Both[F1, F2]]{
		FactoryA: fa,
		FactoryB: fb,
		ReducerC: rc,
	}
}
