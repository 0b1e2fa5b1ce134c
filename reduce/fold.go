package reduce

import (
	"context"

	"github.com/kbukum/treereduce/either"
)

// FoldOp combines an accumulator B with either a raw Item (Left) or an
// upstream partial B (Right). Sharing one op across both shapes is what
// lets a fold collapse original elements and tree-level partials alike.
type FoldOp[Item, B any] func(acc B, next either.Either[Item, B]) B

// foldReducer seeds its accumulator from seed() on first use and folds
// every subsequent input with op.
type foldReducer[Item, B any] struct {
	seed func() B
	op   FoldOp[Item, B]
	acc  B
	init bool
}

func (r *foldReducer[Item, B]) push(next either.Either[Item, B]) {
	if !r.init {
		r.acc = r.seed()
		r.init = true
	}
	r.acc = r.op(r.acc, next)
}

func (r *foldReducer[Item, B]) Push(_ context.Context, item Item) error {
	r.push(either.Left[Item, B](item))
	return nil
}

func (r *foldReducer[Item, B]) Output(_ context.Context) (B, error) {
	if !r.init {
		r.acc = r.seed()
	}
	return r.acc, nil
}

// foldMergeReducer is the tree-level counterpart of foldReducer: its Push
// receives an upstream partial B rather than a raw Item.
type foldMergeReducer[Item, B any] struct{ inner foldReducer[Item, B] }

func (r *foldMergeReducer[Item, B]) Push(_ context.Context, partial B) error {
	r.inner.push(either.Right[Item, B](partial))
	return nil
}

func (r *foldMergeReducer[Item, B]) Output(ctx context.Context) (B, error) {
	return r.inner.Output(ctx)
}

// Fold expands into the Fold terminal operator: seeded by seed, the A
// level folds raw items, B and C re-fold the partials below them with the
// same op, routed through Either so one closure serves every level.
func Fold[Item, B any](seed func() B, op FoldOp[Item, B]) *Terminal[Item, B, B, B] {
	fa := FactoryFunc[Item, B](func() Reducer[Item, B] {
		return &foldReducer[Item, B]{seed: seed, op: op}
	})
	fb := FactoryFunc[B, B](func() Reducer[B, B] {
		return &foldMergeReducer[Item, B]{inner: foldReducer[Item, B]{seed: seed, op: op}}
	})
	return &Terminal[Item, B, B, B]{
		FactoryA: fa,
		FactoryB: fb,
		ReducerC: fb.Make(),
	}
}
