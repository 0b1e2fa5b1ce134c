// Package stream provides the lazy, pull-based stream-task and pipe
// algebra: distributed streams of serializable tasks, and the per-task
// element iterators those tasks materialize into when run.
//
// The shapes here mirror pipeline's Iterator[T]/Pipeline[T]
// combinators, lifted one level: instead of wrapping a single element
// stream, each combinator wraps a Stream[T] of Tasks, and the per-element
// transform is baked into the Task's materialized Iterator.
package stream

import "context"

// Iterator provides pull-based sequential access to the elements produced
// by a single task. Structurally identical to pipeline.Iterator.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// SliceIterator adapts a slice into an Iterator, for tests and small
// in-memory tasks.
type SliceIterator[T any] struct {
	items []T
	index int
}

// NewSliceIterator builds an Iterator over items.
func NewSliceIterator[T any](items []T) *SliceIterator[T] {
	return &SliceIterator[T]{items: items}
}

func (it *SliceIterator[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	v := it.items[it.index]
	it.index++
	return v, true, nil
}

func (it *SliceIterator[T]) Close() error { return nil }

// Drain pulls every remaining value from it, ignoring ordering guarantees
// beyond what the iterator itself provides. Useful in tests.
func Drain[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	defer it.Close()
	var out []T
	for {
		v, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
