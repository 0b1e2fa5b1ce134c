// Package source defines the external collaborator seams the engine reads
// from (concrete data sources/credentials are out of scope, but the
// interface an external data layer plugs into is not) and a reference
// adapter over the pipeline package, whose lazy single-process combinators
// assemble a feed upstream of a distributed reduction.
package source

import (
	"context"

	"github.com/kbukum/treereduce/pipeline"
	"github.com/kbukum/treereduce/stream"
)

// DistributedStream is the contract an external, partition-aware data
// layer implements: it already knows how its data divides into tasks, and
// Partition asks for a specific number of roughly-even bins up front
// (e.g. one per shard, one per file), instead of leaving round-robin
// partitioning to stream.Partition.
type DistributedStream[T any] interface {
	Partition(ctx context.Context, n int) ([][]stream.Task[T], error)
}

// LocalStream is the simpler contract for a data layer with no partitioning
// opinion of its own: it just produces a stream.Stream[T], and
// stream.Partition's round-robin scheme divides it.
type LocalStream[T any] interface {
	Open(ctx context.Context) (stream.Stream[T], error)
}

// pipelineIterator adapts a pipeline.Iterator into a stream.Iterator; the
// two method sets are identical, so this is a pure naming adapter.
type pipelineIterator[T any] struct {
	it pipeline.Iterator[T]
}

func (a pipelineIterator[T]) Next(ctx context.Context) (T, bool, error) { return a.it.Next(ctx) }
func (a pipelineIterator[T]) Close() error                              { return a.it.Close() }

// FromPipeline wraps a single pipeline.Pipeline[T] as a one-task Stream[T]:
// every combinator the pipeline package offers (Map, FlatMap, Filter, Tap,
// TapEach, FanOut, Reduce, Concat) runs upstream of the reduction exactly as it
// would in a pipeline-only consumer, and Run here just opens the
// pipeline's iterator instead of draining it eagerly.
func FromPipeline[T any](id string, p *pipeline.Pipeline[T]) stream.Stream[T] {
	task := stream.NewTask(id, func(ctx context.Context) (stream.Iterator[T], error) {
		return pipelineIterator[T]{it: p.Iter(ctx)}, nil
	})
	return stream.FromTasks[T](stream.SizeHint{Lower: 1}, []stream.Task[T]{task})
}
