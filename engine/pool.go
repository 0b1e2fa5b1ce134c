// Package engine orchestrates the two-level distributed reduction: a
// stream.Stream[Item] is partitioned across processes, each process
// partitions its share across threads, and the resulting reduce.Terminal
// outputs climb the tree (thread ReducerA -> process ReducerB -> driver
// ReducerC). ProcessPool and ThreadPool are the external seams (§6): a
// caller wanting real OS processes or a real worker-node fleet swaps in
// its own implementation; LocalProcessPool/LocalThreadPool are the
// in-process reference implementations used by cmd/treereduce-demo and
// by the test suite.
package engine

import "context"

// ProcessPool dispatches n units of process-level work concurrently, each
// identified by its index in [0, n). fn runs once per index; Dispatch
// returns the first error from any fn call, having waited for the rest to
// finish.
type ProcessPool interface {
	Dispatch(ctx context.Context, n int, fn func(ctx context.Context, index int) error) error
}

// ThreadPool dispatches n units of thread-level work concurrently within a
// single process, with the same contract as ProcessPool.
type ThreadPool interface {
	Dispatch(ctx context.Context, n int, fn func(ctx context.Context, index int) error) error
}
