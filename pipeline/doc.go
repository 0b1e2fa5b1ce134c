// Package pipeline provides composable, pull-based data pipeline operators
// for assembling one task's input feed before it is wrapped as a
// stream.Stream by source.FromPipeline.
//
// Pipelines are lazy — no work happens until values are pulled via Collect,
// Drain, or ForEach. Each stage pulls from the previous stage on demand,
// providing natural backpressure without explicit flow control.
//
// The Iterator interface is structurally compatible with stream.Iterator[T],
// so a Pipeline's output plugs directly into source.FromPipeline.
//
// # Operators
//
//   - Map: transform each value
//   - FlatMap: transform each value into multiple values
//   - Filter: keep values matching a predicate
//   - Tap: side-effect without altering the value (logging, metrics, mid-pipeline publish)
//   - TapEach: per-element side-effect on []T (e.g., after FanOut)
//   - FanOut: apply multiple functions in parallel, collect results as []O
//   - Reduce: accumulate all values into one result
//   - Concat: join pipelines sequentially
//
// # Usage
//
//	src := pipeline.FromSlice([]int{1, 2, 3, 4, 5})
//	doubled := pipeline.Map(src, func(_ context.Context, n int) (int, error) {
//	    return n * 2, nil
//	})
//	evens := pipeline.Filter(doubled, func(n int) bool { return n%2 == 0 })
//	task := source.FromPipeline("shard-0", evens)
package pipeline
