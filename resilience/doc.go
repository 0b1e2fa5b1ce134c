// Package resilience provides the fault-tolerance seams engine.Config wires
// around Task.Run: a task materializes a stream.Iterator by opening
// whatever backs it (a file, a shard server, a queue), and that open can
// fail transiently or persistently just like any other remote call.
//
// This package includes:
//   - Retry: re-attempts a failed materialization with exponential backoff
//   - CircuitBreaker: fails materialization fast once a source is
//     consistently unhealthy, instead of retrying it to the same timeout
//     from every thread
//   - Bulkhead: caps how many Task.Run calls are in flight at once,
//     independent of the thread pool's own concurrency
//   - RateLimiter: throttles how often tasks are materialized
//
// engine.Config composes these around runTask in a fixed order — bulkhead,
// then retry, then circuit breaker, then rate limiter, innermost first — so
// each retry attempt takes its own bulkhead slot, and the circuit breaker
// records a whole retry sequence as one call (its final outcome), not each
// attempt:
//
//	retryCfg := resilience.DefaultRetryConfig()
//	cfg := engine.Config{
//	    TaskRetry:          &retryCfg,
//	    TaskCircuitBreaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("shard-source")),
//	    TaskBulkhead:       resilience.NewBulkhead(resilience.DefaultBulkheadConfig("shard-source")),
//	}
package resilience
