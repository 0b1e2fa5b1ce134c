package engine

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/treereduce/engineerr"
	"github.com/kbukum/treereduce/logger"
	"github.com/kbukum/treereduce/reduce"
	"github.com/kbukum/treereduce/resilience"
	"github.com/kbukum/treereduce/stream"
)

// Config parameterizes one Execute run: how many processes and threads to
// fan out to, which pools to dispatch them through (defaulting to the
// local in-process pools), and the observability seams.
type Config struct {
	Processes int
	Threads   int

	ProcessPool ProcessPool
	ThreadPool  ThreadPool

	// Logger is nil-safe; when nil, Execute runs silently.
	Logger *logger.Logger
	// Tracer is nil-safe; when nil, Execute uses the global OTel tracer
	// provider's "treereduce/engine" tracer.
	Tracer trace.Tracer
	// Meter is nil-safe; when nil, Execute uses the global OTel meter
	// provider's "treereduce/engine" meter. With no SDK MeterProvider
	// registered the instruments record against the no-op implementation.
	Meter metric.Meter
	// TaskRetry, when non-nil, retries a task's Run (materializing its
	// Iterator) on transient failure before giving up — useful when a
	// Task's Run opens a remote resource rather than just slicing an
	// in-memory collection. nil means try once.
	TaskRetry *resilience.RetryConfig
	// TaskCircuitBreaker, when non-nil, wraps task materialization so a
	// source that starts failing consistently (e.g. a downed shard
	// server) fails fast instead of every thread retrying it to the same
	// timeout. Shared across all Dispatch calls in a run, so failures
	// from one task inform whether the next is even attempted.
	TaskCircuitBreaker *resilience.CircuitBreaker
	// TaskRateLimiter, when non-nil, throttles how fast tasks are
	// materialized — useful when Task.Run calls out to a rate-limited
	// external source.
	TaskRateLimiter *resilience.RateLimiter
	// TaskBulkhead, when non-nil, caps how many Task.Run calls are in
	// flight at once independent of ThreadPool's own concurrency, for
	// sources (e.g. a connection-limited shard server) that tolerate
	// fewer simultaneous opens than the thread pool runs workers.
	TaskBulkhead *resilience.Bulkhead
}

func (c Config) withDefaults() Config {
	if c.Processes <= 0 {
		c.Processes = 1
	}
	if c.Threads <= 0 {
		c.Threads = 1
	}
	if c.ProcessPool == nil {
		c.ProcessPool = NewLocalProcessPool(0)
	}
	if c.ThreadPool == nil {
		c.ThreadPool = NewLocalThreadPool(0)
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer("treereduce/engine")
	}
	if c.Meter == nil {
		c.Meter = otel.Meter("treereduce/engine")
	}
	return c
}

// instruments bundles the counters one Execute run records through.
type instruments struct {
	items int64counter
	tasks int64counter
}

// int64counter is the subset of metric.Int64Counter Add needs, kept small
// so a failed instrument registration degrades to a no-op rather than an
// error Execute has to propagate.
type int64counter interface {
	Add(ctx context.Context, incr int64, opts ...metric.AddOption)
}

type noopCounter struct{}

func (noopCounter) Add(context.Context, int64, ...metric.AddOption) {}

func newInstruments(m metric.Meter) instruments {
	items, err := m.Int64Counter("treereduce.items_processed",
		metric.WithDescription("items pushed into a Level-A reducer"))
	if err != nil {
		items = nil
	}
	tasks, err := m.Int64Counter("treereduce.tasks_completed",
		metric.WithDescription("tasks drained to completion"))
	if err != nil {
		tasks = nil
	}
	in := instruments{items: noopCounter{}, tasks: noopCounter{}}
	if items != nil {
		in.items = items
	}
	if tasks != nil {
		in.tasks = tasks
	}
	return in
}

// Execute runs the full distributed reduction described by term over every
// task s produces: the stream is partitioned into cfg.Processes bins, each
// process bin is partitioned again into cfg.Threads bins, each thread
// drains its tasks' iterators into one ReducerA, each process folds its
// threads' partials into one ReducerB, and the driver folds every
// process's partial into term.ReducerC for the final value.
func Execute[Item, A, B, C any](ctx context.Context, s stream.Stream[Item], term *reduce.Terminal[Item, A, B, C], cfg Config) (C, error) {
	var zero C
	cfg = cfg.withDefaults()
	runID := uuid.NewString()
	in := newInstruments(cfg.Meter)

	ctx, rootSpan := cfg.Tracer.Start(ctx, "engine.Execute", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("processes", cfg.Processes),
		attribute.Int("threads", cfg.Threads),
	))
	defer rootSpan.End()

	logInfo(cfg.Logger, "engine run starting", map[string]any{"run_id": runID})

	processBins, err := stream.Partition(ctx, s, cfg.Processes)
	if err != nil {
		return zero, err
	}

	partBs := make([]B, len(processBins))
	err = cfg.ProcessPool.Dispatch(ctx, len(processBins), func(ctx context.Context, pIdx int) (rerr error) {
		defer func() { rerr = engineerr.Recover("process", runID, "", recover(), rerr) }()

		ctx, span := cfg.Tracer.Start(ctx, "engine.process", trace.WithAttributes(attribute.Int("process_index", pIdx)))
		defer span.End()

		pb, perr := runProcess(ctx, cfg, in, term.FactoryA, term.FactoryB, runID, processBins[pIdx])
		if perr != nil {
			return perr
		}
		partBs[pIdx] = pb
		return nil
	})
	if err != nil {
		logError(cfg.Logger, "engine run failed", err, map[string]any{"run_id": runID})
		return zero, err
	}

	final, err := reduce.PushAll(ctx, term.ReducerC, partBs)
	if err != nil {
		wrapped := engineerr.ReducerFailed("driver", err)
		logError(cfg.Logger, "driver reduction failed", wrapped, map[string]any{"run_id": runID})
		return zero, wrapped
	}

	logInfo(cfg.Logger, "engine run completed", map[string]any{"run_id": runID})
	return final, nil
}

func runProcess[Item, A, B any](ctx context.Context, cfg Config, in instruments, fa reduce.Factory[Item, A], fb reduce.Factory[A, B], runID string, tasks []stream.Task[Item]) (B, error) {
	var zero B
	threadBins := partitionTasks(tasks, cfg.Threads)
	partAs := make([]A, len(threadBins))

	err := cfg.ThreadPool.Dispatch(ctx, len(threadBins), func(ctx context.Context, tIdx int) (rerr error) {
		defer func() { rerr = engineerr.Recover("thread", runID, "", recover(), rerr) }()

		ctx, span := cfg.Tracer.Start(ctx, "engine.thread", trace.WithAttributes(attribute.Int("thread_index", tIdx)))
		defer span.End()

		out, terr := runThread(ctx, fa, cfg, in, runID, threadBins[tIdx])
		if terr != nil {
			return terr
		}
		partAs[tIdx] = out
		return nil
	})
	if err != nil {
		return zero, err
	}

	rb := fb.Make()
	pb, err := reduce.PushAll(ctx, rb, partAs)
	if err != nil {
		return zero, engineerr.ReducerFailed("process", err)
	}
	return pb, nil
}

func runThread[Item, A any](ctx context.Context, fa reduce.Factory[Item, A], cfg Config, in instruments, runID string, tasks []stream.Task[Item]) (_ A, rerr error) {
	var zero A
	var taskID string
	defer func() { rerr = engineerr.Recover("thread", runID, taskID, recover(), rerr) }()
	ra := fa.Make()

	for _, task := range tasks {
		taskID = task.ID()
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		it, err := runTask(ctx, task, cfg)
		if err != nil {
			return zero, engineerr.TaskFailed(task.ID(), err)
		}
		if err := drainInto(ctx, it, ra, in.items); err != nil {
			_ = it.Close()
			return zero, err
		}
		if err := it.Close(); err != nil {
			return zero, engineerr.TaskFailed(task.ID(), err)
		}
		in.tasks.Add(ctx, 1)
	}
	taskID = ""

	out, err := ra.Output(ctx)
	if err != nil {
		return zero, engineerr.ReducerFailed("thread", err)
	}
	return out, nil
}

// runTask materializes task's Iterator through whichever resilience seams
// cfg sets: a rate limiter throttles how often Run is attempted, a circuit
// breaker short-circuits once the source is consistently failing, and
// retry re-attempts a transient failure before giving up.
func runTask[Item any](ctx context.Context, task stream.Task[Item], cfg Config) (stream.Iterator[Item], error) {
	materialize := func() (stream.Iterator[Item], error) {
		return task.Run(ctx)
	}
	if cfg.TaskBulkhead != nil {
		inner := materialize
		materialize = func() (stream.Iterator[Item], error) {
			return resilience.ExecuteWithResult(cfg.TaskBulkhead, ctx, inner)
		}
	}
	if cfg.TaskRetry != nil {
		retry := *cfg.TaskRetry
		inner := materialize
		materialize = func() (stream.Iterator[Item], error) {
			return resilience.Retry(ctx, retry, inner)
		}
	}
	if cfg.TaskCircuitBreaker != nil {
		inner := materialize
		materialize = func() (stream.Iterator[Item], error) {
			return resilience.ExecuteCircuitBreakerWithResult(cfg.TaskCircuitBreaker, inner)
		}
	}
	if cfg.TaskRateLimiter != nil {
		if err := cfg.TaskRateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return materialize()
}

func drainInto[Item, A any](ctx context.Context, it stream.Iterator[Item], ra reduce.Reducer[Item, A], counter int64counter) error {
	for {
		item, ok, err := it.Next(ctx)
		if err != nil {
			return engineerr.Wrap(engineerr.CodeTaskFailed, "iterator failed", err)
		}
		if !ok {
			return nil
		}
		if err := ra.Push(ctx, item); err != nil {
			return engineerr.ReducerFailed("thread", err)
		}
		counter.Add(ctx, 1)
	}
}

// partitionTasks round-robins an in-memory task slice into at most n bins,
// the same invariant stream.Partition gives a live stream.
func partitionTasks[Item any](tasks []stream.Task[Item], n int) [][]stream.Task[Item] {
	if n < 1 {
		n = 1
	}
	bins := make([][]stream.Task[Item], n)
	for i, t := range tasks {
		idx := i % n
		bins[idx] = append(bins[idx], t)
	}
	out := bins[:0]
	for _, b := range bins {
		if len(b) > 0 {
			out = append(out, b)
		}
	}
	return out
}

func logInfo(l *logger.Logger, msg string, fields map[string]any) {
	if l == nil {
		return
	}
	l.Info(msg, fields)
}

func logError(l *logger.Logger, msg string, err error, fields map[string]any) {
	if l == nil {
		return
	}
	l.WithError(err).Error(msg, fields)
}
