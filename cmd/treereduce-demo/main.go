// Command treereduce-demo drives the engine through the end-to-end
// scenarios a correct three-level reducer tree must satisfy: a plain sum,
// a group-by with a Left/Right-merged fold, a max with duplicate
// tie-breaking, a fork of two terminals over one source, a filter+collect
// pipeline, an approximate uniform sample, a pipeline-built source, and
// (when the resilient config flag is set) a source that fails transiently
// before succeeding. It exists to be read, and to be run with its
// processes/threads config turned up to see the results hold regardless
// of how the work is sliced.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/treereduce/config"
	"github.com/kbukum/treereduce/either"
	"github.com/kbukum/treereduce/engine"
	"github.com/kbukum/treereduce/logger"
	"github.com/kbukum/treereduce/pipeline"
	"github.com/kbukum/treereduce/reduce"
	"github.com/kbukum/treereduce/resilience"
	"github.com/kbukum/treereduce/source"
	"github.com/kbukum/treereduce/stream"
)

// demoConfig is the binary's tunable surface, loaded via config.LoadConfig
// from a config.yml merged with environment overrides. RunConfig supplies the
// run's identity and logger shape; Processes/Threads/Resilient are this
// binary's own knobs on top of it.
type demoConfig struct {
	config.RunConfig `yaml:",inline" mapstructure:",squash"`
	Processes        int  `mapstructure:"processes"`
	Threads          int  `mapstructure:"threads"`
	Trace            bool `mapstructure:"trace"`
	Resilient        bool `mapstructure:"resilient"`
}

func defaultDemoConfig() demoConfig {
	cfg := demoConfig{Processes: 4, Threads: 4, Trace: false, Resilient: true}
	cfg.Name = "treereduce-demo"
	cfg.Logging.Level = "info"
	return cfg
}

func identity(v int) int { return v }

func main() {
	cfg := defaultDemoConfig()
	if err := config.LoadConfig("treereduce-demo", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config load failed, using defaults: %v\n", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config invalid: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	ctx := context.Background()
	ctx = logger.ContextWithRunID(ctx, cfg.Name)

	shutdown := setupTracing(ctx, cfg.Trace)
	defer shutdown()

	engCfg := engine.Config{
		Processes: cfg.Processes,
		Threads:   cfg.Threads,
		Logger:    log,
	}
	if cfg.Resilient {
		retryCfg := resilience.DefaultRetryConfig()
		engCfg.TaskRetry = &retryCfg
		engCfg.TaskCircuitBreaker = resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("treereduce-demo"))
	}

	runSum(ctx, engCfg, log)
	runGroupBy(ctx, engCfg, log)
	runMax(ctx, engCfg, log)
	runFork(ctx, engCfg, log)
	runFilterCollect(ctx, engCfg, log)
	runSample(ctx, engCfg, log)
	runPipelineSource(ctx, engCfg, log)
	if cfg.Resilient {
		runFlakySource(ctx, engCfg, log)
	}
}

// setupTracing wires a real OTel SDK TracerProvider with a stdout exporter
// when enabled; otherwise the engine runs against the no-op global
// provider. Returns a shutdown func safe to defer unconditionally.
func setupTracing(ctx context.Context, enabled bool) func() {
	if !enabled {
		return func() {}
	}
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracer exporter setup failed: %v\n", err)
		return func() {}
	}
	res := resource.NewSchemaless(attribute.String("service.name", "treereduce-demo"))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return func() { _ = tp.Shutdown(ctx) }
}

// intRange builds [lo, hi] inclusive as a single slice, matching how the
// worked examples describe their sources.
func intRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

// chunk splits items into n roughly-even slices for stream.FromSlices,
// mirroring the partitioning balance every Stream in this module offers.
func chunk[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	bins := make([][]T, n)
	for i, item := range items {
		idx := i % n
		bins[idx] = append(bins[idx], item)
	}
	out := bins[:0]
	for _, b := range bins {
		if len(b) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// runSum: source([1..=1_000_000]).sum() -> 500_000_500_000, across P=4, T=4.
func runSum(ctx context.Context, cfg engine.Config, log *logger.Logger) {
	items := intRange(1, 1_000_000)
	s := stream.FromSlices[int]("sum", chunk(items, cfg.Processes*cfg.Threads))
	term := reduce.Sum[int]()
	total, err := engine.Execute(ctx, s, term, cfg)
	if err != nil {
		log.Error("sum scenario failed", map[string]any{"error": err.Error()})
		return
	}
	log.Info("sum of 1..1000000", map[string]any{"result": total, "expected": int(500_000_500_000)})
}

// runGroupBy: source(["a","b","a","c","a","b"]).map(|s| (s,1)).group_by(...)
// -> {"a":3,"b":2,"c":1}.
func runGroupBy(ctx context.Context, cfg engine.Config, log *logger.Logger) {
	letters := []string{"a", "b", "a", "c", "a", "b"}
	pairs := make([]reduce.Pair[string, int], len(letters))
	for i, l := range letters {
		pairs[i] = reduce.Pair[string, int]{Key: l, Value: 1}
	}
	s := stream.FromSlices[reduce.Pair[string, int]]("groupby", chunk(pairs, cfg.Processes))
	term := reduce.GroupBy[string, int, int](
		func() int { return 0 },
		func(acc int, next either.Either[int, int]) int {
			return acc + either.Fold(next, identity, identity)
		},
	)
	counts, err := engine.Execute(ctx, s, term, cfg)
	if err != nil {
		log.Error("group_by scenario failed", map[string]any{"error": err.Error()})
		return
	}
	log.Info("group_by letter counts", map[string]any{"result": counts})
}

// runMax: source([3,1,4,1,5,9,2,6]).max() -> Some(9); with duplicates [5,5]
// records the later 5 — Max's merge prefers the right-hand operand on ties.
func runMax(ctx context.Context, cfg engine.Config, log *logger.Logger) {
	items := []int{3, 1, 4, 1, 5, 9, 2, 6}
	s := stream.FromSlices[int]("max", chunk(items, cfg.Processes))
	term := reduce.Max[int]()
	maxVal, err := engine.Execute(ctx, s, term, cfg)
	if err != nil {
		log.Error("max scenario failed", map[string]any{"error": err.Error()})
		return
	}
	log.Info("max of sample", map[string]any{"result": *maxVal})

	ties := []int{5, 5}
	s2 := stream.FromSlices[int]("max-tie", [][]int{ties})
	tieVal, err := engine.Execute(ctx, s2, reduce.Max[int](), cfg)
	if err != nil {
		log.Error("max tie-break scenario failed", map[string]any{"error": err.Error()})
		return
	}
	log.Info("max tie-break prefers the later element", map[string]any{"result": *tieVal})
}

// runFork: source([0..=999]).fork(sum(), count()) -> (499_500, 1_000).
func runFork(ctx context.Context, cfg engine.Config, log *logger.Logger) {
	items := intRange(0, 999)
	s := stream.FromSlices[int]("fork", chunk(items, cfg.Processes*cfg.Threads))
	term := reduce.Fork[int, int, int, int, int64, int64, int64](reduce.Sum[int](), reduce.Count[int]())
	both, err := engine.Execute(ctx, s, term, cfg)
	if err != nil {
		log.Error("fork scenario failed", map[string]any{"error": err.Error()})
		return
	}
	log.Info("fork(sum, count) over 0..999", map[string]any{"sum": both.First, "count": both.Second})
}

// runFilterCollect: source([0..=99]).filter(|x| x%2==0).collect().sort()
// -> [0,2,4,...,98].
func runFilterCollect(ctx context.Context, cfg engine.Config, log *logger.Logger) {
	items := intRange(0, 99)
	evens := make([]int, 0, len(items)/2)
	for _, v := range items {
		if v%2 == 0 {
			evens = append(evens, v)
		}
	}
	s := stream.FromSlices[int]("filter-collect", chunk(evens, cfg.Processes))
	term := reduce.Collect[int, []int](reduce.SliceCollector[int]{})
	collected, err := engine.Execute(ctx, s, term, cfg)
	if err != nil {
		log.Error("filter+collect scenario failed", map[string]any{"error": err.Error()})
		return
	}
	sort.Ints(collected)
	log.Info("filter+collect+sort of evens in 0..99", map[string]any{"count": len(collected), "first": collected[0], "last": collected[len(collected)-1]})
}

// runSample: source([...1M events...]).sample_unstable(1000) yields 1000
// distinct items drawn with uniform probability within statistical tolerance.
func runSample(ctx context.Context, cfg engine.Config, log *logger.Logger) {
	items := intRange(0, 999_999)
	s := stream.FromSlices[int]("sample", chunk(items, cfg.Processes*cfg.Threads))
	term := reduce.SampleUnstable[int](1000)
	reservoir, err := engine.Execute(ctx, s, term, cfg)
	if err != nil {
		log.Error("sample_unstable scenario failed", map[string]any{"error": err.Error()})
		return
	}
	sample := reservoir.Items()
	log.Info("sample_unstable over 1M events", map[string]any{"requested": 1000, "drawn": len(sample)})
}

// runPipelineSource: builds one task's feed from the pipeline package
// (doubling, then keeping multiples of 4) instead of a plain slice, and
// wraps it with source.FromPipeline as a one-task Stream before reducing.
// pipeline.Collect previews the feed so the scenario can assert on it
// independent of how the engine shards it.
func runPipelineSource(ctx context.Context, cfg engine.Config, log *logger.Logger) {
	p := pipeline.FromSlice(intRange(1, 10))
	doubled := pipeline.Map(p, func(_ context.Context, n int) (int, error) { return n * 2, nil })
	quads := pipeline.Filter(doubled, func(n int) bool { return n%4 == 0 })

	preview, err := pipeline.Collect(ctx, quads)
	if err != nil {
		log.Error("pipeline-source preview failed", map[string]any{"error": err.Error()})
		return
	}

	s := source.FromPipeline("pipeline-shard-0", pipeline.FromSlice(preview))
	total, err := engine.Execute(ctx, s, reduce.Sum[int](), cfg)
	if err != nil {
		log.Error("pipeline-source scenario failed", map[string]any{"error": err.Error()})
		return
	}
	log.Info("pipeline-source sum of doubled multiples of 4 in 1..10", map[string]any{"result": total, "preview": preview})
}

// flakyTask fails its first materialization and succeeds on the next,
// the shape engine.Config's TaskRetry and TaskCircuitBreaker exist to
// smooth over for a source that occasionally drops a connection attempt.
type flakyTask struct {
	id     string
	failed int32
	item   int
}

func (t *flakyTask) ID() string { return t.id }

func (t *flakyTask) Run(context.Context) (stream.Iterator[int], error) {
	if atomic.AddInt32(&t.failed, 1) == 1 {
		return nil, errors.New("transient shard-source error")
	}
	return stream.NewSliceIterator([]int{t.item}), nil
}

// runFlakySource: a task that fails its first open and succeeds on retry,
// run only when the resilient config flag wires TaskRetry/TaskCircuitBreaker
// into cfg.
// Before dispatching it, resilience.RetryWithBackoff stands in for a
// one-off warmup probe (e.g. confirming a shard server accepted the
// connection) so the convenience retry helper gets exercised alongside the
// full TaskRetry/TaskCircuitBreaker path in engine.Config.
func runFlakySource(ctx context.Context, cfg engine.Config, log *logger.Logger) {
	attempts := 0
	_, err := resilience.RetryWithBackoff(ctx, 2, func() (struct{}, error) {
		attempts++
		if attempts < 2 {
			return struct{}{}, errors.New("warming up")
		}
		return struct{}{}, nil
	})
	if err != nil {
		log.Error("flaky-source warmup failed", map[string]any{"error": err.Error()})
		return
	}

	tasks := []stream.Task[int]{
		&flakyTask{id: "flaky-0", item: 3},
		&flakyTask{id: "flaky-1", item: 4},
	}
	s := stream.FromTasks[int](stream.SizeHint{Lower: len(tasks)}, tasks)
	total, err := engine.Execute(ctx, s, reduce.Sum[int](), cfg)
	if err != nil {
		log.Error("flaky-source scenario failed", map[string]any{"error": err.Error()})
		return
	}
	log.Info("flaky-source sum after transient failures", map[string]any{"result": total, "expected": 7, "warmup_attempts": attempts})
}
