package engine

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/treereduce/either"
	"github.com/kbukum/treereduce/reduce"
	"github.com/kbukum/treereduce/resilience"
	"github.com/kbukum/treereduce/stream"
)

func chunkInts(items []int, n int) [][]int {
	bins := make([][]int, n)
	for i, v := range items {
		idx := i % n
		bins[idx] = append(bins[idx], v)
	}
	out := bins[:0]
	for _, b := range bins {
		if len(b) > 0 {
			out = append(out, b)
		}
	}
	return out
}

func intRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

func TestExecuteSum(t *testing.T) {
	items := intRange(1, 1_000_000)
	s := stream.FromSlices[int]("sum", chunkInts(items, 16))
	total, err := Execute(context.Background(), s, reduce.Sum[int](), Config{Processes: 4, Threads: 4})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if total != 500_000_500_000 {
		t.Errorf("total = %d, want 500000500000", total)
	}
}

func TestExecuteGroupBy(t *testing.T) {
	letters := []string{"a", "b", "a", "c", "a", "b"}
	pairs := make([]reduce.Pair[string, int], len(letters))
	for i, l := range letters {
		pairs[i] = reduce.Pair[string, int]{Key: l, Value: 1}
	}
	bins := make([][]reduce.Pair[string, int], 3)
	for i, p := range pairs {
		idx := i % 3
		bins[idx] = append(bins[idx], p)
	}
	s := stream.FromSlices[reduce.Pair[string, int]]("groupby", bins)
	term := reduce.GroupBy[string, int, int](
		func() int { return 0 },
		func(acc int, next either.Either[int, int]) int {
			return acc + either.Fold(next, func(v int) int { return v }, func(v int) int { return v })
		},
	)
	counts, err := Execute(context.Background(), s, term, Config{Processes: 2, Threads: 2})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := map[string]int{"a": 3, "b": 2, "c": 1}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("counts[%q] = %d, want %d", k, counts[k], v)
		}
	}
}

func TestExecuteMaxTieBreak(t *testing.T) {
	s := stream.FromSlices[int]("max-tie", [][]int{{5}, {5}})
	got, err := Execute(context.Background(), s, reduce.Max[int](), Config{Processes: 2, Threads: 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got == nil || *got != 5 {
		t.Fatalf("got %v, want 5", got)
	}
}

func TestExecuteFork(t *testing.T) {
	items := intRange(0, 999)
	s := stream.FromSlices[int]("fork", chunkInts(items, 8))
	term := reduce.Fork[int, int, int, int, int64, int64, int64](reduce.Sum[int](), reduce.Count[int]())
	both, err := Execute(context.Background(), s, term, Config{Processes: 4, Threads: 2})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if both.First != 499500 {
		t.Errorf("both.First (sum) = %d, want 499500", both.First)
	}
	if both.Second != 1000 {
		t.Errorf("both.Second (count) = %d, want 1000", both.Second)
	}
}

func TestExecuteFilterCollect(t *testing.T) {
	items := intRange(0, 99)
	var evens []int
	for _, v := range items {
		if v%2 == 0 {
			evens = append(evens, v)
		}
	}
	s := stream.FromSlices[int]("filter-collect", chunkInts(evens, 4))
	term := reduce.Collect[int, []int](reduce.SliceCollector[int]{})
	collected, err := Execute(context.Background(), s, term, Config{Processes: 4, Threads: 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	sort.Ints(collected)
	if len(collected) != len(evens) {
		t.Fatalf("len(collected) = %d, want %d", len(collected), len(evens))
	}
	for i := range evens {
		if collected[i] != evens[i] {
			t.Fatalf("collected = %v, want %v", collected, evens)
		}
	}
}

func TestExecuteSample(t *testing.T) {
	items := intRange(0, 999_999)
	s := stream.FromSlices[int]("sample", chunkInts(items, 16))
	term := reduce.SampleUnstable[int](1000)
	reservoir, err := Execute(context.Background(), s, term, Config{Processes: 4, Threads: 4})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(reservoir.Items()) > 1000 {
		t.Errorf("len(Items()) = %d, want <= 1000", len(reservoir.Items()))
	}
	if reservoir.Seen() != 1_000_000 {
		t.Errorf("Seen() = %d, want 1000000", reservoir.Seen())
	}
}

// flakyTask fails its first attempt and succeeds afterward, the shape
// TaskRetry exists to smooth over.
type flakyTask struct {
	id      string
	failed  int32
	item    int
}

func (t *flakyTask) ID() string { return t.id }

func (t *flakyTask) Run(context.Context) (stream.Iterator[int], error) {
	if atomic.AddInt32(&t.failed, 1) == 1 {
		return nil, errors.New("transient source error")
	}
	return stream.NewSliceIterator([]int{t.item}), nil
}

func TestExecuteRetriesTransientTaskFailure(t *testing.T) {
	task := &flakyTask{id: "flaky-1", item: 7}
	s := stream.FromTasks[int](stream.SizeHint{Lower: 1}, []stream.Task[int]{task})
	cfg := Config{
		Processes: 1,
		Threads:   1,
		TaskRetry: &resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     time.Millisecond,
		},
	}
	total, err := Execute(context.Background(), s, reduce.Sum[int](), cfg)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
}

func TestExecuteCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	failing := stream.NewTask[int]("always-fails", func(context.Context) (stream.Iterator[int], error) {
		return nil, errors.New("source down")
	})
	s := stream.FromTasks[int](stream.SizeHint{Lower: 1}, []stream.Task[int]{failing})
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "test-source",
		MaxFailures: 1,
		Timeout:     time.Minute,
	})
	cfg := Config{Processes: 1, Threads: 1, TaskCircuitBreaker: cb}
	_, err := Execute(context.Background(), s, reduce.Sum[int](), cfg)
	if err == nil {
		t.Fatal("Execute returned nil error, want the task failure to propagate")
	}
	if cb.State() != resilience.StateOpen {
		t.Errorf("CircuitBreaker.State() = %v, want open after the failure", cb.State())
	}
}

func TestExecuteEmptyStream(t *testing.T) {
	s := stream.FromSlices[int]("empty", nil)
	total, err := Execute(context.Background(), s, reduce.Sum[int](), Config{Processes: 4, Threads: 4})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}
