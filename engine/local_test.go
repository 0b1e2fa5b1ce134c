package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestLocalPoolDispatchRunsEveryIndex(t *testing.T) {
	p := NewLocalProcessPool(4)
	var mu sync.Mutex
	seen := make(map[int]bool)
	err := p.Dispatch(context.Background(), 10, func(_ context.Context, index int) error {
		mu.Lock()
		seen[index] = true
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(seen) != 10 {
		t.Errorf("len(seen) = %d, want 10", len(seen))
	}
}

func TestLocalPoolDispatchRespectsConcurrencyLimit(t *testing.T) {
	p := NewLocalThreadPool(2)
	var current, maxSeen int32
	err := p.Dispatch(context.Background(), 20, func(_ context.Context, _ int) error {
		n := atomic.AddInt32(&current, 1)
		for {
			old := atomic.LoadInt32(&maxSeen)
			if n <= old || atomic.CompareAndSwapInt32(&maxSeen, old, n) {
				break
			}
		}
		atomic.AddInt32(&current, -1)
		return nil
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if maxSeen > 2 {
		t.Errorf("observed concurrency = %d, want <= 2", maxSeen)
	}
}

func TestLocalPoolDispatchPropagatesFirstError(t *testing.T) {
	p := NewLocalProcessPool(4)
	want := errors.New("boom")
	err := p.Dispatch(context.Background(), 5, func(_ context.Context, index int) error {
		if index == 2 {
			return want
		}
		return nil
	})
	if err == nil {
		t.Fatal("Dispatch returned nil error, want the propagated failure")
	}
}

func TestLocalPoolDispatchCancelsRemainingOnError(t *testing.T) {
	p := NewLocalProcessPool(1)
	var ran int32
	err := p.Dispatch(context.Background(), 50, func(ctx context.Context, index int) error {
		atomic.AddInt32(&ran, 1)
		if index == 0 {
			return errors.New("stop")
		}
		<-ctx.Done()
		return ctx.Err()
	})
	if err == nil {
		t.Fatal("Dispatch returned nil error, want a propagated failure")
	}
}

func TestLocalPoolDispatchZeroIsNoop(t *testing.T) {
	p := NewLocalProcessPool(4)
	called := false
	err := p.Dispatch(context.Background(), 0, func(context.Context, int) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if called {
		t.Error("fn was called for n=0, want no calls")
	}
}
