package engine

import (
	"context"
	"sync"
)

// LocalPool is a bounded worker-pool Dispatch implementation backed by
// goroutines and a semaphore. It serves as both LocalProcessPool and
// LocalThreadPool — "process" and "thread" are just labels for the two
// tree levels the engine runs this at.
type LocalPool struct {
	// MaxConcurrent bounds how many indices run at once. 0 means
	// unbounded (one goroutine per index).
	MaxConcurrent int
}

// NewLocalProcessPool returns a LocalPool sized for process-level fan-out.
func NewLocalProcessPool(maxConcurrent int) *LocalPool {
	return &LocalPool{MaxConcurrent: maxConcurrent}
}

// NewLocalThreadPool returns a LocalPool sized for thread-level fan-out.
func NewLocalThreadPool(maxConcurrent int) *LocalPool {
	return &LocalPool{MaxConcurrent: maxConcurrent}
}

func (p *LocalPool) Dispatch(ctx context.Context, n int, fn func(ctx context.Context, index int) error) error {
	if n <= 0 {
		return nil
	}
	limit := p.MaxConcurrent
	if limit <= 0 || limit > n {
		limit = n
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, limit)
	errCh := make(chan error, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		if err := runCtx.Err(); err != nil {
			errCh <- err
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(index int) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(runCtx, index); err != nil {
				select {
				case errCh <- err:
				default:
				}
				cancel()
			}
		}(i)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}
