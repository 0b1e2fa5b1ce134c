package stream

import "context"

// Partition drains s and distributes its tasks across n bins by plain
// round-robin, so that at every point during partitioning the largest and
// smallest bin differ by at most one task (§4.4's partitioning invariant).
// Empty bins are dropped from the result. n is clamped to 1.
func Partition[T any](ctx context.Context, s Stream[T], n int) ([][]Task[T], error) {
	if n < 1 {
		n = 1
	}
	bins := make([][]Task[T], n)
	i := 0
	for {
		t, ok, err := s.NextTask(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		idx := i % n
		bins[idx] = append(bins[idx], t)
		i++
	}
	out := bins[:0]
	for _, b := range bins {
		if len(b) > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}
