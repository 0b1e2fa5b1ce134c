package reduce

import (
	"container/heap"
	"context"

	"github.com/kbukum/treereduce/sketch"
)

// freqState is the partial state shared by every tree level of
// MostFrequent: a count-min sketch for the approximate per-key frequency,
// plus the set of distinct keys observed so top-n has candidates to rank.
type freqState struct {
	sketch *sketch.CountMinSketch
	keys   map[string]struct{}
}

func newFreqState(probability, tolerance float64) *freqState {
	return &freqState{
		sketch: sketch.NewCountMinSketch(probability, tolerance),
		keys:   make(map[string]struct{}),
	}
}

func (s *freqState) observe(key string) {
	s.sketch.Push(key)
	s.keys[key] = struct{}{}
}

func (s *freqState) merge(other *freqState) {
	s.sketch.Merge(other.sketch)
	for k := range other.keys {
		s.keys[k] = struct{}{}
	}
}

func (s *freqState) topN(n int) []Bucket[string] {
	bh := &bucketMinHeap{}
	for k := range s.keys {
		c := int64(s.sketch.Estimate(k))
		if bh.Len() < n {
			heap.Push(bh, Bucket[string]{Key: k, Count: c})
			continue
		}
		if bh.Len() > 0 && c > (*bh)[0].Count {
			heap.Pop(bh)
			heap.Push(bh, Bucket[string]{Key: k, Count: c})
		}
	}
	out := make([]Bucket[string], bh.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(bh).(Bucket[string])
	}
	return out
}

// bucketMinHeap is a min-heap on Count, used to keep the top-n frequent
// (or distinct) keys while discarding the rest in O(log n) per candidate.
type bucketMinHeap []Bucket[string]

func (h bucketMinHeap) Len() int            { return len(h) }
func (h bucketMinHeap) Less(i, j int) bool  { return h[i].Count < h[j].Count }
func (h bucketMinHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *bucketMinHeap) Push(x interface{}) { *h = append(*h, x.(Bucket[string])) }
func (h *bucketMinHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type freqReducer[Item any] struct {
	keyOf               func(Item) string
	probability, tolerance float64
	state                *freqState
}

func (r *freqReducer[Item]) Push(_ context.Context, item Item) error {
	if r.state == nil {
		r.state = newFreqState(r.probability, r.tolerance)
	}
	r.state.observe(r.keyOf(item))
	return nil
}

func (r *freqReducer[Item]) Output(_ context.Context) (*freqState, error) {
	if r.state == nil {
		r.state = newFreqState(r.probability, r.tolerance)
	}
	return r.state, nil
}

type freqMergeReducer struct {
	probability, tolerance float64
	state                  *freqState
}

func (r *freqMergeReducer) Push(_ context.Context, partial *freqState) error {
	if r.state == nil {
		r.state = newFreqState(r.probability, r.tolerance)
	}
	r.state.merge(partial)
	return nil
}

func (r *freqMergeReducer) Output(_ context.Context) (*freqState, error) {
	if r.state == nil {
		r.state = newFreqState(r.probability, r.tolerance)
	}
	return r.state, nil
}

// topNFromFreqReducer is the driver-level ReducerC: it merges freqState
// partials like freqMergeReducer, but its Output ranks the candidates into
// the final top-n slice instead of exposing the raw state.
type topNFromFreqReducer struct {
	inner freqMergeReducer
	n     int
}

func (r *topNFromFreqReducer) Push(ctx context.Context, partial *freqState) error {
	return r.inner.Push(ctx, partial)
}

func (r *topNFromFreqReducer) Output(ctx context.Context) ([]Bucket[string], error) {
	state, err := r.inner.Output(ctx)
	if err != nil {
		return nil, err
	}
	return state.topN(r.n), nil
}

// MostFrequent expands into the most_frequent terminal operator: each
// level accumulates a count-min sketch plus the candidate key set, and the
// driver ranks the top n keys by estimated frequency.
func MostFrequent[Item any](keyOf func(Item) string, n int, probability, tolerance float64) *Terminal[Item, *freqState, *freqState, []Bucket[string]] {
	fa := FactoryFunc[Item, *freqState](func() Reducer[Item, *freqState] {
		return &freqReducer[Item]{keyOf: keyOf, probability: probability, tolerance: tolerance}
	})
	fb := FactoryFunc[*freqState, *freqState](func() Reducer[*freqState, *freqState] {
		return &freqMergeReducer{probability: probability, tolerance: tolerance}
	})
	return &Terminal[Item, *freqState, *freqState, []Bucket[string]]{
		FactoryA: fa,
		FactoryB: fb,
		ReducerC: &topNFromFreqReducer{inner: freqMergeReducer{probability: probability, tolerance: tolerance}, n: n},
	}
}

// distinctState is the partial state shared by every tree level of
// MostDistinct: one HyperLogLog per observed group key, estimating the
// cardinality of a second, per-item "distinct" key within that group.
type distinctState struct {
	errorRate float64
	perKey    map[string]*sketch.HyperLogLog
}

func newDistinctState(errorRate float64) *distinctState {
	return &distinctState{errorRate: errorRate, perKey: make(map[string]*sketch.HyperLogLog)}
}

func (s *distinctState) observe(groupKey, distinctValue string) {
	hll, ok := s.perKey[groupKey]
	if !ok {
		hll = sketch.NewHyperLogLog(s.errorRate)
		s.perKey[groupKey] = hll
	}
	hll.Push(distinctValue)
}

func (s *distinctState) merge(other *distinctState) {
	for k, hll := range other.perKey {
		cur, ok := s.perKey[k]
		if !ok {
			cur = sketch.NewHyperLogLog(s.errorRate)
			s.perKey[k] = cur
		}
		cur.Merge(hll)
	}
}

func (s *distinctState) topN(n int) []Bucket[string] {
	bh := &bucketMinHeap{}
	for k, hll := range s.perKey {
		c := int64(hll.Estimate())
		if bh.Len() < n {
			heap.Push(bh, Bucket[string]{Key: k, Count: c})
			continue
		}
		if bh.Len() > 0 && c > (*bh)[0].Count {
			heap.Pop(bh)
			heap.Push(bh, Bucket[string]{Key: k, Count: c})
		}
	}
	out := make([]Bucket[string], bh.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(bh).(Bucket[string])
	}
	return out
}

type distinctReducer[Item any] struct {
	groupKey  func(Item) string
	distinct  func(Item) string
	errorRate float64
	state     *distinctState
}

func (r *distinctReducer[Item]) Push(_ context.Context, item Item) error {
	if r.state == nil {
		r.state = newDistinctState(r.errorRate)
	}
	r.state.observe(r.groupKey(item), r.distinct(item))
	return nil
}

func (r *distinctReducer[Item]) Output(_ context.Context) (*distinctState, error) {
	if r.state == nil {
		r.state = newDistinctState(r.errorRate)
	}
	return r.state, nil
}

type distinctMergeReducer struct {
	errorRate float64
	state     *distinctState
}

func (r *distinctMergeReducer) Push(_ context.Context, partial *distinctState) error {
	if r.state == nil {
		r.state = newDistinctState(r.errorRate)
	}
	r.state.merge(partial)
	return nil
}

func (r *distinctMergeReducer) Output(_ context.Context) (*distinctState, error) {
	if r.state == nil {
		r.state = newDistinctState(r.errorRate)
	}
	return r.state, nil
}

type topNFromDistinctReducer struct {
	inner distinctMergeReducer
	n     int
}

func (r *topNFromDistinctReducer) Push(ctx context.Context, partial *distinctState) error {
	return r.inner.Push(ctx, partial)
}

func (r *topNFromDistinctReducer) Output(ctx context.Context) ([]Bucket[string], error) {
	state, err := r.inner.Output(ctx)
	if err != nil {
		return nil, err
	}
	return state.topN(r.n), nil
}

// MostDistinct expands into the most_distinct terminal operator: each
// level accumulates one HyperLogLog per group key, estimating the
// cardinality of distinct(item) within that group, and the driver ranks
// the top n groups by estimated distinct count.
func MostDistinct[Item any](groupKey, distinct func(Item) string, n int, errorRate float64) *Terminal[Item, *distinctState, *distinctState, []Bucket[string]] {
	fa := FactoryFunc[Item, *distinctState](func() Reducer[Item, *distinctState] {
		return &distinctReducer[Item]{groupKey: groupKey, distinct: distinct, errorRate: errorRate}
	})
	fb := FactoryFunc[*distinctState, *distinctState](func() Reducer[*distinctState, *distinctState] {
		return &distinctMergeReducer{errorRate: errorRate}
	})
	return &Terminal[Item, *distinctState, *distinctState, []Bucket[string]]{
		FactoryA: fa,
		FactoryB: fb,
		ReducerC: &topNFromDistinctReducer{inner: distinctMergeReducer{errorRate: errorRate}, n: n},
	}
}
