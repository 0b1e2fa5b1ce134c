package reduce

import (
	"context"
	"sort"
)

// Bucket is a single (key, count) entry of a Histogram result, kept sorted
// by Key ascending.
type Bucket[K Ordered] struct {
	Key   K
	Count int64
}

// histogramReducer tallies occurrences per key in a map; Output sorts the
// tally into ascending-key runs on demand.
type histogramReducer[Item any, K Ordered] struct {
	key   func(Item) K
	tally map[K]int64
}

func (r *histogramReducer[Item, K]) Push(_ context.Context, item Item) error {
	if r.tally == nil {
		r.tally = make(map[K]int64)
	}
	r.tally[r.key(item)]++
	return nil
}

func (r *histogramReducer[Item, K]) Output(_ context.Context) ([]Bucket[K], error) {
	return sortedBuckets(r.tally), nil
}

func sortedBuckets[K Ordered](tally map[K]int64) []Bucket[K] {
	out := make([]Bucket[K], 0, len(tally))
	for k, c := range tally {
		out = append(out, Bucket[K]{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// mergeBucketsReducer merges sorted Bucket runs by an ordered-merge pass,
// summing counts for equal keys (the "sorted-run + ordered-merge" scheme
// the histogram combinator uses at every tree level above A).
type mergeBucketsReducer[K Ordered] struct {
	run []Bucket[K]
}

func (r *mergeBucketsReducer[K]) Push(_ context.Context, next []Bucket[K]) error {
	if r.run == nil {
		r.run = next
		return nil
	}
	r.run = mergeSortedBuckets(r.run, next)
	return nil
}

func (r *mergeBucketsReducer[K]) Output(_ context.Context) ([]Bucket[K], error) {
	return r.run, nil
}

func mergeSortedBuckets[K Ordered](a, b []Bucket[K]) []Bucket[K] {
	out := make([]Bucket[K], 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Key < b[j].Key:
			out = append(out, a[i])
			i++
		case b[j].Key < a[i].Key:
			out = append(out, b[j])
			j++
		default:
			out = append(out, Bucket[K]{Key: a[i].Key, Count: a[i].Count + b[j].Count})
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Histogram expands into the Histogram terminal operator: A tallies
// occurrences of key(item) per task, B and C merge the sorted per-key runs
// produced below them, summing counts on key collision.
func Histogram[Item any, K Ordered](key func(Item) K) *Terminal[Item, []Bucket[K], []Bucket[K], []Bucket[K]] {
	fa := FactoryFunc[Item, []Bucket[K]](func() Reducer[Item, []Bucket[K]] {
		return &histogramReducer[Item, K]{key: key}
	})
	fb := FactoryFunc[[]Bucket[K], []Bucket[K]](func() Reducer[[]Bucket[K], []Bucket[K]] {
		return &mergeBucketsReducer[K]{}
	})
	return &Terminal[Item, []Bucket[K], []Bucket[K], []Bucket[K]]{
		FactoryA: fa,
		FactoryB: fb,
		ReducerC: fb.Make(),
	}
}
