package reduce

import "context"

// Collector defines how items of type Item accumulate into a container C.
// Sequence containers append; sets/maps replace on a duplicate key;
// string-from-char containers append code points; string-from-string
// containers concatenate. Each concrete collector below implements one of
// those semantics.
type Collector[Item, C any] interface {
	New() C
	Add(c C, item Item) C
	// Merge concatenates two containers built independently (used at the
	// B/C tree levels, matching "Extend" semantics regardless of which
	// collector produced the A-level container).
	Merge(a, b C) C
}

// pushReducer owns a container C and applies a Collector's Add per item.
type pushReducer[Item, C any] struct {
	coll Collector[Item, C]
	c    C
	init bool
}

func (r *pushReducer[Item, C]) Push(_ context.Context, item Item) error {
	if !r.init {
		r.c = r.coll.New()
		r.init = true
	}
	r.c = r.coll.Add(r.c, item)
	return nil
}

func (r *pushReducer[Item, C]) Output(_ context.Context) (C, error) {
	if !r.init {
		return r.coll.New(), nil
	}
	return r.c, nil
}

// PushFactory returns a Factory manufacturing fresh Push (collect-into-
// container) reducers for the given Collector.
func PushFactory[Item, C any](coll Collector[Item, C]) Factory[Item, C] {
	return FactoryFunc[Item, C](func() Reducer[Item, C] {
		return &pushReducer[Item, C]{coll: coll}
	})
}

// extendReducer owns C; each input is itself a container and its elements
// are merged in via the Collector's Merge.
type extendReducer[C any] struct {
	coll interface {
		New() C
		Merge(a, b C) C
	}
	c    C
	init bool
}

func (r *extendReducer[C]) Push(_ context.Context, next C) error {
	if !r.init {
		r.c = next
		r.init = true
		return nil
	}
	r.c = r.coll.Merge(r.c, next)
	return nil
}

func (r *extendReducer[C]) Output(_ context.Context) (C, error) {
	return r.c, nil
}

// ExtendFactory returns a Factory manufacturing Extend reducers: it
// concatenates already-built containers, used at the B and C tree levels
// of Collect so every level shares the container type.
func ExtendFactory[Item, C any](coll Collector[Item, C]) Factory[C, C] {
	return FactoryFunc[C, C](func() Reducer[C, C] {
		return &extendReducer[C]{coll: coll}
	})
}

// Collect expands into the Collect terminal operator: A pushes into the
// per-thread container, B and C both extend (concatenate) containers
// produced by the level below.
func Collect[Item, C any](coll Collector[Item, C]) *Terminal[Item, C, C, C] {
	fa := PushFactory(coll)
	fb := ExtendFactory[Item](coll)
	return &Terminal[Item, C, C, C]{
		FactoryA: fa,
		FactoryB: fb,
		ReducerC: fb.Make(),
	}
}

// --- Concrete collectors ---

// SliceCollector is a sequence container: items append in arrival order
// within a task; across tasks/threads order is not guaranteed per §4.1.
type SliceCollector[T any] struct{}

func (SliceCollector[T]) New() []T                  { return nil }
func (SliceCollector[T]) Add(c []T, item T) []T     { return append(c, item) }
func (SliceCollector[T]) Merge(a, b []T) []T        { return append(a, b...) }

// SetCollector is a set container keyed by the element itself: a
// duplicate element replaces (is a no-op for) the existing entry.
type SetCollector[T comparable] struct{}

func (SetCollector[T]) New() map[T]struct{} { return make(map[T]struct{}) }
func (SetCollector[T]) Add(c map[T]struct{}, item T) map[T]struct{} {
	c[item] = struct{}{}
	return c
}
func (SetCollector[T]) Merge(a, b map[T]struct{}) map[T]struct{} {
	for k := range b {
		a[k] = struct{}{}
	}
	return a
}

// Pair is a (key, value) element, the natural item shape feeding a
// MapCollector or GroupBy.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// MapCollector is a map container: a duplicate key replaces the existing
// value (last write wins within the arrival order the level observes).
type MapCollector[K comparable, V any] struct{}

func (MapCollector[K, V]) New() map[K]V { return make(map[K]V) }
func (MapCollector[K, V]) Add(c map[K]V, item Pair[K, V]) map[K]V {
	c[item.Key] = item.Value
	return c
}
func (MapCollector[K, V]) Merge(a, b map[K]V) map[K]V {
	for k, v := range b {
		a[k] = v
	}
	return a
}

// RuneStringCollector builds a string by appending code points.
type RuneStringCollector struct{}

func (RuneStringCollector) New() string                  { return "" }
func (RuneStringCollector) Add(c string, item rune) string { return c + string(item) }
func (RuneStringCollector) Merge(a, b string) string      { return a + b }

// StringStringCollector builds a string by concatenating strings.
type StringStringCollector struct{}

func (StringStringCollector) New() string                    { return "" }
func (StringStringCollector) Add(c string, item string) string { return c + item }
func (StringStringCollector) Merge(a, b string) string        { return a + b }
