package stream

import (
	"context"
	"strconv"
)

// Task is a serializable unit of source work: one slice of the input
// stream assigned to one thread. Run materializes it into its private
// async state, returning the Iterator the assigned thread drives to
// completion.
type Task[T any] interface {
	// ID identifies the task for diagnostics (worker-panic messages name
	// the failing task by this ID).
	ID() string
	// Run materializes the task into an Iterator over its elements.
	Run(ctx context.Context) (Iterator[T], error)
}

// SizeHint describes a stream's remaining task count: Lower is a known
// lower bound, Upper is an optional known upper bound (nil if unknown).
type SizeHint struct {
	Lower int
	Upper *int
}

// Stream is a distributed or parallel task producer. It is driven only on
// the driver (for process pools) or only on the owning worker (for thread
// pools), is finite, and is not restartable. No ordering is guaranteed
// between tasks.
type Stream[T any] interface {
	// Hint returns the stream's current size hint.
	Hint() SizeHint
	// NextTask yields the next task, or (nil, false, nil) when exhausted.
	NextTask(ctx context.Context) (Task[T], bool, error)
}

// taskFunc adapts a plain function into a Task.
type taskFunc[T any] struct {
	id  string
	run func(ctx context.Context) (Iterator[T], error)
}

func (t *taskFunc[T]) ID() string { return t.id }
func (t *taskFunc[T]) Run(ctx context.Context) (Iterator[T], error) {
	return t.run(ctx)
}

// NewTask builds a Task from an id and a materialization function.
func NewTask[T any](id string, run func(ctx context.Context) (Iterator[T], error)) Task[T] {
	return &taskFunc[T]{id: id, run: run}
}

// FromSlices builds a Stream whose tasks each wrap one of the given
// slices, one task per slice, ids assigned sequentially. Mirrors
// kbukum/treereduce/pipeline.FromSlice, lifted to the task level.
func FromSlices[T any](idPrefix string, slices [][]T) Stream[T] {
	return &sliceStream[T]{idPrefix: idPrefix, slices: slices}
}

// FromTasks builds a Stream that yields exactly the given tasks in order,
// reporting hint as its fixed size hint. Used by adapters (e.g. source)
// that already have materialized Task values rather than raw slices.
func FromTasks[T any](hint SizeHint, tasks []Task[T]) Stream[T] {
	return &taskStream[T]{hint: hint, tasks: tasks}
}

type taskStream[T any] struct {
	hint  SizeHint
	tasks []Task[T]
	index int
}

func (s *taskStream[T]) Hint() SizeHint { return s.hint }

func (s *taskStream[T]) NextTask(_ context.Context) (Task[T], bool, error) {
	if s.index >= len(s.tasks) {
		return nil, false, nil
	}
	t := s.tasks[s.index]
	s.index++
	return t, true, nil
}

type sliceStream[T any] struct {
	idPrefix string
	slices   [][]T
	index    int
}

func (s *sliceStream[T]) Hint() SizeHint {
	remaining := len(s.slices) - s.index
	if remaining < 0 {
		remaining = 0
	}
	return SizeHint{Lower: remaining, Upper: &remaining}
}

func (s *sliceStream[T]) NextTask(_ context.Context) (Task[T], bool, error) {
	if s.index >= len(s.slices) {
		return nil, false, nil
	}
	items := s.slices[s.index]
	id := taskID(s.idPrefix, s.index)
	s.index++
	return NewTask[T](id, func(_ context.Context) (Iterator[T], error) {
		return NewSliceIterator(items), nil
	}), true, nil
}

func taskID(prefix string, index int) string {
	if prefix == "" {
		prefix = "task"
	}
	return prefix + "-" + strconv.Itoa(index)
}
