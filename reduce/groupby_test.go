package reduce

import (
	"context"
	"testing"

	"github.com/kbukum/treereduce/either"
)

func countingOp() FoldOp[int, int] {
	return func(acc int, next either.Either[int, int]) int {
		return acc + either.Fold(next, func(v int) int { return v }, func(v int) int { return v })
	}
}

func TestGroupByPerKeyFold(t *testing.T) {
	term := GroupBy[string, int, int](func() int { return 0 }, countingOp())
	ra := term.FactoryA.Make()
	pairs := []Pair[string, int]{
		{Key: "a", Value: 1},
		{Key: "b", Value: 1},
		{Key: "a", Value: 1},
		{Key: "a", Value: 1},
	}
	got, err := PushAll(context.Background(), ra, pairs)
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got["a"] != 3 {
		t.Errorf("got[\"a\"] = %d, want 3", got["a"])
	}
	if got["b"] != 1 {
		t.Errorf("got[\"b\"] = %d, want 1", got["b"])
	}
}

func TestGroupByMergesPartialsPerKey(t *testing.T) {
	term := GroupBy[string, int, int](func() int { return 0 }, countingOp())
	rb := term.FactoryB.Make()
	partials := []map[string]int{
		{"a": 3, "b": 1},
		{"a": 2, "c": 5},
	}
	got, err := PushAll(context.Background(), rb, partials)
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got["a"] != 5 {
		t.Errorf("got[\"a\"] = %d, want 5", got["a"])
	}
	if got["b"] != 1 {
		t.Errorf("got[\"b\"] = %d, want 1", got["b"])
	}
	if got["c"] != 5 {
		t.Errorf("got[\"c\"] = %d, want 5", got["c"])
	}
}

func TestGroupByEmptyYieldsEmptyMap(t *testing.T) {
	term := GroupBy[string, int, int](func() int { return 0 }, countingOp())
	ra := term.FactoryA.Make()
	got, err := ra.Output(context.Background())
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(got) = %d, want 0", len(got))
	}
}
