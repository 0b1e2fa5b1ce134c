package reduce

import (
	"context"
	"testing"

	"github.com/kbukum/treereduce/either"
)

func TestFoldAtItemLevel(t *testing.T) {
	term := Fold[int, int](
		func() int { return 0 },
		func(acc int, next either.Either[int, int]) int {
			return acc + either.Fold(next, func(v int) int { return v }, func(v int) int { return v })
		},
	)
	ra := term.FactoryA.Make()
	got, err := PushAll(context.Background(), ra, []int{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got != 10 {
		t.Errorf("got %d, want 10", got)
	}
}

func TestFoldMergesPartialsAtTreeLevel(t *testing.T) {
	term := Fold[int, int](
		func() int { return 0 },
		func(acc int, next either.Either[int, int]) int {
			return acc + either.Fold(next, func(v int) int { return v }, func(v int) int { return v })
		},
	)
	rb := term.FactoryB.Make()
	got, err := PushAll(context.Background(), rb, []int{10, 20, 30})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got != 60 {
		t.Errorf("got %d, want 60", got)
	}
}

func TestFoldEmptyYieldsSeed(t *testing.T) {
	term := Fold[int, int](
		func() int { return 42 },
		func(acc int, next either.Either[int, int]) int { return acc },
	)
	ra := term.FactoryA.Make()
	got, err := ra.Output(context.Background())
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want seed 42", got)
	}
}
