package reduce

import (
	"context"
	"testing"
)

func TestForkProducesBothBranchOutputs(t *testing.T) {
	term := Fork[int, int, int, int, int64, int64, int64](Sum[int](), Count[int]())
	ra := term.FactoryA.Make()
	got, err := PushAll(context.Background(), ra, []int{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got.First != 10 {
		t.Errorf("got.First (sum) = %d, want 10", got.First)
	}
	if got.Second != 4 {
		t.Errorf("got.Second (count) = %d, want 4", got.Second)
	}
}

func TestForkMergesBothBranchesAtTreeLevel(t *testing.T) {
	term := Fork[int, int, int, int, int64, int64, int64](Sum[int](), Count[int]())
	rb := term.FactoryB.Make()
	partials := []Both[int, int64]{
		{First: 10, Second: 4},
		{First: 5, Second: 2},
	}
	got, err := PushAll(context.Background(), rb, partials)
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got.First != 15 {
		t.Errorf("got.First (sum) = %d, want 15", got.First)
	}
	if got.Second != 6 {
		t.Errorf("got.Second (count) = %d, want 6", got.Second)
	}
}

func TestForkEndToEndMatchesIndependentReductions(t *testing.T) {
	items := make([]int, 1000)
	for i := range items {
		items[i] = i + 1
	}

	term := Fork[int, int, int, int, int64, int64, int64](Sum[int](), Count[int]())
	ra := term.FactoryA.Make()
	both, err := PushAll(context.Background(), ra, items)
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if err := term.ReducerC.Push(context.Background(), both); err != nil {
		t.Fatalf("Push C: %v", err)
	}
	final, err := term.ReducerC.Output(context.Background())
	if err != nil {
		t.Fatalf("Output C: %v", err)
	}
	if final.First != 500500 {
		t.Errorf("final.First (sum) = %d, want 500500", final.First)
	}
	if final.Second != 1000 {
		t.Errorf("final.Second (count) = %d, want 1000", final.Second)
	}
}
