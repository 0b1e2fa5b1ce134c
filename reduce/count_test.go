package reduce

import (
	"context"
	"testing"
)

func TestCount(t *testing.T) {
	ctx := context.Background()
	term := Count[string]()

	ra := term.FactoryA.Make()
	partA, err := PushAll(ctx, ra, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("PushAll A: %v", err)
	}
	if partA != 3 {
		t.Fatalf("A-level count = %d, want 3", partA)
	}

	rb := term.FactoryB.Make()
	partB, err := PushAll(ctx, rb, []int64{3, 2, 5})
	if err != nil {
		t.Fatalf("PushAll B: %v", err)
	}
	if partB != 10 {
		t.Fatalf("B-level count = %d, want 10", partB)
	}

	final, err := PushAll(ctx, term.ReducerC, []int64{10, 7})
	if err != nil {
		t.Fatalf("PushAll C: %v", err)
	}
	if final != 17 {
		t.Errorf("final count = %d, want 17", final)
	}
}
