package reduce

import (
	"context"
	"testing"
)

func isEven(v int) bool { return v%2 == 0 }

func TestAllTrueWhenEveryItemSatisfies(t *testing.T) {
	term := All(isEven)
	ra := term.FactoryA.Make()
	got, err := PushAll(context.Background(), ra, []int{2, 4, 6})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if !got {
		t.Error("All(isEven) over [2,4,6] = false, want true")
	}
}

// TestAllStaysFalseAfterFirstFailure: once the predicate fails, further
// Push calls are no-ops and the reducer stays tripped.
func TestAllStaysFalseAfterFirstFailure(t *testing.T) {
	ctx := context.Background()
	term := All(isEven)
	ra := term.FactoryA.Make()
	if err := ra.Push(ctx, 2); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := ra.Push(ctx, 3); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := ra.Push(ctx, 4); err != nil {
		t.Fatalf("Push: %v", err)
	}
	got, err := ra.Output(ctx)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if got {
		t.Error("got true, want false after an odd value was observed")
	}
}

func TestAllMergeIsConjunction(t *testing.T) {
	term := All(isEven)
	rb := term.FactoryB.Make()
	got, err := PushAll(context.Background(), rb, []bool{true, true, false, true})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got {
		t.Error("AND-merge of [true,true,false,true] = true, want false")
	}
}

func TestAnyTrueOnFirstMatch(t *testing.T) {
	ctx := context.Background()
	term := Any(isEven)
	ra := term.FactoryA.Make()
	if err := ra.Push(ctx, 1); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := ra.Push(ctx, 2); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := ra.Push(ctx, 3); err != nil {
		t.Fatalf("Push: %v", err)
	}
	got, err := ra.Output(ctx)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !got {
		t.Error("got false, want true after an even value was observed")
	}
}

func TestAnyFalseWhenNoneMatch(t *testing.T) {
	term := Any(isEven)
	ra := term.FactoryA.Make()
	got, err := PushAll(context.Background(), ra, []int{1, 3, 5})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got {
		t.Error("Any(isEven) over [1,3,5] = true, want false")
	}
}

func TestAnyMergeIsDisjunction(t *testing.T) {
	term := Any(isEven)
	rb := term.FactoryB.Make()
	got, err := PushAll(context.Background(), rb, []bool{false, false, true})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if !got {
		t.Error("OR-merge of [false,false,true] = false, want true")
	}
}
