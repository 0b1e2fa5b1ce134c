package reduce

import (
	"context"
	"testing"
)

func TestMax(t *testing.T) {
	ctx := context.Background()
	r := Max[int]().FactoryA.Make()
	got, err := PushAll(ctx, r, []int{3, 1, 4, 1, 5, 9, 2, 6})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got == nil || *got != 9 {
		t.Fatalf("Max() = %v, want 9", got)
	}
}

// TestMaxTieBreakPrefersLater: with duplicate maxima, the later element in
// arrival order is the one retained.
func TestMaxTieBreakPrefersLater(t *testing.T) {
	type tagged struct {
		val int
		tag string
	}
	less := func(a, b tagged) bool { return a.val < b.val }
	r := MaxBy(less).FactoryA.Make()

	ctx := context.Background()
	first := tagged{val: 5, tag: "first"}
	second := tagged{val: 5, tag: "second"}
	got, err := PushAll(ctx, r, []tagged{first, second})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got == nil || got.tag != "second" {
		t.Fatalf("MaxBy tie-break = %+v, want the later element (tag=second)", got)
	}
}

func TestMinTieBreakPrefersEarlier(t *testing.T) {
	type tagged struct {
		val int
		tag string
	}
	less := func(a, b tagged) bool { return a.val < b.val }
	r := MinBy(less).FactoryA.Make()

	ctx := context.Background()
	first := tagged{val: 5, tag: "first"}
	second := tagged{val: 5, tag: "second"}
	got, err := PushAll(ctx, r, []tagged{first, second})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got == nil || got.tag != "first" {
		t.Fatalf("MinBy tie-break = %+v, want the earlier element (tag=first)", got)
	}
}

func TestCombineEmptyInputYieldsNil(t *testing.T) {
	r := Max[int]().FactoryA.Make()
	got, err := r.Output(context.Background())
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if got != nil {
		t.Errorf("Output() on an empty Combine reducer = %v, want nil", got)
	}
}

func TestMaxByKey(t *testing.T) {
	type item struct{ score int }
	r := MaxByKey(func(i item) int { return i.score }).FactoryA.Make()
	got, err := PushAll(context.Background(), r, []item{{score: 1}, {score: 9}, {score: 4}})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got == nil || got.score != 9 {
		t.Fatalf("MaxByKey() = %+v, want score 9", got)
	}
}
