package reduce

import (
	"context"
	"sort"
	"testing"
)

func TestSliceCollector(t *testing.T) {
	term := Collect[int, []int](SliceCollector[int]{})
	ra := term.FactoryA.Make()
	got, err := PushAll(context.Background(), ra, []int{1, 2, 3})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSetCollectorDedupes(t *testing.T) {
	term := Collect[int, map[int]struct{}](SetCollector[int]{})
	ra := term.FactoryA.Make()
	got, err := PushAll(context.Background(), ra, []int{1, 2, 2, 3, 1})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("len(got) = %d, want 3", len(got))
	}
}

func TestMapCollectorLastWriteWins(t *testing.T) {
	term := Collect[Pair[string, int], map[string]int](MapCollector[string, int]{})
	ra := term.FactoryA.Make()
	pairs := []Pair[string, int]{
		{Key: "a", Value: 1},
		{Key: "a", Value: 2},
		{Key: "b", Value: 3},
	}
	got, err := PushAll(context.Background(), ra, pairs)
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got["a"] != 2 {
		t.Errorf("got[\"a\"] = %d, want 2 (last write wins)", got["a"])
	}
	if got["b"] != 3 {
		t.Errorf("got[\"b\"] = %d, want 3", got["b"])
	}
}

func TestExtendFactoryMergesAcrossLevels(t *testing.T) {
	coll := SliceCollector[int]{}
	fb := ExtendFactory[int](coll)
	rb := fb.Make()
	got, err := PushAll(context.Background(), rb, [][]int{{1, 2}, {3}, {4, 5}})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	sort.Ints(got)
	want := []int{1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRuneStringCollector(t *testing.T) {
	term := Collect[rune, string](RuneStringCollector{})
	ra := term.FactoryA.Make()
	got, err := PushAll(context.Background(), ra, []rune{'a', 'b', 'c'})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got != "abc" {
		t.Errorf("got %q, want %q", got, "abc")
	}
}
