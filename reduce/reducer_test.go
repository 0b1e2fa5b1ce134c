package reduce

import (
	"context"
	"testing"
)

func TestPushAll(t *testing.T) {
	r := SumFactory[int]().Make()
	got, err := PushAll(context.Background(), r, []int{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("PushAll: %v", err)
	}
	if got != 10 {
		t.Errorf("PushAll sum = %d, want 10", got)
	}
}

func TestFactoryFuncMakeIsIndependent(t *testing.T) {
	f := CountFactory[int]()
	a := f.Make()
	b := f.Make()

	ctx := context.Background()
	_ = a.Push(ctx, 1)
	_ = a.Push(ctx, 2)

	gotA, _ := a.Output(ctx)
	gotB, _ := b.Output(ctx)
	if gotA != 2 {
		t.Errorf("a.Output() = %d, want 2", gotA)
	}
	if gotB != 0 {
		t.Errorf("b.Output() = %d, want 0 (independent instance)", gotB)
	}
}
