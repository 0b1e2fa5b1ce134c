package sketch

import "testing"

func TestReservoirFillsUpToCapacity(t *testing.T) {
	r := NewReservoir[int](3)
	for i := 0; i < 3; i++ {
		r.Push(i)
	}
	if len(r.Items()) != 3 {
		t.Fatalf("Items() = %v, want 3 items", r.Items())
	}
	if r.Seen() != 3 {
		t.Errorf("Seen() = %d, want 3", r.Seen())
	}
}

func TestReservoirNeverExceedsCapacity(t *testing.T) {
	r := NewReservoir[int](10)
	for i := 0; i < 10_000; i++ {
		r.Push(i)
	}
	if len(r.Items()) != 10 {
		t.Fatalf("Items() has %d elements, want 10", len(r.Items()))
	}
	if r.Seen() != 10_000 {
		t.Errorf("Seen() = %d, want 10000", r.Seen())
	}
}

func TestReservoirZeroCapacity(t *testing.T) {
	r := NewReservoir[int](0)
	r.Push(1)
	r.Push(2)
	if len(r.Items()) != 0 {
		t.Errorf("Items() = %v, want empty", r.Items())
	}
}

func TestReservoirMergeCombinesSeenCounts(t *testing.T) {
	a := NewReservoir[int](5)
	for i := 0; i < 100; i++ {
		a.Push(i)
	}
	b := NewReservoir[int](5)
	for i := 100; i < 250; i++ {
		b.Push(i)
	}

	a.Merge(b)
	if a.Seen() != 250 {
		t.Errorf("Seen() after merge = %d, want 250", a.Seen())
	}
	if len(a.Items()) != 5 {
		t.Errorf("Items() after merge has %d elements, want 5", len(a.Items()))
	}
}

func TestReservoirMergeIntoEmpty(t *testing.T) {
	a := NewReservoir[int](5)
	b := NewReservoir[int](5)
	for i := 0; i < 5; i++ {
		b.Push(i)
	}

	a.Merge(b)
	if a.Seen() != 5 || len(a.Items()) != 5 {
		t.Fatalf("Merge into empty reservoir = (seen=%d, items=%d), want (5, 5)", a.Seen(), len(a.Items()))
	}
}
