package genkey

import "testing"

func TestInsertGet(t *testing.T) {
	a := NewArena[string]()
	k := a.Insert("hello")
	v, ok := a.Get(k)
	if !ok || *v != "hello" {
		t.Fatalf("Get(%v) = %v, %v; want hello, true", k, v, ok)
	}
}

func TestRemoveInvalidatesStaleKey(t *testing.T) {
	a := NewArena[int]()
	k1 := a.Insert(1)
	if !a.Remove(k1) {
		t.Fatalf("Remove(k1) = false, want true")
	}
	if _, ok := a.Get(k1); ok {
		t.Fatalf("Get(k1) after removal = ok, want stale")
	}
	k2 := a.Insert(2)
	if k2.Index != k1.Index {
		t.Fatalf("expected slot reuse: k2.Index=%d, k1.Index=%d", k2.Index, k1.Index)
	}
	if k2.Gen == k1.Gen {
		t.Fatalf("expected generation bump: k2.Gen=%d == k1.Gen=%d", k2.Gen, k1.Gen)
	}
	if _, ok := a.Get(k1); ok {
		t.Fatalf("stale k1 resolved after slot reuse")
	}
	v, ok := a.Get(k2)
	if !ok || *v != 2 {
		t.Fatalf("Get(k2) = %v, %v; want 2, true", v, ok)
	}
}

func TestEachVisitsOnlyLive(t *testing.T) {
	a := NewArena[int]()
	k1 := a.Insert(10)
	_ = a.Insert(20)
	a.Remove(k1)
	count := 0
	a.Each(func(k Key, v *int) { count++ })
	if count != 1 {
		t.Fatalf("Each visited %d slots, want 1", count)
	}
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
}
