package params

import "testing"

func TestBuilderAssignsSequentialKeys(t *testing.T) {
	b := NewBuilder()
	k0, err := b.Register("cutoff", 20, 20000, 1000)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	k1, err := b.Register("resonance", 0, 1, 0.5)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if k0 != 0 || k1 != 1 {
		t.Fatalf("keys = %d, %d; want 0, 1", k0, k1)
	}
}

func TestBuilderRejectsDuplicateName(t *testing.T) {
	b := NewBuilder()
	if _, err := b.Register("gain", 0, 1, 1); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := b.Register("gain", 0, 1, 1); err == nil {
		t.Fatalf("duplicate Register should error")
	}
}

func TestStoreDefaultsAndClamping(t *testing.T) {
	b := NewBuilder()
	k, _ := b.Register("cutoff", 20, 20000, 1000)
	s := b.Build()

	if got := s.Get(k); got != 1000 {
		t.Fatalf("default Get = %v, want 1000", got)
	}

	s.Set(k, 99999)
	if got := s.Get(k); got != 20000 {
		t.Fatalf("clamped high Get = %v, want 20000", got)
	}

	s.Set(k, -5)
	if got := s.Get(k); got != 20 {
		t.Fatalf("clamped low Get = %v, want 20", got)
	}
}

func TestKeyByName(t *testing.T) {
	b := NewBuilder()
	k, _ := b.Register("cutoff", 20, 20000, 1000)
	s := b.Build()

	got, ok := s.KeyByName("cutoff")
	if !ok || got != k {
		t.Fatalf("KeyByName(cutoff) = %v, %v; want %v, true", got, ok, k)
	}
	if _, ok := s.KeyByName("missing"); ok {
		t.Fatalf("KeyByName(missing) = true, want false")
	}
}
