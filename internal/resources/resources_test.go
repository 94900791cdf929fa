package resources

import "testing"

func TestBuilderAndDelayRoundTrip(t *testing.T) {
	b := NewBuilder()
	dk, err := b.RegisterDelay("a", 1, 4096)
	if err != nil {
		t.Fatalf("RegisterDelay: %v", err)
	}
	r, err := b.Build(128)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	block := make([]float32, 128)
	block[0] = 1
	if err := r.DelayWriteBlock(dk, [][]float32{block}); err != nil {
		t.Fatalf("DelayWriteBlock: %v", err)
	}
	got := r.GetDelayLinearInterp(dk, 0, 127)
	if diff := got - 1; diff > 1e-5 || diff < -1e-5 {
		t.Fatalf("GetDelayLinearInterp = %v, want 1", got)
	}
}

func TestSampleHandleSharedAcrossBuild(t *testing.T) {
	b := NewBuilder()
	sk, err := b.RegisterSample("kick")
	if err != nil {
		t.Fatalf("RegisterSample: %v", err)
	}
	r, err := b.Build(128)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	h := r.GetSample(sk)
	if h.Load() != nil {
		t.Fatalf("unpublished sample handle should load nil")
	}
}

func TestDuplicateNamesRejected(t *testing.T) {
	b := NewBuilder()
	if _, err := b.RegisterDelay("x", 1, 256); err != nil {
		t.Fatalf("RegisterDelay: %v", err)
	}
	if _, err := b.RegisterDelay("x", 1, 256); err == nil {
		t.Fatalf("duplicate delay name should error")
	}
	if _, err := b.RegisterSample("y"); err != nil {
		t.Fatalf("RegisterSample: %v", err)
	}
	if _, err := b.RegisterSample("y"); err == nil {
		t.Fatalf("duplicate sample name should error")
	}
}

func TestParamsThroughResourceBuilder(t *testing.T) {
	b := NewBuilder()
	k, err := b.Params().Register("gain", 0, 1, 0.8)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	r, err := b.Build(128)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := r.GetParam(k); got != 0.8 {
		t.Fatalf("GetParam default = %v, want 0.8", got)
	}
}
