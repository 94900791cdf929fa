package ring

import "testing"

func TestOffsetLaw(t *testing.T) {
	b := New(16)
	xs := []float32{10, 11, 12, 13, 14, 15}
	for _, x := range xs {
		b.Push(x)
	}
	n := len(xs)
	for k := 0; k < n; k++ {
		want := xs[n-1-k]
		if got := b.Offset(k); got != want {
			t.Fatalf("Offset(%d) = %v, want %v", k, got, want)
		}
	}
}

func TestChunkVsScalar(t *testing.T) {
	b := New(32)
	for i := 0; i < 20; i++ {
		b.Push(float32(i))
	}
	for k := 0; k < 10; k++ {
		chunk := b.ChunkByOffset(k)
		for i := 0; i < Lanes; i++ {
			if want := b.Offset(k + i); chunk[i] != want {
				t.Fatalf("ChunkByOffset(%d)[%d] = %v, want %v", k, i, chunk[i], want)
			}
		}
	}
}

func TestPushParity(t *testing.T) {
	a := New(16)
	c := New(16)
	vals := [Lanes]float32{1, 2, 3, 4}
	for i := 0; i < Lanes; i++ {
		a.Push(vals[i])
	}
	c.PushVec(vals)
	for i := range a.data {
		if a.data[i] != c.data[i] {
			t.Fatalf("buffers differ at %d: %v vs %v", i, a.data[i], c.data[i])
		}
	}
	if a.write != c.write {
		t.Fatalf("write index differs: %d vs %d", a.write, c.write)
	}
}

func TestWrapAround(t *testing.T) {
	b := New(4)
	for i := 0; i < 10; i++ {
		b.Push(float32(i))
	}
	// last 4 values pushed were 6,7,8,9 -> offset(0)=9 ... offset(3)=6
	want := []float32{9, 8, 7, 6}
	for k, w := range want {
		if got := b.Offset(k); got != w {
			t.Fatalf("Offset(%d) = %v, want %v", k, got, w)
		}
	}
}

func TestDelayLinearRamp(t *testing.T) {
	b := New(64)
	for i := 0; i < 50; i++ {
		b.Push(float32(i))
	}
	// offset(0) == 49 (last pushed). delay_linear should be linear in x with
	// slope -1 since offset(k) = 49-k for integer k.
	for _, x := range []float32{0, 0.25, 1.5, 3.75, 10} {
		got := b.DelayLinear(x)
		want := 49 - x
		if diff := got - want; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("DelayLinear(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestDelayLinearVecMatchesScalar(t *testing.T) {
	b := New(64)
	for i := 0; i < 50; i++ {
		b.Push(float32(i))
	}
	offs := [Lanes]float32{0.1, 1.2, 2.3, 3.4}
	got := b.DelayLinearVec(offs)
	for i, off := range offs {
		want := b.DelayLinear(off)
		if got[i] != want {
			t.Fatalf("DelayLinearVec[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestDelayCubicOnRampIsLinear(t *testing.T) {
	b := New(64)
	for i := 0; i < 50; i++ {
		b.Push(float32(i))
	}
	// A pure ramp is degree-1, so cubic Hermite through 4 ramp points must
	// reduce exactly to the same line as DelayLinear.
	for _, x := range []float32{2, 2.5, 5.25, 8.9} {
		lin := b.DelayLinear(x)
		cub := b.DelayCubic(x)
		if diff := lin - cub; diff > 1e-3 || diff < -1e-3 {
			t.Fatalf("DelayCubic(%v) = %v, DelayLinear(%v) = %v, want equal on a ramp", x, cub, x, lin)
		}
	}
}

func TestClear(t *testing.T) {
	b := New(8)
	for i := 0; i < 8; i++ {
		b.Push(float32(i + 1))
	}
	b.Clear()
	if b.Pushed() != 0 {
		t.Fatalf("Pushed() after Clear = %d, want 0", b.Pushed())
	}
	if got := b.Offset(0); got != 0 {
		t.Fatalf("Offset(0) after Clear = %v, want 0", got)
	}
}
