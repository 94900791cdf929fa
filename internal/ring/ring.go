// Package ring implements the fixed-capacity circular float buffer: scalar
// and lane-grouped push, offset reads, and fractional-offset interpolation
// used by every delay-capable node.
package ring

// Lanes is the lane width used for the "vector" push/read paths. Go has no
// portable SIMD intrinsic in this corpus, so Lanes is a logical grouping
// constant rather than a hardware vector width; the math is identical either
// way, only the loop is unrolled into one call instead of Lanes scalar calls.
const Lanes = 4

// Buffer is a fixed-capacity circular float32 buffer. Offset k always refers
// to the k-th most recently pushed value, k=0 being the most recent.
type Buffer struct {
	data  []float32
	write int // index the next push will land on
	n     uint64
}

// New allocates a ring buffer of the given capacity. capacity must be a
// positive multiple of Lanes if PushVec/vector reads will be used.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = Lanes
	}
	return &Buffer{data: make([]float32, capacity)}
}

// Cap returns the buffer's capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Clear resets the buffer to its just-allocated state without reallocating.
func (b *Buffer) Clear() {
	for i := range b.data {
		b.data[i] = 0
	}
	b.write = 0
	b.n = 0
}

// Push appends one sample.
func (b *Buffer) Push(x float32) {
	b.data[b.write] = x
	b.write++
	if b.write == len(b.data) {
		b.write = 0
	}
	b.n++
}

// PushVec appends Lanes samples in order (v[0] is pushed first).
func (b *Buffer) PushVec(v [Lanes]float32) {
	for i := 0; i < Lanes; i++ {
		b.Push(v[i])
	}
}

// PushChunk appends an arbitrary-length slice of samples in order.
func (b *Buffer) PushChunk(xs []float32) {
	for _, x := range xs {
		b.Push(x)
	}
}

// Offset returns the k-th most recently pushed value (0 = most recent).
func (b *Buffer) Offset(k int) float32 {
	cap := len(b.data)
	idx := b.write - 1 - k
	idx %= cap
	if idx < 0 {
		idx += cap
	}
	return b.data[idx]
}

// ChunkByOffset returns (Offset(k), Offset(k+1), ..., Offset(k+Lanes-1)),
// handling wrap-around transparently.
func (b *Buffer) ChunkByOffset(k int) [Lanes]float32 {
	var out [Lanes]float32
	for i := 0; i < Lanes; i++ {
		out[i] = b.Offset(k + i)
	}
	return out
}

// DelayLinear returns the linearly interpolated value at fractional offset
// off: f = floor(off), t = off - f, result = (1-t)*Offset(f) + t*Offset(f+1).
func (b *Buffer) DelayLinear(off float32) float32 {
	f := floorInt(off)
	t := off - float32(f)
	a := b.Offset(f)
	c := b.Offset(f + 1)
	return a + t*(c-a)
}

// DelayLinearVec applies DelayLinear lane-wise.
func (b *Buffer) DelayLinearVec(offs [Lanes]float32) [Lanes]float32 {
	var out [Lanes]float32
	for i := 0; i < Lanes; i++ {
		out[i] = b.DelayLinear(offs[i])
	}
	return out
}

// DelayCubic returns the four-point cubic Hermite interpolated value at
// fractional offset off, using Offset(f-1), Offset(f), Offset(f+1), Offset(f+2).
// f-1 saturates at 0.
func (b *Buffer) DelayCubic(off float32) float32 {
	f := floorInt(off)
	t := off - float32(f)

	fm1 := f - 1
	if fm1 < 0 {
		fm1 = 0
	}
	y0 := b.Offset(fm1)
	y1 := b.Offset(f)
	y2 := b.Offset(f + 1)
	y3 := b.Offset(f + 2)

	c0 := y1
	c1 := 0.5 * (y2 - y0)
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c3 := 0.5*(y3-y0) + 1.5*(y1-y2)
	return ((c3*t+c2)*t+c1)*t + c0
}

// DelayCubicVec applies DelayCubic lane-wise.
func (b *Buffer) DelayCubicVec(offs [Lanes]float32) [Lanes]float32 {
	var out [Lanes]float32
	for i := 0; i < Lanes; i++ {
		out[i] = b.DelayCubic(offs[i])
	}
	return out
}

// Pushed returns the total number of samples ever pushed (saturating
// reporting is not needed; callers only compare against capacity).
func (b *Buffer) Pushed() uint64 { return b.n }

func floorInt(x float32) int {
	i := int(x)
	if x < float32(i) {
		i--
	}
	return i
}
