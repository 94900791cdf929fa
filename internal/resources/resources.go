// Package resources implements the keyed resource store: delay lines,
// sample handles, and the parameter plane, built once before the executor
// enters its RT phase and never resized afterward.
package resources

import (
	"fmt"

	"github.com/legato-dsp/legato/internal/delay"
	"github.com/legato-dsp/legato/internal/params"
	"github.com/legato-dsp/legato/internal/ring"
	"github.com/legato-dsp/legato/internal/sample"
)

// DelayLineKey indexes one delay line. Stable for the Resources' lifetime.
type DelayLineKey int

// SampleKey indexes one sample handle. Stable for the Resources' lifetime.
type SampleKey int

type delaySpec struct {
	name       string
	numChans   int
	capacity   int
}

// Builder accumulates delay/sample/parameter declarations before Resources
// is built. This is the non-RT-only construction surface; nothing here is
// touched again once Build succeeds.
type Builder struct {
	delays      []delaySpec
	delayNames  map[string]DelayLineKey
	sampleNames map[string]SampleKey
	numSamples  int
	params      *params.Builder
}

// NewBuilder returns an empty resource builder.
func NewBuilder() *Builder {
	return &Builder{
		delayNames:  make(map[string]DelayLineKey),
		sampleNames: make(map[string]SampleKey),
		params:      params.NewBuilder(),
	}
}

// Params returns the underlying parameter builder, so callers can register
// parameters alongside delays and samples.
func (b *Builder) Params() *params.Builder { return b.params }

// RegisterDelay declares a named delay line with numChannels channels and
// the given per-channel capacity (in samples). Registering the same name
// twice is a construction error.
func (b *Builder) RegisterDelay(name string, numChannels, capacity int) (DelayLineKey, error) {
	if _, exists := b.delayNames[name]; exists {
		return 0, fmt.Errorf("resources: delay %q already registered", name)
	}
	k := DelayLineKey(len(b.delays))
	b.delays = append(b.delays, delaySpec{name: name, numChans: numChannels, capacity: capacity})
	b.delayNames[name] = k
	return k, nil
}

// RegisterSample declares a named, initially-unpublished sample slot.
func (b *Builder) RegisterSample(name string) (SampleKey, error) {
	if _, exists := b.sampleNames[name]; exists {
		return 0, fmt.Errorf("resources: sample %q already registered", name)
	}
	k := SampleKey(b.numSamples)
	b.numSamples++
	b.sampleNames[name] = k
	return k, nil
}

// Build finalizes the Resources for the given block size. Every declared
// delay line is allocated with capacity >= blockSize.
func (b *Builder) Build(blockSize int) (*Resources, error) {
	r := &Resources{
		delays:      make([]*delay.Line, len(b.delays)),
		samples:     make([]*sample.Handle, b.numSamples),
		delayNames:  b.delayNames,
		sampleNames: b.sampleNames,
		params:      b.params.Build(),
	}
	for i, spec := range b.delays {
		capacity := spec.capacity
		if capacity < blockSize {
			capacity = blockSize
		}
		l, err := delay.New(spec.numChans, capacity, blockSize)
		if err != nil {
			return nil, fmt.Errorf("resources: delay %q: %w", spec.name, err)
		}
		r.delays[i] = l
	}
	for i := range r.samples {
		r.samples[i] = sample.NewHandle()
	}
	return r, nil
}

// Resources is the immutable, built resource store passed by reference into
// AudioContext and on to every node.
type Resources struct {
	delays      []*delay.Line
	samples     []*sample.Handle
	delayNames  map[string]DelayLineKey
	sampleNames map[string]SampleKey
	params      *params.Store
}

// DelayKeyByName resolves a delay line's name to its key (construction time
// only).
func (r *Resources) DelayKeyByName(name string) (DelayLineKey, bool) {
	k, ok := r.delayNames[name]
	return k, ok
}

// SampleKeyByName resolves a sample slot's name to its key (construction
// time only).
func (r *Resources) SampleKeyByName(name string) (SampleKey, bool) {
	k, ok := r.sampleNames[name]
	return k, ok
}

// Params returns the parameter store.
func (r *Resources) Params() *params.Store { return r.params }

// DelayWriteBlock writes one block of frames into the delay line at k.
func (r *Resources) DelayWriteBlock(k DelayLineKey, frames [][]float32) error {
	return r.delays[k].WriteBlock(frames)
}

// GetDelayLinearInterp reads channel ch of delay line k with linear
// interpolation at fractional offset off.
func (r *Resources) GetDelayLinearInterp(k DelayLineKey, ch int, off float32) float32 {
	return r.delays[k].GetDelayLinearInterp(ch, off)
}

// GetDelayCubicInterp reads channel ch of delay line k with cubic Hermite
// interpolation at fractional offset off.
func (r *Resources) GetDelayCubicInterp(k DelayLineKey, ch int, off float32) float32 {
	return r.delays[k].GetDelayCubicInterp(ch, off)
}

// GetDelayLinearInterpSIMD applies GetDelayLinearInterp lane-wise.
func (r *Resources) GetDelayLinearInterpSIMD(k DelayLineKey, ch int, offs [ring.Lanes]float32) [ring.Lanes]float32 {
	return r.delays[k].GetDelayLinearInterpVec(ch, offs)
}

// GetDelayCubicInterpSIMD applies GetDelayCubicInterp lane-wise.
func (r *Resources) GetDelayCubicInterpSIMD(k DelayLineKey, ch int, offs [ring.Lanes]float32) [ring.Lanes]float32 {
	return r.delays[k].GetDelayCubicInterpVec(ch, offs)
}

// GetSample returns the sample handle at k, not a cloned AudioSample: the
// caller observes new publications via the handle's version counter.
func (r *Resources) GetSample(k SampleKey) *sample.Handle {
	return r.samples[k]
}

// GetParam performs a relaxed atomic read of parameter k's current value.
func (r *Resources) GetParam(k params.Key) float32 {
	return r.params.Get(k)
}
