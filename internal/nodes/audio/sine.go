// Package audio implements the concrete audio-rate node types: oscillators,
// envelopes, filters, mixers, delay taps, the sampler, and the oversampler
// wrapper.
package audio

import (
	"math"

	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
)

// Least-squares fit of sin(2*pi*x) over [-0.5, 0.5] by an odd 7th-order
// polynomial in x (phase measured in turns). Max error ~6.6e-4, well within
// audio-rate tolerance for a synthesis oscillator.
const (
	sinC1 = 6.2797294650301
	sinC3 = -41.1362060164590
	sinC5 = 78.3265491137980
	sinC7 = -57.1145494506534
)

// sinTurns7 approximates sin(2*pi*x) for x already wrapped into [-0.5, 0.5].
func sinTurns7(x float32) float32 {
	x2 := x * x
	return x * float32(sinC1+float64(x2)*(sinC3+float64(x2)*(sinC5+float64(x2)*sinC7)))
}

// wrapTurns maps x to the representative of its residue class nearest zero:
// x - round(x), landing in [-0.5, 0.5].
func wrapTurns(x float32) float32 {
	return x - float32(math.Round(float64(x)))
}

// Sine is a phase-accumulator sine oscillator. Its single audio-in port
// ("freq") is optional FM: when connected, each sample's instantaneous
// frequency is read directly from the input and the phase advances by a
// lane-wise running sum of per-sample increments (a prefix scan); when
// absent, the oscillator free-runs at its constructed base frequency.
type Sine struct {
	node.NopHandleMsg
	ports *node.Ports
	freq  float32
	phase float32 // turns, kept in [0, 1) between blocks
}

// NewSine builds a sine oscillator with the given base frequency in Hz,
// used whenever the "freq" input is unconnected.
func NewSine(freq float32) *Sine {
	return &Sine{
		ports: node.NewPortsBuilder().AudioInNamed("freq").AudioOutNamed("out").Build(),
		freq:  freq,
	}
}

func (s *Sine) Ports() *node.Ports { return s.ports }

func (s *Sine) Process(ctx *context.Context, inputs, outputs [][]float32) {
	out := outputs[0]
	sr := float32(ctx.SampleRate())
	phase := s.phase

	if fm := inputs[0]; fm != nil {
		for i := range out {
			phase += fm[i] / sr
			out[i] = sinTurns7(wrapTurns(phase))
		}
	} else {
		inc := s.freq / sr
		for i := range out {
			phase += inc
			out[i] = sinTurns7(wrapTurns(phase))
		}
	}

	s.phase = phase - float32(math.Floor(float64(phase)))
}
