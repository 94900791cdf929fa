package audio

import (
	"math"

	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
)

// SweepShape selects linear or exponential interpolation between endpoints.
type SweepShape int

const (
	SweepLinear SweepShape = iota
	SweepExponential
)

// Sweep is a re-triggerable ramp generator between two values over a
// configured duration. A rising edge on its "trigger" input restarts the
// ramp from "from"; absent a trigger input it holds at "to".
type Sweep struct {
	node.NopHandleMsg
	ports *node.Ports

	from, to   float32
	durationMs float32
	shape      SweepShape

	elapsedSamples float32
	prevTrig       bool
}

// NewSweep builds a sweep from "from" to "to" over durationMs milliseconds.
func NewSweep(from, to, durationMs float32, shape SweepShape) *Sweep {
	return &Sweep{
		ports:      node.NewPortsBuilder().AudioInNamed("trigger").AudioOutNamed("out").Build(),
		from:       from,
		to:         to,
		durationMs: durationMs,
		shape:      shape,
		// negative means "no ramp pending": hold at "to" until triggered.
		elapsedSamples: -1,
	}
}

func (s *Sweep) Ports() *node.Ports { return s.ports }

func (s *Sweep) Process(ctx *context.Context, inputs, outputs [][]float32) {
	trig := inputs[0]
	out := outputs[0]
	sr := ctx.SampleRate()
	totalSamples := msToSamples(s.durationMs, sr)

	for i := range out {
		if trig != nil {
			high := trig[i] >= gateThreshold
			if high && !s.prevTrig {
				s.elapsedSamples = 0
			}
			s.prevTrig = high
		}

		var t float32
		if s.elapsedSamples < 0 {
			t = 1
		} else {
			t = s.elapsedSamples / totalSamples
			if t > 1 {
				t = 1
			}
			s.elapsedSamples++
		}

		switch s.shape {
		case SweepExponential:
			if s.from <= 0 || s.to <= 0 {
				out[i] = s.from + (s.to-s.from)*t
			} else {
				out[i] = float32(float64(s.from) * math.Pow(float64(s.to)/float64(s.from), float64(t)))
			}
		default:
			out[i] = s.from + (s.to-s.from)*t
		}
	}
}
