package audio

import (
	"math"

	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
)

// OnePoleMode selects the one-pole filter's response.
type OnePoleMode int

const (
	OnePoleLowpass OnePoleMode = iota
	OnePoleHighpass
)

// OnePole is the single-coefficient smoothing filter node. Smoother below
// runs the same recurrence in non-node form.
type OnePole struct {
	node.NopHandleMsg
	ports *node.Ports

	mode     OnePoleMode
	cutoff   float32
	a        float32
	coeffSet bool
	z        float32
}

// NewOnePole builds a one-pole filter of the given mode with initial cutoff
// in Hz.
func NewOnePole(mode OnePoleMode, cutoff float32) *OnePole {
	return &OnePole{
		ports:  node.NewPortsBuilder().AudioInNamed("in").AudioInNamed("cutoff").AudioOutNamed("out").Build(),
		mode:   mode,
		cutoff: cutoff,
	}
}

func (p *OnePole) Ports() *node.Ports { return p.ports }

func (p *OnePole) recompute(cutoff float32, sr float32) {
	maxCutoff := 0.49 * sr
	if cutoff < 1 {
		cutoff = 1
	} else if cutoff > maxCutoff {
		cutoff = maxCutoff
	}
	p.cutoff = cutoff
	x := float32(math.Exp(-2 * math.Pi * float64(cutoff) / float64(sr)))
	p.a = x
	p.coeffSet = true
}

func (p *OnePole) Process(ctx *context.Context, inputs, outputs [][]float32) {
	in := inputs[0]
	cutoffIn := inputs[1]
	out := outputs[0]
	sr := float32(ctx.SampleRate())

	if !p.coeffSet {
		p.recompute(p.cutoff, sr)
	}

	for i := range out {
		var x float32
		if in != nil {
			x = in[i]
		}
		if cutoffIn != nil && absf32(cutoffIn[i]-p.cutoff) > svfEpsilon {
			p.recompute(cutoffIn[i], sr)
		}

		p.z = (1-p.a)*x + p.a*p.z
		switch p.mode {
		case OnePoleLowpass:
			out[i] = p.z
		case OnePoleHighpass:
			out[i] = x - p.z
		}
	}
}

// Smoother is a non-node one-pole smoothing helper, distinct from the
// OnePole node: it has no ports and operates one scalar at a time. No node
// or parameter read in this module calls it.
type Smoother struct {
	a   float32
	z   float32
	set bool
}

// NewSmoother builds a smoother with a time constant of tauMs milliseconds
// at the given sample rate.
func NewSmoother(tauMs float32, sr int) *Smoother {
	a := float32(math.Exp(-1 / (float64(tauMs) / 1000 * float64(sr))))
	return &Smoother{a: a}
}

// Next advances the smoother toward target by one sample and returns the
// new value.
func (s *Smoother) Next(target float32) float32 {
	if !s.set {
		s.z = target
		s.set = true
		return s.z
	}
	s.z = (1-s.a)*target + s.a*s.z
	return s.z
}
