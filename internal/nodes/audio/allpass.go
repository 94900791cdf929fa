package audio

import (
	"math"

	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
)

// Allpass is a standalone one-pole allpass, the standard cheap phase-only
// shaping filter: y[n] = -a*x[n] + x[n-1] + a*y[n-1], consistent with the
// SVF node's own allpass output mode.
type Allpass struct {
	node.NopHandleMsg
	ports *node.Ports

	cutoff   float32
	a        float32
	coeffSet bool

	xz, yz float32
}

// NewAllpass builds a one-pole allpass with initial cutoff (Hz), which sets
// the filter's center frequency of maximum group delay.
func NewAllpass(cutoff float32) *Allpass {
	return &Allpass{
		ports:  node.NewPortsBuilder().AudioInNamed("in").AudioInNamed("cutoff").AudioOutNamed("out").Build(),
		cutoff: cutoff,
	}
}

func (p *Allpass) Ports() *node.Ports { return p.ports }

func (p *Allpass) recompute(cutoff float32, sr float32) {
	maxCutoff := 0.49 * sr
	if cutoff < 1 {
		cutoff = 1
	} else if cutoff > maxCutoff {
		cutoff = maxCutoff
	}
	p.cutoff = cutoff
	tanw := math.Tan(math.Pi * float64(cutoff) / float64(sr))
	p.a = float32((tanw - 1) / (tanw + 1))
	p.coeffSet = true
}

func (p *Allpass) Process(ctx *context.Context, inputs, outputs [][]float32) {
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

		y := -p.a*x + p.xz + p.a*p.yz
		p.xz = x
		p.yz = y
		out[i] = y
	}
}
