package control

import (
	"math"

	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
)

// Phasor is a free-running [0,1) ramp at the configured control rate
// (sample rate / Context's control-to-audio ratio), a cheap LFO driver for
// Map.
type Phasor struct {
	node.NopHandleMsg
	ports *node.Ports
	freq  float32
	phase float32
}

// NewPhasor builds a phasor at the given frequency in Hz.
func NewPhasor(freq float32) *Phasor {
	return &Phasor{
		ports: node.NewPortsBuilder().AudioOutNamed("out").Build(),
		freq:  freq,
	}
}

func (p *Phasor) Ports() *node.Ports { return p.ports }

func (p *Phasor) Process(ctx *context.Context, inputs, outputs [][]float32) {
	out := outputs[0]
	controlSR := float32(ctx.SampleRate()) / float32(ctx.Config().ControlToAudioRatio)
	inc := p.freq / controlSR
	phase := p.phase
	for i := range out {
		out[i] = phase
		phase += inc
		phase -= float32(math.Floor(float64(phase)))
	}
	p.phase = phase
}
