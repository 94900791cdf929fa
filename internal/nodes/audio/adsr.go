package audio

import (
	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
)

// gateThreshold is the level above which the gate input is considered high.
const gateThreshold = 0.5

type adsrStage int

const (
	adsrIdle adsrStage = iota
	adsrAttack
	adsrDecay
	adsrSustain
	adsrRelease
)

// ADSR is a four-stage envelope generator driven by a gate signal on its
// single audio-in port. Attack and decay run at a fixed rate derived from
// their configured durations, so a retrigger mid-attack rejoins the same
// curve without a slope discontinuity.
// Release always takes exactly its configured duration regardless of the
// level it starts from: its rate is recomputed at the instant the gate
// falls, scaled to the level at that instant.
type ADSR struct {
	node.NopHandleMsg
	ports *node.Ports

	attackMs, decayMs, releaseMs float32
	sustain                      float32

	stage       adsrStage
	level       float32
	prevGate    bool
	releaseRate float32
}

// NewADSR builds an envelope with the given stage durations (milliseconds)
// and sustain level (0..1).
func NewADSR(attackMs, decayMs, sustain, releaseMs float32) *ADSR {
	return &ADSR{
		ports:     node.NewPortsBuilder().AudioInNamed("gate").AudioOutNamed("out").Build(),
		attackMs:  attackMs,
		decayMs:   decayMs,
		sustain:   sustain,
		releaseMs: releaseMs,
	}
}

func (a *ADSR) Ports() *node.Ports { return a.ports }

func msToSamples(ms float32, sr int) float32 {
	s := ms * float32(sr) / 1000
	if s < 1 {
		s = 1
	}
	return s
}

func (a *ADSR) Process(ctx *context.Context, inputs, outputs [][]float32) {
	out := outputs[0]
	gate := inputs[0]
	sr := ctx.SampleRate()

	attackRate := 1 / msToSamples(a.attackMs, sr)
	decayRate := (1 - a.sustain) / msToSamples(a.decayMs, sr)
	releaseSamples := msToSamples(a.releaseMs, sr)

	for i := range out {
		var g bool
		if gate != nil {
			g = gate[i] >= gateThreshold
		}
		rising := g && !a.prevGate
		falling := !g && a.prevGate
		a.prevGate = g

		switch a.stage {
		case adsrIdle:
			if rising {
				a.stage = adsrAttack
			}
		case adsrAttack, adsrDecay, adsrSustain:
			if falling {
				a.stage = adsrRelease
				a.releaseRate = a.level / releaseSamples
			}
		case adsrRelease:
			if rising {
				a.stage = adsrAttack
			}
		}

		switch a.stage {
		case adsrIdle:
			a.level = 0
		case adsrAttack:
			a.level += attackRate
			if a.level >= 1 {
				a.level = 1
				a.stage = adsrDecay
			}
		case adsrDecay:
			a.level -= decayRate
			if a.level <= a.sustain {
				a.level = a.sustain
				a.stage = adsrSustain
			}
		case adsrSustain:
			a.level = a.sustain
		case adsrRelease:
			a.level -= a.releaseRate
			if a.level <= 0 {
				a.level = 0
				a.stage = adsrIdle
			}
		}

		out[i] = a.level
	}
}
