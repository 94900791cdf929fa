package audio

import (
	"math"

	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
)

// SVFType selects which output mix the state-variable filter computes.
// Variable names throughout this file (a1/a2/a3, v1/v2/v3, ic1/ic2, m0/m1/m2)
// mirror the Chamberlin/TPT recurrence directly.
type SVFType int

const (
	SVFLow SVFType = iota
	SVFBand
	SVFHigh
	SVFNotch
	SVFPeak
	SVFAllPass
	SVFBell
	SVFLowShelf
	SVFHighShelf
)

// svfEpsilon bounds how much the cutoff input must move before coefficients
// are recomputed.
const svfEpsilon = 1e-3

// SVF is a Chamberlin/TPT-topology state-variable filter with a second,
// optional audio-rate "cutoff" input for coefficient modulation.
type SVF struct {
	node.NopHandleMsg
	ports *node.Ports

	kind       SVFType
	cutoff     float32
	q          float32
	gainDB     float32
	lastCutoff float32
	coeffsSet  bool

	a1, a2, a3 float32
	m0, m1, m2 float32

	ic1, ic2 float32
}

// NewSVF builds a filter of the given type with initial cutoff (Hz),
// resonance Q, and (for Bell/LowShelf/HighShelf only) gain in dB.
func NewSVF(kind SVFType, cutoff, q, gainDB float32) *SVF {
	return &SVF{
		ports:  node.NewPortsBuilder().AudioInNamed("in").AudioInNamed("cutoff").AudioOutNamed("out").Build(),
		kind:   kind,
		cutoff: cutoff,
		q:      q,
		gainDB: gainDB,
	}
}

func (f *SVF) Ports() *node.Ports { return f.ports }

// recompute derives a1/a2/a3/m0/m1/m2 for the given cutoff (Hz) and the
// filter's sample rate, clamping cutoff to [1, 0.49*sr].
func (f *SVF) recompute(cutoff float32, sr float32) {
	maxCutoff := 0.49 * sr
	if cutoff < 1 {
		cutoff = 1
	} else if cutoff > maxCutoff {
		cutoff = maxCutoff
	}
	f.lastCutoff = cutoff

	k := 1 / f.q
	omega := float64(math.Pi) * float64(cutoff) / float64(sr)
	g := float32(math.Tan(omega))

	switch f.kind {
	case SVFBell:
		a := dbToAmp(f.gainDB)
		k = 1 / (f.q * a)
		f.a1 = 1 / (1 + g*(g+k))
		f.a2 = g * f.a1
		f.a3 = g * f.a2
		f.m0, f.m1, f.m2 = 1, k*(a*a-1), 0
	case SVFLowShelf:
		a := dbToAmp(f.gainDB)
		g = g / sqrt32(a)
		f.a1 = 1 / (1 + g*(g+k))
		f.a2 = g * f.a1
		f.a3 = g * f.a2
		f.m0, f.m1, f.m2 = 1, k*(a-1), a*a-1
	case SVFHighShelf:
		a := dbToAmp(f.gainDB)
		g = g * sqrt32(a)
		f.a1 = 1 / (1 + g*(g+k))
		f.a2 = g * f.a1
		f.a3 = g * f.a2
		f.m0, f.m1, f.m2 = a*a, k*(1-a)*a, 1-a*a
	default:
		f.a1 = 1 / (1 + g*(g+k))
		f.a2 = g * f.a1
		f.a3 = g * f.a2
		switch f.kind {
		case SVFLow:
			f.m0, f.m1, f.m2 = 0, 0, 1
		case SVFBand:
			f.m0, f.m1, f.m2 = 0, 1, 0
		case SVFHigh:
			f.m0, f.m1, f.m2 = 1, -k, -1
		case SVFNotch:
			f.m0, f.m1, f.m2 = 1, -k, 0
		case SVFPeak:
			f.m0, f.m1, f.m2 = 1, -k, -2
		case SVFAllPass:
			f.m0, f.m1, f.m2 = 1, -2*k, 0
		}
	}
	f.coeffsSet = true
}

func dbToAmp(db float32) float32 {
	return float32(math.Pow(10, float64(db)/40))
}

func sqrt32(x float32) float32 { return float32(math.Sqrt(float64(x))) }

func (f *SVF) Process(ctx *context.Context, inputs, outputs [][]float32) {
	in := inputs[0]
	cutoffIn := inputs[1]
	out := outputs[0]
	sr := float32(ctx.SampleRate())

	if !f.coeffsSet {
		f.recompute(f.cutoff, sr)
	}

	for i := range out {
		var x float32
		if in != nil {
			x = in[i]
		}

		if cutoffIn != nil {
			c := cutoffIn[i]
			if absf32(c-f.lastCutoff) > svfEpsilon {
				f.recompute(c, sr)
			}
		}

		v0 := x
		v3 := v0 - f.ic2
		v1 := f.a1*f.ic1 + f.a2*v3
		v2 := f.ic2 + f.a2*f.ic1 + f.a3*v3
		f.ic1 = 2*v1 - f.ic1
		f.ic2 = 2*v2 - f.ic2

		out[i] = f.m0*v0 + f.m1*v1 + f.m2*v2
	}
}

func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
