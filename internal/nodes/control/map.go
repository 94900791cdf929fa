// Package control implements control-rate node types: a range remapper
// for translating a bipolar modulator into an arbitrary target range, and
// a free-running phasor LFO driver.
package control

import (
	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
)

// Map linearly remaps its input from [oldLo, oldHi] to [newLo, newHi],
// clamping the result to the output range: y = newLo + (x-oldLo) *
// (newHi-newLo)/(oldHi-oldLo). Typical use is scaling a bipolar oscillator
// into a frequency range, e.g. [-1,1] -> [430,450] for vibrato.
type Map struct {
	node.NopHandleMsg
	ports *node.Ports

	oldLo, oldHi float32
	newLo, newHi float32
}

// NewMap builds a remapper from [oldLo, oldHi] to [newLo, newHi].
func NewMap(oldLo, oldHi, newLo, newHi float32) *Map {
	return &Map{
		ports: node.NewPortsBuilder().AudioInNamed("in").AudioOutNamed("out").Build(),
		oldLo: oldLo, oldHi: oldHi,
		newLo: newLo, newHi: newHi,
	}
}

func (m *Map) Ports() *node.Ports { return m.ports }

func (m *Map) Process(ctx *context.Context, inputs, outputs [][]float32) {
	in := inputs[0]
	out := outputs[0]
	span := m.oldHi - m.oldLo
	for i := range out {
		var x float32
		if in != nil {
			x = in[i]
		}
		var t float32
		if span != 0 {
			t = (x - m.oldLo) / span
		}
		y := m.newLo + t*(m.newHi-m.newLo)
		lo, hi := m.newLo, m.newHi
		if lo > hi {
			lo, hi = hi, lo
		}
		if y < lo {
			y = lo
		} else if y > hi {
			y = hi
		}
		out[i] = y
	}
}
