package audio

import (
	"math"

	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
)

// MonoFanout broadcasts a single input channel to n output channels scaled
// by 1/sqrt(n) (equal-power), the fixed default gain used for
// arity-mismatch auto-connections.
type MonoFanout struct {
	node.NopHandleMsg
	ports *node.Ports
	gain  float32
}

// NewMonoFanout builds a 1->n fan-out node.
func NewMonoFanout(n int) *MonoFanout {
	return &MonoFanout{
		ports: node.NewPortsBuilder().AudioIn(1).AudioOut(n).Build(),
		gain:  float32(1 / math.Sqrt(float64(n))),
	}
}

func (m *MonoFanout) Ports() *node.Ports { return m.ports }

func (m *MonoFanout) Process(ctx *context.Context, inputs, outputs [][]float32) {
	in := inputs[0]
	for c := range outputs {
		out := outputs[c]
		if in == nil {
			for i := range out {
				out[i] = 0
			}
			continue
		}
		for i := range out {
			out[i] = in[i] * m.gain
		}
	}
}

// NMono sums n input channels down to a single output channel, each scaled
// by 1/sqrt(n) (equal-power), the N-to-mono counterpart MonoFanout's
// auto-connection inverse uses.
type NMono struct {
	node.NopHandleMsg
	ports *node.Ports
	gain  float32
}

// NewNMono builds an n->1 mixdown node.
func NewNMono(n int) *NMono {
	return &NMono{
		ports: node.NewPortsBuilder().AudioIn(n).AudioOut(1).Build(),
		gain:  float32(1 / math.Sqrt(float64(n))),
	}
}

func (m *NMono) Ports() *node.Ports { return m.ports }

func (m *NMono) Process(ctx *context.Context, inputs, outputs [][]float32) {
	out := outputs[0]
	for i := range out {
		out[i] = 0
	}
	for _, in := range inputs {
		if in == nil {
			continue
		}
		for i := range out {
			out[i] += in[i] * m.gain
		}
	}
}
