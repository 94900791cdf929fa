package audio

import (
	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
	"github.com/legato-dsp/legato/internal/ring"
)

// FIR is a direct-form FIR filter: push the input sample into a ring buffer
// of past samples, then dot it against the coefficient vector using the
// lane-wide chunk read for the bulk of the sum and a scalar tail for the
// remainder.
type FIR struct {
	node.NopHandleMsg
	ports  *node.Ports
	coeffs []float32
	state  *ring.Buffer
}

// NewFIR builds an FIR node with the given coefficient vector (coeffs[0] is
// applied to the most recent sample).
func NewFIR(coeffs []float32) *FIR {
	capacity := len(coeffs) + ring.Lanes
	return &FIR{
		ports:  node.NewPortsBuilder().AudioIn(1).AudioOut(1).Build(),
		coeffs: append([]float32(nil), coeffs...),
		state:  ring.New(capacity),
	}
}

func (f *FIR) Ports() *node.Ports { return f.ports }

func (f *FIR) Process(ctx *context.Context, inputs, outputs [][]float32) {
	in := inputs[0]
	out := outputs[0]
	n := len(f.coeffs)
	full := n - n%ring.Lanes

	for i := range out {
		var x float32
		if in != nil {
			x = in[i]
		}
		f.state.Push(x)

		var acc float32
		k := 0
		for ; k < full; k += ring.Lanes {
			chunk := f.state.ChunkByOffset(k)
			for l := 0; l < ring.Lanes; l++ {
				acc += f.coeffs[k+l] * chunk[l]
			}
		}
		for ; k < n; k++ {
			acc += f.coeffs[k] * f.state.Offset(k)
		}
		out[i] = acc
	}
}
