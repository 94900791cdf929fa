package audio

import (
	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
	"github.com/legato-dsp/legato/internal/resources"
)

// DelayWrite is a pure side-effect node: it writes its whole input block to
// a delay line resource and zeroes its nominal audio-out.
type DelayWrite struct {
	node.NopHandleMsg
	ports *node.Ports
	key   resources.DelayLineKey
	chans int

	// silence and frames are pre-allocated scratch reused every block so
	// Process never allocates: silence stands in for an unconnected input
	// channel, frames is the per-channel view handed to DelayWriteBlock.
	silence []float32
	frames  [][]float32
}

// NewDelayWrite builds a delay-write node targeting the named delay line's
// key, with chans input/output channels.
func NewDelayWrite(key resources.DelayLineKey, chans int, blockSize int) *DelayWrite {
	return &DelayWrite{
		ports:   node.NewPortsBuilder().AudioIn(chans).AudioOut(chans).Build(),
		key:     key,
		chans:   chans,
		silence: make([]float32, blockSize),
		frames:  make([][]float32, chans),
	}
}

func (d *DelayWrite) Ports() *node.Ports { return d.ports }

func (d *DelayWrite) Process(ctx *context.Context, inputs, outputs [][]float32) {
	for c := 0; c < d.chans; c++ {
		if inputs[c] != nil {
			d.frames[c] = inputs[c]
		} else {
			d.frames[c] = d.silence
		}
	}
	_ = ctx.Resources().DelayWriteBlock(d.key, d.frames)

	for c := range outputs {
		out := outputs[c]
		for i := range out {
			out[i] = 0
		}
	}
}

// DelayRead emits per-channel delayed samples from a delay line resource.
// Per-channel delay times (seconds) are fixed at construction. The read
// offset per lane within a block is delayTime*sr + (blockSize-sampleIndex),
// so the delay reported corresponds to the block's *end* for that lane.
type DelayRead struct {
	node.NopHandleMsg
	ports      *node.Ports
	key        resources.DelayLineKey
	delaySec   []float32
	cubic      bool
}

// NewDelayRead builds a delay-read node with one delay time (seconds) per
// channel. cubic selects cubic Hermite interpolation over linear.
func NewDelayRead(key resources.DelayLineKey, delaySec []float32, cubic bool) *DelayRead {
	return &DelayRead{
		ports:    node.NewPortsBuilder().AudioOut(len(delaySec)).Build(),
		key:      key,
		delaySec: append([]float32(nil), delaySec...),
		cubic:    cubic,
	}
}

func (d *DelayRead) Ports() *node.Ports { return d.ports }

func (d *DelayRead) Process(ctx *context.Context, inputs, outputs [][]float32) {
	sr := float32(ctx.SampleRate())
	bs := ctx.BlockSize()
	res := ctx.Resources()

	for c, out := range outputs {
		delaySamples := d.delaySec[c] * sr
		for i := range out {
			off := delaySamples + float32(bs-i)
			if d.cubic {
				out[i] = res.GetDelayCubicInterp(d.key, c, off)
			} else {
				out[i] = res.GetDelayLinearInterp(d.key, c, off)
			}
		}
	}
}
