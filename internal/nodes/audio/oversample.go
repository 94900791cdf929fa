package audio

import (
	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
)

// halfbandTaps is a short half-band-style FIR used for both the 2x upsample
// (zero-stuff + lowpass) and the matching 2x downsample (lowpass +
// decimate) stages of Oversampler.
var halfbandTaps = []float32{
	-0.0083, 0, 0.0630, 0.1264, 0.1827, 0.25, 0.1827, 0.1264, 0.0630, 0, -0.0083,
}

// Oversampler wraps a child node, running it at 2x the outer context's
// sample rate and block size. Precondition: the child's audio-out arity
// equals its audio-in arity.
//
// Every buffer Process touches is allocated once in NewOversampler and
// reused every block: the one-element [][]float32 views handed to the
// internal FIR stages, the doubled-rate scratch, and the child's
// input/output views are all struct fields, never built inline.
type Oversampler struct {
	node.NopHandleMsg
	ports *node.Ports
	child node.Node

	upState   []*FIR
	downState []*FIR

	upBuf     [][]float32 // zero-stuffed + lowpassed input, per channel
	upBufOne  [][][]float32
	childIn   [][]float32
	childOut  [][]float32
	childInV  [][]float32
	childOutV [][]float32
	downOne   [][][]float32
}

// NewOversampler wraps child, whose port arities match on the audio side.
// blockSize is the OUTER (1x) block size the oversampler will be driven
// with; doubling happens internally per block.
func NewOversampler(child node.Node, blockSize int) *Oversampler {
	inArity := len(child.Ports().AudioIn)
	outArity := len(child.Ports().AudioOut)
	if inArity != outArity {
		panic("oversampler: child audio-in/audio-out arity must match")
	}

	doubled := blockSize * 2

	up := make([]*FIR, inArity)
	down := make([]*FIR, outArity)
	upBuf := make([][]float32, inArity)
	childIn := make([][]float32, inArity)
	childOut := make([][]float32, outArity)
	upBufOne := make([][][]float32, inArity)
	downOne := make([][][]float32, outArity)
	downScratch := make([][]float32, outArity)

	for i := range up {
		up[i] = NewFIR(halfbandTaps)
		upBuf[i] = make([]float32, doubled)
		childIn[i] = make([]float32, doubled)
		upBufOne[i] = [][]float32{upBuf[i]}
	}
	for i := range down {
		down[i] = NewFIR(halfbandTaps)
		childOut[i] = make([]float32, doubled)
		downScratch[i] = make([]float32, doubled)
		downOne[i] = [][]float32{downScratch[i]}
	}

	o := &Oversampler{
		ports:     node.NewPortsBuilder().AudioIn(inArity).AudioOut(outArity).Build(),
		child:     child,
		upState:   up,
		downState: down,
		upBuf:     upBuf,
		upBufOne:  upBufOne,
		childIn:   childIn,
		childOut:  childOut,
		childInV:  make([][]float32, inArity),
		childOutV: make([][]float32, outArity),
		downOne:   downOne,
	}
	for i := range childIn {
		o.childInV[i] = childIn[i]
	}
	for i := range childOut {
		o.childOutV[i] = childOut[i]
	}
	return o
}

func (o *Oversampler) Ports() *node.Ports { return o.ports }

func (o *Oversampler) Process(ctx *context.Context, inputs, outputs [][]float32) {
	outerSR := ctx.SampleRate()
	outerBS := ctx.BlockSize()

	// Upsample each input 2x: zero-stuff into childIn, lowpass in place via
	// the half-band FIR (reading the zero-stuffed childIn, writing upBuf,
	// then using upBuf as the actual child input).
	for c, in := range inputs {
		dst := o.childIn[c]
		for i := 0; i < outerBS; i++ {
			var x float32
			if in != nil {
				x = in[i]
			}
			dst[2*i] = x * 2
			dst[2*i+1] = 0
		}
		o.upState[c].Process(ctx, o.childInV[c:c+1], o.upBufOne[c])
	}
	for c := range o.childIn {
		copy(o.childIn[c], o.upBuf[c])
	}

	ctx.SetSampleRate(outerSR * 2)
	ctx.SetBlockSize(outerBS * 2)
	o.child.Process(ctx, o.childInV, o.childOutV)
	ctx.SetSampleRate(outerSR)
	ctx.SetBlockSize(outerBS)

	// Downsample each output 2x: lowpass then decimate (keep even samples).
	for c := range outputs {
		o.downState[c].Process(ctx, o.childOutV[c:c+1], o.downOne[c])
		filtered := o.downOne[c][0]
		out := outputs[c]
		for i := range out {
			out[i] = filtered[2*i]
		}
	}
}
