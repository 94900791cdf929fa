package runtime

import (
	"math"
	"testing"

	"github.com/legato-dsp/legato/internal/builder"
	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/midi"
	"github.com/legato-dsp/legato/internal/nodes/audio"
	"github.com/legato-dsp/legato/internal/nodes/control"
	"github.com/legato-dsp/legato/internal/params"
	"github.com/legato-dsp/legato/internal/sample"
)

// newRuntime finalizes a builder into a running Runtime with default
// MIDI/message plumbing.
func newRuntime(t *testing.T, b *builder.GraphBuilder, sr, blockSize, channels int) *Runtime {
	t.Helper()
	res, err := b.Resources().Build(blockSize)
	if err != nil {
		t.Fatalf("Build resources: %v", err)
	}
	cfg := context.Config{SampleRate: sr, Block: context.BlockSize(blockSize), Channels: channels, ControlToAudioRatio: 32}
	if err := cfg.Validate(4); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	sink, err := b.Sink()
	if err != nil {
		t.Fatalf("Sink: %v", err)
	}
	source, hasSource := b.Source()
	rt, err := New(cfg, b.Graph(), res, midi.NewStore(64), params.NewQueue(256), sink, source, hasSource)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rt
}

func TestSamplerGraphStreamsPublishedSample(t *testing.T) {
	blockSize := 1024
	b := builder.New(blockSize)
	sk, err := b.RegisterSample("s")
	if err != nil {
		t.Fatalf("RegisterSample: %v", err)
	}
	sampler := b.AddNode(audio.NewSampler(sk, 2, true))
	b.SetSink(sampler)

	res, err := b.Resources().Build(blockSize)
	if err != nil {
		t.Fatalf("Build resources: %v", err)
	}
	ch0 := make([]float32, 10000)
	ch1 := make([]float32, 10000)
	for i := range ch0 {
		ch0[i] = float32(i + 1)
		ch1[i] = -float32(i + 1)
	}
	as, err := sample.NewAudioSample([][]float32{ch0, ch1})
	if err != nil {
		t.Fatalf("NewAudioSample: %v", err)
	}
	res.GetSample(sk).Publish(as)

	cfg := context.Config{SampleRate: 48000, Block: context.BlockSize(blockSize), Channels: 2, ControlToAudioRatio: 32}
	sink, _ := b.Sink()
	source, hasSource := b.Source()
	rt, err := New(cfg, b.Graph(), res, midi.NewStore(64), params.NewQueue(256), sink, source, hasSource)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := rt.NextBlock(nil)
	if err != nil {
		t.Fatalf("NextBlock: %v", err)
	}
	if out[0][0] != 1 || out[0][blockSize-1] != float32(blockSize) {
		t.Fatalf("block 1 channel 0 = [%v .. %v], want [1 .. %v]", out[0][0], out[0][blockSize-1], blockSize)
	}
	if out[1][0] != -1 {
		t.Fatalf("block 1 channel 1 starts at %v, want -1", out[1][0])
	}

	out, err = rt.NextBlock(nil)
	if err != nil {
		t.Fatalf("NextBlock: %v", err)
	}
	if out[0][0] != float32(blockSize+1) {
		t.Fatalf("block 2 channel 0 starts at %v, want %v", out[0][0], blockSize+1)
	}
}

func TestDelayRoundTripThroughGraph(t *testing.T) {
	blockSize := 128
	sr := 48000
	delaySamples := 480

	b := builder.New(blockSize)
	dk, err := b.RegisterDelay("a", 1, 8192)
	if err != nil {
		t.Fatalf("RegisterDelay: %v", err)
	}
	src := b.AddNode(audio.NewFIR([]float32{1})) // identity passthrough for external input
	dw := b.AddNode(audio.NewDelayWrite(dk, 1, blockSize))
	dr := b.AddNode(audio.NewDelayRead(dk, []float32{float32(delaySamples) / float32(sr)}, false))
	if err := b.AddEdge(src, 0, dw, 0); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	b.SetSource(src)
	b.SetSink(dr)

	rt := newRuntime(t, b, sr, blockSize, 1)

	numBlocks := 6
	rendered := make([]float32, 0, numBlocks*blockSize)
	ext := make([]float32, blockSize)
	ext[0] = 1
	for blk := 0; blk < numBlocks; blk++ {
		out, err := rt.NextBlock([][]float32{ext})
		if err != nil {
			t.Fatalf("NextBlock: %v", err)
		}
		rendered = append(rendered, out[0]...)
		ext[0] = 0
	}

	// The impulse must come back exactly once, at the configured delay (give
	// or take one sample for the end-of-block read convention), and the rest
	// of the output must stay silent.
	peakIdx, peak := -1, float32(0)
	for i, v := range rendered {
		if v > peak {
			peak, peakIdx = v, i
		}
	}
	if peak < 0.9 {
		t.Fatalf("delayed impulse peak = %v, want >= 0.9", peak)
	}
	if peakIdx != delaySamples && peakIdx != delaySamples+1 {
		t.Fatalf("delayed impulse arrived at sample %d, want %d (or %d)", peakIdx, delaySamples, delaySamples+1)
	}
	for i, v := range rendered {
		if i >= peakIdx-1 && i <= peakIdx+1 {
			continue
		}
		if math.Abs(float64(v)) > 0.01 {
			t.Fatalf("unexpected energy at sample %d: %v", i, v)
		}
	}
}

func TestFMCarrierSweepsAroundBaseFrequency(t *testing.T) {
	blockSize := 1024
	sr := 48000

	b := builder.New(blockSize)
	mod := b.AddNode(audio.NewSine(1))
	rng := b.AddNode(control.NewMap(-1, 1, 430, 450))
	carrier := b.AddNode(audio.NewSine(440))
	if err := b.AddEdge(mod, 0, rng, 0); err != nil {
		t.Fatalf("AddEdge mod->map: %v", err)
	}
	if err := b.AddEdge(rng, 0, carrier, 0); err != nil {
		t.Fatalf("AddEdge map->carrier: %v", err)
	}
	b.SetSink(carrier)

	rt := newRuntime(t, b, sr, blockSize, 1)

	numBlocks := 47 // just over one second
	var sumSq float64
	crossings := 0
	var prev float32
	total := 0
	for blk := 0; blk < numBlocks; blk++ {
		out, err := rt.NextBlock(nil)
		if err != nil {
			t.Fatalf("NextBlock: %v", err)
		}
		for _, v := range out[0] {
			sumSq += float64(v) * float64(v)
			if (prev < 0 && v >= 0) || (prev >= 0 && v < 0) {
				crossings++
			}
			prev = v
			total++
		}
	}

	rms := math.Sqrt(sumSq / float64(total))
	if math.Abs(rms-1/math.Sqrt2) > 0.05 {
		t.Fatalf("FM carrier RMS = %v, want ~%v", rms, 1/math.Sqrt2)
	}

	// 440 Hz average instantaneous frequency over ~1.003 s gives ~882 full
	// zero crossings.
	seconds := float64(total) / float64(sr)
	wantCrossings := 2 * 440 * seconds
	if math.Abs(float64(crossings)-wantCrossings) > 15 {
		t.Fatalf("zero crossings = %d over %.3fs, want ~%.0f", crossings, seconds, wantCrossings)
	}
}

func TestFanInCancellationOfInvertedSignal(t *testing.T) {
	blockSize := 1024
	sr := 48000

	b := builder.New(blockSize)
	osc := b.AddNode(audio.NewSine(440))
	inv := b.AddNode(control.NewMap(-2, 2, 2, -2)) // exact negation, headroom avoids the clamp
	bus := b.AddNode(audio.NewFIR([]float32{1}))
	if err := b.AddEdge(osc, 0, bus, 0); err != nil {
		t.Fatalf("AddEdge osc->bus: %v", err)
	}
	if err := b.AddEdge(osc, 0, inv, 0); err != nil {
		t.Fatalf("AddEdge osc->inv: %v", err)
	}
	if err := b.AddEdge(inv, 0, bus, 0); err != nil {
		t.Fatalf("AddEdge inv->bus: %v", err)
	}
	b.SetSink(bus)

	rt := newRuntime(t, b, sr, blockSize, 1)

	var sumSq float64
	total := 0
	for blk := 0; blk < 10; blk++ {
		out, err := rt.NextBlock(nil)
		if err != nil {
			t.Fatalf("NextBlock: %v", err)
		}
		for _, v := range out[0] {
			sumSq += float64(v) * float64(v)
			total++
		}
	}
	rms := math.Sqrt(sumSq / float64(total))
	if rms > 1e-6 {
		t.Fatalf("destructive fan-in RMS = %v, want <= 1e-6", rms)
	}
}
