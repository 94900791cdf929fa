package runtime

import (
	"math"
	"testing"

	"github.com/legato-dsp/legato/internal/builder"
	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/midi"
	"github.com/legato-dsp/legato/internal/node"
	"github.com/legato-dsp/legato/internal/nodes/audio"
	"github.com/legato-dsp/legato/internal/params"
)

func TestRuntimeNextBlockProducesSinkOutput(t *testing.T) {
	blockSize := 256
	sr := 48000

	b := builder.New(blockSize)
	osc := b.AddNode(audio.NewSine(440))
	b.SetSink(osc)

	res, err := b.Resources().Build(blockSize)
	if err != nil {
		t.Fatalf("Build resources: %v", err)
	}
	cfg := context.Config{SampleRate: sr, Block: context.BlockSize(blockSize), Channels: 1, ControlToAudioRatio: 32}
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

	out, err := rt.NextBlock(nil)
	if err != nil {
		t.Fatalf("NextBlock: %v", err)
	}
	if len(out) != 1 || len(out[0]) != blockSize {
		t.Fatalf("unexpected sink output shape: %d channels, %d samples", len(out), len(out[0]))
	}
	var sumSq float64
	for _, v := range out[0] {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		t.Fatalf("sink output should be nonzero for a free-running oscillator")
	}
}

func TestRuntimeSendMessageAppliedBeforeNextBlockProcesses(t *testing.T) {
	blockSize := 64
	sr := 48000

	b := builder.New(blockSize)
	mixer := b.AddNode(audio.NewTrackMixer(1, 1))
	osc := b.AddNode(audio.NewSine(440))
	if err := b.AddEdge(osc, 0, mixer, 0); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	b.SetSink(mixer)

	res, err := b.Resources().Build(blockSize)
	if err != nil {
		t.Fatalf("Build resources: %v", err)
	}
	cfg := context.Config{SampleRate: sr, Block: context.BlockSize(blockSize), Channels: 1, ControlToAudioRatio: 32}

	sink, _ := b.Sink()
	_, hasSource := b.Source()
	rt, err := New(cfg, b.Graph(), res, midi.NewStore(64), params.NewQueue(256), sink, sink, hasSource)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rt.SendMessage(mixer, node.Msg{Param: "gain0", Value: 0})
	out1, err := rt.NextBlock(nil)
	if err != nil {
		t.Fatalf("NextBlock: %v", err)
	}
	var maxAbs float32
	for _, v := range out1[0] {
		if a := float32(math.Abs(float64(v))); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs != 0 {
		t.Fatalf("gain0=0 should mute the mixer output entirely, max abs = %v", maxAbs)
	}
}
