package context

import (
	"testing"

	"github.com/legato-dsp/legato/internal/resources"
)

func TestConfigValidate(t *testing.T) {
	cfg := Config{SampleRate: 48000, Block: Block128, Channels: 2, ControlToAudioRatio: 32}
	if err := cfg.Validate(4); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := cfg
	bad.Block = 130
	if err := bad.Validate(4); err == nil {
		t.Fatalf("expected error for block size not a multiple of lane width")
	}
}

func TestOversamplerHackRestoresOnExit(t *testing.T) {
	res, err := resources.NewBuilder().Build(128)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cfg := Config{SampleRate: 48000, Block: Block128, Channels: 1, ControlToAudioRatio: 32}
	ctx := New(cfg, res, nil)

	origSR, origBS := ctx.SampleRate(), ctx.BlockSize()
	ctx.SetSampleRate(origSR * 2)
	ctx.SetBlockSize(origBS * 2)
	if ctx.SampleRate() != origSR*2 || ctx.BlockSize() != origBS*2 {
		t.Fatalf("context mutation did not take effect")
	}
	ctx.SetSampleRate(origSR)
	ctx.SetBlockSize(origBS)
	if ctx.SampleRate() != origSR || ctx.BlockSize() != origBS {
		t.Fatalf("context mutation was not restored")
	}
}
