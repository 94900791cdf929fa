// Package context implements the per-block audio context: the
// configuration, resources, and timing state passed by reference into
// every node's process call. (Unrelated to the standard library's
// context.Context; this is a DSP scheduling context.)
package context

import (
	"fmt"
	"time"

	"github.com/legato-dsp/legato/internal/midi"
	"github.com/legato-dsp/legato/internal/resources"
)

// BlockSize enumerates the legal RT block sizes: fixed power-of-two
// choices, every one a multiple of the largest lane width this module
// supports (see internal/ring.Lanes).
type BlockSize int

const (
	Block64   BlockSize = 64
	Block128  BlockSize = 128
	Block256  BlockSize = 256
	Block512  BlockSize = 512
	Block1024 BlockSize = 1024
	Block2048 BlockSize = 2048
	Block4096 BlockSize = 4096
)

// Config is the engine-wide, build-time configuration.
type Config struct {
	SampleRate          int
	Block               BlockSize
	Channels            int
	ControlToAudioRatio int // control rate = sample rate / ControlToAudioRatio
}

// Validate checks the invariants the numeric policy requires: block
// size (and therefore every per-channel buffer size derived from it) must
// be a multiple of the lane width.
func (c Config) Validate(lanes int) error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("context: sample rate must be positive, got %d", c.SampleRate)
	}
	if int(c.Block)%lanes != 0 {
		return fmt.Errorf("context: block size %d must be a multiple of lane width %d", c.Block, lanes)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("context: channel count must be positive, got %d", c.Channels)
	}
	if c.ControlToAudioRatio <= 0 {
		return fmt.Errorf("context: control-to-audio ratio must be positive, got %d", c.ControlToAudioRatio)
	}
	return nil
}

// Context is the per-runtime state passed into every node's Process call.
// Its lifetime is coincident with the runtime; only the executor mutates it
// between node invocations (block-start timestamp, and the oversampler's
// documented sample-rate/block-size hack, see SetSampleRate/SetBlockSize).
type Context struct {
	cfg Config

	// sampleRate and blockSize start out equal to cfg.SampleRate and
	// int(cfg.Block) but may be temporarily rewritten by an oversampler
	// node wrapping a child subgraph; the same node restores them before
	// returning.
	sampleRate int
	blockSize  int

	resources *resources.Resources
	midi      *midi.Store

	blockStart time.Duration
}

// New builds a Context for the given configuration and resources. midiStore
// may be nil if the graph has no MIDI-driven nodes.
func New(cfg Config, res *resources.Resources, midiStore *midi.Store) *Context {
	return &Context{
		cfg:        cfg,
		sampleRate: cfg.SampleRate,
		blockSize:  int(cfg.Block),
		resources:  res,
		midi:       midiStore,
	}
}

// Config returns the build-time configuration.
func (c *Context) Config() Config { return c.cfg }

// SampleRate returns the current sample rate (may be temporarily doubled
// inside an oversampler's child invocation).
func (c *Context) SampleRate() int { return c.sampleRate }

// BlockSize returns the current block size (may be temporarily doubled
// inside an oversampler's child invocation).
func (c *Context) BlockSize() int { return c.blockSize }

// Resources returns the resource store.
func (c *Context) Resources() *resources.Resources { return c.resources }

// MIDI returns the MIDI store, or nil if none was configured.
func (c *Context) MIDI() *midi.Store { return c.midi }

// BlockStart returns the timestamp of the current block's first sample.
func (c *Context) BlockStart() time.Duration { return c.blockStart }

// SetBlockStart overwrites the block-start timestamp with t. The executor
// does not call it; it advances the timestamp with AdvanceBlockStart.
func (c *Context) SetBlockStart(t time.Duration) { c.blockStart = t }

// AdvanceBlockStart moves the block-start instant forward by one block's
// worth of time at the *current* sample rate.
func (c *Context) AdvanceBlockStart() {
	dur := time.Duration(float64(c.blockSize) / float64(c.sampleRate) * float64(time.Second))
	c.blockStart += dur
}

// SetSampleRate and SetBlockSize exist solely for the oversampler node: it
// temporarily doubles both before invoking its child, and must restore the
// original values before returning. No other node may call these. Misuse
// here is a documented hazard, not guarded against.
func (c *Context) SetSampleRate(sr int) { c.sampleRate = sr }
func (c *Context) SetBlockSize(bs int)  { c.blockSize = bs }
