// Package sample implements the shared sample handle: the publish/consume
// protocol that hands decoded audio from a non-RT publisher to the RT
// sampler node without the RT thread ever allocating.
package sample

import (
	"fmt"
	"sync/atomic"
)

// AudioSample is an immutable owned buffer-of-buffers: one []float32 per
// channel, all the same length.
type AudioSample struct {
	channels int
	data     [][]float32
}

// NewAudioSample builds an AudioSample from per-channel data. All channels
// must have equal length.
func NewAudioSample(data [][]float32) (*AudioSample, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("sample: AudioSample needs at least one channel")
	}
	n := len(data[0])
	for i, ch := range data {
		if len(ch) != n {
			return nil, fmt.Errorf("sample: channel %d has %d frames, channel 0 has %d", i, len(ch), n)
		}
	}
	return &AudioSample{channels: len(data), data: data}, nil
}

// Channels returns the channel count.
func (s *AudioSample) Channels() int { return s.channels }

// Frames returns the per-channel frame count.
func (s *AudioSample) Frames() int {
	if len(s.data) == 0 {
		return 0
	}
	return len(s.data[0])
}

// Channel returns the raw data for channel c. The caller must not mutate it:
// AudioSample is immutable once constructed.
func (s *AudioSample) Channel(c int) []float32 { return s.data[c] }

// Handle is the shared slot: an atomic nullable pointer to the most recently
// published AudioSample plus a monotonically increasing version counter.
//
// Publish order matters: the pointer is stored before the version is
// bumped, so a reader that observes a new version is guaranteed (by Go's
// memory model for atomics) to also observe the new pointer if it loads the
// version before the pointer, giving the required acquire/release pairing
// between pointer swap and version bump.
type Handle struct {
	ptr     atomic.Pointer[AudioSample]
	version atomic.Uint64
}

// NewHandle returns an empty handle (nil sample, version 0).
func NewHandle() *Handle { return &Handle{} }

// Publish atomically installs s as the current sample and bumps the
// version. Called only from non-RT threads.
func (h *Handle) Publish(s *AudioSample) {
	h.ptr.Store(s)
	h.version.Add(1)
}

// Version returns the current version. RT callers load this first, then
// Load(), to observe pointer and version consistently.
func (h *Handle) Version() uint64 { return h.version.Load() }

// Load returns the current sample pointer (may be nil if never published).
func (h *Handle) Load() *AudioSample { return h.ptr.Load() }

// Cache is the per-reader cached state: a cached pointer and a cached
// version, refreshed only when the version changes.
type Cache struct {
	version uint64
	sample  *AudioSample
}

// Refresh re-synchronizes the cache against h if h's version has advanced,
// returning the sample to use for this block (possibly unchanged from the
// last call). Safe to call once per block on the RT thread: in the common
// case (no new publication) it is a single atomic load and a comparison.
func (c *Cache) Refresh(h *Handle) *AudioSample {
	v := h.Version()
	if v != c.version {
		c.sample = h.Load()
		c.version = v
	}
	return c.sample
}
