// Package delay implements the per-channel delay line: whole-block writes
// and per-channel fractional reads, built directly on internal/ring.
package delay

import (
	"fmt"

	"github.com/legato-dsp/legato/internal/ring"
)

// Line is a per-channel vector of ring buffers sharing one capacity.
type Line struct {
	chans     []*ring.Buffer
	blockSize int
}

// New allocates a Line with the given channel count and per-channel
// capacity. capacity must be at least blockSize so a whole-block write never
// overruns its own tail.
func New(numChannels, capacity, blockSize int) (*Line, error) {
	if numChannels <= 0 {
		return nil, fmt.Errorf("delay: numChannels must be positive, got %d", numChannels)
	}
	if capacity < blockSize {
		return nil, fmt.Errorf("delay: capacity %d must be >= block size %d", capacity, blockSize)
	}
	l := &Line{chans: make([]*ring.Buffer, numChannels), blockSize: blockSize}
	for i := range l.chans {
		l.chans[i] = ring.New(capacity)
	}
	return l, nil
}

// NumChannels returns the channel count.
func (l *Line) NumChannels() int { return len(l.chans) }

// WriteBlock pushes blockSize frames per channel. frames must have exactly
// NumChannels() slices, each exactly blockSize long.
func (l *Line) WriteBlock(frames [][]float32) error {
	if len(frames) != len(l.chans) {
		return fmt.Errorf("delay: WriteBlock got %d channels, want %d", len(frames), len(l.chans))
	}
	for c, buf := range frames {
		if len(buf) != l.blockSize {
			return fmt.Errorf("delay: WriteBlock channel %d has %d frames, want %d", c, len(buf), l.blockSize)
		}
		l.chans[c].PushChunk(buf)
	}
	return nil
}

// GetDelayLinearInterp returns the linearly interpolated sample at offset
// off (fractional samples back from "now") on the given channel.
func (l *Line) GetDelayLinearInterp(chIdx int, off float32) float32 {
	return l.chans[chIdx].DelayLinear(off)
}

// GetDelayCubicInterp returns the cubic Hermite interpolated sample.
func (l *Line) GetDelayCubicInterp(chIdx int, off float32) float32 {
	return l.chans[chIdx].DelayCubic(off)
}

// GetDelayLinearInterpVec applies GetDelayLinearInterp lane-wise.
func (l *Line) GetDelayLinearInterpVec(chIdx int, offs [ring.Lanes]float32) [ring.Lanes]float32 {
	return l.chans[chIdx].DelayLinearVec(offs)
}

// GetDelayCubicInterpVec applies GetDelayCubicInterp lane-wise.
func (l *Line) GetDelayCubicInterpVec(chIdx int, offs [ring.Lanes]float32) [ring.Lanes]float32 {
	return l.chans[chIdx].DelayCubicVec(offs)
}
