// Package render implements WAV rendering and loading: driving a Runtime
// for a fixed number of blocks and writing its sink output as 32-bit
// IEEE-float PCM, and decoding a WAV file into an AudioSample for the
// sampler's publish/consume handoff.
package render

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/legato-dsp/legato/internal/runtime"
	"github.com/legato-dsp/legato/internal/sample"
)

// wavFormatIEEEFloat is the WAV header's AudioFormat field for 32-bit
// float PCM (as opposed to 1 for integer PCM).
const wavFormatIEEEFloat = 3

// ToWAV drives rt for durationSeconds, rounded down to whole blocks, and
// writes the sink's output to w as 32-bit IEEE-float PCM at the given
// sample rate and channel count. The encoder's float path is per-frame
// (WriteFrame), since its buffered Write path only carries integer PCM.
func ToWAV(w io.WriteSeeker, rt *runtime.Runtime, sampleRate, channels int, durationSeconds float64) error {
	blockSize := rt.Context().BlockSize()
	totalSamples := int(durationSeconds * float64(sampleRate))
	numBlocks := totalSamples / blockSize

	enc := wav.NewEncoder(w, sampleRate, 32, channels, wavFormatIEEEFloat)

	for b := 0; b < numBlocks; b++ {
		out, err := rt.NextBlock(nil)
		if err != nil {
			return fmt.Errorf("render: NextBlock: %w", err)
		}
		n := len(out[0])
		for i := 0; i < n; i++ {
			for c := 0; c < channels; c++ {
				var v float32
				if c < len(out) {
					v = out[c][i]
				}
				if err := enc.WriteFrame(v); err != nil {
					return fmt.Errorf("render: WriteFrame: %w", err)
				}
			}
		}
	}

	return enc.Close()
}

// LoadWAV decodes a WAV file into an AudioSample, deinterleaving channels
// and normalizing integer PCM to [-1, 1]. The result is ready to Publish
// into a sample handle; decode failures are reported to the caller (the
// non-RT frontend), never to the RT thread.
func LoadWAV(r io.ReadSeeker) (*sample.AudioSample, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("render: not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("render: decoding PCM: %w", err)
	}
	return fromPCMBuffer(buf, int(dec.BitDepth))
}

func fromPCMBuffer(buf *goaudio.IntBuffer, bitDepth int) (*sample.AudioSample, error) {
	chans := buf.Format.NumChannels
	if chans <= 0 {
		return nil, fmt.Errorf("render: WAV has no channels")
	}
	frames := buf.NumFrames()
	if frames == 0 {
		return nil, fmt.Errorf("render: WAV has no frames")
	}

	scale := float32(1)
	if bitDepth > 1 && bitDepth <= 32 {
		scale = float32(1 / math.Pow(2, float64(bitDepth-1)))
	}

	data := make([][]float32, chans)
	for c := range data {
		data[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < chans; c++ {
			data[c][i] = float32(buf.Data[i*chans+c]) * scale
		}
	}
	return sample.NewAudioSample(data)
}
