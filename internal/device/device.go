// Package device adapts the runtime facade to a live audio output device:
// an io.Reader-pull stream (buffered PCM, underrun produces silence frames,
// no blocking inside the pull) fed to github.com/hajimehoshi/ebiten/v2/audio
// for streaming PCM to speakers.
package device

import (
	"encoding/binary"
	"fmt"
	"time"

	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/legato-dsp/legato/internal/runtime"
)

// stream implements io.Reader by pulling rendered blocks from a Runtime and
// converting them to 16-bit little-endian stereo frames, the format
// ebiten's audio.Player expects.
type stream struct {
	rt       *runtime.Runtime
	channels int

	pending [][]float32
	pos     int
}

func (s *stream) Read(p []byte) (int, error) {
	if len(p) < 4 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	n := 0
	for n+4 <= len(p) {
		if s.pending == nil || s.pos >= len(s.pending[0]) {
			out, err := s.rt.NextBlock(nil)
			if err != nil {
				// Runtime errors are impossible after a successful Prepare;
				// if one escapes, emit silence rather than blocking the
				// audio callback.
				for i := n; i < len(p); i++ {
					p[i] = 0
				}
				return len(p), nil
			}
			s.pending = out
			s.pos = 0
		}

		l, r := s.frameAt(s.pos)
		binary.LittleEndian.PutUint16(p[n:], uint16(int16(l*32767)))
		binary.LittleEndian.PutUint16(p[n+2:], uint16(int16(r*32767)))
		s.pos++
		n += 4
	}
	return n, nil
}

func (s *stream) frameAt(i int) (float32, float32) {
	if len(s.pending) == 0 {
		return 0, 0
	}
	l := s.pending[0][i]
	r := l
	if s.channels > 1 && len(s.pending) > 1 {
		r = s.pending[1][i]
	}
	return l, r
}

// Player wraps an ebiten audio.Player streaming a Runtime's output live.
type Player struct {
	player *ebitenaudio.Player
}

// NewPlayer opens a device callback over rt, using an ebiten audio.Context
// at rt's configured sample rate. channels selects mono (1) vs stereo (2)
// downmix of the runtime's output.
func NewPlayer(rt *runtime.Runtime, channels int) (*Player, error) {
	sr := rt.Context().SampleRate()
	actx := ebitenaudio.NewContext(sr)
	p, err := actx.NewPlayer(&stream{rt: rt, channels: channels})
	if err != nil {
		return nil, fmt.Errorf("device: NewPlayer: %w", err)
	}
	return &Player{player: p}, nil
}

// Play starts streaming.
func (p *Player) Play() { p.player.Play() }

// Pause stops streaming without closing the underlying player.
func (p *Player) Pause() { p.player.Pause() }

// SetBufferSize lets a host pick its own latency/stability tradeoff.
func (p *Player) SetBufferSize(ms int) {
	p.player.SetBufferSize(time.Duration(ms) * time.Millisecond)
}
