package audio

import (
	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
	"github.com/legato-dsp/legato/internal/resources"
	"github.com/legato-dsp/legato/internal/sample"
)

// Sampler maintains a cached *sample.AudioSample pointer and version (the
// publish/consume protocol in package sample) and, each block, reads
// blockSize*chans samples starting at readPos, wrapping when looping.
//
// readPos wraps modulo the sample's frame count when Looping is true, and
// holds at the last frame (emitting silence thereafter) once it runs past
// the end when Looping is false.
type Sampler struct {
	node.NopHandleMsg
	ports *node.Ports

	key     resources.SampleKey
	chans   int
	cache   sample.Cache
	readPos int
	Looping bool
}

// NewSampler builds a sampler reading from the sample handle at key, with
// chans output channels, looping as requested.
func NewSampler(key resources.SampleKey, chans int, looping bool) *Sampler {
	return &Sampler{
		ports:   node.NewPortsBuilder().AudioOut(chans).Build(),
		key:     key,
		chans:   chans,
		Looping: looping,
	}
}

func (s *Sampler) Ports() *node.Ports { return s.ports }

func (s *Sampler) HandleMsg(msg node.Msg) {
	if msg.Param == "seek" {
		s.readPos = int(msg.Value)
	}
}

func (s *Sampler) Process(ctx *context.Context, inputs, outputs [][]float32) {
	handle := ctx.Resources().GetSample(s.key)
	as := s.cache.Refresh(handle)

	if as == nil {
		for c := range outputs {
			out := outputs[c]
			for i := range out {
				out[i] = 0
			}
		}
		return
	}

	frames := as.Frames()
	n := len(outputs[0])

	for c := 0; c < s.chans; c++ {
		out := outputs[c]
		srcCh := c
		if srcCh >= as.Channels() {
			srcCh = as.Channels() - 1
		}
		src := as.Channel(srcCh)

		pos := s.readPos
		for i := 0; i < n; i++ {
			if pos >= frames {
				if s.Looping && frames > 0 {
					pos %= frames
				} else {
					out[i] = 0
					continue
				}
			}
			out[i] = src[pos]
			pos++
		}
	}

	s.readPos += n
	if s.Looping && frames > 0 {
		s.readPos %= frames
	} else if s.readPos > frames {
		s.readPos = frames
	}
}
