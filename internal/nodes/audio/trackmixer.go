package audio

import (
	"math"
	"strconv"

	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/node"
)

// TrackMixer reduces tracks*chansPerTrack audio-in ports to chansPerTrack
// audio-out ports: each track's channel group is scaled by a per-track gain
// and summed into the outputs, then a tanh saturating nonlinearity
// (math.Tanh) shapes the mix bus.
type TrackMixer struct {
	node.NopHandleMsg
	ports *node.Ports

	tracks        int
	chansPerTrack int
	gains         []float32
}

// NewTrackMixer builds a mixer for the given track count and channels per
// track, with every track initially at unity gain.
func NewTrackMixer(tracks, chansPerTrack int) *TrackMixer {
	pb := node.NewPortsBuilder()
	for t := 0; t < tracks; t++ {
		pb.AudioIn(chansPerTrack)
	}
	pb.AudioOut(chansPerTrack)
	gains := make([]float32, tracks)
	for i := range gains {
		gains[i] = 1
	}
	return &TrackMixer{
		ports:         pb.Build(),
		tracks:        tracks,
		chansPerTrack: chansPerTrack,
		gains:         gains,
	}
}

func (m *TrackMixer) Ports() *node.Ports { return m.ports }

// SetGain sets the gain applied to track idx's input group before summing.
func (m *TrackMixer) SetGain(idx int, gain float32) {
	if idx >= 0 && idx < len(m.gains) {
		m.gains[idx] = gain
	}
}

// HandleMsg applies a "gain<idx>" set-param command to the matching track.
func (m *TrackMixer) HandleMsg(msg node.Msg) {
	for i := 0; i < m.tracks; i++ {
		if msg.Param == trackGainName(i) {
			m.gains[i] = msg.Value
			return
		}
	}
}

func trackGainName(i int) string {
	return "gain" + strconv.Itoa(i)
}

func (m *TrackMixer) Process(ctx *context.Context, inputs, outputs [][]float32) {
	for c := range outputs {
		out := outputs[c]
		for i := range out {
			out[i] = 0
		}
	}

	for t := 0; t < m.tracks; t++ {
		gain := m.gains[t]
		for c := 0; c < m.chansPerTrack; c++ {
			in := inputs[t*m.chansPerTrack+c]
			if in == nil {
				continue
			}
			out := outputs[c]
			for i := range out {
				out[i] += in[i] * gain
			}
		}
	}

	for c := range outputs {
		out := outputs[c]
		for i := range out {
			out[i] = tanhSaturate(out[i])
		}
	}
}

// tanhSaturate applies the tanh saturating nonlinearity, computed exactly
// with math.Tanh in float64.
func tanhSaturate(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}
