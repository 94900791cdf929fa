// Package midi implements MIDI-driven node types: the polyphonic voice
// allocator that turns note-on/note-off traffic from the MIDI store into
// per-voice gate/frequency/velocity control signals.
package midi

import (
	"math"
	"strconv"

	"github.com/legato-dsp/legato/internal/context"
	legmidi "github.com/legato-dsp/legato/internal/midi"
	"github.com/legato-dsp/legato/internal/node"
)

type voiceKind int

const (
	voiceIdle voiceKind = iota
	voiceActive
)

type voiceSlot struct {
	kind     voiceKind
	note     uint8
	velocity uint8

	gate float32
	freq float32
	vel  float32
}

// PolyVoice holds V voice slots, each exposing 3 output channels (gate,
// frequency, velocity). On note-on it picks the idle voice with the lowest
// index, or steals the active voice with the lowest velocity if none is
// idle. On note-off it marks the matching voice idle; note-off never
// steals.
type PolyVoice struct {
	node.NopHandleMsg
	ports   *node.Ports
	channel uint8
	voices  []voiceSlot

	// events is scratch reused every block (reset with events[:0]) so a
	// block with MIDI traffic does not allocate; its backing array grows at
	// most a handful of times until it covers the busiest block observed.
	events []voiceEvent
}

// NewPolyVoice builds a V-voice allocator listening on the given MIDI
// channel (0-15).
func NewPolyVoice(numVoices int, channel uint8) *PolyVoice {
	pb := node.NewPortsBuilder()
	for i := 0; i < numVoices; i++ {
		pb.AudioOutNamed(voiceChanName(i, "gate")).
			AudioOutNamed(voiceChanName(i, "freq")).
			AudioOutNamed(voiceChanName(i, "vel"))
	}
	return &PolyVoice{
		ports:   pb.Build(),
		channel: channel,
		voices:  make([]voiceSlot, numVoices),
		events:  make([]voiceEvent, 0, 64),
	}
}

func voiceChanName(i int, suffix string) string {
	return "v" + strconv.Itoa(i) + "_" + suffix
}

func (p *PolyVoice) Ports() *node.Ports { return p.ports }

// noteToFreq converts a MIDI note number to Hz: 440*2^((note-69)/12).
func noteToFreq(note uint8) float32 {
	return float32(440 * math.Pow(2, (float64(note)-69)/12))
}

type voiceEvent struct {
	sampleIdx int
	voice     int
	gate      float32
	freq      float32
	vel       float32
}

// Process iterates this block's MIDI messages on its subscribed channel,
// resolves each note-on/note-off to a voice slot, and writes the resulting
// gate/frequency/velocity transitions at the sample index corresponding to
// each message's offset from the block-start instant. Between messages,
// each voice's channels hold their last cached value.
func (p *PolyVoice) Process(ctx *context.Context, inputs, outputs [][]float32) {
	bs := ctx.BlockSize()
	sr := float64(ctx.SampleRate())
	blockStart := ctx.BlockStart()

	store := ctx.MIDI()
	events := p.events[:0]
	if store != nil {
		store.ForEachOnChannel(p.channel, func(t legmidi.Timestamped) {
			idx := int((t.Instant - blockStart).Seconds() * sr)
			if idx < 0 {
				idx = 0
			}
			if idx >= bs {
				idx = bs - 1
			}
			switch t.Msg.Kind {
			case legmidi.NoteOn:
				v := p.noteOn(t.Msg.Note, t.Msg.Velocity)
				events = append(events, voiceEvent{
					sampleIdx: idx, voice: v,
					gate: 1, freq: noteToFreq(t.Msg.Note), vel: float32(t.Msg.Velocity) / 127,
				})
			case legmidi.NoteOff:
				if v, ok := p.noteOff(t.Msg.Note); ok {
					events = append(events, voiceEvent{
						sampleIdx: idx, voice: v,
						gate: 0, freq: p.voices[v].freq, vel: p.voices[v].vel,
					})
				}
			}
		})
	}
	p.events = events

	for v := range p.voices {
		gateOut := outputs[v*3+0]
		freqOut := outputs[v*3+1]
		velOut := outputs[v*3+2]
		cur := p.voices[v]

		fillFrom := 0
		for _, e := range events {
			if e.voice != v {
				continue
			}
			for i := fillFrom; i < e.sampleIdx; i++ {
				gateOut[i] = cur.gate
				freqOut[i] = cur.freq
				velOut[i] = cur.vel
			}
			cur.gate, cur.freq, cur.vel = e.gate, e.freq, e.vel
			fillFrom = e.sampleIdx
		}
		for i := fillFrom; i < bs; i++ {
			gateOut[i] = cur.gate
			freqOut[i] = cur.freq
			velOut[i] = cur.vel
		}
		p.voices[v].gate = cur.gate
		p.voices[v].freq = cur.freq
		p.voices[v].vel = cur.vel
	}
}

// noteOn applies note-on allocation policy, returning the voice index used.
func (p *PolyVoice) noteOn(note, velocity uint8) int {
	for i := range p.voices {
		if p.voices[i].kind == voiceIdle {
			p.voices[i] = voiceSlot{kind: voiceActive, note: note, velocity: velocity}
			return i
		}
	}

	// No idle voice: steal the active voice with the lowest velocity.
	lowest := 0
	for i := 1; i < len(p.voices); i++ {
		if p.voices[i].velocity < p.voices[lowest].velocity {
			lowest = i
		}
	}
	p.voices[lowest] = voiceSlot{kind: voiceActive, note: note, velocity: velocity}
	return lowest
}

// noteOff marks the voice matching note idle. Never steals.
func (p *PolyVoice) noteOff(note uint8) (int, bool) {
	for i := range p.voices {
		if p.voices[i].kind == voiceActive && p.voices[i].note == note {
			p.voices[i].kind = voiceIdle
			return i, true
		}
	}
	return 0, false
}
