// Command legato is the CLI front-end demonstrating the engine: it builds a
// demo graph programmatically (standing in for a DSL front-end, which is an
// external concern) and either renders it to a WAV file or plays it live.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/legato-dsp/legato/internal/builder"
	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/device"
	"github.com/legato-dsp/legato/internal/midi"
	"github.com/legato-dsp/legato/internal/nodes/audio"
	"github.com/legato-dsp/legato/internal/params"
	"github.com/legato-dsp/legato/internal/render"
	"github.com/legato-dsp/legato/internal/resources"
	"github.com/legato-dsp/legato/internal/runtime"
)

// CLIFlags collects the command's flags into one flat struct.
type CLIFlags struct {
	Mode       string // "wav" or "play"
	Out        string
	Freq       float64
	Duration   float64
	SampleRate int
	Block      int
	SamplePath string // optional WAV to loop through a sampler instead of the sine demo
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.Mode, "mode", "wav", "output mode: wav or play")
	flag.StringVar(&f.Out, "out", "out.wav", "WAV output path (mode=wav)")
	flag.Float64Var(&f.Freq, "freq", 440, "demo oscillator frequency in Hz")
	flag.Float64Var(&f.Duration, "duration", 2.0, "seconds to render (mode=wav)")
	flag.IntVar(&f.SampleRate, "sr", 48000, "sample rate")
	flag.IntVar(&f.Block, "block", 1024, "block size")
	flag.StringVar(&f.SamplePath, "sample", "", "WAV file to loop through a sampler instead of the sine demo")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	cfg := context.Config{
		SampleRate:          f.SampleRate,
		Block:               context.BlockSize(f.Block),
		Channels:            2,
		ControlToAudioRatio: 32,
	}
	if err := cfg.Validate(4); err != nil {
		log.Fatalf("legato: invalid config: %v", err)
	}

	b := builder.New(f.Block)
	var sampleKey resources.SampleKey
	if f.SamplePath != "" {
		k, err := b.RegisterSample("demo")
		if err != nil {
			log.Fatalf("legato: registering sample: %v", err)
		}
		sampleKey = k
		sampler := b.AddNode(audio.NewSampler(k, cfg.Channels, true))
		b.SetSink(sampler)
	} else {
		osc := b.AddNode(audio.NewSine(float32(f.Freq)))
		fanout := b.AddNode(audio.NewMonoFanout(2))
		if err := b.AddEdge(osc, 0, fanout, 0); err != nil {
			log.Fatalf("legato: wiring demo graph: %v", err)
		}
		b.SetSink(fanout)
	}

	res, err := b.Resources().Build(f.Block)
	if err != nil {
		log.Fatalf("legato: building resources: %v", err)
	}

	if f.SamplePath != "" {
		in, err := os.Open(f.SamplePath)
		if err != nil {
			log.Fatalf("legato: opening %s: %v", f.SamplePath, err)
		}
		as, err := render.LoadWAV(in)
		in.Close()
		if err != nil {
			log.Fatalf("legato: loading sample: %v", err)
		}
		res.GetSample(sampleKey).Publish(as)
	}

	midiStore := midi.NewStore(256)
	queue := params.NewQueue(256)

	sink, err := b.Sink()
	if err != nil {
		log.Fatalf("legato: %v", err)
	}
	source, hasSource := b.Source()

	rt, err := runtime.New(cfg, b.Graph(), res, midiStore, queue, sink, source, hasSource)
	if err != nil {
		log.Fatalf("legato: preparing runtime: %v", err)
	}

	switch f.Mode {
	case "wav":
		out, err := os.Create(f.Out)
		if err != nil {
			log.Fatalf("legato: creating %s: %v", f.Out, err)
		}
		defer out.Close()
		if err := render.ToWAV(out, rt, f.SampleRate, cfg.Channels, f.Duration); err != nil {
			log.Fatalf("legato: rendering WAV: %v", err)
		}
		log.Printf("legato: wrote %s (%.2fs @ %dHz)", f.Out, f.Duration, f.SampleRate)
	case "play":
		player, err := device.NewPlayer(rt, cfg.Channels)
		if err != nil {
			log.Fatalf("legato: opening device: %v", err)
		}
		player.Play()
		log.Printf("legato: playing demo tone at %.1fHz, press Ctrl+C to stop", f.Freq)
		select {}
	default:
		log.Fatalf("legato: unknown mode %q (want wav or play)", f.Mode)
	}
}
