// Package midiport is the non-RT MIDI-reader task: it binds a real system
// MIDI input port via gitlab.com/gomidi/midi/v2 and decodes raw bytes
// through internal/midi before dropping them into the MIDI store. The
// wire-format decode itself stays in internal/midi.
package midiport

import (
	"context"
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"golang.org/x/sync/errgroup"

	legmidi "github.com/legato-dsp/legato/internal/midi"
)

// Reader binds one MIDI input port and feeds decoded messages into a Store,
// timestamped relative to a runtime-supplied clock.
type Reader struct {
	store *legmidi.Store
	now   func() time.Duration
	stop  func()
}

// Open binds the named input port (see gomidi's driver registry; callers
// must blank-import a driver package, e.g.
// gitlab.com/gomidi/midi/v2/drivers/rtmididrv, to populate it) and starts
// listening. now supplies the instant to stamp each decoded message with,
// matching the clock the runtime's AudioContext block-start timestamp uses.
func Open(portName string, store *legmidi.Store, now func() time.Duration) (*Reader, error) {
	in, err := gomidi.FindInPort(portName)
	if err != nil {
		return nil, fmt.Errorf("midiport: find port %q: %w", portName, err)
	}

	r := &Reader{store: store, now: now}
	stopFn, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		decoded, err := legmidi.Decode(msg.Bytes())
		if err != nil {
			// Decode failure is silently skipped: data-driven anomalies off
			// the RT path are dropped rather than propagated.
			return
		}
		r.store.Push(decoded, r.now())
	})
	if err != nil {
		return nil, fmt.Errorf("midiport: listen: %w", err)
	}
	r.stop = stopFn
	return r, nil
}

// Close stops listening and releases the port.
func (r *Reader) Close() error {
	if r.stop != nil {
		r.stop()
	}
	return nil
}

// Run blocks until ctx is cancelled, then closes the reader. Used by a host
// that wants the reader's lifetime tied to an errgroup alongside the device
// callback goroutine (internal/device), both non-RT-thread concerns.
func (r *Reader) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return r.Close()
	})
	return g.Wait()
}
