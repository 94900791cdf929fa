// Package runtime implements the runtime facade: it couples the executor,
// the audio context, and the inbound message queue behind a single
// NextBlock call. The render and device front-ends that drive it live in
// their own packages.
package runtime

import (
	"fmt"

	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/executor"
	"github.com/legato-dsp/legato/internal/graph"
	"github.com/legato-dsp/legato/internal/midi"
	"github.com/legato-dsp/legato/internal/node"
	"github.com/legato-dsp/legato/internal/params"
	"github.com/legato-dsp/legato/internal/resources"
)

// Runtime couples an executor, its audio context, and an inbound message
// queue into the single "ask for the next block" interface a host
// application drives.
type Runtime struct {
	exec  *executor.Executor
	ctx   *context.Context
	queue *params.Queue
	g     *graph.Graph
}

// New builds a Runtime over an already-constructed graph and resources.
// sink must reference a node in g. cfg must satisfy cfg.Validate; New does
// not call Validate itself.
func New(cfg context.Config, g *graph.Graph, res *resources.Resources, midiStore *midi.Store, queue *params.Queue, sink node.Key, source node.Key, hasSource bool) (*Runtime, error) {
	ctx := context.New(cfg, res, midiStore)
	exec := executor.New(g)
	exec.SetSink(sink)
	if hasSource {
		exec.SetSource(source)
	}
	if err := exec.Prepare(int(cfg.Block)); err != nil {
		return nil, fmt.Errorf("runtime: prepare: %w", err)
	}
	if !hasSource {
		exec.ElectSource()
	}
	return &Runtime{exec: exec, ctx: ctx, queue: queue, g: g}, nil
}

// SendMessage enqueues a per-node command for the RT thread to apply at the
// top of the next block. Safe to call from any non-RT thread; silently
// dropped if the queue is full.
func (r *Runtime) SendMessage(target node.Key, msg node.Msg) {
	if r.queue == nil {
		return
	}
	r.queue.Send(params.Envelope{Node: target, Msg: msg})
}

// NextBlock drains pending messages, runs one block of the graph, and
// returns a view over the sink node's output. externalInputs, if non-nil,
// is routed to the designated source node.
func (r *Runtime) NextBlock(externalInputs [][]float32) ([][]float32, error) {
	if r.queue != nil {
		r.queue.Drain(func(env params.Envelope) {
			n, ok := r.g.Node(env.Node)
			if !ok {
				return
			}
			n.HandleMsg(env.Msg)
		})
	}
	if m := r.ctx.MIDI(); m != nil {
		m.BeginBlock()
	}
	return r.exec.Process(r.ctx, externalInputs)
}

// Context exposes the underlying AudioContext, mainly for render/device
// front-ends that need SampleRate/BlockSize/Channels to size their buffers.
func (r *Runtime) Context() *context.Context { return r.ctx }
