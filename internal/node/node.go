// Package node defines the uniform node contract: the port manifest, the
// process interface, and per-node RT-safe messaging. Concrete node
// implementations live under internal/nodes/*.
package node

import (
	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/genkey"
)

// Key stably identifies a node inside a graph across removal and
// reinsertion: it is generational, so a stale edge referencing a removed
// slot can never alias a newly inserted node there.
type Key = genkey.Key

// Msg is the payload delivered to HandleMsg: a per-node parameter set.
// Param is the parameter's name on this node (resolved by the node itself,
// not by a shared global key space) and Value the new value to apply.
type Msg struct {
	Param string
	Value float32
}

// Node is the uniform processing unit. Ports() is stable for the node's
// lifetime. Process must fully write every output slice on every call
// (unless the node documents otherwise) and must never allocate, block, or
// return an error: process is infallible.
type Node interface {
	Ports() *Ports

	// Process reads inputs (one slice per audio-in port, nil meaning no
	// upstream connection -> treat as silence) and writes outputs (one
	// slice per audio-out port, each exactly ctx.BlockSize long).
	Process(ctx *context.Context, inputs [][]float32, outputs [][]float32)

	// HandleMsg applies an RT-safe per-node command. The default behavior
	// for nodes with nothing to handle is to ignore it.
	HandleMsg(msg Msg)
}

// NopHandleMsg can be embedded by nodes with no message handling, giving
// them an "ignore" default for free.
type NopHandleMsg struct{}

func (NopHandleMsg) HandleMsg(Msg) {}
