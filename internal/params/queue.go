package params

import "github.com/legato-dsp/legato/internal/node"

// Envelope addresses a node.Msg to a specific node by key.
type Envelope struct {
	Node node.Key
	Msg  node.Msg
}

// Queue is the bounded SPSC message transport: a buffered channel gives
// exactly the semantics a node-message transport needs — FIFO between one
// producer and one consumer, bounded capacity, silent drop on a full queue
// via a non-blocking send — without a dedicated lock-free ring.
type Queue struct {
	ch chan Envelope
}

// NewQueue allocates a queue with the given capacity, clamped to a minimum
// of 256.
func NewQueue(capacity int) *Queue {
	if capacity < 256 {
		capacity = 256
	}
	return &Queue{ch: make(chan Envelope, capacity)}
}

// Send enqueues env from a non-RT producer. If the queue is full the
// message is silently dropped, per the backpressure policy.
func (q *Queue) Send(env Envelope) {
	select {
	case q.ch <- env:
	default:
	}
}

// Drain calls fn for every pending message, in FIFO order, without
// blocking. Called once per block by the RT thread at the top of
// Runtime.NextBlock.
func (q *Queue) Drain(fn func(Envelope)) {
	for {
		select {
		case env := <-q.ch:
			fn(env)
		default:
			return
		}
	}
}
