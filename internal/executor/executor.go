// Package executor implements the block executor: the pre-allocated flat
// sample pool, per-node offset table, and per-block dataflow that gathers
// each node's inputs (summing on fan-in) and invokes it in topological
// order, without allocating on the hot path after Prepare.
package executor

import (
	"fmt"

	"github.com/legato-dsp/legato/internal/context"
	"github.com/legato-dsp/legato/internal/graph"
	"github.com/legato-dsp/legato/internal/node"
)

// MaxArity bounds the audio in/out arity of any single node, sizing the
// reusable scratch buffers.
const MaxArity = 32

// Executor runs one graph's blocks. It has two states: Unprepared and
// Prepared; Prepare must be called (again) after any structural change to
// the graph.
type Executor struct {
	g *graph.Graph

	blockSize int
	offsets   map[node.Key]int
	pool      []float32
	scratch   []float32
	topoOrder []node.Key
	prepared  bool

	sink    node.Key
	sinkSet bool
	source  node.Key
	hasSrc  bool

	hasInputs  [MaxArity]bool
	inputsBuf  [MaxArity][]float32
	outputsBuf [MaxArity][]float32
	resultBuf  [][]float32
}

// New wraps g, not yet prepared.
func New(g *graph.Graph) *Executor {
	return &Executor{g: g}
}

// SetSink designates the node whose output is returned to the caller.
func (e *Executor) SetSink(k node.Key) {
	e.sink = k
	e.sinkSet = true
}

// SetSource designates the node that receives external input at the top of
// each block. Optional: a graph with no external input needs no source.
func (e *Executor) SetSource(k node.Key) {
	e.source = k
	e.hasSrc = true
}

// Prepare computes the topological order (failing on a cycle), assigns
// every node a pool offset, and allocates the pool and scratch arrays. Must
// be called before Process, and again after any structural graph change.
func (e *Executor) Prepare(blockSize int) error {
	order, err := e.g.TopoOrder()
	if err != nil {
		return err
	}

	offsets := make(map[node.Key]int, len(order))
	total := 0
	for _, k := range order {
		n, ok := e.g.Node(k)
		if !ok {
			return fmt.Errorf("executor: topo order referenced unknown node %v", k)
		}
		ports := n.Ports()
		if len(ports.AudioIn) > MaxArity {
			return fmt.Errorf("executor: node %v audio-in arity %d exceeds MaxArity %d", k, len(ports.AudioIn), MaxArity)
		}
		if len(ports.AudioOut) > MaxArity {
			return fmt.Errorf("executor: node %v audio-out arity %d exceeds MaxArity %d", k, len(ports.AudioOut), MaxArity)
		}
		offsets[k] = total
		total += len(ports.AudioOut) * blockSize
	}

	e.offsets = offsets
	e.topoOrder = order
	e.blockSize = blockSize
	e.pool = make([]float32, total)
	e.scratch = make([]float32, MaxArity*blockSize)
	e.prepared = true
	return nil
}

// Process runs one block: gathers each node's inputs in topological order
// (summing multi-edge fan-in into the same sink port), invokes it, advances
// the context's block-start instant, and returns a view over the sink
// node's output slices. No allocation occurs here once the pool/scratch
// have warmed up (see resultBuf).
//
// externalInputs, if non-nil, is copied channel-by-channel into the source
// node's scratch region at the top of the block; it is ignored if no
// source node was designated.
func (e *Executor) Process(ctx *context.Context, externalInputs [][]float32) ([][]float32, error) {
	if !e.prepared {
		return nil, fmt.Errorf("executor: not prepared")
	}
	if !e.sinkSet {
		return nil, fmt.Errorf("executor: sink not set")
	}

	bs := e.blockSize

	for _, k := range e.topoOrder {
		n, ok := e.g.Node(k)
		if !ok {
			panic(fmt.Sprintf("executor: topo order referenced missing node %v", k))
		}
		ports := n.Ports()
		inArity := len(ports.AudioIn)
		outArity := len(ports.AudioOut)

		for i := 0; i < inArity; i++ {
			seg := e.scratch[i*bs : (i+1)*bs]
			for j := range seg {
				seg[j] = 0
			}
			e.hasInputs[i] = false
		}

		if e.hasSrc && k == e.source && externalInputs != nil {
			for i, ext := range externalInputs {
				if i >= inArity {
					break
				}
				seg := e.scratch[i*bs : (i+1)*bs]
				copy(seg, ext)
				e.hasInputs[i] = true
			}
		} else {
			for _, edge := range e.g.Incoming(k) {
				srcBase, ok := e.offsets[edge.Source.Node]
				if !ok {
					panic("executor: incoming edge from node missing its pool offset")
				}
				src := e.pool[srcBase+edge.Source.Port*bs : srcBase+edge.Source.Port*bs+bs]
				dstIdx := edge.Sink.Port
				dst := e.scratch[dstIdx*bs : dstIdx*bs+bs]
				if !e.hasInputs[dstIdx] {
					copy(dst, src)
					e.hasInputs[dstIdx] = true
				} else {
					for i := range dst {
						dst[i] += src[i]
					}
				}
			}
		}

		for i := 0; i < inArity; i++ {
			if e.hasInputs[i] {
				e.inputsBuf[i] = e.scratch[i*bs : (i+1)*bs]
			} else {
				e.inputsBuf[i] = nil
			}
		}

		outBase := e.offsets[k]
		for i := 0; i < outArity; i++ {
			e.outputsBuf[i] = e.pool[outBase+i*bs : outBase+i*bs+bs]
		}

		n.Process(ctx, e.inputsBuf[:inArity], e.outputsBuf[:outArity])
	}

	ctx.AdvanceBlockStart()

	sinkNode, ok := e.g.Node(e.sink)
	if !ok {
		return nil, fmt.Errorf("executor: sink node %v missing", e.sink)
	}
	outArity := len(sinkNode.Ports().AudioOut)
	base := e.offsets[e.sink]
	e.resultBuf = e.resultBuf[:0]
	for i := 0; i < outArity; i++ {
		e.resultBuf = append(e.resultBuf, e.pool[base+i*bs:base+i*bs+bs])
	}
	return e.resultBuf, nil
}

// ElectSource picks the unique node with zero incoming edges, if exactly
// one exists, and designates it the source. It is a no-op if a source was
// already set explicitly.
func (e *Executor) ElectSource() {
	if e.hasSrc {
		return
	}
	var candidate node.Key
	found := 0
	for _, k := range e.topoOrder {
		if len(e.g.Incoming(k)) == 0 {
			candidate = k
			found++
		}
	}
	if found == 1 {
		e.SetSource(candidate)
	}
}
