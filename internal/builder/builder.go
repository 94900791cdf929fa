// Package builder implements the programmatic graph-construction surface a
// DSL's AST-to-graph lowering pass would drive: a small GraphBuilder
// exposing exactly the operations a parsed declaration/connection-chain
// would need.
package builder

import (
	"fmt"
	"math"

	"github.com/legato-dsp/legato/internal/graph"
	"github.com/legato-dsp/legato/internal/node"
	"github.com/legato-dsp/legato/internal/nodes/audio"
	"github.com/legato-dsp/legato/internal/resources"
)

// GraphBuilder accumulates nodes, edges, and resource registrations for one
// graph, the surface a DSL front-end (not part of this module) would call
// after parsing a graph description.
type GraphBuilder struct {
	g         *graph.Graph
	resources *resources.Builder
	sink      node.Key
	sinkSet   bool
	source    node.Key
	sourceSet bool
	blockSize int
}

// New starts an empty builder. blockSize is stored on the builder but no
// method reads it; the helper nodes ConnectAuto inserts (MonoFanout, NMono)
// own no per-block scratch.
func New(blockSize int) *GraphBuilder {
	return &GraphBuilder{
		g:         graph.New(),
		resources: resources.NewBuilder(),
		blockSize: blockSize,
	}
}

// AddNode inserts n under a fresh key.
func (b *GraphBuilder) AddNode(n node.Node) node.Key {
	return b.g.AddNode(n)
}

// AddEdge connects an audio-rate source port to an audio-rate sink port.
func (b *GraphBuilder) AddEdge(srcNode node.Key, srcPort int, sinkNode node.Key, sinkPort int) error {
	return b.g.AddEdge(graph.Edge{
		Source: graph.Endpoint{Node: srcNode, Port: srcPort, Rate: graph.Audio},
		Sink:   graph.Endpoint{Node: sinkNode, Port: sinkPort, Rate: graph.Audio},
	})
}

// AddControlEdge connects a control-rate source port to a control-rate sink
// port.
func (b *GraphBuilder) AddControlEdge(srcNode node.Key, srcPort int, sinkNode node.Key, sinkPort int) error {
	return b.g.AddEdge(graph.Edge{
		Source: graph.Endpoint{Node: srcNode, Port: srcPort, Rate: graph.Control},
		Sink:   graph.Endpoint{Node: sinkNode, Port: sinkPort, Rate: graph.Control},
	})
}

// ConnectAuto connects srcNode's audio-out ports to sinkNode's audio-in
// ports. On an arity match it wires port-for-port; on a mismatch it inserts
// a mono_fanout (1->N) or an N-to-mono mixer node using the fixed
// 1/sqrt(N) equal-power gain, and wires through that helper instead.
func (b *GraphBuilder) ConnectAuto(srcNode node.Key, sinkNode node.Key) error {
	src, ok := b.g.Node(srcNode)
	if !ok {
		return fmt.Errorf("builder: unknown source node %v", srcNode)
	}
	sink, ok := b.g.Node(sinkNode)
	if !ok {
		return fmt.Errorf("builder: unknown sink node %v", sinkNode)
	}

	outN := len(src.Ports().AudioOut)
	inN := len(sink.Ports().AudioIn)

	switch {
	case outN == inN:
		for i := 0; i < outN; i++ {
			if err := b.AddEdge(srcNode, i, sinkNode, i); err != nil {
				return err
			}
		}
		return nil
	case outN == 1 && inN > 1:
		helper := b.AddNode(audio.NewMonoFanout(inN))
		if err := b.AddEdge(srcNode, 0, helper, 0); err != nil {
			return err
		}
		for i := 0; i < inN; i++ {
			if err := b.AddEdge(helper, i, sinkNode, i); err != nil {
				return err
			}
		}
		return nil
	case inN == 1 && outN > 1:
		helper := b.AddNode(audio.NewNMono(outN))
		for i := 0; i < outN; i++ {
			if err := b.AddEdge(srcNode, i, helper, i); err != nil {
				return err
			}
		}
		return b.AddEdge(helper, 0, sinkNode, 0)
	default:
		return fmt.Errorf("builder: cannot auto-connect %d outputs to %d inputs", outN, inN)
	}
}

// SetSink designates the node whose output the executor returns.
func (b *GraphBuilder) SetSink(k node.Key) {
	b.sink = k
	b.sinkSet = true
}

// SetSource designates the node that receives external input each block.
func (b *GraphBuilder) SetSource(k node.Key) {
	b.source = k
	b.sourceSet = true
}

// RegisterDelay declares a named delay line resource.
func (b *GraphBuilder) RegisterDelay(name string, numChannels, capacity int) (resources.DelayLineKey, error) {
	return b.resources.RegisterDelay(name, numChannels, capacity)
}

// RegisterSample declares a named, initially-unpublished sample slot.
func (b *GraphBuilder) RegisterSample(name string) (resources.SampleKey, error) {
	return b.resources.RegisterSample(name)
}

// RegisterParam declares a named clamped parameter.
func (b *GraphBuilder) RegisterParam(name string, min, max, def float32) error {
	_, err := b.resources.Params().Register(name, min, max, def)
	return err
}

// Graph returns the underlying graph, for the runtime to prepare.
func (b *GraphBuilder) Graph() *graph.Graph { return b.g }

// Resources returns the resource builder, to be finalized with Build(blockSize).
func (b *GraphBuilder) Resources() *resources.Builder { return b.resources }

// Sink returns the designated sink key, or an error if none was set.
func (b *GraphBuilder) Sink() (node.Key, error) {
	if !b.sinkSet {
		return node.Key{}, fmt.Errorf("builder: sink not set")
	}
	return b.sink, nil
}

// Source returns the designated source key and whether one was set.
func (b *GraphBuilder) Source() (node.Key, bool) {
	return b.source, b.sourceSet
}

// EqualPowerGain is the gain ConnectAuto's helper nodes apply, exposed for
// callers that replicate the desugaring manually (e.g. a DSL front-end
// implementing its own fan-out lowering).
func EqualPowerGain(n int) float32 {
	return float32(1 / math.Sqrt(float64(n)))
}
