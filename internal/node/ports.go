package node

import "strconv"

// PortMeta names one port and records its index within its own sequence.
type PortMeta struct {
	Name  string
	Index int
}

// Ports is the immutable-after-construction manifest of a node's four
// ordered port sequences.
type Ports struct {
	AudioIn     []PortMeta
	AudioOut    []PortMeta
	ControlIn   []PortMeta
	ControlOut  []PortMeta
}

// PortsBuilder is a fluent helper for assembling a Ports manifest. Default
// naming: a single audio port is "in"/"out", a stereo pair is "l"/"r", and
// anything else gets a generic numbered name.
type PortsBuilder struct {
	p Ports
}

// NewPortsBuilder starts an empty manifest.
func NewPortsBuilder() *PortsBuilder { return &PortsBuilder{} }

// AudioIn appends n audio-in ports using default names.
func (b *PortsBuilder) AudioIn(n int) *PortsBuilder {
	b.p.AudioIn = appendDefault(b.p.AudioIn, n, "in")
	return b
}

// AudioOut appends n audio-out ports using default names.
func (b *PortsBuilder) AudioOut(n int) *PortsBuilder {
	b.p.AudioOut = appendDefault(b.p.AudioOut, n, "out")
	return b
}

// ControlIn appends n control-in ports using default names.
func (b *PortsBuilder) ControlIn(n int) *PortsBuilder {
	b.p.ControlIn = appendDefault(b.p.ControlIn, n, "in")
	return b
}

// ControlOut appends n control-out ports using default names.
func (b *PortsBuilder) ControlOut(n int) *PortsBuilder {
	b.p.ControlOut = appendDefault(b.p.ControlOut, n, "out")
	return b
}

// AudioInNamed appends one audio-in port with an explicit name.
func (b *PortsBuilder) AudioInNamed(name string) *PortsBuilder {
	b.p.AudioIn = appendNamed(b.p.AudioIn, name)
	return b
}

// AudioOutNamed appends one audio-out port with an explicit name.
func (b *PortsBuilder) AudioOutNamed(name string) *PortsBuilder {
	b.p.AudioOut = appendNamed(b.p.AudioOut, name)
	return b
}

// ControlInNamed appends one control-in port with an explicit name.
func (b *PortsBuilder) ControlInNamed(name string) *PortsBuilder {
	b.p.ControlIn = appendNamed(b.p.ControlIn, name)
	return b
}

// ControlOutNamed appends one control-out port with an explicit name.
func (b *PortsBuilder) ControlOutNamed(name string) *PortsBuilder {
	b.p.ControlOut = appendNamed(b.p.ControlOut, name)
	return b
}

// Build returns the assembled manifest.
func (b *PortsBuilder) Build() *Ports { return &b.p }

func appendNamed(existing []PortMeta, name string) []PortMeta {
	return append(existing, PortMeta{Name: name, Index: len(existing)})
}

func appendDefault(existing []PortMeta, n int, label string) []PortMeta {
	switch n {
	case 0:
		return existing
	case 1:
		return appendNamed(existing, label)
	case 2:
		existing = appendNamed(existing, "l")
		return appendNamed(existing, "r")
	default:
		for i := 0; i < n; i++ {
			existing = appendNamed(existing, genericName(label, i))
		}
		return existing
	}
}

func genericName(label string, i int) string {
	// e.g. "in0", "in1", ... for arities other than 1 or 2.
	return label + strconv.Itoa(i)
}
