package node

import "testing"

func TestPortsBuilderDefaultNames(t *testing.T) {
	p := NewPortsBuilder().AudioIn(1).AudioOut(2).Build()
	if len(p.AudioIn) != 1 || p.AudioIn[0].Name != "in" {
		t.Fatalf("mono audio-in default = %+v", p.AudioIn)
	}
	if len(p.AudioOut) != 2 || p.AudioOut[0].Name != "l" || p.AudioOut[1].Name != "r" {
		t.Fatalf("stereo audio-out default = %+v", p.AudioOut)
	}
}

func TestPortsBuilderGenericNamesForOtherArities(t *testing.T) {
	p := NewPortsBuilder().AudioOut(4).Build()
	want := []string{"out0", "out1", "out2", "out3"}
	if len(p.AudioOut) != 4 {
		t.Fatalf("AudioOut len = %d, want 4", len(p.AudioOut))
	}
	for i, pm := range p.AudioOut {
		if pm.Name != want[i] || pm.Index != i {
			t.Fatalf("AudioOut[%d] = %+v, want name=%s index=%d", i, pm, want[i], i)
		}
	}
}

func TestPortsBuilderNamed(t *testing.T) {
	p := NewPortsBuilder().AudioInNamed("gate").AudioInNamed("freq").Build()
	if len(p.AudioIn) != 2 || p.AudioIn[0].Name != "gate" || p.AudioIn[1].Name != "freq" {
		t.Fatalf("named ports = %+v", p.AudioIn)
	}
	if p.AudioIn[1].Index != 1 {
		t.Fatalf("second named port index = %d, want 1", p.AudioIn[1].Index)
	}
}

func TestPortsBuilderZeroPorts(t *testing.T) {
	p := NewPortsBuilder().Build()
	if len(p.AudioIn) != 0 || len(p.AudioOut) != 0 || len(p.ControlIn) != 0 || len(p.ControlOut) != 0 {
		t.Fatalf("zero-port manifest not empty: %+v", p)
	}
}
