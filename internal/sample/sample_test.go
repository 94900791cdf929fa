package sample

import (
	"sync"
	"testing"
)

func TestNewAudioSampleRejectsRaggedChannels(t *testing.T) {
	_, err := NewAudioSample([][]float32{{1, 2, 3}, {1, 2}})
	if err == nil {
		t.Fatalf("expected error for ragged channel lengths")
	}
}

func TestPublishConsumeCache(t *testing.T) {
	h := NewHandle()
	var c Cache
	if got := c.Refresh(h); got != nil {
		t.Fatalf("Refresh on empty handle = %v, want nil", got)
	}

	s1, _ := NewAudioSample([][]float32{{1, 2, 3}})
	h.Publish(s1)
	got := c.Refresh(h)
	if got != s1 {
		t.Fatalf("Refresh did not observe published sample")
	}

	// Calling again without a new publish must not change the cached sample.
	got2 := c.Refresh(h)
	if got2 != s1 {
		t.Fatalf("Refresh changed sample without a new publication")
	}

	s2, _ := NewAudioSample([][]float32{{4, 5, 6}})
	h.Publish(s2)
	got3 := c.Refresh(h)
	if got3 != s2 {
		t.Fatalf("Refresh did not observe second publication")
	}
}

// TestAdversarialReaderNeverSeesMixedData approximates testable property
// #10: every Refresh sees a whole, self-consistent AudioSample, never a
// partially constructed one, because AudioSample is immutable once built
// and publication swaps a single pointer.
func TestAdversarialReaderNeverSeesMixedData(t *testing.T) {
	h := NewHandle()
	const rounds = 2000
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			v := float32(i)
			s, _ := NewAudioSample([][]float32{{v, v, v, v}})
			h.Publish(s)
		}
	}()

	go func() {
		defer wg.Done()
		var c Cache
		for i := 0; i < rounds*4; i++ {
			s := c.Refresh(h)
			if s == nil {
				continue
			}
			first := s.Channel(0)[0]
			for _, v := range s.Channel(0) {
				if v != first {
					t.Errorf("observed mixed sample: %v", s.Channel(0))
					return
				}
			}
		}
	}()

	wg.Wait()
}
