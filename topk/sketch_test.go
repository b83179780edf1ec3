package topk

import (
	"fmt"
	"testing"

	"github.com/keilerkonzept/topk/sliding"
)

func TestObserveFlagsDominantClient(t *testing.T) {
	instance := sliding.New(3, 2, sliding.WithWidth(1024), sliding.WithDepth(3))
	s := New(instance, 10)

	// One client sends nearly all traffic across several ticks.
	var offenders []string
	for i := 0; i < 100; i++ {
		key := "10.0.0.1"
		if i%10 == 9 {
			key = fmt.Sprintf("10.0.0.%d", 2+i/10)
		}
		if got := s.Observe(key); got != nil {
			offenders = got
		}
	}

	found := false
	for _, ip := range offenders {
		if ip == "10.0.0.1" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected dominant client to be flagged, got %v", offenders)
	}
}

func TestObserveQuietTraffic(t *testing.T) {
	instance := sliding.New(3, 2, sliding.WithWidth(1024), sliding.WithDepth(3))
	s := New(instance, 10)

	// Spread traffic evenly; nobody should cross the threshold.
	for i := 0; i < 100; i++ {
		if got := s.Observe(fmt.Sprintf("10.1.0.%d", i%20)); len(got) > 0 {
			t.Fatalf("unexpected offenders for even traffic: %v", got)
		}
	}
}

func TestNewNilSketchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil sketch")
		}
	}()
	New(nil, 10)
}
