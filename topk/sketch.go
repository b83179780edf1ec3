package topk

import (
	"sync"

	"github.com/keilerkonzept/topk/sliding"
)

const (
	thresholdPercent = 80 // of window capacity
)

// Sketch provides thread-safe access to a sliding top-k sketch and manages
// ticking. It tracks which clients dominate recent request traffic so the
// rate limiter can single out abusers of the login and code-send endpoints.
type Sketch struct {
	mu        sync.Mutex
	sketch    *sliding.Sketch
	tickSize  uint64 // number of requests per tick
	tickReq   uint64 // requests processed since last tick
	threshold int
}

// New creates a new thread-safe sketch wrapper.
// tickSize is how many observations trigger a sketch tick and top-k check.
func New(instance *sliding.Sketch, tickSize uint64) *Sketch {
	if instance == nil {
		panic("sketch instance cannot be nil")
	}
	if tickSize == 0 {
		tickSize = 1000
	}

	windowCapacity := uint64(instance.WindowSize) * tickSize
	threshold := int((windowCapacity * thresholdPercent) / 100)

	return &Sketch{
		sketch:    instance,
		tickSize:  tickSize,
		threshold: threshold,
	}
}

// Observe records one request from the given client key. On a tick boundary
// it returns the keys whose recent request count crossed the block
// threshold; otherwise it returns nil.
func (s *Sketch) Observe(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sketch.Incr(key)
	s.tickReq++

	if s.tickReq < s.tickSize {
		return nil
	}

	s.sketch.Tick()
	s.tickReq = 0

	items := s.sketch.SortedSlice()
	var offenders []string
	for _, item := range items {
		if item.Count > uint32(s.threshold) {
			offenders = append(offenders, item.Item)
		} else {
			break // sorted, nothing further can cross the threshold
		}
	}
	return offenders
}
