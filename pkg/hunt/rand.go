package hunt

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is a source of uniform draws in [0,1)
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded source safe for concurrent use. A zero seed is replaced by the current time.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// SequenceRand hands out fixed draws in order, one per call.
// Once exhausted it keeps returning Fallback.
type SequenceRand struct {
	mu       sync.Mutex
	draws    []float64
	next     int
	Fallback float64
}

func NewSequenceRand(draws ...float64) *SequenceRand {
	return &SequenceRand{draws: draws, Fallback: 0.99}
}

func (s *SequenceRand) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.draws) {
		return s.Fallback
	}
	d := s.draws[s.next]
	s.next++
	return d
}

// Used reports how many fixed draws have been consumed
func (s *SequenceRand) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
