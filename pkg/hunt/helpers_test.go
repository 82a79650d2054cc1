package hunt

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// gatedClock hands each timer to the test, which decides when it fires
type gatedClock struct {
	requests chan gatedTimer
}

type gatedTimer struct {
	d    time.Duration
	fire chan time.Time
}

func newGatedClock() *gatedClock {
	return &gatedClock{requests: make(chan gatedTimer, 16)}
}

func (c *gatedClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.requests <- gatedTimer{d: d, fire: ch}
	return ch
}

func (c *gatedClock) next(t *testing.T) gatedTimer {
	t.Helper()
	select {
	case timer := <-c.requests:
		return timer
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a timer request")
		return gatedTimer{}
	}
}

func (c *gatedClock) expectIdle(t *testing.T) {
	t.Helper()
	select {
	case timer := <-c.requests:
		t.Fatalf("unexpected timer request for %v", timer.d)
	case <-time.After(30 * time.Millisecond):
	}
}

type recordingSink struct {
	mu       sync.Mutex
	statuses []string
	placed   []StepResult
}

func (s *recordingSink) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
}

func (s *recordingSink) PlaceStep(res StepResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placed = append(s.placed, res)
}

func (s *recordingSink) Statuses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.statuses...)
}

func (s *recordingSink) Placed() []StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StepResult(nil), s.placed...)
}

// recordingSurface logs every drawing call as a string
type recordingSurface struct {
	ops []string
}

func (s *recordingSurface) Clear() {
	s.ops = append(s.ops, "clear")
}

func (s *recordingSurface) FillRect(r Rect, c Color) {
	s.ops = append(s.ops, fmt.Sprintf("fill %d,%d,%d,%d %s", r.X, r.Y, r.W, r.H, c))
}

func (s *recordingSurface) StrokeRect(r Rect, c Color) {
	s.ops = append(s.ops, fmt.Sprintf("stroke %d,%d,%d,%d %s", r.X, r.Y, r.W, r.H, c))
}

func (s *recordingSurface) DrawText(text string, x, y, fontSize int) {
	s.ops = append(s.ops, fmt.Sprintf("text %q %d,%d %d", text, x, y, fontSize))
}

func (s *recordingSurface) reset() {
	s.ops = nil
}

// fixedCatalog returns the English catalog with every text replaced by T0..T5
func fixedCatalog() *Catalog {
	c := EnglishCatalog().WithPolicy(PolicyAlwaysSucceed)
	for i := range c.Steps {
		c.Steps[i].Success = fmt.Sprintf("T%d", i)
	}
	return c
}
