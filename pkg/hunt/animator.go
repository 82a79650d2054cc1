package hunt

import "sync"

// AnimState is the lifecycle of a reveal
type AnimState int

const (
	AnimIdle AnimState = iota
	AnimAnimating
	AnimDone
)

func (s AnimState) String() string {
	switch s {
	case AnimIdle:
		return "idle"
	case AnimAnimating:
		return "animating"
	case AnimDone:
		return "done"
	}
	return "unknown"
}

// Animator replays the record one step per frame. It only reads the record
// and the marker; the host drives it by calling Frame on each tick.
type Animator struct {
	mu     sync.Mutex
	arena  Arena
	rec    *Recorder
	marker *Marker
	cursor int
	state  AnimState
}

func NewAnimator(arena Arena, rec *Recorder, marker *Marker) *Animator {
	return &Animator{arena: arena, rec: rec, marker: marker}
}

// Start moves an idle animator into Animating. It reports false if the
// animator had already started.
func (a *Animator) Start() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != AnimIdle {
		return false
	}
	a.cursor = 0
	a.state = AnimAnimating
	return true
}

// Frame paints one frame and advances the cursor. It returns true while
// another frame is wanted.
func (a *Animator) Frame(s Surface) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != AnimAnimating {
		return false
	}

	a.paint(s, a.cursor)
	a.cursor++
	if a.cursor >= a.rec.Len() {
		a.state = AnimDone
		return false
	}
	return true
}

// Redraw repaints the current view without advancing, e.g. after the marker moved
func (a *Animator) Redraw(s Surface) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == AnimIdle {
		s.Clear()
		for _, e := range a.rec.Entries() {
			a.place(s, e)
		}
		s.FillRect(a.marker.Rect(), ColorGreen)
		return
	}
	a.paint(s, a.cursor-1)
}

// Place draws a freshly completed step in outline, ahead of the replay
func (a *Animator) Place(s Surface, res StepResult) {
	a.place(s, Entry{StepIndex: res.StepIndex, Text: res.Text})
}

func (a *Animator) place(s Surface, e Entry) {
	slot := a.arena.Slot(e.StepIndex)
	s.StrokeRect(slot, ColorBlack)
	s.DrawText(e.Text, slot.X+10, slot.Y+20, FontSize)
}

func (a *Animator) paint(s Surface, upto int) {
	s.Clear()
	for _, e := range a.rec.Entries() {
		if e.StepIndex > upto {
			continue
		}
		slot := a.arena.Slot(e.StepIndex)
		s.FillRect(slot, ColorLightBlue)
		s.DrawText(e.Text, slot.X+10, slot.Y+20, FontSize)
	}
	s.FillRect(a.marker.Rect(), ColorGreen)
}

func (a *Animator) State() AnimState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Cursor is the number of frames painted so far
func (a *Animator) Cursor() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cursor
}
