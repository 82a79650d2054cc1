package hunt

import "sync"

// Arena is the fixed drawing area, in pixels
type Arena struct {
	Width  int
	Height int
}

// DefaultArena is the standard 600x400 board
var DefaultArena = Arena{Width: 600, Height: 400}

// Slot returns the rectangle reserved for step i along the bottom edge
func (a Arena) Slot(i int) Rect {
	w := a.Width / StepCount
	h := a.Height / 10
	return Rect{X: i * w, Y: a.Height - h, W: w, H: h}
}

const (
	MarkerSize = 20
	MarkerStep = 5
)

// Direction is one of the four arrow keys
type Direction int

const (
	Left Direction = iota
	Up
	Right
	Down
)

// Marker is the player's token. It never leaves the arena.
type Marker struct {
	mu     sync.RWMutex
	arena  Arena
	x, y   int
	width  int
	height int
}

// NewMarker places a marker at the arena center
func NewMarker(arena Arena) *Marker {
	m := &Marker{arena: arena, width: MarkerSize, height: MarkerSize}
	m.Center()
	return m
}

func (m *Marker) Center() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.x = m.arena.Width / 2
	m.y = m.arena.Height / 2
	m.clamp()
}

// Move shifts the marker one step in dir, clamped to the arena
func (m *Marker) Move(dir Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch dir {
	case Left:
		m.x -= MarkerStep
	case Up:
		m.y -= MarkerStep
	case Right:
		m.x += MarkerStep
	case Down:
		m.y += MarkerStep
	}
	m.clamp()
}

func (m *Marker) clamp() {
	m.x = max(0, min(m.x, m.arena.Width-m.width))
	m.y = max(0, min(m.y, m.arena.Height-m.height))
}

// Position returns the top-left corner
func (m *Marker) Position() (x, y int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.x, m.y
}

func (m *Marker) Rect() Rect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Rect{X: m.x, Y: m.y, W: m.width, H: m.height}
}
