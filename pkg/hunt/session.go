package hunt

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Session owns everything one run of the hunt touches. Restarting builds a
// new Session instead of clearing this one.
type Session struct {
	ID       uuid.UUID
	Arena    Arena
	Record   *Recorder
	Marker   *Marker
	Animator *Animator

	mu             sync.RWMutex
	hero           *Hero
	status         string
	restartVisible bool
	attempted      []StepID
}

func NewSession(arena Arena) (*Session, error) {
	hero, err := NewHero()
	if err != nil {
		return nil, err
	}
	rec := NewRecorder()
	marker := NewMarker(arena)
	return &Session{
		ID:       uuid.New(),
		Arena:    arena,
		Record:   rec,
		Marker:   marker,
		Animator: NewAnimator(arena, rec, marker),
		hero:     hero,
	}, nil
}

// Restart returns a fresh session on the same arena
func (s *Session) Restart() (*Session, error) {
	next, err := NewSession(s.Arena)
	if err != nil {
		return nil, fmt.Errorf("failed to restart session: %w", err)
	}
	return next, nil
}

// SetStatus implements StatusSink
func (s *Session) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *Session) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// RestartVisible reports whether the restart control should be shown
func (s *Session) RestartVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restartVisible
}

// HeroHP returns the hero's current and maximum HP
func (s *Session) HeroHP() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hero.HP(), s.hero.MaxHP()
}

// Attempted lists the steps a run has started, in order
func (s *Session) Attempted() []StepID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]StepID(nil), s.attempted...)
}

func (s *Session) beginRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restartVisible = false
	s.attempted = s.attempted[:0]
}

func (s *Session) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restartVisible = true
}

func (s *Session) markAttempted(id StepID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempted = append(s.attempted, id)
}

func (s *Session) woundHero() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hero.Wound()
}
