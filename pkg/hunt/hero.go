package hunt

import (
	"fmt"

	"github.com/jwebster45206/d20"
)

const (
	HeroMaxHP       = 10
	HeroAC          = 12
	HeroWoundDamage = 3
)

// Hero tracks the player character's health across a run
type Hero struct {
	Actor *d20.Actor
}

func NewHero() (*Hero, error) {
	actor, err := d20.NewActor("hero").
		WithHP(HeroMaxHP).
		WithAC(HeroAC).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build hero: %w", err)
	}
	return &Hero{Actor: actor}, nil
}

// Wound takes HeroWoundDamage from the hero. HP never drops below 1;
// a wound slows the hero down but never ends the hunt by itself.
func (h *Hero) Wound() error {
	hp := max(h.Actor.HP()-HeroWoundDamage, 1)
	if err := h.Actor.SetHP(hp); err != nil {
		return fmt.Errorf("failed to wound hero: %w", err)
	}
	return nil
}

func (h *Hero) HP() int {
	return h.Actor.HP()
}

func (h *Hero) MaxHP() int {
	return h.Actor.MaxHP()
}

// Wounded reports whether the hero has lost any HP
func (h *Hero) Wounded() bool {
	return h.Actor.HP() < h.Actor.MaxHP()
}
