package domain

import (
	"fmt"
	"strings"
)

// Guest is one RSVP attached to an Event. Guests are never edited or removed.
type Guest struct {
	Name        string    `json:"name,omitempty"`
	Diet        []DietTag `json:"diet"`
	Bottle      Bottle    `json:"bottle"`
	ArrivalSlot string    `json:"arrivalSlot,omitempty"`
}

// Normalize trims the name, collapses duplicate diet tags (keeping first
// appearance order) and applies the default bottle.
func (g *Guest) Normalize() {
	g.Name = strings.TrimSpace(g.Name)

	seen := make(map[DietTag]struct{}, len(g.Diet))
	diet := make([]DietTag, 0, len(g.Diet))
	for _, tag := range g.Diet {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		diet = append(diet, tag)
	}
	g.Diet = diet

	if g.Bottle == "" {
		g.Bottle = DefaultBottle
	}
}

// Validate checks the guest against the option sets. A name is only required
// when the event shows names.
func (g *Guest) Validate(anonymous bool) error {
	if !anonymous && strings.TrimSpace(g.Name) == "" {
		return NewValidationError(ErrMissingGuestName)
	}
	for _, tag := range g.Diet {
		if !tag.IsValid() {
			return NewValidationError(fmt.Errorf("%w: %s", ErrInvalidDiet, tag))
		}
	}
	if !g.Bottle.IsValid() {
		return NewValidationError(fmt.Errorf("%w: %s", ErrInvalidBottle, g.Bottle))
	}
	return nil
}

// DisplayName is the name shown on the guest list; anonymous events number
// guests instead.
func (g *Guest) DisplayName(position int, anonymous bool) string {
	if anonymous {
		return fmt.Sprintf("Guest %d", position)
	}
	return g.Name
}
