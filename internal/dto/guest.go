package dto

import (
	"fmt"
	"strings"

	"github.com/BenjiKandl/apertif/internal/domain"
)

// RSVPRequest represents a guest's reply
type RSVPRequest struct {
	Name   string   `json:"name" binding:"max=200"`
	Diet   []string `json:"diet"`
	Bottle string   `json:"bottle"`
}

// ToGuest converts the reply into a normalized domain Guest
func (r *RSVPRequest) ToGuest() domain.Guest {
	diet := make([]domain.DietTag, 0, len(r.Diet))
	for _, d := range r.Diet {
		diet = append(diet, domain.DietTag(strings.TrimSpace(d)))
	}
	g := domain.Guest{
		Name:   r.Name,
		Diet:   diet,
		Bottle: domain.Bottle(strings.TrimSpace(r.Bottle)),
	}
	g.Normalize()
	return g
}

// RSVPResponse confirms an accepted RSVP
type RSVPResponse struct {
	EventID     string `json:"eventId"`
	Position    int    `json:"position"`
	DisplayName string `json:"displayName"`
	ArrivalSlot string `json:"arrivalSlot,omitempty"`
	GuestCount  int    `json:"guestCount"`
	Capacity    *int   `json:"capacity,omitempty"`
}

// GuestEntry is one rendered line of the guest list
type GuestEntry struct {
	Position    int              `json:"position"`
	Name        string           `json:"name"`
	Diet        []domain.DietTag `json:"diet"`
	Bottle      domain.Bottle    `json:"bottle"`
	ArrivalSlot string           `json:"arrivalSlot,omitempty"`
}

// GuestListResponse is the dashboard guest list
type GuestListResponse struct {
	EventID  string       `json:"eventId"`
	Title    string       `json:"title"`
	Header   string       `json:"header"`
	Count    int          `json:"count"`
	Capacity *int         `json:"capacity,omitempty"`
	IsFull   bool         `json:"isFull"`
	Guests   []GuestEntry `json:"guests"`
}

// NewGuestListResponse renders the guest list, numbering guests instead of
// naming them on anonymous events.
func NewGuestListResponse(id string, doc *domain.Document) *GuestListResponse {
	anonymous := doc.Event.IsAnonymous
	guests := make([]GuestEntry, 0, len(doc.Guests))
	for i, g := range doc.Guests {
		diet := g.Diet
		if diet == nil {
			diet = []domain.DietTag{}
		}
		guests = append(guests, GuestEntry{
			Position:    i + 1,
			Name:        g.DisplayName(i+1, anonymous),
			Diet:        diet,
			Bottle:      g.Bottle,
			ArrivalSlot: g.ArrivalSlot,
		})
	}
	return &GuestListResponse{
		EventID:  id,
		Title:    doc.Event.Title,
		Header:   guestListHeader(len(doc.Guests), doc.Event.Capacity),
		Count:    len(doc.Guests),
		Capacity: doc.Event.Capacity,
		IsFull:   doc.IsFull(),
		Guests:   guests,
	}
}

// guestListHeader renders "Guest List (n)" or "Guest List (n/capacity)"
func guestListHeader(count int, capacity *int) string {
	if capacity != nil {
		return fmt.Sprintf("Guest List (%d/%d)", count, *capacity)
	}
	return fmt.Sprintf("Guest List (%d)", count)
}
