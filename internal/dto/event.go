package dto

import (
	"strings"

	"github.com/BenjiKandl/apertif/internal/domain"
)

// CreateEventRequest represents the host's invitation form
type CreateEventRequest struct {
	Title              string `json:"title" binding:"max=200"`
	Date               string `json:"date" binding:"max=32"`
	Time               string `json:"time" binding:"max=32"`
	Station            string `json:"station" binding:"max=200"`
	Address            string `json:"address" binding:"max=500"`
	Cuisine            string `json:"cuisine" binding:"max=200"`
	Protein            string `json:"protein" binding:"max=200"`
	SpiceLevel         int    `json:"spiceLevel"`
	BufferTime         *int   `json:"bufferTime"`
	DressCode          string `json:"dressCode" binding:"max=200"`
	Capacity           *int   `json:"capacity"`
	ArrivalSlotMinutes *int   `json:"arrivalSlotMinutes"`
	IsAnonymous        bool   `json:"isAnonymous"`
	Theme              string `json:"theme"`
	ImageURL           string `json:"imageUrl" binding:"max=2048"`
}

// ToEvent converts the form into a domain Event. A zero capacity or slot
// interval from the form means "not set".
func (r *CreateEventRequest) ToEvent() domain.Event {
	return domain.Event{
		Title:              strings.TrimSpace(r.Title),
		Date:               strings.TrimSpace(r.Date),
		Time:               strings.TrimSpace(r.Time),
		Station:            strings.TrimSpace(r.Station),
		Address:            strings.TrimSpace(r.Address),
		Cuisine:            strings.TrimSpace(r.Cuisine),
		Protein:            strings.TrimSpace(r.Protein),
		SpiceLevel:         r.SpiceLevel,
		BufferTime:         r.BufferTime,
		DressCode:          strings.TrimSpace(r.DressCode),
		Capacity:           zeroAsUnset(r.Capacity),
		ArrivalSlotMinutes: zeroAsUnset(r.ArrivalSlotMinutes),
		IsAnonymous:        r.IsAnonymous,
		Theme:              domain.Theme(strings.ToLower(strings.TrimSpace(r.Theme))),
		ImageURL:           strings.TrimSpace(r.ImageURL),
	}
}

func zeroAsUnset(v *int) *int {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}

// CreateEventResponse carries the new id and the links to share
type CreateEventResponse struct {
	ID       string       `json:"id"`
	HostLink string       `json:"hostLink"`
	RSVPLink string       `json:"rsvpLink"`
	Event    domain.Event `json:"event"`
}

// EventResponse is the stored document plus derived display fields
type EventResponse struct {
	ID         string         `json:"id"`
	Event      domain.Event   `json:"event"`
	Guests     []domain.Guest `json:"guests"`
	GuestCount int            `json:"guestCount"`
	IsFull     bool           `json:"isFull"`
	SpiceLabel string         `json:"spiceLabel"`
	Location   string         `json:"location"`
}

// NewEventResponse builds an EventResponse from a stored document
func NewEventResponse(id string, doc *domain.Document) *EventResponse {
	guests := doc.Guests
	if guests == nil {
		guests = []domain.Guest{}
	}
	return &EventResponse{
		ID:         id,
		Event:      doc.Event,
		Guests:     guests,
		GuestCount: doc.GuestCount(),
		IsFull:     doc.IsFull(),
		SpiceLabel: doc.Event.SpiceLabel(),
		Location:   doc.Event.Location(),
	}
}
