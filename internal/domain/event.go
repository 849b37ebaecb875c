package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Date and time layouts used by the invitation form
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// SlotDateTimeLayout labels arrival slots past the event date
	SlotDateTimeLayout = "2006-01-02 15:04"
)

// Event is a hosted dinner party. Host-entered fields are fixed after creation;
// the only mutation is appending guests to the owning Document.
type Event struct {
	Title              string `json:"title"`
	Date               string `json:"date"`
	Time               string `json:"time"`
	Station            string `json:"station"`
	Address            string `json:"address,omitempty"`
	Cuisine            string `json:"cuisine,omitempty"`
	Protein            string `json:"protein,omitempty"`
	SpiceLevel         int    `json:"spiceLevel"`
	BufferTime         *int   `json:"bufferTime,omitempty"`
	DressCode          string `json:"dressCode,omitempty"`
	Capacity           *int   `json:"capacity,omitempty"`
	ArrivalSlotMinutes *int   `json:"arrivalSlotMinutes,omitempty"`
	IsAnonymous        bool   `json:"isAnonymous"`
	Theme              Theme  `json:"theme,omitempty"`
	ImageURL           string `json:"imageUrl,omitempty"`
}

// Validate checks the fields a host must supply before an event can be created
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return NewValidationError(ErrMissingTitle)
	}
	if strings.TrimSpace(e.Date) == "" {
		return NewValidationError(ErrMissingDate)
	}
	if strings.TrimSpace(e.Time) == "" {
		return NewValidationError(ErrMissingTime)
	}
	if strings.TrimSpace(e.Station) == "" {
		return NewValidationError(ErrMissingStation)
	}
	if _, err := e.Start(); err != nil {
		return err
	}
	if e.SpiceLevel < 0 || e.SpiceLevel > MaxSpiceLevel {
		return NewValidationError(ErrInvalidSpiceLevel)
	}
	if e.Capacity != nil && *e.Capacity <= 0 {
		return NewValidationError(ErrInvalidCapacity)
	}
	if e.ArrivalSlotMinutes != nil && *e.ArrivalSlotMinutes <= 0 {
		return NewValidationError(ErrInvalidSlot)
	}
	if e.BufferTime != nil && *e.BufferTime < 0 {
		return NewValidationError(ErrInvalidBuffer)
	}
	if e.Theme != "" && !e.Theme.IsValid() {
		return NewValidationError(fmt.Errorf("%w: %s", ErrInvalidTheme, e.Theme))
	}
	if e.ImageURL != "" {
		u, err := url.Parse(e.ImageURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return NewValidationError(ErrInvalidImageURL)
		}
	}
	return nil
}

// Start returns the wall-clock start of the event. The date and time carry no
// zone, so the result is expressed in UTC and only used for arithmetic and
// formatting.
func (e *Event) Start() (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(e.Date))
	if err != nil {
		return time.Time{}, NewValidationError(ErrInvalidDate)
	}
	t, err := time.Parse(TimeLayout, strings.TrimSpace(e.Time))
	if err != nil {
		return time.Time{}, NewValidationError(ErrInvalidTime)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// HasCapacity reports whether the host capped the guest list
func (e *Event) HasCapacity() bool {
	return e.Capacity != nil && *e.Capacity > 0
}

// SlotsEnabled reports whether guests get staggered arrival times
func (e *Event) SlotsEnabled() bool {
	return e.ArrivalSlotMinutes != nil && *e.ArrivalSlotMinutes > 0
}

// ArrivalSlot returns the arrival label for the guest at position index
// (0-based, in submission order): start + index*interval. Slots on the event
// date are labelled HH:MM; later days carry the date as well.
func (e *Event) ArrivalSlot(index int) (string, bool) {
	if !e.SlotsEnabled() || index < 0 {
		return "", false
	}
	start, err := e.Start()
	if err != nil {
		return "", false
	}
	slot := start.Add(time.Duration(index) * time.Duration(*e.ArrivalSlotMinutes) * time.Minute)
	if slot.YearDay() != start.YearDay() || slot.Year() != start.Year() {
		return slot.Format(SlotDateTimeLayout), true
	}
	return slot.Format(TimeLayout), true
}

// Location returns the station followed by the address when one is set
func (e *Event) Location() string {
	if e.Address == "" {
		return e.Station
	}
	return e.Station + ", " + e.Address
}

// SpiceLabel renders the spice level the way the dashboard shows it
func (e *Event) SpiceLabel() string {
	if e.SpiceLevel <= 0 {
		return "Mild"
	}
	return strings.Repeat("🌶", e.SpiceLevel)
}
