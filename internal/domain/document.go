package domain

import "encoding/json"

// Document is the persisted unit: one event and the guests it owns
type Document struct {
	Event  Event   `json:"event"`
	Guests []Guest `json:"guests"`
}

// NewDocument starts a document with an empty guest list
func NewDocument(event Event) *Document {
	return &Document{
		Event:  event,
		Guests: []Guest{},
	}
}

// GuestCount returns the number of admitted guests
func (d *Document) GuestCount() int {
	return len(d.Guests)
}

// IsFull reports whether the capacity has been reached
func (d *Document) IsFull() bool {
	return d.Event.HasCapacity() && len(d.Guests) >= *d.Event.Capacity
}

// Clone returns a deep copy so callers can mutate without touching a stored value
func (d *Document) Clone() *Document {
	out := &Document{Event: d.Event, Guests: make([]Guest, len(d.Guests))}
	if d.Event.Capacity != nil {
		v := *d.Event.Capacity
		out.Event.Capacity = &v
	}
	if d.Event.ArrivalSlotMinutes != nil {
		v := *d.Event.ArrivalSlotMinutes
		out.Event.ArrivalSlotMinutes = &v
	}
	if d.Event.BufferTime != nil {
		v := *d.Event.BufferTime
		out.Event.BufferTime = &v
	}
	for i, g := range d.Guests {
		g.Diet = append([]DietTag(nil), g.Diet...)
		if g.Diet == nil {
			g.Diet = []DietTag{}
		}
		out.Guests[i] = g
	}
	return out
}

// Marshal encodes the document in its stored JSON shape
func (d *Document) Marshal() ([]byte, error) {
	if d.Guests == nil {
		d.Guests = []Guest{}
	}
	return json.Marshal(d)
}

// UnmarshalDocument decodes a stored document, defaulting a missing guest list
func UnmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Guests == nil {
		doc.Guests = []Guest{}
	}
	for i := range doc.Guests {
		if doc.Guests[i].Diet == nil {
			doc.Guests[i].Diet = []DietTag{}
		}
	}
	return &doc, nil
}
