package domain

import (
	"errors"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func validEvent() Event {
	return Event{
		Title:   "Dinner",
		Date:    "2024-05-01",
		Time:    "19:00",
		Station: "Angel",
	}
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *Event)
		wantErr error
	}{
		{"valid", func(e *Event) {}, nil},
		{"missing title", func(e *Event) { e.Title = "  " }, ErrMissingTitle},
		{"missing date", func(e *Event) { e.Date = "" }, ErrMissingDate},
		{"missing time", func(e *Event) { e.Time = "" }, ErrMissingTime},
		{"missing station", func(e *Event) { e.Station = "" }, ErrMissingStation},
		{"bad date", func(e *Event) { e.Date = "01/05/2024" }, ErrInvalidDate},
		{"bad time", func(e *Event) { e.Time = "7pm" }, ErrInvalidTime},
		{"spice too hot", func(e *Event) { e.SpiceLevel = 4 }, ErrInvalidSpiceLevel},
		{"negative spice", func(e *Event) { e.SpiceLevel = -1 }, ErrInvalidSpiceLevel},
		{"zero capacity", func(e *Event) { e.Capacity = intPtr(0) }, ErrInvalidCapacity},
		{"zero slot interval", func(e *Event) { e.ArrivalSlotMinutes = intPtr(0) }, ErrInvalidSlot},
		{"negative buffer", func(e *Event) { e.BufferTime = intPtr(-5) }, ErrInvalidBuffer},
		{"unknown theme", func(e *Event) { e.Theme = "disco" }, ErrInvalidTheme},
		{"relative image", func(e *Event) { e.ImageURL = "/img.png" }, ErrInvalidImageURL},
		{"ftp image", func(e *Event) { e.ImageURL = "ftp://host/img.png" }, ErrInvalidImageURL},
		{"all optionals", func(e *Event) {
			e.Capacity = intPtr(6)
			e.ArrivalSlotMinutes = intPtr(15)
			e.BufferTime = intPtr(30)
			e.Theme = ThemeGarden
			e.ImageURL = "https://example.com/hero.jpg"
			e.SpiceLevel = 3
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !IsValidationError(err) {
				t.Errorf("Validate() error %v should be a validation error", err)
			}
		})
	}
}

func TestEvent_ArrivalSlot(t *testing.T) {
	e := validEvent()
	if _, ok := e.ArrivalSlot(0); ok {
		t.Fatal("ArrivalSlot() should be absent when slots are disabled")
	}

	tests := []struct {
		name     string
		date     string
		time     string
		interval int
		want     []string
	}{
		{"same evening", "2024-05-01", "19:00", 20, []string{"19:00", "19:20", "19:40", "20:00"}},
		{"crosses midnight", "2024-05-01", "23:30", 30, []string{"23:30", "2024-05-02 00:00", "2024-05-02 00:30"}},
		{"whole-day interval", "2024-05-01", "19:00", 1440, []string{"19:00", "2024-05-02 19:00", "2024-05-03 19:00"}},
		{"crosses year end", "2024-12-31", "23:00", 60, []string{"23:00", "2025-01-01 00:00", "2025-01-01 01:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			e.Date = tt.date
			e.Time = tt.time
			e.ArrivalSlotMinutes = intPtr(tt.interval)

			var prev time.Time
			for i, w := range tt.want {
				got, ok := e.ArrivalSlot(i)
				if !ok {
					t.Fatalf("ArrivalSlot(%d) missing", i)
				}
				if got != w {
					t.Errorf("ArrivalSlot(%d) = %s, want %s", i, got, w)
				}
				at := slotTime(t, e.Date, got)
				if i > 0 && at.Sub(prev) != time.Duration(tt.interval)*time.Minute {
					t.Errorf("ArrivalSlot(%d) is %v after the previous slot, want %d minutes", i, at.Sub(prev), tt.interval)
				}
				prev = at
			}
		})
	}
}

// slotTime parses a slot label back into a time, resolving HH:MM labels
// against the event date.
func slotTime(t *testing.T, date, label string) time.Time {
	t.Helper()
	if at, err := time.Parse(SlotDateTimeLayout, label); err == nil {
		return at
	}
	at, err := time.Parse(SlotDateTimeLayout, date+" "+label)
	if err != nil {
		t.Fatalf("unparseable slot label %q: %v", label, err)
	}
	return at
}

func TestEvent_Location(t *testing.T) {
	e := validEvent()
	if got := e.Location(); got != "Angel" {
		t.Errorf("Location() = %q", got)
	}
	e.Address = "1 Upper St"
	if got := e.Location(); got != "Angel, 1 Upper St" {
		t.Errorf("Location() = %q", got)
	}
}

func TestEvent_SpiceLabel(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{0, "Mild"},
		{1, "🌶"},
		{3, "🌶🌶🌶"},
	}
	for _, tt := range tests {
		e := Event{SpiceLevel: tt.level}
		if got := e.SpiceLabel(); got != tt.want {
			t.Errorf("SpiceLabel(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
