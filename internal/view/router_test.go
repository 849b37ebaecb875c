package view

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjiKandl/apertif/internal/domain"
	"github.com/BenjiKandl/apertif/internal/repository"
)

const base = "https://apertif.example/"

func intPtr(v int) *int { return &v }

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  ViewState
	}{
		{"empty", "", HostCreate},
		{"blank event", "event=", HostCreate},
		{"rsvp without event", "rsvp=1", HostCreate},
		{"event only", "event=abc12345", HostDashboard},
		{"rsvp", "event=abc12345&rsvp=1", GuestRSVP},
		{"rsvp true", "event=abc12345&rsvp=TRUE", GuestRSVP},
		{"rsvp yes", "event=abc12345&rsvp=yes", GuestRSVP},
		{"rsvp zero", "event=abc12345&rsvp=0", HostDashboard},
		{"host", "event=abc12345&host=1", HostDashboard},
		{"host wins over rsvp", "event=abc12345&rsvp=1&host=1", HostDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Resolve(q))
		})
	}
}

func TestLinks(t *testing.T) {
	assert.Equal(t, "https://apertif.example/?event=abc12345", HostLink(base, "abc12345"))
	assert.Equal(t, "https://apertif.example/?event=abc12345&rsvp=1", RSVPLink(base, "abc12345"))

	t.Run("links resolve back to their screens", func(t *testing.T) {
		host, err := url.Parse(HostLink(base, "abc12345"))
		require.NoError(t, err)
		assert.Equal(t, HostDashboard, Resolve(host.Query()))
		assert.Equal(t, "abc12345", EventParam(host.Query()))

		rsvp, err := url.Parse(RSVPLink(base, "abc12345"))
		require.NoError(t, err)
		assert.Equal(t, GuestRSVP, Resolve(rsvp.Query()))
		assert.Equal(t, "abc12345", EventParam(rsvp.Query()))
	})

	t.Run("stale view params on base are replaced", func(t *testing.T) {
		link := RSVPLink("https://apertif.example/app?event=old&host=1&lang=en", "abc12345")
		assert.Equal(t, "https://apertif.example/app?event=abc12345&lang=en&rsvp=1", link)
	})
}

func TestAfterCreate(t *testing.T) {
	q := AfterCreate("abc12345")

	assert.Equal(t, HostDashboard, Resolve(q))
	assert.Empty(t, q.Get(ParamRSVP))
}

func newTestRouter(t *testing.T) (*Router, *repository.MemoryEventStore, *repository.MemoryMarkerStore) {
	t.Helper()
	store := repository.NewMemoryEventStore()
	markers := repository.NewMemoryMarkerStore()
	return NewRouter(store, markers, base), store, markers
}

func seedEvent(t *testing.T, store repository.EventStore, anonymous bool) string {
	t.Helper()
	ctx := context.Background()
	id, err := store.Create(ctx, domain.NewDocument(domain.Event{
		Title:       "Dinner",
		Date:        "2024-05-01",
		Time:        "19:00",
		Station:     "Angel",
		Capacity:    intPtr(3),
		IsAnonymous: anonymous,
	}))
	require.NoError(t, err)

	doc, err := store.Load(ctx, id)
	require.NoError(t, err)
	doc.Guests = append(doc.Guests, domain.Guest{Name: "Alice", Bottle: domain.BottleRed, Diet: []domain.DietTag{}})
	require.NoError(t, store.Replace(ctx, id, doc))
	return id
}

func TestRouter_Render(t *testing.T) {
	ctx := context.Background()

	t.Run("create form", func(t *testing.T) {
		r, _, _ := newTestRouter(t)

		app, err := r.Render(ctx, url.Values{}, "device-1")
		require.NoError(t, err)
		assert.Equal(t, HostCreate, app.View)
		assert.NotNil(t, app.Options)
		assert.Nil(t, app.Event)
	})

	t.Run("dashboard", func(t *testing.T) {
		r, store, _ := newTestRouter(t)
		id := seedEvent(t, store, false)

		app, err := r.Render(ctx, AfterCreate(id), "device-1")
		require.NoError(t, err)
		assert.Equal(t, HostDashboard, app.View)
		assert.Equal(t, id, app.EventID)
		require.NotNil(t, app.GuestList)
		assert.Equal(t, "Alice", app.GuestList.Guests[0].Name)
		assert.Equal(t, "Guest List (1/3)", app.GuestList.Header)
		assert.Equal(t, RSVPLink(base, id), app.RSVPLink)
		require.NotNil(t, app.SpotsLeft)
		assert.Equal(t, 2, *app.SpotsLeft)
	})

	t.Run("anonymous dashboard hides names", func(t *testing.T) {
		r, store, _ := newTestRouter(t)
		id := seedEvent(t, store, true)

		app, err := r.Render(ctx, AfterCreate(id), "device-1")
		require.NoError(t, err)
		assert.Equal(t, "Guest 1", app.GuestList.Guests[0].Name)
		assert.Empty(t, app.Event.Guests)
	})

	t.Run("dashboard for unknown event falls back to create", func(t *testing.T) {
		r, _, _ := newTestRouter(t)

		app, err := r.Render(ctx, url.Values{ParamEvent: {"zzzzzzzz"}}, "device-1")
		require.NoError(t, err)
		assert.Equal(t, HostCreate, app.View)
	})

	t.Run("rsvp form", func(t *testing.T) {
		r, store, markers := newTestRouter(t)
		id := seedEvent(t, store, false)
		q := url.Values{ParamEvent: {id}, ParamRSVP: {"1"}}

		app, err := r.Render(ctx, q, "device-1")
		require.NoError(t, err)
		assert.Equal(t, GuestRSVP, app.View)
		assert.False(t, app.AlreadyRSVPd)
		assert.Nil(t, app.GuestList)
		assert.Empty(t, app.Event.Guests)
		assert.Equal(t, 1, app.Event.GuestCount)

		require.NoError(t, markers.SetMarker(ctx, "device-1", id))
		app, err = r.Render(ctx, q, "device-1")
		require.NoError(t, err)
		assert.True(t, app.AlreadyRSVPd)

		app, err = r.Render(ctx, q, "device-2")
		require.NoError(t, err)
		assert.False(t, app.AlreadyRSVPd)
	})

	t.Run("rsvp for unknown event is not found", func(t *testing.T) {
		r, _, _ := newTestRouter(t)

		_, err := r.Render(ctx, url.Values{ParamEvent: {"zzzzzzzz"}, ParamRSVP: {"1"}}, "device-1")
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		r, _, _ := newTestRouter(t)

		_, err := r.Render(ctx, url.Values{ParamEvent: {"../x"}, ParamRSVP: {"1"}}, "device-1")
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
	})
}
