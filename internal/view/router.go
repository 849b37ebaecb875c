// Package view decides which screen a URL addresses and assembles the state
// that screen needs.
package view

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/BenjiKandl/apertif/internal/domain"
	"github.com/BenjiKandl/apertif/internal/dto"
	"github.com/BenjiKandl/apertif/internal/repository"
)

// ViewState is one of the three screens
type ViewState string

const (
	HostCreate    ViewState = "host_create"
	HostDashboard ViewState = "host_dashboard"
	GuestRSVP     ViewState = "guest_rsvp"
)

// Query parameters understood by Resolve
const (
	ParamEvent = "event"
	ParamRSVP  = "rsvp"
	ParamHost  = "host"
)

// Resolve maps query parameters to a screen. The host flag wins over the
// rsvp flag so a host can always reach the dashboard.
func Resolve(query url.Values) ViewState {
	if EventParam(query) == "" {
		return HostCreate
	}
	if truthy(query.Get(ParamHost)) {
		return HostDashboard
	}
	if truthy(query.Get(ParamRSVP)) {
		return GuestRSVP
	}
	return HostDashboard
}

// EventParam returns the trimmed event id from the query
func EventParam(query url.Values) string {
	return strings.TrimSpace(query.Get(ParamEvent))
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// AfterCreate returns the query a host lands on after creating an event:
// the event id with any rsvp flag cleared.
func AfterCreate(id string) url.Values {
	return url.Values{ParamEvent: []string{id}}
}

// HostLink returns base?event=id
func HostLink(base, id string) string {
	return withQuery(base, AfterCreate(id))
}

// RSVPLink returns base?event=id&rsvp=1
func RSVPLink(base, id string) string {
	q := AfterCreate(id)
	q.Set(ParamRSVP, "1")
	return withQuery(base, q)
}

func withQuery(base string, q url.Values) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + q.Encode()
	}
	existing := u.Query()
	existing.Del(ParamEvent)
	existing.Del(ParamRSVP)
	existing.Del(ParamHost)
	for k, vs := range q {
		existing[k] = vs
	}
	u.RawQuery = existing.Encode()
	return u.String()
}

// AppState is everything a screen needs to render
type AppState struct {
	View         ViewState              `json:"view"`
	EventID      string                 `json:"eventId,omitempty"`
	Event        *dto.EventResponse     `json:"event,omitempty"`
	GuestList    *dto.GuestListResponse `json:"guestList,omitempty"`
	HostLink     string                 `json:"hostLink,omitempty"`
	RSVPLink     string                 `json:"rsvpLink,omitempty"`
	AlreadyRSVPd bool                   `json:"alreadyRsvpd"`
	IsFull       bool                   `json:"isFull"`
	SpotsLeft    *int                   `json:"spotsLeft,omitempty"`
	Options      *dto.OptionsResponse   `json:"options,omitempty"`
}

// Router renders AppState from the stored documents
type Router struct {
	store   repository.EventStore
	markers repository.RSVPMarkerStore
	baseURL string
}

// NewRouter creates a new Router. baseURL prefixes the shareable links.
func NewRouter(store repository.EventStore, markers repository.RSVPMarkerStore, baseURL string) *Router {
	return &Router{store: store, markers: markers, baseURL: baseURL}
}

// Render resolves query and loads what the screen shows. A dashboard for an
// event that does not exist falls back to the create form; an RSVP link to a
// missing event is domain.ErrEventNotFound.
func (r *Router) Render(ctx context.Context, query url.Values, deviceID string) (*AppState, error) {
	state := Resolve(query)
	if state == HostCreate {
		return r.createState(), nil
	}

	id := EventParam(query)
	doc, err := r.load(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) && state == HostDashboard {
			return r.createState(), nil
		}
		return nil, err
	}

	app := &AppState{
		View:     state,
		EventID:  id,
		Event:    dto.NewEventResponse(id, doc),
		HostLink: HostLink(r.baseURL, id),
		RSVPLink: RSVPLink(r.baseURL, id),
		IsFull:   doc.IsFull(),
	}
	// Guests are rendered through GuestList so anonymous events stay anonymous
	app.Event.Guests = []domain.Guest{}
	if doc.Event.HasCapacity() {
		left := *doc.Event.Capacity - doc.GuestCount()
		if left < 0 {
			left = 0
		}
		app.SpotsLeft = &left
	}

	switch state {
	case HostDashboard:
		app.GuestList = dto.NewGuestListResponse(id, doc)
	case GuestRSVP:
		app.Options = dto.NewOptionsResponse()
		if deviceID != "" {
			has, err := r.markers.HasMarker(ctx, deviceID, id)
			if err != nil {
				return nil, err
			}
			app.AlreadyRSVPd = has
		}
	}

	return app, nil
}

func (r *Router) createState() *AppState {
	return &AppState{
		View:    HostCreate,
		Options: dto.NewOptionsResponse(),
	}
}

func (r *Router) load(ctx context.Context, id string) (*domain.Document, error) {
	if err := repository.ValidateEventID(id); err != nil {
		return nil, domain.ErrEventNotFound
	}
	return r.store.Load(ctx, id)
}
