package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/BenjiKandl/apertif/internal/calendar"
	"github.com/BenjiKandl/apertif/internal/domain"
	"github.com/BenjiKandl/apertif/internal/dto"
	"github.com/BenjiKandl/apertif/internal/metrics"
	"github.com/BenjiKandl/apertif/internal/repository"
	"github.com/BenjiKandl/apertif/internal/view"
	"github.com/BenjiKandl/apertif/pkg/logger"
	"github.com/BenjiKandl/apertif/pkg/telemetry"
)

// EventService defines the interface for hosting dinner events
type EventService interface {
	// CreateEvent validates the form and stores a new event with no guests
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.CreateEventResponse, error)
	// GetEvent loads the stored document
	GetEvent(ctx context.Context, id string) (*domain.Document, error)
	// GuestList renders the guest list shown on the dashboard
	GuestList(ctx context.Context, id string) (*dto.GuestListResponse, error)
	// Calendar exports the event as an iCalendar file
	Calendar(ctx context.Context, id string) ([]byte, error)
}

// EventServiceConfig holds the settings EventService needs
type EventServiceConfig struct {
	PublicURL string
}

type eventService struct {
	store    repository.EventStore
	notifier Notifier
	log      *logger.Logger
	cfg      EventServiceConfig
}

// NewEventService creates a new EventService
func NewEventService(store repository.EventStore, notifier Notifier, log *logger.Logger, cfg EventServiceConfig) EventService {
	if notifier == nil {
		notifier = NewNoOpNotifier()
	}
	if log == nil {
		log = logger.Get()
	}
	return &eventService{store: store, notifier: notifier, log: log, cfg: cfg}
}

// CreateEvent stores the event and returns the links the host shares
func (s *eventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.CreateEventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.create")
	defer span.End()

	event := req.ToEvent()
	if err := event.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	doc := domain.NewDocument(event)
	id, err := s.store.Create(ctx, doc)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("event_id", id))
	span.SetStatus(codes.Ok, "")
	metrics.RecordEventCreated(ctx)
	s.log.Info("Event created", zap.String("event_id", id), zap.String("title", event.Title))

	if err := s.notifier.Notify(ctx, &Notification{
		Type:     NotificationEventCreated,
		EventID:  id,
		Title:    event.Title,
		Capacity: event.Capacity,
	}); err != nil {
		s.log.Warn("Failed to publish event notification", zap.String("event_id", id), zap.Error(err))
	}

	return &dto.CreateEventResponse{
		ID:       id,
		HostLink: view.HostLink(s.cfg.PublicURL, id),
		RSVPLink: view.RSVPLink(s.cfg.PublicURL, id),
		Event:    event,
	}, nil
}

// GetEvent loads the stored document
func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.get")
	defer span.End()
	span.SetAttributes(attribute.String("event_id", id))

	if err := repository.ValidateEventID(id); err != nil {
		span.SetStatus(codes.Error, "invalid event id")
		return nil, err
	}

	doc, err := s.store.Load(ctx, id)
	if err != nil {
		if !domain.IsNotFoundError(err) {
			telemetry.RecordError(span, err)
		}
		return nil, err
	}
	return doc, nil
}

// GuestList renders the dashboard guest list
func (s *eventService) GuestList(ctx context.Context, id string) (*dto.GuestListResponse, error) {
	doc, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewGuestListResponse(id, doc), nil
}

// Calendar exports the event as an iCalendar file
func (s *eventService) Calendar(ctx context.Context, id string) ([]byte, error) {
	doc, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return calendar.Export(doc.Event)
}
