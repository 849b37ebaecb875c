package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/BenjiKandl/apertif/internal/domain"
	"github.com/BenjiKandl/apertif/internal/dto"
	"github.com/BenjiKandl/apertif/internal/metrics"
	"github.com/BenjiKandl/apertif/internal/repository"
	"github.com/BenjiKandl/apertif/pkg/logger"
	"github.com/BenjiKandl/apertif/pkg/telemetry"
)

// RSVPService defines the interface for guest admission
type RSVPService interface {
	// SubmitRSVP admits a guest to an event or says why not
	SubmitRSVP(ctx context.Context, deviceID, eventID string, req *dto.RSVPRequest) (*dto.RSVPResponse, error)
}

type rsvpService struct {
	store    repository.EventStore
	markers  repository.RSVPMarkerStore
	notifier Notifier
	log      *logger.Logger
}

// NewRSVPService creates a new RSVPService
func NewRSVPService(store repository.EventStore, markers repository.RSVPMarkerStore, notifier Notifier, log *logger.Logger) RSVPService {
	if notifier == nil {
		notifier = NewNoOpNotifier()
	}
	if log == nil {
		log = logger.Get()
	}
	return &rsvpService{store: store, markers: markers, notifier: notifier, log: log}
}

// SubmitRSVP loads the event, checks the guest, capacity and the device
// marker, then appends the guest and writes the whole document back.
//
// The capacity check and the write are not atomic: two guests submitting at
// the same moment can both pass the check, and the later write replaces the
// earlier one.
func (s *rsvpService) SubmitRSVP(ctx context.Context, deviceID, eventID string, req *dto.RSVPRequest) (*dto.RSVPResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.rsvp.submit")
	defer span.End()
	span.SetAttributes(attribute.String("event_id", eventID))

	resp, err := s.submit(ctx, deviceID, eventID, req)
	if err != nil {
		reason := rejectionReason(err)
		metrics.RecordRSVPRejected(ctx, reason)
		span.SetAttributes(attribute.String("rejection_reason", reason))
		if reason == metrics.ReasonStorage {
			telemetry.RecordError(span, err)
		} else {
			span.SetStatus(codes.Error, err.Error())
		}
		s.log.Info("RSVP rejected",
			zap.String("event_id", eventID),
			zap.String("reason", reason),
			zap.Error(err))
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	metrics.RecordRSVPAccepted(ctx, eventID)
	return resp, nil
}

func (s *rsvpService) submit(ctx context.Context, deviceID, eventID string, req *dto.RSVPRequest) (*dto.RSVPResponse, error) {
	if err := repository.ValidateEventID(eventID); err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx, eventID)
	if err != nil {
		return nil, err
	}

	guest := req.ToGuest()
	if err := guest.Validate(doc.Event.IsAnonymous); err != nil {
		return nil, err
	}

	if doc.IsFull() {
		return nil, domain.ErrCapacityExceeded
	}

	// Requests without a device id cannot be deduplicated
	if deviceID != "" {
		has, err := s.markers.HasMarker(ctx, deviceID, eventID)
		if err != nil {
			return nil, err
		}
		if has {
			return nil, domain.ErrDuplicateRSVP
		}
	}

	position := doc.GuestCount()
	if slot, ok := doc.Event.ArrivalSlot(position); ok {
		guest.ArrivalSlot = slot
	}

	doc.Guests = append(doc.Guests, guest)
	if err := s.store.Replace(ctx, eventID, doc); err != nil {
		return nil, err
	}

	if deviceID != "" {
		if err := s.markers.SetMarker(ctx, deviceID, eventID); err != nil {
			// The guest is already stored; only the duplicate guard is lost
			s.log.Warn("Failed to set RSVP marker",
				zap.String("event_id", eventID),
				zap.String("device_id", deviceID),
				zap.Error(err))
		}
	}

	displayName := guest.DisplayName(position+1, doc.Event.IsAnonymous)
	s.log.Info("RSVP accepted",
		zap.String("event_id", eventID),
		zap.Int("position", position+1),
		zap.String("arrival_slot", guest.ArrivalSlot))

	if err := s.notifier.Notify(ctx, &Notification{
		Type:        NotificationRSVPSubmitted,
		EventID:     eventID,
		Title:       doc.Event.Title,
		GuestCount:  doc.GuestCount(),
		Capacity:    doc.Event.Capacity,
		DisplayName: displayName,
		ArrivalSlot: guest.ArrivalSlot,
	}); err != nil {
		s.log.Warn("Failed to publish RSVP notification", zap.String("event_id", eventID), zap.Error(err))
	}

	return &dto.RSVPResponse{
		EventID:     eventID,
		Position:    position + 1,
		DisplayName: displayName,
		ArrivalSlot: guest.ArrivalSlot,
		GuestCount:  doc.GuestCount(),
		Capacity:    doc.Event.Capacity,
	}, nil
}

func rejectionReason(err error) string {
	switch {
	case domain.IsValidationError(err):
		return metrics.ReasonValidation
	case errors.Is(err, domain.ErrEventNotFound):
		return metrics.ReasonNotFound
	case errors.Is(err, domain.ErrCapacityExceeded):
		return metrics.ReasonCapacity
	case errors.Is(err, domain.ErrDuplicateRSVP):
		return metrics.ReasonDuplicate
	default:
		return metrics.ReasonStorage
	}
}
