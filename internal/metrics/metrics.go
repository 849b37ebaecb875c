package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BenjiKandl/apertif/pkg/telemetry"
)

// Rejection reasons recorded on RSVPsRejected
const (
	ReasonValidation = "validation"
	ReasonNotFound   = "not_found"
	ReasonCapacity   = "capacity"
	ReasonDuplicate  = "duplicate"
	ReasonStorage    = "storage"
)

var (
	EventsCreated *telemetry.Counter
	RSVPsAccepted *telemetry.Counter
	RSVPsRejected *telemetry.Counter

	initOnce sync.Once
	initErr  error
)

// Init creates the counters on the global meter provider. Counters left nil
// (Init not called) are no-ops.
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	EventsCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "apertif_events_created_total",
		Description: "Total number of dinner events created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	RSVPsAccepted, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "apertif_rsvps_accepted_total",
		Description: "Total number of RSVPs admitted to an event",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	RSVPsRejected, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "apertif_rsvps_rejected_total",
		Description: "Total number of RSVPs turned away, by reason",
		Unit:        "1",
	})
	return err
}

// RecordEventCreated increments EventsCreated
func RecordEventCreated(ctx context.Context) {
	EventsCreated.Inc(ctx)
}

// RecordRSVPAccepted increments RSVPsAccepted
func RecordRSVPAccepted(ctx context.Context, eventID string) {
	RSVPsAccepted.Inc(ctx, attribute.String("event_id", eventID))
}

// RecordRSVPRejected increments RSVPsRejected with the reason
func RecordRSVPRejected(ctx context.Context, reason string) {
	RSVPsRejected.Inc(ctx, attribute.String("reason", reason))
}
