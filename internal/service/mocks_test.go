package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/BenjiKandl/apertif/internal/domain"
	"github.com/BenjiKandl/apertif/pkg/kafka"
)

// MockEventStore is a mock implementation of repository.EventStore
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Create(ctx context.Context, doc *domain.Document) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

func (m *MockEventStore) Load(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockEventStore) Replace(ctx context.Context, id string, doc *domain.Document) error {
	args := m.Called(ctx, id, doc)
	return args.Error(0)
}

// MockMarkerStore is a mock implementation of repository.RSVPMarkerStore
type MockMarkerStore struct {
	mock.Mock
}

func (m *MockMarkerStore) HasMarker(ctx context.Context, deviceID, eventID string) (bool, error) {
	args := m.Called(ctx, deviceID, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMarkerStore) SetMarker(ctx context.Context, deviceID, eventID string) error {
	args := m.Called(ctx, deviceID, eventID)
	return args.Error(0)
}

// recordingNotifier keeps every notification it is given
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []*Notification
	err           error
}

func (r *recordingNotifier) Notify(ctx context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return r.err
}

func (r *recordingNotifier) Close() error { return nil }

// fakeProducer captures produced messages
type fakeProducer struct {
	messages []*kafka.Message
	err      error
	closed   bool
}

func (f *fakeProducer) Produce(ctx context.Context, msg *kafka.Message) error {
	f.messages = append(f.messages, msg)
	return f.err
}

func (f *fakeProducer) Close() { f.closed = true }

func intPtr(v int) *int { return &v }

func dinnerDocument(capacity *int) *domain.Document {
	return domain.NewDocument(domain.Event{
		Title:    "Dinner",
		Date:     "2024-05-01",
		Time:     "19:00",
		Station:  "Angel",
		Capacity: capacity,
	})
}
