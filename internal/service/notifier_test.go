package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaNotifier_Notify(t *testing.T) {
	producer := &fakeProducer{}
	n := newKafkaNotifier(producer, "", "")

	err := n.Notify(context.Background(), &Notification{
		Type:        NotificationRSVPSubmitted,
		EventID:     "abc12345",
		Title:       "Dinner",
		GuestCount:  1,
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, DefaultNotificationTopic, msg.Topic)
	assert.Equal(t, []byte("abc12345"), msg.Key)
	assert.Equal(t, "rsvp.submitted", msg.Headers["event_type"])
	assert.Equal(t, "apertif", msg.Headers["source"])
	assert.NotEmpty(t, msg.Headers["event_id"])

	var decoded Notification
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "Alice", decoded.DisplayName)
	assert.False(t, decoded.OccurredAt.IsZero())
}

func TestKafkaNotifier_ProduceError(t *testing.T) {
	producer := &fakeProducer{err: assert.AnError}
	n := newKafkaNotifier(producer, "custom", "svc")

	err := n.Notify(context.Background(), &Notification{Type: NotificationEventCreated, EventID: "abc12345"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "custom", producer.messages[0].Topic)

	require.NoError(t, n.Close())
	assert.True(t, producer.closed)
}

func TestNewKafkaNotifier_Config(t *testing.T) {
	_, err := NewKafkaNotifier(context.Background(), nil)
	assert.Error(t, err)

	_, err = NewKafkaNotifier(context.Background(), &NotifierConfig{})
	assert.Error(t, err)
}

func TestNoOpNotifier(t *testing.T) {
	n := NewNoOpNotifier()
	assert.NoError(t, n.Notify(context.Background(), &Notification{}))
	assert.NoError(t, n.Close())
}
