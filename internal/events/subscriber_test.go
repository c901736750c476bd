package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"contacts-service/internal/events"
	"contacts-service/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContactEvent(t *testing.T) {
	url := "http://storage.test/contact-cards/u/1.jpg"
	contact := &model.Contact{ID: uuid.New(), UserID: uuid.New(), FotoTarjetaURL: &url}
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	data := mustJSON(t, events.NewContactEvent(events.SubjectContactDeleted, contact, at))

	event, err := events.DecodeContactEvent(data)
	require.NoError(t, err)
	assert.Equal(t, events.SubjectContactDeleted, event.EventType)
	assert.Equal(t, contact.UserID, event.UserID)
	require.NotNil(t, event.ContactID)
	assert.Equal(t, contact.ID, *event.ContactID)
	require.NotNil(t, event.FotoTarjetaURL)
	assert.Equal(t, url, *event.FotoTarjetaURL)
	assert.True(t, at.Equal(event.OccurredAt))

	_, err = events.DecodeContactEvent([]byte("{not json"))
	assert.Error(t, err)
}

func TestRunWithRetry(t *testing.T) {
	calls := 0
	err := events.RunWithRetry(context.Background(), 3, 0, func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = events.RunWithRetry(context.Background(), 3, 0, func() error {
		calls++
		return errors.New("permanent")
	})
	assert.EqualError(t, err, "permanent")
	assert.Equal(t, 3, calls)
}

func TestRunWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := events.RunWithRetry(ctx, 3, time.Hour, func() error {
		calls++
		return errors.New("fails")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
