package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"contacts-service/internal/events"
	"contacts-service/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestContactEvent_Marshal(t *testing.T) {
	url := "http://minio:9000/contact-cards/u/1.jpg"
	c := &model.Contact{ID: uuid.New(), UserID: uuid.New(), FotoTarjetaURL: &url}

	ev := events.NewContactEvent(events.SubjectContactDeleted, c, time.Now())

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "contact.deleted", decoded["event_type"])
	require.Equal(t, c.ID.String(), decoded["contact_id"])
	require.Equal(t, c.UserID.String(), decoded["user_id"])
	require.Equal(t, url, decoded["foto_tarjeta_url"])
	require.NotContains(t, decoded, "object_path")
}

func TestPhotoUploadedEvent_OmitsContact(t *testing.T) {
	ev := events.ContactEvent{
		EventType:  events.SubjectContactPhotoUploaded,
		UserID:     uuid.New(),
		ObjectPath: "u/1.jpg",
		OccurredAt: time.Now(),
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.NotContains(t, decoded, "contact_id")
	require.Equal(t, "u/1.jpg", decoded["object_path"])
}

func TestNoopPublisher(t *testing.T) {
	var p events.EventPublisher = events.NoopPublisher{}
	require.NoError(t, p.PublishContactCreated(&model.Contact{}))
	require.NoError(t, p.PublishPhotoUploaded(uuid.New(), "p", "u"))
	p.Close()
}
