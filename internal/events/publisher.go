package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"contacts-service/internal/model"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	SubjectContactCreated       = "contact.created"
	SubjectContactUpdated       = "contact.updated"
	SubjectContactDeleted       = "contact.deleted"
	SubjectContactPhotoUploaded = "contact.photo_uploaded"
)

type EventPublisher interface {
	PublishContactCreated(contact *model.Contact) error
	PublishContactUpdated(contact *model.Contact) error
	PublishContactDeleted(contact *model.Contact) error
	PublishPhotoUploaded(userID uuid.UUID, path, url string) error
	Close()
}

// ContactEvent is the payload of every contact.* subject. Deleted events keep
// the photo URL so a consumer can clean up the stored object.
type ContactEvent struct {
	EventType      string     `json:"event_type"`
	ContactID      *uuid.UUID `json:"contact_id,omitempty"`
	UserID         uuid.UUID  `json:"user_id"`
	FotoTarjetaURL *string    `json:"foto_tarjeta_url,omitempty"`
	ObjectPath     string     `json:"object_path,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

type NatsPublisher struct {
	conn *nats.Conn
	now  func() time.Time
}

func NewNatsPublisher(natsURL string) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL, nats.Name("contacts-service"))
	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc, now: time.Now}, nil
}

func NewContactEvent(eventType string, contact *model.Contact, at time.Time) ContactEvent {
	contactID := contact.ID
	return ContactEvent{
		EventType:      eventType,
		ContactID:      &contactID,
		UserID:         contact.UserID,
		FotoTarjetaURL: contact.FotoTarjetaURL,
		OccurredAt:     at.UTC(),
	}
}

func (p *NatsPublisher) PublishContactCreated(contact *model.Contact) error {
	return p.publish(SubjectContactCreated, NewContactEvent(SubjectContactCreated, contact, p.now()))
}

func (p *NatsPublisher) PublishContactUpdated(contact *model.Contact) error {
	return p.publish(SubjectContactUpdated, NewContactEvent(SubjectContactUpdated, contact, p.now()))
}

func (p *NatsPublisher) PublishContactDeleted(contact *model.Contact) error {
	return p.publish(SubjectContactDeleted, NewContactEvent(SubjectContactDeleted, contact, p.now()))
}

func (p *NatsPublisher) PublishPhotoUploaded(userID uuid.UUID, path, url string) error {
	return p.publish(SubjectContactPhotoUploaded, ContactEvent{
		EventType:      SubjectContactPhotoUploaded,
		UserID:         userID,
		ObjectPath:     path,
		FotoTarjetaURL: &url,
		OccurredAt:     p.now().UTC(),
	})
}

func (p *NatsPublisher) publish(subject string, event ContactEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		slog.Error("Error marshalling event JSON", slog.String("subject", subject), slog.String("error", err.Error()))
		return err
	}

	if err := p.conn.Publish(subject, eventJSON); err != nil {
		slog.Error("Error publishing to NATS", slog.String("subject", subject), slog.String("error", err.Error()))
		return err
	}

	slog.Debug("Published event to NATS", slog.String("subject", subject), slog.String("user_id", event.UserID.String()))

	return nil
}

func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// NoopPublisher is used when no NATS_URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishContactCreated(*model.Contact) error { return nil }

func (NoopPublisher) PublishContactUpdated(*model.Contact) error { return nil }

func (NoopPublisher) PublishContactDeleted(*model.Contact) error { return nil }

func (NoopPublisher) PublishPhotoUploaded(uuid.UUID, string, string) error { return nil }

func (NoopPublisher) Close() {}
