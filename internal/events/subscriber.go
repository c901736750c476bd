package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	maxRetries = 3
	retryDelay = 2 * time.Second

	// SubjectPhotoCleanupFailed receives contact.deleted payloads whose
	// handler kept failing.
	SubjectPhotoCleanupFailed = "contact.photo_cleanup.failed"
)

type ContactEventHandler func(ctx context.Context, event ContactEvent) error

type Subscriber struct {
	conn       *nats.Conn
	retryDelay time.Duration
}

func NewSubscriber(natsURL, name string) (*Subscriber, error) {
	nc, err := nats.Connect(natsURL, nats.Name(name))
	if err != nil {
		return nil, err
	}
	slog.Info("Subscriber connected to NATS", slog.String("name", name))

	return &Subscriber{conn: nc, retryDelay: retryDelay}, nil
}

// SubscribeContactDeleted delivers every contact.deleted event to handler,
// once per queue group. Events that still fail after maxRetries attempts are
// forwarded to SubjectPhotoCleanupFailed.
func (s *Subscriber) SubscribeContactDeleted(queue string, handler ContactEventHandler) (*nats.Subscription, error) {
	sub, err := s.conn.QueueSubscribe(SubjectContactDeleted, queue, func(msg *nats.Msg) {
		event, err := DecodeContactEvent(msg.Data)
		if err != nil {
			slog.Error("Failed to unmarshal contact event", slog.String("subject", msg.Subject), slog.String("error", err.Error()))
			return
		}

		ctx := context.Background()
		err = RunWithRetry(ctx, maxRetries, s.retryDelay, func() error {
			return handler(ctx, event)
		})
		if err == nil {
			return
		}

		slog.Error("Giving up on contact event",
			slog.String("subject", msg.Subject),
			slog.String("user_id", event.UserID.String()),
			slog.Int("attempts", maxRetries),
			slog.String("error", err.Error()),
		)

		if err := s.conn.Publish(SubjectPhotoCleanupFailed, msg.Data); err != nil {
			slog.Error("Failed to publish to DLQ", slog.String("subject", SubjectPhotoCleanupFailed), slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Listening for contact events", slog.String("subject", SubjectContactDeleted), slog.String("queue", queue))
	return sub, nil
}

func (s *Subscriber) Close() {
	if err := s.conn.Drain(); err != nil {
		s.conn.Close()
	}
}

func DecodeContactEvent(data []byte) (ContactEvent, error) {
	var event ContactEvent
	err := json.Unmarshal(data, &event)
	return event, err
}

// RunWithRetry calls fn until it succeeds or attempts are used up, waiting
// delay between calls. It returns the last error.
func RunWithRetry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		slog.WarnContext(ctx, "Handler failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
