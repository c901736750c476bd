package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"contacts-service/internal/events"
	"contacts-service/internal/s3"

	"github.com/google/uuid"
)

type UploadResult struct {
	Path string
	URL  string
}

type UploadService interface {
	UploadContactPhoto(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*UploadResult, error)
}

type uploadService struct {
	store     s3.ObjectStore
	publisher events.EventPublisher
	now       func() time.Time
}

func NewUploadService(store s3.ObjectStore, pub events.EventPublisher) UploadService {
	return NewUploadServiceWithClock(store, pub, time.Now)
}

func NewUploadServiceWithClock(store s3.ObjectStore, pub events.EventPublisher, now func() time.Time) UploadService {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &uploadService{store: store, publisher: pub, now: now}
}

// ObjectKey builds <owner>/<epoch millis>.<extension of filename>.
func ObjectKey(userID uuid.UUID, filename string, at time.Time) string {
	ext := filename[strings.LastIndex(filename, ".")+1:]
	return fmt.Sprintf("%s/%d.%s", userID, at.UnixMilli(), ext)
}

func (s *uploadService) UploadContactPhoto(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*UploadResult, error) {
	key := ObjectKey(userID, filename, s.now())

	path, err := s.store.PutObject(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	result := &UploadResult{Path: path, URL: s.store.PublicURLFor(path)}

	if err := s.publisher.PublishPhotoUploaded(userID, result.Path, result.URL); err != nil {
		slog.WarnContext(ctx, "Failed to publish upload event", slog.String("path", result.Path), slog.String("error", err.Error()))
	}

	return result, nil
}
