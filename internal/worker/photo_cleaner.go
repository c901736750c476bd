package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"contacts-service/internal/events"

	"github.com/google/uuid"
)

type ObjectRemover interface {
	DeleteObject(ctx context.Context, key string) error
	KeyForURL(publicURL string) (string, bool)
}

type PhotoReferences interface {
	CountByPhotoURL(ctx context.Context, userID uuid.UUID, photoURL string) (int, error)
}

// PhotoCleaner removes the card photo of a deleted contact once no other
// contact of the same owner points at it.
type PhotoCleaner struct {
	store    ObjectRemover
	contacts PhotoReferences
}

func NewPhotoCleaner(store ObjectRemover, contacts PhotoReferences) *PhotoCleaner {
	return &PhotoCleaner{store: store, contacts: contacts}
}

func (w *PhotoCleaner) HandleContactDeleted(ctx context.Context, event events.ContactEvent) error {
	if event.FotoTarjetaURL == nil || *event.FotoTarjetaURL == "" {
		return nil
	}
	photoURL := *event.FotoTarjetaURL

	key, ok := w.store.KeyForURL(photoURL)
	if !ok {
		slog.InfoContext(ctx, "Photo is not in our bucket, skipping", slog.String("url", photoURL))
		return nil
	}

	// Objects live under <owner>/, never touch another user's prefix.
	if !strings.HasPrefix(key, event.UserID.String()+"/") {
		slog.WarnContext(ctx, "Photo key outside owner prefix, skipping",
			slog.String("key", key),
			slog.String("user_id", event.UserID.String()),
		)
		return nil
	}

	refs, err := w.contacts.CountByPhotoURL(ctx, event.UserID, photoURL)
	if err != nil {
		return fmt.Errorf("count photo references: %w", err)
	}
	if refs > 0 {
		slog.InfoContext(ctx, "Photo still referenced, keeping it", slog.String("key", key), slog.Int("references", refs))
		return nil
	}

	if err := w.store.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	slog.InfoContext(ctx, "Deleted orphaned contact photo", slog.String("key", key))
	return nil
}
