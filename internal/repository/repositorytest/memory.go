// Package repositorytest provides an in-memory ContactRepository for tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"contacts-service/internal/model"

	"github.com/google/uuid"
)

type MemoryContactRepository struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]model.Contact
	now      time.Time

	// Err, when set, is returned by every method.
	Err error
	// Calls counts method invocations by name.
	Calls map[string]int
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{
		contacts: map[uuid.UUID]model.Contact{},
		now:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Calls:    map[string]int{},
	}
}

func (r *MemoryContactRepository) record(name string) error {
	r.Calls[name]++
	return r.Err
}

func (r *MemoryContactRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contacts)
}

func (r *MemoryContactRepository) FindByOwner(_ context.Context, userID uuid.UUID) ([]model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("FindByOwner"); err != nil {
		return nil, err
	}

	var out []model.Contact
	for _, c := range r.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *MemoryContactRepository) FindByIDAndOwner(_ context.Context, id, userID uuid.UUID) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("FindByIDAndOwner"); err != nil {
		return nil, err
	}

	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryContactRepository) Insert(_ context.Context, contact *model.Contact) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("Insert"); err != nil {
		return nil, err
	}

	// Each insert is one second newer than the previous one.
	r.now = r.now.Add(time.Second)

	c := *contact
	c.ID = uuid.New()
	c.CreatedAt = r.now
	r.contacts[c.ID] = c

	return &c, nil
}

func (r *MemoryContactRepository) UpdateIfOwned(_ context.Context, id, userID uuid.UUID, changes model.ContactChanges) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("UpdateIfOwned"); err != nil {
		return nil, err
	}

	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	changes.Apply(&c)
	r.contacts[id] = c

	return &c, nil
}

func (r *MemoryContactRepository) DeleteIfOwned(_ context.Context, id, userID uuid.UUID) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("DeleteIfOwned"); err != nil {
		return nil, err
	}

	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	delete(r.contacts, id)

	return &c, nil
}

func (r *MemoryContactRepository) CountByPhotoURL(_ context.Context, userID uuid.UUID, photoURL string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("CountByPhotoURL"); err != nil {
		return 0, err
	}

	count := 0
	for _, c := range r.contacts {
		if c.UserID == userID && c.FotoTarjetaURL != nil && *c.FotoTarjetaURL == photoURL {
			count++
		}
	}
	return count, nil
}
