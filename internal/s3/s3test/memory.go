// Package s3test provides an in-memory ObjectStore for tests.
package s3test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"contacts-service/internal/s3"
)

type Object struct {
	ContentType string
	Body        []byte
}

type MemoryStore struct {
	mu      sync.Mutex
	Objects map[string]Object
	BaseURL string
	Err     error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Objects: map[string]Object{},
		BaseURL: "http://storage.test/contact-cards",
	}
}

func (m *MemoryStore) PutObject(_ context.Context, key, contentType string, body []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if _, ok := m.Objects[key]; ok {
		return "", fmt.Errorf("%w: %s", s3.ErrObjectExists, key)
	}

	m.Objects[key] = Object{ContentType: contentType, Body: append([]byte(nil), body...)}
	return key, nil
}

func (m *MemoryStore) PublicURLFor(key string) string {
	return m.BaseURL + "/" + key
}

func (m *MemoryStore) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	delete(m.Objects, key)
	return nil
}

func (m *MemoryStore) KeyForURL(publicURL string) (string, bool) {
	prefix := m.BaseURL + "/"
	if !strings.HasPrefix(publicURL, prefix) || publicURL == prefix {
		return "", false
	}
	return strings.TrimPrefix(publicURL, prefix), true
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}
