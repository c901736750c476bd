package client

import (
	"context"
	"errors"
	"sync"
)

const (
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
)

var ErrAlreadySubscribed = errors.New("session notifier already has a subscriber")

// Session is what the identity provider hands the UI after sign-in.
type Session struct {
	AccessToken string
	UserID      string
	Email       string
}

type SessionProvider interface {
	// Session returns the current session, or nil when signed out.
	Session(ctx context.Context) (*Session, error)
}

// SessionNotifier holds the current session and reports changes to a single
// subscriber.
type SessionNotifier struct {
	mu         sync.Mutex
	session    *Session
	subscriber func(*Session)
	subID      uint64
}

func NewSessionNotifier(initial *Session) *SessionNotifier {
	return &SessionNotifier{session: initial}
}

func (n *SessionNotifier) Session(context.Context) (*Session, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.session, nil
}

// SetSession replaces the session, nil meaning signed out, and notifies the
// subscriber if there is one.
func (n *SessionNotifier) SetSession(session *Session) {
	n.mu.Lock()
	n.session = session
	fn := n.subscriber
	n.mu.Unlock()

	if fn != nil {
		fn(session)
	}
}

// Subscribe registers fn for session changes. The returned func unsubscribes
// and is safe to call more than once.
func (n *SessionNotifier) Subscribe(fn func(*Session)) (func(), error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subscriber != nil {
		return nil, ErrAlreadySubscribed
	}

	n.subID++
	id := n.subID
	n.subscriber = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.subID == id {
			n.subscriber = nil
		}
	}, nil
}

// ResolveRoute returns where the UI should be for path given session.
func ResolveRoute(path string, session *Session) string {
	if session == nil {
		return RouteLogin
	}
	if path == RouteLogin || path == "/" || path == "" {
		return RouteDashboard
	}
	return path
}
