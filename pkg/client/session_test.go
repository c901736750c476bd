package client_test

import (
	"context"
	"testing"

	"contacts-service/pkg/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionNotifier_SingleSubscriber(t *testing.T) {
	n := client.NewSessionNotifier(nil)

	var seen []*client.Session
	unsubscribe, err := n.Subscribe(func(s *client.Session) { seen = append(seen, s) })
	require.NoError(t, err)

	_, err = n.Subscribe(func(*client.Session) {})
	require.ErrorIs(t, err, client.ErrAlreadySubscribed)

	signedIn := &client.Session{AccessToken: "tok", Email: "ana@example.com"}
	n.SetSession(signedIn)
	n.SetSession(nil)
	assert.Equal(t, []*client.Session{signedIn, nil}, seen)

	unsubscribe()
	unsubscribe()
	n.SetSession(signedIn)
	assert.Len(t, seen, 2, "no notifications after unsubscribe")

	_, err = n.Subscribe(func(*client.Session) {})
	require.NoError(t, err)
}

func TestSessionNotifier_StaleUnsubscribe(t *testing.T) {
	n := client.NewSessionNotifier(nil)

	first, err := n.Subscribe(func(*client.Session) {})
	require.NoError(t, err)
	first()

	calls := 0
	_, err = n.Subscribe(func(*client.Session) { calls++ })
	require.NoError(t, err)

	first()
	n.SetSession(&client.Session{AccessToken: "tok"})
	assert.Equal(t, 1, calls)
}

func TestSessionNotifier_Session(t *testing.T) {
	n := client.NewSessionNotifier(&client.Session{AccessToken: "a"})

	s, err := n.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", s.AccessToken)

	n.SetSession(nil)
	s, err = n.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestResolveRoute(t *testing.T) {
	session := &client.Session{AccessToken: "tok"}

	tests := []struct {
		path    string
		session *client.Session
		want    string
	}{
		{"/", nil, client.RouteLogin},
		{"/dashboard", nil, client.RouteLogin},
		{"/login", nil, client.RouteLogin},
		{"/", session, client.RouteDashboard},
		{"/login", session, client.RouteDashboard},
		{"/dashboard", session, client.RouteDashboard},
		{"/anything", session, "/anything"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, client.ResolveRoute(tt.path, tt.session), "%s signed in=%v", tt.path, tt.session != nil)
	}
}
