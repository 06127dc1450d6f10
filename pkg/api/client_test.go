package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

func TestNewClientValidatesArguments(t *testing.T) {
	_, err := NewClient("", "api")
	assert.Error(t, err)

	_, err = NewClient("http://localhost", "")
	assert.Error(t, err)

	c, err := NewClient("http://localhost/", "api")
	require.NoError(t, err)
	assert.Equal(t, "api", c.AppID())
}

func TestSignInBindsSessionToken(t *testing.T) {
	var sawHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/auth/signIn":
			var signIn bridge.SignIn
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&signIn))
			assert.Equal(t, "api", signIn.AppID)
			json.NewEncoder(w).Encode(bridge.UserSessionInfo{
				SessionToken:  "token-123",
				Authenticated: true,
			})
		case "/v3/activityevents":
			sawHeader = r.Header.Get(SessionHeader)
			json.NewEncoder(w).Encode(bridge.ActivityEventList{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "api")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = NewAuthAPI(client).SignIn(ctx, "user@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, "token-123", client.SessionToken())

	_, err = NewForConsentedUsersAPI(client).GetActivityEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-123", sawHeader)
}

func TestSignOutWithoutSessionIsNoOp(t *testing.T) {
	// No server: a request would fail, so the no-op path must not send one.
	client, err := NewClient("http://127.0.0.1:1", "api")
	require.NoError(t, err)
	assert.NoError(t, NewAuthAPI(client).SignOut(context.Background()))
}

func TestErrorBodyMapsToTaggedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"statusCode": http.StatusConflict,
			"message":    "multiple app configs match",
			"type":       "ConstraintViolationException",
		})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "api")
	require.NoError(t, err)

	_, err = NewForConsentedUsersAPI(client).GetUsersAppConfig(context.Background())
	assert.True(t, bridge.IsConstraintViolation(err))

	var be *bridge.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "multiple app configs match", be.Message)
	assert.Equal(t, http.StatusConflict, be.StatusCode)
}

func TestNonJSONErrorBodyMapsByStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "api")
	require.NoError(t, err)

	_, err = NewForConsentedUsersAPI(client).GetUsersAppConfig(context.Background())
	assert.True(t, bridge.IsNotFound(err))
}

func TestTransportFailureIsTagged(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1", "api")
	require.NoError(t, err)

	_, err = NewForConsentedUsersAPI(client).GetActivityEvents(context.Background())
	assert.True(t, bridge.IsKind(err, bridge.KindTransport))
}
