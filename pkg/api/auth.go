package api

import (
	"context"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// AuthAPI groups the authentication operations.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI returns the auth capability group for the client.
func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{client: c}
}

// SignIn authenticates the client's principal and binds the returned
// session token to the client.
func (a *AuthAPI) SignIn(ctx context.Context, email, password string) (*bridge.UserSessionInfo, error) {
	signIn := bridge.SignIn{
		AppID:    a.client.AppID(),
		Email:    email,
		Password: password,
	}
	session := &bridge.UserSessionInfo{}
	if err := a.client.post(ctx, "/v3/auth/signIn", signIn, session); err != nil {
		return nil, err
	}
	a.client.setSessionToken(session.SessionToken)
	return session, nil
}

// SignOut invalidates the current session and clears the bound token.
// Signing out an already signed-out client is a no-op.
func (a *AuthAPI) SignOut(ctx context.Context) error {
	if a.client.SessionToken() == "" {
		return nil
	}
	err := a.client.post(ctx, "/v3/auth/signOut", nil, nil)
	a.client.setSessionToken("")
	return err
}
