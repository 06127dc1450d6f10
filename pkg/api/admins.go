package api

import (
	"context"
	"fmt"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// ForAdminsAPI groups the administrative account operations the harness
// uses to provision and remove ephemeral test users.
type ForAdminsAPI struct {
	client *Client
}

// NewForAdminsAPI returns the admin capability group.
func NewForAdminsAPI(c *Client) *ForAdminsAPI {
	return &ForAdminsAPI{client: c}
}

// CreateUser provisions a new account. When the sign-up carries consent,
// the server materializes the enrollment-anchored built-in events and
// expands automatic custom events against the tenant configuration at that
// moment.
func (a *ForAdminsAPI) CreateUser(ctx context.Context, signUp bridge.SignUp) (*bridge.UserSessionInfo, error) {
	info := &bridge.UserSessionInfo{}
	if err := a.client.post(ctx, "/v3/users", signUp, info); err != nil {
		return nil, err
	}
	return info, nil
}

// DeleteUser removes an account and invalidates its sessions.
func (a *ForAdminsAPI) DeleteUser(ctx context.Context, userID string) error {
	return a.client.delete(ctx, fmt.Sprintf("/v3/users/%s", userID))
}
