package api

import (
	"context"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// ForDevelopersAPI groups the tenant-configuration operations available to
// a developer account.
type ForDevelopersAPI struct {
	client *Client
}

// NewForDevelopersAPI returns the developer capability group.
func NewForDevelopersAPI(c *Client) *ForDevelopersAPI {
	return &ForDevelopersAPI{client: c}
}

// GetUsersApp returns the caller's tenant App configuration.
func (a *ForDevelopersAPI) GetUsersApp(ctx context.Context) (*bridge.App, error) {
	app := &bridge.App{}
	if err := a.client.get(ctx, "/v3/apps/self", app); err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateUsersApp writes the tenant App configuration back and returns the
// stored state with its bumped version.
func (a *ForDevelopersAPI) UpdateUsersApp(ctx context.Context, app *bridge.App) (*bridge.App, error) {
	updated := &bridge.App{}
	if err := a.client.post(ctx, "/v3/apps/self", app, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// StudiesAPI groups study read operations.
type StudiesAPI struct {
	client *Client
}

// NewStudiesAPI returns the studies capability group.
func NewStudiesAPI(c *Client) *StudiesAPI {
	return &StudiesAPI{client: c}
}

// GetUsersStudy returns the study the caller belongs to.
func (a *StudiesAPI) GetUsersStudy(ctx context.Context) (*bridge.Study, error) {
	study := &bridge.Study{}
	if err := a.client.get(ctx, "/v3/studies/self", study); err != nil {
		return nil, err
	}
	return study, nil
}
