package api

import (
	"context"
	"fmt"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// AppConfigsAPI groups app-config CRUD. Create, update, get, and list
// require a developer session; delete requires an admin session.
type AppConfigsAPI struct {
	client *Client
}

// NewAppConfigsAPI returns the app-config capability group.
func NewAppConfigsAPI(c *Client) *AppConfigsAPI {
	return &AppConfigsAPI{client: c}
}

// CreateAppConfig creates an app config and returns its guid and version.
func (a *AppConfigsAPI) CreateAppConfig(ctx context.Context, cfg *bridge.AppConfig) (*bridge.GuidVersionHolder, error) {
	holder := &bridge.GuidVersionHolder{}
	if err := a.client.post(ctx, "/v3/appconfigs", cfg, holder); err != nil {
		return nil, err
	}
	return holder, nil
}

// UpdateAppConfig replaces an app config and returns its new version.
func (a *AppConfigsAPI) UpdateAppConfig(ctx context.Context, guid string, cfg *bridge.AppConfig) (*bridge.GuidVersionHolder, error) {
	holder := &bridge.GuidVersionHolder{}
	if err := a.client.put(ctx, fmt.Sprintf("/v3/appconfigs/%s", guid), cfg, holder); err != nil {
		return nil, err
	}
	return holder, nil
}

// GetAppConfig returns one app config by guid.
func (a *AppConfigsAPI) GetAppConfig(ctx context.Context, guid string) (*bridge.AppConfig, error) {
	cfg := &bridge.AppConfig{}
	if err := a.client.get(ctx, fmt.Sprintf("/v3/appconfigs/%s", guid), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetAppConfigs lists all app configs in creation order.
func (a *AppConfigsAPI) GetAppConfigs(ctx context.Context) (*bridge.AppConfigList, error) {
	list := &bridge.AppConfigList{}
	if err := a.client.get(ctx, "/v3/appconfigs", list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteAppConfig removes an app config by guid.
func (a *AppConfigsAPI) DeleteAppConfig(ctx context.Context, guid string) error {
	return a.client.delete(ctx, fmt.Sprintf("/v3/appconfigs/%s", guid))
}
