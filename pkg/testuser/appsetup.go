package testuser

import (
	"context"

	"go.uber.org/zap"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/api"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/common"
)

// EnsureActivityEventTokens patches the tenant App with the custom-event
// keys and automatic-event recipes a fixture requires. The tenant config
// is shared between tests, so this is a read-modify-write that only issues
// an update when something was actually missing.
//
// Participants must be created after this returns: the server expands
// automatic events at account creation against the configuration as it
// stands at that moment.
func EnsureActivityEventTokens(ctx context.Context, devAPI *api.ForDevelopersAPI, customKeys []string, recipes map[string]string) error {
	app, err := devAPI.GetUsersApp(ctx)
	if err != nil {
		return err
	}

	dirty := false

	declared := make(map[string]struct{}, len(app.ActivityEventKeys))
	for _, key := range app.ActivityEventKeys {
		declared[key] = struct{}{}
	}
	for _, key := range customKeys {
		if _, ok := declared[key]; !ok {
			app.ActivityEventKeys = append(app.ActivityEventKeys, key)
			dirty = true
		}
	}

	if app.AutomaticCustomEvents == nil {
		app.AutomaticCustomEvents = make(map[string]string, len(recipes))
	}
	for key, recipe := range recipes {
		if _, ok := app.AutomaticCustomEvents[key]; !ok {
			app.AutomaticCustomEvents[key] = recipe
			dirty = true
		}
	}

	if !dirty {
		return nil
	}
	if _, err := devAPI.UpdateUsersApp(ctx, app); err != nil {
		return err
	}
	common.Info("patched tenant app configuration",
		zap.Strings("customKeys", customKeys),
		zap.Int("recipes", len(recipes)),
	)
	return nil
}
