package testuser

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kellyyangsong/BridgeIntegrationTests/internal/testserver"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/config"
)

func startHelper(t *testing.T) *Helper {
	t.Helper()

	cfg := &config.Config{
		AppID:          "api",
		AdminEmail:     "bridge-testing+admin@example.org",
		AdminPassword:  "P4ssword!",
		RequestTimeout: 10 * time.Second,
	}
	srv := httptest.NewServer(testserver.New(testserver.Options{
		AppID:         cfg.AppID,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}).Handler())
	t.Cleanup(srv.Close)

	h, err := NewHelper(cfg, srv.URL)
	require.NoError(t, err)
	return h
}

func TestNewHelperRequiresBaseURL(t *testing.T) {
	_, err := NewHelper(&config.Config{}, "")
	assert.Error(t, err)
}

func TestGetSignedInAdminIsShared(t *testing.T) {
	h := startHelper(t)
	ctx := context.Background()

	first, err := h.GetSignedInAdmin(ctx)
	require.NoError(t, err)
	second, err := h.GetSignedInAdmin(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second, "admin should be signed in exactly once")

	// Teardown on the shared admin is a no-op; its session survives.
	first.SignOutAndDelete(ctx)
	_, err = first.StudiesAPI().GetUsersStudy(ctx)
	assert.NoError(t, err)
}

func TestCreateAndSignInUserYieldsDistinctPrincipals(t *testing.T) {
	h := startHelper(t)
	ctx := context.Background()

	one, err := h.CreateAndSignInUser(ctx, "FixtureName", true)
	require.NoError(t, err)
	t.Cleanup(func() { one.SignOutAndDelete(ctx) })

	two, err := h.CreateAndSignInUser(ctx, "FixtureName", true)
	require.NoError(t, err)
	t.Cleanup(func() { two.SignOutAndDelete(ctx) })

	assert.NotEqual(t, one.Email(), two.Email())
	assert.NotEqual(t, one.UserID(), two.UserID())
	assert.True(t, strings.HasPrefix(one.Email(), "bridge-testing+fixturename-"))

	record, err := one.ConsentedUsersAPI().GetUsersParticipantRecord(ctx)
	require.NoError(t, err)
	assert.True(t, record.Consented)
}

func TestCreateAndSignInUserAssignsRoles(t *testing.T) {
	h := startHelper(t)
	ctx := context.Background()

	dev, err := h.CreateAndSignInUser(ctx, "dev", false, bridge.RoleDeveloper)
	require.NoError(t, err)
	t.Cleanup(func() { dev.SignOutAndDelete(ctx) })

	app, err := dev.DevelopersAPI().GetUsersApp(ctx)
	require.NoError(t, err)
	assert.Equal(t, "api", app.Identifier)
}

func TestSignOutAndDeleteIsIdempotent(t *testing.T) {
	h := startHelper(t)
	ctx := context.Background()

	user, err := h.CreateAndSignInUser(ctx, "deleted", true)
	require.NoError(t, err)

	user.SignOutAndDelete(ctx)
	user.SignOutAndDelete(ctx)

	var nilUser *TestUser
	nilUser.SignOutAndDelete(ctx)

	// The account is gone: signing in again must fail.
	admin, err := h.GetSignedInAdmin(ctx)
	require.NoError(t, err)
	_, err = admin.ResearchersAPI().GetActivityEventsForParticipant(ctx, user.UserID())
	assert.Error(t, err)
}

func TestEnsureActivityEventTokensOnlyWritesWhenDirty(t *testing.T) {
	h := startHelper(t)
	ctx := context.Background()

	dev, err := h.CreateAndSignInUser(ctx, "patcher", false, bridge.RoleDeveloper)
	require.NoError(t, err)
	t.Cleanup(func() { dev.SignOutAndDelete(ctx) })
	devAPI := dev.DevelopersAPI()

	keys := []string{"event1"}
	recipes := map[string]string{"2-weeks-after": "enrollment:P2W"}

	require.NoError(t, EnsureActivityEventTokens(ctx, devAPI, keys, recipes))
	app, err := devAPI.GetUsersApp(ctx)
	require.NoError(t, err)
	assert.Contains(t, app.ActivityEventKeys, "event1")
	assert.Equal(t, "enrollment:P2W", app.AutomaticCustomEvents["2-weeks-after"])
	version := app.Version

	// A second pass finds nothing missing and must not bump the version.
	require.NoError(t, EnsureActivityEventTokens(ctx, devAPI, keys, recipes))
	app, err = devAPI.GetUsersApp(ctx)
	require.NoError(t, err)
	assert.Equal(t, version, app.Version)
}
