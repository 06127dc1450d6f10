// Package testuser provisions ephemeral Bridge accounts for integration
// tests and guarantees their release on teardown.
package testuser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/api"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/common"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/config"
)

// testUserPassword is the fixed password given to every ephemeral account.
const testUserPassword = "P4ssword!"

// Helper creates and releases test principals against one backend. It owns
// the shared admin principal, which is signed in once and never deleted.
type Helper struct {
	cfg     *config.Config
	baseURL string

	adminOnce sync.Once
	adminErr  error
	admin     *TestUser
}

// TestUser is an authenticated principal plus its role-scoped clients.
type TestUser struct {
	id        string
	email     string
	client    *api.Client
	helper    *Helper
	shared    bool // the admin principal; never deleted
	deleteOne sync.Once
}

// NewHelper builds a helper for the given configuration and base URL.
func NewHelper(cfg *config.Config, baseURL string) (*Helper, error) {
	if baseURL == "" {
		return nil, bridge.NewError(bridge.KindBadRequest, "baseURL is required")
	}
	return &Helper{cfg: cfg, baseURL: baseURL}, nil
}

// GetSignedInAdmin returns the shared admin principal, signing it in on
// first use. Teardown must never delete this account.
func (h *Helper) GetSignedInAdmin(ctx context.Context) (*TestUser, error) {
	h.adminOnce.Do(func() {
		client, err := h.newClient()
		if err != nil {
			h.adminErr = err
			return
		}
		session, err := api.NewAuthAPI(client).SignIn(ctx, h.cfg.AdminEmail, h.cfg.AdminPassword)
		if err != nil {
			h.adminErr = bridge.WrapError(err, "failed to sign in shared admin")
			return
		}
		h.admin = &TestUser{
			id:     session.ID,
			email:  session.Email,
			client: client,
			helper: h,
			shared: true,
		}
	})
	return h.admin, h.adminErr
}

// CreateAndSignInUser provisions a fresh account with the requested roles,
// optionally consented, and signs it in. Every call yields a distinct
// principal: the email embeds the name prefix plus a random suffix.
func (h *Helper) CreateAndSignInUser(ctx context.Context, namePrefix string, consented bool, roles ...bridge.Role) (*TestUser, error) {
	admin, err := h.GetSignedInAdmin(ctx)
	if err != nil {
		return nil, provisioningError(err, "admin sign-in failed")
	}

	email := fmt.Sprintf("bridge-testing+%s-%s@example.org",
		strings.ToLower(namePrefix), uuid.NewString()[:8])

	session, err := api.NewForAdminsAPI(admin.client).CreateUser(ctx, bridge.SignUp{
		Email:    email,
		Password: testUserPassword,
		Roles:    roles,
		Consent:  consented,
	})
	if err != nil {
		return nil, provisioningError(err, "failed to create account "+email)
	}

	client, err := h.newClient()
	if err != nil {
		return nil, provisioningError(err, "failed to build client for "+email)
	}
	if _, err := api.NewAuthAPI(client).SignIn(ctx, email, testUserPassword); err != nil {
		return nil, provisioningError(err, "failed to sign in "+email)
	}

	common.Info("created test user",
		zap.String("email", email),
		zap.Bool("consented", consented),
	)
	return &TestUser{
		id:     session.ID,
		email:  email,
		client: client,
		helper: h,
	}, nil
}

func (h *Helper) newClient() (*api.Client, error) {
	return api.NewClient(h.baseURL, h.cfg.AppID, api.WithTimeout(h.cfg.RequestTimeout))
}

func provisioningError(err error, message string) error {
	e := bridge.NewError(bridge.KindProvisioning, message)
	e.Err = err
	return e
}

// UserID returns the principal's account id.
func (u *TestUser) UserID() string {
	return u.id
}

// Email returns the principal's email address.
func (u *TestUser) Email() string {
	return u.email
}

// SignOutAndDelete signs the principal out and deletes its account.
// Idempotent: repeated calls, calls on the shared admin, and calls on a
// nil principal are all no-ops.
func (u *TestUser) SignOutAndDelete(ctx context.Context) {
	if u == nil || u.shared {
		return
	}
	u.deleteOne.Do(func() {
		if err := api.NewAuthAPI(u.client).SignOut(ctx); err != nil {
			common.Error("sign-out failed during teardown", err, zap.String("email", u.email))
		}
		admin, err := u.helper.GetSignedInAdmin(ctx)
		if err != nil {
			common.Error("admin unavailable during teardown", err, zap.String("email", u.email))
			return
		}
		if err := api.NewForAdminsAPI(admin.client).DeleteUser(ctx, u.id); err != nil && !bridge.IsNotFound(err) {
			common.Error("account deletion failed during teardown", err, zap.String("email", u.email))
		}
	})
}

// AuthAPI returns the principal's auth capability group.
func (u *TestUser) AuthAPI() *api.AuthAPI {
	return api.NewAuthAPI(u.client)
}

// ConsentedUsersAPI returns the consented-user capability group.
func (u *TestUser) ConsentedUsersAPI() *api.ForConsentedUsersAPI {
	return api.NewForConsentedUsersAPI(u.client)
}

// ResearchersAPI returns the researcher capability group.
func (u *TestUser) ResearchersAPI() *api.ForResearchersAPI {
	return api.NewForResearchersAPI(u.client)
}

// DevelopersAPI returns the developer capability group.
func (u *TestUser) DevelopersAPI() *api.ForDevelopersAPI {
	return api.NewForDevelopersAPI(u.client)
}

// StudiesAPI returns the studies capability group.
func (u *TestUser) StudiesAPI() *api.StudiesAPI {
	return api.NewStudiesAPI(u.client)
}

// AppConfigsAPI returns the app-config capability group.
func (u *TestUser) AppConfigsAPI() *api.AppConfigsAPI {
	return api.NewAppConfigsAPI(u.client)
}
