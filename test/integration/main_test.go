// Package integration holds the end-to-end fixtures for the Bridge REST
// API. By default they run against an in-process server; set
// BRIDGE_API_URL to point them at a live backend instead.
package integration

import (
	"fmt"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/kellyyangsong/BridgeIntegrationTests/internal/testserver"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/common"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/config"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/testuser"
)

var helper *testuser.Helper

func TestMain(m *testing.M) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	baseURL := cfg.APIURL
	var srv *httptest.Server
	if baseURL == "" {
		srv = httptest.NewServer(testserver.New(testserver.Options{
			AppID:         cfg.AppID,
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
			Logger:        common.Logger(),
		}).Handler())
		baseURL = srv.URL
	}

	helper, err = testuser.NewHelper(cfg, baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build test user helper: %v\n", err)
		if srv != nil {
			srv.Close()
		}
		os.Exit(1)
	}

	code := m.Run()
	if srv != nil {
		srv.Close()
	}
	os.Exit(code)
}
