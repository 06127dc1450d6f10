// Command bridgecheck is an operator tool for poking a Bridge backend: it
// probes health, inspects the tenant configuration, and lists a
// participant's activity events.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/api"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/common"
	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/config"
)

var (
	flagAPIURL   string
	flagAppID    string
	flagEmail    string
	flagPassword string
	flagLogLevel string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "bridgecheck",
	Short:         "Inspect a Bridge backend from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		if flagAPIURL != "" {
			cfg.APIURL = flagAPIURL
		}
		if flagAppID != "" {
			cfg.AppID = flagAppID
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		if cfg.APIURL == "" {
			return bridge.NewError(bridge.KindBadRequest, "no API URL configured; set BRIDGE_API_URL or pass --api-url")
		}
		return common.InitLogger(cfg.LogLevel)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the backend health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.APIURL+"/v3/health", nil)
		if err != nil {
			return bridge.WrapError(err, "failed to build health request")
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			color.Red("FAIL  %s unreachable", cfg.APIURL)
			return bridge.WrapError(err, "health probe failed")
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			color.Red("FAIL  %s returned %d", cfg.APIURL, resp.StatusCode)
			return bridge.NewError(bridge.KindTransport, "unexpected health status "+strconv.Itoa(resp.StatusCode))
		}
		color.Green("OK    %s", cfg.APIURL)
		return nil
	},
}

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Show the tenant app configuration (requires a developer account)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := signIn(cmd.Context())
		if err != nil {
			return err
		}
		defer signOut(cmd.Context(), client)

		app, err := api.NewForDevelopersAPI(client).GetUsersApp(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("App %s (version %d)\n\n", app.Identifier, app.Version)

		keys := tablewriter.NewWriter(os.Stdout)
		keys.SetHeader([]string{"Custom Event Key"})
		for _, key := range app.ActivityEventKeys {
			keys.Append([]string{key})
		}
		keys.Render()

		recipes := tablewriter.NewWriter(os.Stdout)
		recipes.SetHeader([]string{"Automatic Event", "Recipe"})
		names := make([]string, 0, len(app.AutomaticCustomEvents))
		for name := range app.AutomaticCustomEvents {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			recipes.Append([]string{name, app.AutomaticCustomEvents[name]})
		}
		recipes.Render()
		return nil
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the signed-in participant's activity events",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := signIn(cmd.Context())
		if err != nil {
			return err
		}
		defer signOut(cmd.Context(), client)

		list, err := api.NewForConsentedUsersAPI(client).GetActivityEvents(cmd.Context())
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Event", "Timestamp"})
		for _, ev := range list.Items {
			table.Append([]string{ev.EventID, ev.Timestamp.String()})
		}
		table.Render()
		return nil
	},
}

// signIn authenticates with the --email/--password flags, falling back to
// the configured admin credentials.
func signIn(ctx context.Context) (*api.Client, error) {
	email, password := flagEmail, flagPassword
	if email == "" {
		email, password = cfg.AdminEmail, cfg.AdminPassword
	}
	client, err := api.NewClient(cfg.APIURL, cfg.AppID, api.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return nil, err
	}
	if _, err := api.NewAuthAPI(client).SignIn(ctx, email, password); err != nil {
		return nil, bridge.WrapError(err, "sign-in failed for "+email)
	}
	return client, nil
}

func signOut(ctx context.Context, client *api.Client) {
	if err := api.NewAuthAPI(client).SignOut(ctx); err != nil {
		common.Error("sign-out failed", err, zap.String("url", cfg.APIURL))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "backend base URL (overrides BRIDGE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flagAppID, "app-id", "", "app identifier (overrides BRIDGE_APP_ID)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (overrides BRIDGE_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&flagEmail, "email", "", "account email (default: configured admin)")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "account password")

	rootCmd.AddCommand(statusCmd, appCmd, eventsCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}
}
