// Command jobctl drives the core API from a terminal: sign in, manage job
// applications and keep the shared theme in step.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coreapi/pkg/client"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath  string
	apiURL      string
	identityURL string
	verbose     bool
	timeout     time.Duration

	cfg   *cliConfig
	api   *client.Client
	store *fileTokenStore
)

var rootCmd = &cobra.Command{
	Use:   "jobctl",
	Short: "Track job applications against the core API",
	Long: `jobctl is a terminal client for the core API.

It signs in through the identity portal, manages job applications and
their timeline, and keeps the shared theme preference in sync.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()

		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.APIURL = apiURL
		}
		if identityURL != "" {
			cfg.IdentityURL = identityURL
		}

		store = &fileTokenStore{cfg: cfg, path: configPath}
		api = client.New(cfg.APIURL, client.WithTokenStore(store))
		log.Debug().Str("api_url", cfg.APIURL).Str("config", configPath).Msg("client ready")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Core API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&identityURL, "identity-url", "", "Identity portal URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(jobsCmd, timelineCmd, themeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext is cancelled on SIGINT/SIGTERM or after d when d > 0.
func commandContext(d time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if d <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, d)
	return tctx, func() {
		cancel()
		stop()
	}
}
