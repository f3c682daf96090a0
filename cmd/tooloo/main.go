package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tooloo/tooloo-go/pkg/chat"
	"github.com/tooloo/tooloo-go/pkg/config"
	"github.com/tooloo/tooloo-go/pkg/store"
)

var (
	flagBaseURL string
	flagToken   string
	flagMode    string

	cfg      *config.Config
	appState *store.Store
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "tooloo",
		Short: "Terminal client for the Tooloo assistant backend",
		Long: `tooloo streams chat responses from a Tooloo backend, shows the
router's thinking as it works, and keeps an eye on backend health.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadEnvironment()
		},
	}

	root.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "backend base URL (default from config)")
	root.PersistentFlags().StringVar(&flagToken, "token", "", "API token (or TOOLOO_TOKEN)")
	root.PersistentFlags().StringVar(&flagMode, "mode", "", "chat mode: quick, creative or deep")

	root.AddCommand(newChatCmd())
	root.AddCommand(newIdeateCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newWatchCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadEnvironment() {
	var err error
	cfg, err = config.LoadOrCreateConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagMode != "" {
		cfg.Mode = flagMode
	}
	cfg.Token = config.ResolveToken(flagToken, "TOOLOO_TOKEN", cfg.Token)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	appState = store.New(store.Snapshot{
		Persona:        cfg.Persona,
		ThemeIntensity: cfg.ThemeIntensity,
		Provider:       cfg.Provider,
		Model:          cfg.Model,
	})
}

func newBackendClient() *chat.Client {
	opts := []chat.ClientOption{
		chat.WithStreamIdleTimeout(time.Duration(cfg.StreamIdleTimeoutSeconds) * time.Second),
	}
	if cfg.Token != "" {
		opts = append(opts, chat.WithToken(cfg.Token))
	}
	return chat.NewClient(cfg.BaseURL, opts...)
}
