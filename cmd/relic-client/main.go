package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"relic-exchange/internal/api"
	"relic-exchange/internal/client"
	"relic-exchange/internal/config"
	"relic-exchange/internal/session"
)

var version = "dev"

var (
	flagConfig string
	flagServer string
	flagLog    string
	flagRoom   string
)

var rootCmd = &cobra.Command{
	Use:   "relic-client",
	Short: "Terminal client for the Relic Exchange game",
	Long: `relic-client is the terminal client for the Relic Exchange trading game.

It logs in, polls your account, the market, chat, the leaderboard and game
stats once a second, and renders them as filterable, paginated lists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("relic-client", version)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the persisted session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := session.ClearToken(cfg.TokenFile); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.Flags().StringVar(&flagServer, "server", "", "server base URL (overrides config)")
	rootCmd.Flags().StringVar(&flagLog, "log", "", "log file (overrides config)")
	rootCmd.Flags().StringVar(&flagRoom, "room", "", "chat room (overrides config)")
	rootCmd.AddCommand(versionCmd, logoutCmd)
}

func loadConfig() (config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if flagServer != "" {
		cfg.ServerURL = flagServer
	}
	if flagLog != "" {
		cfg.LogFile = flagLog
	}
	if flagRoom != "" {
		cfg.Room = flagRoom
	}
	return cfg, nil
}

// newLogger builds a file-only logger. The terminal belongs to termbox, so
// nothing may ever log to stdout or stderr while the client runs.
func newLogger(path string) (*zap.SugaredLogger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return logger.Sugar(), nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer log.Sync()

	sessions := session.NewStore()
	apiClient := api.NewClient(cfg.ServerURL, sessions, log)

	// A persisted token is trusted optimistically; the first rejected poll
	// tears it down and lands us back at the login prompt.
	if token, err := session.LoadToken(cfg.TokenFile); err != nil {
		log.Warnw("could not read persisted token", "err", err)
	} else if token != "" {
		sessions.SetToken(token)
	}

	ctx := context.Background()
	for {
		if !sessions.Active() {
			token, err := client.Login(ctx, apiClient)
			if err != nil {
				return err
			}
			sessions.SetToken(token)
			if err := session.SaveToken(cfg.TokenFile, token); err != nil {
				log.Warnw("could not persist token", "err", err)
			}
		}

		app := client.New(cfg, apiClient, sessions, log)
		err := app.Run(ctx)
		if errors.Is(err, client.ErrSessionExpired) {
			if err := session.ClearToken(cfg.TokenFile); err != nil {
				log.Warnw("could not clear token", "err", err)
			}
			fmt.Println("Session expired; please log in again.")
			continue
		}
		if err != nil {
			return err
		}
		if !sessions.Active() {
			// Explicit logout from inside the client.
			if err := session.ClearToken(cfg.TokenFile); err != nil {
				log.Warnw("could not clear token", "err", err)
			}
		}
		return nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
