package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhouzirui/honeypot-console/internal/backend"
	"github.com/zhouzirui/honeypot-console/internal/config"
	"github.com/zhouzirui/honeypot-console/internal/logging"
	"github.com/zhouzirui/honeypot-console/internal/tui"
)

// app carries what every subcommand shares once PersistentPreRunE has run.
type app struct {
	configPath string
	baseURL    string
	verbose    bool
	stdin      io.Reader
	envErr     error

	cfg    *config.Config
	logger *zap.Logger
	client backend.Client
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "console",
		Short: "Operator console for the honeypot engagement backend",
		Long: `console drives a scam engagement from the terminal.

Type what the scammer wrote and the backend's agent answers. The
evidence dashboard fills in as the backend extracts payment handles and
contact details. Export the evidence report or reset the session when
the engagement is over.

Run without arguments to start the interactive console.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runInteractive,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&a.baseURL, "base-url", "", "backend base URL (overrides HONEYPOT_BASE_URL)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newReportCmd(a), newResetCmd(a), newHistoryCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.baseURL != "" {
		cfg.Backend.BaseURL = a.baseURL
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	// The interactive console owns the terminal; it only logs to a file.
	if cmd == cmd.Root() && logging.Destination(cfg.Log.File) == "stderr" {
		a.logger = zap.NewNop()
	} else {
		a.logger, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	if a.envErr != nil {
		a.logger.Warn("failed to load .env file, continuing with system environment variables only",
			zap.Error(a.envErr))
	}

	if a.client == nil {
		a.client, err = backend.NewHTTPClient(cfg.Backend.BaseURL,
			backend.WithTimeout(cfg.Backend.Timeout),
			backend.WithLogger(a.logger))
		if err != nil {
			return err
		}
	}
	a.logger.Debug("configuration loaded",
		zap.String("base_url", cfg.Backend.BaseURL),
		zap.Duration("timeout", cfg.Backend.Timeout))
	return nil
}

func (a *app) runInteractive(cmd *cobra.Command, _ []string) error {
	return tui.Run(cmd.Context(), a.client, tui.Options{
		NoColor:     a.cfg.UI.NoColor,
		SkipConfirm: a.cfg.UI.SkipConfirm,
		Logger:      a.logger,
	})
}
