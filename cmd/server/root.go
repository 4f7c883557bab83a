package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/radioclub/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	appConfig config.AppConfig
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Web del radioclub EA1RKV",
	Long: `server runs the website of the Unión de Radioaficionados de Vigo - Val Miñor:
the public page tree, the contact form and the admin JSON API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./radioclub.yaml)")
	rootCmd.AddCommand(serveCmd, seedCmd, createSuperuserCmd)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
