package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-local/internal"
	"github.com/rocketscienceinc/tictactoe-local/internal/config"
)

// main - is the entry point of the application. It parses the command line and runs the chosen front end.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "tictactoe",
		Short:        "Two-player tic-tac-toe on one board",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default ./config.yml when present)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve game sessions over HTTP",
		RunE: func(_ *cobra.Command, _ []string) error {
			conf := initConfig(configPath)
			logger := initLogger(conf, os.Stdout)

			if err := app.RunApp(logger, conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}

	var zeroBased bool

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			conf := initConfig(configPath)
			logger := initLogger(conf, os.Stderr)

			return app.RunTerminal(logger, conf, zeroBased)
		},
	}

	playCmd.Flags().BoolVar(&zeroBased, "zero-based", false, "number cells 0-8 instead of 1-9")

	rootCmd.AddCommand(serveCmd, playCmd)

	return rootCmd
}

// initialize config. Without a flag, ./config.yml is used when present, otherwise only the environment.
func initConfig(path string) *config.Config {
	if path != "" {
		return config.MustLoad(path)
	}

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	defaultPath := filepath.Join(baseDir, "config.yml")
	if _, err = os.Stat(defaultPath); err != nil {
		return config.MustLoad("")
	}

	return config.MustLoad(defaultPath)
}

// initialize logger.
func initLogger(conf *config.Config, out *os.File) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
