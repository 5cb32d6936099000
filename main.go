package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/bullscows-backend/internal"
	"github.com/rocketscienceinc/bullscows-backend/internal/config"
)

var releaseVersion = "dev"

// main - is the entry point of the application. It initializes the configuration, logger, and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "bullscows",
		Short:         "Multiplayer Bulls and Cows over WebSocket.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}

			conf, err := config.Load(configPath)
			if err != nil {
				return err
			}

			if err = app.RunApp(cmd.Context(), initLogger(conf), conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yml", "path to the config file; missing files fall back to the environment")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("bullscows {{.Version}}\n")

	return cmd
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: conf.SlogLevel()}))
}
