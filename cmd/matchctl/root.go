package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"freelance-match/internal/app"
	"freelance-match/internal/config"
	"freelance-match/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "matchctl"

var (
	debugLogs bool
	jsonLogs  bool

	rootCmd = &cobra.Command{
		Use:          appName,
		Short:        "matchctl runs freelancer ranking and design evaluation jobs against the marketplace database",
		SilenceUsage: true,
	}
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugLogs, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLogs, "json", "j", false, "json format for logging")
}

// withContainer loads config, builds the container and hands it to fn; everything is closed afterwards.
func withContainer(ctx context.Context, fn func(c *app.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(jsonLogs, debugLogs || cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	c, err := app.NewContainer(ctx, cfg, log.Named(appName))
	if err != nil {
		log.Error("container init failed", zap.Error(err))
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("close failed", zap.Error(err))
		}
	}()
	return fn(c)
}

func parseIDFlag(cmd *cobra.Command, name string) (uuid.UUID, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--%s must be a uuid: %w", name, err)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
