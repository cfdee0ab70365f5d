// Package commands implements the leaptable CLI commands. Every data command
// goes through a tableservice.Service bound to the configured target.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leaptable/internal/cli/config"
	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/pkg/adapter"
	"github.com/leapstack-labs/leaptable/pkg/tableservice"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Adapter  adapter.Adapter
	Service  *tableservice.Service
	Renderer *output.Renderer
}

// NewCommandContext connects to the configured target and builds the table
// service. Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cctx, err := NewCommandContextWithoutService(cmd)
	if err != nil {
		return nil, nil, err
	}

	adp, err := connect(cmd.Context(), cctx.Cfg, cctx.Logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []tableservice.Option{tableservice.WithLogger(cctx.Logger)}
	if cctx.Cfg.StrictIdentifiers {
		opts = append(opts, tableservice.WithStrictIdentifiers())
	}

	cctx.Adapter = adp
	cctx.Service = tableservice.New(adp.Session(), adp.Dialect(), opts...)

	cleanup := func() {
		if err := adp.Close(); err != nil {
			cctx.Logger.Warn("failed to close connection", slog.String("error", err.Error()))
		}
	}
	return cctx, cleanup, nil
}

// NewCommandContextWithoutService creates a CommandContext without a
// database connection. Useful for commands that don't need database access.
func NewCommandContextWithoutService(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		var err error
		cfg, err = config.LoadConfig("", nil)
		if err != nil {
			return nil, err
		}
	}

	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// connect creates and connects the adapter for the configured target.
func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (adapter.Adapter, error) {
	adapterCfg := cfg.Target.AdapterConfig()

	adp, err := adapter.NewAdapter(adapterCfg, logger)
	if err != nil {
		return nil, err
	}
	if err := adp.Connect(ctx, adapterCfg); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", adapterCfg.Type, err)
	}

	logger.Debug("connected", slog.String("type", adapterCfg.Type), slog.String("database", adapterCfg.Database))
	return adp, nil
}
