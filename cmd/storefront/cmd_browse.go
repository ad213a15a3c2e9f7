// cmd/storefront/cmd_browse.go
package main

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/telemetry"
	"storefront/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive terminal storefront",
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// the UI owns the terminal, so logs only go to a file when one is configured
	logger, err := logging.NewFile(cfg.Logging, cfg.Logging.File, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	a := newApp(cfg, logger)
	model := tui.New(ctx, a.store, tui.Options{
		Contact: cfg.Storefront.Contact,
		Logger:  logger.Named("tui"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run storefront ui: %w", err)
	}
	return nil
}
