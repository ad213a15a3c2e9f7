// cmd/storefront/cmd_list.go
package main

import (
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/storefront"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	listCategory string
	listSearch   string
	listOffer    int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the catalog, optionally filtered",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "show only this category")
	listCmd.Flags().StringVar(&listSearch, "search", "", "search titles and descriptions")
	listCmd.Flags().IntVar(&listOffer, "offer", 0, "show the products an offer applies to")
	listCmd.MarkFlagsMutuallyExclusive("category", "search", "offer")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a := newApp(cfg, logger)
	if err := a.store.Load(cmd.Context()); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), storefront.MsgFetchFailed)
		return err
	}

	switch {
	case cmd.Flags().Changed("category"):
		a.store.OnSelectCategory(listCategory)
	case cmd.Flags().Changed("search"):
		a.store.OnSearch(listSearch)
	case cmd.Flags().Changed("offer"):
		if err := a.store.OnSelectOffer(listOffer); err != nil {
			return err
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Produto", "Categoria", "Preço")
	for _, p := range a.store.Visible() {
		t.Row(fmt.Sprint(p.ID), p.Title, a.store.CategoryLabel(p.Category), catalog.FormatPrice(p.Price))
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}
