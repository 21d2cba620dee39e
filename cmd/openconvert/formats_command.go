package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"openconvert/internal/catalog"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List supported conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := sessionLogger(cfg)
			if err != nil {
				return err
			}

			var cat catalog.Catalog
			if refresh {
				cat, err = refreshCatalog(cmd.Context(), cfg, logger)
			} else {
				cat, err = loadCatalog(cmd.Context(), cfg, logger)
			}
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleDefault)
			tw.AppendHeader(table.Row{"SOURCE", "TARGETS"})
			for _, source := range cat.Sources() {
				tw.AppendRow(table.Row{source, strings.Join(cat.TargetsFor(source), ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch the catalog again instead of using the cache")
	return cmd
}
