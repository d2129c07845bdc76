package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"peleman-chatbot/catalog"
	"peleman-chatbot/internal/setup"
)

func newCatalogCmd(d deps) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the effective catalog for a language",
		Long:  "Fetches the host catalog (when configured) and prints the catalog the assistant would use, falling back the same way the API does.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := d.config()
			loader, err := setup.CatalogLoader(cfg, d.fetcher(cfg))
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Catalog.FetchTimeout)
			defer cancel()
			view := loader.Wait(ctx, lang)
			return printCatalog(cmd, lang, view)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "language code")
	return cmd
}

func printCatalog(cmd *cobra.Command, lang string, view catalog.View) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "language: %s\nstate:    %s\nsource:   %s\n", lang, view.State, view.Source)
	if view.Err != nil {
		fmt.Fprintf(out, "error:    %v\n", view.Err)
	}
	if view.Index == nil {
		return nil
	}
	c := view.Index.Catalog()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "\nCATEGORY\tNAME\tPRODUCTS\n")
	for _, cat := range c.Categories {
		fmt.Fprintf(w, "%s\t%s\t%d\n", cat.ID, cat.Name, len(view.Index.ProductsInCategory(cat.ID, 0)))
	}
	fmt.Fprintf(w, "\nPRODUCT\tNAME\tCATEGORY\tPRICE\n")
	for _, p := range c.Products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.CategoryID, p.Price)
	}
	return w.Flush()
}
