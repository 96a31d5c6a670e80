package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/figure-collector/internal/cache"
	"github.com/Clark-Hu/figure-collector/internal/currency"
)

func (a *app) newCatalogCmd() *cobra.Command {
	var series string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List catalog figures",
		Long: `List every figure with its series, release year and MSRP in the display
currency. With a token, the number of owned copies is shown as well.

Examples:
  collector catalog
  collector catalog --series "X-Men" --currency USD`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := a.displayCurrency()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			catalog, err := a.loadCatalog(ctx, c)
			if err != nil {
				return err
			}

			var collection *cache.CollectionStore
			if a.token != "" {
				collection, err = a.loadCollection(ctx, c)
				if err != nil {
					return err
				}
				defer collection.Close()
			}

			rates := a.rateStore(c)
			rates.Daily(ctx)
			conv := currency.NewConverter(rates)

			headers := []string{"ID", "NAME", "SERIES", "YEAR", "MSRP"}
			if collection != nil {
				headers = append(headers, "OWNED")
			}
			var rows [][]string
			for _, f := range catalog.Figures() {
				if series != "" && !strings.EqualFold(f.Series, series) {
					continue
				}
				msrp := conv.Convert(f.MSRPCents, currency.Code(f.MSRPCurrency), display, nil)
				row := []string{f.ID, f.Name, f.Series, strconv.Itoa(f.ReleaseYear), currency.Format(msrp, display)}
				if collection != nil {
					row = append(row, strconv.Itoa(collection.OwnedCount(f.ID)))
				}
				rows = append(rows, row)
			}
			if len(rows) == 0 {
				a.out.Warning("no figures found")
				return nil
			}
			a.out.Table(headers, rows)
			a.out.Muted("%d figures", len(rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&series, "series", "", "Only figures of this series")
	return cmd
}
