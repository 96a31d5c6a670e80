package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/domain"
	"github.com/Clark-Hu/figure-collector/internal/stats"
)

const barWidth = 20

func (a *app) newStatsCmd() *cobra.Command {
	var series, sortKey, query string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show series completion and spend",
		Long: `Show per-series completion, duplicates, wishlist size and spend in the
display currency, followed by collection totals. With --series, show that
series' completion, spend and the figures still missing.

Examples:
  collector stats --sort pct
  collector stats --currency JPY --query men
  collector stats --series "X-Men"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := a.displayCurrency()
			if err != nil {
				return err
			}
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			catalog, err := a.loadCatalog(ctx, c)
			if err != nil {
				return err
			}
			collection, err := a.loadCollection(ctx, c)
			if err != nil {
				return err
			}
			defer collection.Close()

			rates := a.rateStore(c)
			daily := rates.Daily(ctx)
			conv := currency.NewConverter(rates)

			figures, owned := catalog.Figures(), collection.Owned()
			if series != "" {
				return a.printSeries(series, catalog.Series(), figures, owned, display, conv)
			}

			rows, totals := stats.Overview(catalog.Series(), figures, owned, collection.Wishlist(), display, conv)
			rows = stats.FilterRows(rows, query)
			stats.SortRows(rows, stats.ParseSortKey(sortKey))

			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{
					r.Series,
					fmt.Sprintf("%d/%d", r.Unique, r.Catalog),
					fmt.Sprintf("%.1f%%", r.Percent),
					a.out.Bar(r.Percent, barWidth),
					strconv.Itoa(r.Duplicates),
					strconv.Itoa(r.Wishlist),
					currency.Format(r.SpendCents, display),
				})
			}
			a.out.Section("Series")
			a.out.Table([]string{"SERIES", "OWNED", "PCT", "", "DUPES", "WISH", "SPEND"}, table)
			a.out.Section("Totals")
			a.out.Plain("%d series, %d/%d figures (%.1f%%), %d copies, %d duplicates",
				totals.Series, totals.Unique, totals.Catalog, totals.Percent, totals.Copies, totals.Duplicates)
			a.out.Plain("spend %s", currency.Format(totals.SpendCents, display))
			a.out.Muted("rates as of %s", daily.AsOf)
			return nil
		},
	}
	cmd.Flags().StringVar(&series, "series", "", "Show one series in detail")
	cmd.Flags().StringVar(&sortKey, "sort", "name", "Order rows by name, pct, spend or wish")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only series whose name contains this text")
	return cmd
}

func (a *app) printSeries(name string, names []string, figures []domain.Figure, owned []domain.Owned, display currency.Code, conv *currency.Converter) error {
	match := ""
	for _, n := range names {
		if strings.EqualFold(n, name) {
			match = n
			break
		}
	}
	if match == "" {
		return fmt.Errorf("series %q not found", name)
	}

	completion := stats.SeriesCompletion(figures, owned, match)
	inSeries := make(map[string]bool)
	for _, f := range figures {
		if f.Series == match {
			inSeries[f.ID] = true
		}
	}
	var seriesOwned []domain.Owned
	for _, o := range owned {
		if inSeries[o.FigureID] {
			seriesOwned = append(seriesOwned, o)
		}
	}

	a.out.Section(match)
	a.out.Plain("%d/%d figures  %s %.1f%%", completion.UniqueOwnedCount, completion.CatalogCount,
		a.out.Bar(completion.Percent, barWidth), completion.Percent)
	a.out.Plain("spend %s, msrp %s",
		currency.Format(stats.TotalSpend(seriesOwned, display, conv), display),
		currency.Format(stats.MSRPTotal(seriesOwned, figures, display, conv), display))

	missing := stats.MissingFigures(figures, owned, match)
	if len(missing) == 0 {
		a.out.Success("complete")
		return nil
	}
	rows := make([][]string, 0, len(missing))
	for _, f := range missing {
		msrp := conv.Convert(f.MSRPCents, currency.Code(f.MSRPCurrency), display, nil)
		rows = append(rows, []string{f.ID, f.Name, strconv.Itoa(f.ReleaseYear), currency.Format(msrp, display)})
	}
	a.out.Section("Missing")
	a.out.Table([]string{"ID", "NAME", "YEAR", "MSRP"}, rows)
	return nil
}
