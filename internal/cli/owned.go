package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Clark-Hu/figure-collector/internal/apiclient"
	"github.com/Clark-Hu/figure-collector/internal/currency"
)

func (a *app) newOwnedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owned",
		Short: "Manage owned copies",
		Long: `Manage owned copies.

Subcommands:
  list  - Show owned copies with line totals
  add   - Record a purchased copy of a figure
  rm    - Delete an owned copy`,
	}
	cmd.AddCommand(a.newOwnedListCmd(), a.newOwnedAddCmd(), a.newOwnedRmCmd())
	return cmd
}

func (a *app) newOwnedListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show owned copies",
		Args:  cobra.NoArgs,
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
			rates.Daily(ctx)
			conv := currency.NewConverter(rates)

			owned := collection.Owned()
			if len(owned) == 0 {
				a.out.Info("no owned copies yet")
				return nil
			}
			rows := make([][]string, 0, len(owned))
			var total int64
			for _, o := range owned {
				name := o.FigureID
				if f, ok := catalog.ByID(o.FigureID); ok {
					name = f.Name
				}
				code := currency.Code(o.Currency)
				base := conv.ToBase(o.LineTotal(), code, o.FxPerEUR)
				total += base
				rows = append(rows, []string{
					o.ID,
					name,
					currency.Format(o.LineTotal(), code),
					currency.Format(conv.FromBase(base, display), display),
				})
			}
			a.out.Table([]string{"ID", "FIGURE", "PAID", "IN " + string(display)}, rows)
			summary := collection.Summary()
			a.out.Muted("%d copies, %d unique, %d duplicates, total %s",
				summary.Copies, summary.Unique, summary.Duplicates, currency.Format(conv.FromBase(total, display), display))
			return nil
		},
	}
}

func (a *app) newOwnedAddCmd() *cobra.Command {
	var (
		price, tax, shipping string
		ccy, note            string
		fx                   float64
	)
	cmd := &cobra.Command{
		Use:   "add FIGURE_ID",
		Short: "Record a purchased copy",
		Long: `Record a purchased copy of a figure. Amounts are decimal values in the
purchase currency; --fx pins the purchase-time rate (units per 1 EUR).

Examples:
  collector owned add 0b7c... --price 24.99 --tax 2.10 --currency USD
  collector owned add 0b7c... --price 19.99 --currency GBP --fx 0.85 --note "con exclusive"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := apiclient.OwnedInput{FigureID: strings.TrimSpace(args[0])}
			var err error
			if in.PricePaidCents, err = parseAmount("price", price); err != nil {
				return err
			}
			if in.TaxCents, err = parseAmount("tax", tax); err != nil {
				return err
			}
			if in.ShippingCents, err = parseAmount("shipping", shipping); err != nil {
				return err
			}
			if ccy != "" {
				code, ok := currency.ParseCode(ccy)
				if !ok {
					return fmt.Errorf("unsupported currency %q", ccy)
				}
				in.Currency = string(code)
			}
			if cmd.Flags().Changed("fx") {
				if fx <= 0 {
					return fmt.Errorf("--fx must be positive")
				}
				in.FxPerEUR = &fx
			}
			if note != "" {
				in.Note = &note
			}

			c, err := a.authedClient()
			if err != nil {
				return err
			}
			collection, err := a.loadCollection(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer collection.Close()

			created, err := collection.AddOwned(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("add owned: %w", err)
			}
			a.out.Success("added %s (%s), you now own %d", created.ID,
				currency.Format(created.LineTotal(), currency.Code(created.Currency)), collection.OwnedCount(created.FigureID))
			return nil
		},
	}
	cmd.Flags().StringVar(&price, "price", "0", "Price paid")
	cmd.Flags().StringVar(&tax, "tax", "0", "Tax")
	cmd.Flags().StringVar(&shipping, "shipping", "0", "Shipping")
	cmd.Flags().StringVar(&ccy, "currency", "", "Purchase currency (default EUR)")
	cmd.Flags().Float64Var(&fx, "fx", 0, "Purchase-time rate, units per 1 EUR")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	return cmd
}

func (a *app) newOwnedRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an owned copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			if err := c.DeleteOwned(cmd.Context(), strings.TrimSpace(args[0])); err != nil {
				return fmt.Errorf("delete owned: %w", err)
			}
			a.out.Success("deleted %s", args[0])
			return nil
		},
	}
}

// parseAmount turns "24.99" into 2499 minor units.
func parseAmount(name, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return 0, fmt.Errorf("--%s: %q is not a non-negative amount", name, raw)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("--%s: at most two decimals allowed", name)
	}
	return cents.IntPart(), nil
}
