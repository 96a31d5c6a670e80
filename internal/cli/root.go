// Package cli implements the collector command-line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/figure-collector/internal/apiclient"
	"github.com/Clark-Hu/figure-collector/internal/cache"
	"github.com/Clark-Hu/figure-collector/internal/cli/output"
	"github.com/Clark-Hu/figure-collector/internal/config"
	"github.com/Clark-Hu/figure-collector/internal/currency"
)

const defaultAPIURL = "http://localhost:8080"

// app carries the global flags and shared clients for one invocation.
type app struct {
	apiURL   string
	token    string
	currency string
	timeout  time.Duration
	verbose  bool

	out    *output.Printer
	stderr io.Writer
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{out: output.New(stdout), stderr: stderr}

	root := &cobra.Command{
		Use:   "collector",
		Short: "Figure collection tracker client",
		Long: `collector talks to the figure collector API to browse the catalog,
record owned copies and wishlist entries, and report series completion
and spend in EUR, USD, GBP or JPY.

Configuration is read from flags, then COLLECTOR_* environment variables,
then a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api", envOr("COLLECTOR_API", defaultAPIURL), "API base URL (COLLECTOR_API)")
	flags.StringVar(&a.token, "token", os.Getenv("COLLECTOR_TOKEN"), "Session token (COLLECTOR_TOKEN)")
	flags.StringVar(&a.currency, "currency", envOr("COLLECTOR_CURRENCY", string(currency.Base)), "Display currency: EUR, USD, GBP or JPY")
	flags.DurationVar(&a.timeout, "timeout", 10*time.Second, "HTTP timeout")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Verbose logging to stderr")

	root.AddCommand(
		a.newLoginCmd(),
		a.newCatalogCmd(),
		a.newOwnedCmd(),
		a.newWishCmd(),
		a.newStatsCmd(),
		a.newMigrateCmd(),
		a.newBackfillCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		output.New(os.Stderr).Error("%v", err)
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (a *app) logger() *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

func (a *app) client() (*apiclient.Client, error) {
	return apiclient.New(a.apiURL, a.token, a.timeout, a.logger())
}

func (a *app) authedClient() (*apiclient.Client, error) {
	if strings.TrimSpace(a.token) == "" {
		return nil, fmt.Errorf("not logged in: pass --token or set COLLECTOR_TOKEN (see `collector login`)")
	}
	return a.client()
}

func (a *app) displayCurrency() (currency.Code, error) {
	code, ok := currency.ParseCode(a.currency)
	if !ok {
		return "", fmt.Errorf("unsupported currency %q", a.currency)
	}
	return code, nil
}

func (a *app) rateStore(c *apiclient.Client) *cache.RateStore {
	return cache.NewRateStore(c, time.Hour, a.logger())
}

func (a *app) loadCatalog(ctx context.Context, c *apiclient.Client) (*cache.CatalogStore, error) {
	store := cache.NewCatalogStore(c, a.logger())
	if err := store.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return store, nil
}

// loadCollection returns a refreshed store; the caller must Close it.
func (a *app) loadCollection(ctx context.Context, c *apiclient.Client) (*cache.CollectionStore, error) {
	store := cache.NewCollectionStore(c, nil, a.logger())
	if err := store.Refresh(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return store, nil
}
