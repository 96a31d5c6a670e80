package httpserver

import (
	"net/http"
	"strings"

	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/stats"
)

type seriesStatsResponse struct {
	Rows   []stats.SeriesRow `json:"rows"`
	Totals stats.Totals      `json:"totals"`
	AsOf   string            `json:"ratesDate"`
}

func (s *Server) handleSeriesStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	display := currency.Base
	if raw := strings.TrimSpace(query.Get("currency")); raw != "" {
		code, ok := currency.ParseCode(raw)
		if !ok {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "unsupported currency")
			return
		}
		display = code
	}

	ctx := r.Context()
	userID := identity(r).UserID
	names, err := s.repo.Series.Names(ctx)
	if err != nil {
		s.respondRepoError(w, err, "load stats", "series")
		return
	}
	figures, err := s.repo.Figures.Catalog(ctx)
	if err != nil {
		s.respondRepoError(w, err, "load stats", "figure")
		return
	}
	owned, err := s.repo.Owned.ListByUser(ctx, userID)
	if err != nil {
		s.respondRepoError(w, err, "load stats", "owned item")
		return
	}
	wishlist, err := s.repo.Wishlist.ListByUser(ctx, userID)
	if err != nil {
		s.respondRepoError(w, err, "load stats", "wishlist item")
		return
	}

	daily := s.rates.Daily(ctx)
	rows, totals := stats.Overview(names, figures, owned, wishlist, display, currency.NewConverter(daily.Rates))
	rows = stats.FilterRows(rows, query.Get("q"))
	stats.SortRows(rows, stats.ParseSortKey(query.Get("sort")))

	s.respondData(w, http.StatusOK, seriesStatsResponse{Rows: rows, Totals: totals, AsOf: daily.AsOf})
}
