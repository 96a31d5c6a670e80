package stats

import (
	"sort"
	"strings"

	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/domain"
)

// SortKey selects the ordering of overview rows.
type SortKey string

const (
	SortName  SortKey = "name"
	SortPct   SortKey = "pct"
	SortSpend SortKey = "spend"
	SortWish  SortKey = "wish"
)

// ParseSortKey maps user input to a SortKey, defaulting to SortName.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortPct, SortSpend, SortWish:
		return k
	}
	return SortName
}

// SeriesRow is one line of the per-series overview.
type SeriesRow struct {
	Series       string   `json:"series"`
	Catalog      int      `json:"catalog"`
	Unique       int      `json:"unique"`
	Duplicates   int      `json:"duplicates"`
	Wishlist     int      `json:"wishlist"`
	SpendCents   int64    `json:"spendCents"`
	Percent      float64  `json:"pct"`
	MissingNames []string `json:"missingNames"`
}

// Totals aggregates the whole collection.
type Totals struct {
	Series     int     `json:"series"`
	Catalog    int     `json:"catalog"`
	Unique     int     `json:"unique"`
	Copies     int     `json:"copies"`
	Duplicates int     `json:"duplicates"`
	SpendCents int64   `json:"spendCents"`
	Percent    float64 `json:"pct"`
	Currency   string  `json:"currency"`
}

// Overview builds one row per series name (including empty series) plus
// collection totals, with spend expressed in display currency.
func Overview(series []string, figures []domain.Figure, owned []domain.Owned, wishlist []domain.Wish, display currency.Code, conv Converter) ([]SeriesRow, Totals) {
	bySeries := make(map[string][]domain.Figure, len(series))
	names := make([]string, 0, len(series))
	for _, s := range series {
		if _, ok := bySeries[s]; !ok {
			bySeries[s] = nil
			names = append(names, s)
		}
	}
	for _, f := range figures {
		if _, ok := bySeries[f.Series]; !ok {
			names = append(names, f.Series)
		}
		bySeries[f.Series] = append(bySeries[f.Series], f)
	}

	counts := ownedCounts(owned)
	byID := indexFigures(figures)

	ownedBySeries := make(map[string][]domain.Owned)
	for _, o := range owned {
		if f, ok := byID[o.FigureID]; ok {
			ownedBySeries[f.Series] = append(ownedBySeries[f.Series], o)
		}
	}
	wishedBySeries := make(map[string]map[string]struct{})
	for _, w := range wishlist {
		f, ok := byID[w.FigureID]
		if !ok {
			continue
		}
		if wishedBySeries[f.Series] == nil {
			wishedBySeries[f.Series] = make(map[string]struct{})
		}
		wishedBySeries[f.Series][w.FigureID] = struct{}{}
	}

	summary := Summarize(owned)
	totals := Totals{
		Series:     len(names),
		Catalog:    len(figures),
		Copies:     summary.Copies,
		Duplicates: summary.Duplicates,
		SpendCents: TotalSpend(owned, display, conv),
		Currency:   string(display),
	}

	rows := make([]SeriesRow, 0, len(names))
	for _, name := range names {
		list := bySeries[name]
		row := SeriesRow{Series: name, Catalog: len(list), MissingNames: make([]string, 0)}
		for _, f := range list {
			n := counts[f.ID]
			switch {
			case n == 0:
				row.MissingNames = append(row.MissingNames, f.Name)
			case n > 1:
				row.Unique++
				row.Duplicates += n - 1
			default:
				row.Unique++
			}
		}
		sort.SliceStable(row.MissingNames, func(i, j int) bool {
			return lessFold(row.MissingNames[i], row.MissingNames[j])
		})
		row.Wishlist = len(wishedBySeries[name])
		row.SpendCents = TotalSpend(ownedBySeries[name], display, conv)
		row.Percent = RoundOneDecimal(percent(row.Unique, row.Catalog))
		totals.Unique += row.Unique
		rows = append(rows, row)
	}
	totals.Percent = RoundOneDecimal(percent(totals.Unique, totals.Catalog))

	SortRows(rows, SortName)
	return rows, totals
}

// FilterRows keeps rows whose series name contains query, case-insensitively.
func FilterRows(rows []SeriesRow, query string) []SeriesRow {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	out := make([]SeriesRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Series), q) {
			out = append(out, r)
		}
	}
	return out
}

// SortRows orders rows in place. Non-name keys sort descending and break ties
// by series name.
func SortRows(rows []SeriesRow, key SortKey) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch key {
		case SortPct:
			if a.Percent != b.Percent {
				return a.Percent > b.Percent
			}
		case SortSpend:
			if a.SpendCents != b.SpendCents {
				return a.SpendCents > b.SpendCents
			}
		case SortWish:
			if a.Wishlist != b.Wishlist {
				return a.Wishlist > b.Wishlist
			}
		}
		return lessFold(a.Series, b.Series)
	})
}
