// Package stats derives collection summaries from already-fetched catalog and
// collection slices. Every function is pure and never fails.
package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/domain"
)

// Converter is the subset of currency.Converter the aggregations need.
type Converter interface {
	ToBase(amount int64, from currency.Code, fixedRate *float64) int64
	FromBase(amount int64, to currency.Code) int64
}

// Completion describes how much of one series is owned.
type Completion struct {
	CatalogCount     int     `json:"catalogCount"`
	UniqueOwnedCount int     `json:"uniqueOwnedCount"`
	Percent          float64 `json:"percent"`
}

// Summary counts owned rows. Copies is every owned row, Unique the distinct
// figures and Duplicates the rows beyond the first copy of each figure.
type Summary struct {
	Copies     int `json:"copies"`
	Unique     int `json:"unique"`
	Duplicates int `json:"duplicates"`
}

// PerFigureOwnedCount counts owned rows for figureID.
func PerFigureOwnedCount(owned []domain.Owned, figureID string) int {
	n := 0
	for _, o := range owned {
		if o.FigureID == figureID {
			n++
		}
	}
	return n
}

// SeriesCompletion reports unique owned figures against the catalog of one
// series. An empty catalog yields 0%.
func SeriesCompletion(figures []domain.Figure, owned []domain.Owned, seriesName string) Completion {
	counts := ownedCounts(owned)
	var c Completion
	for _, f := range figures {
		if f.Series != seriesName {
			continue
		}
		c.CatalogCount++
		if counts[f.ID] > 0 {
			c.UniqueOwnedCount++
		}
	}
	c.Percent = percent(c.UniqueOwnedCount, c.CatalogCount)
	return c
}

// TotalSpend sums price, tax and shipping of every row in EUR (using the
// row's fixed rate when present) and converts the total once to display.
func TotalSpend(owned []domain.Owned, display currency.Code, conv Converter) int64 {
	return conv.FromBase(spendBase(owned, conv), display)
}

// MissingFigures lists catalog figures in the series with no owned row,
// sorted by name.
func MissingFigures(figures []domain.Figure, owned []domain.Owned, seriesName string) []domain.Figure {
	counts := ownedCounts(owned)
	missing := make([]domain.Figure, 0)
	for _, f := range figures {
		if f.Series == seriesName && counts[f.ID] == 0 {
			missing = append(missing, f)
		}
	}
	sort.SliceStable(missing, func(i, j int) bool {
		return lessFold(missing[i].Name, missing[j].Name)
	})
	return missing
}

// Summarize counts copies, unique figures and duplicates.
func Summarize(owned []domain.Owned) Summary {
	counts := ownedCounts(owned)
	s := Summary{Copies: len(owned), Unique: len(counts)}
	for _, n := range counts {
		if n > 1 {
			s.Duplicates += n - 1
		}
	}
	return s
}

// MSRPTotal sums the MSRP of every owned copy in display currency. Figures
// missing from the catalog are skipped.
func MSRPTotal(owned []domain.Owned, figures []domain.Figure, display currency.Code, conv Converter) int64 {
	byID := indexFigures(figures)
	var base int64
	for _, o := range owned {
		f, ok := byID[o.FigureID]
		if !ok {
			continue
		}
		base += conv.ToBase(f.MSRPCents, currency.Code(f.MSRPCurrency), nil)
	}
	return conv.FromBase(base, display)
}

// RoundOneDecimal rounds a percentage for display.
func RoundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func spendBase(owned []domain.Owned, conv Converter) int64 {
	var total int64
	for _, o := range owned {
		total += conv.ToBase(o.LineTotal(), currency.Code(o.Currency), o.FxPerEUR)
	}
	return total
}

func ownedCounts(owned []domain.Owned) map[string]int {
	counts := make(map[string]int, len(owned))
	for _, o := range owned {
		counts[o.FigureID]++
	}
	return counts
}

func indexFigures(figures []domain.Figure) map[string]domain.Figure {
	byID := make(map[string]domain.Figure, len(figures))
	for _, f := range figures {
		byID[f.ID] = f
	}
	return byID
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func lessFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
