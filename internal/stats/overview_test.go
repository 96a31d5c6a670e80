package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/domain"
)

func TestOverview(t *testing.T) {
	conv := currency.NewConverter(currency.Table{currency.EUR: 1, currency.USD: 2})
	owned := []domain.Owned{
		{FigureID: "f1", PricePaidCents: 1000, Currency: "EUR"},
		{FigureID: "f1", PricePaidCents: 500, Currency: "EUR"},
		{FigureID: "f4", PricePaidCents: 400, Currency: "USD"},
	}
	wish := []domain.Wish{{FigureID: "f2"}, {FigureID: "f3"}, {FigureID: "ghost"}}

	rows, totals := Overview([]string{"X-Men", "Spider", "Empty"}, catalog(), owned, wish, currency.EUR, conv)
	require.Len(t, rows, 3)

	assert.Equal(t, "Empty", rows[0].Series)
	assert.Equal(t, 0, rows[0].Catalog)
	assert.Equal(t, 0.0, rows[0].Percent)
	assert.Empty(t, rows[0].MissingNames)

	spider := rows[1]
	assert.Equal(t, "Spider", spider.Series)
	assert.Equal(t, 100.0, spider.Percent)
	assert.Equal(t, int64(200), spider.SpendCents)

	xmen := rows[2]
	assert.Equal(t, 3, xmen.Catalog)
	assert.Equal(t, 1, xmen.Unique)
	assert.Equal(t, 1, xmen.Duplicates)
	assert.Equal(t, 2, xmen.Wishlist)
	assert.Equal(t, int64(1500), xmen.SpendCents)
	assert.Equal(t, 33.3, xmen.Percent)
	assert.Equal(t, []string{"Beast", "cyclops"}, xmen.MissingNames)

	assert.Equal(t, Totals{
		Series:     3,
		Catalog:    4,
		Unique:     2,
		Copies:     3,
		Duplicates: 1,
		SpendCents: 1700,
		Percent:    50,
		Currency:   "EUR",
	}, totals)
}

func TestOverviewAddsSeriesOnlyKnownFromFigures(t *testing.T) {
	rows, totals := Overview(nil, catalog(), nil, nil, currency.EUR, currency.NewConverter(nil))
	require.Len(t, rows, 2)
	assert.Equal(t, 2, totals.Series)
	assert.Equal(t, 0.0, totals.Percent)
}

func TestSortRows(t *testing.T) {
	base := []SeriesRow{
		{Series: "b", Percent: 50, SpendCents: 10, Wishlist: 3},
		{Series: "A", Percent: 50, SpendCents: 30, Wishlist: 1},
		{Series: "c", Percent: 90, SpendCents: 20, Wishlist: 1},
	}
	cases := []struct {
		key  SortKey
		want []string
	}{
		{SortName, []string{"A", "b", "c"}},
		{SortPct, []string{"c", "A", "b"}},
		{SortSpend, []string{"A", "c", "b"}},
		{SortWish, []string{"b", "A", "c"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.key), func(t *testing.T) {
			rows := append([]SeriesRow(nil), base...)
			SortRows(rows, tc.key)
			got := make([]string, len(rows))
			for i, r := range rows {
				got[i] = r.Series
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPct, ParseSortKey(" PCT "))
	assert.Equal(t, SortWish, ParseSortKey("wish"))
	assert.Equal(t, SortName, ParseSortKey("bogus"))
	assert.Equal(t, SortName, ParseSortKey(""))
}

func TestFilterRows(t *testing.T) {
	rows := []SeriesRow{{Series: "X-Men"}, {Series: "Spider"}, {Series: "x-force"}}
	assert.Len(t, FilterRows(rows, "x-"), 2)
	assert.Len(t, FilterRows(rows, "  "), 3)
	assert.Empty(t, FilterRows(rows, "zzz"))
}

func TestSpendByUser(t *testing.T) {
	conv := currency.NewConverter(currency.Table{currency.EUR: 1, currency.USD: 2})
	users := []domain.User{{ID: "u1", Email: "a@x"}, {ID: "u2", Email: "b@x"}}
	owned := []domain.Owned{
		{UserID: "u1", FigureID: "f1", PricePaidCents: 1000, Currency: "EUR"},
		{UserID: "u1", FigureID: "f1", PricePaidCents: 400, Currency: "USD"},
		{UserID: "u3", FigureID: "f1", PricePaidCents: 999, Currency: "EUR"},
	}
	rows := SpendByUser(users, owned, conv)
	require.Len(t, rows, 2)
	assert.Equal(t, UserCollection{UserID: "u1", Email: "a@x", OwnedCopies: 2, OwnedUnique: 1, SpendCentsBase: 1200}, rows[0])
	assert.Equal(t, UserCollection{UserID: "u2", Email: "b@x"}, rows[1])
}
