package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildFigureFilters(f *testing.F) {
	seeds := []string{
		"q=Wolverine&year=2021",
		"year=abc",
		"limit=200",
		"cursor=eyJpZCI6IngifQ",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		filters, err := buildFigureFilters(values)
		if err == nil && filters.Limit < 0 {
			t.Fatalf("negative limit accepted: %d", filters.Limit)
		}
	})
}
