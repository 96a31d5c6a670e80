package httpserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func BenchmarkCreateOwned(b *testing.B) {
	srv := buildTestServer(b)
	fx := newFixture(b, srv)
	payload := []byte(`{"figureId":"` + fx.figure.ID + `","pricePaidCents":1999,"currency":"USD"}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/owned", bytes.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+fx.userToken)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

func BenchmarkSeriesStats(b *testing.B) {
	srv := buildTestServer(b)
	fx := newFixture(b, srv)
	for i := 0; i < 50; i++ {
		rec := doRequest(b, srv, http.MethodPost, "/api/owned", fx.userToken, map[string]interface{}{"figureId": fx.figure.ID, "pricePaidCents": 1000})
		expectStatus(b, rec, http.StatusCreated)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := doRequest(b, srv, http.MethodGet, "/api/stats/series?currency=JPY", fx.userToken, nil)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
