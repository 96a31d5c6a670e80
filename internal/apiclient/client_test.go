package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	c, err := New(ts.URL, "fc_token", 2*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:8080", "", time.Second, nil)
	require.Error(t, err)
}

func TestCreateOwnedSendsBearerAndDecodesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/owned", r.URL.Path)
		assert.Equal(t, "Bearer fc_token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "fig-1", body["figureId"])
		assert.EqualValues(t, 1000, body["pricePaidCents"])
		_, hasCurrency := body["currency"]
		assert.False(t, hasCurrency, "empty currency should be omitted")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"id":"own-1","figureId":"fig-1","pricePaidCents":1000,"taxCents":0,"shippingCents":0,"currency":"EUR","fxPerEUR":null,"note":null}}`)
	})

	owned, err := c.CreateOwned(context.Background(), OwnedInput{FigureID: "fig-1", PricePaidCents: 1000})
	require.NoError(t, err)
	assert.Equal(t, "own-1", owned.ID)
	assert.Equal(t, "EUR", owned.Currency)
	assert.Nil(t, owned.FxPerEUR)
}

func TestErrorEnvelopeMapsToSentinels(t *testing.T) {
	cases := []struct {
		status int
		code   string
		want   error
	}{
		{http.StatusNotFound, "NOT_FOUND", ErrNotFound},
		{http.StatusUnauthorized, "UNAUTHORIZED", ErrUnauthorized},
		{http.StatusForbidden, "FORBIDDEN", ErrForbidden},
		{http.StatusConflict, "IN_USE", ErrConflict},
		{http.StatusUnprocessableEntity, "VALIDATION_ERROR", ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, `{"error":{"code":"`+tc.code+`","message":"nope"}}`)
			})
			err := c.DeleteOwned(context.Background(), "own-1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want))

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.code, apiErr.Code)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestErrorWithoutEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})
	_, err := c.Catalog(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestNoContentAndQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/wishlist/w%201", "/api/wishlist/w 1":
			w.WriteHeader(http.StatusNoContent)
		case "/api/owned/count":
			assert.Equal(t, "fig-9", r.URL.Query().Get("figureId"))
			_, _ = io.WriteString(w, `{"data":{"count":3}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})

	require.NoError(t, c.DeleteWish(context.Background(), "w 1"))
	n, err := c.OwnedCount(context.Background(), "fig-9")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestWithTokenDoesNotMutateOriginal(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"data":{"series":[],"figures":[]}}`)
	})
	anon := c.WithToken("")

	_, err := anon.Catalog(context.Background())
	require.NoError(t, err)
	_, err = c.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Bearer fc_token"}, seen)
}
