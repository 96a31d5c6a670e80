package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer serves the handful of API routes the CLI uses.
type fakeServer struct {
	mu    sync.Mutex
	owned []map[string]interface{}
	wish  []map[string]interface{}
}

const catalogJSON = `{"data":{"series":["Avengers","X-Men"],"figures":[
{"id":"f1","name":"Cyclops","character":"Cyclops","line":"Legends","releaseYear":2021,"msrpCents":2000,"msrpCurrency":"EUR","image":"","seriesId":"s1","series":"X-Men"},
{"id":"f2","name":"Wolverine","character":"Wolverine","line":"Legends","releaseYear":2022,"msrpCents":2500,"msrpCurrency":"EUR","image":"","seriesId":"s1","series":"X-Men"},
{"id":"f3","name":"Thor","character":"Thor","line":"Legends","releaseYear":2022,"msrpCents":3000,"msrpCurrency":"EUR","image":"","seriesId":"s2","series":"Avengers"}]}}`

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	authed := r.Header.Get("Authorization") == "Bearer fc_test"
	write := func(status int, v interface{}) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": v})
	}
	fail := func(status int, code, msg string) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"error":{"code":"`+code+`","message":"`+msg+`"}}`)
	}

	switch {
	case r.URL.Path == "/api/auth/login":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "password123" {
			fail(http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password")
			return
		}
		write(http.StatusOK, map[string]interface{}{"token": "fc_test", "user": map[string]string{"id": "u1", "email": body["email"], "role": "USER"}})
	case r.URL.Path == "/api/catalog":
		_, _ = io.WriteString(w, catalogJSON)
	case r.URL.Path == "/api/fx":
		write(http.StatusOK, map[string]interface{}{"date": "2024-05-01", "rates": map[string]float64{"EUR": 1, "USD": 2, "GBP": 0.5, "JPY": 100}})
	case !authed:
		fail(http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
	case r.URL.Path == "/api/owned" && r.Method == http.MethodGet:
		write(http.StatusOK, f.owned)
	case r.URL.Path == "/api/owned" && r.Method == http.MethodPost:
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["figureId"] != "f1" && body["figureId"] != "f2" && body["figureId"] != "f3" {
			fail(http.StatusNotFound, "NOT_FOUND", "figure not found")
			return
		}
		if _, ok := body["currency"]; !ok {
			body["currency"] = "EUR"
		}
		body["id"] = "o" + string(rune('1'+len(f.owned)))
		f.owned = append(f.owned, body)
		write(http.StatusCreated, body)
	case r.URL.Path == "/api/wishlist" && r.Method == http.MethodGet:
		write(http.StatusOK, f.wish)
	case r.URL.Path == "/api/wishlist" && r.Method == http.MethodPost:
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["id"] = "w1"
		f.wish = []map[string]interface{}{body}
		write(http.StatusCreated, body)
	case strings.HasPrefix(r.URL.Path, "/api/owned/") && r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		fail(http.StatusNotFound, "NOT_FOUND", "no route")
	}
}

func run(t *testing.T, api string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COLLECTOR_TOKEN", "")
	t.Setenv("COLLECTOR_CURRENCY", "")
	t.Setenv("DB_URL", "")
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(&stdout, &stderr)
	root.SetArgs(append([]string{"--api", api}, args...))
	err := root.Execute()
	return stdout.String(), err
}

func newFake(t *testing.T) (*fakeServer, string) {
	t.Helper()
	fake := &fakeServer{}
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)
	return fake, ts.URL
}

func TestLoginPrintsToken(t *testing.T) {
	_, api := newFake(t)
	out, err := run(t, api, "login", "--email", "me@example.com", "--password", "password123")
	require.NoError(t, err)
	assert.Equal(t, "fc_test\n", out)

	_, err = run(t, api, "login", "--email", "me@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestCommandsRequireToken(t *testing.T) {
	_, api := newFake(t)
	for _, args := range [][]string{{"owned", "list"}, {"owned", "add", "f1"}, {"wish", "add", "f1"}, {"stats"}} {
		_, err := run(t, api, args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "not logged in")
	}
}

func TestOwnedAddAndList(t *testing.T) {
	fake, api := newFake(t)

	out, err := run(t, api, "--token", "fc_test", "owned", "add", "f1", "--price", "10.00", "--tax", "1", "--shipping", "0.50")
	require.NoError(t, err)
	assert.Contains(t, out, "you now own 1")
	require.Len(t, fake.owned, 1)
	assert.EqualValues(t, 1000, fake.owned[0]["pricePaidCents"])
	assert.EqualValues(t, 100, fake.owned[0]["taxCents"])
	assert.EqualValues(t, 50, fake.owned[0]["shippingCents"])

	_, err = run(t, api, "--token", "fc_test", "owned", "add", "f1", "--price", "10", "--currency", "USD", "--fx", "1.25")
	require.NoError(t, err)
	assert.Equal(t, "USD", fake.owned[1]["currency"])
	assert.EqualValues(t, 1.25, fake.owned[1]["fxPerEUR"])

	out, err = run(t, api, "--token", "fc_test", "owned", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Cyclops")
	assert.Contains(t, out, "€11.50")
	// 1150 EUR + 1000 USD at 1.25 = 1950 EUR
	assert.Contains(t, out, "2 copies, 1 unique, 1 duplicates, total €19.50")

	_, err = run(t, api, "--token", "fc_test", "owned", "add", "ghost", "--price", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "figure not found")
	assert.Len(t, fake.owned, 2)

	_, err = run(t, api, "--token", "fc_test", "owned", "rm", "o1")
	require.NoError(t, err)
}

func TestOwnedAddValidatesFlags(t *testing.T) {
	_, api := newFake(t)
	cases := [][]string{
		{"--price", "-1"},
		{"--price", "1.234"},
		{"--price", "abc"},
		{"--currency", "CHF"},
		{"--fx", "0"},
	}
	for _, flags := range cases {
		args := append([]string{"--token", "fc_test", "owned", "add", "f1"}, flags...)
		_, err := run(t, api, args...)
		require.Error(t, err, flags)
	}
}

func TestStatsOverviewAndSeries(t *testing.T) {
	fake, api := newFake(t)
	fake.owned = []map[string]interface{}{
		{"id": "o1", "figureId": "f1", "pricePaidCents": 1000, "taxCents": 0, "shippingCents": 0, "currency": "EUR"},
	}

	out, err := run(t, api, "--token", "fc_test", "--currency", "usd", "stats", "--sort", "pct")
	require.NoError(t, err)
	xmen := strings.Index(out, "X-Men")
	avengers := strings.Index(out, "Avengers")
	require.True(t, xmen >= 0 && avengers >= 0, out)
	assert.Less(t, xmen, avengers, "pct sort puts X-Men first")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "spend $20.00")
	assert.Contains(t, out, "rates as of 2024-05-01")

	out, err = run(t, api, "--token", "fc_test", "stats", "--series", "x-men")
	require.NoError(t, err)
	assert.Contains(t, out, "1/2 figures")
	assert.Contains(t, out, "Wolverine")
	assert.NotContains(t, out, "Cyclops")

	_, err = run(t, api, "--token", "fc_test", "stats", "--series", "Spider")
	require.Error(t, err)

	_, err = run(t, api, "--token", "fc_test", "--currency", "CHF", "stats")
	require.Error(t, err)
}

func TestCatalogAndWish(t *testing.T) {
	_, api := newFake(t)

	out, err := run(t, api, "catalog", "--series", "Avengers", "--currency", "GBP")
	require.NoError(t, err)
	assert.Contains(t, out, "Thor")
	assert.Contains(t, out, "£15.00")
	assert.NotContains(t, out, "Cyclops")

	out, err = run(t, api, "--token", "fc_test", "wish", "add", "f2", "--another")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 on wishlist)")
}

func TestDatabaseCommandsRequireURL(t *testing.T) {
	_, api := newFake(t)
	for _, name := range []string{"migrate", "backfill-slugs"} {
		_, err := run(t, api, name)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--db flag is required")
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]int64{"": 0, "0": 0, "24.99": 2499, "3": 300, "0.5": 50, " 12.30 ": 1230}
	for raw, want := range cases {
		got, err := parseAmount("price", raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}
