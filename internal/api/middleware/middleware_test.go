package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RoyceAzure/lab/pickup/internal/constants"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
})

func TestRecoverMiddleware(t *testing.T) {
	var logs bytes.Buffer
	h := RecoverMiddleware(zerolog.New(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
	require.Contains(t, logs.String(), "boom")
}

func TestAdminKeyMiddleware(t *testing.T) {
	h := AdminKeyMiddleware(func() string { return "pw" })(okHandler)

	cases := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{"missing", "/admin/orders", "", http.StatusUnauthorized},
		{"wrong header", "/admin/orders", "nope", http.StatusUnauthorized},
		{"header", "/admin/orders", "pw", http.StatusOK},
		{"query", "/admin/orders?key=pw", "", http.StatusOK},
		{"wrong query", "/admin/orders?key=pw2", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set(constants.AdminKeyHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAdminKeyMiddleware_EmptySecretDeniesAll(t *testing.T) {
	h := AdminKeyMiddleware(func() string { return "" })(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orders?key=", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

type denyAll struct{ keys []string }

func (d *denyAll) Allow(_ context.Context, key string) bool {
	d.keys = append(d.keys, key)
	return false
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := &denyAll{}
	h := NewRateLimitMiddleware(limiter)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/order", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, []string{"10.1.2.3"}, limiter.keys)
}

func TestLoggerMiddleware(t *testing.T) {
	var logs bytes.Buffer
	h := RequestIdMiddleware(LoggerMiddleware(zerolog.New(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(constants.RequestIDHeader, "rid-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	dec := json.NewDecoder(&logs)
	var inside, done map[string]any
	require.NoError(t, dec.Decode(&inside))
	require.NoError(t, dec.Decode(&done))
	require.Equal(t, "rid-1", inside["request_id"])
	require.Equal(t, "request completed", done["message"])
	require.Equal(t, float64(http.StatusTeapot), done["status"])
	require.Equal(t, "warn", done["level"])
}
