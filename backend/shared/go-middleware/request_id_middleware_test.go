package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func serveWithRequestID(inbound string) (*httptest.ResponseRecorder, string) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.RequestIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(RequestIDHeader, inbound)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequestIDMiddlewareKeepsInbound(t *testing.T) {
	rec, seen := serveWithRequestID("console-1234abcd")
	require.Equal(t, "console-1234abcd", seen)
	require.Equal(t, "console-1234abcd", rec.Header().Get(RequestIDHeader))
}

func TestRequestIDMiddlewareMintsWhenMissingOrMalformed(t *testing.T) {
	for _, inbound := range []string{"", "short", "has spaces in it!", "<script>alert(1)</script>"} {
		rec, seen := serveWithRequestID(inbound)
		_, err := uuid.Parse(seen)
		require.NoError(t, err, inbound)
		require.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	}
}
