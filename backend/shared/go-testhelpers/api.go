package testhelpers

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strconv"
	"testing"

	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/stretchr/testify/require"
)

// BuildAuthRequest builds a request carrying the session as the console
// does: in the __Host- cookie. An empty jwtString sends no credentials.
func (h *TestHelper) BuildAuthRequest(method, reqURL, jwtString string, body []byte) *http.Request {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(body))
	require.NoError(h.T, err)

	if jwtString != "" {
		req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: jwtString, Path: "/"})
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// DoRequest performs an HTTP request and asserts that no network-level error occurred.
func (h *TestHelper) DoRequest(req *http.Request) *http.Response {
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.T, err, "HTTP request failed")
	return resp
}

// ReadBody drains and returns the response body.
func (h *TestHelper) ReadBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return "<nil response or body>"
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(h.T, err)
	return string(b)
}

func envInt64(t *testing.T, key string) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	require.NoError(t, err, "%s must be an integer", key)
	return v
}
