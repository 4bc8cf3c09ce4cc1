package utils

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSessionCookie_HighSecurity(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "jwt-value", 2*time.Hour, true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, utils.SessionCookieName, c.Name)
	assert.Equal(t, "jwt-value", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 7200, c.MaxAge)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)

	raw := rec.Header().Get("Set-Cookie")
	assert.Contains(t, raw, "SameSite=Lax")
	assert.NotContains(t, raw, "Partitioned")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestSetSessionCookie_LowSecurityAndEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "jwt-value", time.Hour, false)
	raw := rec.Header().Get("Set-Cookie")
	assert.Contains(t, raw, "SameSite=None")
	assert.True(t, strings.HasSuffix(raw, "; Partitioned"))

	empty := httptest.NewRecorder()
	SetSessionCookie(empty, "", time.Hour, true)
	assert.Empty(t, empty.Header().Values("Set-Cookie"))
}

func TestClearSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSessionCookie(rec, true)

	raw := rec.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(raw, utils.SessionCookieName+"=;"))
	assert.Contains(t, raw, "Max-Age=0")
}
