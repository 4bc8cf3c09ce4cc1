package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testEncKey = []byte("0123456789abcdef0123456789abcdef")

func signTestToken(t *testing.T, priv *rsa.PrivateKey, exp time.Time, mutate func(*SessionClaims)) string {
	t.Helper()
	ext, err := utils.Encrypt(testEncKey, "backend-token")
	require.NoError(t, err)

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   "17",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		HoldingID:     3,
		Name:          "Ana",
		ExternalToken: ext,
	}
	if mutate != nil {
		mutate(claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(priv)
	require.NoError(t, err)
	return signed
}

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return priv
}

func runMiddleware(priv *rsa.PrivateKey, req *http.Request) (*httptest.ResponseRecorder, *Session) {
	var got *Session
	h := SessionMiddleware(&priv.PublicKey, testEncKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, got
}

func TestSessionMiddlewareAcceptsCookie(t *testing.T) {
	priv := newKey(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: signTestToken(t, priv, time.Now().Add(time.Hour), nil)})

	rec, session := runMiddleware(priv, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, session)
	require.Equal(t, "17", session.UserID)
	require.Equal(t, int64(3), session.HoldingID)
	require.Equal(t, "backend-token", session.ExternalToken)
}

func TestSessionMiddlewareAcceptsBearer(t *testing.T) {
	priv := newKey(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, priv, time.Now().Add(time.Hour), nil))

	rec, session := runMiddleware(priv, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "17", session.UserID)
}

func TestSessionMiddlewareRejects(t *testing.T) {
	priv := newKey(t)
	other := newKey(t)

	cases := map[string]struct {
		token string
		code  string
	}{
		"missing":      {"", utils.ErrCodeUnauthorized},
		"expired":      {signTestToken(t, priv, time.Now().Add(-time.Minute), nil), utils.ErrCodeTokenExpired},
		"wrong key":    {signTestToken(t, other, time.Now().Add(time.Hour), nil), utils.ErrCodeUnauthorized},
		"wrong issuer": {signTestToken(t, priv, time.Now().Add(time.Hour), func(c *SessionClaims) { c.Issuer = "someone" }), utils.ErrCodeUnauthorized},
		"bad ext":      {signTestToken(t, priv, time.Now().Add(time.Hour), func(c *SessionClaims) { c.ExternalToken = "garbage" }), utils.ErrCodeUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec, session := runMiddleware(priv, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Body.String(), tc.code)
			require.Nil(t, session)
		})
	}
}
