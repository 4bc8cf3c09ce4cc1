package middleware

import (
	"crypto/rsa"
	"errors"
	"net/http"
	"strings"

	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
)

// SessionMiddleware protects console endpoints. The session JWT is read from
// the __Host-sessionToken cookie, or from "Authorization: Bearer" for the ops
// CLI and integration tests. Missing or invalid tokens get a 401.
func SessionMiddleware(pub *rsa.PublicKey, encKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractSessionToken(r)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
				return
			}

			session, vErr := ValidateSessionToken(tokenStr, pub, encKey)
			if vErr != nil {
				if errors.Is(vErr, jwt.ErrTokenExpired) {
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, vErr,
					)
					return
				}
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, vErr,
				)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func extractSessionToken(r *http.Request) (string, error) {
	if c, err := r.Cookie(utils.SessionCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing session cookie or Authorization header")
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}
