package middleware

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	ContextKeyUserID  = contextKey("userID")
	ContextKeySession = contextKey("session")
)

// TokenIssuer identifies the service that issues console session tokens.
const TokenIssuer = "coins-control"

// SessionClaims is the JWT body of a console session. ExternalToken carries
// the backend bearer token AES-GCM encrypted, never in clear text.
type SessionClaims struct {
	jwt.RegisteredClaims
	HoldingID            int64  `json:"hid"`
	Name                 string `json:"name,omitempty"`
	Email                string `json:"email,omitempty"`
	IdentificationNumber string `json:"idn,omitempty"`
	ExternalToken        string `json:"ext"`
}

// Session is the authenticated operator as seen by handlers.
type Session struct {
	UserID               string
	HoldingID            int64
	Name                 string
	Email                string
	IdentificationNumber string
	// ExternalToken is the decrypted backend bearer token. Pass it explicitly
	// to every backend call.
	ExternalToken string
	ExpiresAt     time.Time
}

// WithSession stores s on ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, s.UserID)
	return context.WithValue(ctx, ContextKeySession, s)
}

// SessionFromContext returns the session set by SessionMiddleware.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ContextKeySession).(*Session)
	return s, ok && s != nil
}
