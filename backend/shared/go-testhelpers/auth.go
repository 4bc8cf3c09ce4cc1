package testhelpers

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/Jepierre88/coins-control/backend/shared/go-middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// SessionKeys bundles the signing pair and token encryption key used by
// console sessions.
type SessionKeys struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
	EncKey  []byte
}

// NewSessionKeys generates throwaway keys for unit tests.
func NewSessionKeys(t *testing.T) *SessionKeys {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	encKey := make([]byte, 32)
	_, err = rand.Read(encKey)
	require.NoError(t, err)
	return &SessionKeys{Private: priv, Public: &priv.PublicKey, EncKey: encKey}
}

// MintSessionJWT signs a session token exactly like sign-in does.
func MintSessionJWT(t *testing.T, priv *rsa.PrivateKey, encKey []byte, s middleware.Session, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	s.ExpiresAt = now.Add(ttl)
	signed, err := middleware.IssueSessionToken(priv, encKey, s, now)
	require.NoError(t, err)
	return signed
}

// Mint is MintSessionJWT with k's keys.
func (k *SessionKeys) Mint(t *testing.T, s middleware.Session) string {
	return MintSessionJWT(t, k.Private, k.EncKey, s, time.Hour)
}

// CreateSessionJWT mints a session for integration tests against a running
// service that shares the helper's keys.
func (h *TestHelper) CreateSessionJWT(userID string, holdingID int64, externalToken string) string {
	return MintSessionJWT(h.T, h.PrivateKey, h.SessionEncryptionKey, middleware.Session{
		UserID:        userID,
		HoldingID:     holdingID,
		ExternalToken: externalToken,
	}, time.Hour)
}

// UnsignedJWT builds a token without a verifiable signature, the way the
// backend's tokens look to us. exp is omitted when zero.
func UnsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "backend-user"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}
