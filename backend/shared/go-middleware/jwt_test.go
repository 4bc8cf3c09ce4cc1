package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueSessionTokenRoundTrip(t *testing.T) {
	priv := newKey(t)
	now := time.Now()
	in := Session{
		UserID:               "17",
		HoldingID:            3,
		Name:                 "Ana",
		Email:                "ana@example.com",
		IdentificationNumber: "1001",
		ExternalToken:        "backend-token",
		ExpiresAt:            now.Add(2 * time.Hour),
	}

	signed, err := IssueSessionToken(priv, testEncKey, in, now)
	require.NoError(t, err)
	assert.NotContains(t, signed, "backend-token")

	out, err := ValidateSessionToken(signed, &priv.PublicKey, testEncKey)
	require.NoError(t, err)
	assert.Equal(t, in.UserID, out.UserID)
	assert.Equal(t, in.HoldingID, out.HoldingID)
	assert.Equal(t, in.IdentificationNumber, out.IdentificationNumber)
	assert.Equal(t, "backend-token", out.ExternalToken)
	assert.WithinDuration(t, in.ExpiresAt, out.ExpiresAt, time.Second)
}

func TestIssueSessionTokenRejectsBadInput(t *testing.T) {
	priv := newKey(t)
	now := time.Now()

	_, err := IssueSessionToken(priv, testEncKey, Session{ExpiresAt: now.Add(time.Hour)}, now)
	assert.Error(t, err)

	_, err = IssueSessionToken(priv, testEncKey, Session{UserID: "1", ExpiresAt: now}, now)
	assert.Error(t, err)

	_, err = IssueSessionToken(priv, []byte("short"), Session{UserID: "1", ExpiresAt: now.Add(time.Hour)}, now)
	assert.Error(t, err)
}
