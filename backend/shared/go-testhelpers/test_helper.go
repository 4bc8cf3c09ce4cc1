package testhelpers

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"os"
	"testing"

	"github.com/Jepierre88/coins-control/backend/shared/go-repositories"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// TestHelper wires integration tests to a running scheduling-service.
type TestHelper struct {
	T                    *testing.T
	Ctx                  context.Context
	BaseURL              string
	PrivateKey           *rsa.PrivateKey
	SessionEncryptionKey []byte
	// ExternalToken is a real backend token for the integration holding.
	ExternalToken string
	HoldingID     int64
	BuildingID    int64
	ApartmentID   int64

	// DB and LedgerRepo are nil when DB_URL is unset.
	DB         *pgxpool.Pool
	LedgerRepo repositories.PasscodeRegistrationRepository
}

// NewTestHelper reads the environment (and an optional .env.test) the
// service was started with. Missing required values fail the test.
func NewTestHelper(t *testing.T, appName string) *TestHelper {
	_ = godotenv.Load(".env.test")

	baseURL := os.Getenv("APP_URL_FROM_ANYWHERE")
	require.NotEmpty(t, baseURL, "APP_URL_FROM_ANYWHERE env var is missing")

	privB64 := os.Getenv("RSA_PRIVATE_KEY_BASE64")
	require.NotEmpty(t, privB64, "RSA_PRIVATE_KEY_BASE64 env var is missing")
	privPEM, err := base64.StdEncoding.DecodeString(privB64)
	require.NoError(t, err)
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	require.NoError(t, err)

	sessionSecret := os.Getenv("SESSION_SECRET")
	require.NotEmpty(t, sessionSecret, "SESSION_SECRET env var is missing")
	encKey, err := utils.DeriveKey(sessionSecret, appName)
	require.NoError(t, err)

	h := &TestHelper{
		T:                    t,
		Ctx:                  context.Background(),
		BaseURL:              baseURL,
		PrivateKey:           privKey,
		SessionEncryptionKey: encKey,
		ExternalToken:        os.Getenv("INTEGRATION_BACKEND_TOKEN"),
		HoldingID:            envInt64(t, "INTEGRATION_HOLDING_ID"),
		BuildingID:           envInt64(t, "INTEGRATION_BUILDING_ID"),
		ApartmentID:          envInt64(t, "INTEGRATION_APARTMENT_ID"),
	}

	if dbURL := os.Getenv("DB_URL"); dbURL != "" {
		pool, err := pgxpool.Connect(h.Ctx, dbURL)
		require.NoError(t, err, "connect to ledger DB")
		t.Cleanup(pool.Close)

		ledgerKeyB64 := os.Getenv("DB_ENCRYPTION_KEY_BASE64")
		ledgerKey, err := base64.StdEncoding.DecodeString(ledgerKeyB64)
		require.NoError(t, err)
		h.DB = pool
		h.LedgerRepo = repositories.NewPasscodeRegistrationRepository(pool, ledgerKey)
	}
	return h
}
