package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/config"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/backend"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/sciener"
	"github.com/Jepierre88/coins-control/backend/shared/go-repositories"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
	schemaTimeout  = 10 * time.Second
)

// App holds the process-wide clients. DB and Ledger are nil when no
// DB_URL is configured; the service then runs without the passcode ledger.
type App struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	Backend *backend.Client
	Sciener *sciener.Client
	Ledger  repositories.PasscodeRegistrationRepository
}

func NewApp(cfg *config.Config) (*App, error) {
	backendClient, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		return nil, err
	}
	scienerClient, err := sciener.NewClient(cfg.ScienerBaseURL, cfg.ScienerTimeout)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Backend: backendClient,
		Sciener: scienerClient,
	}

	if !cfg.LedgerEnabled() {
		utils.Logger.Warn("DB_URL not set; running without the passcode ledger")
		return a, nil
	}

	a.DB, err = connectWithRetry(cfg.DBUrl)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := repositories.EnsurePasscodeLedgerSchema(ctx, a.DB); err != nil {
		a.DB.Close()
		return nil, fmt.Errorf("ensure passcode ledger schema: %w", err)
	}
	a.Ledger = repositories.NewPasscodeRegistrationRepository(a.DB, cfg.DBEncryptionKey)
	return a, nil
}

// Ping checks the database when one is configured.
func (a *App) Ping(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Ping(ctx)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("Database connection closed.")
	}
}

func connectWithRetry(databaseURL string) (*pgxpool.Pool, error) {
	backoff := initialBackoff
	for i := 1; ; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		pool, err := newDBPool(ctx, databaseURL)
		cancel()
		if err == nil {
			utils.Logger.Infof("Successfully connected to database on attempt %d", i)
			return pool, nil
		}

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
		}
		utils.Logger.WithError(err).Warnf(
			"Failed to connect to database on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)
		time.Sleep(backoff)
		backoff *= 2
	}
}

// newDBPool closes idle sockets before the hosting proxy does and keeps
// the remaining ones warm.
func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
