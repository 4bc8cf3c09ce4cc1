package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"
)

func TestWithRetryAppliesMutationOnce(t *testing.T) {
	stored := &models.PasscodeRegistration{Status: models.PasscodeRegistrationPending}
	stored.RowVersion = 4

	var updates int
	err := WithRetry(context.Background(), 3, "id",
		func(ctx context.Context, id string) (*models.PasscodeRegistration, error) {
			cp := *stored
			return &cp, nil
		},
		func(ctx context.Context, p *models.PasscodeRegistration, expected int64) (pgconn.CommandTag, error) {
			updates++
			require.Equal(t, int64(4), expected)
			return pgconn.CommandTag("UPDATE 1"), nil
		},
		func(p *models.PasscodeRegistration) error {
			p.Status = models.PasscodeRegistrationRegistered
			return nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, 1, updates)
}

func TestWithRetryRetriesOnVersionConflict(t *testing.T) {
	var reads int
	err := WithRetry(context.Background(), 3, "id",
		func(ctx context.Context, id string) (*models.PasscodeRegistration, error) {
			reads++
			return &models.PasscodeRegistration{}, nil
		},
		func(ctx context.Context, p *models.PasscodeRegistration, expected int64) (pgconn.CommandTag, error) {
			if reads < 2 {
				return pgconn.CommandTag("UPDATE 0"), nil
			}
			return pgconn.CommandTag("UPDATE 1"), nil
		},
		func(p *models.PasscodeRegistration) error { return nil },
	)
	require.NoError(t, err)
	require.Equal(t, 2, reads)
}

func TestWithRetryGivesUpUnderContention(t *testing.T) {
	err := WithRetry(context.Background(), 2, "busy",
		func(ctx context.Context, id string) (*models.PasscodeRegistration, error) {
			return &models.PasscodeRegistration{}, nil
		},
		func(ctx context.Context, p *models.PasscodeRegistration, expected int64) (pgconn.CommandTag, error) {
			return pgconn.CommandTag("UPDATE 0"), nil
		},
		func(p *models.PasscodeRegistration) error { return nil },
	)
	require.ErrorContains(t, err, "too much contention")
}

func TestWithRetryMissingRowAndMutateError(t *testing.T) {
	missing := func(ctx context.Context, id string) (*models.PasscodeRegistration, error) { return nil, nil }
	neverUpdate := func(ctx context.Context, p *models.PasscodeRegistration, expected int64) (pgconn.CommandTag, error) {
		t.Fatal("update must not run")
		return nil, nil
	}

	err := WithRetry(context.Background(), 3, "gone", missing, neverUpdate, func(*models.PasscodeRegistration) error { return nil })
	require.ErrorIs(t, err, pgx.ErrNoRows)

	boom := errors.New("boom")
	found := func(ctx context.Context, id string) (*models.PasscodeRegistration, error) {
		return &models.PasscodeRegistration{}, nil
	}
	err = WithRetry(context.Background(), 3, "x", found, neverUpdate, func(*models.PasscodeRegistration) error { return boom })
	require.ErrorIs(t, err, boom)
}
