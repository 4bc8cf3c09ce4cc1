package repositories

import (
	"context"
	"time"

	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

/* ───────────── public interface ───────────── */

type PasscodeRegistrationRepository interface {
	Create(ctx context.Context, p *models.PasscodeRegistration) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PasscodeRegistration, error)

	// ListReconcilable returns ORPHANED rows plus PENDING/REGISTERED rows
	// untouched since staleBefore, oldest first.
	ListReconcilable(ctx context.Context, staleBefore time.Time, limit int) ([]*models.PasscodeRegistration, error)
	CountByStatus(ctx context.Context) (map[models.PasscodeRegistrationStatus]int, error)

	UpdateIfVersion(ctx context.Context, p *models.PasscodeRegistration, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.PasscodeRegistration) error) error
}

/* ───────────── implementation ───────────── */

type passcodeRegistrationRepo struct {
	*BaseVersionedRepo[*models.PasscodeRegistration]
	db     DB
	encKey []byte
}

// NewPasscodeRegistrationRepository encrypts vendor access tokens with
// encKey (32 bytes) before they reach the table.
func NewPasscodeRegistrationRepository(db DB, encKey []byte) PasscodeRegistrationRepository {
	r := &passcodeRegistrationRepo{db: db, encKey: encKey}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectPasscodeRegistration()+" WHERE id=$1", r.scanRegistration)
	return r
}

/* ---------- create ---------- */

func (r *passcodeRegistrationRepo) Create(ctx context.Context, p *models.PasscodeRegistration) error {
	encToken, err := utils.Encrypt(r.encKey, p.AccessToken)
	if err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = models.PasscodeRegistrationPending
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO passcode_registrations (
			id, building_id, apartment_id, lock_id, client_id, access_token_enc,
			label, starts_at, ends_at, status, vendor_pwd_id, scheduling_id,
			attempts, last_error, created_by, created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15, NOW(), NOW(), 1)
		RETURNING created_at, updated_at, row_version
	`,
		p.ID, p.BuildingID, p.ApartmentID, p.LockID, p.ClientID, encToken,
		p.Label, p.StartsAt, p.EndsAt, string(p.Status), p.VendorPwdID, p.SchedulingID,
		p.Attempts, p.LastError, p.CreatedBy,
	)
	return row.Scan(&p.CreatedAt, &p.UpdatedAt, &p.RowVersion)
}

/* ---------- reads ---------- */

func (r *passcodeRegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PasscodeRegistration, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *passcodeRegistrationRepo) ListReconcilable(
	ctx context.Context,
	staleBefore time.Time,
	limit int,
) ([]*models.PasscodeRegistration, error) {
	rows, err := r.db.Query(ctx, baseSelectPasscodeRegistration()+`
		WHERE status = $1
		   OR (status IN ($2, $3) AND updated_at < $4)
		ORDER BY updated_at
		LIMIT $5
	`,
		string(models.PasscodeRegistrationOrphaned),
		string(models.PasscodeRegistrationPending),
		string(models.PasscodeRegistrationRegistered),
		staleBefore,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRegistrations(rows)
}

func (r *passcodeRegistrationRepo) CountByStatus(ctx context.Context) (map[models.PasscodeRegistrationStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM passcode_registrations GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[models.PasscodeRegistrationStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[models.PasscodeRegistrationStatus(status)] = count
	}
	return out, rows.Err()
}

/* ---------- update ---------- */

func (r *passcodeRegistrationRepo) UpdateIfVersion(
	ctx context.Context,
	p *models.PasscodeRegistration,
	expected int64,
) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE passcode_registrations
		SET status=$1, vendor_pwd_id=$2, scheduling_id=$3, attempts=$4, last_error=$5,
		    updated_at=NOW(), row_version=row_version+1
		WHERE id=$6 AND row_version=$7
	`,
		string(p.Status), p.VendorPwdID, p.SchedulingID, p.Attempts, p.LastError,
		p.ID, expected,
	)
}

func (r *passcodeRegistrationRepo) UpdateWithRetry(
	ctx context.Context,
	id uuid.UUID,
	mutate func(*models.PasscodeRegistration) error,
) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

/* ---------- internals ---------- */

func baseSelectPasscodeRegistration() string {
	return `
		SELECT id, building_id, apartment_id, lock_id, client_id, access_token_enc,
		       label, starts_at, ends_at, status, vendor_pwd_id, scheduling_id,
		       attempts, last_error, created_by, created_at, updated_at, row_version
		FROM passcode_registrations`
}

func (r *passcodeRegistrationRepo) scanRegistration(row pgx.Row) (*models.PasscodeRegistration, error) {
	var (
		p        models.PasscodeRegistration
		encToken string
		status   string
	)
	if err := row.Scan(
		&p.ID, &p.BuildingID, &p.ApartmentID, &p.LockID, &p.ClientID, &encToken,
		&p.Label, &p.StartsAt, &p.EndsAt, &status, &p.VendorPwdID, &p.SchedulingID,
		&p.Attempts, &p.LastError, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	token, err := utils.Decrypt(r.encKey, encToken)
	if err != nil {
		return nil, err
	}
	p.AccessToken = token
	p.Status = models.PasscodeRegistrationStatus(status)
	return &p, nil
}

func (r *passcodeRegistrationRepo) scanRegistrations(rows pgx.Rows) ([]*models.PasscodeRegistration, error) {
	var out []*models.PasscodeRegistration
	for rows.Next() {
		p, err := r.scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
