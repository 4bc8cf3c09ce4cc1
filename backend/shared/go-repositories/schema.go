package repositories

import (
	"context"
	"fmt"
)

const passcodeLedgerSchema = `
CREATE TABLE IF NOT EXISTS passcode_registrations (
	id               UUID PRIMARY KEY,
	building_id      BIGINT      NOT NULL,
	apartment_id     BIGINT      NOT NULL,
	lock_id          TEXT        NOT NULL,
	client_id        TEXT        NOT NULL,
	access_token_enc TEXT        NOT NULL,
	label            TEXT        NOT NULL,
	starts_at        TIMESTAMPTZ NOT NULL,
	ends_at          TIMESTAMPTZ NOT NULL,
	status           TEXT        NOT NULL,
	vendor_pwd_id    BIGINT,
	scheduling_id    BIGINT,
	attempts         INT         NOT NULL DEFAULT 0,
	last_error       TEXT,
	created_by       TEXT        NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	row_version      BIGINT      NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS passcode_registrations_status_updated_idx
	ON passcode_registrations (status, updated_at);
`

// EnsurePasscodeLedgerSchema creates the ledger table when missing. It is
// idempotent and safe to run on every boot.
func EnsurePasscodeLedgerSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, passcodeLedgerSchema); err != nil {
		return fmt.Errorf("ensure passcode ledger schema: %w", err)
	}
	return nil
}
