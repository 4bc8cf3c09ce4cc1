package models

import (
	"time"

	"github.com/google/uuid"
)

type PasscodeRegistrationStatus string

const (
	// PasscodeRegistrationPending is written before the vendor call.
	PasscodeRegistrationPending PasscodeRegistrationStatus = "PENDING"
	// PasscodeRegistrationRegistered means the vendor accepted the passcode
	// but no scheduling references it yet.
	PasscodeRegistrationRegistered PasscodeRegistrationStatus = "REGISTERED"
	PasscodeRegistrationFinalized  PasscodeRegistrationStatus = "FINALIZED"
	PasscodeRegistrationFailed     PasscodeRegistrationStatus = "FAILED"
	// PasscodeRegistrationOrphaned means the scheduling could not be
	// persisted and the vendor passcode must be revoked.
	PasscodeRegistrationOrphaned  PasscodeRegistrationStatus = "ORPHANED"
	PasscodeRegistrationRevoked   PasscodeRegistrationStatus = "REVOKED"
	PasscodeRegistrationAbandoned PasscodeRegistrationStatus = "ABANDONED"
)

// IsTerminal reports whether the reconciler has nothing left to do.
func (s PasscodeRegistrationStatus) IsTerminal() bool {
	switch s {
	case PasscodeRegistrationFinalized,
		PasscodeRegistrationFailed,
		PasscodeRegistrationRevoked,
		PasscodeRegistrationAbandoned:
		return true
	}
	return false
}

// PasscodeRegistration is the local ledger entry tracking one vendor
// passcode from reservation until it is tied to a scheduling or revoked.
type PasscodeRegistration struct {
	Versioned

	ID          uuid.UUID `json:"id"`
	BuildingID  int64     `json:"building_id"`
	ApartmentID int64     `json:"apartment_id"`
	LockID      string    `json:"lock_id"`
	ClientID    string    `json:"client_id"`
	// AccessToken is the vendor token, encrypted at rest.
	AccessToken  string                     `json:"-"`
	Label        string                     `json:"label"`
	StartsAt     time.Time                  `json:"starts_at"`
	EndsAt       time.Time                  `json:"ends_at"`
	Status       PasscodeRegistrationStatus `json:"status"`
	VendorPwdID  *int64                     `json:"vendor_pwd_id,omitempty"`
	SchedulingID *int64                     `json:"scheduling_id,omitempty"`
	Attempts     int                        `json:"attempts"`
	LastError    *string                    `json:"last_error,omitempty"`
	CreatedBy    string                     `json:"created_by"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

func (p *PasscodeRegistration) GetID() string {
	return p.ID.String()
}
