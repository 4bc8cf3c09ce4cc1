package constants

import "time"

// Guest-facing failure messages. Each orchestration failure category has its
// own so the console can tell them apart.
const (
	MsgRequirementsUnavailable = "Could not resolve the smart lock requirements."
	MsgLockConfigIncomplete    = "The lock configuration is incomplete."
	MsgLockVendorFailure       = "The lock is having trouble. Contact support."
	MsgSchedulingPersistFailed = "Could not create the scheduling."
	MsgSchedulingConflict      = "The apartment already has a scheduling in that window."
	MsgAvailabilityUnverified  = "Could not verify the apartment's availability."
	MsgStartNotInFuture        = "The start must be later than the current time."
	MsgEndNotAfterStart        = "The end must be later than the start."
	MsgNoSmartLock             = "The apartment has no smart lock."
	MsgUnlockFailed            = "The lock could not be opened. Contact support."
	MsgLedgerUnavailable       = "Passcodes cannot be issued right now. Nothing was created; try again."
)

// Listing and dashboard defaults
const (
	DefaultPage               = 1
	DefaultPageSize           = 20
	MaxPageSize               = 200
	DefaultMaxMonths          = 24
	ExportMaxRows             = 5000
	DashboardCountConcurrency = 8
)

// Session
const (
	// ExternalTokenFallbackTTL applies when the backend token carries no exp.
	ExternalTokenFallbackTTL = time.Hour
)

// Guest notification content
const (
	GuestAccessEmailSubject  = "Your apartment access code"
	GuestAccessSMSTemplate   = "%s: hi %s, your access code is %s. Valid %s to %s (UTC)."
	GuestNotificationTimeout = 10 * time.Second
)

// Reconciliation
const (
	ReconcileRunTimeout  = 2 * time.Minute
	ReconcileMaxAttempts = 10
)
