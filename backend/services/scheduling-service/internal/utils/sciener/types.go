package sciener

import (
	"time"

	"github.com/Jepierre88/coins-control/backend/shared/go-models"
)

// Result carries the vendor's application-level status. A zero Errcode
// means success; anything else is a rejection described by Errmsg.
type Result struct {
	Errcode     int    `json:"errcode,omitempty"`
	Errmsg      string `json:"errmsg,omitempty"`
	Description string `json:"description,omitempty"`
}

// Failed reports whether the vendor rejected the operation.
func (r *Result) Failed() bool {
	return r != nil && r.Errcode != 0
}

// LockCredentials identify a lock and authorize calls against it.
type LockCredentials struct {
	ClientID    string
	AccessToken string
	LockID      string
}

type AddPasscodeArgs struct {
	LockCredentials
	// Passcode is the digit string the guest will type.
	Passcode string
	// Label is shown in the vendor app next to the passcode.
	Label string
	Start time.Time
	End   time.Time
}

type AddPasscodeResponse struct {
	Result
	KeyboardPwdID models.FlexString `json:"keyboardPwdId,omitempty"`
	KeyboardPwd   models.FlexString `json:"keyboardPwd,omitempty"`
}

type DeletePasscodeArgs struct {
	LockCredentials
	KeyboardPwdID int64
}

type UnlockArgs struct {
	LockCredentials
}
