package models

import "time"

// Fixed values every scheduling created from the console carries.
const (
	SchedulingTitle            = "Agendamiento apartamento"
	SchedulingType             = "Agendamiento"
	IdentificationDocumentType = "CC"
)

// Scheduling is a guest's time-boxed access grant to an apartment as stored
// by the coins-control backend.
type Scheduling struct {
	ID                         int64           `json:"id"`
	Datetime                   *time.Time      `json:"datetime,omitempty"`
	Start                      time.Time       `json:"start"`
	End                        time.Time       `json:"end"`
	Title                      string          `json:"title,omitempty"`
	State                      SchedulingState `json:"state,omitempty"`
	Type                       string          `json:"type,omitempty"`
	Name                       string          `json:"name,omitempty"`
	LastName                   string          `json:"lastName,omitempty"`
	CellPhoneNumber            string          `json:"cellPhoneNumber,omitempty"`
	TypeIdentificationDocument string          `json:"typeIdentificationDocument,omitempty"`
	IdentificationNumber       string          `json:"identificationNumber,omitempty"`
	KeyboardPwd                string          `json:"keyboardPwd,omitempty"`
	KeyboardPwdID              FlexString      `json:"keyboardPwdId,omitempty"`
	Email                      string          `json:"email,omitempty"`
	CreatedBy                  string          `json:"createdBy,omitempty"`
	ApartmentID                int64           `json:"apartmentId"`
	BuildingID                 int64           `json:"buildingId"`

	Apartment *Apartment    `json:"apartment,omitempty"`
	QR        *SchedulingQR `json:"qr,omitempty"`
}

// SchedulingQR is the backend's QR relation; Code is the payload encoded in
// the image handed to the guest.
type SchedulingQR struct {
	ID   int64  `json:"id,omitempty"`
	Code string `json:"code"`
}

// GuestFullName joins name and last name for display.
func (s *Scheduling) GuestFullName() string {
	switch {
	case s.Name == "":
		return s.LastName
	case s.LastName == "":
		return s.Name
	default:
		return s.Name + " " + s.LastName
	}
}

// HasPasscode reports whether a vendor passcode was attached to the scheduling.
func (s *Scheduling) HasPasscode() bool {
	return s.KeyboardPwd != ""
}
