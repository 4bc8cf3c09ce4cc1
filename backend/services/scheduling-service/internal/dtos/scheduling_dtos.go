package dtos

import (
	"time"
)

// GenerateSchedulingRequest is the body of
// POST /api/v1/buildings/{buildingId}/schedulings.
type GenerateSchedulingRequest struct {
	ApartmentID          int64     `json:"apartmentId" validate:"required,gt=0"`
	Name                 string    `json:"name" validate:"required,max=100"`
	LastName             string    `json:"lastName" validate:"required,max=100"`
	IdentificationNumber string    `json:"identificationNumber" validate:"required,max=30"`
	Email                string    `json:"email" validate:"required,email,max=254"`
	CellPhoneNumber      string    `json:"cellPhoneNumber,omitempty" validate:"omitempty,max=20"`
	Start                time.Time `json:"start" validate:"required"`
	End                  time.Time `json:"end" validate:"required"`
}

type GenerateSchedulingResponse struct {
	SchedulingID int64  `json:"schedulingId"`
	KeyboardPwd  string `json:"keyboardPwd,omitempty"`
}

type UnlockResponse struct {
	Unlocked bool `json:"unlocked"`
}
