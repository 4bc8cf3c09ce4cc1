package dtos

import (
	"time"

	"github.com/Jepierre88/coins-control/backend/shared/go-middleware"
	"github.com/Jepierre88/coins-control/backend/shared/go-models"
)

type SignInRequest struct {
	IdentificationNumber string `json:"identificationNumber" validate:"required,max=30"`
	Password             string `json:"password" validate:"required,max=200"`
}

// SessionUser is the operator as shown to the console. The backend token
// never leaves the server.
type SessionUser struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Email                string `json:"email,omitempty"`
	IdentificationNumber string `json:"identificationNumber,omitempty"`
	HoldingID            int64  `json:"holdingId"`
}

func NewSessionUser(s *middleware.Session) SessionUser {
	return SessionUser{
		ID:                   s.UserID,
		Name:                 s.Name,
		Email:                s.Email,
		IdentificationNumber: s.IdentificationNumber,
		HoldingID:            s.HoldingID,
	}
}

type SignInResponse struct {
	User      SessionUser `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type SessionResponse struct {
	User      SessionUser       `json:"user"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Buildings []models.Building `json:"buildings"`
}
