package backend

import (
	"context"
	"net/http"

	"github.com/Jepierre88/coins-control/backend/shared/go-models"
)

type LoginRequest struct {
	IdentificationNumber string `json:"identificationNumber"`
	Password             string `json:"password"`
}

type LoginUser struct {
	ID                   models.FlexString `json:"id"`
	Name                 string            `json:"name"`
	Email                string            `json:"email"`
	IdentificationNumber string            `json:"identificationNumber"`
	HoldingID            int64             `json:"holdingId"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// Login exchanges operator credentials for a backend bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.doJSON(ctx, "", http.MethodPost, "/users/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
