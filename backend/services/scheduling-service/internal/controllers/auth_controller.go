package controllers

import (
	"net/http"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/config"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/dtos"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/services"
	internal_utils "github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
)

type AuthController struct {
	cfg  *config.Config
	auth *services.AuthService
}

func NewAuthController(cfg *config.Config, auth *services.AuthService) *AuthController {
	return &AuthController{cfg: cfg, auth: auth}
}

// POST /api/v1/auth/sign-in
func (c *AuthController) SignInHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.LoggerFromContext(r.Context()).WithField("handler", "SignInHandler")

	var req dtos.SignInRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	res, err := c.auth.SignIn(r.Context(), req.IdentificationNumber, req.Password)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	internal_utils.SetSessionCookie(w, res.SessionToken, time.Until(res.Session.ExpiresAt), c.cfg.LDFlag_CORSHighSecurity)
	utils.RespondWithJSON(w, http.StatusOK, dtos.SignInResponse{
		User:      dtos.NewSessionUser(&res.Session),
		ExpiresAt: res.Session.ExpiresAt,
	})
}

// POST /api/v1/auth/sign-out
func (c *AuthController) SignOutHandler(w http.ResponseWriter, r *http.Request) {
	internal_utils.ClearSessionCookie(w, c.cfg.LDFlag_CORSHighSecurity)
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/auth/session
func (c *AuthController) SessionHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	buildings, err := c.auth.ListBuildings(r.Context(), session)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SessionResponse{
		User:      dtos.NewSessionUser(session),
		ExpiresAt: session.ExpiresAt,
		Buildings: buildings,
	})
}
