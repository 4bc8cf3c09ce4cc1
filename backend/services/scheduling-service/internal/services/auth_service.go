package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/config"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/constants"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/backend"
	"github.com/Jepierre88/coins-control/backend/shared/go-middleware"
	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
)

type SignInResult struct {
	SessionToken string
	Session      middleware.Session
}

type AuthService struct {
	cfg       *config.Config
	directory DirectoryBackend
	now       func() time.Time
}

func NewAuthService(cfg *config.Config, directory DirectoryBackend) *AuthService {
	return &AuthService{cfg: cfg, directory: directory, now: time.Now}
}

// SignIn checks the operator's credentials against the backend and mints a
// console session carrying the backend token. The session never outlives
// the backend token.
func (s *AuthService) SignIn(ctx context.Context, identificationNumber, password string) (*SignInResult, error) {
	logger := utils.Logger.WithField("loginHash", utils.HashToken(strings.TrimSpace(identificationNumber)))

	resp, err := s.directory.Login(ctx, backend.LoginRequest{
		IdentificationNumber: strings.TrimSpace(identificationNumber),
		Password:             password,
	})
	if err != nil {
		if backend.IsStatus(err, http.StatusUnauthorized) ||
			backend.IsStatus(err, http.StatusBadRequest) ||
			backend.IsStatus(err, http.StatusUnprocessableEntity) ||
			backend.IsStatus(err, http.StatusNotFound) {
			logger.Info("Sign-in rejected by backend")
			return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials,
				"Invalid credentials.", err)
		}
		logger.WithError(err).Error("Backend login failed")
		return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
			"Could not reach the authentication service.", err)
	}
	if resp.Token == "" || resp.User.ID.IsBlank() {
		return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
			"Could not reach the authentication service.", nil)
	}

	now := s.now()
	expiresAt := ExternalTokenExpiry(resp.Token, now)
	if ttl := s.sessionTTL(); expiresAt.After(now.Add(ttl)) {
		expiresAt = now.Add(ttl)
	}

	session := middleware.Session{
		UserID:               resp.User.ID.String(),
		HoldingID:            resp.User.HoldingID,
		Name:                 resp.User.Name,
		Email:                resp.User.Email,
		IdentificationNumber: resp.User.IdentificationNumber,
		ExternalToken:        resp.Token,
		ExpiresAt:            expiresAt,
	}
	signed, err := middleware.IssueSessionToken(s.cfg.RSAPrivateKey, s.cfg.SessionEncryptionKey, session, now)
	if err != nil {
		logger.WithError(err).Error("Failed to issue session token")
		return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
			"The authentication service issued an unusable token.", err)
	}

	logger.WithField("userID", session.UserID).Info("Operator signed in")
	return &SignInResult{SessionToken: signed, Session: session}, nil
}

// ListBuildings returns the buildings of the session's holding.
func (s *AuthService) ListBuildings(ctx context.Context, session *middleware.Session) ([]models.Building, error) {
	if session.HoldingID == 0 {
		return []models.Building{}, nil
	}
	buildings, err := s.directory.ListBuildingsByHolding(ctx, session.ExternalToken, session.HoldingID)
	if err != nil {
		if backend.IsStatus(err, http.StatusUnauthorized) {
			return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeTokenExpired,
				"Session expired. Sign in again.", err)
		}
		return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
			"Could not load the buildings.", err)
	}
	if buildings == nil {
		buildings = []models.Building{}
	}
	return buildings, nil
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.cfg.SessionTTL > 0 {
		return s.cfg.SessionTTL
	}
	return config.DefaultSessionTTL
}

// ExternalTokenExpiry reads exp from the backend token without verifying
// its signature. Tokens without a readable exp are assumed to last
// ExternalTokenFallbackTTL from now.
func ExternalTokenExpiry(token string, now time.Time) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return now.Add(constants.ExternalTokenFallbackTTL)
}
