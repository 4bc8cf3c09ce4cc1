package middleware

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IssueSessionToken signs an RS256 session for s, valid from issuedAt until
// s.ExpiresAt. The backend token is encrypted with encKey before embedding.
func IssueSessionToken(privateKey *rsa.PrivateKey, encKey []byte, s Session, issuedAt time.Time) (string, error) {
	if s.UserID == "" {
		return "", errors.New("session without user id")
	}
	if !s.ExpiresAt.After(issuedAt) {
		return "", errors.New("session already expired")
	}
	ext, err := utils.Encrypt(encKey, s.ExternalToken)
	if err != nil {
		return "", fmt.Errorf("encrypt backend token: %w", err)
	}

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   s.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt.Add(-30 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
		HoldingID:            s.HoldingID,
		Name:                 s.Name,
		Email:                s.Email,
		IdentificationNumber: s.IdentificationNumber,
		ExternalToken:        ext,
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(privateKey)
}

// ValidateSessionToken checks signature, issuer and expiry, then decrypts the
// embedded backend token. Any deviation returns a descriptive error; expiry
// errors wrap jwt.ErrTokenExpired.
func ValidateSessionToken(tokenString string, publicKey *rsa.PublicKey, encKey []byte) (*Session, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return publicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("missing subject")
	}
	if claims.ExternalToken == "" {
		return nil, errors.New("missing backend token")
	}

	external, err := utils.Decrypt(encKey, claims.ExternalToken)
	if err != nil {
		return nil, fmt.Errorf("decrypt backend token: %w", err)
	}

	return &Session{
		UserID:               claims.Subject,
		HoldingID:            claims.HoldingID,
		Name:                 claims.Name,
		Email:                claims.Email,
		IdentificationNumber: claims.IdentificationNumber,
		ExternalToken:        external,
		ExpiresAt:            claims.ExpiresAt.Time,
	}, nil
}
