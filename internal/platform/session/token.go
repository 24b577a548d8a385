// Package session issues and verifies the bearer tokens that bind HTTP
// requests to a respondent session.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/m-mizutani/goerr/v2"
)

const Issuer = "tcm-intake"

var ErrInvalidToken = goerr.New("invalid session token")

type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// Signer signs and verifies HS256 session tokens.
type Signer struct {
	key []byte
	now func() time.Time
}

func NewSigner(key []byte) *Signer {
	return &Signer{key: key, now: time.Now}
}

// Issue returns a token for the session, valid until expiresAt.
func (s *Signer) Issue(sessionID string, expiresAt time.Time) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign session token", goerr.V("session_id", sessionID))
	}
	return token, nil
}

// Parse verifies the token and returns the session id it carries.
func (s *Signer) Parse(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", goerr.Wrap(ErrInvalidToken, "token rejected", goerr.V("error", err.Error()))
	}
	if !parsed.Valid || claims.SessionID == "" {
		return "", goerr.Wrap(ErrInvalidToken, "token carries no session")
	}
	return claims.SessionID, nil
}
