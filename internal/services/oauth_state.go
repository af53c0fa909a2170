package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidState = errors.New("invalid oauth state")

const (
	// StateTTL bounds how long a user may take on Discord's consent screen.
	StateTTL = 10 * time.Minute

	stateIssuer = "plate-registry"
)

// OAuthState issues and checks the OAuth "state" parameter. The state is an
// HS256 token whose jti is a nonce that must also come back in a cookie.
type OAuthState struct {
	secret []byte
	ttl    time.Duration
}

func NewOAuthState(secret string, ttl time.Duration) *OAuthState {
	return &OAuthState{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed state and the nonce to bind it to the browser.
func (s *OAuthState) Issue() (state, nonce string, err error) {
	now := time.Now()
	nonce = uuid.NewString()
	claims := jwt.RegisteredClaims{
		ID:        nonce,
		Issuer:    stateIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	state, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign state: %w", err)
	}
	return state, nonce, nil
}

// Verify checks the signature, expiry and that the state belongs to nonce.
func (s *OAuthState) Verify(state, nonce string) error {
	if state == "" || nonce == "" {
		return fmt.Errorf("%w: missing state or nonce", ErrInvalidState)
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(state, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if subtle.ConstantTimeCompare([]byte(claims.ID), []byte(nonce)) != 1 {
		return fmt.Errorf("%w: nonce mismatch", ErrInvalidState)
	}
	return nil
}
