package google

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StateTTL is how long a consent round-trip may take.
const StateTTL = 10 * time.Minute

const stateIssuer = "reso-oauth"

// ErrInvalidState is returned for forged, expired or malformed state values.
var ErrInvalidState = errors.New("invalid oauth state")

// StateSigner issues and verifies stateless CSRF state values as HMAC-signed JWTs.
type StateSigner struct {
	secret []byte
	now    func() time.Time
}

// NewStateSigner creates a signer with secret.
func NewStateSigner(secret string) *StateSigner {
	return &StateSigner{secret: []byte(secret), now: time.Now}
}

// Issue returns a fresh state value.
func (s *StateSigner) Issue() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate state nonce: %w", err)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    stateIssuer,
		ID:        hex.EncodeToString(nonce),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(StateTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, issuer and expiry of state.
func (s *StateSigner) Verify(state string) error {
	if state == "" {
		return ErrInvalidState
	}

	token, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidState
	}
	return nil
}
