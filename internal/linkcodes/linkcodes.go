// Package linkcodes mints and verifies the short-lived pairing codes behind
// the Link view model's "request a code and poll for data" flow. A code is
// a signed JWT carrying the pairing code itself and an expiry claim, so a
// forged or expired code is rejected locally, before the poller ever makes
// a network round trip.
package linkcodes

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired is returned by ReadData once the code's expiry claim has
// passed, distinct from a signature/structure failure.
var ErrExpired = errors.New("linkcodes: code expired")

// Claims is the payload carried by a pairing code token.
type Claims struct {
	Code string `json:"code"`
	jwt.RegisteredClaims
}

// Signer mints and verifies pairing-code tokens with a single HMAC secret.
// A Signer has no per-request timeout config: the lifetime is passed explicitly to CreateCode so the
// same Signer can back pairing flows with different TTLs.
type Signer struct {
	secret []byte
}

// NewSigner builds a Signer from a shared secret. The secret must be at
// least 32 bytes, matching the project's baseline HS256 key-strength
// requirement.
func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("linkcodes: secret must be at least 32 bytes, got %d", len(secret))
	}
	return &Signer{secret: secret}, nil
}

// CreateCode mints a signed token carrying code, valid until now+ttl.
func (s *Signer) CreateCode(code string, now time.Time, ttl time.Duration) (string, error) {
	claims := &Claims{
		Code: code,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("linkcodes: sign: %w", err)
	}
	return signed, nil
}

// ReadData verifies tokenString locally and returns the pairing code it
// carries. It never contacts the pairing endpoint; a timer-driven poller
// is expected to call ReadData before every poll attempt and stop as soon
// as it returns ErrExpired.
func (s *Signer) ReadData(tokenString string, now time.Time) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", fmt.Errorf("linkcodes: parse: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", errors.New("linkcodes: invalid token claims")
	}
	return claims.Code, nil
}
