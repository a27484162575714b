// Package auth issues and verifies signed bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Scope tags a token with the single purpose it may be used for.
type Scope string

const (
	ScopeAccess  Scope = "access_token"
	ScopeRefresh Scope = "refresh_token"
	ScopeEmail   Scope = "email_token"
)

// Claims are the registered claims plus the token scope. The subject is the
// account email.
type Claims struct {
	jwt.RegisteredClaims
	Scope Scope `json:"scope"`
}

// now is a seam for tests.
var now = time.Now

func GenerateToken(subject string, scope Scope, secretKey []byte, validityDuration time.Duration) (string, error) {
	issued := now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(validityDuration)),
			ID:        uuid.NewString(),
		},
		Scope: scope,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature, expiry and scope and returns the subject.
func ParseToken(tokenString string, scope Scope, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	if claims.Scope != scope {
		return "", common.ErrInvalidScope
	}

	return claims.Subject, nil
}

// Issuer mints tokens of each scope with its configured lifetime.
type Issuer struct {
	secretKey []byte
	access    time.Duration
	refresh   time.Duration
	email     time.Duration
}

func NewIssuer(secretKey string, access, refresh, email time.Duration) *Issuer {
	return &Issuer{secretKey: []byte(secretKey), access: access, refresh: refresh, email: email}
}

func (i *Issuer) AccessToken(subject string) (string, error) {
	return GenerateToken(subject, ScopeAccess, i.secretKey, i.access)
}

func (i *Issuer) RefreshToken(subject string) (string, error) {
	return GenerateToken(subject, ScopeRefresh, i.secretKey, i.refresh)
}

func (i *Issuer) EmailToken(subject string) (string, error) {
	return GenerateToken(subject, ScopeEmail, i.secretKey, i.email)
}

func (i *Issuer) Parse(tokenString string, scope Scope) (string, error) {
	return ParseToken(tokenString, scope, i.secretKey)
}
