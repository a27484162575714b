package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is a seam so tests can use bcrypt.MinCost.
var bcryptCost = bcrypt.DefaultCost

// MaxPasswordBytes is bcrypt's input limit. It counts bytes, not characters.
const MaxPasswordBytes = 72

// HashPassword returns a bcrypt hash of password. Passwords over
// MaxPasswordBytes are rejected with common.ErrorValidation.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password must not exceed %d bytes", common.ErrorValidation, MaxPasswordBytes)
		}
		return "", err
	}
	return string(hash), nil
}

// CheckPassword returns common.ErrInvalidPassword when password does not match hash.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return common.ErrInvalidPassword
		}
		return err
	}
	return nil
}

// SetCostForTesting lowers the bcrypt cost and returns a func restoring it.
func SetCostForTesting(cost int) func() {
	prev := bcryptCost
	bcryptCost = cost
	return func() { bcryptCost = prev }
}
