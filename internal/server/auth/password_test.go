package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	defer SetCostForTesting(bcrypt.MinCost)()

	hash, err := HashPassword("123456789")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "123456789" {
		t.Fatal("hash must differ from plaintext")
	}

	if err := CheckPassword(hash, "123456789"); err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, common.ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestHashPassword_Salted(t *testing.T) {
	defer SetCostForTesting(bcrypt.MinCost)()

	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Fatal("expected different hashes for the same password")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	err := CheckPassword("not-a-hash", "x")
	if err == nil || errors.Is(err, common.ErrInvalidPassword) {
		t.Fatalf("expected a non-mismatch error, got %v", err)
	}
}

func TestHashPassword_TooLongInBytes(t *testing.T) {
	defer SetCostForTesting(bcrypt.MinCost)()

	// 40 characters, 80 bytes
	_, err := HashPassword(strings.Repeat("é", 40))
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation, got %v", err)
	}

	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Fatalf("72 bytes must hash, got %v", err)
	}
}

func TestCheckPassword_TooLongIsMismatch(t *testing.T) {
	defer SetCostForTesting(bcrypt.MinCost)()

	hash, err := HashPassword("123456789")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if err := CheckPassword(hash, strings.Repeat("x", 73)); !errors.Is(err, common.ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}
