package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor applied to every stored password.
const PasswordHashCost = 10

// resetTokenBytes is the amount of entropy in a password reset token.
const resetTokenBytes = 20

// HashPassword computes a salted bcrypt hash of password.
//
// The salt is generated by bcrypt and embedded in the returned string, so the
// same password never hashes to the same value twice.
//
// Example usage:
//
//	hash, err := utils.HashPassword("dogs123")
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
// The comparison is constant-time.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateResetToken returns 20 cryptographically random bytes, hex-encoded.
func GenerateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error generating reset token: %w", err)
	}

	return hex.EncodeToString(b), nil
}
