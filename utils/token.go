package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// NewSecureToken sinh token 32 byte ngẫu nhiên, mã hoá base64url.
// Dùng cho session token và CSRF token.
func NewSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func HashCode(code string) (string, error) {
	if code == "" {
		return "", errors.New("empty code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	return string(hash), err
}

func VerifyCode(hashed, code string) bool {
	if hashed == "" || code == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(code)) == nil
}
