// Package auth stores console users and validates password plus TOTP logins.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

const totpIssuer = "termframe"

// User is a console account.
type User struct {
	Username     string    `yaml:"username"`
	PasswordHash string    `yaml:"password_hash"`
	TOTPSecret   string    `yaml:"totp_secret"`
	CreatedAt    time.Time `yaml:"created_at"`
}

func generatePassword() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func generateTOTP(username string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: username,
	})
	if err != nil {
		return "", "", err
	}
	secret := strings.TrimSpace(key.Secret())
	if secret == "" {
		return "", "", fmt.Errorf("totp secret missing")
	}
	return secret, key.URL(), nil
}
