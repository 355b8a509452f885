package auth

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is a variable so tests can use bcrypt.MinCost.
var hashCost = bcrypt.DefaultCost

// Credentials is the outcome of an account change. Password and the TOTP
// fields are only set when the change produced them; they are never stored
// in clear.
type Credentials struct {
	User       User
	Password   string
	TOTPSecret string
	TOTPURL    string
}

func (c *Credentials) setPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		generated, err := generatePassword()
		if err != nil {
			return err
		}
		password = generated
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return err
	}
	c.User.PasswordHash = string(hash)
	c.Password = password
	return nil
}

func (c *Credentials) rotateTOTP() error {
	secret, url, err := generateTOTP(c.User.Username)
	if err != nil {
		return err
	}
	c.User.TOTPSecret = secret
	c.TOTPSecret, c.TOTPURL = secret, url
	return nil
}

func cleanUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrUsernameRequired
	}
	return username, nil
}

// Create adds an account with a fresh TOTP secret. An empty password is
// generated.
func (s *Store) Create(username, password string, now time.Time) (Credentials, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return Credentials{}, err
	}
	if _, exists := s.Get(username); exists {
		return Credentials{}, ErrUserExists
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	creds := Credentials{User: User{Username: username, CreatedAt: now}}
	if err := creds.setPassword(password); err != nil {
		return Credentials{}, err
	}
	if err := creds.rotateTOTP(); err != nil {
		return Credentials{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return Credentials{}, ErrUserExists
	}
	s.users[username] = creds.User
	return creds, nil
}

// SetPassword replaces the password of an account, generating one when
// password is empty.
func (s *Store) SetPassword(username, password string) (Credentials, error) {
	return s.change(username, func(c *Credentials) error { return c.setPassword(password) })
}

// RotateTOTP gives an account a new TOTP secret.
func (s *Store) RotateTOTP(username string) (Credentials, error) {
	return s.change(username, (*Credentials).rotateTOTP)
}

// Remove deletes an account.
func (s *Store) Remove(username string) error {
	username, err := cleanUsername(username)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, username)
	return nil
}

func (s *Store) change(username string, fn func(*Credentials) error) (Credentials, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return Credentials{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return Credentials{}, ErrUserNotFound
	}
	creds := Credentials{User: user}
	if err := fn(&creds); err != nil {
		return Credentials{}, err
	}
	s.users[username] = creds.User
	return creds, nil
}
