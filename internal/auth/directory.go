package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"pkt.systems/pslog"
)

// DefaultReloadInterval is how often a served users file is checked.
const DefaultReloadInterval = time.Second

var (
	// ErrInvalidCredentials is returned when a login fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoUsersFile is returned by Reload on a directory without a file.
	ErrNoUsersFile = errors.New("directory has no users file")
)

// Revocation names an account whose signed-in sessions have to end.
type Revocation struct {
	Username string
	// Removed is false when the account still exists with a new password
	// or TOTP secret.
	Removed bool
}

// Message is the text shown to a session before it is signed out.
func (r Revocation) Message() string {
	if r.Removed {
		return "Your account was removed."
	}
	return "Your credentials changed. Please sign in again."
}

// Directory checks console logins and follows edits made to the users file
// by `termframe users` while the server runs.
type Directory struct {
	store  *Store
	path   string
	logger pslog.Logger

	mu       sync.Mutex
	digest   [sha256.Size]byte
	onRevoke func([]Revocation)
}

// NewDirectory returns a directory over an in-memory store.
func NewDirectory(store *Store) *Directory {
	if store == nil {
		store = NewStore()
	}
	return &Directory{store: store, logger: pslog.LoggerFromEnv()}
}

// OpenDirectory loads the users file at path. A missing file starts empty
// and is picked up once it is written.
func OpenDirectory(path string, logger pslog.Logger) (*Directory, error) {
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	users, err := parseUsers(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &Directory{
		store:  &Store{users: users},
		path:   path,
		logger: logger,
		digest: sha256.Sum256(data),
	}, nil
}

// Len returns the number of accounts.
func (d *Directory) Len() int { return d.store.Len() }

// OnRevoke sets the function Reload calls with the accounts a reload
// revoked.
func (d *Directory) OnRevoke(fn func([]Revocation)) {
	d.mu.Lock()
	d.onRevoke = fn
	d.mu.Unlock()
}

// Validate checks username, password and TOTP code. Unknown users, wrong
// passwords and wrong codes all return ErrInvalidCredentials.
func (d *Directory) Validate(username, password, code string, now time.Time) (User, error) {
	if d == nil {
		return User{}, ErrInvalidCredentials
	}
	user, ok := d.store.Get(username)
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	valid, err := totp.ValidateCustom(code, user.TOTPSecret, now, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !valid {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Reload rereads the users file when its content changed and reports the
// revoked accounts to the OnRevoke function. A file that fails to parse
// leaves the current accounts in place.
func (d *Directory) Reload() ([]Revocation, error) {
	if d.path == "" {
		return nil, ErrNoUsersFile
	}
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)

	d.mu.Lock()
	if sum == d.digest {
		d.mu.Unlock()
		return nil, nil
	}
	users, err := parseUsers(data)
	if err != nil {
		d.mu.Unlock()
		return nil, fmt.Errorf("parse %s: %w", d.path, err)
	}
	d.digest = sum
	revoked := d.store.swap(users)
	fn := d.onRevoke
	d.mu.Unlock()

	d.logger.Info("users reloaded", "users", len(users), "revoked", len(revoked))
	if fn != nil && len(revoked) > 0 {
		fn(revoked)
	}
	return revoked, nil
}

// Watch reloads the users file every interval until ctx is done.
func (d *Directory) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.Reload(); err != nil && !os.IsNotExist(err) {
				d.logger.Warn("users reload failed", "err", err)
			}
		}
	}
}
