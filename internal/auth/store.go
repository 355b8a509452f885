package auth

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.yaml.in/yaml/v3"
)

var (
	// ErrUserExists indicates a duplicate username.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound indicates a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameRequired indicates a missing username.
	ErrUsernameRequired = errors.New("username is required")
)

// Store holds console accounts keyed by username. It is safe for concurrent
// use.
type Store struct {
	mu    sync.RWMutex
	users map[string]User
}

type usersFile struct {
	Users []User `yaml:"users"`
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{users: make(map[string]User)}
}

// LoadStore reads users from path. A missing file yields an empty store.
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	users, err := parseUsers(data)
	if err != nil {
		return nil, err
	}
	return &Store{users: users}, nil
}

func parseUsers(data []byte) (map[string]User, error) {
	var file usersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	users := make(map[string]User, len(file.Users))
	for _, user := range file.Users {
		if user.Username != "" {
			users[user.Username] = user
		}
	}
	return users, nil
}

// Save writes the store to path with owner-only permissions.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(usersFile{Users: s.List()})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Get retrieves a user by name.
func (s *Store) Get(username string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	return user, ok
}

// Len returns the number of users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// List returns users sorted by name.
func (s *Store) List() []User {
	s.mu.RLock()
	users := make([]User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	s.mu.RUnlock()
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users
}

// swap installs users and returns the accounts the change revokes, sorted
// by username.
func (s *Store) swap(users map[string]User) []Revocation {
	s.mu.Lock()
	old := s.users
	s.users = users
	s.mu.Unlock()

	var revoked []Revocation
	for name, before := range old {
		after, ok := users[name]
		switch {
		case !ok:
			revoked = append(revoked, Revocation{Username: name, Removed: true})
		case after.PasswordHash != before.PasswordHash || after.TOTPSecret != before.TOTPSecret:
			revoked = append(revoked, Revocation{Username: name})
		}
	}
	sort.Slice(revoked, func(i, j int) bool {
		return revoked[i].Username < revoked[j].Username
	})
	return revoked
}
