// Package store owns the encrypted user file and the authoritative
// in-memory user table. No other component reads or writes that file.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/Rendyzzx/jawa/internal/cryptox"
	"github.com/Rendyzzx/jawa/internal/models"
)

var (
	// ErrDuplicateUsername is returned when an insert or update would
	// leave two records owning the same username.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrIntegrity is returned when the user file fails its checksum or
	// cannot be parsed at all: the file is corrupted or was tampered
	// with. Callers must treat this as fatal for the load, never as an
	// empty store.
	ErrIntegrity = errors.New("user file integrity check failed")
)

// UserStore holds the user table for the process lifetime. All mutations
// run under one write lock: the uniqueness check, the in-memory change
// and the file swap are a single critical section, so two concurrent
// inserts can never both pass the check. Lookups take the read lock and
// return copies, never pointers into the table.
type UserStore struct {
	mu        sync.RWMutex
	path      string
	masterKey []byte
	users     []models.User
}

// New creates a store over the given file path and master key. Call Load
// before anything else.
func New(path string, masterKey []byte) *UserStore {
	return &UserStore{path: path, masterKey: masterKey}
}

// Count returns the number of records in the table.
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// FindByUsername returns the record owning exactly the given username,
// or nil. Lookups are case-sensitive: "Admin" and "admin" are distinct
// names, matching the uniqueness rule on insert.
func (s *UserStore) FindByUsername(username string) *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findByUsernameLocked(username)
}

// FindByID returns the record with the given id, or nil.
func (s *UserStore) FindByID(id int64) *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u
		}
	}
	return nil
}

// List returns a snapshot copy of the user table.
func (s *UserStore) List() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Insert creates a new user with a fresh salt and derived password hash.
// The insert is all-or-nothing: a duplicate username fails before any
// mutation, and a failed file write rolls the table back so an unsaved
// user is never visible.
func (s *UserStore) Insert(username, rawPassword string, role models.UserRole) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByUsernameLocked(username) != nil {
		return nil, ErrDuplicateUsername
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           s.nextIDLocked(),
		Username:     username,
		PasswordHash: cryptox.HashPassword(rawPassword, salt),
		Salt:         salt,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.users = append(s.users, user)
	if err := s.persistLocked(); err != nil {
		s.users = s.users[:len(s.users)-1]
		return nil, err
	}
	return &user, nil
}

// UserUpdate describes a partial change to an existing record. Nil fields
// are left untouched.
type UserUpdate struct {
	Username *string
	Password *string
	Role     *models.UserRole
}

// Update applies a partial change to the record with the given id and
// returns the updated copy. It returns (nil, nil) when no such record
// exists. The salt and hash are re-derived only when a new password is
// supplied. A failed file write restores the previous record.
func (s *UserStore) Update(id int64, upd UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.users {
		if s.users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil
	}

	prev := s.users[idx]
	next := prev

	if upd.Username != nil && *upd.Username != prev.Username {
		if s.findByUsernameLocked(*upd.Username) != nil {
			return nil, ErrDuplicateUsername
		}
		next.Username = *upd.Username
	}
	if upd.Password != nil {
		salt, err := cryptox.NewSalt()
		if err != nil {
			return nil, err
		}
		next.Salt = salt
		next.PasswordHash = cryptox.HashPassword(*upd.Password, salt)
	}
	if upd.Role != nil {
		next.Role = *upd.Role
	}
	next.UpdatedAt = time.Now().UTC()

	s.users[idx] = next
	if err := s.persistLocked(); err != nil {
		s.users[idx] = prev
		return nil, err
	}
	return &next, nil
}

func (s *UserStore) findByUsernameLocked(username string) *models.User {
	for i := range s.users {
		if s.users[i].Username == username {
			u := s.users[i]
			return &u
		}
	}
	return nil
}

// nextIDLocked assigns max existing id + 1 (1 for an empty table), so an
// id is never reused even if records were removed out-of-band.
func (s *UserStore) nextIDLocked() int64 {
	var max int64
	for _, u := range s.users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}
