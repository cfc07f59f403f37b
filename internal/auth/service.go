// Package auth is the policy layer between the credential store and the
// request layer. It never touches the user file directly.
package auth

import (
	"errors"
	"fmt"
	"log"

	"github.com/Rendyzzx/jawa/internal/cryptox"
	"github.com/Rendyzzx/jawa/internal/models"
	"github.com/Rendyzzx/jawa/internal/store"
)

// ErrInvalidCredentials covers every login failure. Unknown usernames and
// wrong passwords produce the same error so responses cannot be used to
// enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid username or password")

// dummySalt feeds a throwaway hash computation when the username does not
// exist, keeping that failure path as slow as a real verification.
var dummySalt = []byte("jawa/login/dummy")

type Service struct {
	store *store.UserStore
}

func NewService(st *store.UserStore) *Service {
	return &Service{store: st}
}

// ValidateLogin checks a username/password pair and returns the matching
// record. It never reports which half of the pair was wrong.
func (s *Service) ValidateLogin(username, password string) (*models.User, error) {
	user := s.store.FindByUsername(username)
	if user == nil {
		cryptox.HashPassword(password, dummySalt)
		return nil, ErrInvalidCredentials
	}
	if !cryptox.VerifyPassword(password, user.Salt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ChangeCredentials rotates username and/or password for the given
// account. The current password must be re-proven before any change is
// applied, so a hijacked session alone cannot silently rotate
// credentials. Empty newUsername/newPassword leave that field untouched.
func (s *Service) ChangeCredentials(userID int64, currentPassword, newUsername, newPassword string) (*models.User, error) {
	user := s.store.FindByID(userID)
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !cryptox.VerifyPassword(currentPassword, user.Salt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	upd := store.UserUpdate{}
	if newUsername != "" {
		upd.Username = &newUsername
	}
	if newPassword != "" {
		upd.Password = &newPassword
	}

	updated, err := s.store.Update(userID, upd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrInvalidCredentials
	}
	return updated, nil
}

// RoleOf reports the role of the given account, if it exists. Admin
// gating goes through this single predicate, never through ad-hoc
// comparisons at call sites.
func (s *Service) RoleOf(userID int64) (models.UserRole, bool) {
	user := s.store.FindByID(userID)
	if user == nil {
		return "", false
	}
	return user.Role, true
}

// Bootstrap guarantees the configured administrator account exists,
// creating it on first run. The bootstrap password is a deployment-time
// secret to rotate immediately; it is never logged.
func (s *Service) Bootstrap(username, password string) error {
	if s.store.FindByUsername(username) != nil {
		return nil
	}

	user, err := s.store.Insert(username, password, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	log.Printf("created bootstrap admin user %q (id=%d)", user.Username, user.ID)
	return nil
}
