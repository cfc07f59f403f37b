package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rendyzzx/jawa/internal/cryptox"
	"github.com/Rendyzzx/jawa/internal/models"
	"github.com/Rendyzzx/jawa/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.UserStore) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.enc")
	st := store.New(path, cryptox.DeriveMasterKey("auth-test-master"))
	require.NoError(t, st.Load())
	return NewService(st), st
}

func TestValidateLogin_Success(t *testing.T) {
	svc, st := newTestService(t)
	_, err := st.Insert("admin", "password1", models.RoleAdmin)
	require.NoError(t, err)

	user, err := svc.ValidateLogin("admin", "password1")
	require.NoError(t, err)
	require.Equal(t, "admin", user.Username)
	require.Equal(t, models.RoleAdmin, user.Role)
}

func TestValidateLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, st := newTestService(t)
	_, err := st.Insert("admin", "password1", models.RoleAdmin)
	require.NoError(t, err)

	_, wrongPass := svc.ValidateLogin("admin", "wrong")
	require.ErrorIs(t, wrongPass, ErrInvalidCredentials)

	_, unknownUser := svc.ValidateLogin("nobody", "password1")
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)

	require.Equal(t, wrongPass.Error(), unknownUser.Error())
}

func TestChangeCredentials_RequiresCurrentPassword(t *testing.T) {
	svc, st := newTestService(t)
	u, err := st.Insert("admin", "password1", models.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ChangeCredentials(u.ID, "wrong", "newadmin", "password2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Nil(t, st.FindByUsername("newadmin"))

	// The stored record is untouched.
	got := st.FindByID(u.ID)
	require.NotNil(t, got)
	require.Equal(t, u.Username, got.Username)
	require.Equal(t, u.Salt, got.Salt)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
}

func TestChangeCredentials_RotatesUsernameAndPassword(t *testing.T) {
	svc, st := newTestService(t)
	u, err := st.Insert("admin", "password1", models.RoleAdmin)
	require.NoError(t, err)

	updated, err := svc.ChangeCredentials(u.ID, "password1", "root", "password2")
	require.NoError(t, err)
	require.Equal(t, "root", updated.Username)
	require.Equal(t, u.ID, updated.ID)

	_, err = svc.ValidateLogin("admin", "password1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.ValidateLogin("root", "password1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := svc.ValidateLogin("root", "password2")
	require.NoError(t, err)
	require.Equal(t, u.ID, user.ID)
}

func TestChangeCredentials_UsernameOnlyKeepsPassword(t *testing.T) {
	svc, st := newTestService(t)
	u, err := st.Insert("admin", "password1", models.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ChangeCredentials(u.ID, "password1", "root", "")
	require.NoError(t, err)

	_, err = svc.ValidateLogin("root", "password1")
	require.NoError(t, err)
}

func TestChangeCredentials_RejectsTakenUsername(t *testing.T) {
	svc, st := newTestService(t)
	_, err := st.Insert("admin", "password1", models.RoleAdmin)
	require.NoError(t, err)
	bob, err := st.Insert("bob", "password1", models.RoleUser)
	require.NoError(t, err)

	_, err = svc.ChangeCredentials(bob.ID, "password1", "admin", "")
	require.ErrorIs(t, err, store.ErrDuplicateUsername)
}

func TestChangeCredentials_UnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ChangeCredentials(42, "password1", "root", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRoleOf(t *testing.T) {
	svc, st := newTestService(t)
	u, err := st.Insert("bob", "password1", models.RoleUser)
	require.NoError(t, err)

	role, ok := svc.RoleOf(u.ID)
	require.True(t, ok)
	require.Equal(t, models.RoleUser, role)

	_, ok = svc.RoleOf(42)
	require.False(t, ok)
}

func TestBootstrap_CreatesAdminOnEmptyStore(t *testing.T) {
	svc, st := newTestService(t)

	require.NoError(t, svc.Bootstrap("admin", "change-me-now"))
	require.Equal(t, 1, st.Count())

	admin := st.FindByUsername("admin")
	require.NotNil(t, admin)
	require.Equal(t, models.RoleAdmin, admin.Role)

	_, err := svc.ValidateLogin("admin", "change-me-now")
	require.NoError(t, err)
}

func TestBootstrap_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.enc")
	key := cryptox.DeriveMasterKey("auth-test-master")

	st := store.New(path, key)
	require.NoError(t, st.Load())
	require.NoError(t, NewService(st).Bootstrap("admin", "change-me-now"))

	// A fresh process sees exactly one admin and the same credentials.
	st2 := store.New(path, key)
	require.NoError(t, st2.Load())
	require.Equal(t, 1, st2.Count())

	svc := NewService(st2)
	user, err := svc.ValidateLogin("admin", "change-me-now")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, user.Role)

	_, err = svc.ValidateLogin("admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBootstrap_IsIdempotent(t *testing.T) {
	svc, st := newTestService(t)

	require.NoError(t, svc.Bootstrap("admin", "change-me-now"))
	first := st.FindByUsername("admin")
	require.NotNil(t, first)

	require.NoError(t, svc.Bootstrap("admin", "another-password"))
	require.Equal(t, 1, st.Count())

	// The existing record is left alone, password included.
	_, err := svc.ValidateLogin("admin", "change-me-now")
	require.NoError(t, err)
}

func TestBootstrap_LeavesExistingAccountUntouched(t *testing.T) {
	svc, st := newTestService(t)
	_, err := st.Insert("admin", "password1", models.RoleUser)
	require.NoError(t, err)

	require.NoError(t, svc.Bootstrap("admin", "change-me-now"))
	require.Equal(t, 1, st.Count())

	got := st.FindByUsername("admin")
	require.NotNil(t, got)
	require.Equal(t, models.RoleUser, got.Role)
}
