package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Rendyzzx/jawa/internal/auth"
	"github.com/Rendyzzx/jawa/internal/middleware"
	"github.com/Rendyzzx/jawa/internal/store"
)

// Auth serves the login/logout/identity endpoints.
type Auth struct {
	Service *auth.Service
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login validates credentials and establishes the session. Every
// credential failure produces the same status and body, so the response
// never reveals whether the username exists.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.Service.ValidateLogin(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("username", user.Username)
	sess.Set("role", string(user.Role))
	if err := sess.Save(); err != nil {
		log.Printf("failed to save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Logout destroys the caller's session. It is idempotent: logging out
// without a session still succeeds.
func (h *Auth) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me reports the caller's current identity. Anonymous callers get
// isAuthenticated=false rather than an error.
func (h *Auth) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated": true,
		"id":              user.ID,
		"username":        user.Username,
		"role":            user.Role,
	})
}

type changeCredentialsRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewUsername     string `json:"newUsername"`
	NewPassword     string `json:"newPassword"`
}

// ChangeCredentials rotates the caller's own username and/or password.
// The current password must be supplied even though the session is
// already authenticated.
func (h *Auth) ChangeCredentials(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req changeCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.NewUsername = strings.TrimSpace(req.NewUsername)

	if req.CurrentPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current password is required"})
		return
	}
	if req.NewUsername == "" && req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to change"})
		return
	}
	if req.NewUsername != "" && (len(req.NewUsername) < 3 || len(req.NewUsername) > 64) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username must be 3-64 characters"})
		return
	}
	if req.NewPassword != "" && len(req.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
		return
	}

	updated, err := h.Service.ChangeCredentials(user.ID, req.CurrentPassword, req.NewUsername, req.NewPassword)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	case errors.Is(err, store.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	case err != nil:
		log.Printf("failed to change credentials for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// Keep the session in step with the renamed account.
	sess := sessions.Default(c)
	sess.Set("user_id", updated.ID)
	sess.Set("username", updated.Username)
	sess.Set("role", string(updated.Role))
	_ = sess.Save()

	c.JSON(http.StatusOK, updated.Public())
}
