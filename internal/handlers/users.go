package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rendyzzx/jawa/internal/models"
	"github.com/Rendyzzx/jawa/internal/store"
)

// Users serves the admin-only account management endpoints.
type Users struct {
	Store *store.UserStore
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Create registers a new account. Input is validated before the store is
// touched; the store itself enforces username uniqueness under its lock.
func (h *Users) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if len(req.Username) < 3 || len(req.Username) > 64 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username must be 3-64 characters"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
		return
	}
	role := models.UserRole(req.Role)
	if !models.ValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be admin or user"})
		return
	}

	user, err := h.Store.Insert(req.Username, req.Password, role)
	if errors.Is(err, store.ErrDuplicateUsername) {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}
	if err != nil {
		log.Printf("failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, user.Public())
}

// List returns every account without secret material: password hashes
// and salts never appear in a response.
func (h *Users) List(c *gin.Context) {
	users := h.Store.List()

	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	c.JSON(http.StatusOK, out)
}
