package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rendyzzx/jawa/internal/middleware"
	"github.com/Rendyzzx/jawa/internal/numbers"
)

// Numbers serves the phone-number CRUD. Listing and adding need any
// authenticated session; deleting is admin-gated at the route.
type Numbers struct {
	Store *numbers.Store
}

type addNumberRequest struct {
	Number string `json:"number"`
	Label  string `json:"label"`
}

func (h *Numbers) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.List())
}

func (h *Numbers) Add(c *gin.Context) {
	var req addNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.Number = strings.TrimSpace(req.Number)
	req.Label = strings.TrimSpace(req.Label)
	if req.Number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number is required"})
		return
	}

	user, _ := middleware.CurrentUser(c)

	entry, err := h.Store.Add(req.Number, req.Label, user.Username)
	if errors.Is(err, numbers.ErrDuplicateNumber) {
		c.JSON(http.StatusConflict, gin.H{"error": "number already exists"})
		return
	}
	if err != nil {
		log.Printf("failed to add number: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *Numbers) Delete(c *gin.Context) {
	id := c.Param("id")

	err := h.Store.Delete(id)
	if errors.Is(err, numbers.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "number not found"})
		return
	}
	if err != nil {
		log.Printf("failed to delete number %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
