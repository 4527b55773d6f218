package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile returns a user's public profile with activity totals
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err, "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.users.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetPreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	prefs, err := h.users.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch preferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences changes only the flags present in the body
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input models.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := h.users.UpdatePreferences(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "Failed to update preferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}
