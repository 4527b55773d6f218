package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/elden-builds/backend/internal/middleware"
	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

type BuildHandler struct {
	builds BuildService
}

func NewBuildHandler(builds BuildService) *BuildHandler {
	return &BuildHandler{builds: builds}
}

// GetBuilds returns builds newest first with like state for the caller
func (h *BuildHandler) GetBuilds(c *gin.Context) {
	limit, offset := pagination(c)

	builds, err := h.builds.List(c.Request.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to fetch builds")
		return
	}
	if builds == nil {
		builds = []models.BuildView{}
	}
	c.JSON(http.StatusOK, builds)
}

func (h *BuildHandler) GetBuild(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	build, err := h.builds.Get(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch build")
		return
	}
	c.JSON(http.StatusOK, build)
}

func (h *BuildHandler) CreateBuild(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input models.BuildRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	build, err := h.builds.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "Failed to create build")
		return
	}
	c.JSON(http.StatusCreated, build)
}

// UpdateBuild updates a build (owner only)
func (h *BuildHandler) UpdateBuild(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input models.BuildRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	build, err := h.builds.Update(c.Request.Context(), id, userID, input)
	if err != nil {
		respondError(c, err, "Failed to update build")
		return
	}
	c.JSON(http.StatusOK, build)
}

// DeleteBuild deletes a build with its comments, votes and likes (owner only)
func (h *BuildHandler) DeleteBuild(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.builds.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "Failed to delete build")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Build deleted successfully"})
}

// ToggleLike likes the build, or unlikes it when the caller already does
func (h *BuildHandler) ToggleLike(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.builds.ToggleLike(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to update like")
		return
	}
	c.JSON(http.StatusOK, result)
}
