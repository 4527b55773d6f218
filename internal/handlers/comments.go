package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/elden-builds/backend/internal/middleware"
	"github.com/emilythestrangee/elden-builds/backend/internal/models"
)

type CommentHandler struct {
	comments CommentService
	votes    VoteService
}

func NewCommentHandler(comments CommentService, votes VoteService) *CommentHandler {
	return &CommentHandler{comments: comments, votes: votes}
}

// GetComments returns all comments for a build with live vote tallies
func (h *CommentHandler) GetComments(c *gin.Context) {
	buildID, ok := paramID(c, "id")
	if !ok {
		return
	}

	comments, err := h.comments.ListForBuild(c.Request.Context(), buildID, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch comments")
		return
	}
	if comments == nil {
		comments = []models.CommentView{}
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment creates a new comment on a build
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	buildID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input models.CommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), buildID, userID, input)
	if err != nil {
		respondError(c, err, "Failed to create comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// UpdateComment updates a comment (owner only)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input models.CommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), id, userID, input)
	if err != nil {
		respondError(c, err, "Failed to update comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment and its votes (owner only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "Failed to delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// VoteComment casts, changes or removes the caller's vote on a comment
func (h *CommentHandler) VoteComment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.votes.ApplyVote(c.Request.Context(), id, userID, c.Param("vote_type"))
	if err != nil {
		respondError(c, err, "Failed to vote")
		return
	}
	c.JSON(http.StatusOK, result)
}
