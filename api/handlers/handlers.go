package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogme/engagement"
	"blogme/feed"
	"blogme/store"
)

// FeedHandler returns the current normalized collection filtered by
// category and search query.
func FeedHandler(sync *feed.Sync) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.DefaultQuery("category", feed.CategoryAll)
		search := c.Query("q")
		posts := feed.Filter(sync.Posts(), category, search)
		c.JSON(http.StatusOK, gin.H{
			"posts":      posts,
			"categories": feed.Categories,
		})
	}
}

// OpenPostHandler serves one post for a detail view, which triggers the
// view-dedup decision.
func OpenPostHandler(engine *engagement.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := engine.OpenPost(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// ToggleLikeHandler flips the acting user's like on a post.
func ToggleLikeHandler(engine *engagement.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := engine.ToggleLike(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

type addCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddCommentHandler appends a comment by the acting user.
func AddCommentHandler(engine *engagement.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
			return
		}
		comment, err := engine.AddComment(c.Request.Context(), c.Param("id"), req.Text)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}

// RemoveCommentHandler deletes one of the acting user's own comments.
func RemoveCommentHandler(engine *engagement.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := engine.RemoveComment(c.Request.Context(), c.Param("id"), c.Param("commentId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func respondError(c *gin.Context, err error) {
	var validation *engagement.ValidationError
	var transport *engagement.TransportError
	switch {
	case errors.Is(err, engagement.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, engagement.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Reason})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &transport):
		c.JSON(http.StatusBadGateway, gin.H{"error": "temporary failure, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
