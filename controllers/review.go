package controllers

import (
	"errors"
	"net/http"
	"strings"

	"voice-corpus-api/services"

	"github.com/gin-gonic/gin"
)

// GetReviewQueue lists the recordings the authenticated reviewer may act on
// next. Optional query params: status (default pending), language (default
// is the reviewer's first configured language).
func GetReviewQueue(c *gin.Context) {
	reviewerID := c.GetString("accountID")
	status := strings.TrimSpace(c.Query("status"))
	language := strings.TrimSpace(c.Query("language"))

	candidates, err := queueService.GetReviewCandidates(c.Request.Context(), reviewerID, status, language)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer account not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch review queue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"recordings": candidates,
		"total":      len(candidates),
	})
}

type ReviewDecisionRequest struct {
	Decision         string `json:"decision" binding:"required"`
	Notes            string `json:"notes"`
	Confidence       int    `json:"confidence"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

// PostReviewDecision commits one review decision for one recording. Benign
// race outcomes surface as 409 so the client can advance to the next
// candidate instead of retrying.
func PostReviewDecision(c *gin.Context) {
	reviewerID := c.GetString("accountID")
	recordingID := c.Param("recording_id")

	var req ReviewDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	review, err := reviewService.CommitReview(c.Request.Context(), services.CommitReviewInput{
		RecordingID:      recordingID,
		ReviewerID:       reviewerID,
		Decision:         strings.ToLower(strings.TrimSpace(req.Decision)),
		Notes:            req.Notes,
		Confidence:       req.Confidence,
		TimeSpentSeconds: req.TimeSpentSeconds,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recording not found"})
		case errors.Is(err, services.ErrAlreadyResolved):
			c.JSON(http.StatusConflict, gin.H{"error": "This recording was already reviewed"})
		case errors.Is(err, services.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "This recording was already reviewed"})
		case errors.Is(err, services.ErrSelfReview):
			c.JSON(http.StatusForbidden, gin.H{"error": "You cannot review your own recording"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to commit review"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"review":  review,
		"message": "Review recorded",
	})
}
