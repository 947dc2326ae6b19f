package controllers

import (
	"log"
	"net/http"
	"time"

	"voice-corpus-api/config"
	"voice-corpus-api/models"
	"voice-corpus-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateRecordingRequest struct {
	SentenceID      string  `json:"sentence_id" binding:"required"`
	Transcript      string  `json:"transcript" binding:"required"`
	AudioPath       string  `json:"audio_path" binding:"required"`
	DurationSeconds float64 `json:"duration_seconds"`
	Language        string  `json:"language" binding:"required"`
}

// CreateRecording registers a recorded sentence in the pending state. Audio
// bytes are uploaded through a separate storage channel; only the reference
// is stored here.
func CreateRecording(c *gin.Context) {
	accountID := c.GetString("accountID")

	var req CreateRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ValidateUUID(req.SentenceID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sentence ID"})
		return
	}

	now := time.Now()
	recording := models.Recording{
		RecordingID:     uuid.NewString(),
		AccountID:       accountID,
		SentenceID:      req.SentenceID,
		Transcript:      utils.SanitizeInput(req.Transcript),
		AudioPath:       req.AudioPath,
		DurationSeconds: req.DurationSeconds,
		Language:        req.Language,
		Status:          models.RecordingStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := config.DB.Create(&recording).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recording"})
		return
	}

	// New pending recording stales queue listings and per-sentence counts.
	for _, pattern := range []string{"^recordings:", "^sentence-count:"} {
		if err := queryCache.InvalidatePattern(pattern); err != nil {
			log.Printf("Warning: cache invalidation after recording create failed: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "recording": recording})
}

// ListMyRecordings returns the caller's own recordings, newest first.
func ListMyRecordings(c *gin.Context) {
	accountID := c.GetString("accountID")

	var recordings []models.Recording
	if err := config.DB.
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&recordings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recordings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"recordings": recordings,
		"total":      len(recordings),
	})
}
