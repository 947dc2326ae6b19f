package controllers

import (
	"net/http"
	"strings"

	"voice-corpus-api/utils"

	"github.com/gin-gonic/gin"
)

// GetSentences lists active prompt sentences, optionally filtered by
// language. Served from the query cache.
func GetSentences(c *gin.Context) {
	language := strings.TrimSpace(c.Query("language"))

	sentences, err := sentenceService.ListActiveSentences(c.Request.Context(), language)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sentences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sentences": sentences,
		"total":     len(sentences),
	})
}

// GetSentenceRecordingCount returns how many recordings exist for one
// sentence.
func GetSentenceRecordingCount(c *gin.Context) {
	sentenceID := c.Param("sentence_id")
	if !utils.ValidateUUID(sentenceID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sentence ID"})
		return
	}

	count, err := sentenceService.RecordingCount(c.Request.Context(), sentenceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count recordings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"sentence_id": sentenceID,
		"recordings":  count,
	})
}
