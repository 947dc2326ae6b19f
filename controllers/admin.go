package controllers

import (
	"net/http"
	"time"

	"voice-corpus-api/config"
	"voice-corpus-api/models"
	"voice-corpus-api/services"
	"voice-corpus-api/utils"

	"github.com/gin-gonic/gin"
)

// ListPendingReviewers returns reviewer accounts awaiting approval.
func ListPendingReviewers(c *gin.Context) {
	var accounts []models.Account
	if err := config.DB.
		Where("role = ? AND status = ? AND deleted_at IS NULL",
			models.RoleReviewer, models.AccountStatusPending).
		Order("created_at ASC").
		Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending reviewers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"accounts": accounts,
		"total":    len(accounts),
	})
}

// ApproveReviewer activates a pending reviewer account and mails the owner.
func ApproveReviewer(c *gin.Context) {
	setReviewerStatus(c, models.AccountStatusActive)
}

// RejectReviewer marks a pending reviewer account as rejected.
func RejectReviewer(c *gin.Context) {
	setReviewerStatus(c, models.AccountStatusRejected)
}

func setReviewerStatus(c *gin.Context, status string) {
	accountID := c.Param("account_id")
	if !utils.ValidateUUID(accountID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	var account models.Account
	if err := config.DB.
		Where("account_id = ? AND role = ? AND deleted_at IS NULL", accountID, models.RoleReviewer).
		First(&account).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer account not found"})
		return
	}
	if account.Status != models.AccountStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Account is not pending"})
		return
	}

	if err := config.DB.Model(&models.Account{}).
		Where("account_id = ?", accountID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
		return
	}
	accountService.InvalidateAccountCache()

	if status == models.AccountStatusActive {
		account.Status = status
		go services.NotifyAccountApproved(&account)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

// GetDuplicateReviewStats reports the review-table health numbers used as a
// pre-flight check before running the repair.
func GetDuplicateReviewStats(c *gin.Context) {
	stats, err := auditService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute review stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// RemoveDuplicateReviews collapses multiple reviews per recording down to
// the oldest one. Operator tooling, admin only.
func RemoveDuplicateReviews(c *gin.Context) {
	summary, err := auditService.RemoveDuplicates(c.Request.Context())
	if err != nil {
		// The summary still reports how far the cleanup got.
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"summary": summary,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}
