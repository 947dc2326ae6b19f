package routes

import (
	"voice-corpus-api/controllers"
	"voice-corpus-api/middleware"
	"voice-corpus-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Voice Corpus API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/profile", controllers.UpdateProfile)

			// Sentences
			protected.GET("/sentences", controllers.GetSentences)
			protected.GET("/sentences/:sentence_id/recordings/count", controllers.GetSentenceRecordingCount)

			// Recordings
			recordings := protected.Group("/recordings")
			{
				recordings.POST("", controllers.CreateRecording)
				recordings.GET("/mine", controllers.ListMyRecordings)
			}

			// Review queue and decisions (reviewers only)
			reviews := protected.Group("/reviews")
			reviews.Use(middleware.RequireRole(models.RoleReviewer, models.RoleAdmin))
			{
				reviews.GET("/queue", controllers.GetReviewQueue)
				reviews.POST("/:recording_id", controllers.PostReviewDecision)
			}

			// Admin panel
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/reviewers/pending", controllers.ListPendingReviewers)
				admin.POST("/reviewers/:account_id/approve", controllers.ApproveReviewer)
				admin.POST("/reviewers/:account_id/reject", controllers.RejectReviewer)

				// Maintenance tooling
				admin.GET("/reviews/duplicates/stats", controllers.GetDuplicateReviewStats)
				admin.POST("/reviews/duplicates/cleanup", controllers.RemoveDuplicateReviews)
			}
		}
	}
}
