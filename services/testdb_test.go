package services

import (
	"testing"
	"time"

	"voice-corpus-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Account{}, &models.Recording{}, &models.Review{}, &models.Sentence{})
	require.NoError(t, err)

	return db
}

func seedAccount(t *testing.T, db *gorm.DB, email, role, languages string) models.Account {
	t.Helper()

	account := models.Account{
		AccountID: uuid.NewString(),
		FirstName: "Test",
		LastName:  "Account",
		Email:     email,
		Password:  "irrelevant",
		Role:      role,
		Status:    models.AccountStatusActive,
		Languages: languages,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&account).Error)
	return account
}

func seedRecording(t *testing.T, db *gorm.DB, authorID, language, status string, createdAt time.Time) models.Recording {
	t.Helper()

	recording := models.Recording{
		RecordingID:     uuid.NewString(),
		AccountID:       authorID,
		SentenceID:      uuid.NewString(),
		Transcript:      "the quick brown fox",
		AudioPath:       "audio/" + uuid.NewString() + ".wav",
		DurationSeconds: 3.2,
		Language:        language,
		Status:          status,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	require.NoError(t, db.Create(&recording).Error)
	return recording
}

func seedReview(t *testing.T, db *gorm.DB, recordingID, reviewerID string, createdAt time.Time) models.Review {
	t.Helper()

	review := models.Review{
		ReviewID:    uuid.NewString(),
		RecordingID: recordingID,
		ReviewerID:  reviewerID,
		Decision:    models.ReviewDecisionApproved,
		Confidence:  80,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(&review).Error)
	return review
}
