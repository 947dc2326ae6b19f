package services

import (
	"context"
	"testing"
	"time"

	"voice-corpus-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListActiveSentencesFiltersAndCaches(t *testing.T) {
	db := setupTestDB(t)
	service := NewSentenceService(db, NewQueryCache())

	sentences := []models.Sentence{
		{SentenceID: uuid.NewString(), Text: "hello world", Language: "en", IsActive: true},
		{SentenceID: uuid.NewString(), Text: "hallo welt", Language: "de", IsActive: true},
		{SentenceID: uuid.NewString(), Text: "retired prompt", Language: "en", IsActive: false},
	}
	require.NoError(t, db.Create(&sentences).Error)

	got, err := service.ListActiveSentences(context.Background(), "en")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hello world", got[0].Text)

	// Second read is served from cache: a new row does not appear yet.
	extra := models.Sentence{SentenceID: uuid.NewString(), Text: "new prompt", Language: "en", IsActive: true}
	require.NoError(t, db.Create(&extra).Error)

	got, err = service.ListActiveSentences(context.Background(), "en")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecordingCountCachesPerSentence(t *testing.T) {
	db := setupTestDB(t)
	cache := NewQueryCache()
	service := NewSentenceService(db, cache)

	author := seedAccount(t, db, "a@x.com", models.RoleContributor, "en")
	recording := seedRecording(t, db, author.AccountID, "en", models.RecordingStatusPending, time.Now())

	count, err := service.RecordingCount(context.Background(), recording.SentenceID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Add a second recording for the same sentence. The cached count keeps
	// serving until a write path invalidates "^sentence-count:".
	second := models.Recording{
		RecordingID: uuid.NewString(),
		AccountID:   author.AccountID,
		SentenceID:  recording.SentenceID,
		Language:    "en",
		Status:      models.RecordingStatusPending,
	}
	require.NoError(t, db.Create(&second).Error)

	count, err = service.RecordingCount(context.Background(), recording.SentenceID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "cached count persists until invalidation")

	require.NoError(t, cache.InvalidatePattern("^sentence-count:"))

	count, err = service.RecordingCount(context.Background(), recording.SentenceID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
