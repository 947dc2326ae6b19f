package services

import (
	"context"
	"testing"
	"time"

	"voice-corpus-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReviewCandidatesExcludesSameEmailAcrossRoles(t *testing.T) {
	db := setupTestDB(t)
	service := NewReviewQueueService(db, NewQueryCache())

	// One person, two role-scoped accounts sharing an email.
	contributor := seedAccount(t, db, "a@x.com", models.RoleContributor, "en")
	reviewer := seedAccount(t, db, "a@x.com", models.RoleReviewer, "en")
	other := seedAccount(t, db, "b@x.com", models.RoleContributor, "en")

	own := seedRecording(t, db, contributor.AccountID, "en", models.RecordingStatusPending, time.Now())
	foreign := seedRecording(t, db, other.AccountID, "en", models.RecordingStatusPending, time.Now())

	got, err := service.GetReviewCandidates(context.Background(), reviewer.AccountID, "", "")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, foreign.RecordingID, got[0].RecordingID)
	for _, recording := range got {
		assert.NotEqual(t, own.RecordingID, recording.RecordingID,
			"a recording authored under the contributor identity must never reach the reviewer identity sharing that email")
	}
}

func TestGetReviewCandidatesExcludesAlreadyReviewed(t *testing.T) {
	db := setupTestDB(t)
	service := NewReviewQueueService(db, NewQueryCache())

	reviewer := seedAccount(t, db, "r@x.com", models.RoleReviewer, "en")
	author := seedAccount(t, db, "a@x.com", models.RoleContributor, "en")

	reviewed := seedRecording(t, db, author.AccountID, "en", models.RecordingStatusPending, time.Now())
	fresh := seedRecording(t, db, author.AccountID, "en", models.RecordingStatusPending, time.Now())
	seedReview(t, db, reviewed.RecordingID, reviewer.AccountID, time.Now())

	got, err := service.GetReviewCandidates(context.Background(), reviewer.AccountID, "", "")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, fresh.RecordingID, got[0].RecordingID)
}

func TestGetReviewCandidatesUsesPreferredLanguage(t *testing.T) {
	db := setupTestDB(t)
	service := NewReviewQueueService(db, NewQueryCache())

	reviewer := seedAccount(t, db, "r@x.com", models.RoleReviewer, "de,en")
	author := seedAccount(t, db, "a@x.com", models.RoleContributor, "")

	german := seedRecording(t, db, author.AccountID, "de", models.RecordingStatusPending, time.Now())
	seedRecording(t, db, author.AccountID, "en", models.RecordingStatusPending, time.Now())

	got, err := service.GetReviewCandidates(context.Background(), reviewer.AccountID, "", "")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, german.RecordingID, got[0].RecordingID)
}

func TestGetReviewCandidatesFallsBackWhenLanguageYieldsNothing(t *testing.T) {
	db := setupTestDB(t)
	service := NewReviewQueueService(db, NewQueryCache())

	reviewer := seedAccount(t, db, "r@x.com", models.RoleReviewer, "fi")
	author := seedAccount(t, db, "a@x.com", models.RoleContributor, "")

	english := seedRecording(t, db, author.AccountID, "en", models.RecordingStatusPending, time.Now())

	// No Finnish recordings exist; the selector retries without the filter
	// instead of reporting an empty queue.
	got, err := service.GetReviewCandidates(context.Background(), reviewer.AccountID, "", "")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, english.RecordingID, got[0].RecordingID)
}

func TestGetReviewCandidatesNoLanguageConfigured(t *testing.T) {
	db := setupTestDB(t)
	service := NewReviewQueueService(db, NewQueryCache())

	reviewer := seedAccount(t, db, "r@x.com", models.RoleReviewer, "")
	author := seedAccount(t, db, "a@x.com", models.RoleContributor, "")

	seedRecording(t, db, author.AccountID, "en", models.RecordingStatusPending, time.Now())
	seedRecording(t, db, author.AccountID, "de", models.RecordingStatusPending, time.Now())

	got, err := service.GetReviewCandidates(context.Background(), reviewer.AccountID, "", "")
	require.NoError(t, err)
	assert.Len(t, got, 2, "a reviewer with no configured language sees all languages")
}

func TestGetReviewCandidatesDegradesForMalformedReviewerID(t *testing.T) {
	db := setupTestDB(t)
	service := NewReviewQueueService(db, NewQueryCache())

	author := seedAccount(t, db, "a@x.com", models.RoleContributor, "")
	seedRecording(t, db, author.AccountID, "en", models.RecordingStatusPending, time.Now())
	seedRecording(t, db, author.AccountID, "en", models.RecordingStatusApproved, time.Now())

	got, err := service.GetReviewCandidates(context.Background(), "not-a-uuid", "", "")
	require.NoError(t, err)
	assert.Len(t, got, 1, "anonymous calls degrade to the plain status query")
}

func TestGetReviewCandidatesUnknownReviewer(t *testing.T) {
	db := setupTestDB(t)
	service := NewReviewQueueService(db, NewQueryCache())

	_, err := service.GetReviewCandidates(context.Background(),
		"11111111-1111-1111-1111-111111111111", "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetReviewCandidatesCachesStatusListing(t *testing.T) {
	db := setupTestDB(t)
	cache := NewQueryCache()
	service := NewReviewQueueService(db, cache)

	reviewer := seedAccount(t, db, "r@x.com", models.RoleReviewer, "")
	author := seedAccount(t, db, "a@x.com", models.RoleContributor, "")
	seedRecording(t, db, author.AccountID, "en", models.RecordingStatusPending, time.Now())

	got, err := service.GetReviewCandidates(context.Background(), reviewer.AccountID, "", "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	// The raw status listing is cached under "recordings:"; a new pending
	// recording stays invisible until the prefix is invalidated.
	seedRecording(t, db, author.AccountID, "en", models.RecordingStatusPending, time.Now())

	got, err = service.GetReviewCandidates(context.Background(), reviewer.AccountID, "", "")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, cache.InvalidatePattern("^recordings:"))

	got, err = service.GetReviewCandidates(context.Background(), reviewer.AccountID, "", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCommitInvalidatesCachedQueueListing(t *testing.T) {
	db := setupTestDB(t)
	cache := NewQueryCache()
	queue := NewReviewQueueService(db, cache)
	commit := NewReviewService(db, cache)

	author := seedAccount(t, db, "a@x.com", models.RoleContributor, "")
	r1 := seedAccount(t, db, "r1@x.com", models.RoleReviewer, "")
	r2 := seedAccount(t, db, "r2@x.com", models.RoleReviewer, "")
	recording := seedRecording(t, db, author.AccountID, "en", models.RecordingStatusPending, time.Now())

	got, err := queue.GetReviewCandidates(context.Background(), r1.AccountID, "", "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	// r2 resolves the recording. Without the "^recordings:" invalidation
	// r1 would keep being offered the stale pending listing, since the
	// history exclusion only covers r1's own reviews.
	_, err = commit.CommitReview(context.Background(), CommitReviewInput{
		RecordingID: recording.RecordingID,
		ReviewerID:  r2.AccountID,
		Decision:    models.ReviewDecisionApproved,
		Confidence:  80,
	})
	require.NoError(t, err)

	got, err = queue.GetReviewCandidates(context.Background(), r1.AccountID, "", "")
	require.NoError(t, err)
	assert.Empty(t, got, "a resolved recording must leave the queue immediately")
}

func TestGetReviewCandidatesFailsClosedOnHistoryError(t *testing.T) {
	db := setupTestDB(t)
	service := NewReviewQueueService(db, NewQueryCache())

	reviewer := seedAccount(t, db, "r@x.com", models.RoleReviewer, "")
	author := seedAccount(t, db, "a@x.com", models.RoleContributor, "")
	seedRecording(t, db, author.AccountID, "en", models.RecordingStatusPending, time.Now())

	// Break the review-history lookup. The selector must propagate the
	// error rather than degrade to an unfiltered listing.
	require.NoError(t, db.Migrator().DropTable(&models.Review{}))

	_, err := service.GetReviewCandidates(context.Background(), reviewer.AccountID, "", "")
	assert.Error(t, err)
}
