package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"voice-corpus-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewQueueService computes the set of pending recordings a reviewer may
// act on next.
type ReviewQueueService struct {
	db    *gorm.DB
	cache *QueryCache
}

func NewReviewQueueService(db *gorm.DB, cache *QueryCache) *ReviewQueueService {
	return &ReviewQueueService{db: db, cache: cache}
}

// GetReviewCandidates returns the recordings the given reviewer is allowed
// to see, newest first. A candidate must match the target status, must not
// be authored by the reviewer's person (matched by email, since one person
// may hold role-scoped accounts sharing an email), and must not appear in
// the reviewer's review history.
//
// language overrides the reviewer's first configured language; pass "" to
// use that default. When a language filter yields zero candidates the
// selector retries once without it rather than reporting an empty queue
// caused purely by a filter/data mismatch.
//
// The review-history fetch is fail-closed: its failure propagates as a hard
// error instead of degrading to an unfiltered listing, because silently
// skipping that check reopens the duplicate-review hole the committer
// closes.
func (s *ReviewQueueService) GetReviewCandidates(ctx context.Context, reviewerID, status, language string) ([]models.Recording, error) {
	if status == "" {
		status = models.RecordingStatusPending
	}

	// Anonymous or malformed reviewer ids degrade to the plain status
	// query. The authenticated UI path never takes this branch.
	if _, err := uuid.Parse(reviewerID); err != nil {
		return s.fetchCandidates(ctx, status, language)
	}

	reviewer, err := s.loadReviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	// Smallest set first, and fail closed on error.
	history, err := fetchAllPages[models.Review](ctx, s.db,
		map[string]interface{}{"reviewer_id": reviewerID}, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch review history for %s: %w", reviewerID, err)
	}
	reviewed := make(map[string]struct{}, len(history))
	for _, review := range history {
		reviewed[review.RecordingID] = struct{}{}
	}

	if language == "" {
		language = reviewer.PreferredLanguage()
	}

	candidates, err := s.fetchCandidates(ctx, status, language)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 && language != "" {
		log.Printf("No %s recordings for language %q, retrying without language filter", status, language)
		candidates, err = s.fetchCandidates(ctx, status, "")
		if err != nil {
			return nil, err
		}
	}

	authorEmails, err := s.lookupAuthorEmails(ctx, candidates)
	if err != nil {
		return nil, err
	}

	eligible := make([]models.Recording, 0, len(candidates))
	for _, recording := range candidates {
		if _, done := reviewed[recording.RecordingID]; done {
			continue
		}
		if strings.EqualFold(authorEmails[recording.AccountID], reviewer.Email) {
			continue
		}
		eligible = append(eligible, recording)
	}
	return eligible, nil
}

func (s *ReviewQueueService) loadReviewer(ctx context.Context, reviewerID string) (*models.Account, error) {
	ctx, cancel := withBackendTimeout(ctx)
	defer cancel()

	var reviewer models.Account
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND deleted_at IS NULL", reviewerID).
		First(&reviewer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reviewer %s: %w", reviewerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load reviewer %s: %w", reviewerID, err)
	}
	return &reviewer, nil
}

// fetchCandidates pages through recordings by status, pushing the language
// filter down to the store. The raw listing sits behind the query cache
// under a "recordings:" key; commits and new recordings invalidate the
// prefix, and the per-reviewer exclusions are applied on top of the cached
// set, never cached themselves.
func (s *ReviewQueueService) fetchCandidates(ctx context.Context, status, language string) ([]models.Recording, error) {
	key := fmt.Sprintf("recordings:%s:%s", status, language)
	value, err := s.cache.WithCache(key, ListingCacheTTL, func() (interface{}, error) {
		conds := map[string]interface{}{"status": status}
		if language != "" {
			conds["language"] = language
		}
		recordings, err := fetchAllPages[models.Recording](ctx, s.db, conds, "")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s recordings: %w", status, err)
		}
		return recordings, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.Recording), nil
}

// lookupAuthorEmails resolves the authors of all candidates in one batch IN
// query, avoiding a per-recording round trip.
func (s *ReviewQueueService) lookupAuthorEmails(ctx context.Context, recordings []models.Recording) (map[string]string, error) {
	if len(recordings) == 0 {
		return map[string]string{}, nil
	}

	seen := make(map[string]struct{}, len(recordings))
	ids := make([]string, 0, len(recordings))
	for _, recording := range recordings {
		if _, ok := seen[recording.AccountID]; ok {
			continue
		}
		seen[recording.AccountID] = struct{}{}
		ids = append(ids, recording.AccountID)
	}

	ctx, cancel := withBackendTimeout(ctx)
	defer cancel()

	var authors []models.Account
	err := s.db.WithContext(ctx).
		Select("account_id", "email").
		Where("account_id IN ?", ids).
		Find(&authors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load candidate authors: %w", err)
	}

	emails := make(map[string]string, len(authors))
	for _, author := range authors {
		emails[author.AccountID] = author.Email
	}
	return emails, nil
}
