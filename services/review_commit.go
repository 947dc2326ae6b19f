package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"voice-corpus-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewService owns the write path that turns a reviewer decision into a
// review row and moves the recording out of the pending state.
type ReviewService struct {
	db       *gorm.DB
	cache    *QueryCache
	notifier DecisionNotifier
}

// DecisionNotifier is invoked after a successful commit. Failures are logged
// and never affect the commit result.
type DecisionNotifier func(recording *models.Recording, review *models.Review)

func NewReviewService(db *gorm.DB, cache *QueryCache) *ReviewService {
	return &ReviewService{db: db, cache: cache}
}

// SetNotifier installs a post-commit notification hook.
func (s *ReviewService) SetNotifier(notifier DecisionNotifier) {
	s.notifier = notifier
}

type CommitReviewInput struct {
	RecordingID      string
	ReviewerID       string
	Decision         string
	Notes            string
	Confidence       int
	TimeSpentSeconds int
}

func (in *CommitReviewInput) validate() error {
	if _, err := uuid.Parse(in.RecordingID); err != nil {
		return fmt.Errorf("recording id %q: %w", in.RecordingID, ErrValidation)
	}
	if _, err := uuid.Parse(in.ReviewerID); err != nil {
		return fmt.Errorf("reviewer id %q: %w", in.ReviewerID, ErrValidation)
	}
	if in.Decision != models.ReviewDecisionApproved && in.Decision != models.ReviewDecisionRejected {
		return fmt.Errorf("decision %q: %w", in.Decision, ErrValidation)
	}
	if in.Confidence < 0 || in.Confidence > 100 {
		return fmt.Errorf("confidence %d out of range: %w", in.Confidence, ErrValidation)
	}
	if in.TimeSpentSeconds < 0 {
		return fmt.Errorf("negative time spent: %w", ErrValidation)
	}
	return nil
}

// CommitReview records one decision for one recording with an at-most-once
// guarantee. All state is read directly from the store, never the cache.
//
// Guards, in order: the recording must exist (ErrNotFound), must still be
// pending (ErrAlreadyResolved), must have no existing review row
// (ErrAlreadyReviewed), and its author's email must differ from the
// reviewer's (ErrSelfReview). The status transition itself runs as a
// conditional UPDATE ... WHERE status = 'pending'; a zero rows-affected
// result means another reviewer won the race after the guards passed, and
// the review insert is gated on that count. A store-level duplicate-key
// failure on the insert is translated to ErrAlreadyReviewed.
//
// The guards are separate round trips, so on stores without transactional
// guarantees a true simultaneous double submit is only probabilistically
// prevented; the duplicate-review audit tooling exists for exactly that
// residual window.
func (s *ReviewService) CommitReview(ctx context.Context, input CommitReviewInput) (*models.Review, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := withBackendTimeout(ctx)
	defer cancel()

	var review *models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recording, err := loadRecordingForCommit(tx, input.RecordingID)
		if err != nil {
			return err
		}
		if recording.Status != models.RecordingStatusPending {
			return fmt.Errorf("recording %s is %s: %w", recording.RecordingID, recording.Status, ErrAlreadyResolved)
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("recording_id = ?", input.RecordingID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to count existing reviews: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("recording %s: %w", input.RecordingID, ErrAlreadyReviewed)
		}

		reviewer, author, err := loadCommitAccounts(tx, input.ReviewerID, recording.AccountID)
		if err != nil {
			return err
		}
		if strings.EqualFold(author.Email, reviewer.Email) {
			return fmt.Errorf("reviewer %s authored recording %s: %w", reviewer.AccountID, recording.RecordingID, ErrSelfReview)
		}

		now := time.Now()
		update := tx.Model(&models.Recording{}).
			Where("recording_id = ? AND status = ?", recording.RecordingID, models.RecordingStatusPending).
			Updates(map[string]interface{}{
				"status":      input.Decision,
				"reviewed_by": input.ReviewerID,
				"reviewed_at": now,
				"updated_at":  now,
			})
		if update.Error != nil {
			return fmt.Errorf("failed to update recording status: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			// Another reviewer resolved it between the guard and the update.
			return fmt.Errorf("recording %s: %w", recording.RecordingID, ErrAlreadyResolved)
		}

		created := models.Review{
			ReviewID:         uuid.NewString(),
			RecordingID:      recording.RecordingID,
			ReviewerID:       input.ReviewerID,
			Decision:         input.Decision,
			Confidence:       input.Confidence,
			TimeSpentSeconds: input.TimeSpentSeconds,
			CreatedAt:        now,
		}
		if notes := strings.TrimSpace(input.Notes); notes != "" {
			created.Notes = &notes
		}
		if err := tx.Create(&created).Error; err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("recording %s: %w", recording.RecordingID, ErrAlreadyReviewed)
			}
			return fmt.Errorf("failed to insert review: %w", err)
		}

		review = &created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAfterCommit(input.RecordingID)
	if s.notifier != nil {
		if recording, err := s.loadRecording(ctx, input.RecordingID); err == nil {
			s.notifier(recording, review)
		}
	}
	return review, nil
}

func loadRecordingForCommit(tx *gorm.DB, recordingID string) (*models.Recording, error) {
	var recording models.Recording
	err := tx.Where("recording_id = ?", recordingID).First(&recording).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recording %s: %w", recordingID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load recording %s: %w", recordingID, err)
	}
	return &recording, nil
}

func loadCommitAccounts(tx *gorm.DB, reviewerID, authorID string) (reviewer, author *models.Account, err error) {
	var reviewerRow models.Account
	if err := tx.Where("account_id = ?", reviewerID).First(&reviewerRow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("reviewer %s: %w", reviewerID, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to load reviewer %s: %w", reviewerID, err)
	}

	var authorRow models.Account
	if err := tx.Where("account_id = ?", authorID).First(&authorRow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("author %s: %w", authorID, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to load author %s: %w", authorID, err)
	}
	return &reviewerRow, &authorRow, nil
}

func (s *ReviewService) loadRecording(ctx context.Context, recordingID string) (*models.Recording, error) {
	var recording models.Recording
	err := s.db.WithContext(ctx).Preload("Author").
		Where("recording_id = ?", recordingID).
		First(&recording).Error
	if err != nil {
		return nil, err
	}
	return &recording, nil
}

// invalidateAfterCommit drops every listing the commit could have staled.
// The cache is advisory for listings only, so a failed invalidation is a
// warning, not an error.
func (s *ReviewService) invalidateAfterCommit(recordingID string) {
	for _, pattern := range []string{"^recordings:", "^sentence-count:"} {
		if err := s.cache.InvalidatePattern(pattern); err != nil {
			log.Printf("Warning: cache invalidation after review of %s failed: %v", recordingID, err)
		}
	}
}
