package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"voice-corpus-api/models"

	"gorm.io/gorm"
)

// auditDeleteBatchSize bounds each delete request during repair.
const auditDeleteBatchSize = 100

// ReviewAuditService detects and repairs recordings that accumulated more
// than one review row. Its existence is the admission that the commit-time
// guards are probabilistic on stores without transactional guarantees.
type ReviewAuditService struct {
	db *gorm.DB
}

func NewReviewAuditService(db *gorm.DB) *ReviewAuditService {
	return &ReviewAuditService{db: db}
}

// DuplicateReviewStats summarizes the review table for pre-flight reports
// and post-repair verification.
type DuplicateReviewStats struct {
	TotalReviews        int `json:"total_reviews"`
	UniqueRecordings    int `json:"unique_recordings"`
	DuplicateRecordings int `json:"duplicate_recordings"`
	DuplicateRows       int `json:"duplicate_rows"`
}

// DuplicateCleanupSummary reports a repair run. When a batch delete fails
// the summary carries the partially completed counts alongside the error.
type DuplicateCleanupSummary struct {
	DuplicatesFound   int `json:"duplicates_found"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	UniqueRecordings  int `json:"unique_recordings"`
}

// FindDuplicates groups all review rows by recording id and, for each group
// larger than one, keeps the oldest row and marks the rest as duplicates.
// Returns recording id -> duplicate review ids. Deterministic: two calls
// without intervening writes return identical results.
func (s *ReviewAuditService) FindDuplicates(ctx context.Context) (map[string][]string, error) {
	reviews, err := fetchAllPages[models.Review](ctx, s.db, nil, "created_at ASC, review_id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews for audit: %w", err)
	}

	byRecording := make(map[string][]models.Review)
	for _, review := range reviews {
		byRecording[review.RecordingID] = append(byRecording[review.RecordingID], review)
	}

	duplicates := make(map[string][]string)
	for recordingID, group := range byRecording {
		if len(group) <= 1 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].ReviewID < group[j].ReviewID
			}
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})
		extras := make([]string, 0, len(group)-1)
		for _, review := range group[1:] {
			extras = append(extras, review.ReviewID)
		}
		duplicates[recordingID] = extras
	}
	return duplicates, nil
}

// RemoveDuplicates deletes every marked duplicate in fixed-size batches. A
// batch failure aborts the remaining batches and surfaces the partial state;
// there is no silent retry.
func (s *ReviewAuditService) RemoveDuplicates(ctx context.Context) (*DuplicateCleanupSummary, error) {
	duplicates, err := s.FindDuplicates(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, extras := range duplicates {
		ids = append(ids, extras...)
	}
	sort.Strings(ids)

	summary := &DuplicateCleanupSummary{DuplicatesFound: len(ids)}
	for start := 0; start < len(ids); start += auditDeleteBatchSize {
		end := start + auditDeleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		batchCtx, cancel := withBackendTimeout(ctx)
		result := s.db.WithContext(batchCtx).
			Where("review_id IN ?", batch).
			Delete(&models.Review{})
		cancel()
		if result.Error != nil {
			return summary, fmt.Errorf("duplicate cleanup aborted after %d of %d deletions: %w",
				summary.DuplicatesRemoved, len(ids), result.Error)
		}
		summary.DuplicatesRemoved += int(result.RowsAffected)
		log.Printf("Removed duplicate review batch %d-%d (%d rows)", start, end, result.RowsAffected)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return summary, fmt.Errorf("cleanup finished but verification stats failed: %w", err)
	}
	summary.UniqueRecordings = stats.UniqueRecordings
	return summary, nil
}

// Stats counts total reviews, distinct reviewed recordings and the rows
// exceeding one review per recording.
func (s *ReviewAuditService) Stats(ctx context.Context) (*DuplicateReviewStats, error) {
	duplicates, err := s.FindDuplicates(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withBackendTimeout(ctx)
	defer cancel()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Review{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var unique int64
	if err := s.db.WithContext(ctx).Model(&models.Review{}).
		Distinct("recording_id").Count(&unique).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviewed recordings: %w", err)
	}

	stats := &DuplicateReviewStats{
		TotalReviews:        int(total),
		UniqueRecordings:    int(unique),
		DuplicateRecordings: len(duplicates),
	}
	for _, extras := range duplicates {
		stats.DuplicateRows += len(extras)
	}
	return stats, nil
}
