package services

import (
	"context"
	"fmt"

	"voice-corpus-api/models"

	"gorm.io/gorm"
)

// SentenceService serves the prompt pool. Both reads sit behind the query
// cache; sentence text changes rarely, recording counts tolerate a minute of
// staleness.
type SentenceService struct {
	db    *gorm.DB
	cache *QueryCache
}

func NewSentenceService(db *gorm.DB, cache *QueryCache) *SentenceService {
	return &SentenceService{db: db, cache: cache}
}

// ListActiveSentences returns active sentences, optionally restricted to one
// language.
func (s *SentenceService) ListActiveSentences(ctx context.Context, language string) ([]models.Sentence, error) {
	key := "sentences:" + language
	value, err := s.cache.WithCache(key, SentenceCacheTTL, func() (interface{}, error) {
		conds := map[string]interface{}{"is_active": true}
		if language != "" {
			conds["language"] = language
		}
		sentences, err := fetchAllPages[models.Sentence](ctx, s.db, conds, "")
		if err != nil {
			return nil, fmt.Errorf("failed to list sentences: %w", err)
		}
		return sentences, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.Sentence), nil
}

// RecordingCount returns how many recordings exist for one sentence.
func (s *SentenceService) RecordingCount(ctx context.Context, sentenceID string) (int64, error) {
	key := "sentence-count:" + sentenceID
	value, err := s.cache.WithCache(key, CountCacheTTL, func() (interface{}, error) {
		ctx, cancel := withBackendTimeout(ctx)
		defer cancel()

		var count int64
		err := s.db.WithContext(ctx).Model(&models.Recording{}).
			Where("sentence_id = ?", sentenceID).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count recordings for sentence %s: %w", sentenceID, err)
		}
		return count, nil
	})
	if err != nil {
		return 0, err
	}
	return value.(int64), nil
}
