package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"voice-corpus-api/models"

	"gorm.io/gorm"
)

// AccountService answers the uniqueness questions the store cannot express
// declaratively: national IDs and phone numbers are unique across the whole
// accounts table, while emails may legitimately repeat across roles.
type AccountService struct {
	db    *gorm.DB
	cache *QueryCache
}

func NewAccountService(db *gorm.DB, cache *QueryCache) *AccountService {
	return &AccountService{db: db, cache: cache}
}

// CheckNationalIDExists reports whether another account already holds the
// given national ID. excludeAccountID skips one account, used when a user
// resubmits their own unchanged value during a profile edit.
//
// Backend errors are treated as "not found" (fail open): a rare duplicate
// slipping through is preferable to blocking profile edits on a transient
// store error.
func (s *AccountService) CheckNationalIDExists(ctx context.Context, nationalID, excludeAccountID string) bool {
	return s.checkFieldExists(ctx, "national_id", nationalID, excludeAccountID)
}

// CheckPhoneExists is the phone-number counterpart of CheckNationalIDExists,
// with the same fail-open posture.
func (s *AccountService) CheckPhoneExists(ctx context.Context, phone, excludeAccountID string) bool {
	return s.checkFieldExists(ctx, "phone", phone, excludeAccountID)
}

func (s *AccountService) checkFieldExists(ctx context.Context, column, value, excludeAccountID string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	ctx, cancel := withBackendTimeout(ctx)
	defer cancel()

	query := s.db.WithContext(ctx).Model(&models.Account{}).
		Where(fmt.Sprintf("%s = ?", column), value).
		Where("deleted_at IS NULL")
	if excludeAccountID != "" {
		query = query.Where("account_id <> ?", excludeAccountID)
	}

	var account models.Account
	err := query.Select("account_id").Limit(1).First(&account).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Warning: %s existence probe failed, treating as not found: %v", column, err)
		}
		return false
	}
	return true
}

// GetAccountByEmailAndRole returns the account registered under the given
// email and role, or nil when none exists. An account under the same email
// but a different role is not a conflict.
func (s *AccountService) GetAccountByEmailAndRole(ctx context.Context, email, role string) (*models.Account, error) {
	ctx, cancel := withBackendTimeout(ctx)
	defer cancel()

	var account models.Account
	err := s.db.WithContext(ctx).
		Where("email = ? AND role = ? AND deleted_at IS NULL", strings.TrimSpace(email), role).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up account by email and role: %w", err)
	}
	return &account, nil
}

// GetAccountByID loads one account through the cache. Mutating paths must
// not use this; they read the store directly.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*models.Account, error) {
	key := "account:id:" + accountID
	value, err := s.cache.WithCache(key, AccountCacheTTL, func() (interface{}, error) {
		ctx, cancel := withBackendTimeout(ctx)
		defer cancel()

		var account models.Account
		err := s.db.WithContext(ctx).
			Where("account_id = ? AND deleted_at IS NULL", accountID).
			First(&account).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("account %s: %w", accountID, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
		}
		return &account, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.Account), nil
}

// InvalidateAccountCache drops every cached account entry. Called after any
// account mutation.
func (s *AccountService) InvalidateAccountCache() {
	if err := s.cache.InvalidatePattern("^account:"); err != nil {
		log.Printf("Warning: account cache invalidation failed: %v", err)
	}
}
