package models

import (
	"strings"
	"time"
)

// Account roles. One person may hold one account per role under the same
// email, so email alone never identifies an account row.
const (
	RoleContributor = "contributor"
	RoleReviewer    = "reviewer"
	RoleAdmin       = "admin"
)

// Account statuses. Reviewer accounts start pending until an admin approves.
const (
	AccountStatusActive   = "active"
	AccountStatusPending  = "pending"
	AccountStatusRejected = "rejected"
)

type Account struct {
	AccountID        string     `gorm:"primaryKey;column:account_id" json:"account_id"`
	FirstName        string     `gorm:"column:first_name" json:"first_name"`
	LastName         string     `gorm:"column:last_name" json:"last_name"`
	Email            string     `gorm:"column:email;index" json:"email"`
	Password         string     `gorm:"column:password" json:"-"`
	Role             string     `gorm:"column:role" json:"role"`
	Status           string     `gorm:"column:status" json:"status"`
	ProfileCompleted bool       `gorm:"column:profile_completed" json:"profile_completed"`
	NationalID       *string    `gorm:"column:national_id" json:"national_id,omitempty"`
	Phone            *string    `gorm:"column:phone" json:"phone,omitempty"`
	Languages        string     `gorm:"column:languages" json:"languages"`
	IsActive         bool       `gorm:"column:is_active" json:"is_active"`
	CreatedAt        time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt        *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
}

func (Account) TableName() string {
	return "accounts"
}

// LanguageList splits the comma separated languages column.
func (a *Account) LanguageList() []string {
	if strings.TrimSpace(a.Languages) == "" {
		return nil
	}
	parts := strings.Split(a.Languages, ",")
	languages := make([]string, 0, len(parts))
	for _, part := range parts {
		if lang := strings.TrimSpace(part); lang != "" {
			languages = append(languages, lang)
		}
	}
	return languages
}

// PreferredLanguage returns the first configured language, or "" when the
// account has none.
func (a *Account) PreferredLanguage() string {
	if languages := a.LanguageList(); len(languages) > 0 {
		return languages[0]
	}
	return ""
}
