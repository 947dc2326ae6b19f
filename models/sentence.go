package models

import "time"

// Sentence is a prompt text contributors record against.
type Sentence struct {
	SentenceID string    `gorm:"primaryKey;column:sentence_id" json:"sentence_id"`
	Text       string    `gorm:"column:text" json:"text"`
	Language   string    `gorm:"column:language;index" json:"language"`
	IsActive   bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Sentence) TableName() string {
	return "sentences"
}
