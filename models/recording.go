package models

import "time"

// Recording statuses. A recording is created pending and leaves that state
// exactly once, through the review commit path.
const (
	RecordingStatusPending  = "pending"
	RecordingStatusApproved = "approved"
	RecordingStatusRejected = "rejected"
)

type Recording struct {
	RecordingID        string     `gorm:"primaryKey;column:recording_id" json:"recording_id"`
	AccountID          string     `gorm:"column:account_id;index" json:"account_id"`
	SentenceID         string     `gorm:"column:sentence_id;index" json:"sentence_id"`
	Transcript         string     `gorm:"column:transcript" json:"transcript"`
	AudioPath          string     `gorm:"column:audio_path" json:"audio_path"`
	DurationSeconds    float64    `gorm:"column:duration_seconds" json:"duration_seconds"`
	Language           string     `gorm:"column:language;index" json:"language"`
	Status             string     `gorm:"column:status;index" json:"status"`
	ReviewedBy         *string    `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	TranscriptEdited   bool       `gorm:"column:transcript_edited" json:"transcript_edited"`
	TranscriptEditedBy *string    `gorm:"column:transcript_edited_by" json:"transcript_edited_by,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updated_at"`

	Author *Account `gorm:"foreignKey:AccountID;references:AccountID" json:"author,omitempty"`
}

func (Recording) TableName() string {
	return "recordings"
}
