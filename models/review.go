package models

import "time"

// Review decisions.
const (
	ReviewDecisionApproved = "approved"
	ReviewDecisionRejected = "rejected"
)

// Review is an immutable decision record. The system-wide invariant is at
// most one row per recording_id; the committer enforces it at write time and
// the audit tooling repairs stores where it has been violated anyway.
type Review struct {
	ReviewID         string    `gorm:"primaryKey;column:review_id" json:"review_id"`
	RecordingID      string    `gorm:"column:recording_id;index" json:"recording_id"`
	ReviewerID       string    `gorm:"column:reviewer_id;index" json:"reviewer_id"`
	Decision         string    `gorm:"column:decision" json:"decision"`
	Notes            *string   `gorm:"column:notes" json:"notes,omitempty"`
	Confidence       int       `gorm:"column:confidence" json:"confidence"`
	TimeSpentSeconds int       `gorm:"column:time_spent_seconds" json:"time_spent_seconds"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`

	Reviewer *Account `gorm:"foreignKey:ReviewerID;references:AccountID" json:"reviewer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
