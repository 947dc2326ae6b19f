package services

import (
	"fmt"
	"log"

	"voice-corpus-api/config"
	"voice-corpus-api/models"
)

// NotifyDecisionByMail emails the recording author about a review outcome.
// Intended as the ReviewService notifier; delivery failures are logged and
// never influence the commit.
func NotifyDecisionByMail(recording *models.Recording, review *models.Review) {
	if recording == nil || review == nil || recording.Author == nil {
		return
	}

	subject := "Your recording was reviewed"
	body := fmt.Sprintf("<p>Your recording of %q was <strong>%s</strong>.</p>",
		recording.Transcript, review.Decision)
	if err := config.SendMail([]string{recording.Author.Email}, subject, body); err != nil {
		log.Printf("Warning: decision mail for recording %s failed: %v", recording.RecordingID, err)
	}
}

// NotifyAccountApproved emails a reviewer whose account an admin approved.
func NotifyAccountApproved(account *models.Account) {
	if account == nil {
		return
	}

	subject := "Your reviewer account was approved"
	body := "<p>Your reviewer account is now active. You can sign in and start reviewing recordings.</p>"
	if err := config.SendMail([]string{account.Email}, subject, body); err != nil {
		log.Printf("Warning: approval mail for account %s failed: %v", account.AccountID, err)
	}
}
