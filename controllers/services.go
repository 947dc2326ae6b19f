package controllers

import (
	"voice-corpus-api/config"
	"voice-corpus-api/services"
)

var (
	queryCache      *services.QueryCache
	accountService  *services.AccountService
	queueService    *services.ReviewQueueService
	reviewService   *services.ReviewService
	auditService    *services.ReviewAuditService
	sentenceService *services.SentenceService
)

// InitServices wires the shared cache and service instances. Must run after
// config.InitDB.
func InitServices() {
	queryCache = services.NewQueryCache()
	accountService = services.NewAccountService(config.DB, queryCache)
	queueService = services.NewReviewQueueService(config.DB, queryCache)
	reviewService = services.NewReviewService(config.DB, queryCache)
	reviewService.SetNotifier(services.NotifyDecisionByMail)
	auditService = services.NewReviewAuditService(config.DB)
	sentenceService = services.NewSentenceService(config.DB, queryCache)
}
