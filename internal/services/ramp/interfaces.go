package ramp

import (
	"context"
	"time"

	"nexuspay/internal/models"
	"nexuspay/internal/repositories"
	"nexuspay/internal/services/fees"
)

// Service is the ramp transaction application service.
type Service interface {
	CreateTransaction(ctx context.Context, userID uint, req CreateTransactionRequest) (*models.RampTransaction, error)
	GetTransactions(ctx context.Context, userID uint, filter repositories.RampFilter) ([]models.RampTransaction, error)
	GetStats(ctx context.Context, userID uint) (*repositories.RampStats, error)
	CalculateSavings(amount float64, currentTier, nextTier fees.Tier) fees.Savings

	MarkProcessing(ctx context.Context, id uint) (*models.RampTransaction, error)
	CompleteTransaction(ctx context.Context, id uint) (*models.RampTransaction, error)
	FailTransaction(ctx context.Context, id uint, reason string) (*models.RampTransaction, error)
}

// CardVerifier checks that a user has a usable linked card before a card
// on-ramp is accepted.
type CardVerifier interface {
	ValidateActiveCard(ctx context.Context, userID uint) error
}

// StatsCache caches per-user stats aggregates.
type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	RampStatsKey(userID uint) string
}
