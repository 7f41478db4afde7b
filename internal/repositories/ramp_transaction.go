package repositories

import (
	"context"
	"errors"

	"nexuspay/internal/models"
)

var ErrRampTransactionNotFound = errors.New("ramp transaction not found")

// RampFilter narrows a ramp transaction listing. Empty fields match all.
type RampFilter struct {
	Type   string
	Status string
}

// RampStats is the per-user aggregate returned by GetStats.
type RampStats struct {
	Count             int64   `json:"count"`
	TotalVolume       float64 `json:"total_volume"`
	TotalFees         float64 `json:"total_fees"`
	AvgProcessingTime float64 `json:"avg_processing_time"` // minutes, completed only
}

// RampTransactionRepository defines the interface for ramp transaction
// persistence.
type RampTransactionRepository interface {
	// Create persists a new ramp transaction
	Create(ctx context.Context, tx *models.RampTransaction) error

	// GetByID retrieves a transaction by its primary key
	GetByID(ctx context.Context, id uint) (*models.RampTransaction, error)

	// GetByReference retrieves a transaction by its payment reference
	GetByReference(ctx context.Context, reference string) (*models.RampTransaction, error)

	// GetForUser lists a user's transactions newest-first, optionally filtered
	GetForUser(ctx context.Context, userID uint, filter RampFilter) ([]models.RampTransaction, error)

	// Update persists changes to an existing transaction
	Update(ctx context.Context, tx *models.RampTransaction) error

	// GetStats aggregates volume, fees and processing time for a user
	GetStats(ctx context.Context, userID uint) (*RampStats, error)
}
