package repositories

import (
	"context"
	"errors"
	"fmt"

	"nexuspay/internal/models"

	"gorm.io/gorm"
)

type rampTransactionRepository struct {
	db *gorm.DB
}

// NewRampTransactionRepository creates a new instance of RampTransactionRepository
func NewRampTransactionRepository(db *gorm.DB) RampTransactionRepository {
	return &rampTransactionRepository{db: db}
}

func (r *rampTransactionRepository) Create(ctx context.Context, tx *models.RampTransaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create ramp transaction: %w", err)
	}
	return nil
}

func (r *rampTransactionRepository) GetByID(ctx context.Context, id uint) (*models.RampTransaction, error) {
	var tx models.RampTransaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRampTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *rampTransactionRepository) GetByReference(ctx context.Context, reference string) (*models.RampTransaction, error) {
	var tx models.RampTransaction
	if err := r.db.WithContext(ctx).Where("payment_reference = ?", reference).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRampTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *rampTransactionRepository) GetForUser(ctx context.Context, userID uint, filter RampFilter) ([]models.RampTransaction, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var txs []models.RampTransaction
	if err := query.Order("created_at DESC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list ramp transactions: %w", err)
	}
	return txs, nil
}

func (r *rampTransactionRepository) Update(ctx context.Context, tx *models.RampTransaction) error {
	if err := r.db.WithContext(ctx).Save(tx).Error; err != nil {
		return fmt.Errorf("failed to update ramp transaction: %w", err)
	}
	return nil
}

func (r *rampTransactionRepository) GetStats(ctx context.Context, userID uint) (*RampStats, error) {
	stats := &RampStats{}

	row := r.db.WithContext(ctx).
		Model(&models.RampTransaction{}).
		Select("COUNT(*), COALESCE(SUM(fiat_amount), 0), COALESCE(SUM(fee_amount), 0)").
		Where("user_id = ?", userID).
		Row()
	if err := row.Scan(&stats.Count, &stats.TotalVolume, &stats.TotalFees); err != nil {
		return nil, fmt.Errorf("failed to aggregate ramp stats: %w", err)
	}

	// Average processing time only makes sense over completed transactions.
	row = r.db.WithContext(ctx).
		Model(&models.RampTransaction{}).
		Select("COALESCE(AVG(processing_time), 0)").
		Where("user_id = ? AND status = ?", userID, models.RampStatusCompleted).
		Row()
	if err := row.Scan(&stats.AvgProcessingTime); err != nil {
		return nil, fmt.Errorf("failed to aggregate processing time: %w", err)
	}

	return stats, nil
}
