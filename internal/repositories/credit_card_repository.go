package repositories

import (
	"errors"

	"nexuspay/internal/models"

	"gorm.io/gorm"
)

var ErrCardNotFound = errors.New("card not found")

// CreditCardRepository defines the interface for card persistence.
type CreditCardRepository interface {
	Create(card *models.CreditCard) error
	GetByID(id uint) (*models.CreditCard, error)
	GetByUserID(userID uint) ([]models.CreditCard, error)
	Delete(id uint) error
}

type creditCardRepository struct {
	db *gorm.DB
}

// NewCreditCardRepository creates a new instance of CreditCardRepository
func NewCreditCardRepository(db *gorm.DB) CreditCardRepository {
	return &creditCardRepository{db: db}
}

func (r *creditCardRepository) Create(card *models.CreditCard) error {
	return r.db.Create(card).Error
}

func (r *creditCardRepository) GetByID(id uint) (*models.CreditCard, error) {
	var card models.CreditCard
	if err := r.db.First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *creditCardRepository) GetByUserID(userID uint) ([]models.CreditCard, error) {
	var cards []models.CreditCard
	err := r.db.Where("user_id = ?", userID).Find(&cards).Error
	return cards, err
}

func (r *creditCardRepository) Delete(id uint) error {
	return r.db.Delete(&models.CreditCard{}, id).Error
}
