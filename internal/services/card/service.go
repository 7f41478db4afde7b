// Package card links payment cards to accounts. Card numbers are tokenized
// with the processor and only masked display data is stored.
package card

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"nexuspay/internal/models"
	"nexuspay/internal/repositories"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/token"
	"go.uber.org/zap"
)

var (
	ErrCardNotFound        = errors.New("card not found")
	ErrCardNotActive       = errors.New("card not active")
	ErrCardNotBelongToUser = errors.New("card does not belong to user")
	ErrNoActiveCard        = errors.New("no active card linked")
	ErrInvalidCard         = errors.New("invalid card details")
)

type Service interface {
	LinkCard(ctx context.Context, userID uint, input models.CreateCardInput) (*models.CreditCard, error)
	GetCards(ctx context.Context, userID uint) ([]models.CreditCard, error)
	DeleteCard(ctx context.Context, userID, cardID uint) error
	ValidateActiveCard(ctx context.Context, userID uint) error
}

type service struct {
	repo      repositories.CreditCardRepository
	stripeKey string
	logger    *zap.Logger
}

func NewService(repo repositories.CreditCardRepository, stripeKey string, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:      repo,
		stripeKey: stripeKey,
		logger:    logger,
	}
}

func (s *service) LinkCard(ctx context.Context, userID uint, input models.CreateCardInput) (*models.CreditCard, error) {
	tokenized, err := s.tokenize(input)
	if err != nil {
		return nil, err
	}

	card := &models.CreditCard{
		UserID:   userID,
		Token:    tokenized.Token,
		CardType: tokenized.CardType,
		LastFour: lastFour(input.CardNumber),
		Expiry:   tokenized.Expiry,
		Status:   "active",
	}
	if err := s.repo.Create(card); err != nil {
		return nil, fmt.Errorf("failed to store card: %w", err)
	}

	s.logger.Info("card linked",
		zap.Uint("user_id", userID),
		zap.String("card_type", card.CardType),
		zap.String("last_four", card.LastFour))
	return card, nil
}

func (s *service) GetCards(ctx context.Context, userID uint) ([]models.CreditCard, error) {
	return s.repo.GetByUserID(userID)
}

func (s *service) DeleteCard(ctx context.Context, userID, cardID uint) error {
	card, err := s.repo.GetByID(cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return ErrCardNotFound
		}
		return err
	}
	if card.UserID != userID {
		return ErrCardNotBelongToUser
	}
	return s.repo.Delete(cardID)
}

func (s *service) ValidateActiveCard(ctx context.Context, userID uint) error {
	cards, err := s.repo.GetByUserID(userID)
	if err != nil {
		return err
	}
	for _, c := range cards {
		if c.Status == "active" {
			return nil
		}
	}
	return ErrNoActiveCard
}

func (s *service) tokenize(input models.CreateCardInput) (*models.CardToken, error) {
	if !validCardNumber(input.CardNumber) {
		return nil, ErrInvalidCard
	}
	if err := validExpiry(input.ExpiryMonth, input.ExpiryYear); err != nil {
		return nil, err
	}

	stripe.Key = s.stripeKey
	params := &stripe.TokenParams{
		Card: &stripe.CardParams{
			Number:   stripe.String(input.CardNumber),
			ExpMonth: stripe.String(input.ExpiryMonth),
			ExpYear:  stripe.String(input.ExpiryYear),
			CVC:      stripe.String(input.CVV),
		},
	}
	stripeToken, err := token.New(params)
	if err != nil {
		return nil, fmt.Errorf("card tokenization failed: %w", err)
	}

	return &models.CardToken{
		Token:    stripeToken.ID,
		CardType: string(stripeToken.Card.Brand),
		Expiry:   fmt.Sprintf("%s/%s", input.ExpiryMonth, input.ExpiryYear),
	}, nil
}

// validCardNumber runs the Luhn check.
func validCardNumber(number string) bool {
	if len(number) < 12 || len(number) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func validExpiry(month, year string) error {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return ErrInvalidCard
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return ErrInvalidCard
	}
	if y < 100 {
		y += 2000
	}
	expiry := time.Date(y, time.Month(m)+1, 1, 0, 0, 0, 0, time.UTC)
	if time.Now().After(expiry) {
		return ErrInvalidCard
	}
	return nil
}

func lastFour(number string) string {
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}
