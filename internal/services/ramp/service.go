// Package ramp implements fiat<->crypto ramp transactions: creation with
// fee calculation, lifecycle transitions, listing and per-user stats.
package ramp

import (
	"context"
	"fmt"
	"time"

	"nexuspay/internal/models"
	"nexuspay/internal/repositories"
	"nexuspay/internal/services/fees"
	"nexuspay/internal/utils"

	"go.uber.org/zap"
)

type service struct {
	repo     repositories.RampTransactionRepository
	userRepo repositories.UserRepository
	cards    CardVerifier
	calc     *fees.Calculator
	cache    StatsCache
	logger   *zap.Logger

	// Injectable for deterministic payment references in tests.
	now       func() time.Time
	refSuffix func() (string, error)
}

// Option customizes a ramp service.
type Option func(*service)

// WithClock replaces the clock used for payment references and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithReferenceSuffix replaces the random suffix generator.
func WithReferenceSuffix(gen func() (string, error)) Option {
	return func(s *service) { s.refSuffix = gen }
}

// NewService creates a new ramp service. cards and cache may be nil, in
// which case card verification and stats caching are skipped.
func NewService(
	repo repositories.RampTransactionRepository,
	userRepo repositories.UserRepository,
	cards CardVerifier,
	calc *fees.Calculator,
	cache StatsCache,
	logger *zap.Logger,
	opts ...Option,
) Service {
	if repo == nil {
		panic("ramp transaction repository is required")
	}
	if userRepo == nil {
		panic("user repository is required")
	}
	if calc == nil {
		calc = fees.NewCalculator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &service{
		repo:      repo,
		userRepo:  userRepo,
		cards:     cards,
		calc:      calc,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
		refSuffix: func() (string, error) { return utils.GenerateUniqueID(3) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateTransaction(ctx context.Context, userID uint, req CreateTransactionRequest) (*models.RampTransaction, error) {
	if req.Type == "" || req.PaymentMethod == "" || req.FiatCurrency == "" || req.CryptoToken == "" {
		return nil, ErrMissingFields
	}
	if !models.ValidRampType(req.Type) {
		return nil, ErrInvalidType
	}
	method := fees.PaymentMethod(req.PaymentMethod)
	if !fees.ValidPaymentMethod(method) {
		return nil, ErrInvalidPaymentMethod
	}
	if req.FiatAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	chain, err := s.resolveChain(req.Chain, req.CryptoToken)
	if err != nil {
		return nil, err
	}

	if method == fees.MethodCard && s.cards != nil {
		if err := s.cards.ValidateActiveCard(ctx, userID); err != nil {
			return nil, ErrNoLinkedCard
		}
	}

	calculated := s.calc.Calculate(req.FiatAmount, method, fees.Tier(user.LoyaltyTier))

	reference, err := s.paymentReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment reference: %w", err)
	}

	tx := &models.RampTransaction{
		UserID:        userID,
		Type:          req.Type,
		Status:        models.RampStatusPending,
		PaymentMethod: req.PaymentMethod,
		FiatCurrency:  req.FiatCurrency,
		FiatAmount:    req.FiatAmount,
		CryptoToken:   req.CryptoToken,
		Chain:         chain,
		// Placeholder until a price feed is wired in; not a 1:1 conversion
		// guarantee.
		CryptoAmount:     req.FiatAmount,
		FeePercentage:    calculated.Percentage,
		FeeAmount:        calculated.Amount,
		TotalAmount:      calculated.Total,
		PaymentReference: reference,
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, userID)
	s.logger.Info("ramp transaction created",
		zap.Uint("user_id", userID),
		zap.String("reference", tx.PaymentReference),
		zap.String("type", tx.Type),
		zap.String("chain", tx.Chain),
		zap.Float64("fiat_amount", tx.FiatAmount),
		zap.Float64("fee_amount", tx.FeeAmount))

	return tx, nil
}

// resolveChain validates token support. When the requested (or default)
// chain lacks the token, the fallback order is searched and the discovered
// chain is the one persisted on the transaction.
func (s *service) resolveChain(requested, token string) (string, error) {
	chain := requested
	if chain == "" {
		chain = models.DefaultChain
	}
	if models.ChainSupportsToken(chain, token) {
		return chain, nil
	}

	fallback, ok := models.FindChainForToken(token)
	if !ok {
		return "", ErrTokenNotSupported
	}
	s.logger.Info("token not on requested chain, using fallback",
		zap.String("token", token),
		zap.String("requested_chain", chain),
		zap.String("fallback_chain", fallback))
	return fallback, nil
}

func (s *service) GetTransactions(ctx context.Context, userID uint, filter repositories.RampFilter) ([]models.RampTransaction, error) {
	return s.repo.GetForUser(ctx, userID, filter)
}

func (s *service) GetStats(ctx context.Context, userID uint) (*repositories.RampStats, error) {
	if s.cache != nil {
		var cached repositories.RampStats
		if found, err := s.cache.Get(ctx, s.cache.RampStatsKey(userID), &cached); err == nil && found {
			return &cached, nil
		}
	}

	stats, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, s.cache.RampStatsKey(userID), stats, statsCacheTTL); err != nil {
			s.logger.Warn("failed to cache ramp stats", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return stats, nil
}

func (s *service) CalculateSavings(amount float64, currentTier, nextTier fees.Tier) fees.Savings {
	return s.calc.ProjectSavings(amount, currentTier, nextTier)
}

func (s *service) MarkProcessing(ctx context.Context, id uint) (*models.RampTransaction, error) {
	tx, err := s.getForTransition(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status != models.RampStatusPending {
		return nil, ErrInvalidTransition
	}

	started := s.now()
	tx.Status = models.RampStatusProcessing
	tx.ProcessingStartedAt = &started
	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, tx.UserID)
	return tx, nil
}

func (s *service) CompleteTransaction(ctx context.Context, id uint) (*models.RampTransaction, error) {
	tx, err := s.getForTransition(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status != models.RampStatusProcessing {
		return nil, ErrInvalidTransition
	}

	completed := s.now()
	tx.Status = models.RampStatusCompleted
	tx.CompletedAt = &completed
	if tx.ProcessingStartedAt != nil {
		tx.ProcessingTime = completed.Sub(*tx.ProcessingStartedAt).Minutes()
	}
	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, tx.UserID)
	return tx, nil
}

func (s *service) FailTransaction(ctx context.Context, id uint, reason string) (*models.RampTransaction, error) {
	tx, err := s.getForTransition(ctx, id)
	if err != nil {
		return nil, err
	}

	tx.Status = models.RampStatusFailed
	tx.FailureReason = reason
	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, tx.UserID)
	return tx, nil
}

// getForTransition loads a transaction and rejects terminal states, which
// never transition again.
func (s *service) getForTransition(ctx context.Context, id uint) (*models.RampTransaction, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repositories.ErrRampTransactionNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if tx.Terminal() {
		return nil, ErrTerminalStatus
	}
	return tx, nil
}

func (s *service) paymentReference() (string, error) {
	suffix, err := s.refSuffix()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", referencePrefix, s.now().Format(referenceTimeFmt), suffix), nil
}

func (s *service) invalidateStats(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cache.RampStatsKey(userID)); err != nil {
		s.logger.Warn("failed to invalidate ramp stats cache",
			zap.Uint("user_id", userID), zap.Error(err))
	}
}
