package models

import (
	"time"
)

// Ramp transaction directions
const (
	RampTypeOnRamp  = "on_ramp"  // fiat -> crypto
	RampTypeOffRamp = "off_ramp" // crypto -> fiat
)

// Ramp transaction lifecycle. Created pending, moves to processing when
// execution begins; completed and failed are terminal.
const (
	RampStatusPending    = "pending"
	RampStatusProcessing = "processing"
	RampStatusCompleted  = "completed"
	RampStatusFailed     = "failed"
)

// RampTransaction is a fiat<->crypto ramp order. The fee fields are computed
// once at creation and never change afterwards.
type RampTransaction struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	UserID           uint    `gorm:"not null;index" json:"user_id"`
	Type             string  `gorm:"not null" json:"type"`
	Status           string  `gorm:"not null;default:'pending'" json:"status"`
	PaymentMethod    string  `gorm:"not null" json:"payment_method"`
	FiatCurrency     string  `gorm:"not null" json:"fiat_currency"`
	FiatAmount       float64 `gorm:"not null" json:"fiat_amount"`
	CryptoToken      string  `gorm:"not null" json:"crypto_token"`
	Chain            string  `gorm:"not null;default:'arbitrum'" json:"chain"`
	CryptoAmount     float64 `json:"crypto_amount"`
	FeePercentage    float64 `json:"fee_percentage"`
	FeeAmount        float64 `json:"fee_amount"`
	TotalAmount      float64 `json:"total_amount"`
	PaymentReference string  `gorm:"uniqueIndex" json:"payment_reference"`
	FailureReason    string  `json:"failure_reason,omitempty"`
	// ProcessingTime is minutes between processing start and completion,
	// set only on completion.
	ProcessingTime      float64    `json:"processing_time,omitempty"`
	ProcessingStartedAt *time.Time `json:"processing_started_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Terminal reports whether the transaction reached a final state.
func (t *RampTransaction) Terminal() bool {
	return t.Status == RampStatusCompleted || t.Status == RampStatusFailed
}

// ValidRampType reports whether t is a known ramp direction.
func ValidRampType(t string) bool {
	return t == RampTypeOnRamp || t == RampTypeOffRamp
}
