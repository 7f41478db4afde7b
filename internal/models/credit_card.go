package models

import "gorm.io/gorm"

// CreditCard stores a tokenized card. The raw number never touches the
// database; only the processor token and display fields are kept.
type CreditCard struct {
	gorm.Model
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Token    string `gorm:"not null" json:"-"`
	CardType string `json:"card_type"`
	LastFour string `json:"last_four"`
	Expiry   string `json:"expiry"` // MM/YY
	Status   string `gorm:"default:'active'" json:"status"`
}

// CreateCardInput is the raw card data submitted for tokenization.
type CreateCardInput struct {
	CardNumber  string `json:"card_number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CVV         string `json:"cvv"`
}

// CardToken is the result of tokenizing a card with the processor.
type CardToken struct {
	Token    string `json:"token"`
	CardType string `json:"card_type"`
	Expiry   string `json:"expiry"`
}
