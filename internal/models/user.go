package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null"`
	Phone        string `gorm:"uniqueIndex;not null"`
	Role         string `gorm:"default:'user'"`
	LoyaltyTier  string `gorm:"default:''"` // tier_1..tier_3, empty for no tier
	Status       string `gorm:"default:'active'"`
	BusinessName string `gorm:"default:''"` // set for business accounts
	LastLoginAt  time.Time
	TokenVersion int `gorm:"default:1"`
}
