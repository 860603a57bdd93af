package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single recorded expense against a category
type Expense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   *string         `gorm:"type:uuid" json:"account_id,omitempty"`
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`

	// Relationships
	Account  *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
