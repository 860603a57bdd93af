package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a monthly spending limit for one category.
// Month is always the first day of the month; at most one budget row
// exists per (user, category, month). Category and month are immutable
// once created; only LimitAmount is ever edited.
type Budget struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category_month" json:"user_id"`
	CategoryID  string          `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category_month" json:"category_id"`
	LimitAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"limit_amount"`
	Month       time.Time       `gorm:"type:date;not null;uniqueIndex:idx_budgets_user_category_month" json:"month"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
