package models

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeCash       AccountType = "cash"
)

// Account represents a money account expenses can be recorded against
type Account struct {
	Base
	UserID    string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string      `gorm:"not null" json:"name"`
	Type      AccountType `gorm:"not null" json:"type"`
	Color     string      `json:"color"`
	SortOrder int         `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool        `gorm:"default:true" json:"is_active"`

	// Relationships
	Expenses []Expense `gorm:"foreignKey:AccountID" json:"expenses,omitempty"`
}
