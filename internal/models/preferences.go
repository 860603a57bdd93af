package models

// Preferences holds per-user settings. AutoAdjustParentBudgets controls
// whether editing a child budget automatically adjusts its parent's
// limit; it defaults to true for new users.
type Preferences struct {
	Base
	UserID                  string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	AutoAdjustParentBudgets bool   `gorm:"default:true" json:"auto_adjust_parent_budgets"`
}
