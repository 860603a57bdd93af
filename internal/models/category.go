package models

// Category represents an expense category. Categories form a two-level
// forest: a category with a nil ParentID is a parent, and one with a
// non-nil ParentID is a child of exactly one parent. A child's ParentID
// never references another child; the category service enforces this
// before rows are written, so traversal code may assume two levels.
type Category struct {
	Base
	UserID    string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string  `gorm:"not null" json:"name"`
	Color     string  `gorm:"not null" json:"color"`
	SortOrder int     `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool    `gorm:"default:true" json:"is_active"`
	ParentID  *string `gorm:"type:uuid;index" json:"parent_id,omitempty"`

	// Relationships
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Expenses []Expense  `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
	Budgets  []Budget   `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}

// IsParent reports whether the category is a top-level parent.
func (c Category) IsParent() bool { return c.ParentID == nil }

// IsChild reports whether the category belongs to a parent.
func (c Category) IsChild() bool { return c.ParentID != nil }
