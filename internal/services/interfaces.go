package services

import (
	"time"

	"github.com/shopspring/decimal"

	"centsible/internal/budgeting"
	"centsible/internal/hierarchy"
	"centsible/internal/models"
	"centsible/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountServicer defines the contract for money-account business logic.
type AccountServicer interface {
	CreateAccount(userID, name string, accountType models.AccountType, color string) (*models.Account, error)
	GetUserAccounts(userID string) ([]models.Account, error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID, name, color string) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
	ReorderAccounts(userID string, orderedIDs []string) ([]models.Account, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, color string, parentID *string) (*models.Category, error)
	GetUserCategories(userID string) ([]models.Category, error)
	GetCategoryTree(userID string) ([]hierarchy.Node, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
	ReorderCategories(userID string, parentID *string, orderedIDs []string) ([]models.Category, error)
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Month      *time.Time
	CategoryID *string
	AccountID  *string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, accountID *string, categoryID string, amount decimal.Decimal, description string, date time.Time) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, amount *decimal.Decimal, description *string, date *time.Time, categoryID *string) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	ExportMonthCSV(userID string, month time.Time) ([]byte, error)
}

// MonthOverviewItem pairs one budget with its computed status and the
// display data of its category.
type MonthOverviewItem struct {
	Budget   models.Budget          `json:"budget"`
	Status   budgeting.BudgetStatus `json:"status"`
	Category hierarchy.LookupEntry  `json:"category"`
}

// MonthOverview is the hierarchy-ordered budget view of one month.
type MonthOverview struct {
	Month time.Time           `json:"month"`
	Items []MonthOverviewItem `json:"items"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID string, limit decimal.Decimal, month time.Time) (*budgeting.Result, error)
	GetMonthBudgets(userID string, month time.Time) ([]models.Budget, error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, limit decimal.Decimal) (*budgeting.Result, error)
	DeleteBudget(userID, budgetID string) error
	GetMonthOverview(userID string, month time.Time) (*MonthOverview, error)
	CopyFromPreviousMonth(userID string, month time.Time) ([]models.Budget, error)
}

// PreferenceServicer defines the contract for user preference logic.
type PreferenceServicer interface {
	GetPreferences(userID string) (*models.Preferences, error)
	UpdatePreferences(userID string, autoAdjustParentBudgets bool) (*models.Preferences, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
