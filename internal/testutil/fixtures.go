package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"centsible/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Month returns the canonical budget month value: midnight UTC on the
// first day of the given month.
func Month(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@%s", nextID(), gofakeit.DomainName())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an active cash account.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Type:     models.AccountTypeCash,
		Color:    gofakeit.HexColor(),
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestParentCategory creates a top-level category.
func CreateTestParentCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()
	return createTestCategory(t, db, userID, nil)
}

// CreateTestChildCategory creates a category under the given parent.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, userID, parentID string) *models.Category {
	t.Helper()
	return createTestCategory(t, db, userID, &parentID)
}

func createTestCategory(t *testing.T, db *gorm.DB, userID string, parentID *string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Color:    gofakeit.HexColor(),
		IsActive: true,
		ParentID: parentID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense records an expense of the given amount against a
// category, dated inside the given month.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID string, amount decimal.Decimal, month time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: gofakeit.ProductName(),
		Date:        time.Date(month.Year(), month.Month(), 15, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestBudget creates a budget with the given limit for a category
// and month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID string, limit decimal.Decimal, month time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:      userID,
		CategoryID:  categoryID,
		LimitAmount: limit,
		Month:       month,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestPreferences creates a preferences row with the given
// auto-adjust setting.
func CreateTestPreferences(t *testing.T, db *gorm.DB, userID string, autoAdjust bool) *models.Preferences {
	t.Helper()

	prefs := &models.Preferences{
		UserID:                  userID,
		AutoAdjustParentBudgets: autoAdjust,
	}
	if err := db.Create(prefs).Error; err != nil {
		t.Fatalf("failed to create test preferences: %v", err)
	}
	// The column default is true, so an explicit false must be written
	// in a second statement or the insert silently flips it.
	if !autoAdjust {
		if err := db.Model(prefs).Update("auto_adjust_parent_budgets", false).Error; err != nil {
			t.Fatalf("failed to disable auto-adjust on test preferences: %v", err)
		}
	}
	return prefs
}
