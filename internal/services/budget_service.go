package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"centsible/internal/budgeting"
	apperrors "centsible/internal/errors"
	"centsible/internal/hierarchy"
	"centsible/internal/models"
)

// budgetService loads month snapshots, delegates the consistency rules to
// the budgeting package, and persists each workflow result inside a single
// transaction so a parent adjustment and its child write land together.
type budgetService struct {
	db          *gorm.DB
	preferences PreferenceServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, preferences PreferenceServicer) BudgetServicer {
	return &budgetService{db: db, preferences: preferences}
}

// CreateBudget sets a budget for a category and month, seeding or raising
// the parent budget per the consistency rules.
func (s *budgetService) CreateBudget(userID, categoryID string, limit decimal.Decimal, month time.Time) (*budgeting.Result, error) {
	categories, budgets, err := s.monthSnapshot(userID, month)
	if err != nil {
		return nil, err
	}

	autoAdjust, err := s.autoAdjustEnabled(userID)
	if err != nil {
		return nil, err
	}

	input := budgeting.CreateInput{CategoryID: categoryID, LimitAmount: limit, Month: month}
	result, err := budgeting.CreateBudget(input, categories, budgets, autoAdjust)
	if err != nil {
		return nil, err
	}

	if err := s.persist(userID, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetMonthBudgets returns all budgets of the user for the given month.
func (s *budgetService) GetMonthBudgets(userID string, month time.Time) ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.Preload("Category").
		Where("user_id = ? AND month = ?", userID, budgeting.MonthOf(month)).
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget changes a budget's limit, cascading to the parent budget
// per the auto-adjust rules. Category and month never change.
func (s *budgetService) UpdateBudget(userID, budgetID string, limit decimal.Decimal) (*budgeting.Result, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	categories, budgets, err := s.monthSnapshot(userID, budget.Month)
	if err != nil {
		return nil, err
	}

	autoAdjust, err := s.autoAdjustEnabled(userID)
	if err != nil {
		return nil, err
	}

	result, err := budgeting.UpdateBudget(budgetID, limit, categories, budgets, autoAdjust)
	if err != nil {
		return nil, err
	}

	if err := s.persist(userID, result); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteBudget removes a budget unconditionally. Deliberately no parent
// re-validation: deleting a child budget does not shrink its parent, even
// when the parent was exactly at the prior child sum.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetMonthOverview computes the hierarchy-ordered spending view of one
// month: every budget with its fresh status and category display data.
func (s *budgetService) GetMonthOverview(userID string, month time.Time) (*MonthOverview, error) {
	categories, budgets, err := s.monthSnapshot(userID, month)
	if err != nil {
		return nil, err
	}

	expenses, err := s.monthExpenses(userID, month)
	if err != nil {
		return nil, err
	}

	lookup := hierarchy.LookupMap(categories)
	byCategory := make(map[string]models.Budget, len(budgets))
	for _, b := range budgets {
		byCategory[b.CategoryID] = b
	}

	overview := &MonthOverview{Month: budgeting.MonthOf(month)}
	for _, cat := range hierarchy.Flatten(hierarchy.Build(categories)) {
		budget, ok := byCategory[cat.ID]
		if !ok {
			continue
		}
		overview.Items = append(overview.Items, MonthOverviewItem{
			Budget:   budget,
			Status:   budgeting.StatusFor(budget, categories, expenses),
			Category: lookup[cat.ID],
		})
	}

	return overview, nil
}

// CopyFromPreviousMonth copies every budget of the immediately preceding
// month into the given month with the same category and limit. No
// auto-adjustment is re-evaluated across the copied set.
func (s *budgetService) CopyFromPreviousMonth(userID string, month time.Time) ([]models.Budget, error) {
	target := budgeting.MonthOf(month)
	previousMonth := target.AddDate(0, -1, 0)

	previous, err := s.GetMonthBudgets(userID, previousMonth)
	if err != nil {
		return nil, err
	}

	categories, existing, err := s.monthSnapshot(userID, target)
	if err != nil {
		return nil, err
	}

	copies, err := budgeting.CopyBudgets(target, previous, existing, categories)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range copies {
			copies[i].UserID = userID
			if err := tx.Create(&copies[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return copies, nil
}

// monthSnapshot loads the engine's inputs: the user's category list and
// the budgets for the month.
func (s *budgetService) monthSnapshot(userID string, month time.Time) ([]models.Category, []models.Budget, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND month = ?", userID, budgeting.MonthOf(month)).Find(&budgets).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return categories, budgets, nil
}

// monthExpenses loads the user's expenses that fall inside the month.
func (s *budgetService) monthExpenses(userID string, month time.Time) ([]models.Expense, error) {
	start := budgeting.MonthOf(month)
	end := start.AddDate(0, 1, 0)

	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

func (s *budgetService) autoAdjustEnabled(userID string) (bool, error) {
	prefs, err := s.preferences.GetPreferences(userID)
	if err != nil {
		return false, err
	}
	return prefs.AutoAdjustParentBudgets, nil
}

// persist writes a workflow result atomically: the target budget insert or
// update, and the parent budget row when the engine produced one.
func (s *budgetService) persist(userID string, result *budgeting.Result) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if pb := result.ParentBudget; pb != nil {
			if result.ParentAdjustment != nil && result.ParentAdjustment.Reason == budgeting.AdjustmentSeeded {
				pb.UserID = userID
				if err := tx.Create(pb).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Model(&models.Budget{}).Where("id = ?", pb.ID).
					Update("limit_amount", pb.LimitAmount).Error; err != nil {
					return err
				}
			}
		}

		if result.Budget.ID == "" {
			result.Budget.UserID = userID
			return tx.Create(&result.Budget).Error
		}
		return tx.Model(&models.Budget{}).Where("id = ?", result.Budget.ID).
			Update("limit_amount", result.Budget.LimitAmount).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
