package budgeting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "centsible/internal/errors"
	"centsible/internal/hierarchy"
	"centsible/internal/models"
)

// AdjustmentReason explains why a parent budget was touched alongside a
// child mutation.
type AdjustmentReason string

const (
	AdjustmentIncreased AdjustmentReason = "increased"
	AdjustmentDecreased AdjustmentReason = "decreased"
	AdjustmentSeeded    AdjustmentReason = "created"
)

// ParentAdjustment describes the parent budget mutation that accompanies a
// child create or edit, for user notification.
type ParentAdjustment struct {
	CategoryID string           `json:"category_id"`
	OldAmount  decimal.Decimal  `json:"old_amount"`
	NewAmount  decimal.Decimal  `json:"new_amount"`
	Reason     AdjustmentReason `json:"reason"`
}

// CreateInput is a pending create-budget request.
type CreateInput struct {
	CategoryID  string
	LimitAmount decimal.Decimal
	Month       time.Time
}

// Result is the outcome of a successful create or update workflow. Budget
// is the row to insert or update; ParentBudget, when set, is a second row
// the caller must persist in the same transaction (a new row when the
// adjustment reason is "created", otherwise an update of the existing
// parent budget). The pair is logically atomic: persisting one without the
// other leaves the hierarchy inconsistent.
type Result struct {
	Budget           models.Budget     `json:"budget"`
	ParentBudget     *models.Budget    `json:"parent_budget,omitempty"`
	ParentAdjustment *ParentAdjustment `json:"parent_adjustment,omitempty"`
}

// CreateBudget validates and transforms a pending budget creation against
// the month's snapshot. budgets must be the existing budgets of the target
// month; autoAdjust is the user's auto_adjust_parent_budgets preference.
func CreateBudget(input CreateInput, categories []models.Category, budgets []models.Budget, autoAdjust bool) (*Result, error) {
	if !input.LimitAmount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	cat, ok := hierarchy.FindByID(categories, input.CategoryID)
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}

	month := MonthOf(input.Month)
	if existing := budgetForCategory(budgets, input.CategoryID, month); existing != nil {
		return nil, duplicateBudgetError(cat.Name, month)
	}

	res := &Result{Budget: models.Budget{
		CategoryID:  input.CategoryID,
		LimitAmount: input.LimitAmount,
		Month:       month,
	}}

	if cat.IsChild() {
		parentID := *cat.ParentID
		parentBudget := budgetForCategory(budgets, parentID, month)

		switch {
		case parentBudget == nil:
			// First budgeted child of the month: seed a placeholder parent
			// budget so the hierarchy is immediately navigable.
			seed := SeedParentLimit(input.LimitAmount)
			res.ParentBudget = &models.Budget{
				CategoryID:  parentID,
				LimitAmount: seed,
				Month:       month,
			}
			res.ParentAdjustment = &ParentAdjustment{
				CategoryID: parentID,
				OldAmount:  decimal.Zero,
				NewAmount:  seed,
				Reason:     AdjustmentSeeded,
			}

		case autoAdjust:
			childSum := ChildBudgetSum(budgets, parentID, categories, "").Add(input.LimitAmount)
			if ShouldAutoIncrease(childSum, parentBudget.LimitAmount) {
				adjusted := *parentBudget
				adjusted.LimitAmount = childSum
				res.ParentBudget = &adjusted
				res.ParentAdjustment = &ParentAdjustment{
					CategoryID: parentID,
					OldAmount:  parentBudget.LimitAmount,
					NewAmount:  childSum,
					Reason:     AdjustmentIncreased,
				}
			}
		}
	}

	return res, nil
}

// UpdateBudget validates and transforms a limit edit against the month's
// snapshot. Category and month are immutable; only the limit changes.
// Editing a parent below its current child sum is rejected outright.
func UpdateBudget(budgetID string, newLimit decimal.Decimal, categories []models.Category, budgets []models.Budget, autoAdjust bool) (*Result, error) {
	if !newLimit.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	target := budgetByID(budgets, budgetID)
	if target == nil {
		return nil, apperrors.ErrBudgetNotFound
	}

	cat, ok := hierarchy.FindByID(categories, target.CategoryID)
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}

	updated := *target
	updated.LimitAmount = newLimit
	res := &Result{Budget: updated}

	if cat.IsParent() {
		childSum := ChildBudgetSum(budgets, cat.ID, categories, "")
		if newLimit.LessThan(childSum) {
			return nil, apperrors.WithMessage(apperrors.ErrParentBelowChildren,
				fmt.Sprintf("Child budgets for %s total %s; the parent limit must be at least that amount", cat.Name, childSum.StringFixed(2)))
		}
		return res, nil
	}

	if !autoAdjust {
		return res, nil
	}

	month := MonthOf(target.Month)
	parentBudget := budgetForCategory(budgets, *cat.ParentID, month)
	if parentBudget == nil {
		return res, nil
	}

	siblingSum := ChildBudgetSum(budgets, *cat.ParentID, categories, target.ID)
	newChildSum := siblingSum.Add(newLimit)
	oldChildSum := siblingSum.Add(target.LimitAmount)

	switch {
	case ShouldAutoIncrease(newChildSum, parentBudget.LimitAmount):
		adjusted := *parentBudget
		adjusted.LimitAmount = newChildSum
		res.ParentBudget = &adjusted
		res.ParentAdjustment = &ParentAdjustment{
			CategoryID: parentBudget.CategoryID,
			OldAmount:  parentBudget.LimitAmount,
			NewAmount:  newChildSum,
			Reason:     AdjustmentIncreased,
		}

	case ShouldAutoDecrease(oldChildSum, newChildSum, parentBudget.LimitAmount):
		adjusted := *parentBudget
		adjusted.LimitAmount = newChildSum
		res.ParentBudget = &adjusted
		res.ParentAdjustment = &ParentAdjustment{
			CategoryID: parentBudget.CategoryID,
			OldAmount:  parentBudget.LimitAmount,
			NewAmount:  newChildSum,
			Reason:     AdjustmentDecreased,
		}
	}

	return res, nil
}

// CopyBudgets prepares the rows that copy the previous month's budgets
// into targetMonth with the same category and limit. No auto-adjustment is
// re-evaluated across the copied set. A category already budgeted in the
// target month fails the whole copy rather than being silently skipped.
func CopyBudgets(targetMonth time.Time, previous, existing []models.Budget, categories []models.Category) ([]models.Budget, error) {
	if len(previous) == 0 {
		return nil, apperrors.ErrNoBudgetsToCopy
	}

	month := MonthOf(targetMonth)
	copies := make([]models.Budget, 0, len(previous))
	for _, prev := range previous {
		if budgetForCategory(existing, prev.CategoryID, month) != nil {
			name := prev.CategoryID
			if cat, ok := hierarchy.FindByID(categories, prev.CategoryID); ok {
				name = cat.Name
			}
			return nil, duplicateBudgetError(name, month)
		}
		copies = append(copies, models.Budget{
			CategoryID:  prev.CategoryID,
			LimitAmount: prev.LimitAmount,
			Month:       month,
		})
	}
	return copies, nil
}

func duplicateBudgetError(categoryName string, month time.Time) error {
	return apperrors.WithMessage(apperrors.ErrDuplicateBudget,
		fmt.Sprintf("A budget for %s already exists for %s. Edit or delete the existing one instead", categoryName, month.Format("January 2006")))
}

func budgetByID(budgets []models.Budget, id string) *models.Budget {
	for i := range budgets {
		if budgets[i].ID == id {
			return &budgets[i]
		}
	}
	return nil
}

func budgetForCategory(budgets []models.Budget, categoryID string, month time.Time) *models.Budget {
	for i := range budgets {
		if budgets[i].CategoryID == categoryID && MonthOf(budgets[i].Month).Equal(month) {
			return &budgets[i]
		}
	}
	return nil
}
