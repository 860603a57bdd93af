// Package budgeting implements the rollup and parent/child consistency
// rules for monthly category budgets. Everything here is pure computation
// over snapshots the caller has already loaded: the category list, the
// target month's budgets, and the month's expenses. Persistence, logging,
// and atomicity belong to the service layer.
package budgeting

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"centsible/internal/hierarchy"
	"centsible/internal/models"
)

// MonthOf normalizes a time to the first day of its month in UTC, which is
// how budget months are stored and compared.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// SpendingFor sums the expense amounts recorded directly against the
// category. When includeChildren is set and the category is a parent, the
// children's own spending is added as well. Callers pass includeChildren
// based on IsParent: parent budgets always roll up child spending, child
// budgets never roll up anything.
func SpendingFor(categoryID string, expenses []models.Expense, includeChildren bool, categories []models.Category) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.CategoryID == categoryID {
			total = total.Add(e.Amount)
		}
	}

	if includeChildren {
		for _, child := range hierarchy.ChildrenOf(categories, categoryID) {
			total = total.Add(SpendingFor(child.ID, expenses, false, categories))
		}
	}

	return total
}

// BudgetStatus is the derived spending view of one budget. It is computed
// fresh on every read and never persisted.
type BudgetStatus struct {
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Percentage   float64         `json:"percentage"`
	IsOverBudget bool            `json:"is_over_budget"`
}

// StatusFor computes the spending status of a budget for its month, rolling
// up child spending when the budget's category is a parent.
func StatusFor(budget models.Budget, categories []models.Category, expenses []models.Expense) BudgetStatus {
	includeChildren := false
	if cat, ok := hierarchy.FindByID(categories, budget.CategoryID); ok {
		includeChildren = cat.IsParent()
	}

	spent := SpendingFor(budget.CategoryID, expenses, includeChildren, categories)
	return BudgetStatus{
		Spent:        spent,
		Remaining:    budget.LimitAmount.Sub(spent),
		Percentage:   Percentage(spent, budget.LimitAmount),
		IsOverBudget: spent.GreaterThan(budget.LimitAmount),
	}
}

// Percentage returns spent/limit*100 capped at 100. A zero limit yields 0;
// limits are constrained positive at creation, so that branch is a guard
// against division errors, not a normal path.
func Percentage(spent, limit decimal.Decimal) float64 {
	if limit.IsZero() {
		return 0
	}
	pct, _ := spent.Div(limit).Mul(decimal.NewFromInt(100)).Float64()
	return math.Min(pct, 100)
}

// ChildBudgetSum sums the limits of all budgets whose category is a child
// of parentCategoryID. excludeBudgetID, when non-empty, leaves one budget
// out of the sum; edits use this to compute "the sum as if this budget
// weren't counted yet".
func ChildBudgetSum(budgets []models.Budget, parentCategoryID string, categories []models.Category, excludeBudgetID string) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range budgets {
		if excludeBudgetID != "" && b.ID == excludeBudgetID {
			continue
		}
		cat, ok := hierarchy.FindByID(categories, b.CategoryID)
		if !ok || cat.ParentID == nil || *cat.ParentID != parentCategoryID {
			continue
		}
		sum = sum.Add(b.LimitAmount)
	}
	return sum
}

// ShouldAutoIncrease reports whether a parent limit must be raised to cover
// its children. Strictly greater: equality is not an increase trigger.
func ShouldAutoIncrease(childSum, parentLimit decimal.Decimal) bool {
	return childSum.GreaterThan(parentLimit)
}

// ShouldAutoDecrease reports whether a parent limit should follow a child
// reduction downward. The parent is only lowered when it was in lock-step
// with the exact prior child sum; any manual padding above the children's
// total is never silently shrunk.
func ShouldAutoDecrease(oldChildSum, newChildSum, parentLimit decimal.Decimal) bool {
	return oldChildSum.Equal(parentLimit) && newChildSum.LessThan(parentLimit)
}

// parentSeedFactor multiplies a child's limit to seed a placeholder parent
// budget when the parent has none for the month. A policy constant, not a
// computed ideal.
var parentSeedFactor = decimal.NewFromInt(2)

// SeedParentLimit returns the placeholder limit for a parent budget
// synthesized from its first budgeted child of the month.
func SeedParentLimit(childLimit decimal.Decimal) decimal.Decimal {
	return childLimit.Mul(parentSeedFactor)
}
