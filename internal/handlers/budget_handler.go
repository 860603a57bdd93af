package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "centsible/internal/errors"
	"centsible/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	CategoryID  string          `json:"category_id" binding:"required,uuid"`
	LimitAmount decimal.Decimal `json:"limit_amount" binding:"required"`
	Month       string          `json:"month" binding:"required,budget_month"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	LimitAmount decimal.Decimal `json:"limit_amount" binding:"required"`
}

// CopyBudgetsRequest represents the request payload for copying budgets
// from the previous month.
type CopyBudgetsRequest struct {
	Month string `json:"month" binding:"required,budget_month"`
}

// CreateBudget handles the creation of a new monthly budget.
// @Summary     Create a budget
// @Description Create a monthly budget for a category. Creating a child budget may seed or raise the parent's budget; the response carries the adjustment when one occurred.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} budgeting.Result "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Budget already exists for this category and month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	month, err := parseMonth(req.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.budgetService.CreateBudget(userID, req.CategoryID, req.LimitAmount, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{
		"category_id":  req.CategoryID,
		"limit_amount": req.LimitAmount.String(),
		"month":        req.Month,
	}
	if result.ParentAdjustment != nil {
		changes["parent_adjustment"] = result.ParentAdjustment.Reason
	}
	h.auditService.Log(userID, "CREATE_BUDGET", "budget", result.Budget.ID, c.ClientIP(), changes)

	c.JSON(http.StatusCreated, result)
}

// GetBudgets handles listing budgets for a month.
// @Summary     Get budgets
// @Description Get the authenticated user's budgets for a month (defaults to the current month)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month in YYYY-MM format (default current month)"
// @Success     200 {object} map[string][]models.Budget "Budgets for the month"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.GetMonthBudgets(userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a specific budget by ID
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating a budget's limit.
// @Summary     Update budget
// @Description Update a budget's limit. Raising a child's limit may raise the parent; lowering a child that was exactly at the parent's ceiling lowers the parent in lock step. A parent cannot be set below its children's combined limits.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated budget limit"
// @Success     200 {object} budgeting.Result "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or limit below children's total"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetService.UpdateBudget(userID, budgetID, req.LimitAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{"limit_amount": req.LimitAmount.String()}
	if result.ParentAdjustment != nil {
		changes["parent_adjustment"] = result.ParentAdjustment.Reason
	}
	h.auditService.Log(userID, "UPDATE_BUDGET", "budget", budgetID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, result)
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget by ID. Deleting a child budget does not lower the parent's budget.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// GetOverview handles retrieving the budget overview for a month.
// @Summary     Get month overview
// @Description Get all budgets for a month in hierarchy order, each with spent, remaining, and percentage figures. Parent rows include spending from their children.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month in YYYY-MM format (default current month)"
// @Success     200 {object} services.MonthOverview "Budget overview"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/overview [get]
func (h *BudgetHandler) GetOverview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonthQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	overview, err := h.budgetService.GetMonthOverview(userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// CopyBudgets handles copying the previous month's budgets into a month.
// @Summary     Copy budgets from previous month
// @Description Copy every budget of the month before the given one into it, limits unchanged
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CopyBudgetsRequest true "Target month"
// @Success     201 {object} map[string][]models.Budget "Copied budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No budgets to copy"
// @Failure     409 {object} ErrorResponse "Budget already exists in the target month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/copy [post]
func (h *BudgetHandler) CopyBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CopyBudgetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	month, err := parseMonth(req.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.CopyFromPreviousMonth(userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "COPY_BUDGETS", "budget", "", c.ClientIP(),
		map[string]interface{}{"month": req.Month, "count": len(budgets)})

	c.JSON(http.StatusCreated, gin.H{"budgets": budgets})
}
