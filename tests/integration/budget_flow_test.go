package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestBudgetFlow_ChildSeedsParent(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budgetseed@test.com", "password123")

	housingID := app.createCategory(t, token, "Housing", "")
	rentID := app.createCategory(t, token, "Rent", housingID)

	// First child budget of the month seeds the parent at double the child limit
	result := app.createBudget(t, token, rentID, "250", "2025-03")
	budget := result["budget"].(map[string]interface{})
	if budget["limit_amount"] != "250" {
		t.Errorf("expected child limit 250, got %v", budget["limit_amount"])
	}

	adjustment, ok := result["parent_adjustment"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected parent_adjustment in response: %v", result)
	}
	if adjustment["reason"] != "created" {
		t.Errorf("expected reason created, got %v", adjustment["reason"])
	}
	if adjustment["new_amount"] != "500" {
		t.Errorf("expected seeded parent limit 500, got %v", adjustment["new_amount"])
	}

	// The seeded parent budget is a real row
	rec := app.request("GET", "/api/v1/budgets?month=2025-03", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	budgets := parseJSON(t, rec)["budgets"].([]interface{})
	if len(budgets) != 2 {
		t.Fatalf("expected child and seeded parent budgets, got %d", len(budgets))
	}
}

func TestBudgetFlow_ChildSumRaisesParent(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budgetraise@test.com", "password123")

	housingID := app.createCategory(t, token, "Housing", "")
	rentID := app.createCategory(t, token, "Rent", housingID)
	utilitiesID := app.createCategory(t, token, "Utilities", housingID)

	app.createBudget(t, token, housingID, "600", "2025-03")
	app.createBudget(t, token, rentID, "500", "2025-03")

	// 500 + 200 > 600, so the parent is raised to the child sum
	result := app.createBudget(t, token, utilitiesID, "200", "2025-03")
	adjustment, ok := result["parent_adjustment"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected parent_adjustment in response: %v", result)
	}
	if adjustment["reason"] != "increased" {
		t.Errorf("expected reason increased, got %v", adjustment["reason"])
	}
	if adjustment["old_amount"] != "600" || adjustment["new_amount"] != "700" {
		t.Errorf("expected 600 -> 700, got %v -> %v", adjustment["old_amount"], adjustment["new_amount"])
	}
}

func TestBudgetFlow_LockStepLowering(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budgetlower@test.com", "password123")

	housingID := app.createCategory(t, token, "Housing", "")
	rentID := app.createCategory(t, token, "Rent", housingID)

	app.createBudget(t, token, housingID, "500", "2025-03")
	result := app.createBudget(t, token, rentID, "500", "2025-03")
	childID := result["budget"].(map[string]interface{})["id"].(string)

	// Parent sits exactly at the child sum; lowering the child drags it down
	rec := app.request("PUT", "/api/v1/budgets/"+childID, `{"limit_amount":300}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)
	adjustment, ok := updated["parent_adjustment"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected parent_adjustment in response: %v", updated)
	}
	if adjustment["reason"] != "decreased" {
		t.Errorf("expected reason decreased, got %v", adjustment["reason"])
	}
	if adjustment["new_amount"] != "300" {
		t.Errorf("expected parent lowered to 300, got %v", adjustment["new_amount"])
	}
}

func TestBudgetFlow_PaddedParentNotLowered(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budgetpad@test.com", "password123")

	housingID := app.createCategory(t, token, "Housing", "")
	rentID := app.createCategory(t, token, "Rent", housingID)

	app.createBudget(t, token, housingID, "1000", "2025-03")
	result := app.createBudget(t, token, rentID, "500", "2025-03")
	childID := result["budget"].(map[string]interface{})["id"].(string)

	// Parent has headroom above the child sum; lowering the child leaves it alone
	rec := app.request("PUT", "/api/v1/budgets/"+childID, `{"limit_amount":300}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)
	if _, ok := updated["parent_adjustment"]; ok {
		t.Errorf("expected no parent adjustment for a padded parent: %v", updated)
	}
}

func TestBudgetFlow_ParentFloor(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budgetfloor@test.com", "password123")

	housingID := app.createCategory(t, token, "Housing", "")
	rentID := app.createCategory(t, token, "Rent", housingID)

	parentResult := app.createBudget(t, token, housingID, "1000", "2025-03")
	parentBudgetID := parentResult["budget"].(map[string]interface{})["id"].(string)
	app.createBudget(t, token, rentID, "800", "2025-03")

	// A parent budget cannot drop below its children's combined limits
	rec := app.request("PUT", "/api/v1/budgets/"+parentBudgetID, `{"limit_amount":700}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "PARENT_BELOW_CHILDREN" {
		t.Errorf("expected PARENT_BELOW_CHILDREN, got %s", code)
	}

	// Meeting the floor exactly is allowed
	rec = app.request("PUT", "/api/v1/budgets/"+parentBudgetID, `{"limit_amount":800}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 at the floor, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetFlow_AutoAdjustDisabled(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budgetnoauto@test.com", "password123")

	rec := app.request("PUT", "/api/v1/preferences", `{"auto_adjust_parent_budgets":false}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating preferences, got %d: %s", rec.Code, rec.Body.String())
	}

	housingID := app.createCategory(t, token, "Housing", "")
	rentID := app.createCategory(t, token, "Rent", housingID)

	app.createBudget(t, token, housingID, "600", "2025-03")

	// Child pushes past the parent limit but no adjustment happens
	result := app.createBudget(t, token, rentID, "800", "2025-03")
	if _, ok := result["parent_adjustment"]; ok {
		t.Errorf("expected no parent adjustment with auto-adjust off: %v", result)
	}

	// The floor on parent edits still applies
	rec = app.request("GET", "/api/v1/budgets?month=2025-03", "", token)
	budgets := parseJSON(t, rec)["budgets"].([]interface{})
	var parentBudgetID string
	for _, raw := range budgets {
		b := raw.(map[string]interface{})
		if b["category_id"] == housingID {
			parentBudgetID = b["id"].(string)
		}
	}
	rec = app.request("PUT", "/api/v1/budgets/"+parentBudgetID, `{"limit_amount":500}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 below the child sum, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetFlow_Overview(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budgetoverview@test.com", "password123")

	housingID := app.createCategory(t, token, "Housing", "")
	rentID := app.createCategory(t, token, "Rent", housingID)

	app.createBudget(t, token, housingID, "1000", "2025-03")
	app.createBudget(t, token, rentID, "600", "2025-03")

	app.createExpense(t, token, rentID, "550", "2025-03-10T00:00:00Z")
	app.createExpense(t, token, housingID, "100", "2025-03-12T00:00:00Z")
	// Next month's spending stays out of the March overview
	app.createExpense(t, token, rentID, "999", "2025-04-02T00:00:00Z")

	rec := app.request("GET", "/api/v1/budgets/overview?month=2025-03", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	overview := parseJSON(t, rec)
	items := overview["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 overview items, got %d", len(items))
	}

	// Hierarchy order puts the parent first
	first := items[0].(map[string]interface{})
	firstBudget := first["budget"].(map[string]interface{})
	if firstBudget["category_id"] != housingID {
		t.Errorf("expected Housing first in the overview")
	}

	// Parent rolls up child spending plus its own: 550 + 100 = 650
	firstStatus := first["status"].(map[string]interface{})
	if firstStatus["spent"] != "650" {
		t.Errorf("expected parent spent 650, got %v", firstStatus["spent"])
	}
	if firstStatus["percentage"].(float64) != 65 {
		t.Errorf("expected 65%%, got %v", firstStatus["percentage"])
	}
	if firstStatus["is_over_budget"].(bool) {
		t.Error("expected parent not over budget")
	}

	second := items[1].(map[string]interface{})
	secondCategory := second["category"].(map[string]interface{})
	if secondCategory["parent_name"] != "Housing" {
		t.Errorf("expected child breadcrumb to Housing, got %v", secondCategory["parent_name"])
	}
}

func TestBudgetFlow_CopyPreviousMonth(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budgetcopy@test.com", "password123")

	housingID := app.createCategory(t, token, "Housing", "")
	rentID := app.createCategory(t, token, "Rent", housingID)

	app.createBudget(t, token, housingID, "1000", "2025-03")
	app.createBudget(t, token, rentID, "600", "2025-03")

	// Copy March into April
	rec := app.request("POST", "/api/v1/budgets/copy", `{"month":"2025-04"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	copied := parseJSON(t, rec)["budgets"].([]interface{})
	if len(copied) != 2 {
		t.Fatalf("expected 2 copied budgets, got %d", len(copied))
	}

	// Copying into a month that already has one of the budgets fails whole
	rec = app.request("POST", "/api/v1/budgets/copy", `{"month":"2025-04"}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate copy, got %d: %s", rec.Code, rec.Body.String())
	}

	// Copying into a month with an empty predecessor fails
	rec = app.request("POST", "/api/v1/budgets/copy", `{"month":"2025-06"}`, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with nothing to copy, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "NO_BUDGETS_TO_COPY" {
		t.Errorf("expected NO_BUDGETS_TO_COPY, got %s", code)
	}
}

func TestBudgetFlow_DuplicateBudget(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budgetdupe@test.com", "password123")

	foodID := app.createCategory(t, token, "Food", "")
	app.createBudget(t, token, foodID, "400", "2025-03")

	body := fmt.Sprintf(`{"category_id":%q,"limit_amount":500,"month":"2025-03"}`, foodID)
	rec := app.request("POST", "/api/v1/budgets", body, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "DUPLICATE_BUDGET" {
		t.Errorf("expected DUPLICATE_BUDGET, got %s", code)
	}

	// Same category in another month is fine
	body = fmt.Sprintf(`{"category_id":%q,"limit_amount":500,"month":"2025-04"}`, foodID)
	rec = app.request("POST", "/api/v1/budgets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for another month, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetFlow_DeleteAsymmetry(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budgetdelete@test.com", "password123")

	housingID := app.createCategory(t, token, "Housing", "")
	rentID := app.createCategory(t, token, "Rent", housingID)

	result := app.createBudget(t, token, rentID, "250", "2025-03")
	childID := result["budget"].(map[string]interface{})["id"].(string)

	// Deleting the child leaves the seeded parent untouched
	rec := app.request("DELETE", "/api/v1/budgets/"+childID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/budgets?month=2025-03", "", token)
	budgets := parseJSON(t, rec)["budgets"].([]interface{})
	if len(budgets) != 1 {
		t.Fatalf("expected the parent budget to survive, got %d budgets", len(budgets))
	}
	remaining := budgets[0].(map[string]interface{})
	if remaining["category_id"] != housingID {
		t.Errorf("expected surviving budget to be the parent's")
	}
	if remaining["limit_amount"] != "500" {
		t.Errorf("expected parent limit unchanged at 500, got %v", remaining["limit_amount"])
	}
}
