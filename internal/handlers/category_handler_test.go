package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "centsible/internal/errors"
	"centsible/internal/hierarchy"
	"centsible/internal/models"
	"centsible/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn    func(userID, name, color string, parentID *string) (*models.Category, error)
	getUserCategoriesFn func(userID string) ([]models.Category, error)
	getCategoryTreeFn   func(userID string) ([]hierarchy.Node, error)
	getCategoryByIDFn   func(userID, categoryID string) (*models.Category, error)
	updateCategoryFn    func(userID, categoryID, name, color string) (*models.Category, error)
	deleteCategoryFn    func(userID, categoryID string) error
	reorderCategoriesFn func(userID string, parentID *string, orderedIDs []string) ([]models.Category, error)
}

func (m *mockCategoryService) CreateCategory(userID, name, color string, parentID *string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, name, color, parentID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetUserCategories(userID string) ([]models.Category, error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryTree(userID string) ([]hierarchy.Node, error) {
	if m.getCategoryTreeFn != nil {
		return m.getCategoryTreeFn(userID)
	}
	return []hierarchy.Node{}, nil
}

func (m *mockCategoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID, name, color string) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, name, color)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

func (m *mockCategoryService) ReorderCategories(userID string, parentID *string, orderedIDs []string) ([]models.Category, error) {
	if m.reorderCategoriesFn != nil {
		return m.reorderCategoriesFn(userID, parentID, orderedIDs)
	}
	return []models.Category{}, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/categories", handler.CreateCategory)
	auth.GET("/categories", handler.GetCategories)
	auth.GET("/categories/tree", handler.GetCategoryTree)
	auth.PUT("/categories/reorder", handler.ReorderCategories)
	auth.GET("/categories/:id", handler.GetCategory)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 for top-level category", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(userID, name, color string, parentID *string) (*models.Category, error) {
				return &models.Category{
					Base:     models.Base{ID: testParentID},
					UserID:   userID,
					Name:     name,
					Color:    color,
					ParentID: parentID,
				}, nil
			},
		}
		handler := NewCategoryHandler(svc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"name":"Housing","color":"#FF5733"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		category := result["category"].(map[string]interface{})
		if category["name"] != "Housing" {
			t.Errorf("expected Housing, got %v", category["name"])
		}
		if category["parent_id"] != nil {
			t.Errorf("expected nil parent_id, got %v", category["parent_id"])
		}
	})

	t.Run("returns 201 for child category", func(t *testing.T) {
		var capturedParent *string
		svc := &mockCategoryService{
			createCategoryFn: func(_, name, _ string, parentID *string) (*models.Category, error) {
				capturedParent = parentID
				return &models.Category{
					Base:     models.Base{ID: testChildID},
					Name:     name,
					ParentID: parentID,
				}, nil
			},
		}
		handler := NewCategoryHandler(svc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Rent","parent_id":"`+testParentID+`"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedParent == nil || *capturedParent != testParentID {
			t.Error("expected parent_id to be passed to service")
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"color":"#FF5733"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid color", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"name":"Housing","color":"red"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when parent is itself a child", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(_, _, _ string, _ *string) (*models.Category, error) {
				return nil, apperrors.ErrInvalidParent
			},
		}
		handler := NewCategoryHandler(svc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Sub-sub","parent_id":"`+testChildID+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_PARENT")
	})
}

func TestCategoryHandler_GetCategoryTree(t *testing.T) {
	t.Run("returns 200 with nested children", func(t *testing.T) {
		parentID := testParentID
		svc := &mockCategoryService{
			getCategoryTreeFn: func(_ string) ([]hierarchy.Node, error) {
				return []hierarchy.Node{
					{
						Category: models.Category{Base: models.Base{ID: testParentID}, Name: "Housing"},
						Children: []models.Category{
							{Base: models.Base{ID: testChildID}, Name: "Rent", ParentID: &parentID},
						},
					},
				}, nil
			},
		}
		handler := NewCategoryHandler(svc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories/tree", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		categories := result["categories"].([]interface{})
		if len(categories) != 1 {
			t.Fatalf("expected 1 parent, got %d", len(categories))
		}
		parent := categories[0].(map[string]interface{})
		children := parent["children"].([]interface{})
		if len(children) != 1 {
			t.Fatalf("expected 1 child, got %d", len(children))
		}
		if children[0].(map[string]interface{})["name"] != "Rent" {
			t.Errorf("expected Rent, got %v", children[0])
		}
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, categoryID, name, _ string) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: categoryID}, Name: name}, nil
			},
		}
		handler := NewCategoryHandler(svc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/"+testParentID, `{"name":"Home"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		category := result["category"].(map[string]interface{})
		if category["name"] != "Home" {
			t.Errorf("expected Home, got %v", category["name"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, _, _, _ string) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewCategoryHandler(svc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/"+testMissingID, `{"name":"Home"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/"+testChildID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 409 when category has children", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, _ string) error {
				return apperrors.ErrCategoryHasChildren
			},
		}
		handler := NewCategoryHandler(svc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/"+testParentID, "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_HAS_CHILDREN")
	})

	t.Run("returns 409 when category has expenses", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, _ string) error {
				return apperrors.ErrCategoryInUse
			},
		}
		handler := NewCategoryHandler(svc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/"+testChildID, "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_IN_USE")
	})
}

func TestCategoryHandler_ReorderCategories(t *testing.T) {
	t.Run("returns 200 and passes ordered IDs", func(t *testing.T) {
		var capturedIDs []string
		svc := &mockCategoryService{
			reorderCategoriesFn: func(_ string, _ *string, orderedIDs []string) ([]models.Category, error) {
				capturedIDs = orderedIDs
				return []models.Category{}, nil
			},
		}
		handler := NewCategoryHandler(svc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/reorder",
			`{"ordered_ids":["`+testChildID+`","`+testBudgetID+`"],"parent_id":"`+testParentID+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(capturedIDs) != 2 || capturedIDs[0] != testChildID {
			t.Errorf("expected ordered IDs to be passed, got %v", capturedIDs)
		}
	})

	t.Run("returns 400 when sibling group is incomplete", func(t *testing.T) {
		svc := &mockCategoryService{
			reorderCategoriesFn: func(_ string, _ *string, _ []string) ([]models.Category, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ordered IDs must cover the whole sibling group")
			},
		}
		handler := NewCategoryHandler(svc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/reorder",
			`{"ordered_ids":["`+testChildID+`"]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on empty list", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/reorder", `{"ordered_ids":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
