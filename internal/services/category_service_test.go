package services

import (
	"testing"

	"centsible/internal/testutil"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	t.Run("creates a top-level category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		category, err := svc.CreateCategory(user.ID, "Housing", "#FF5733", nil)
		testutil.AssertNoError(t, err)

		if category.ID == "" {
			t.Fatal("expected non-empty category ID")
		}
		if !category.IsParent() {
			t.Error("expected a parent category")
		}
		if category.SortOrder != 1 {
			t.Errorf("expected sort order 1, got %d", category.SortOrder)
		}
	})

	t.Run("creates a child under a parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestParentCategory(t, db, user.ID)

		child, err := svc.CreateCategory(user.ID, "Rent", "#33FF57", &parent.ID)
		testutil.AssertNoError(t, err)

		if child.ParentID == nil || *child.ParentID != parent.ID {
			t.Error("expected child to reference its parent")
		}
	})

	t.Run("appends to the end of the sibling group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.CreateCategory(user.ID, "Housing", "", nil)
		testutil.AssertNoError(t, err)
		second, err := svc.CreateCategory(user.ID, "Food", "", nil)
		testutil.AssertNoError(t, err)

		if second.SortOrder != first.SortOrder+1 {
			t.Errorf("expected sort order %d, got %d", first.SortOrder+1, second.SortOrder)
		}

		// Children order independently of parents.
		child, err := svc.CreateCategory(user.ID, "Rent", "", &first.ID)
		testutil.AssertNoError(t, err)
		if child.SortOrder != 1 {
			t.Errorf("expected child sort order 1, got %d", child.SortOrder)
		}
	})

	t.Run("rejects a child as parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestParentCategory(t, db, user.ID)
		child := testutil.CreateTestChildCategory(t, db, user.ID, parent.ID)

		_, err := svc.CreateCategory(user.ID, "Sub-sub", "", &child.ID)
		testutil.AssertAppError(t, err, "INVALID_PARENT")
	})

	t.Run("rejects an unknown parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		ghost := "0190737d-29a5-7d2c-a557-f4f257b00000"

		_, err := svc.CreateCategory(user.ID, "Orphan", "", &ghost)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("rejects another user's parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestParentCategory(t, db, owner.ID)

		_, err := svc.CreateCategory(other.ID, "Sneaky", "", &parent.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Housing", "", nil)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(user.ID, "Housing", "", nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestCategoryService_GetCategoryTree(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	housing := testutil.CreateTestParentCategory(t, db, user.ID)
	rent := testutil.CreateTestChildCategory(t, db, user.ID, housing.ID)
	testutil.CreateTestParentCategory(t, db, user.ID)

	tree, err := svc.GetCategoryTree(user.ID)
	testutil.AssertNoError(t, err)

	if len(tree) != 2 {
		t.Fatalf("expected 2 parents, got %d", len(tree))
	}

	var found bool
	for _, node := range tree {
		if node.ID == housing.ID {
			found = true
			if len(node.Children) != 1 || node.Children[0].ID != rent.ID {
				t.Errorf("expected rent under housing, got %+v", node.Children)
			}
		}
	}
	if !found {
		t.Error("housing parent missing from tree")
	}
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	t.Run("updates name and color", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestParentCategory(t, db, user.ID)

		updated, err := svc.UpdateCategory(user.ID, category.ID, "Renamed", "#000000")
		testutil.AssertNoError(t, err)

		if updated.Name != "Renamed" || updated.Color != "#000000" {
			t.Errorf("unexpected update result: %+v", updated)
		}
	})

	t.Run("rejects another user's category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestParentCategory(t, db, owner.ID)

		_, err := svc.UpdateCategory(other.ID, category.ID, "Hijack", "")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	t.Run("deletes an unused category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestParentCategory(t, db, user.ID)

		err := svc.DeleteCategory(user.ID, category.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.GetCategoryByID(user.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("refuses a parent with children", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestParentCategory(t, db, user.ID)
		testutil.CreateTestChildCategory(t, db, user.ID, parent.ID)

		err := svc.DeleteCategory(user.ID, parent.ID)
		testutil.AssertAppError(t, err, "CATEGORY_HAS_CHILDREN")
	})

	t.Run("refuses a category with expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestParentCategory(t, db, user.ID)
		testutil.CreateTestExpense(t, db, user.ID, category.ID, dec(10), testutil.Month(2025, 3))

		err := svc.DeleteCategory(user.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})
}

func TestCategoryService_ReorderCategories(t *testing.T) {
	t.Run("renumbers the group in the given order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		a := testutil.CreateTestParentCategory(t, db, user.ID)
		b := testutil.CreateTestParentCategory(t, db, user.ID)
		c := testutil.CreateTestParentCategory(t, db, user.ID)

		reordered, err := svc.ReorderCategories(user.ID, nil, []string{c.ID, a.ID, b.ID})
		testutil.AssertNoError(t, err)

		if reordered[0].ID != c.ID || reordered[0].SortOrder != 1 {
			t.Errorf("expected c first with order 1, got %s/%d", reordered[0].ID, reordered[0].SortOrder)
		}

		categories, err := svc.GetUserCategories(user.ID)
		testutil.AssertNoError(t, err)
		if categories[0].ID != c.ID || categories[1].ID != a.ID || categories[2].ID != b.ID {
			t.Error("persisted order does not match the reorder request")
		}
	})

	t.Run("reorders one parent's children independently", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestParentCategory(t, db, user.ID)
		x := testutil.CreateTestChildCategory(t, db, user.ID, parent.ID)
		y := testutil.CreateTestChildCategory(t, db, user.ID, parent.ID)

		reordered, err := svc.ReorderCategories(user.ID, &parent.ID, []string{y.ID, x.ID})
		testutil.AssertNoError(t, err)

		if reordered[0].ID != y.ID {
			t.Errorf("expected y first, got %s", reordered[0].ID)
		}
	})

	t.Run("rejects an incomplete group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		a := testutil.CreateTestParentCategory(t, db, user.ID)
		testutil.CreateTestParentCategory(t, db, user.ID)

		_, err := svc.ReorderCategories(user.ID, nil, []string{a.ID})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects an ID from outside the group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		parent := testutil.CreateTestParentCategory(t, db, user.ID)
		testutil.CreateTestChildCategory(t, db, user.ID, parent.ID)
		other := testutil.CreateTestParentCategory(t, db, user.ID)

		_, err := svc.ReorderCategories(user.ID, &parent.ID, []string{other.ID})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
