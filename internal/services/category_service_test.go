// internal/services/category_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryLevels(t *testing.T) {
	db := openTestDB(t)
	categories := NewCategoryService(db)
	ownerID := uuid.New()

	phones, err := categories.CreateCategory(ownerID, &CreateCategoryRequest{Name: "Phones", Level: 1})
	require.NoError(t, err)

	smart, err := categories.CreateCategory(ownerID, &CreateCategoryRequest{
		Name: "Smartphones", Level: 2, ParentID: &phones.ID,
	})
	require.NoError(t, err)

	_, err = categories.CreateCategory(ownerID, &CreateCategoryRequest{
		Name: "Android", Level: 3, ParentID: &smart.ID,
	})
	require.NoError(t, err)

	// A main category cannot have a parent.
	_, err = categories.CreateCategory(ownerID, &CreateCategoryRequest{
		Name: "Bad", Level: 1, ParentID: &phones.ID,
	})
	assert.Error(t, err)

	// Subcategories need a parent.
	_, err = categories.CreateCategory(ownerID, &CreateCategoryRequest{Name: "Orphan", Level: 2})
	assert.Error(t, err)

	// The parent must sit exactly one level up.
	_, err = categories.CreateCategory(ownerID, &CreateCategoryRequest{
		Name: "Skipped", Level: 3, ParentID: &phones.ID,
	})
	assert.Error(t, err)

	// The parent must belong to the same owner.
	_, err = categories.CreateCategory(uuid.New(), &CreateCategoryRequest{
		Name: "Stolen", Level: 2, ParentID: &phones.ID,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetCategoryTree(t *testing.T) {
	db := openTestDB(t)
	categories := NewCategoryService(db)
	ownerID := uuid.New()

	phones, err := categories.CreateCategory(ownerID, &CreateCategoryRequest{Name: "Phones", Level: 1})
	require.NoError(t, err)
	_, err = categories.CreateCategory(ownerID, &CreateCategoryRequest{Name: "Accessories", Level: 1})
	require.NoError(t, err)
	smart, err := categories.CreateCategory(ownerID, &CreateCategoryRequest{
		Name: "Smartphones", Level: 2, ParentID: &phones.ID,
	})
	require.NoError(t, err)
	_, err = categories.CreateCategory(ownerID, &CreateCategoryRequest{
		Name: "Android", Level: 3, ParentID: &smart.ID,
	})
	require.NoError(t, err)

	tree, err := categories.GetCategoryTree(ownerID)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	// Sorted by name: Accessories first.
	assert.Equal(t, "Accessories", tree[0].Name)
	assert.Empty(t, tree[0].SubCategories)

	assert.Equal(t, "Phones", tree[1].Name)
	require.Len(t, tree[1].SubCategories, 1)
	require.Len(t, tree[1].SubCategories[0].SubCategories, 1)
	assert.Equal(t, "Android", tree[1].SubCategories[0].SubCategories[0].Name)

	empty, err := categories.GetCategoryTree(uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDeleteCategory(t *testing.T) {
	db := openTestDB(t)
	categories := NewCategoryService(db)
	ownerID := uuid.New()

	phones, err := categories.CreateCategory(ownerID, &CreateCategoryRequest{Name: "Phones", Level: 1})
	require.NoError(t, err)
	smart, err := categories.CreateCategory(ownerID, &CreateCategoryRequest{
		Name: "Smartphones", Level: 2, ParentID: &phones.ID,
	})
	require.NoError(t, err)

	// A category with children cannot be removed.
	err = categories.DeleteCategory(phones.ID, ownerID)
	assert.Error(t, err)

	require.NoError(t, categories.DeleteCategory(smart.ID, ownerID))
	require.NoError(t, categories.DeleteCategory(phones.ID, ownerID))

	assert.ErrorIs(t, categories.DeleteCategory(phones.ID, ownerID), ErrCategoryNotFound)
}
