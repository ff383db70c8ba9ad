package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/storage"
)

func newMenuServiceForTest(t *testing.T, store storage.Store) *MenuService {
	t.Helper()
	log := logger.NewLogger()
	t.Cleanup(log.Close)
	return NewMenuService(store, log)
}

func seedCategory(t *testing.T, svc *MenuService, cafeID, name string) *models.Category {
	t.Helper()
	category, err := svc.CreateCategory(context.Background(), &models.CreateCategoryRequest{
		CafeID: cafeID,
		Name:   name,
	})
	require.NoError(t, err)
	return category
}

func TestCreateItemValidatesCategory(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc := newMenuServiceForTest(t, store)
	seedCafe(t, store, models.CafeSettings{})
	category := seedCategory(t, svc, "cafe_1", "Drinks")

	item, err := svc.CreateItem(context.Background(), &models.CreateMenuItemRequest{
		CafeID:     "cafe_1",
		CategoryID: category.ID,
		Name:       "Flat White",
		BasePrice:  4.50,
	})
	require.NoError(t, err)
	assert.True(t, item.IsAvailable, "new items start available")

	_, err = svc.CreateItem(context.Background(), &models.CreateMenuItemRequest{
		CafeID:     "cafe_1",
		CategoryID: "cat_missing",
		Name:       "Espresso",
		BasePrice:  3,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	foreign, err := svc.CreateCategory(context.Background(), &models.CreateCategoryRequest{
		CafeID: "cafe_2",
		Name:   "Other",
	})
	require.NoError(t, err)
	_, err = svc.CreateItem(context.Background(), &models.CreateMenuItemRequest{
		CafeID:     "cafe_1",
		CategoryID: foreign.ID,
		Name:       "Espresso",
		BasePrice:  3,
	})
	assert.ErrorIs(t, err, ErrCategoryWrongCafe)
}

func TestUpdateItemPatchesOnlyProvidedFields(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc := newMenuServiceForTest(t, store)
	seedCafe(t, store, models.CafeSettings{})
	category := seedCategory(t, svc, "cafe_1", "Drinks")

	item, err := svc.CreateItem(context.Background(), &models.CreateMenuItemRequest{
		CafeID:     "cafe_1",
		CategoryID: category.ID,
		Name:       "Flat White",
		BasePrice:  4.50,
	})
	require.NoError(t, err)

	newPrice := 5.0
	unavailable := false
	updated, err := svc.UpdateItem(context.Background(), item.ID, &models.UpdateMenuItemRequest{
		BasePrice:   &newPrice,
		IsAvailable: &unavailable,
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.BasePrice)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Flat White", updated.Name, "untouched fields keep their value")

	wrongCategory := "cat_missing"
	_, err = svc.UpdateItem(context.Background(), item.ID, &models.UpdateMenuItemRequest{CategoryID: &wrongCategory})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestListAvailableItemsFiltersUnavailable(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc := newMenuServiceForTest(t, store)
	seedCafe(t, store, models.CafeSettings{})
	category := seedCategory(t, svc, "cafe_1", "Drinks")

	visible, err := svc.CreateItem(context.Background(), &models.CreateMenuItemRequest{
		CafeID:     "cafe_1",
		CategoryID: category.ID,
		Name:       "Flat White",
		BasePrice:  4.50,
	})
	require.NoError(t, err)

	hidden, err := svc.CreateItem(context.Background(), &models.CreateMenuItemRequest{
		CafeID:     "cafe_1",
		CategoryID: category.ID,
		Name:       "Seasonal Special",
		BasePrice:  6,
	})
	require.NoError(t, err)
	off := false
	_, err = svc.UpdateItem(context.Background(), hidden.ID, &models.UpdateMenuItemRequest{IsAvailable: &off})
	require.NoError(t, err)

	available, err := svc.ListAvailableItems(context.Background(), "cafe_1")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, visible.ID, available[0].ID)

	all, err := svc.ListItems(context.Background(), "cafe_1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReorderItemsRewritesDisplayOrder(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc := newMenuServiceForTest(t, store)
	seedCafe(t, store, models.CafeSettings{})
	category := seedCategory(t, svc, "cafe_1", "Drinks")

	var ids []string
	for _, name := range []string{"First", "Second", "Third"} {
		item, err := svc.CreateItem(context.Background(), &models.CreateMenuItemRequest{
			CafeID:     "cafe_1",
			CategoryID: category.ID,
			Name:       name,
			BasePrice:  3,
		})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}

	require.NoError(t, svc.ReorderItems(context.Background(), &models.ReorderMenuItemsRequest{
		CafeID:  "cafe_1",
		ItemIDs: []string{ids[2], ids[0], ids[1]},
	}))

	third, err := svc.GetItem(context.Background(), ids[2])
	require.NoError(t, err)
	assert.Equal(t, 0, third.DisplayOrder)
	first, err := svc.GetItem(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, 1, first.DisplayOrder)

	err = svc.ReorderItems(context.Background(), &models.ReorderMenuItemsRequest{
		CafeID:  "cafe_2",
		ItemIDs: []string{ids[0]},
	})
	assert.ErrorIs(t, err, ErrMenuItemWrongCafe)
}

func TestDeleteCategoryAndItem(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc := newMenuServiceForTest(t, store)
	seedCafe(t, store, models.CafeSettings{})
	category := seedCategory(t, svc, "cafe_1", "Drinks")

	item, err := svc.CreateItem(context.Background(), &models.CreateMenuItemRequest{
		CafeID:     "cafe_1",
		CategoryID: category.ID,
		Name:       "Flat White",
		BasePrice:  4.50,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(context.Background(), item.ID))
	_, err = svc.GetItem(context.Background(), item.ID)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
	assert.ErrorIs(t, svc.DeleteItem(context.Background(), item.ID), ErrMenuItemNotFound)

	require.NoError(t, svc.DeleteCategory(context.Background(), category.ID))
	_, err = svc.GetCategory(context.Background(), category.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
