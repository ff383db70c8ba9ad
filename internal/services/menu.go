package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/storage"
	"cafehub/internal/utils"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryWrongCafe = errors.New("category belongs to a different cafe")
)

type MenuService struct {
	store storage.Store
	log   *logger.Logger
}

func NewMenuService(store storage.Store, log *logger.Logger) *MenuService {
	return &MenuService{store: store, log: log}
}

func (s *MenuService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	now := time.Now()
	category := &models.Category{
		ID:           utils.GenerateID("cat"),
		CafeID:       req.CafeID,
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.SaveCategory(category); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	return category, nil
}

func (s *MenuService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.store.GetCategory(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *MenuService) ListCategories(ctx context.Context, cafeID string) ([]*models.Category, error) {
	return s.store.ListCategories(cafeID)
}

func (s *MenuService) UpdateCategory(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = time.Now()

	if err := s.store.UpdateCategory(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *MenuService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteCategory(id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *MenuService) CreateItem(ctx context.Context, req *models.CreateMenuItemRequest) (*models.MenuItem, error) {
	category, err := s.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.CafeID != req.CafeID {
		return nil, ErrCategoryWrongCafe
	}

	now := time.Now()
	item := &models.MenuItem{
		ID:           utils.GenerateID("item"),
		CafeID:       req.CafeID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		BasePrice:    req.BasePrice,
		Variants:     req.Variants,
		IsAvailable:  true,
		PrepMinutes:  req.PrepMinutes,
		DisplayOrder: req.DisplayOrder,
		ImageURL:     req.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.SaveMenuItem(item); err != nil {
		return nil, fmt.Errorf("failed to save menu item: %w", err)
	}
	return item, nil
}

func (s *MenuService) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.store.GetMenuItem(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

func (s *MenuService) ListItems(ctx context.Context, cafeID string) ([]*models.MenuItem, error) {
	return s.store.ListMenuItems(cafeID)
}

// ListAvailableItems is the public menu view: available items only.
func (s *MenuService) ListAvailableItems(ctx context.Context, cafeID string) ([]*models.MenuItem, error) {
	items, err := s.store.ListMenuItems(cafeID)
	if err != nil {
		return nil, err
	}
	available := make([]*models.MenuItem, 0, len(items))
	for _, item := range items {
		if item.IsAvailable {
			available = append(available, item)
		}
	}
	return available, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, id string, req *models.UpdateMenuItemRequest) (*models.MenuItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		category, err := s.GetCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if category.CafeID != item.CafeID {
			return nil, ErrCategoryWrongCafe
		}
		item.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.BasePrice != nil {
		item.BasePrice = *req.BasePrice
	}
	if req.Variants != nil {
		item.Variants = *req.Variants
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.PrepMinutes != nil {
		item.PrepMinutes = *req.PrepMinutes
	}
	if req.DisplayOrder != nil {
		item.DisplayOrder = *req.DisplayOrder
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	item.UpdatedAt = time.Now()

	if err := s.store.UpdateMenuItem(item); err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return item, nil
}

func (s *MenuService) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteMenuItem(id); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

// ReorderItems rewrites display_order to match the submitted id sequence.
// Ids not belonging to the cafe are rejected as a whole.
func (s *MenuService) ReorderItems(ctx context.Context, req *models.ReorderMenuItemsRequest) error {
	for position, id := range req.ItemIDs {
		item, err := s.GetItem(ctx, id)
		if err != nil {
			return err
		}
		if item.CafeID != req.CafeID {
			return ErrMenuItemWrongCafe
		}
		item.DisplayOrder = position
		item.UpdatedAt = time.Now()
		if err := s.store.UpdateMenuItem(item); err != nil {
			return fmt.Errorf("failed to reorder menu item %s: %w", id, err)
		}
	}
	s.log.LogProcess("MENU", fmt.Sprintf("Reordered %d items for cafe %s", len(req.ItemIDs), req.CafeID))
	return nil
}
