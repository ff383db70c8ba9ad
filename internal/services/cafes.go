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

const defaultPrepMinutes = 15

type CafeService struct {
	store storage.Store
	log   *logger.Logger
}

func NewCafeService(store storage.Store, log *logger.Logger) *CafeService {
	return &CafeService{store: store, log: log}
}

// CreateCafe persists the venue and adds it to the owner's assignment list
// so subsequent access checks pass.
func (s *CafeService) CreateCafe(ctx context.Context, owner *models.User, req *models.CreateCafeRequest) (*models.Cafe, error) {
	now := time.Now()
	cafe := &models.Cafe{
		ID:          utils.GenerateID("cafe"),
		OwnerID:     owner.ID,
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Cuisine:     req.Cuisine,
		PriceRange:  req.PriceRange,
		Hours:       req.Hours,
		Settings:    req.Settings,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if cafe.Settings.DefaultPrepMinutes == 0 {
		cafe.Settings.DefaultPrepMinutes = defaultPrepMinutes
	}

	if err := s.store.SaveCafe(cafe); err != nil {
		return nil, fmt.Errorf("failed to save cafe: %w", err)
	}

	if !owner.CafeIDs.Contains(cafe.ID) {
		owner.CafeIDs = append(owner.CafeIDs, cafe.ID)
		owner.UpdatedAt = now
		if err := s.store.UpdateUser(owner); err != nil {
			s.log.Error("CAFE", fmt.Sprintf("Failed to assign cafe %s to owner %s: %v", cafe.ID, owner.ID, err))
		}
	}

	s.log.LogProcess("CAFE", fmt.Sprintf("Cafe %s created by %s", cafe.Name, owner.ID))
	return cafe, nil
}

func (s *CafeService) GetCafe(ctx context.Context, id string) (*models.Cafe, error) {
	cafe, err := s.store.GetCafe(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCafeNotFound
		}
		return nil, fmt.Errorf("failed to get cafe: %w", err)
	}
	return cafe, nil
}

// ListPublic returns the active venues anyone may browse.
func (s *CafeService) ListPublic(ctx context.Context) ([]*models.Cafe, error) {
	return s.store.ListCafes(true)
}

func (s *CafeService) ListOwned(ctx context.Context, ownerID string) ([]*models.Cafe, error) {
	return s.store.ListCafesByOwner(ownerID)
}

func (s *CafeService) UpdateCafe(ctx context.Context, id string, req *models.UpdateCafeRequest) (*models.Cafe, error) {
	cafe, err := s.GetCafe(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cafe.Name = *req.Name
	}
	if req.Description != nil {
		cafe.Description = *req.Description
	}
	if req.Phone != nil {
		cafe.Phone = *req.Phone
	}
	if req.Email != nil {
		cafe.Email = *req.Email
	}
	if req.Address != nil {
		cafe.Address = *req.Address
	}
	if req.Latitude != nil {
		cafe.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		cafe.Longitude = *req.Longitude
	}
	if req.Cuisine != nil {
		cafe.Cuisine = *req.Cuisine
	}
	if req.PriceRange != nil {
		cafe.PriceRange = *req.PriceRange
	}
	if req.Hours != nil {
		cafe.Hours = *req.Hours
	}
	if req.Settings != nil {
		cafe.Settings = *req.Settings
	}
	cafe.UpdatedAt = time.Now()

	if err := s.store.UpdateCafe(cafe); err != nil {
		return nil, fmt.Errorf("failed to update cafe: %w", err)
	}
	return cafe, nil
}

// Deactivate soft-deletes the venue; cafes are never hard-deleted.
func (s *CafeService) Deactivate(ctx context.Context, id string) error {
	cafe, err := s.GetCafe(ctx, id)
	if err != nil {
		return err
	}
	cafe.IsActive = false
	cafe.UpdatedAt = time.Now()
	if err := s.store.UpdateCafe(cafe); err != nil {
		return fmt.Errorf("failed to deactivate cafe: %w", err)
	}
	s.log.LogProcess("CAFE", fmt.Sprintf("Cafe %s deactivated", id))
	return nil
}

func (s *CafeService) SetLogo(ctx context.Context, id, logoURL string) (*models.Cafe, error) {
	cafe, err := s.GetCafe(ctx, id)
	if err != nil {
		return nil, err
	}
	cafe.LogoURL = logoURL
	cafe.UpdatedAt = time.Now()
	if err := s.store.UpdateCafe(cafe); err != nil {
		return nil, fmt.Errorf("failed to update cafe logo: %w", err)
	}
	return cafe, nil
}

// Rate feeds the running aggregate; the displayed average is derived, never
// stored.
func (s *CafeService) Rate(ctx context.Context, id string, rating float64) (*models.Cafe, error) {
	cafe, err := s.GetCafe(ctx, id)
	if err != nil {
		return nil, err
	}
	cafe.RatingTotal += rating
	cafe.RatingCount++
	cafe.UpdatedAt = time.Now()
	if err := s.store.UpdateCafe(cafe); err != nil {
		return nil, fmt.Errorf("failed to update cafe rating: %w", err)
	}
	return cafe, nil
}
