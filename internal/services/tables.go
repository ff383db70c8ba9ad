package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/qr"
	"cafehub/internal/storage"
	"cafehub/internal/utils"
)

var (
	ErrTableNumberTaken     = errors.New("table number already in use")
	ErrTableHasActiveOrders = errors.New("table has active orders")
	ErrTableNotLast         = errors.New("only the highest-numbered table can be deleted")
)

type TableService struct {
	store     storage.Store
	generator qr.Generator
	uploadDir string
	baseURL   string
	log       *logger.Logger
}

func NewTableService(store storage.Store, generator qr.Generator, uploadDir, baseURL string, log *logger.Logger) *TableService {
	return &TableService{
		store:     store,
		generator: generator,
		uploadDir: uploadDir,
		baseURL:   baseURL,
		log:       log,
	}
}

// CreateTable registers a table and renders its QR code. Table numbers are
// unique within a cafe.
func (s *TableService) CreateTable(ctx context.Context, req *models.CreateTableRequest) (*models.Table, error) {
	cafe, err := s.store.GetCafe(req.CafeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCafeNotFound
		}
		return nil, fmt.Errorf("failed to get cafe: %w", err)
	}

	if _, err := s.store.GetTableByNumber(cafe.ID, req.Number); err == nil {
		return nil, ErrTableNumberTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check table number: %w", err)
	}

	now := time.Now()
	table := &models.Table{
		ID:        utils.GenerateID("tbl"),
		CafeID:    cafe.ID,
		Number:    req.Number,
		Capacity:  req.Capacity,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	table.QRPayload = s.qrPayload(table)

	imagePath, err := s.renderQR(table)
	if err != nil {
		return nil, err
	}
	table.QRImagePath = imagePath

	if err := s.store.SaveTable(table); err != nil {
		return nil, fmt.Errorf("failed to save table: %w", err)
	}
	s.log.LogProcess("TABLE", fmt.Sprintf("Created table %d for cafe %s", table.Number, cafe.ID))
	return table, nil
}

func (s *TableService) GetTable(ctx context.Context, id string) (*models.Table, error) {
	table, err := s.store.GetTable(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return table, nil
}

func (s *TableService) ListTables(ctx context.Context, cafeID string, activeOnly bool) ([]*models.Table, error) {
	return s.store.ListTables(cafeID, activeOnly)
}

// SetActive flips the active flag. Deactivation is refused while the table
// still has orders in flight.
func (s *TableService) SetActive(ctx context.Context, id string, active bool) (*models.Table, error) {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	if !active {
		if err := s.requireNoActiveOrders(table.ID); err != nil {
			return nil, err
		}
	}
	table.IsActive = active
	table.UpdatedAt = time.Now()
	if err := s.store.UpdateTable(table); err != nil {
		return nil, fmt.Errorf("failed to update table: %w", err)
	}
	return table, nil
}

// DeleteTable removes a table. Deletion must proceed from the highest table
// number downward, so the lowest-numbered table can only go last, and a table
// with orders in flight cannot be removed at all.
func (s *TableService) DeleteTable(ctx context.Context, id string) error {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireNoActiveOrders(table.ID); err != nil {
		return err
	}

	siblings, err := s.store.ListTables(table.CafeID, false)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.ID != table.ID && sibling.Number > table.Number {
			return ErrTableNotLast
		}
	}

	if err := s.store.DeleteTable(table.ID); err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}
	s.removeQRImage(table.QRImagePath)
	s.log.LogProcess("TABLE", fmt.Sprintf("Deleted table %d from cafe %s", table.Number, table.CafeID))
	return nil
}

// RegenerateQR replaces the stored QR image; the old file is removed.
func (s *TableService) RegenerateQR(ctx context.Context, id string) (*models.Table, error) {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPath := table.QRImagePath
	table.QRPayload = s.qrPayload(table)
	imagePath, err := s.renderQR(table)
	if err != nil {
		return nil, err
	}
	table.QRImagePath = imagePath
	table.UpdatedAt = time.Now()

	if err := s.store.UpdateTable(table); err != nil {
		return nil, fmt.Errorf("failed to update table: %w", err)
	}
	if oldPath != "" && oldPath != imagePath {
		s.removeQRImage(oldPath)
	}
	s.log.LogProcess("TABLE", fmt.Sprintf("Regenerated QR for table %d", table.Number))
	return table, nil
}

func (s *TableService) qrPayload(table *models.Table) string {
	return fmt.Sprintf("%s/menu/%s?table=%d", s.baseURL, table.CafeID, table.Number)
}

func (s *TableService) renderQR(table *models.Table) (string, error) {
	png, err := s.generator.GeneratePNG(table.QRPayload)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	filename := fmt.Sprintf("qr_%s_%d.png", table.ID, time.Now().UnixNano())
	path := filepath.Join(s.uploadDir, filename)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("failed to write QR image: %w", err)
	}
	return path, nil
}

func (s *TableService) removeQRImage(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("TABLE", fmt.Sprintf("Failed to remove QR image %s: %v", path, err))
	}
}

func (s *TableService) requireNoActiveOrders(tableID string) error {
	orders, err := s.store.ListOrdersByTable(tableID, models.ActiveStatuses)
	if err != nil {
		return fmt.Errorf("failed to check table orders: %w", err)
	}
	if len(orders) > 0 {
		return ErrTableHasActiveOrders
	}
	return nil
}
