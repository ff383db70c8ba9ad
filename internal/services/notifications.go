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

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService struct {
	store    storage.Store
	notifier Notifier
	log      *logger.Logger
}

func NewNotificationService(store storage.Store, notifier Notifier, log *logger.Logger) *NotificationService {
	return &NotificationService{store: store, notifier: notifier, log: log}
}

// Create persists a notification and pushes it to the recipient's live
// websocket connections, if any.
func (s *NotificationService) Create(ctx context.Context, req *models.CreateNotificationRequest) (*models.Notification, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	n := &models.Notification{
		ID:          utils.GenerateID("ntf"),
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Priority:    priority,
		Title:       req.Title,
		Message:     req.Message,
		Payload:     req.Payload,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
	if err := s.store.SaveNotification(n); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}
	s.notifier.NotifyUser(n.RecipientID, models.Event{Type: models.EventSystem, Payload: n})
	return n, nil
}

// RecordOrderEvent turns a consumed order event into a stored notification
// for the cafe owner side; it is the kafka consumer's sink.
func (s *NotificationService) RecordOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	cafe, err := s.store.GetCafe(event.CafeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("NOTIFY", fmt.Sprintf("Dropping event for unknown cafe %s", event.CafeID))
			return nil
		}
		return fmt.Errorf("failed to resolve cafe for event: %w", err)
	}

	notifType := models.NotifSystem
	priority := models.PriorityNormal
	title := "Order update"
	switch event.Type {
	case models.EventOrderCreated:
		notifType = models.NotifOrderCreated
		priority = models.PriorityHigh
		title = "New order"
	case models.EventOrderStatusChanged:
		notifType = models.NotifOrderStatus
		title = "Order status changed"
	case models.EventPaymentProcessed:
		notifType = models.NotifPayment
		title = "Payment processed"
	}

	n := &models.Notification{
		ID:          utils.GenerateID("ntf"),
		RecipientID: cafe.OwnerID,
		Type:        notifType,
		Priority:    priority,
		Title:       title,
		Message:     fmt.Sprintf("Order %s is %s", event.OrderNumber, event.Status),
		Payload: models.JSONMap{
			"order_id":     event.OrderID,
			"order_number": event.OrderNumber,
			"cafe_id":      event.CafeID,
			"status":       string(event.Status),
		},
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.store.SaveNotification(n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, recipientID string, unreadOnly bool) ([]*models.Notification, error) {
	return s.store.ListNotifications(recipientID, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	n, err := s.store.GetNotification(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	if n.RecipientID != recipientID {
		return nil, ErrForbidden
	}
	if n.IsRead {
		return n, nil
	}
	n.IsRead = true
	if err := s.store.UpdateNotification(n); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	if err := s.store.MarkAllNotificationsRead(recipientID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
