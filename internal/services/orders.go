package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafehub/internal/kafka"
	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/storage"
	"cafehub/internal/utils"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrCafeNotFound         = errors.New("cafe not found")
	ErrCafeInactive         = errors.New("cafe is not accepting orders")
	ErrTableNotFound        = errors.New("table not found")
	ErrTableInactive        = errors.New("table is not active")
	ErrInvalidOrderType     = errors.New("invalid order type")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrCardNotSupported     = errors.New("card payments are not configured")
)

const defaultListLimit = 50

type OrderService struct {
	store    storage.Store
	pricing  *PricingService
	producer kafka.EventPublisher
	notifier Notifier
	stripe   *StripeService
	log      *logger.Logger
}

func NewOrderService(store storage.Store, pricing *PricingService, producer kafka.EventPublisher, notifier Notifier, stripe *StripeService, log *logger.Logger) *OrderService {
	return &OrderService{
		store:    store,
		pricing:  pricing,
		producer: producer,
		notifier: notifier,
		stripe:   stripe,
		log:      log,
	}
}

// CreateOrder validates the venue and table, prices the line items, and
// persists the order with its initial states. Everything is all-or-nothing:
// a single bad line item aborts the request and nothing is stored.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if !req.OrderType.Valid() {
		return nil, ErrInvalidOrderType
	}

	cafe, err := s.store.GetCafe(req.CafeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCafeNotFound
		}
		return nil, fmt.Errorf("failed to load cafe: %w", err)
	}
	if !cafe.IsActive {
		return nil, ErrCafeInactive
	}

	if req.TableID != "" {
		table, err := s.store.GetTable(req.TableID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, ErrTableNotFound
			}
			return nil, fmt.Errorf("failed to load table: %w", err)
		}
		if table.CafeID != cafe.ID {
			return nil, ErrTableNotFound
		}
		if !table.IsActive {
			return nil, ErrTableInactive
		}
	}

	priced, err := s.pricing.PriceOrder(req, cafe)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	estimatedReady := now.Add(time.Duration(priced.PrepMinutes) * time.Minute)

	order := &models.Order{
		ID:               utils.GenerateID("ord"),
		OrderNumber:      utils.GenerateOrderNumber(),
		CafeID:           cafe.ID,
		TableID:          req.TableID,
		CustomerID:       req.CustomerID,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		OrderType:        req.OrderType,
		Items:            priced.Items,
		Subtotal:         priced.Subtotal,
		TaxAmount:        priced.TaxAmount,
		DeliveryFee:      priced.DeliveryFee,
		DiscountAmount:   priced.DiscountAmount,
		TotalAmount:      priced.TotalAmount,
		Status:           models.StatusPending,
		PaymentStatus:    models.PaymentPending,
		EstimatedMinutes: priced.PrepMinutes,
		EstimatedReadyAt: &estimatedReady,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for i := range order.Items {
		order.Items[i].ID = utils.GenerateID("itm")
		order.Items[i].OrderID = order.ID
	}

	if cafe.Settings.AutoAcceptOrders {
		order.Status = models.StatusConfirmed
	}

	if err := s.store.SaveOrder(order); err != nil {
		s.log.Error("ORDER", fmt.Sprintf("Failed to save order %s: %v", order.OrderNumber, err))
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.log.LogOrder("CREATE", order.OrderNumber, fmt.Sprintf("%d items, total %.2f, ready in %d min",
		len(order.Items), order.TotalAmount, order.EstimatedMinutes))

	s.emitEvent(models.EventOrderCreated, order)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.store.GetOrder(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.store.GetOrderByNumber(orderNumber)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// UpdateStatus applies the new status without transition validation: any
// status may follow any other. A supplied estimate recomputes the ready
// timestamp from now, discarding the creation-relative one.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, req *models.UpdateOrderStatusRequest) (*models.Order, error) {
	if !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = req.Status
	order.UpdatedAt = time.Now()

	if req.EstimatedMinutes != nil {
		order.EstimatedMinutes = *req.EstimatedMinutes
		ready := time.Now().Add(time.Duration(*req.EstimatedMinutes) * time.Minute)
		order.EstimatedReadyAt = &ready
	}
	if req.Status == models.StatusReady && order.ReadyAt == nil {
		now := time.Now()
		order.ReadyAt = &now
	}

	if err := s.store.UpdateOrder(order); err != nil {
		s.log.Error("ORDER", fmt.Sprintf("Failed to update order %s: %v", order.OrderNumber, err))
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.log.LogOrder("STATUS", order.OrderNumber, fmt.Sprintf("%s -> %s", previous, order.Status))

	s.emitEvent(models.EventOrderStatusChanged, order)
	return order, nil
}

// ProcessPayment records the payment outcome on the order. Card payments go
// through Stripe when a key is configured; cash is recorded directly.
// Payment status is tracked independently of order status.
func (s *OrderService) ProcessPayment(ctx context.Context, orderID string, req *models.OrderPaymentRequest) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.PaymentPaid
	}
	if !status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}

	if req.Method == "card" {
		if s.stripe == nil {
			return nil, ErrCardNotSupported
		}
		result, err := s.stripe.ChargeOrder(ctx, order, req)
		if err != nil {
			order.PaymentStatus = models.PaymentFailed
			order.UpdatedAt = time.Now()
			if updateErr := s.store.UpdateOrder(order); updateErr != nil {
				s.log.Error("PAYMENT", fmt.Sprintf("Failed to record failed payment for %s: %v", order.OrderNumber, updateErr))
			}
			s.log.LogPayment("FAILED", order.OrderNumber, err.Error())
			return nil, err
		}
		s.log.LogPayment("CHARGED", order.OrderNumber, fmt.Sprintf("txn %s for %.2f", result.TransactionID, result.Amount))
		status = models.PaymentPaid
	}

	order.PaymentStatus = status
	order.UpdatedAt = time.Now()

	if err := s.store.UpdateOrder(order); err != nil {
		return nil, fmt.Errorf("failed to update order payment: %w", err)
	}

	s.log.LogPayment("RECORDED", order.OrderNumber, fmt.Sprintf("method %s, status %s", req.Method, order.PaymentStatus))

	s.emitEvent(models.EventPaymentProcessed, order)
	return order, nil
}

func (s *OrderService) ListByCafe(ctx context.Context, cafeID string, filter models.OrderListFilter) ([]*models.Order, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	orders, err := s.store.ListOrdersByCafe(cafeID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListActive returns the orders a live kitchen still cares about, newest
// first, excluding terminal states.
func (s *OrderService) ListActive(ctx context.Context, cafeID string) ([]*models.Order, error) {
	orders, err := s.store.ListOrdersByCafe(cafeID, models.OrderListFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	active := make([]*models.Order, 0, len(orders))
	for _, order := range orders {
		if !order.Status.Terminal() {
			active = append(active, order)
		}
	}
	return active, nil
}

func (s *OrderService) emitEvent(eventType string, order *models.Order) {
	event := &models.OrderEvent{
		Type:          eventType,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CafeID:        order.CafeID,
		TableID:       order.TableID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount,
		Timestamp:     time.Now(),
	}

	if err := s.producer.PublishOrderEvent(event); err != nil {
		// Fan-out is best effort; the order itself is already persisted.
		s.log.Error("KAFKA", fmt.Sprintf("Failed to publish %s for %s: %v", eventType, order.OrderNumber, err))
	}

	wsEvent := models.Event{Type: eventType, Payload: order}
	s.notifier.NotifyVenue(order.CafeID, wsEvent)
	if order.CustomerID != "" {
		s.notifier.NotifyUser(order.CustomerID, wsEvent)
	}
	s.notifier.NotifyAdmins(wsEvent)
}
