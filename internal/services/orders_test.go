package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/storage"
)

// MockPublisher implements kafka.EventPublisher for testing.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderEvent(event *models.OrderEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// recordingNotifier captures fan-out calls for assertions.
type recordingNotifier struct {
	venueEvents []models.Event
	userEvents  []models.Event
	adminEvents []models.Event
}

func (r *recordingNotifier) NotifyVenue(cafeID string, event models.Event) {
	r.venueEvents = append(r.venueEvents, event)
}

func (r *recordingNotifier) NotifyUser(userID string, event models.Event) {
	r.userEvents = append(r.userEvents, event)
}

func (r *recordingNotifier) NotifyAdmins(event models.Event) {
	r.adminEvents = append(r.adminEvents, event)
}

func newOrderServiceForTest(t *testing.T, store storage.Store) (*OrderService, *MockPublisher, *recordingNotifier) {
	t.Helper()
	publisher := new(MockPublisher)
	publisher.On("PublishOrderEvent", mock.AnythingOfType("*models.OrderEvent")).Return(nil)
	notifier := &recordingNotifier{}
	log := logger.NewLogger()
	t.Cleanup(log.Close)
	svc := NewOrderService(store, NewPricingService(store), publisher, notifier, nil, log)
	return svc, publisher, notifier
}

func TestCreateOrder(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{DefaultPrepMinutes: 15})
	seedMenuItem(t, store, &models.MenuItem{
		ID: "item_1", CafeID: cafe.ID, Name: "Margherita", BasePrice: 100, PrepMinutes: 15, IsAvailable: true,
	})
	require.NoError(t, store.SaveTable(&models.Table{ID: "tbl_1", CafeID: cafe.ID, Number: 1, Capacity: 4, IsActive: true}))

	svc, publisher, notifier := newOrderServiceForTest(t, store)

	order, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CafeID:    cafe.ID,
		TableID:   "tbl_1",
		OrderType: models.OrderTypeDineIn,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, 210.0, order.TotalAmount)
	assert.Equal(t, 25, order.EstimatedMinutes)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD"))
	require.NotNil(t, order.EstimatedReadyAt)
	assert.WithinDuration(t, time.Now().Add(25*time.Minute), *order.EstimatedReadyAt, 5*time.Second)

	stored, err := store.GetOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, order.ID, stored.Items[0].OrderID)

	publisher.AssertCalled(t, "PublishOrderEvent", mock.AnythingOfType("*models.OrderEvent"))
	require.Len(t, notifier.venueEvents, 1)
	assert.Equal(t, models.EventOrderCreated, notifier.venueEvents[0].Type)
	require.Len(t, notifier.adminEvents, 1)
	assert.Empty(t, notifier.userEvents, "anonymous orders have no user channel")
}

func TestCreateOrderAutoAccept(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{DefaultPrepMinutes: 10, AutoAcceptOrders: true})
	seedMenuItem(t, store, &models.MenuItem{
		ID: "item_1", CafeID: cafe.ID, Name: "Flat White", BasePrice: 5, IsAvailable: true,
	})

	svc, _, _ := newOrderServiceForTest(t, store)

	order, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeTakeaway,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, order.Status)
}

func TestCreateOrderRejectsInactiveCafeAndTable(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{})
	seedMenuItem(t, store, &models.MenuItem{
		ID: "item_1", CafeID: cafe.ID, Name: "Mocha", BasePrice: 5, IsAvailable: true,
	})
	require.NoError(t, store.SaveTable(&models.Table{ID: "tbl_off", CafeID: cafe.ID, Number: 2, Capacity: 2, IsActive: false}))

	svc, _, _ := newOrderServiceForTest(t, store)

	req := &models.CreateOrderRequest{
		CafeID:    cafe.ID,
		TableID:   "tbl_off",
		OrderType: models.OrderTypeDineIn,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 1}},
	}
	_, err := svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrTableInactive)

	req.TableID = "tbl_missing"
	_, err = svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrTableNotFound)

	cafe.IsActive = false
	require.NoError(t, store.UpdateCafe(cafe))
	req.TableID = ""
	_, err = svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrCafeInactive)
}

func TestUpdateStatusAllowsAnyTransition(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{DefaultPrepMinutes: 10})
	seedMenuItem(t, store, &models.MenuItem{
		ID: "item_1", CafeID: cafe.ID, Name: "Toastie", BasePrice: 8, IsAvailable: true,
	})

	svc, _, notifier := newOrderServiceForTest(t, store)

	order, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeTakeaway,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, order.Status)

	// No transition graph: a pending order may jump straight to served.
	updated, err := svc.UpdateStatus(context.Background(), order.ID, &models.UpdateOrderStatusRequest{
		Status: models.StatusServed,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusServed, updated.Status)
	assert.Equal(t, models.PaymentPending, updated.PaymentStatus, "payment status tracks independently")

	assert.Equal(t, models.EventOrderStatusChanged, notifier.venueEvents[len(notifier.venueEvents)-1].Type)

	_, err = svc.UpdateStatus(context.Background(), order.ID, &models.UpdateOrderStatusRequest{Status: "BOGUS"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusRecomputesEstimate(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{DefaultPrepMinutes: 10})
	seedMenuItem(t, store, &models.MenuItem{
		ID: "item_1", CafeID: cafe.ID, Name: "Bagel", BasePrice: 6, IsAvailable: true,
	})

	svc, _, _ := newOrderServiceForTest(t, store)

	order, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeTakeaway,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 1}},
	})
	require.NoError(t, err)

	minutes := 40
	updated, err := svc.UpdateStatus(context.Background(), order.ID, &models.UpdateOrderStatusRequest{
		Status:           models.StatusPreparing,
		EstimatedMinutes: &minutes,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.EstimatedMinutes)
	require.NotNil(t, updated.EstimatedReadyAt)
	assert.WithinDuration(t, time.Now().Add(40*time.Minute), *updated.EstimatedReadyAt, 5*time.Second)

	ready, err := svc.UpdateStatus(context.Background(), order.ID, &models.UpdateOrderStatusRequest{
		Status: models.StatusReady,
	})
	require.NoError(t, err)
	require.NotNil(t, ready.ReadyAt)
}

func TestProcessCashPayment(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{DefaultPrepMinutes: 10})
	seedMenuItem(t, store, &models.MenuItem{
		ID: "item_1", CafeID: cafe.ID, Name: "Juice", BasePrice: 4, IsAvailable: true,
	})

	svc, _, notifier := newOrderServiceForTest(t, store)

	order, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeTakeaway,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 1}},
	})
	require.NoError(t, err)

	paid, err := svc.ProcessPayment(context.Background(), order.ID, &models.OrderPaymentRequest{Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, models.EventPaymentProcessed, notifier.venueEvents[len(notifier.venueEvents)-1].Type)

	// Card payments require a configured Stripe service.
	_, err = svc.ProcessPayment(context.Background(), order.ID, &models.OrderPaymentRequest{Method: "card"})
	assert.ErrorIs(t, err, ErrCardNotSupported)
}

func TestListActiveExcludesTerminalOrders(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{DefaultPrepMinutes: 10})
	seedMenuItem(t, store, &models.MenuItem{
		ID: "item_1", CafeID: cafe.ID, Name: "Wrap", BasePrice: 9, IsAvailable: true,
	})

	svc, _, _ := newOrderServiceForTest(t, store)

	first, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeTakeaway,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 1}},
	})
	require.NoError(t, err)
	second, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeTakeaway,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), first.ID, &models.UpdateOrderStatusRequest{Status: models.StatusCancelled})
	require.NoError(t, err)

	active, err := svc.ListActive(context.Background(), cafe.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)
}
