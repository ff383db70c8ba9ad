package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafehub/internal/models"
	"cafehub/internal/storage"
)

func seedCafe(t *testing.T, store storage.Store, settings models.CafeSettings) *models.Cafe {
	t.Helper()
	cafe := &models.Cafe{
		ID:       "cafe_1",
		OwnerID:  "usr_owner",
		Name:     "Test Cafe",
		Settings: settings,
		IsActive: true,
	}
	require.NoError(t, store.SaveCafe(cafe))
	return cafe
}

func seedMenuItem(t *testing.T, store storage.Store, item *models.MenuItem) *models.MenuItem {
	t.Helper()
	require.NoError(t, store.SaveMenuItem(item))
	return item
}

func TestPriceOrderDineIn(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{DeliveryFee: 20, DefaultPrepMinutes: 15})
	seedMenuItem(t, store, &models.MenuItem{
		ID:          "item_1",
		CafeID:      cafe.ID,
		Name:        "Margherita",
		BasePrice:   100,
		PrepMinutes: 15,
		IsAvailable: true,
	})

	pricing := NewPricingService(store)
	priced, err := pricing.PriceOrder(&models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeDineIn,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 2}},
	}, cafe)
	require.NoError(t, err)

	assert.Equal(t, 200.0, priced.Subtotal)
	assert.Equal(t, 10.0, priced.TaxAmount)
	assert.Equal(t, 0.0, priced.DeliveryFee, "delivery fee must not apply to dine-in")
	assert.Equal(t, 210.0, priced.TotalAmount)
	assert.Equal(t, 25, priced.PrepMinutes)
	require.Len(t, priced.Items, 1)
	assert.Equal(t, 100.0, priced.Items[0].UnitPrice)
	assert.Equal(t, 200.0, priced.Items[0].TotalPrice)
}

func TestPriceOrderVariantModifier(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{DefaultPrepMinutes: 15})
	seedMenuItem(t, store, &models.MenuItem{
		ID:          "item_1",
		CafeID:      cafe.ID,
		Name:        "Latte",
		BasePrice:   4.50,
		Variants:    models.VariantList{{Name: "large", PriceModifier: 1.25}},
		PrepMinutes: 5,
		IsAvailable: true,
	})

	pricing := NewPricingService(store)
	priced, err := pricing.PriceOrder(&models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeTakeaway,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Variant: "large", Quantity: 2}},
	}, cafe)
	require.NoError(t, err)

	assert.Equal(t, 5.75, priced.Items[0].UnitPrice)
	assert.Equal(t, 11.5, priced.Subtotal)

	_, err = pricing.PriceOrder(&models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeTakeaway,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Variant: "venti", Quantity: 1}},
	}, cafe)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestPriceOrderDeliveryFeeAndMinimum(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{
		DeliveryAvailable: true,
		DeliveryFee:       15,
		MinOrderAmount:    50,
	})
	seedMenuItem(t, store, &models.MenuItem{
		ID:          "item_1",
		CafeID:      cafe.ID,
		Name:        "Burger",
		BasePrice:   60,
		PrepMinutes: 10,
		IsAvailable: true,
	})

	pricing := NewPricingService(store)
	priced, err := pricing.PriceOrder(&models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeDelivery,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 1}},
	}, cafe)
	require.NoError(t, err)
	assert.Equal(t, 15.0, priced.DeliveryFee)
	assert.Equal(t, 78.0, priced.TotalAmount) // 60 + 3 tax + 15 fee

	seedMenuItem(t, store, &models.MenuItem{
		ID:          "item_2",
		CafeID:      cafe.ID,
		Name:        "Fries",
		BasePrice:   20,
		IsAvailable: true,
	})
	_, err = pricing.PriceOrder(&models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeDelivery,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_2", Quantity: 1}},
	}, cafe)
	assert.ErrorIs(t, err, ErrBelowMinimumOrder)
}

func TestPriceOrderRejectsBadLines(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{DefaultPrepMinutes: 15})
	otherCafe := &models.Cafe{ID: "cafe_2", OwnerID: "usr_other", Name: "Other", IsActive: true}
	require.NoError(t, store.SaveCafe(otherCafe))

	seedMenuItem(t, store, &models.MenuItem{
		ID: "item_foreign", CafeID: otherCafe.ID, Name: "Foreign", BasePrice: 10, IsAvailable: true,
	})
	seedMenuItem(t, store, &models.MenuItem{
		ID: "item_off", CafeID: cafe.ID, Name: "Sold Out", BasePrice: 10, IsAvailable: false,
	})

	pricing := NewPricingService(store)

	_, err := pricing.PriceOrder(&models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeDineIn,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_missing", Quantity: 1}},
	}, cafe)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	_, err = pricing.PriceOrder(&models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeDineIn,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_foreign", Quantity: 1}},
	}, cafe)
	assert.ErrorIs(t, err, ErrMenuItemWrongCafe)

	_, err = pricing.PriceOrder(&models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeDineIn,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_off", Quantity: 1}},
	}, cafe)
	assert.ErrorIs(t, err, ErrMenuItemUnavailable)

	_, err = pricing.PriceOrder(&models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeDineIn,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_off", Quantity: 0}},
	}, cafe)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPriceOrderPrepFallsBackToCafeDefault(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{DefaultPrepMinutes: 20})
	seedMenuItem(t, store, &models.MenuItem{
		ID: "item_1", CafeID: cafe.ID, Name: "Tea", BasePrice: 3, IsAvailable: true,
	})

	pricing := NewPricingService(store)
	priced, err := pricing.PriceOrder(&models.CreateOrderRequest{
		CafeID:    cafe.ID,
		OrderType: models.OrderTypeDineIn,
		Items:     []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 1}},
	}, cafe)
	require.NoError(t, err)
	assert.Equal(t, 30, priced.PrepMinutes)
}

func TestPriceOrderRejectsNonPositiveTotal(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{})
	seedMenuItem(t, store, &models.MenuItem{
		ID: "item_1", CafeID: cafe.ID, Name: "Espresso", BasePrice: 2, IsAvailable: true,
	})

	pricing := NewPricingService(store)
	_, err := pricing.PriceOrder(&models.CreateOrderRequest{
		CafeID:         cafe.ID,
		OrderType:      models.OrderTypeDineIn,
		Items:          []models.OrderItemRequest{{MenuItemID: "item_1", Quantity: 1}},
		DiscountAmount: 10,
	}, cafe)
	assert.ErrorIs(t, err, ErrInvalidTotal)
}
