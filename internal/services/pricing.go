package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"cafehub/internal/models"
	"cafehub/internal/storage"
)

const (
	// TaxRate is a flat 5% applied to every subtotal; it is not
	// venue-configurable.
	TaxRate = 0.05

	// PrepBufferMinutes is added on top of the slowest line item. The
	// estimate takes the max across items, not the sum: the kitchen
	// prepares lines in parallel.
	PrepBufferMinutes = 10
)

var (
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item unavailable")
	ErrMenuItemWrongCafe   = errors.New("menu item belongs to a different cafe")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrInvalidTotal        = errors.New("order total must be positive")
	ErrBelowMinimumOrder   = errors.New("order is below the cafe minimum")
)

// PricedOrder carries everything order creation derives from the line items.
type PricedOrder struct {
	Items          []models.OrderItem
	Subtotal       float64
	TaxAmount      float64
	DeliveryFee    float64
	DiscountAmount float64
	TotalAmount    float64
	PrepMinutes    int
}

type PricingService struct {
	store storage.Store
}

func NewPricingService(store storage.Store) *PricingService {
	return &PricingService{store: store}
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// PriceOrder resolves every line item against the catalog and computes the
// monetary fields and the preparation estimate. Any unresolvable,
// unavailable, or cross-cafe item fails the whole order.
func (s *PricingService) PriceOrder(req *models.CreateOrderRequest, cafe *models.Cafe) (*PricedOrder, error) {
	subtotal := decimal.Zero
	maxPrep := 0
	items := make([]models.OrderItem, 0, len(req.Items))

	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}

		menuItem, err := s.store.GetMenuItem(line.MenuItemID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrMenuItemNotFound, line.MenuItemID)
			}
			return nil, fmt.Errorf("failed to resolve menu item: %w", err)
		}
		if menuItem.CafeID != cafe.ID {
			return nil, fmt.Errorf("%w: %s", ErrMenuItemWrongCafe, menuItem.Name)
		}
		if !menuItem.IsAvailable {
			return nil, fmt.Errorf("%w: %s", ErrMenuItemUnavailable, menuItem.Name)
		}

		unitPrice := decimal.NewFromFloat(menuItem.BasePrice)
		if line.Variant != "" {
			variant, ok := menuItem.Variants.Find(line.Variant)
			if !ok {
				return nil, fmt.Errorf("%w: %s on %s", ErrVariantNotFound, line.Variant, menuItem.Name)
			}
			unitPrice = unitPrice.Add(decimal.NewFromFloat(variant.PriceModifier))
		}

		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		prep := menuItem.PrepMinutes
		if prep == 0 {
			prep = cafe.Settings.DefaultPrepMinutes
		}
		if prep > maxPrep {
			maxPrep = prep
		}

		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			ItemName:   menuItem.Name,
			Variant:    line.Variant,
			Quantity:   line.Quantity,
			UnitPrice:  round2(unitPrice),
			TotalPrice: round2(lineTotal),
			Note:       line.Note,
		})
	}

	tax := subtotal.Mul(decimal.NewFromFloat(TaxRate))

	// Delivery fee applies only to delivery orders.
	deliveryFee := decimal.Zero
	if req.OrderType == models.OrderTypeDelivery {
		deliveryFee = decimal.NewFromFloat(cafe.Settings.DeliveryFee)
		minOrder := decimal.NewFromFloat(cafe.Settings.MinOrderAmount)
		if minOrder.GreaterThan(decimal.Zero) && subtotal.LessThan(minOrder) {
			return nil, ErrBelowMinimumOrder
		}
	}

	discount := decimal.NewFromFloat(req.DiscountAmount)
	total := subtotal.Add(tax).Add(deliveryFee).Sub(discount)
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidTotal
	}

	return &PricedOrder{
		Items:          items,
		Subtotal:       round2(subtotal),
		TaxAmount:      round2(tax),
		DeliveryFee:    round2(deliveryFee),
		DiscountAmount: round2(discount),
		TotalAmount:    round2(total),
		PrepMinutes:    maxPrep + PrepBufferMinutes,
	}, nil
}
