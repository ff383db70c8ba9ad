package models

import (
	"time"

	"github.com/uptrace/bun"
)

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	}
	return false
}

// OrderStatus is not constrained by a transition graph: any status may
// follow any other. Terminal statuses only matter for the active-orders view.
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusReady          OrderStatus = "READY"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusServed         OrderStatus = "SERVED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusServed, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusServed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ActiveStatuses are the statuses a live kitchen still cares about.
var ActiveStatuses = []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusOutForDelivery}

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "PENDING"
	PaymentProcessing        PaymentStatus = "PROCESSING"
	PaymentPaid              PaymentStatus = "PAID"
	PaymentFailed            PaymentStatus = "FAILED"
	PaymentRefunded          PaymentStatus = "REFUNDED"
	PaymentPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentPaid, PaymentFailed,
		PaymentRefunded, PaymentPartiallyRefunded:
		return true
	}
	return false
}

type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	ID         string  `json:"id" bun:"id,pk"`
	OrderID    string  `json:"order_id" bun:"order_id"`
	MenuItemID string  `json:"menu_item_id" bun:"menu_item_id"`
	ItemName   string  `json:"item_name" bun:"item_name"`
	Variant    string  `json:"variant,omitempty" bun:"variant"`
	Quantity   int     `json:"quantity" bun:"quantity"`
	UnitPrice  float64 `json:"unit_price" bun:"unit_price"`
	TotalPrice float64 `json:"total_price" bun:"total_price"`
	Note       string  `json:"note,omitempty" bun:"note"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID               string        `json:"id" bun:"id,pk"`
	OrderNumber      string        `json:"order_number" bun:"order_number"`
	CafeID           string        `json:"cafe_id" bun:"cafe_id"`
	TableID          string        `json:"table_id,omitempty" bun:"table_id"`
	CustomerID       string        `json:"customer_id,omitempty" bun:"customer_id"`
	CustomerName     string        `json:"customer_name,omitempty" bun:"customer_name"`
	CustomerPhone    string        `json:"customer_phone,omitempty" bun:"customer_phone"`
	OrderType        OrderType     `json:"order_type" bun:"order_type"`
	Items            []OrderItem   `json:"items" bun:"-"`
	Subtotal         float64       `json:"subtotal" bun:"subtotal"`
	TaxAmount        float64       `json:"tax_amount" bun:"tax_amount"`
	DeliveryFee      float64       `json:"delivery_fee" bun:"delivery_fee"`
	DiscountAmount   float64       `json:"discount_amount" bun:"discount_amount"`
	TotalAmount      float64       `json:"total_amount" bun:"total_amount"`
	Status           OrderStatus   `json:"status" bun:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status" bun:"payment_status"`
	EstimatedMinutes int           `json:"estimated_minutes" bun:"estimated_minutes"`
	EstimatedReadyAt *time.Time    `json:"estimated_ready_at,omitempty" bun:"estimated_ready_at"`
	ReadyAt          *time.Time    `json:"ready_at,omitempty" bun:"ready_at"`
	CreatedAt        time.Time     `json:"created_at" bun:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" bun:"updated_at"`
}

type OrderItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Variant    string `json:"variant"`
	Quantity   int    `json:"quantity" binding:"required,gte=1"`
	Note       string `json:"note"`
}

type CreateOrderRequest struct {
	CafeID         string             `json:"cafe_id" binding:"required"`
	TableID        string             `json:"table_id"`
	CustomerID     string             `json:"customer_id"`
	CustomerName   string             `json:"customer_name"`
	CustomerPhone  string             `json:"customer_phone"`
	OrderType      OrderType          `json:"order_type" binding:"required"`
	Items          []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountAmount float64            `json:"discount_amount" binding:"gte=0"`
}

type UpdateOrderStatusRequest struct {
	Status           OrderStatus `json:"status" binding:"required"`
	EstimatedMinutes *int        `json:"estimated_minutes"`
}

type OrderListFilter struct {
	Status    OrderStatus
	OrderType OrderType
	Limit     int
}

type OrderPaymentRequest struct {
	Method string             `json:"method" binding:"required,oneof=cash card"`
	Status PaymentStatus      `json:"status"`
	Card   *StripeCardDetails `json:"card,omitempty"`
	Token  string             `json:"token,omitempty"`
}
