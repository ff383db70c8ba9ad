package models

import (
	"time"

	"github.com/uptrace/bun"
)

type NotificationType string

const (
	NotifOrderCreated NotificationType = "order_created"
	NotifOrderStatus  NotificationType = "order_status"
	NotifPayment      NotificationType = "payment"
	NotifTable        NotificationType = "table"
	NotifSystem       NotificationType = "system"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

type Notification struct {
	bun.BaseModel `bun:"table:notifications"`

	ID          string               `json:"id" bun:"id,pk"`
	RecipientID string               `json:"recipient_id" bun:"recipient_id"`
	Type        NotificationType     `json:"type" bun:"type"`
	Priority    NotificationPriority `json:"priority" bun:"priority"`
	Title       string               `json:"title" bun:"title"`
	Message     string               `json:"message" bun:"message"`
	Payload     JSONMap              `json:"payload,omitempty" bun:"payload"`
	IsRead      bool                 `json:"is_read" bun:"is_read"`
	CreatedAt   time.Time            `json:"created_at" bun:"created_at"`
}

type CreateNotificationRequest struct {
	RecipientID string               `json:"recipient_id" binding:"required"`
	Type        NotificationType     `json:"type" binding:"required"`
	Priority    NotificationPriority `json:"priority"`
	Title       string               `json:"title" binding:"required"`
	Message     string               `json:"message" binding:"required"`
	Payload     JSONMap              `json:"payload"`
}

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventPaymentProcessed   = "payment.processed"
	EventTableUpdated       = "table.updated"
	EventSystem             = "system"
)

// Event is the JSON envelope pushed over websocket connections.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// OrderEvent is published to kafka on every order state change.
type OrderEvent struct {
	Type          string        `json:"type"`
	OrderID       string        `json:"order_id"`
	OrderNumber   string        `json:"order_number"`
	CafeID        string        `json:"cafe_id"`
	TableID       string        `json:"table_id,omitempty"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TotalAmount   float64       `json:"total_amount"`
	Timestamp     time.Time     `json:"timestamp"`
}
