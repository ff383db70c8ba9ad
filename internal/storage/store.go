package storage

import (
	"errors"

	"cafehub/internal/models"
)

// ErrNotFound is returned for any missing row regardless of backend.
var ErrNotFound = errors.New("record not found")

type Store interface {
	// User operations
	SaveUser(user *models.User) error
	GetUser(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error

	// Cafe operations
	SaveCafe(cafe *models.Cafe) error
	GetCafe(id string) (*models.Cafe, error)
	ListCafes(activeOnly bool) ([]*models.Cafe, error)
	ListCafesByOwner(ownerID string) ([]*models.Cafe, error)
	UpdateCafe(cafe *models.Cafe) error

	// Menu operations
	SaveCategory(category *models.Category) error
	GetCategory(id string) (*models.Category, error)
	ListCategories(cafeID string) ([]*models.Category, error)
	UpdateCategory(category *models.Category) error
	DeleteCategory(id string) error

	SaveMenuItem(item *models.MenuItem) error
	GetMenuItem(id string) (*models.MenuItem, error)
	ListMenuItems(cafeID string) ([]*models.MenuItem, error)
	UpdateMenuItem(item *models.MenuItem) error
	DeleteMenuItem(id string) error

	// Table operations
	SaveTable(table *models.Table) error
	GetTable(id string) (*models.Table, error)
	GetTableByNumber(cafeID string, number int) (*models.Table, error)
	ListTables(cafeID string, activeOnly bool) ([]*models.Table, error)
	UpdateTable(table *models.Table) error
	DeleteTable(id string) error

	// Order operations
	SaveOrder(order *models.Order) error
	GetOrder(id string) (*models.Order, error)
	GetOrderByNumber(orderNumber string) (*models.Order, error)
	ListOrdersByCafe(cafeID string, filter models.OrderListFilter) ([]*models.Order, error)
	ListOrdersByTable(tableID string, statuses []models.OrderStatus) ([]*models.Order, error)
	UpdateOrder(order *models.Order) error

	// Notification operations
	SaveNotification(n *models.Notification) error
	GetNotification(id string) (*models.Notification, error)
	ListNotifications(recipientID string, unreadOnly bool) ([]*models.Notification, error)
	UpdateNotification(n *models.Notification) error
	MarkAllNotificationsRead(recipientID string) error
}
