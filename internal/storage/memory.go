package storage

import (
	"sort"
	"strings"
	"sync"

	"cafehub/internal/models"
)

// InMemoryStore backs tests and broker-less development runs.
type InMemoryStore struct {
	mutex         sync.RWMutex
	users         map[string]*models.User
	cafes         map[string]*models.Cafe
	categories    map[string]*models.Category
	menuItems     map[string]*models.MenuItem
	tables        map[string]*models.Table
	orders        map[string]*models.Order
	notifications map[string]*models.Notification
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:         make(map[string]*models.User),
		cafes:         make(map[string]*models.Cafe),
		categories:    make(map[string]*models.Category),
		menuItems:     make(map[string]*models.MenuItem),
		tables:        make(map[string]*models.Table),
		orders:        make(map[string]*models.Order),
		notifications: make(map[string]*models.Notification),
	}
}

func (s *InMemoryStore) SaveUser(user *models.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *InMemoryStore) GetUser(id string) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	user, exists := s.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *InMemoryStore) GetUserByEmail(email string) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) UpdateUser(user *models.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.users[user.ID]; !exists {
		return ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *InMemoryStore) SaveCafe(cafe *models.Cafe) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.cafes[cafe.ID] = cafe
	return nil
}

func (s *InMemoryStore) GetCafe(id string) (*models.Cafe, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	cafe, exists := s.cafes[id]
	if !exists {
		return nil, ErrNotFound
	}
	return cafe, nil
}

func (s *InMemoryStore) ListCafes(activeOnly bool) ([]*models.Cafe, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var cafes []*models.Cafe
	for _, cafe := range s.cafes {
		if activeOnly && !cafe.IsActive {
			continue
		}
		cafes = append(cafes, cafe)
	}
	sort.Slice(cafes, func(i, j int) bool {
		return cafes[i].CreatedAt.After(cafes[j].CreatedAt)
	})
	return cafes, nil
}

func (s *InMemoryStore) ListCafesByOwner(ownerID string) ([]*models.Cafe, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var cafes []*models.Cafe
	for _, cafe := range s.cafes {
		if cafe.OwnerID == ownerID {
			cafes = append(cafes, cafe)
		}
	}
	sort.Slice(cafes, func(i, j int) bool {
		return cafes[i].CreatedAt.After(cafes[j].CreatedAt)
	})
	return cafes, nil
}

func (s *InMemoryStore) UpdateCafe(cafe *models.Cafe) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.cafes[cafe.ID]; !exists {
		return ErrNotFound
	}
	s.cafes[cafe.ID] = cafe
	return nil
}

func (s *InMemoryStore) SaveCategory(category *models.Category) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.categories[category.ID] = category
	return nil
}

func (s *InMemoryStore) GetCategory(id string) (*models.Category, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	category, exists := s.categories[id]
	if !exists {
		return nil, ErrNotFound
	}
	return category, nil
}

func (s *InMemoryStore) ListCategories(cafeID string) ([]*models.Category, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var categories []*models.Category
	for _, category := range s.categories {
		if category.CafeID == cafeID {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].DisplayOrder < categories[j].DisplayOrder
	})
	return categories, nil
}

func (s *InMemoryStore) UpdateCategory(category *models.Category) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.categories[category.ID]; !exists {
		return ErrNotFound
	}
	s.categories[category.ID] = category
	return nil
}

func (s *InMemoryStore) DeleteCategory(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.categories[id]; !exists {
		return ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *InMemoryStore) SaveMenuItem(item *models.MenuItem) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.menuItems[item.ID] = item
	return nil
}

func (s *InMemoryStore) GetMenuItem(id string) (*models.MenuItem, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	item, exists := s.menuItems[id]
	if !exists {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *InMemoryStore) ListMenuItems(cafeID string) ([]*models.MenuItem, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var items []*models.MenuItem
	for _, item := range s.menuItems {
		if item.CafeID == cafeID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].DisplayOrder < items[j].DisplayOrder
	})
	return items, nil
}

func (s *InMemoryStore) UpdateMenuItem(item *models.MenuItem) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.menuItems[item.ID]; !exists {
		return ErrNotFound
	}
	s.menuItems[item.ID] = item
	return nil
}

func (s *InMemoryStore) DeleteMenuItem(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.menuItems[id]; !exists {
		return ErrNotFound
	}
	delete(s.menuItems, id)
	return nil
}

func (s *InMemoryStore) SaveTable(table *models.Table) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tables[table.ID] = table
	return nil
}

func (s *InMemoryStore) GetTable(id string) (*models.Table, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	table, exists := s.tables[id]
	if !exists {
		return nil, ErrNotFound
	}
	return table, nil
}

func (s *InMemoryStore) GetTableByNumber(cafeID string, number int) (*models.Table, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, table := range s.tables {
		if table.CafeID == cafeID && table.Number == number {
			return table, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) ListTables(cafeID string, activeOnly bool) ([]*models.Table, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var tables []*models.Table
	for _, table := range s.tables {
		if table.CafeID != cafeID {
			continue
		}
		if activeOnly && !table.IsActive {
			continue
		}
		tables = append(tables, table)
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].Number < tables[j].Number
	})
	return tables, nil
}

func (s *InMemoryStore) UpdateTable(table *models.Table) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.tables[table.ID]; !exists {
		return ErrNotFound
	}
	s.tables[table.ID] = table
	return nil
}

func (s *InMemoryStore) DeleteTable(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.tables[id]; !exists {
		return ErrNotFound
	}
	delete(s.tables, id)
	return nil
}

func (s *InMemoryStore) SaveOrder(order *models.Order) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.orders[order.ID] = order
	return nil
}

func (s *InMemoryStore) GetOrder(id string) (*models.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	order, exists := s.orders[id]
	if !exists {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *InMemoryStore) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, order := range s.orders {
		if order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) ListOrdersByCafe(cafeID string, filter models.OrderListFilter) ([]*models.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var orders []*models.Order
	for _, order := range s.orders {
		if order.CafeID != cafeID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.OrderType != "" && order.OrderType != filter.OrderType {
			continue
		}
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if filter.Limit > 0 && len(orders) > filter.Limit {
		orders = orders[:filter.Limit]
	}
	return orders, nil
}

func (s *InMemoryStore) ListOrdersByTable(tableID string, statuses []models.OrderStatus) ([]*models.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var orders []*models.Order
	for _, order := range s.orders {
		if order.TableID != tableID {
			continue
		}
		if len(statuses) > 0 {
			matched := false
			for _, status := range statuses {
				if order.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *InMemoryStore) UpdateOrder(order *models.Order) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.orders[order.ID]; !exists {
		return ErrNotFound
	}
	s.orders[order.ID] = order
	return nil
}

func (s *InMemoryStore) SaveNotification(n *models.Notification) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.notifications[n.ID] = n
	return nil
}

func (s *InMemoryStore) GetNotification(id string) (*models.Notification, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	n, exists := s.notifications[id]
	if !exists {
		return nil, ErrNotFound
	}
	return n, nil
}

func (s *InMemoryStore) ListNotifications(recipientID string, unreadOnly bool) ([]*models.Notification, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var notifications []*models.Notification
	for _, n := range s.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		notifications = append(notifications, n)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (s *InMemoryStore) UpdateNotification(n *models.Notification) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.notifications[n.ID]; !exists {
		return ErrNotFound
	}
	s.notifications[n.ID] = n
	return nil
}

func (s *InMemoryStore) MarkAllNotificationsRead(recipientID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}
