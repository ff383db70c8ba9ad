package services

import (
	"context"
	"sort"
	"time"

	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/storage"
)

const recentOrderCount = 10

type DashboardService struct {
	store storage.Store
	log   *logger.Logger
}

func NewDashboardService(store storage.Store, log *logger.Logger) *DashboardService {
	return &DashboardService{store: store, log: log}
}

// Summary reduces the cafe's orders and tables into the overview the
// operator dashboard polls. Revenue figures only count paid orders.
func (s *DashboardService) Summary(ctx context.Context, cafeID string) (*models.DashboardSummary, error) {
	orders, err := s.store.ListOrdersByCafe(cafeID, models.OrderListFilter{})
	if err != nil {
		return nil, err
	}
	tables, err := s.store.ListTables(cafeID, false)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -6)
	monthStart := dayStart.AddDate(0, 0, -29)

	summary := &models.DashboardSummary{
		CafeID:         cafeID,
		OrdersByStatus: make(map[models.OrderStatus]int),
		TablesTotal:    len(tables),
	}

	occupied := make(map[string]bool)
	for _, order := range orders {
		summary.OrdersByStatus[order.Status]++
		if !order.Status.Terminal() {
			summary.ActiveOrders++
			if order.TableID != "" {
				occupied[order.TableID] = true
			}
		}
		if order.PaymentStatus == models.PaymentPaid {
			switch {
			case !order.CreatedAt.Before(dayStart):
				summary.RevenueToday += order.TotalAmount
				summary.RevenueWeek += order.TotalAmount
				summary.RevenueMonth += order.TotalAmount
			case !order.CreatedAt.Before(weekStart):
				summary.RevenueWeek += order.TotalAmount
				summary.RevenueMonth += order.TotalAmount
			case !order.CreatedAt.Before(monthStart):
				summary.RevenueMonth += order.TotalAmount
			}
		}
	}
	summary.TablesOccupied = len(occupied)

	if len(orders) > recentOrderCount {
		summary.RecentOrders = orders[:recentOrderCount]
	} else {
		summary.RecentOrders = orders
	}
	return summary, nil
}

// RevenueSeries returns one point per day over the trailing window,
// including zero-revenue days so charts render a continuous axis.
func (s *DashboardService) RevenueSeries(ctx context.Context, cafeID string, days int) ([]models.RevenuePoint, error) {
	if days <= 0 {
		days = 7
	}
	orders, err := s.store.ListOrdersByCafe(cafeID, models.OrderListFilter{})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowStart := dayStart.AddDate(0, 0, -(days - 1))

	byDay := make(map[string]*models.RevenuePoint, days)
	for i := 0; i < days; i++ {
		date := windowStart.AddDate(0, 0, i).Format("2006-01-02")
		byDay[date] = &models.RevenuePoint{Date: date}
	}
	for _, order := range orders {
		if order.PaymentStatus != models.PaymentPaid || order.CreatedAt.Before(windowStart) {
			continue
		}
		point, ok := byDay[order.CreatedAt.Format("2006-01-02")]
		if !ok {
			continue
		}
		point.Revenue += order.TotalAmount
		point.Orders++
	}

	series := make([]models.RevenuePoint, 0, days)
	for i := 0; i < days; i++ {
		date := windowStart.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, *byDay[date])
	}
	return series, nil
}

// PopularItems ranks menu items by total quantity sold across paid orders.
func (s *DashboardService) PopularItems(ctx context.Context, cafeID string, limit int) ([]models.PopularItem, error) {
	if limit <= 0 {
		limit = 5
	}
	orders, err := s.store.ListOrdersByCafe(cafeID, models.OrderListFilter{})
	if err != nil {
		return nil, err
	}

	byItem := make(map[string]*models.PopularItem)
	for _, order := range orders {
		if order.PaymentStatus != models.PaymentPaid {
			continue
		}
		for _, line := range order.Items {
			item, ok := byItem[line.MenuItemID]
			if !ok {
				item = &models.PopularItem{MenuItemID: line.MenuItemID, Name: line.ItemName}
				byItem[line.MenuItemID] = item
			}
			item.Quantity += line.Quantity
			item.Revenue += line.TotalPrice
		}
	}

	ranked := make([]models.PopularItem, 0, len(byItem))
	for _, item := range byItem {
		ranked = append(ranked, *item)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].Revenue > ranked[j].Revenue
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// StatusBreakdown returns counts per order status in a stable order.
func (s *DashboardService) StatusBreakdown(ctx context.Context, cafeID string) ([]models.StatusCount, error) {
	orders, err := s.store.ListOrdersByCafe(cafeID, models.OrderListFilter{})
	if err != nil {
		return nil, err
	}
	counts := make(map[models.OrderStatus]int)
	for _, order := range orders {
		counts[order.Status]++
	}
	statuses := []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusPreparing, models.StatusReady,
		models.StatusOutForDelivery, models.StatusServed, models.StatusDelivered, models.StatusCancelled,
	}
	breakdown := make([]models.StatusCount, 0, len(statuses))
	for _, status := range statuses {
		breakdown = append(breakdown, models.StatusCount{Status: status, Count: counts[status]})
	}
	return breakdown, nil
}
