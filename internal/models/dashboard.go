package models

// DashboardSummary is the role-facing overview for one cafe, reduced in
// memory from the order and table collections on every call.
type DashboardSummary struct {
	CafeID         string              `json:"cafe_id"`
	OrdersByStatus map[OrderStatus]int `json:"orders_by_status"`
	ActiveOrders   int                 `json:"active_orders"`
	TablesTotal    int                 `json:"tables_total"`
	TablesOccupied int                 `json:"tables_occupied"`
	RevenueToday   float64             `json:"revenue_today"`
	RevenueWeek    float64             `json:"revenue_week"`
	RevenueMonth   float64             `json:"revenue_month"`
	RecentOrders   []*Order            `json:"recent_orders"`
}

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type PopularItem struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int         `json:"count"`
}
