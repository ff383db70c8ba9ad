package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// CafeSettings is persisted as a JSON column on the cafes table.
type CafeSettings struct {
	DeliveryAvailable  bool    `json:"delivery_available"`
	DeliveryFee        float64 `json:"delivery_fee"`
	MinOrderAmount     float64 `json:"min_order_amount"`
	DefaultPrepMinutes int     `json:"default_prep_minutes"`
	AutoAcceptOrders   bool    `json:"auto_accept_orders"`
}

func (s *CafeSettings) Scan(value interface{}) error {
	if value == nil {
		*s = CafeSettings{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan CafeSettings: %v", value)
	}
	return json.Unmarshal(bytes, s)
}

func (s CafeSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

type OperatingHours struct {
	Day       string `json:"day"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsClosed  bool   `json:"is_closed"`
}

type HoursList []OperatingHours

func (h *HoursList) Scan(value interface{}) error {
	if value == nil {
		*h = HoursList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan HoursList: %v", value)
	}
	return json.Unmarshal(bytes, h)
}

func (h HoursList) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	return json.Marshal(h)
}

type Cafe struct {
	bun.BaseModel `bun:"table:cafes"`

	ID          string       `json:"id" bun:"id,pk"`
	OwnerID     string       `json:"owner_id" bun:"owner_id"`
	Name        string       `json:"name" bun:"name"`
	Description string       `json:"description" bun:"description"`
	Phone       string       `json:"phone" bun:"phone"`
	Email       string       `json:"email" bun:"email"`
	Address     string       `json:"address" bun:"address"`
	Latitude    float64      `json:"latitude" bun:"latitude"`
	Longitude   float64      `json:"longitude" bun:"longitude"`
	Cuisine     string       `json:"cuisine" bun:"cuisine"`
	PriceRange  string       `json:"price_range" bun:"price_range"`
	Hours       HoursList    `json:"hours" bun:"hours"`
	Settings    CafeSettings `json:"settings" bun:"settings"`
	LogoURL     string       `json:"logo_url" bun:"logo_url"`
	IsActive    bool         `json:"is_active" bun:"is_active"`
	RatingTotal float64      `json:"-" bun:"rating_total"`
	RatingCount int          `json:"-" bun:"rating_count"`
	CreatedAt   time.Time    `json:"created_at" bun:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bun:"updated_at"`
}

// Rating is the displayed average; zero until the first rating lands.
func (c *Cafe) Rating() float64 {
	if c.RatingCount == 0 {
		return 0
	}
	return c.RatingTotal / float64(c.RatingCount)
}

type CafeResponse struct {
	*Cafe
	Rating float64 `json:"rating"`
}

func NewCafeResponse(c *Cafe) CafeResponse {
	return CafeResponse{Cafe: c, Rating: c.Rating()}
}

type CreateCafeRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email"`
	Address     string       `json:"address"`
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	Cuisine     string       `json:"cuisine"`
	PriceRange  string       `json:"price_range"`
	Hours       HoursList    `json:"hours"`
	Settings    CafeSettings `json:"settings"`
}

type UpdateCafeRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Phone       *string       `json:"phone"`
	Email       *string       `json:"email"`
	Address     *string       `json:"address"`
	Latitude    *float64      `json:"latitude"`
	Longitude   *float64      `json:"longitude"`
	Cuisine     *string       `json:"cuisine"`
	PriceRange  *string       `json:"price_range"`
	Hours       *HoursList    `json:"hours"`
	Settings    *CafeSettings `json:"settings"`
}

type RateCafeRequest struct {
	Rating float64 `json:"rating" binding:"required,gte=1,lte=5"`
}
