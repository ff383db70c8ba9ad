package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:menu_categories"`

	ID           string    `json:"id" bun:"id,pk"`
	CafeID       string    `json:"cafe_id" bun:"cafe_id"`
	Name         string    `json:"name" bun:"name"`
	Description  string    `json:"description" bun:"description"`
	DisplayOrder int       `json:"display_order" bun:"display_order"`
	IsActive     bool      `json:"is_active" bun:"is_active"`
	CreatedAt    time.Time `json:"created_at" bun:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bun:"updated_at"`
}

// Variant is a priced option on a menu item; the modifier is added to the
// item's base price when the variant is chosen.
type Variant struct {
	Name          string  `json:"name"`
	PriceModifier float64 `json:"price_modifier"`
}

type VariantList []Variant

func (v *VariantList) Scan(value interface{}) error {
	if value == nil {
		*v = VariantList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan VariantList: %v", value)
	}
	return json.Unmarshal(bytes, v)
}

func (v VariantList) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	return json.Marshal(v)
}

func (v VariantList) Find(name string) (Variant, bool) {
	for _, variant := range v {
		if variant.Name == name {
			return variant, true
		}
	}
	return Variant{}, false
}

type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items"`

	ID           string      `json:"id" bun:"id,pk"`
	CafeID       string      `json:"cafe_id" bun:"cafe_id"`
	CategoryID   string      `json:"category_id" bun:"category_id"`
	Name         string      `json:"name" bun:"name"`
	Description  string      `json:"description" bun:"description"`
	BasePrice    float64     `json:"base_price" bun:"base_price"`
	Variants     VariantList `json:"variants" bun:"variants"`
	IsAvailable  bool        `json:"is_available" bun:"is_available"`
	PrepMinutes  int         `json:"prep_minutes" bun:"prep_minutes"`
	DisplayOrder int         `json:"display_order" bun:"display_order"`
	ImageURL     string      `json:"image_url" bun:"image_url"`
	CreatedAt    time.Time   `json:"created_at" bun:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" bun:"updated_at"`
}

type CreateCategoryRequest struct {
	CafeID       string `json:"cafe_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

type UpdateCategoryRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

type CreateMenuItemRequest struct {
	CafeID       string      `json:"cafe_id" binding:"required"`
	CategoryID   string      `json:"category_id" binding:"required"`
	Name         string      `json:"name" binding:"required"`
	Description  string      `json:"description"`
	BasePrice    float64     `json:"base_price" binding:"required,gt=0"`
	Variants     VariantList `json:"variants"`
	PrepMinutes  int         `json:"prep_minutes"`
	DisplayOrder int         `json:"display_order"`
	ImageURL     string      `json:"image_url"`
}

type UpdateMenuItemRequest struct {
	CategoryID   *string      `json:"category_id"`
	Name         *string      `json:"name"`
	Description  *string      `json:"description"`
	BasePrice    *float64     `json:"base_price"`
	Variants     *VariantList `json:"variants"`
	IsAvailable  *bool        `json:"is_available"`
	PrepMinutes  *int         `json:"prep_minutes"`
	DisplayOrder *int         `json:"display_order"`
	ImageURL     *string      `json:"image_url"`
}

type ReorderMenuItemsRequest struct {
	CafeID  string   `json:"cafe_id" binding:"required"`
	ItemIDs []string `json:"item_ids" binding:"required,min=1"`
}
