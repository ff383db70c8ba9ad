package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Table struct {
	bun.BaseModel `bun:"table:tables"`

	ID          string    `json:"id" bun:"id,pk"`
	CafeID      string    `json:"cafe_id" bun:"cafe_id"`
	Number      int       `json:"number" bun:"number"`
	Capacity    int       `json:"capacity" bun:"capacity"`
	QRPayload   string    `json:"qr_payload" bun:"qr_payload"`
	QRImagePath string    `json:"qr_image_path" bun:"qr_image_path"`
	IsActive    bool      `json:"is_active" bun:"is_active"`
	CreatedAt   time.Time `json:"created_at" bun:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bun:"updated_at"`
}

type CreateTableRequest struct {
	CafeID   string `json:"cafe_id" binding:"required"`
	Number   int    `json:"number" binding:"required,gt=0"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
}
