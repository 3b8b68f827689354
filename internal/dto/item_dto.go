package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"shelfwise/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateItemRequest struct {
	ID          string           `json:"id"       validate:"required,min=1,max=128"`
	Name        string           `json:"name"     validate:"required,min=1,max=200"`
	Description string           `json:"description" validate:"max=1000"`
	Category    string           `json:"category"    validate:"max=100"`
	Quantity    int              `json:"quantity"    validate:"min=0"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,min=0"`
	// Optional client-supplied creation timestamp; defaults to server time.
	CreatedAt *time.Time `json:"createdAt"`
}

// UpdateItemRequest is a partial update: nil means "leave unchanged".
// The struct deliberately has no userId field, and unknown JSON keys are
// rejected at bind time, so protected fields can never be overwritten.
type UpdateItemRequest struct {
	// ID is only a fallback for requests without a path parameter.
	ID          string           `json:"id"`
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Category    *string          `json:"category"    validate:"omitempty,max=100"`
	Quantity    *int             `json:"quantity"    validate:"omitempty,min=0"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,min=0"`
}

// Patch converts the request into the typed patch the store applies.
func (r *UpdateItemRequest) Patch() *model.ItemPatch {
	return &model.ItemPatch{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Quantity:    r.Quantity,
		Price:       r.Price,
	}
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemCreatedResponse struct {
	Message string               `json:"message"`
	Item    *model.InventoryItem `json:"item"`
}

type ItemDeletedResponse struct {
	Message     string               `json:"message"`
	DeletedItem *model.InventoryItem `json:"deletedItem"`
}
