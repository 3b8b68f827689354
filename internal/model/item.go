package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is the single document type stored in the item store.
// (OwnerID, ID) is the composite key; OwnerID always comes from the
// authenticated identity, never from a request body.
type InventoryItem struct {
	OwnerID     string           `json:"userId"`
	Email       string           `json:"email,omitempty"`
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Quantity    int              `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Tracking fields derived on every quantity mutation.
	// LastQuantityChange holds the signed delta of the most recent change,
	// SoldOutAt is non-nil only while the item sits at quantity 0.
	LastQuantityChange     int        `json:"lastQuantityChange"`
	LastQuantityChangeDate *time.Time `json:"lastQuantityChangeDate"`
	SoldOutAt              *time.Time `json:"soldOutAt"`
}

// ItemPatch enumerates the fields a partial update may touch. Only mutable
// attributes appear here — the key fields (OwnerID, ID) are deliberately
// absent so they can never travel through an update.
type ItemPatch struct {
	Name        *string
	Description *string
	Category    *string
	Quantity    *int
	Price       *decimal.Decimal

	// Derived by the service, never client-supplied.
	UpdatedAt              *time.Time
	LastQuantityChange     *int
	LastQuantityChangeDate *time.Time
	SoldOutAt              *time.Time
	// SoldOutSet distinguishes "write SoldOutAt (possibly to null)" from
	// "leave SoldOutAt untouched".
	SoldOutSet bool
}

// HasClientFields reports whether the caller supplied at least one mutable
// attribute. Derived fields do not count.
func (p *ItemPatch) HasClientFields() bool {
	return p.Name != nil || p.Description != nil || p.Category != nil ||
		p.Quantity != nil || p.Price != nil
}

// Apply merges the patch into an item, field by field.
func (p *ItemPatch) Apply(it *InventoryItem) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.Price != nil {
		it.Price = p.Price
	}
	if p.UpdatedAt != nil {
		it.UpdatedAt = *p.UpdatedAt
	}
	if p.LastQuantityChange != nil {
		it.LastQuantityChange = *p.LastQuantityChange
	}
	if p.LastQuantityChangeDate != nil {
		it.LastQuantityChangeDate = p.LastQuantityChangeDate
	}
	if p.SoldOutSet {
		it.SoldOutAt = p.SoldOutAt
	}
}
