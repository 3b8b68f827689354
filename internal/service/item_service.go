package service

import (
	"context"
	"errors"
	"time"

	"shelfwise/internal/dto"
	"shelfwise/internal/model"
	"shelfwise/internal/repository"
)

// ErrNoFields signals an update request that supplied nothing to change.
var ErrNoFields = errors.New("no fields to update")

// ItemService defines the business logic contract for inventory items.
// Every method takes the resolved owner identity; handlers are responsible
// for refusing requests without one.
type ItemService interface {
	Create(ctx context.Context, ownerID, email string, req dto.CreateItemRequest) (*model.InventoryItem, error)
	List(ctx context.Context, ownerID string) ([]model.InventoryItem, error)
	Update(ctx context.Context, ownerID, id string, req dto.UpdateItemRequest) (*model.InventoryItem, error)
	Delete(ctx context.Context, ownerID, id string) (*model.InventoryItem, error)
}

type itemService struct {
	repo repository.ItemRepository
}

func NewItemService(repo repository.ItemRepository) ItemService {
	return &itemService{repo: repo}
}

// Create persists a new item with all tracking fields initialized: the
// creation itself counts as the first quantity change, and an item created
// already empty is sold out from the start. The write is unconditional —
// an id collision within the owner's scope is last-writer-wins.
func (s *itemService) Create(ctx context.Context, ownerID, email string, req dto.CreateItemRequest) (*model.InventoryItem, error) {
	now := time.Now().UTC()

	createdAt := now
	if req.CreatedAt != nil {
		createdAt = req.CreatedAt.UTC()
	}

	item := &model.InventoryItem{
		OwnerID:                ownerID,
		Email:                  email,
		ID:                     req.ID,
		Name:                   req.Name,
		Description:            req.Description,
		Category:               req.Category,
		Quantity:               req.Quantity,
		Price:                  req.Price,
		CreatedAt:              createdAt,
		UpdatedAt:              now,
		LastQuantityChange:     req.Quantity,
		LastQuantityChangeDate: &now,
	}
	if req.Quantity == 0 {
		item.SoldOutAt = &now
	}

	if err := s.repo.Put(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns all of the owner's items, backfilling tracking fields that
// predate their introduction. The backfill is presentation-only: nothing is
// written back to the store.
func (s *itemService) List(ctx context.Context, ownerID string) ([]model.InventoryItem, error) {
	items, err := s.repo.Query(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range items {
		it := &items[i]
		if it.CreatedAt.IsZero() {
			it.CreatedAt = now
		}
		if it.UpdatedAt.IsZero() {
			it.UpdatedAt = it.CreatedAt
		}
		if it.LastQuantityChangeDate == nil {
			d := it.CreatedAt
			it.LastQuantityChangeDate = &d
		}
		// LastQuantityChange zero-values to 0 and SoldOutAt to null on
		// decode, so both already satisfy the response contract.
	}
	return items, nil
}

// Update applies a partial update and derives the quantity-tracking fields
// from the diff between the stored record and the payload:
//
//   - updatedAt is always refreshed;
//   - a changed quantity records its signed delta and timestamp;
//   - a transition to quantity 0 stamps soldOutAt, a transition away from 0
//     clears it.
//
// The fetch is owner-scoped, so an item belonging to someone else is
// indistinguishable from a missing one.
func (s *itemService) Update(ctx context.Context, ownerID, id string, req dto.UpdateItemRequest) (*model.InventoryItem, error) {
	existing, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	patch := req.Patch()
	if !patch.HasClientFields() {
		return nil, ErrNoFields
	}

	now := time.Now().UTC()
	patch.UpdatedAt = &now

	if req.Quantity != nil {
		if delta := *req.Quantity - existing.Quantity; delta != 0 {
			patch.LastQuantityChange = &delta
			patch.LastQuantityChangeDate = &now
		}
		switch {
		case *req.Quantity == 0 && existing.Quantity > 0:
			patch.SoldOutAt = &now
			patch.SoldOutSet = true
		case *req.Quantity > 0 && existing.Quantity == 0:
			patch.SoldOutAt = nil
			patch.SoldOutSet = true
		}
	}

	return s.repo.Update(ctx, ownerID, id, patch)
}

// Delete removes the item after an owner-scoped existence check and returns
// the pre-deletion snapshot. Deleting the same item twice reports not-found
// on the second attempt.
func (s *itemService) Delete(ctx context.Context, ownerID, id string) (*model.InventoryItem, error) {
	existing, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return existing, nil
}
