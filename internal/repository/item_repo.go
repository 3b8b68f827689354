package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"shelfwise/internal/model"
)

// ErrItemNotFound is returned for any owner-scoped miss. Callers must not be
// able to tell "does not exist" apart from "owned by someone else".
var ErrItemNotFound = errors.New("item not found")

// ItemRepository is the document-store contract the services depend on.
// Every operation is scoped to a single owner.
type ItemRepository interface {
	Get(ctx context.Context, ownerID, id string) (*model.InventoryItem, error)
	Put(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, ownerID, id string, patch *model.ItemPatch) (*model.InventoryItem, error)
	Query(ctx context.Context, ownerID string) ([]model.InventoryItem, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// redisItemRepo stores each owner's items as one Redis hash:
// key "<table>:<ownerID>", field = item id, value = JSON document.
// Cross-owner access is structurally impossible — every command runs against
// the caller's own hash.
type redisItemRepo struct {
	rdb   *redis.Client
	table string
}

func NewItemRepository(rdb *redis.Client, table string) ItemRepository {
	return &redisItemRepo{rdb: rdb, table: table}
}

func (r *redisItemRepo) key(ownerID string) string {
	return fmt.Sprintf("%s:%s", r.table, ownerID)
}

func (r *redisItemRepo) Get(ctx context.Context, ownerID, id string) (*model.InventoryItem, error) {
	raw, err := r.rdb.HGet(ctx, r.key(ownerID), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("item get: %w", err)
	}
	var it model.InventoryItem
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		return nil, fmt.Errorf("item decode: %w", err)
	}
	return &it, nil
}

// Put writes the full document unconditionally — last writer wins on an id
// collision, matching the create contract.
func (r *redisItemRepo) Put(ctx context.Context, item *model.InventoryItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("item encode: %w", err)
	}
	if err := r.rdb.HSet(ctx, r.key(item.OwnerID), item.ID, raw).Err(); err != nil {
		return fmt.Errorf("item put: %w", err)
	}
	return nil
}

// Update applies a field-level patch to the stored document and returns the
// complete post-update record. The read-merge-write sequence is not atomic;
// two concurrent updates to the same item can race and the later writer wins
// (accepted limitation — no compare-and-swap is performed).
func (r *redisItemRepo) Update(ctx context.Context, ownerID, id string, patch *model.ItemPatch) (*model.InventoryItem, error) {
	it, err := r.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(it)
	if err := r.Put(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Query returns all of an owner's items. Hash iteration order is undefined,
// so results are sorted by item id purely for stable output; callers must not
// rely on any particular order.
func (r *redisItemRepo) Query(ctx context.Context, ownerID string) ([]model.InventoryItem, error) {
	raw, err := r.rdb.HGetAll(ctx, r.key(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("item query: %w", err)
	}
	items := make([]model.InventoryItem, 0, len(raw))
	for field, doc := range raw {
		var it model.InventoryItem
		if err := json.Unmarshal([]byte(doc), &it); err != nil {
			return nil, fmt.Errorf("item decode %q: %w", field, err)
		}
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *redisItemRepo) Delete(ctx context.Context, ownerID, id string) error {
	n, err := r.rdb.HDel(ctx, r.key(ownerID), id).Result()
	if err != nil {
		return fmt.Errorf("item delete: %w", err)
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}
