package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfwise/internal/dto"
	"shelfwise/internal/handler"
	"shelfwise/internal/middleware"
	"shelfwise/internal/model"
	"shelfwise/internal/repository"
	"shelfwise/internal/service"
)

const testSecret = "handler-test-secret"

// ── Stub ItemService ─────────────────────────────────────────────────────────

type stubItemService struct {
	item  *model.InventoryItem
	items []model.InventoryItem
	err   error

	gotOwner string
	gotID    string
}

func (s *stubItemService) Create(_ context.Context, ownerID, _ string, _ dto.CreateItemRequest) (*model.InventoryItem, error) {
	s.gotOwner = ownerID
	return s.item, s.err
}

func (s *stubItemService) List(_ context.Context, ownerID string) ([]model.InventoryItem, error) {
	s.gotOwner = ownerID
	return s.items, s.err
}

func (s *stubItemService) Update(_ context.Context, ownerID, id string, _ dto.UpdateItemRequest) (*model.InventoryItem, error) {
	s.gotOwner, s.gotID = ownerID, id
	return s.item, s.err
}

func (s *stubItemService) Delete(_ context.Context, ownerID, id string) (*model.InventoryItem, error) {
	s.gotOwner, s.gotID = ownerID, id
	return s.item, s.err
}

// ── Denylist stub ────────────────────────────────────────────────────────────

type noDenylist struct{}

func (noDenylist) Revoke(context.Context, string, time.Duration) error { return nil }
func (noDenylist) IsRevoked(context.Context, string) (bool, error)     { return false, nil }

// ── Harness ──────────────────────────────────────────────────────────────────

func newTestRouter(svc service.ItemService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(middleware.Identity(testSecret, noDenylist{}))

	h := handler.NewItemsHandler(svc)
	r.POST("/items", h.Create)
	r.GET("/items", h.List)
	r.PUT("/items", h.Update)
	r.PUT("/items/:id", h.Update)
	r.DELETE("/items/:id", h.Delete)
	return r
}

func tokenFor(t *testing.T, userID, email string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"jti":   "test-jti",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func do(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		// The web client sends the raw id token, no Bearer prefix.
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleItem() *model.InventoryItem {
	now := time.Now().UTC()
	return &model.InventoryItem{
		OwnerID: "user-1", ID: "1", Name: "Laptop", Quantity: 5,
		CreatedAt: now, UpdatedAt: now, LastQuantityChange: 5, LastQuantityChangeDate: &now,
	}
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestCreateUnauthenticated(t *testing.T) {
	r := newTestRouter(&stubItemService{})

	w := do(r, http.MethodPost, "/items", "", dto.CreateItemRequest{ID: "1", Name: "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized or missing user info."}`, w.Body.String())
}

func TestCreateSuccess(t *testing.T) {
	svc := &stubItemService{item: sampleItem()}
	r := newTestRouter(svc)

	w := do(r, http.MethodPost, "/items", tokenFor(t, "user-1", "a@example.com"),
		dto.CreateItemRequest{ID: "1", Name: "Laptop", Quantity: 5})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", svc.gotOwner)

	var resp dto.ItemCreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Item added successfully", resp.Message)
	require.NotNil(t, resp.Item)
	assert.Equal(t, "Laptop", resp.Item.Name)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS, PUT, DELETE", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestCreateStorageError(t *testing.T) {
	r := newTestRouter(&stubItemService{err: errors.New("redis down")})

	w := do(r, http.MethodPost, "/items", tokenFor(t, "user-1", "a@example.com"),
		dto.CreateItemRequest{ID: "1", Name: "Laptop"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Could not add item"}`, w.Body.String())
}

// ── List ─────────────────────────────────────────────────────────────────────

func TestListUnauthenticated(t *testing.T) {
	r := newTestRouter(&stubItemService{})

	w := do(r, http.MethodGet, "/items", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestListInvalidToken(t *testing.T) {
	r := newTestRouter(&stubItemService{})

	w := do(r, http.MethodGet, "/items", "not-a-jwt", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListSuccess(t *testing.T) {
	svc := &stubItemService{items: []model.InventoryItem{*sampleItem()}}
	r := newTestRouter(svc)

	w := do(r, http.MethodGet, "/items", "Bearer "+tokenFor(t, "user-1", "a@example.com"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var items []model.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestListEmptyIsArray(t *testing.T) {
	r := newTestRouter(&stubItemService{items: []model.InventoryItem{}})

	w := do(r, http.MethodGet, "/items", tokenFor(t, "user-1", "a@example.com"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestListStorageError(t *testing.T) {
	r := newTestRouter(&stubItemService{err: errors.New("redis down")})

	w := do(r, http.MethodGet, "/items", tokenFor(t, "user-1", "a@example.com"), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Could not fetch items"}`, w.Body.String())
}

// ── Update ───────────────────────────────────────────────────────────────────

func TestUpdateMissingAuth(t *testing.T) {
	r := newTestRouter(&stubItemService{})

	w := do(r, http.MethodPut, "/items/1", "", map[string]any{"name": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing item ID or user not authenticated"}`, w.Body.String())
}

func TestUpdateMissingAuthEmptyBody(t *testing.T) {
	r := newTestRouter(&stubItemService{})

	w := do(r, http.MethodPut, "/items/1", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing item ID or user not authenticated"}`, w.Body.String())
}

func TestUpdateMissingAuthNonObjectBody(t *testing.T) {
	r := newTestRouter(&stubItemService{})

	// The identity answer wins over the body being garbage.
	w := do(r, http.MethodPut, "/items/1", "", "not an object")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing item ID or user not authenticated"}`, w.Body.String())
}

func TestUpdateMissingID(t *testing.T) {
	r := newTestRouter(&stubItemService{})

	w := do(r, http.MethodPut, "/items", tokenFor(t, "user-1", "a@example.com"), map[string]any{"name": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing item ID or user not authenticated"}`, w.Body.String())
}

func TestUpdateIDFromBody(t *testing.T) {
	svc := &stubItemService{item: sampleItem()}
	r := newTestRouter(svc)

	w := do(r, http.MethodPut, "/items", tokenFor(t, "user-1", "a@example.com"),
		map[string]any{"id": "42", "name": "x"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", svc.gotID)
}

func TestUpdateNotFound(t *testing.T) {
	r := newTestRouter(&stubItemService{err: repository.ErrItemNotFound})

	w := do(r, http.MethodPut, "/items/1", tokenFor(t, "user-1", "a@example.com"), map[string]any{"name": "x"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Item not found or unauthorized"}`, w.Body.String())
}

func TestUpdateNoFields(t *testing.T) {
	r := newTestRouter(&stubItemService{err: service.ErrNoFields})

	w := do(r, http.MethodPut, "/items/1", tokenFor(t, "user-1", "a@example.com"), map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"No fields to update"}`, w.Body.String())
}

func TestUpdateRejectsUnknownKeys(t *testing.T) {
	svc := &stubItemService{item: sampleItem()}
	r := newTestRouter(svc)

	w := do(r, http.MethodPut, "/items/1", tokenFor(t, "user-1", "a@example.com"),
		map[string]any{"name": "x", "userId": "someone-else"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.gotID)
}

func TestUpdateStorageError(t *testing.T) {
	r := newTestRouter(&stubItemService{err: errors.New("redis down")})

	w := do(r, http.MethodPut, "/items/1", tokenFor(t, "user-1", "a@example.com"), map[string]any{"name": "x"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error","error":"redis down"}`, w.Body.String())
}

func TestUpdateSuccessReturnsFullRecord(t *testing.T) {
	svc := &stubItemService{item: sampleItem()}
	r := newTestRouter(svc)

	w := do(r, http.MethodPut, "/items/1", tokenFor(t, "user-1", "a@example.com"),
		map[string]any{"quantity": 5})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", svc.gotOwner)
	assert.Equal(t, "1", svc.gotID)

	var item model.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "Laptop", item.Name)

	// soldOutAt must serialize as an explicit null, never be omitted.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	v, ok := raw["soldOutAt"]
	require.True(t, ok)
	assert.Equal(t, "null", string(v))
}

// ── Delete ───────────────────────────────────────────────────────────────────

func TestDeleteMissingAuth(t *testing.T) {
	r := newTestRouter(&stubItemService{})

	w := do(r, http.MethodDelete, "/items/1", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing item ID or user not authenticated"}`, w.Body.String())
}

func TestDeleteNotFound(t *testing.T) {
	r := newTestRouter(&stubItemService{err: repository.ErrItemNotFound})

	w := do(r, http.MethodDelete, "/items/1", tokenFor(t, "user-1", "a@example.com"), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Item not found or unauthorized"}`, w.Body.String())
}

func TestDeleteSuccess(t *testing.T) {
	svc := &stubItemService{item: sampleItem()}
	r := newTestRouter(svc)

	w := do(r, http.MethodDelete, "/items/1", tokenFor(t, "user-1", "a@example.com"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.ItemDeletedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Item deleted successfully", resp.Message)
	require.NotNil(t, resp.DeletedItem)
	assert.Equal(t, "1", resp.DeletedItem.ID)
}

// ── CORS preflight ───────────────────────────────────────────────────────────

func TestPreflight(t *testing.T) {
	r := newTestRouter(&stubItemService{})

	w := do(r, http.MethodOptions, "/items", "", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Headers"))
}
