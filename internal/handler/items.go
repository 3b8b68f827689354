package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shelfwise/internal/apierror"
	"shelfwise/internal/dto"
	"shelfwise/internal/middleware"
	"shelfwise/internal/repository"
	"shelfwise/internal/service"
)

// ItemsHandler exposes the four owner-scoped inventory operations. Status
// codes and response bodies follow the original API contract exactly,
// including its per-endpoint disagreement on how an unauthenticated request
// is reported.
type ItemsHandler struct{ svc service.ItemService }

func NewItemsHandler(svc service.ItemService) *ItemsHandler {
	return &ItemsHandler{svc: svc}
}

func (h *ItemsHandler) Create(c *gin.Context) {
	caller, ok := middleware.ResolveCaller(c)
	if !ok {
		c.JSON(http.StatusBadRequest, apierror.New("Unauthorized or missing user info."))
		return
	}

	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	item, err := h.svc.Create(c.Request.Context(), caller.UserID, caller.Email, req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Could not add item"))
		return
	}
	c.JSON(http.StatusOK, dto.ItemCreatedResponse{Message: "Item added successfully", Item: item})
}

func (h *ItemsHandler) List(c *gin.Context) {
	caller, ok := middleware.ResolveCaller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Unauthorized"))
		return
	}

	items, err := h.svc.List(c.Request.Context(), caller.UserID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Could not fetch items"))
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ItemsHandler) Update(c *gin.Context) {
	// Caller and path id are resolved before the body is touched: a request
	// that fails both gets the missing-id/auth answer, not a JSON error.
	caller, callerOK := middleware.ResolveCaller(c)
	if !callerOK {
		c.JSON(http.StatusBadRequest, apierror.NewMessage("Missing item ID or user not authenticated"))
		return
	}

	var req dto.UpdateItemRequest
	if !bindStrict(c, &req) {
		return
	}

	// Path parameter wins; body id is the fallback.
	itemID := c.Param("id")
	if itemID == "" {
		itemID = req.ID
	}
	if itemID == "" {
		c.JSON(http.StatusBadRequest, apierror.NewMessage("Missing item ID or user not authenticated"))
		return
	}

	item, err := h.svc.Update(c.Request.Context(), caller.UserID, itemID, req)
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		c.JSON(http.StatusNotFound, apierror.NewMessage("Item not found or unauthorized"))
	case errors.Is(err, service.ErrNoFields):
		c.JSON(http.StatusBadRequest, apierror.NewMessage("No fields to update"))
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.NewInternal(err))
	default:
		c.JSON(http.StatusOK, item)
	}
}

func (h *ItemsHandler) Delete(c *gin.Context) {
	itemID := c.Param("id")
	caller, callerOK := middleware.ResolveCaller(c)
	if itemID == "" || !callerOK {
		c.JSON(http.StatusBadRequest, apierror.NewMessage("Missing item ID or user not authenticated"))
		return
	}

	item, err := h.svc.Delete(c.Request.Context(), caller.UserID, itemID)
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		c.JSON(http.StatusNotFound, apierror.NewMessage("Item not found or unauthorized"))
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.NewInternal(err))
	default:
		c.JSON(http.StatusOK, dto.ItemDeletedResponse{Message: "Item deleted successfully", DeletedItem: item})
	}
}
