package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/itemtrack/backend/internal/application/catalog"
	"github.com/itemtrack/backend/internal/domain/identity"
)

// ItemTypeHandler handles item type catalog endpoints
type ItemTypeHandler struct {
	BaseHandler
	itemTypeService *appcatalog.ItemTypeService
}

// NewItemTypeHandler creates a new ItemTypeHandler
func NewItemTypeHandler(itemTypeService *appcatalog.ItemTypeService) *ItemTypeHandler {
	return &ItemTypeHandler{itemTypeService: itemTypeService}
}

// Create adds an item type with its groupings
func (h *ItemTypeHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appcatalog.CreateItemTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	itemType, err := h.itemTypeService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, itemType)
}

// List returns a page of item types
func (h *ItemTypeHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter appcatalog.ItemTypeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.itemTypeService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns one item type
func (h *ItemTypeHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	itemType, err := h.itemTypeService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, itemType)
}

// Update renames or re-describes an item type
func (h *ItemTypeHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appcatalog.UpdateItemTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	itemType, err := h.itemTypeService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, itemType)
}

// SetGroupings replaces the groupings of an item type
func (h *ItemTypeHandler) SetGroupings(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appcatalog.SetGroupingsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	itemType, err := h.itemTypeService.SetGroupings(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, itemType)
}

// Deactivate stops new items from being created for a type
func (h *ItemTypeHandler) Deactivate(c *gin.Context) {
	h.toggle(c, h.itemTypeService.Deactivate)
}

// Activate re-enables an item type
func (h *ItemTypeHandler) Activate(c *gin.Context) {
	h.toggle(c, h.itemTypeService.Activate)
}

func (h *ItemTypeHandler) toggle(c *gin.Context, fn func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appcatalog.ItemTypeResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	itemType, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, itemType)
}
