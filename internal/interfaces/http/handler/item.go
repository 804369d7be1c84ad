package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	appinventory "github.com/itemtrack/backend/internal/application/inventory"
	"github.com/itemtrack/backend/internal/infrastructure/export"
)

// ItemHandler handles item lifecycle endpoints
type ItemHandler struct {
	BaseHandler
	itemService *appinventory.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *appinventory.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// CreateItems adds a raw or grouped quantity of items to inventory
func (h *ItemHandler) CreateItems(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemTypeID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appinventory.CreateItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.itemService.CreateItems(c.Request.Context(), actor, itemTypeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// BulkUpdateStatus moves exactly the requested quantity of matching items to a new status
func (h *ItemHandler) BulkUpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemTypeID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appinventory.BulkStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.itemService.BulkUpdateStatus(c.Request.Context(), actor, itemTypeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BulkDelete removes a quantity of unsold items
func (h *ItemHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemTypeID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appinventory.BulkDeleteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.itemService.BulkDelete(c.Request.Context(), actor, itemTypeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListItems returns a page of items visible to the caller
func (h *ItemHandler) ListItems(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ItemListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter := appinventory.ItemListFilter{
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderDir: q.OrderDir,
	}
	if filter.ItemTypeID, ok = h.optionalUUID(c, "item_type_id", q.ItemTypeID); !ok {
		return
	}
	if filter.HolderID, ok = h.optionalUUID(c, "holder_id", q.HolderID); !ok {
		return
	}

	page, err := h.itemService.ListItems(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetItem returns one item with its history
func (h *ItemHandler) GetItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), actor, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// GetItemHistory returns the status history of one item, oldest first
func (h *ItemHandler) GetItemHistory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	history, err := h.itemService.GetItemHistory(c.Request.Context(), actor, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// UpdateItemStatus changes the status of a single item
func (h *ItemHandler) UpdateItemStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appinventory.SingleStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.itemService.UpdateSingleItem(c.Request.Context(), actor, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ItemListQuery holds the query parameters of the item list
type ItemListQuery struct {
	ItemTypeID string `form:"item_type_id"`
	Status     string `form:"status" binding:"omitempty,item_status"`
	HolderID   string `form:"holder_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SummaryQuery narrows a summary to one item type
type SummaryQuery struct {
	ItemTypeID string `form:"item_type_id"`
}

// GetSummary returns per type counts by status
func (h *ItemHandler) GetSummary(c *gin.Context) {
	summary, ok := h.summary(c)
	if !ok {
		return
	}
	h.Success(c, summary)
}

// ExportSummary streams the summary as an XLSX workbook
func (h *ItemHandler) ExportSummary(c *gin.Context) {
	summary, ok := h.summary(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSummaryXLSX(&buf, summary); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.SummaryFileName(summary)+`"`)
	c.Data(http.StatusOK, export.XLSXContentType, buf.Bytes())
}

func (h *ItemHandler) summary(c *gin.Context) (*appinventory.SummaryResponse, bool) {
	actor, ok := h.actor(c)
	if !ok {
		return nil, false
	}
	var q SummaryQuery
	if !h.bindQuery(c, &q) {
		return nil, false
	}

	itemTypeID, ok := h.optionalUUID(c, "item_type_id", q.ItemTypeID)
	if !ok {
		return nil, false
	}

	summary, err := h.itemService.GetSummary(c.Request.Context(), actor, itemTypeID)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return summary, true
}
