package merchant

import (
	"strings"

	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/repository"
	"github.com/fulfill-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateStockItemRequest 创建库存行请求
type CreateStockItemRequest struct {
	ProductID    uint `json:"product_id" binding:"required"`
	WarehouseID  uint `json:"warehouse_id" binding:"required"`
	Quantity     int  `json:"quantity"`
	ReorderLevel int  `json:"reorder_level"`
}

// AdjustStockRequest 手工调整库存请求
type AdjustStockRequest struct {
	Delta int    `json:"delta" binding:"required"`
	Note  string `json:"note"`
}

var stockCommonErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrStockItemNotFound, Code: response.CodeNotFound},
	{Target: service.ErrForbidden, Code: response.CodeForbidden},
}

var stockCreateErrorRules = shared.ConcatMappedHandlerErrors(stockCommonErrorRules, []shared.MappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound},
	{Target: service.ErrWarehouseNotFound, Code: response.CodeNotFound},
	{Target: service.ErrStockItemExists, Code: response.CodeConflict},
})

var stockAdjustErrorRules = shared.ConcatMappedHandlerErrors(stockCommonErrorRules, []shared.MappedHandlerError{
	{Target: service.ErrStockAdjustInvalid, Code: response.CodeBadRequest},
})

// CreateStockItem 创建库存行
func (h *Handler) CreateStockItem(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}

	var req CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	item, err := h.StockService.CreateStockItem(actor, service.CreateStockItemInput{
		ProductID:    req.ProductID,
		WarehouseID:  req.WarehouseID,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, stockCreateErrorRules, response.CodeInternal, "stock item creation failed")
		return
	}
	response.Created(c, item)
}

// ListStock 查询库存列表
func (h *Handler) ListStock(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	page, pageSize := shared.PaginationFromQuery(c)

	items, total, err := h.StockService.ListStock(actor, actor.MerchantID, page, pageSize)
	if err != nil {
		shared.RespondWithMappedError(c, err, stockCommonErrorRules, response.CodeInternal, "stock list failed")
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// ListLowStock 查询低库存列表
func (h *Handler) ListLowStock(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}

	items, err := h.StockService.ListLowStock(actor, actor.MerchantID)
	if err != nil {
		shared.RespondWithMappedError(c, err, stockCommonErrorRules, response.CodeInternal, "low stock list failed")
		return
	}
	response.Success(c, items)
}

// AdjustStock 手工调整库存
func (h *Handler) AdjustStock(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	item, err := h.StockService.ManualAdjust(actor, service.ManualAdjustInput{
		StockItemID: id,
		Delta:       req.Delta,
		Note:        req.Note,
		RequestID:   shared.RequestID(c),
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, stockAdjustErrorRules, response.CodeInternal, "stock adjust failed")
		return
	}
	response.Success(c, item)
}

// ListStockMovements 查询库存流水
func (h *Handler) ListStockMovements(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := shared.PaginationFromQuery(c)

	createdFrom, err := shared.ParseTimeQuery(c, "created_from")
	if err != nil {
		response.BadRequest(c, "invalid created_from")
		return
	}
	createdTo, err := shared.ParseTimeQuery(c, "created_to")
	if err != nil {
		response.BadRequest(c, "invalid created_to")
		return
	}

	movements, total, err := h.StockService.ListMovements(actor, repository.StockMovementListFilter{
		Page:          page,
		PageSize:      pageSize,
		StockItemID:   id,
		MovementType:  strings.TrimSpace(c.Query("movement_type")),
		ReferenceType: strings.TrimSpace(c.Query("reference_type")),
		ReferenceID:   shared.ParseQueryUint(c, "reference_id"),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, stockCommonErrorRules, response.CodeInternal, "stock movement list failed")
		return
	}
	response.SuccessWithPage(c, movements, response.NewPagination(page, pageSize, total))
}
