package admin

import (
	"strings"
	"time"

	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/repository"
	"github.com/fulfill-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// UpdateOrderStatusRequest 平台侧订单状态流转请求
type UpdateOrderStatusRequest struct {
	Status           string     `json:"status" binding:"required"`
	Notes            string     `json:"notes"`
	TrackingNumber   string     `json:"tracking_number"`
	ExpectedDelivery *time.Time `json:"expected_delivery"`
}

// UpdateReturnStatusRequest 平台侧退货状态流转请求
type UpdateReturnStatusRequest struct {
	Status       string           `json:"status" binding:"required"`
	RefundAmount *decimal.Decimal `json:"refund_amount"`
	Restockable  *bool            `json:"restockable"`
	Notes        string           `json:"notes"`
}

var orderErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound},
	{Target: service.ErrForbidden, Code: response.CodeForbidden},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrOrderTransitionInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrOrderConflict, Code: response.CodeConflict},
}

var returnErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrReturnNotFound, Code: response.CodeNotFound},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound},
	{Target: service.ErrForbidden, Code: response.CodeForbidden},
	{Target: service.ErrReturnStatusInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrReturnTransitionInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrReturnConflict, Code: response.CodeConflict},
	{Target: service.ErrStockItemNotFound, Code: response.CodeBadRequest},
}

// ListOrders 跨商户查询订单
func (h *Handler) ListOrders(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
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

	orders, total, err := h.OrderService.ListOrders(actor, repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		MerchantID:    shared.ParseQueryUint(c, "merchant_id"),
		WarehouseID:   shared.ParseQueryUint(c, "warehouse_id"),
		Status:        strings.TrimSpace(c.Query("status")),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
		CustomerEmail: strings.TrimSpace(c.Query("customer_email")),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order list failed")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(actor, id)
	if err != nil {
		shared.RespondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, order)
}

// GetOrderHistory 获取订单状态历史
func (h *Handler) GetOrderHistory(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	history, err := h.OrderService.GetOrderHistory(actor, id)
	if err != nil {
		shared.RespondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order history fetch failed")
		return
	}
	response.Success(c, history)
}

// UpdateOrderStatus 平台侧流转订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	order, err := h.OrderService.TransitionStatus(actor, id, service.TransitionOrderInput{
		NewStatus:        req.Status,
		Notes:            req.Notes,
		TrackingNumber:   req.TrackingNumber,
		ExpectedDelivery: req.ExpectedDelivery,
		RequestID:        shared.RequestID(c),
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order status update failed")
		return
	}
	response.Success(c, order)
}

// ListReturns 跨商户查询退货
func (h *Handler) ListReturns(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	page, pageSize := shared.PaginationFromQuery(c)

	returns, total, err := h.ReturnService.ListReturns(actor, repository.ReturnListFilter{
		Page:       page,
		PageSize:   pageSize,
		MerchantID: shared.ParseQueryUint(c, "merchant_id"),
		OrderID:    shared.ParseQueryUint(c, "order_id"),
		Status:     strings.TrimSpace(c.Query("status")),
		ReturnNo:   strings.TrimSpace(c.Query("return_no")),
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, returnErrorRules, response.CodeInternal, "return list failed")
		return
	}
	response.SuccessWithPage(c, returns, response.NewPagination(page, pageSize, total))
}

// GetReturn 获取退货详情
func (h *Handler) GetReturn(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	ret, err := h.ReturnService.GetReturn(actor, id)
	if err != nil {
		shared.RespondWithMappedError(c, err, returnErrorRules, response.CodeInternal, "return fetch failed")
		return
	}
	response.Success(c, ret)
}

// UpdateReturnStatus 平台侧流转退货状态
func (h *Handler) UpdateReturnStatus(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateReturnStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	ret, err := h.ReturnService.UpdateReturnStatus(actor, id, service.UpdateReturnStatusInput{
		NewStatus:    req.Status,
		RefundAmount: req.RefundAmount,
		Restockable:  req.Restockable,
		Notes:        req.Notes,
		RequestID:    shared.RequestID(c),
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, returnErrorRules, response.CodeInternal, "return status update failed")
		return
	}
	response.Success(c, ret)
}
