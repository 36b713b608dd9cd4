package merchant

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

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	WarehouseID      uint                      `json:"warehouse_id"`
	Items            []service.CreateOrderItem `json:"items" binding:"required"`
	DeliveryFee      decimal.Decimal           `json:"delivery_fee"`
	PaymentMethod    string                    `json:"payment_method"`
	CustomerName     string                    `json:"customer_name" binding:"required"`
	CustomerEmail    string                    `json:"customer_email" binding:"required,email"`
	CustomerPhone    string                    `json:"customer_phone"`
	ShippingLine1    string                    `json:"shipping_line1"`
	ShippingLine2    string                    `json:"shipping_line2"`
	ShippingCity     string                    `json:"shipping_city"`
	ShippingPostcode string                    `json:"shipping_postcode"`
	ShippingCountry  string                    `json:"shipping_country"`
	ExpectedDelivery *time.Time                `json:"expected_delivery"`
}

// UpdateOrderStatusRequest 订单状态流转请求
type UpdateOrderStatusRequest struct {
	Status           string     `json:"status" binding:"required"`
	Notes            string     `json:"notes"`
	TrackingNumber   string     `json:"tracking_number"`
	ExpectedDelivery *time.Time `json:"expected_delivery"`
}

var orderCommonErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound},
	{Target: service.ErrForbidden, Code: response.CodeForbidden},
}

var orderCreateErrorRules = shared.ConcatMappedHandlerErrors(orderCommonErrorRules, []shared.MappedHandlerError{
	{Target: service.ErrOrderItemInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrMerchantNotFound, Code: response.CodeNotFound},
	{Target: service.ErrMerchantSuspended, Code: response.CodeForbidden},
	{Target: service.ErrWarehouseNotFound, Code: response.CodeBadRequest},
})

var orderTransitionErrorRules = shared.ConcatMappedHandlerErrors(orderCommonErrorRules, []shared.MappedHandlerError{
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrOrderTransitionInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrOrderConflict, Code: response.CodeConflict},
})

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	order, err := h.OrderService.CreateOrder(actor, service.CreateOrderInput{
		MerchantID:       actor.MerchantID,
		WarehouseID:      req.WarehouseID,
		Items:            req.Items,
		DeliveryFee:      req.DeliveryFee,
		PaymentMethod:    req.PaymentMethod,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		ShippingLine1:    req.ShippingLine1,
		ShippingLine2:    req.ShippingLine2,
		ShippingCity:     req.ShippingCity,
		ShippingPostcode: req.ShippingPostcode,
		ShippingCountry:  req.ShippingCountry,
		ExpectedDelivery: req.ExpectedDelivery,
		RequestID:        shared.RequestID(c),
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "order creation failed")
		return
	}
	response.Created(c, order)
}

// ListOrders 查询订单列表
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
		Status:        strings.TrimSpace(c.Query("status")),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
		CustomerEmail: strings.TrimSpace(c.Query("customer_email")),
		WarehouseID:   shared.ParseQueryUint(c, "warehouse_id"),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, orderCommonErrorRules, response.CodeInternal, "order list failed")
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
		shared.RespondWithMappedError(c, err, orderCommonErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, order)
}

// GetOrderHistory 查询订单状态轨迹
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
		shared.RespondWithMappedError(c, err, orderCommonErrorRules, response.CodeInternal, "order history fetch failed")
		return
	}
	response.Success(c, history)
}

// UpdateOrderStatus 流转订单状态
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
		shared.RespondWithMappedError(c, err, orderTransitionErrorRules, response.CodeInternal, "order status update failed")
		return
	}
	response.Success(c, order)
}
