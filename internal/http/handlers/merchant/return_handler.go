package merchant

import (
	"strings"

	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/repository"
	"github.com/fulfill-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateReturnRequest 创建退货请求
type CreateReturnRequest struct {
	OrderID uint                       `json:"order_id" binding:"required"`
	Reason  string                     `json:"reason" binding:"required"`
	Items   []service.CreateReturnItem `json:"items" binding:"required"`
	Notes   string                     `json:"notes"`
}

// UpdateReturnStatusRequest 退货状态流转请求
type UpdateReturnStatusRequest struct {
	Status       string           `json:"status" binding:"required"`
	RefundAmount *decimal.Decimal `json:"refund_amount"`
	Restockable  *bool            `json:"restockable"`
	Notes        string           `json:"notes"`
}

var returnCommonErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrReturnNotFound, Code: response.CodeNotFound},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound},
	{Target: service.ErrForbidden, Code: response.CodeForbidden},
}

var returnCreateErrorRules = shared.ConcatMappedHandlerErrors(returnCommonErrorRules, []shared.MappedHandlerError{
	{Target: service.ErrReturnReasonInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrReturnItemInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrReturnQuantityExceeded, Code: response.CodeBadRequest},
})

var returnUpdateErrorRules = shared.ConcatMappedHandlerErrors(returnCommonErrorRules, []shared.MappedHandlerError{
	{Target: service.ErrReturnStatusInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrReturnTransitionInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrReturnConflict, Code: response.CodeConflict},
	{Target: service.ErrStockItemNotFound, Code: response.CodeBadRequest},
})

var returnDeleteErrorRules = shared.ConcatMappedHandlerErrors(returnCommonErrorRules, []shared.MappedHandlerError{
	{Target: service.ErrReturnDeleteProtected, Code: response.CodeBadRequest},
})

// CreateReturn 创建退货单
func (h *Handler) CreateReturn(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}

	var req CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	ret, err := h.ReturnService.CreateReturn(actor, service.CreateReturnInput{
		OrderID:   req.OrderID,
		Reason:    req.Reason,
		Items:     req.Items,
		Notes:     req.Notes,
		RequestID: shared.RequestID(c),
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, returnCreateErrorRules, response.CodeInternal, "return creation failed")
		return
	}
	response.Created(c, ret)
}

// ListReturns 查询退货列表
func (h *Handler) ListReturns(c *gin.Context) {
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

	returns, total, err := h.ReturnService.ListReturns(actor, repository.ReturnListFilter{
		Page:        page,
		PageSize:    pageSize,
		OrderID:     shared.ParseQueryUint(c, "order_id"),
		Status:      strings.TrimSpace(c.Query("status")),
		ReturnNo:    strings.TrimSpace(c.Query("return_no")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, returnCommonErrorRules, response.CodeInternal, "return list failed")
		return
	}
	response.SuccessWithPage(c, returns, response.NewPagination(page, pageSize, total))
}

// GetReturn 获取退货单详情
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
		shared.RespondWithMappedError(c, err, returnCommonErrorRules, response.CodeInternal, "return fetch failed")
		return
	}
	response.Success(c, ret)
}

// UpdateReturnStatus 流转退货状态
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
		shared.RespondWithMappedError(c, err, returnUpdateErrorRules, response.CodeInternal, "return status update failed")
		return
	}
	response.Success(c, ret)
}

// DeleteReturn 删除退货单
func (h *Handler) DeleteReturn(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ReturnService.DeleteReturn(actor, id, shared.RequestID(c)); err != nil {
		shared.RespondWithMappedError(c, err, returnDeleteErrorRules, response.CodeInternal, "return delete failed")
		return
	}
	response.SuccessWithMsg(c, "return deleted", nil)
}
