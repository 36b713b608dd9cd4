package admin

import (
	"strings"

	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/repository"
	"github.com/fulfill-next/internal/service"

	"github.com/gin-gonic/gin"
)

var merchantErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrMerchantNotFound, Code: response.CodeNotFound},
	{Target: service.ErrMerchantCodeExists, Code: response.CodeConflict},
	{Target: service.ErrMerchantStatusInvalid, Code: response.CodeBadRequest},
}

// CreateMerchant 创建商户
func (h *Handler) CreateMerchant(c *gin.Context) {
	var input service.CreateMerchantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	merchant, err := h.MerchantService.CreateMerchant(input)
	if err != nil {
		shared.RespondWithMappedError(c, err, merchantErrorRules, response.CodeInternal, "merchant creation failed")
		return
	}
	response.Created(c, merchant)
}

// ListMerchants 查询商户列表
func (h *Handler) ListMerchants(c *gin.Context) {
	page, pageSize := shared.PaginationFromQuery(c)

	merchants, total, err := h.MerchantService.ListMerchants(repository.MerchantListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, merchantErrorRules, response.CodeInternal, "merchant list failed")
		return
	}
	response.SuccessWithPage(c, merchants, response.NewPagination(page, pageSize, total))
}

// GetMerchant 获取商户详情
func (h *Handler) GetMerchant(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	merchant, err := h.MerchantService.GetMerchant(id)
	if err != nil {
		shared.RespondWithMappedError(c, err, merchantErrorRules, response.CodeInternal, "merchant fetch failed")
		return
	}
	response.Success(c, merchant)
}

// UpdateMerchant 更新商户资料
func (h *Handler) UpdateMerchant(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateMerchantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	merchant, err := h.MerchantService.UpdateMerchant(id, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, merchantErrorRules, response.CodeInternal, "merchant update failed")
		return
	}
	response.Success(c, merchant)
}

// SuspendMerchant 暂停商户
func (h *Handler) SuspendMerchant(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	merchant, err := h.MerchantService.SuspendMerchant(id)
	if err != nil {
		shared.RespondWithMappedError(c, err, merchantErrorRules, response.CodeInternal, "merchant suspend failed")
		return
	}
	response.Success(c, merchant)
}

// ActivateMerchant 恢复商户
func (h *Handler) ActivateMerchant(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	merchant, err := h.MerchantService.ActivateMerchant(id)
	if err != nil {
		shared.RespondWithMappedError(c, err, merchantErrorRules, response.CodeInternal, "merchant activate failed")
		return
	}
	response.Success(c, merchant)
}

// GetMerchantSubscription 查询商户当前订阅
func (h *Handler) GetMerchantSubscription(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	subscription, err := h.SubscriptionService.GetMerchantSubscription(id)
	if err != nil {
		shared.RespondWithMappedError(c, err, planErrorRules, response.CodeInternal, "subscription fetch failed")
		return
	}
	response.Success(c, subscription)
}
