package admin

import (
	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/service"

	"github.com/gin-gonic/gin"
)

var planErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrPlanNotFound, Code: response.CodeNotFound},
	{Target: service.ErrPlanCodeExists, Code: response.CodeConflict},
	{Target: service.ErrMerchantNotFound, Code: response.CodeNotFound},
}

// CreatePlan 创建订阅套餐
func (h *Handler) CreatePlan(c *gin.Context) {
	var input service.CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	plan, err := h.SubscriptionService.CreatePlan(input)
	if err != nil {
		shared.RespondWithMappedError(c, err, planErrorRules, response.CodeInternal, "plan creation failed")
		return
	}
	response.Created(c, plan)
}

// ListPlans 查询套餐列表
func (h *Handler) ListPlans(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	plans, err := h.SubscriptionService.ListPlans(activeOnly)
	if err != nil {
		shared.RespondWithMappedError(c, err, planErrorRules, response.CodeInternal, "plan list failed")
		return
	}
	response.Success(c, plans)
}

// GetPlan 获取套餐详情
func (h *Handler) GetPlan(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.SubscriptionService.GetPlan(id)
	if err != nil {
		shared.RespondWithMappedError(c, err, planErrorRules, response.CodeInternal, "plan fetch failed")
		return
	}
	response.Success(c, plan)
}

// UpdatePlan 更新套餐
func (h *Handler) UpdatePlan(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	plan, err := h.SubscriptionService.UpdatePlan(id, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, planErrorRules, response.CodeInternal, "plan update failed")
		return
	}
	response.Success(c, plan)
}

// AssignSubscription 为商户指派订阅
func (h *Handler) AssignSubscription(c *gin.Context) {
	var input service.AssignSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	subscription, err := h.SubscriptionService.AssignSubscription(input)
	if err != nil {
		shared.RespondWithMappedError(c, err, planErrorRules, response.CodeInternal, "subscription assign failed")
		return
	}
	response.Success(c, subscription)
}
