package merchant

import (
	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/service"

	"github.com/gin-gonic/gin"
)

var warehouseErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrWarehouseNotFound, Code: response.CodeNotFound},
	{Target: service.ErrForbidden, Code: response.CodeForbidden},
	{Target: service.ErrWarehouseCodeExists, Code: response.CodeConflict},
	{Target: service.ErrWarehouseHasStock, Code: response.CodeBadRequest},
}

var logisticsPartnerErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrLogisticsPartnerNotFound, Code: response.CodeNotFound},
	{Target: service.ErrForbidden, Code: response.CodeForbidden},
}

// CreateWarehouse 创建仓库
func (h *Handler) CreateWarehouse(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}

	var input service.CreateWarehouseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	input.MerchantID = actor.MerchantID

	warehouse, err := h.WarehouseService.CreateWarehouse(actor, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "warehouse creation failed")
		return
	}
	response.Created(c, warehouse)
}

// ListWarehouses 查询仓库列表
func (h *Handler) ListWarehouses(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}

	warehouses, err := h.WarehouseService.ListWarehouses(actor, actor.MerchantID)
	if err != nil {
		shared.RespondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "warehouse list failed")
		return
	}
	response.Success(c, warehouses)
}

// GetWarehouse 获取仓库详情
func (h *Handler) GetWarehouse(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	warehouse, err := h.WarehouseService.GetWarehouse(actor, id)
	if err != nil {
		shared.RespondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "warehouse fetch failed")
		return
	}
	response.Success(c, warehouse)
}

// UpdateWarehouse 更新仓库
func (h *Handler) UpdateWarehouse(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateWarehouseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	warehouse, err := h.WarehouseService.UpdateWarehouse(actor, id, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "warehouse update failed")
		return
	}
	response.Success(c, warehouse)
}

// DeleteWarehouse 删除仓库
func (h *Handler) DeleteWarehouse(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.WarehouseService.DeleteWarehouse(actor, id); err != nil {
		shared.RespondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "warehouse delete failed")
		return
	}
	response.SuccessWithMsg(c, "warehouse deleted", nil)
}

// CreateLogisticsPartner 创建物流商
func (h *Handler) CreateLogisticsPartner(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}

	var input service.CreateLogisticsPartnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	input.MerchantID = actor.MerchantID

	partner, err := h.WarehouseService.CreateLogisticsPartner(actor, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, logisticsPartnerErrorRules, response.CodeInternal, "logistics partner creation failed")
		return
	}
	response.Created(c, partner)
}

// ListLogisticsPartners 查询物流商列表
func (h *Handler) ListLogisticsPartners(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}

	partners, err := h.WarehouseService.ListLogisticsPartners(actor, actor.MerchantID)
	if err != nil {
		shared.RespondWithMappedError(c, err, logisticsPartnerErrorRules, response.CodeInternal, "logistics partner list failed")
		return
	}
	response.Success(c, partners)
}

// GetLogisticsPartner 获取物流商详情
func (h *Handler) GetLogisticsPartner(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	partner, err := h.WarehouseService.GetLogisticsPartner(actor, id)
	if err != nil {
		shared.RespondWithMappedError(c, err, logisticsPartnerErrorRules, response.CodeInternal, "logistics partner fetch failed")
		return
	}
	response.Success(c, partner)
}

// UpdateLogisticsPartner 更新物流商
func (h *Handler) UpdateLogisticsPartner(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateLogisticsPartnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	partner, err := h.WarehouseService.UpdateLogisticsPartner(actor, id, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, logisticsPartnerErrorRules, response.CodeInternal, "logistics partner update failed")
		return
	}
	response.Success(c, partner)
}

// DeleteLogisticsPartner 删除物流商
func (h *Handler) DeleteLogisticsPartner(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.WarehouseService.DeleteLogisticsPartner(actor, id); err != nil {
		shared.RespondWithMappedError(c, err, logisticsPartnerErrorRules, response.CodeInternal, "logistics partner delete failed")
		return
	}
	response.SuccessWithMsg(c, "logistics partner deleted", nil)
}
