package merchant

import (
	"strings"

	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/service"

	"github.com/gin-gonic/gin"
)

var productErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound},
	{Target: service.ErrForbidden, Code: response.CodeForbidden},
	{Target: service.ErrProductSKUExists, Code: response.CodeConflict},
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}

	var input service.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	input.MerchantID = actor.MerchantID

	product, err := h.ProductService.CreateProduct(actor, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, productErrorRules, response.CodeInternal, "product creation failed")
		return
	}
	response.Created(c, product)
}

// ListProducts 查询商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	page, pageSize := shared.PaginationFromQuery(c)
	keyword := strings.TrimSpace(c.Query("keyword"))

	products, total, err := h.ProductService.ListProducts(actor, actor.MerchantID, keyword, page, pageSize)
	if err != nil {
		shared.RespondWithMappedError(c, err, productErrorRules, response.CodeInternal, "product list failed")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetProduct(actor, id)
	if err != nil {
		shared.RespondWithMappedError(c, err, productErrorRules, response.CodeInternal, "product fetch failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	product, err := h.ProductService.UpdateProduct(actor, id, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, productErrorRules, response.CodeInternal, "product update failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ProductService.DeleteProduct(actor, id); err != nil {
		shared.RespondWithMappedError(c, err, productErrorRules, response.CodeInternal, "product delete failed")
		return
	}
	response.SuccessWithMsg(c, "product deleted", nil)
}

// ListProductStock 查询商品库存分布
func (h *Handler) ListProductStock(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.ProductService.ListProductStock(actor, id)
	if err != nil {
		shared.RespondWithMappedError(c, err, productErrorRules, response.CodeInternal, "product stock fetch failed")
		return
	}
	response.Success(c, items)
}
