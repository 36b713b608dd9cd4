package merchant

import (
	"github.com/fulfill-next/internal/service"
)

// Handler 商户与仓库端接口处理器
type Handler struct {
	OrderService     *service.OrderService
	ReturnService    *service.ReturnService
	StockService     *service.StockService
	ProductService   *service.ProductService
	WarehouseService *service.WarehouseService
	UserService      *service.UserService
}

// NewHandler 创建商户端处理器
func NewHandler(orderService *service.OrderService, returnService *service.ReturnService, stockService *service.StockService, productService *service.ProductService, warehouseService *service.WarehouseService, userService *service.UserService) *Handler {
	return &Handler{
		OrderService:     orderService,
		ReturnService:    returnService,
		StockService:     stockService,
		ProductService:   productService,
		WarehouseService: warehouseService,
		UserService:      userService,
	}
}
