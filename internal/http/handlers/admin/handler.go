package admin

import (
	"github.com/fulfill-next/internal/authz"
	"github.com/fulfill-next/internal/service"
)

// Handler 平台管理端处理器集合
type Handler struct {
	MerchantService     *service.MerchantService
	SubscriptionService *service.SubscriptionService
	UserService         *service.UserService
	OrderService        *service.OrderService
	ReturnService       *service.ReturnService
	AuditService        *service.AuditService
	DashboardService    *service.DashboardService
	AuthzService        *authz.Service
}

// NewHandler 创建平台管理端处理器
func NewHandler(
	merchantService *service.MerchantService,
	subscriptionService *service.SubscriptionService,
	userService *service.UserService,
	orderService *service.OrderService,
	returnService *service.ReturnService,
	auditService *service.AuditService,
	dashboardService *service.DashboardService,
	authzService *authz.Service,
) *Handler {
	return &Handler{
		MerchantService:     merchantService,
		SubscriptionService: subscriptionService,
		UserService:         userService,
		OrderService:        orderService,
		ReturnService:       returnService,
		AuditService:        auditService,
		DashboardService:    dashboardService,
		AuthzService:        authzService,
	}
}
