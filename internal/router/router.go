package router

import (
	"github.com/fulfill-next/internal/config"
	"github.com/fulfill-next/internal/constants"
	adminhandlers "github.com/fulfill-next/internal/http/handlers/admin"
	merchanthandlers "github.com/fulfill-next/internal/http/handlers/merchant"
	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/logger"
	"github.com/fulfill-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	authHandler := shared.NewAuthHandler(c.AuthService, c.CaptchaService, c.UserService, cfg.Security)
	merchantHandler := merchanthandlers.NewHandler(
		c.OrderService,
		c.ReturnService,
		c.StockService,
		c.ProductService,
		c.WarehouseService,
		c.UserService,
	)
	adminHandler := adminhandlers.NewHandler(
		c.MerchantService,
		c.SubscriptionService,
		c.UserService,
		c.OrderService,
		c.ReturnService,
		c.AuditService,
		c.DashboardService,
		c.AuthzService,
	)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 认证接口
		auth := apiV1.Group("/auth")
		{
			auth.GET("/captcha", authHandler.Captcha)
			auth.POST("/login", authHandler.Login)
		}

		// 登录后的个人接口
		me := apiV1.Group("")
		me.Use(JWTAuthMiddleware(c.AuthService))
		{
			me.GET("/me", authHandler.Me)
			me.PUT("/me/password", authHandler.ChangePassword)
		}

		// 商户端接口
		merchant := apiV1.Group("/merchant")
		merchant.Use(
			JWTAuthMiddleware(c.AuthService),
			RequireRoles(
				constants.RoleMerchantAdmin,
				constants.RoleMerchantStaff,
				constants.RoleWarehouseStaff,
			),
		)
		{
			// 订单
			merchant.POST("/orders", merchantHandler.CreateOrder)
			merchant.GET("/orders", merchantHandler.ListOrders)
			merchant.GET("/orders/:id", merchantHandler.GetOrder)
			merchant.GET("/orders/:id/history", merchantHandler.GetOrderHistory)
			merchant.PUT("/orders/:id/status", merchantHandler.UpdateOrderStatus)

			// 退货
			merchant.POST("/returns", merchantHandler.CreateReturn)
			merchant.GET("/returns", merchantHandler.ListReturns)
			merchant.GET("/returns/:id", merchantHandler.GetReturn)
			merchant.PUT("/returns/:id/status", merchantHandler.UpdateReturnStatus)
			merchant.DELETE("/returns/:id", merchantHandler.DeleteReturn)

			// 库存
			merchant.POST("/stock", merchantHandler.CreateStockItem)
			merchant.GET("/stock", merchantHandler.ListStock)
			merchant.GET("/stock/low", merchantHandler.ListLowStock)
			merchant.POST("/stock/:id/adjust", merchantHandler.AdjustStock)
			merchant.GET("/stock/:id/movements", merchantHandler.ListStockMovements)

			// 商品
			merchant.POST("/products", merchantHandler.CreateProduct)
			merchant.GET("/products", merchantHandler.ListProducts)
			merchant.GET("/products/:id", merchantHandler.GetProduct)
			merchant.PUT("/products/:id", merchantHandler.UpdateProduct)
			merchant.DELETE("/products/:id", merchantHandler.DeleteProduct)
			merchant.GET("/products/:id/stock", merchantHandler.ListProductStock)

			// 仓库
			merchant.POST("/warehouses", merchantHandler.CreateWarehouse)
			merchant.GET("/warehouses", merchantHandler.ListWarehouses)
			merchant.GET("/warehouses/:id", merchantHandler.GetWarehouse)
			merchant.PUT("/warehouses/:id", merchantHandler.UpdateWarehouse)
			merchant.DELETE("/warehouses/:id", merchantHandler.DeleteWarehouse)

			// 物流商
			merchant.POST("/logistics-partners", merchantHandler.CreateLogisticsPartner)
			merchant.GET("/logistics-partners", merchantHandler.ListLogisticsPartners)
			merchant.GET("/logistics-partners/:id", merchantHandler.GetLogisticsPartner)
			merchant.PUT("/logistics-partners/:id", merchantHandler.UpdateLogisticsPartner)
			merchant.DELETE("/logistics-partners/:id", merchantHandler.DeleteLogisticsPartner)

			// 员工
			merchant.POST("/staff", merchantHandler.CreateStaff)
			merchant.GET("/staff", merchantHandler.ListStaff)
			merchant.GET("/staff/:id", merchantHandler.GetStaff)
			merchant.PUT("/staff/:id", merchantHandler.UpdateStaff)
			merchant.DELETE("/staff/:id", merchantHandler.DeleteStaff)
			merchant.POST("/staff/:id/disable", merchantHandler.DisableStaff)
		}

		// 平台管理端接口
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(c.AuthService), PlatformRBACMiddleware(c.AuthzService))
		{
			// 仪表盘
			admin.GET("/dashboard", adminHandler.Dashboard)

			// 商户管理
			admin.POST("/merchants", adminHandler.CreateMerchant)
			admin.GET("/merchants", adminHandler.ListMerchants)
			admin.GET("/merchants/:id", adminHandler.GetMerchant)
			admin.PUT("/merchants/:id", adminHandler.UpdateMerchant)
			admin.POST("/merchants/:id/suspend", adminHandler.SuspendMerchant)
			admin.POST("/merchants/:id/activate", adminHandler.ActivateMerchant)
			admin.GET("/merchants/:id/subscription", adminHandler.GetMerchantSubscription)

			// 订阅套餐
			admin.POST("/plans", adminHandler.CreatePlan)
			admin.GET("/plans", adminHandler.ListPlans)
			admin.GET("/plans/:id", adminHandler.GetPlan)
			admin.PUT("/plans/:id", adminHandler.UpdatePlan)
			admin.POST("/subscriptions", adminHandler.AssignSubscription)

			// 用户管理
			admin.POST("/users", adminHandler.CreateUser)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.POST("/users/:id/disable", adminHandler.DisableUser)

			// 跨商户订单 / 退货
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.GET("/orders/:id/history", adminHandler.GetOrderHistory)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.GET("/returns", adminHandler.ListReturns)
			admin.GET("/returns/:id", adminHandler.GetReturn)
			admin.PUT("/returns/:id/status", adminHandler.UpdateReturnStatus)

			// 审计日志
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)

			// 权限管理
			admin.GET("/authz/roles", adminHandler.ListRoles)
			admin.POST("/authz/roles", adminHandler.CreateRole)
			admin.DELETE("/authz/roles/:role", adminHandler.DeleteRole)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetRolePolicies)
			admin.POST("/authz/roles/:role/policies", adminHandler.GrantRolePolicy)
			admin.DELETE("/authz/roles/:role/policies", adminHandler.RevokeRolePolicy)
			admin.GET("/authz/users/:id/roles", adminHandler.GetUserRoles)
			admin.PUT("/authz/users/:id/roles", adminHandler.SetUserRoles)
			admin.GET("/authz/users/:id/policies", adminHandler.GetUserPolicies)
			admin.POST("/authz/reload", adminHandler.ReloadPolicies)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
