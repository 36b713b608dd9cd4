package provider

import (
	"github.com/fulfill-next/internal/authz"
	"github.com/fulfill-next/internal/cache"
	"github.com/fulfill-next/internal/config"
	"github.com/fulfill-next/internal/logger"
	"github.com/fulfill-next/internal/models"
	"github.com/fulfill-next/internal/queue"
	"github.com/fulfill-next/internal/repository"
	"github.com/fulfill-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	MerchantRepo         repository.MerchantRepository
	UserRepo             repository.UserRepository
	SubscriptionRepo     repository.SubscriptionRepository
	WarehouseRepo        repository.WarehouseRepository
	LogisticsPartnerRepo repository.LogisticsPartnerRepository
	ProductRepo          repository.ProductRepository
	StockRepo            repository.StockRepository
	OrderRepo            repository.OrderRepository
	ReturnRepo           repository.ReturnRepository
	AuditLogRepo         repository.AuditLogRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	CaptchaService      *service.CaptchaService
	AuditService        *service.AuditService
	MerchantService     *service.MerchantService
	SubscriptionService *service.SubscriptionService
	UserService         *service.UserService
	WarehouseService    *service.WarehouseService
	ProductService      *service.ProductService
	StockService        *service.StockService
	OrderService        *service.OrderService
	ReturnService       *service.ReturnService
	DashboardService    *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.MerchantRepo = repository.NewMerchantRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.SubscriptionRepo = repository.NewSubscriptionRepository(db)
	c.WarehouseRepo = repository.NewWarehouseRepository(db)
	c.LogisticsPartnerRepo = repository.NewLogisticsPartnerRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.StockRepo = repository.NewStockRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ReturnRepo = repository.NewReturnRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	c.MerchantService = service.NewMerchantService(c.MerchantRepo)
	c.SubscriptionService = service.NewSubscriptionService(c.SubscriptionRepo, c.MerchantRepo)
	c.UserService = service.NewUserService(c.UserRepo, c.MerchantRepo, c.WarehouseRepo, c.SubscriptionRepo, c.AuthService)
	c.WarehouseService = service.NewWarehouseService(c.WarehouseRepo, c.LogisticsPartnerRepo, c.StockRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.StockRepo)
	c.StockService = service.NewStockService(c.StockRepo, c.ProductRepo, c.WarehouseRepo, c.AuditService)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.MerchantRepo, c.WarehouseRepo, c.AuditService, c.QueueClient, c.Config.Fulfillment.OrderNoPrefix)
	c.ReturnService = service.NewReturnService(c.ReturnRepo, c.OrderRepo, c.StockService, c.AuditService, c.QueueClient, c.Config.Fulfillment.ReturnNoPrefix, c.Config.Fulfillment.RestockOnlyReturnedItems)
	c.DashboardService = service.NewDashboardService()
}
