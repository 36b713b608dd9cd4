package main

import (
	"strings"
	"time"

	"github.com/fulfill-next/internal/config"
	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/logger"
	"github.com/fulfill-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 订阅套餐
	plans := []models.SubscriptionPlan{
		{
			Code:          "starter",
			Name:          "Starter",
			MonthlyFee:    models.NewMoneyFromDecimal(decimal.NewFromFloat(29.00)),
			MaxOrders:     500,
			MaxUsers:      5,
			MaxWarehouses: 1,
			Active:        true,
		},
		{
			Code:          "growth",
			Name:          "Growth",
			MonthlyFee:    models.NewMoneyFromDecimal(decimal.NewFromFloat(99.00)),
			MaxOrders:     5000,
			MaxUsers:      20,
			MaxWarehouses: 5,
			Active:        true,
		},
		{
			Code:       "enterprise",
			Name:       "Enterprise",
			MonthlyFee: models.NewMoneyFromDecimal(decimal.NewFromFloat(299.00)),
			Active:     true,
		},
	}
	for _, plan := range plans {
		var existing models.SubscriptionPlan
		if err := models.DB.Where("code = ?", plan.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&plan).Error; err != nil {
				stdLog.Printf("Failed to create plan %s: %v", plan.Code, err)
			} else {
				stdLog.Printf("Created plan: %s", plan.Code)
			}
		} else {
			stdLog.Printf("Plan already exists: %s", plan.Code)
		}
	}

	// 示例商户
	merchant := models.Merchant{
		Code:         "acme",
		Name:         "Acme Retail",
		ContactName:  "Jamie Doe",
		ContactEmail: "ops@acme.example",
		ContactPhone: "+1-555-0100",
		Status:       constants.MerchantStatusActive,
	}
	var existingMerchant models.Merchant
	if err := models.DB.Where("code = ?", merchant.Code).First(&existingMerchant).Error; err != nil {
		if err := models.DB.Create(&merchant).Error; err != nil {
			stdLog.Fatalf("Failed to create merchant: %v", err)
		}
		stdLog.Printf("Created merchant: %s", merchant.Code)
	} else {
		merchant = existingMerchant
		stdLog.Printf("Merchant already exists: %s", merchant.Code)
	}

	// 商户订阅
	var growthPlan models.SubscriptionPlan
	if err := models.DB.Where("code = ?", "growth").First(&growthPlan).Error; err == nil {
		var existingSub models.Subscription
		if err := models.DB.Where("merchant_id = ?", merchant.ID).First(&existingSub).Error; err != nil {
			sub := models.Subscription{
				MerchantID: merchant.ID,
				PlanID:     growthPlan.ID,
				Status:     "active",
				StartsAt:   time.Now(),
			}
			if err := models.DB.Create(&sub).Error; err != nil {
				stdLog.Printf("Failed to create subscription: %v", err)
			} else {
				stdLog.Printf("Assigned plan %s to merchant %s", growthPlan.Code, merchant.Code)
			}
		}
	}

	// 仓库
	warehouses := []models.Warehouse{
		{MerchantID: merchant.ID, Code: "wh-east", Name: "East Coast DC", City: "Newark", Country: "US", Active: true},
		{MerchantID: merchant.ID, Code: "wh-west", Name: "West Coast DC", City: "Oakland", Country: "US", Active: true},
	}
	warehouseIDs := map[string]uint{}
	for _, wh := range warehouses {
		var existing models.Warehouse
		if err := models.DB.Where("merchant_id = ? AND code = ?", wh.MerchantID, wh.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&wh).Error; err != nil {
				stdLog.Printf("Failed to create warehouse %s: %v", wh.Code, err)
				continue
			}
			stdLog.Printf("Created warehouse: %s", wh.Code)
			warehouseIDs[wh.Code] = wh.ID
		} else {
			warehouseIDs[existing.Code] = existing.ID
			stdLog.Printf("Warehouse already exists: %s", existing.Code)
		}
	}

	// 物流商
	partner := models.LogisticsPartner{
		MerchantID:          merchant.ID,
		Code:                "fastship",
		Name:                "FastShip Logistics",
		TrackingURLTemplate: "https://track.fastship.example/{tracking_number}",
		ContactPhone:        "+1-555-0199",
		Active:              true,
	}
	var existingPartner models.LogisticsPartner
	if err := models.DB.Where("merchant_id = ? AND code = ?", partner.MerchantID, partner.Code).First(&existingPartner).Error; err != nil {
		if err := models.DB.Create(&partner).Error; err != nil {
			stdLog.Printf("Failed to create logistics partner: %v", err)
		} else {
			stdLog.Printf("Created logistics partner: %s", partner.Code)
		}
	}

	// 商品与库存
	products := []models.Product{
		{MerchantID: merchant.ID, SKU: "TSHIRT-BLK-M", Name: "Black T-Shirt (M)", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(19.90)), Active: true},
		{MerchantID: merchant.ID, SKU: "MUG-WHT", Name: "White Ceramic Mug", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(9.50)), Active: true},
		{MerchantID: merchant.ID, SKU: "POSTER-A2", Name: "A2 Art Poster", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(14.00)), Active: true},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("merchant_id = ? AND sku = ?", product.MerchantID, product.SKU).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.SKU, err)
				continue
			}
			stdLog.Printf("Created product: %s", product.SKU)
		} else {
			product = existing
			stdLog.Printf("Product already exists: %s", product.SKU)
		}

		for _, whID := range warehouseIDs {
			var existingStock models.StockItem
			if err := models.DB.Where("product_id = ? AND warehouse_id = ?", product.ID, whID).First(&existingStock).Error; err != nil {
				stock := models.StockItem{
					MerchantID:        merchant.ID,
					ProductID:         product.ID,
					WarehouseID:       whID,
					Quantity:          100,
					AvailableQuantity: 100,
					ReorderLevel:      10,
				}
				if err := models.DB.Create(&stock).Error; err != nil {
					stdLog.Printf("Failed to create stock for %s: %v", product.SKU, err)
				}
			}
		}
	}

	// 示例账号
	users := []struct {
		Email       string
		Password    string
		DisplayName string
		Role        string
		MerchantID  uint
		WarehouseID uint
	}{
		{"admin@fulfill.local", "admin123", "Platform Admin", constants.RolePlatformAdmin, 0, 0},
		{"owner@acme.example", "merchant123", "Acme Owner", constants.RoleMerchantAdmin, merchant.ID, 0},
		{"staff@acme.example", "staff1234", "Acme Staff", constants.RoleMerchantStaff, merchant.ID, 0},
		{"east@acme.example", "warehouse1", "East DC Operator", constants.RoleWarehouseStaff, merchant.ID, warehouseIDs["wh-east"]},
	}
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", u.Email)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", u.Email, err)
			continue
		}
		user := models.User{
			Email:        strings.ToLower(u.Email),
			PasswordHash: string(hash),
			DisplayName:  u.DisplayName,
			Role:         u.Role,
			MerchantID:   u.MerchantID,
			WarehouseID:  u.WarehouseID,
			Status:       constants.UserStatusActive,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", u.Email, err)
			continue
		}
		stdLog.Printf("Created user: %s (%s)", u.Email, u.Role)
	}

	stdLog.Println("Seed completed")
}
