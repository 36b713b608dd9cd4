package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/models"
	"github.com/fulfill-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupStockServiceTest(t *testing.T) (*StockService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:stock_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Merchant{},
		&models.Warehouse{},
		&models.Product{},
		&models.StockItem{},
		&models.StockMovement{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	auditService := NewAuditService(repository.NewAuditLogRepository(db))
	svc := NewStockService(
		repository.NewStockRepository(db),
		repository.NewProductRepository(db),
		repository.NewWarehouseRepository(db),
		auditService,
	)
	return svc, db
}

func TestManualAdjustWritesSingleMovement(t *testing.T) {
	svc, db := setupStockServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "s-adj", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-SA", "10")
	warehouse := createOrderTestWarehouse(t, db, merchant.ID, "wh-sa")
	stock := createReturnTestStock(t, db, merchant.ID, product.ID, warehouse.ID, 10)
	actor := merchantAdminActor(merchant.ID)

	adjusted, err := svc.ManualAdjust(actor, ManualAdjustInput{StockItemID: stock.ID, Delta: 5, Note: "recount"})
	if err != nil {
		t.Fatalf("manual adjust failed: %v", err)
	}
	if adjusted.Quantity != 15 || adjusted.AvailableQuantity != 15 {
		t.Fatalf("expected quantity 15, got quantity=%d available=%d", adjusted.Quantity, adjusted.AvailableQuantity)
	}

	var movements []models.StockMovement
	if err := db.Where("stock_item_id = ?", stock.ID).Order("id ASC").Find(&movements).Error; err != nil {
		t.Fatalf("load movements failed: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}
	if movements[0].MovementType != constants.StockMovementTypeStockIn || movements[0].Quantity != 5 {
		t.Fatalf("unexpected movement: %+v", movements[0])
	}
	if movements[0].ReferenceType != constants.StockReferenceTypeManual {
		t.Fatalf("expected manual reference type, got %s", movements[0].ReferenceType)
	}

	adjusted, err = svc.ManualAdjust(actor, ManualAdjustInput{StockItemID: stock.ID, Delta: -3})
	if err != nil {
		t.Fatalf("manual adjust failed: %v", err)
	}
	if adjusted.Quantity != 12 {
		t.Fatalf("expected quantity 12, got %d", adjusted.Quantity)
	}
	if err := db.Where("stock_item_id = ?", stock.ID).Order("id ASC").Find(&movements).Error; err != nil {
		t.Fatalf("load movements failed: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
	if movements[1].MovementType != constants.StockMovementTypeStockOut || movements[1].Quantity != -3 {
		t.Fatalf("unexpected movement: %+v", movements[1])
	}
}

func TestManualAdjustValidation(t *testing.T) {
	svc, db := setupStockServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "s-val", constants.MerchantStatusActive)
	other := createOrderTestMerchant(t, db, "s-val-other", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-SV", "10")
	warehouse := createOrderTestWarehouse(t, db, merchant.ID, "wh-sv")
	stock := createReturnTestStock(t, db, merchant.ID, product.ID, warehouse.ID, 10)

	if _, err := svc.ManualAdjust(merchantAdminActor(merchant.ID), ManualAdjustInput{StockItemID: stock.ID, Delta: 0}); !errors.Is(err, ErrStockAdjustInvalid) {
		t.Fatalf("expected ErrStockAdjustInvalid for zero delta, got %v", err)
	}
	if _, err := svc.ManualAdjust(merchantAdminActor(other.ID), ManualAdjustInput{StockItemID: stock.ID, Delta: 1}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign merchant, got %v", err)
	}
	if _, err := svc.ManualAdjust(merchantAdminActor(merchant.ID), ManualAdjustInput{StockItemID: 9999, Delta: 1}); !errors.Is(err, ErrStockItemNotFound) {
		t.Fatalf("expected ErrStockItemNotFound, got %v", err)
	}
}

func TestCreateStockItem(t *testing.T) {
	svc, db := setupStockServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "s-new", constants.MerchantStatusActive)
	other := createOrderTestMerchant(t, db, "s-new-other", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-SN", "10")
	warehouse := createOrderTestWarehouse(t, db, merchant.ID, "wh-sn")
	foreignWarehouse := createOrderTestWarehouse(t, db, other.ID, "wh-sn-x")
	actor := merchantAdminActor(merchant.ID)

	item, err := svc.CreateStockItem(actor, CreateStockItemInput{
		ProductID:    product.ID,
		WarehouseID:  warehouse.ID,
		Quantity:     20,
		ReorderLevel: 5,
	})
	if err != nil {
		t.Fatalf("create stock item failed: %v", err)
	}
	if item.Quantity != 20 || item.AvailableQuantity != 20 || item.MerchantID != merchant.ID {
		t.Fatalf("unexpected stock item: %+v", item)
	}

	var movementCount int64
	db.Model(&models.StockMovement{}).Where("stock_item_id = ?", item.ID).Count(&movementCount)
	if movementCount != 1 {
		t.Fatalf("expected 1 initial movement, got %d", movementCount)
	}

	if _, err := svc.CreateStockItem(actor, CreateStockItemInput{ProductID: product.ID, WarehouseID: warehouse.ID}); !errors.Is(err, ErrStockItemExists) {
		t.Fatalf("expected ErrStockItemExists, got %v", err)
	}
	if _, err := svc.CreateStockItem(actor, CreateStockItemInput{ProductID: product.ID, WarehouseID: foreignWarehouse.ID}); !errors.Is(err, ErrWarehouseNotFound) {
		t.Fatalf("expected ErrWarehouseNotFound for foreign warehouse, got %v", err)
	}
	if _, err := svc.CreateStockItem(actor, CreateStockItemInput{ProductID: 9999, WarehouseID: warehouse.ID}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateStockItemZeroQuantityNoMovement(t *testing.T) {
	svc, db := setupStockServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "s-zero", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-SZ", "10")
	warehouse := createOrderTestWarehouse(t, db, merchant.ID, "wh-sz")
	actor := merchantAdminActor(merchant.ID)

	item, err := svc.CreateStockItem(actor, CreateStockItemInput{ProductID: product.ID, WarehouseID: warehouse.ID})
	if err != nil {
		t.Fatalf("create stock item failed: %v", err)
	}

	var movementCount int64
	db.Model(&models.StockMovement{}).Where("stock_item_id = ?", item.ID).Count(&movementCount)
	if movementCount != 0 {
		t.Fatalf("expected no movement for zero initial quantity, got %d", movementCount)
	}
}

func TestListLowStock(t *testing.T) {
	svc, db := setupStockServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "s-low", constants.MerchantStatusActive)
	productA := createOrderTestProduct(t, db, merchant.ID, "SKU-LA", "10")
	productB := createOrderTestProduct(t, db, merchant.ID, "SKU-LB", "10")
	warehouse := createOrderTestWarehouse(t, db, merchant.ID, "wh-l")
	actor := merchantAdminActor(merchant.ID)

	if _, err := svc.CreateStockItem(actor, CreateStockItemInput{ProductID: productA.ID, WarehouseID: warehouse.ID, Quantity: 3, ReorderLevel: 5}); err != nil {
		t.Fatalf("create stock item failed: %v", err)
	}
	if _, err := svc.CreateStockItem(actor, CreateStockItemInput{ProductID: productB.ID, WarehouseID: warehouse.ID, Quantity: 50, ReorderLevel: 5}); err != nil {
		t.Fatalf("create stock item failed: %v", err)
	}

	low, err := svc.ListLowStock(actor, merchant.ID)
	if err != nil {
		t.Fatalf("list low stock failed: %v", err)
	}
	if len(low) != 1 || low[0].ProductID != productA.ID {
		t.Fatalf("expected only product A below reorder level, got %+v", low)
	}

	if _, err := svc.ListLowStock(merchantAdminActor(merchant.ID+100), merchant.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign merchant, got %v", err)
	}
}
