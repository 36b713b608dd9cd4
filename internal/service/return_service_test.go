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

func setupReturnServiceTest(t *testing.T, restockOnlyReturnedItems bool) (*ReturnService, *StockService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:return_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Return{},
		&models.ReturnItem{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	auditService := NewAuditService(repository.NewAuditLogRepository(db))
	stockService := NewStockService(
		repository.NewStockRepository(db),
		repository.NewProductRepository(db),
		repository.NewWarehouseRepository(db),
		auditService,
	)
	svc := NewReturnService(
		repository.NewReturnRepository(db),
		repository.NewOrderRepository(db),
		stockService,
		auditService,
		nil,
		"RET",
		restockOnlyReturnedItems,
	)
	return svc, stockService, db
}

func createReturnTestStock(t *testing.T, db *gorm.DB, merchantID, productID, warehouseID uint, quantity int) *models.StockItem {
	t.Helper()
	item := &models.StockItem{
		MerchantID:        merchantID,
		ProductID:         productID,
		WarehouseID:       warehouseID,
		Quantity:          quantity,
		AvailableQuantity: quantity,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create stock item failed: %v", err)
	}
	return item
}

func createReturnTestOrder(t *testing.T, db *gorm.DB, merchantID uint, items []models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:    fmt.Sprintf("ORD-TEST-%d", time.Now().UnixNano()),
		MerchantID: merchantID,
		Status:     constants.OrderStatusDelivered,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	for i := range items {
		items[i].OrderID = order.ID
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create order item failed: %v", err)
		}
	}
	order.Items = items
	return order
}

func TestCreateReturnValidatesInput(t *testing.T) {
	svc, _, db := setupReturnServiceTest(t, true)
	merchant := createOrderTestMerchant(t, db, "r-valid", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-R1", "10")
	order := createReturnTestOrder(t, db, merchant.ID, []models.OrderItem{
		{ProductID: product.ID, SKU: product.SKU, Quantity: 2},
	})
	actor := merchantAdminActor(merchant.ID)

	if _, err := svc.CreateReturn(actor, CreateReturnInput{
		OrderID: order.ID,
		Reason:  "buyer_regret_extreme",
		Items:   []CreateReturnItem{{OrderItemID: order.Items[0].ID, Quantity: 1, Condition: constants.ReturnItemConditionNew}},
	}); !errors.Is(err, ErrReturnReasonInvalid) {
		t.Fatalf("expected ErrReturnReasonInvalid, got %v", err)
	}

	if _, err := svc.CreateReturn(actor, CreateReturnInput{
		OrderID: order.ID,
		Reason:  constants.ReturnReasonDamaged,
		Items:   []CreateReturnItem{},
	}); !errors.Is(err, ErrReturnItemInvalid) {
		t.Fatalf("expected ErrReturnItemInvalid for empty items, got %v", err)
	}

	ret, err := svc.CreateReturn(actor, CreateReturnInput{
		OrderID: order.ID,
		Reason:  constants.ReturnReasonDamaged,
		Items:   []CreateReturnItem{{OrderItemID: order.Items[0].ID, Quantity: 1, Condition: constants.ReturnItemConditionDamaged}},
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}
	if ret.Status != constants.ReturnStatusPending {
		t.Fatalf("expected pending status, got %s", ret.Status)
	}
	if len(ret.Items) != 1 || ret.Items[0].Quantity != 1 {
		t.Fatalf("unexpected return items: %+v", ret.Items)
	}
}

func TestCreateReturnOverQuantityAtomic(t *testing.T) {
	svc, _, db := setupReturnServiceTest(t, true)
	merchant := createOrderTestMerchant(t, db, "r-over", constants.MerchantStatusActive)
	productA := createOrderTestProduct(t, db, merchant.ID, "SKU-RA", "10")
	productB := createOrderTestProduct(t, db, merchant.ID, "SKU-RB", "10")
	order := createReturnTestOrder(t, db, merchant.ID, []models.OrderItem{
		{ProductID: productA.ID, SKU: productA.SKU, Quantity: 2},
		{ProductID: productB.ID, SKU: productB.SKU, Quantity: 1},
	})
	actor := merchantAdminActor(merchant.ID)

	_, err := svc.CreateReturn(actor, CreateReturnInput{
		OrderID: order.ID,
		Reason:  constants.ReturnReasonDefective,
		Items: []CreateReturnItem{
			{OrderItemID: order.Items[1].ID, Quantity: 1, Condition: constants.ReturnItemConditionDefective},
			{OrderItemID: order.Items[0].ID, Quantity: 3, Condition: constants.ReturnItemConditionDefective},
		},
	})
	if !errors.Is(err, ErrReturnQuantityExceeded) {
		t.Fatalf("expected ErrReturnQuantityExceeded, got %v", err)
	}

	var returnCount, itemCount int64
	db.Model(&models.Return{}).Count(&returnCount)
	db.Model(&models.ReturnItem{}).Count(&itemCount)
	if returnCount != 0 || itemCount != 0 {
		t.Fatalf("expected no rows after rejected return, got returns=%d items=%d", returnCount, itemCount)
	}
}

func TestCreateReturnCumulativeQuantity(t *testing.T) {
	svc, _, db := setupReturnServiceTest(t, true)
	merchant := createOrderTestMerchant(t, db, "r-cum", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-RC", "10")
	order := createReturnTestOrder(t, db, merchant.ID, []models.OrderItem{
		{ProductID: product.ID, SKU: product.SKU, Quantity: 2},
	})
	actor := merchantAdminActor(merchant.ID)

	if _, err := svc.CreateReturn(actor, CreateReturnInput{
		OrderID: order.ID,
		Reason:  constants.ReturnReasonDamaged,
		Items:   []CreateReturnItem{{OrderItemID: order.Items[0].ID, Quantity: 1, Condition: constants.ReturnItemConditionDamaged}},
	}); err != nil {
		t.Fatalf("first return failed: %v", err)
	}

	if _, err := svc.CreateReturn(actor, CreateReturnInput{
		OrderID: order.ID,
		Reason:  constants.ReturnReasonDamaged,
		Items:   []CreateReturnItem{{OrderItemID: order.Items[0].ID, Quantity: 2, Condition: constants.ReturnItemConditionDamaged}},
	}); !errors.Is(err, ErrReturnQuantityExceeded) {
		t.Fatalf("expected ErrReturnQuantityExceeded on cumulative overdraw, got %v", err)
	}

	if _, err := svc.CreateReturn(actor, CreateReturnInput{
		OrderID: order.ID,
		Reason:  constants.ReturnReasonDamaged,
		Items:   []CreateReturnItem{{OrderItemID: order.Items[0].ID, Quantity: 1, Condition: constants.ReturnItemConditionDamaged}},
	}); err != nil {
		t.Fatalf("second return within quota failed: %v", err)
	}
}

func TestUpdateReturnStatusTransitions(t *testing.T) {
	svc, _, db := setupReturnServiceTest(t, true)
	merchant := createOrderTestMerchant(t, db, "r-trans", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-RT", "10")
	order := createReturnTestOrder(t, db, merchant.ID, []models.OrderItem{
		{ProductID: product.ID, SKU: product.SKU, Quantity: 1},
	})
	actor := merchantAdminActor(merchant.ID)

	ret, err := svc.CreateReturn(actor, CreateReturnInput{
		OrderID: order.ID,
		Reason:  constants.ReturnReasonWrongItem,
		Items:   []CreateReturnItem{{OrderItemID: order.Items[0].ID, Quantity: 1, Condition: constants.ReturnItemConditionNew}},
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}

	if _, err := svc.UpdateReturnStatus(actor, ret.ID, UpdateReturnStatusInput{NewStatus: constants.ReturnStatusRefunded}); !errors.Is(err, ErrReturnTransitionInvalid) {
		t.Fatalf("expected ErrReturnTransitionInvalid for pending->refunded, got %v", err)
	}

	ret, err = svc.UpdateReturnStatus(actor, ret.ID, UpdateReturnStatusInput{NewStatus: constants.ReturnStatusApproved})
	if err != nil {
		t.Fatalf("approve return failed: %v", err)
	}
	if ret.Status != constants.ReturnStatusApproved {
		t.Fatalf("expected approved, got %s", ret.Status)
	}
	if ret.ProcessedBy != actor.UserID || ret.ProcessedAt == nil {
		t.Fatalf("expected processed_by/processed_at to be stamped, got %+v", ret)
	}

	if _, err := svc.UpdateReturnStatus(actor, ret.ID, UpdateReturnStatusInput{NewStatus: constants.ReturnStatusPending}); !errors.Is(err, ErrReturnTransitionInvalid) {
		t.Fatalf("expected ErrReturnTransitionInvalid for approved->pending, got %v", err)
	}
}

func TestReturnRestockFanOut(t *testing.T) {
	svc, _, db := setupReturnServiceTest(t, true)
	merchant := createOrderTestMerchant(t, db, "r-fan", constants.MerchantStatusActive)
	productA := createOrderTestProduct(t, db, merchant.ID, "SKU-FA", "10")
	productB := createOrderTestProduct(t, db, merchant.ID, "SKU-FB", "10")
	warehouse1 := createOrderTestWarehouse(t, db, merchant.ID, "wh-f1")
	warehouse2 := createOrderTestWarehouse(t, db, merchant.ID, "wh-f2")
	warehouse3 := createOrderTestWarehouse(t, db, merchant.ID, "wh-f3")
	stockA1 := createReturnTestStock(t, db, merchant.ID, productA.ID, warehouse1.ID, 10)
	stockA2 := createReturnTestStock(t, db, merchant.ID, productA.ID, warehouse2.ID, 10)
	stockB3 := createReturnTestStock(t, db, merchant.ID, productB.ID, warehouse3.ID, 5)

	order := createReturnTestOrder(t, db, merchant.ID, []models.OrderItem{
		{ProductID: productA.ID, SKU: productA.SKU, Quantity: 2},
		{ProductID: productB.ID, SKU: productB.SKU, Quantity: 1},
	})
	actor := merchantAdminActor(merchant.ID)

	ret, err := svc.CreateReturn(actor, CreateReturnInput{
		OrderID: order.ID,
		Reason:  constants.ReturnReasonDamaged,
		Items: []CreateReturnItem{
			{OrderItemID: order.Items[0].ID, Quantity: 2, Condition: constants.ReturnItemConditionNew},
			{OrderItemID: order.Items[1].ID, Quantity: 1, Condition: constants.ReturnItemConditionNew},
		},
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}

	restockable := true
	if ret, err = svc.UpdateReturnStatus(actor, ret.ID, UpdateReturnStatusInput{NewStatus: constants.ReturnStatusApproved, Restockable: &restockable}); err != nil {
		t.Fatalf("approve return failed: %v", err)
	}
	if ret, err = svc.UpdateReturnStatus(actor, ret.ID, UpdateReturnStatusInput{NewStatus: constants.ReturnStatusRestocked}); err != nil {
		t.Fatalf("restock return failed: %v", err)
	}
	if ret.Status != constants.ReturnStatusRestocked {
		t.Fatalf("expected restocked, got %s", ret.Status)
	}

	var movements []models.StockMovement
	if err := db.Where("movement_type = ?", constants.StockMovementTypeRestockReturn).Order("id ASC").Find(&movements).Error; err != nil {
		t.Fatalf("load movements failed: %v", err)
	}
	if len(movements) != 3 {
		t.Fatalf("expected 3 restock movements, got %d", len(movements))
	}
	for _, movement := range movements {
		if movement.ReferenceType != constants.StockReferenceTypeReturn || movement.ReferenceID != ret.ID {
			t.Fatalf("unexpected movement reference: %+v", movement)
		}
	}

	checks := []struct {
		stockItemID uint
		want        int
	}{
		{stockA1.ID, 12},
		{stockA2.ID, 12},
		{stockB3.ID, 6},
	}
	for _, check := range checks {
		var item models.StockItem
		if err := db.First(&item, check.stockItemID).Error; err != nil {
			t.Fatalf("load stock item failed: %v", err)
		}
		if item.Quantity != check.want || item.AvailableQuantity != check.want {
			t.Fatalf("expected stock item %d quantity %d, got quantity=%d available=%d", check.stockItemID, check.want, item.Quantity, item.AvailableQuantity)
		}
	}
}

func TestReturnRestockSkippedWhenNotRestockable(t *testing.T) {
	svc, _, db := setupReturnServiceTest(t, true)
	merchant := createOrderTestMerchant(t, db, "r-skip", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-SK", "10")
	warehouse := createOrderTestWarehouse(t, db, merchant.ID, "wh-sk")
	stock := createReturnTestStock(t, db, merchant.ID, product.ID, warehouse.ID, 10)

	order := createReturnTestOrder(t, db, merchant.ID, []models.OrderItem{
		{ProductID: product.ID, SKU: product.SKU, Quantity: 1},
	})
	actor := merchantAdminActor(merchant.ID)

	ret, err := svc.CreateReturn(actor, CreateReturnInput{
		OrderID: order.ID,
		Reason:  constants.ReturnReasonChangedMind,
		Items:   []CreateReturnItem{{OrderItemID: order.Items[0].ID, Quantity: 1, Condition: constants.ReturnItemConditionUsed}},
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}
	if ret, err = svc.UpdateReturnStatus(actor, ret.ID, UpdateReturnStatusInput{NewStatus: constants.ReturnStatusApproved}); err != nil {
		t.Fatalf("approve return failed: %v", err)
	}
	if _, err = svc.UpdateReturnStatus(actor, ret.ID, UpdateReturnStatusInput{NewStatus: constants.ReturnStatusRestocked}); err != nil {
		t.Fatalf("restock return failed: %v", err)
	}

	var count int64
	db.Model(&models.StockMovement{}).Where("movement_type = ?", constants.StockMovementTypeRestockReturn).Count(&count)
	if count != 0 {
		t.Fatalf("expected no restock movements when not restockable, got %d", count)
	}
	var item models.StockItem
	if err := db.First(&item, stock.ID).Error; err != nil {
		t.Fatalf("load stock item failed: %v", err)
	}
	if item.Quantity != 10 {
		t.Fatalf("expected stock unchanged, got %d", item.Quantity)
	}
}

func TestReturnRestockWholeOrderMode(t *testing.T) {
	svc, _, db := setupReturnServiceTest(t, false)
	merchant := createOrderTestMerchant(t, db, "r-whole", constants.MerchantStatusActive)
	productA := createOrderTestProduct(t, db, merchant.ID, "SKU-WA", "10")
	productB := createOrderTestProduct(t, db, merchant.ID, "SKU-WB", "10")
	warehouse := createOrderTestWarehouse(t, db, merchant.ID, "wh-w")
	stockA := createReturnTestStock(t, db, merchant.ID, productA.ID, warehouse.ID, 10)
	stockB := createReturnTestStock(t, db, merchant.ID, productB.ID, warehouse.ID, 10)

	order := createReturnTestOrder(t, db, merchant.ID, []models.OrderItem{
		{ProductID: productA.ID, SKU: productA.SKU, Quantity: 3},
		{ProductID: productB.ID, SKU: productB.SKU, Quantity: 2},
	})
	actor := merchantAdminActor(merchant.ID)

	ret, err := svc.CreateReturn(actor, CreateReturnInput{
		OrderID: order.ID,
		Reason:  constants.ReturnReasonDamaged,
		Items:   []CreateReturnItem{{OrderItemID: order.Items[0].ID, Quantity: 1, Condition: constants.ReturnItemConditionNew}},
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}

	restockable := true
	if ret, err = svc.UpdateReturnStatus(actor, ret.ID, UpdateReturnStatusInput{NewStatus: constants.ReturnStatusApproved, Restockable: &restockable}); err != nil {
		t.Fatalf("approve return failed: %v", err)
	}
	if _, err = svc.UpdateReturnStatus(actor, ret.ID, UpdateReturnStatusInput{NewStatus: constants.ReturnStatusRestocked}); err != nil {
		t.Fatalf("restock return failed: %v", err)
	}

	var itemA, itemB models.StockItem
	if err := db.First(&itemA, stockA.ID).Error; err != nil {
		t.Fatalf("load stock item failed: %v", err)
	}
	if err := db.First(&itemB, stockB.ID).Error; err != nil {
		t.Fatalf("load stock item failed: %v", err)
	}
	if itemA.Quantity != 13 || itemB.Quantity != 12 {
		t.Fatalf("expected whole-order restock quantities 13/12, got %d/%d", itemA.Quantity, itemB.Quantity)
	}
}

func TestDeleteReturnProtection(t *testing.T) {
	svc, _, db := setupReturnServiceTest(t, true)
	merchant := createOrderTestMerchant(t, db, "r-del", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-DL", "10")
	order := createReturnTestOrder(t, db, merchant.ID, []models.OrderItem{
		{ProductID: product.ID, SKU: product.SKU, Quantity: 3},
	})
	actor := merchantAdminActor(merchant.ID)

	newReturn := func(quantity int) *models.Return {
		ret, err := svc.CreateReturn(actor, CreateReturnInput{
			OrderID: order.ID,
			Reason:  constants.ReturnReasonOther,
			Items:   []CreateReturnItem{{OrderItemID: order.Items[0].ID, Quantity: quantity, Condition: constants.ReturnItemConditionNew}},
		})
		if err != nil {
			t.Fatalf("create return failed: %v", err)
		}
		return ret
	}

	pending := newReturn(1)
	if err := svc.DeleteReturn(actor, pending.ID, ""); err != nil {
		t.Fatalf("delete pending return failed: %v", err)
	}

	rejected := newReturn(1)
	if _, err := svc.UpdateReturnStatus(actor, rejected.ID, UpdateReturnStatusInput{NewStatus: constants.ReturnStatusRejected}); err != nil {
		t.Fatalf("reject return failed: %v", err)
	}
	if err := svc.DeleteReturn(actor, rejected.ID, ""); err != nil {
		t.Fatalf("delete rejected return failed: %v", err)
	}

	approved := newReturn(1)
	if _, err := svc.UpdateReturnStatus(actor, approved.ID, UpdateReturnStatusInput{NewStatus: constants.ReturnStatusApproved}); err != nil {
		t.Fatalf("approve return failed: %v", err)
	}
	if err := svc.DeleteReturn(actor, approved.ID, ""); !errors.Is(err, ErrReturnDeleteProtected) {
		t.Fatalf("expected ErrReturnDeleteProtected, got %v", err)
	}
}
