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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewMerchantRepository(db),
		repository.NewWarehouseRepository(db),
		auditService,
		nil,
		"ORD",
	)
	return svc, db
}

func createOrderTestMerchant(t *testing.T, db *gorm.DB, code, status string) *models.Merchant {
	t.Helper()
	merchant := &models.Merchant{
		Code:   code,
		Name:   "Merchant " + code,
		Status: status,
	}
	if err := db.Create(merchant).Error; err != nil {
		t.Fatalf("create merchant failed: %v", err)
	}
	return merchant
}

func createOrderTestProduct(t *testing.T, db *gorm.DB, merchantID uint, sku, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		MerchantID: merchantID,
		SKU:        sku,
		Name:       "Product " + sku,
		UnitPrice:  models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		Active:     true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createOrderTestWarehouse(t *testing.T, db *gorm.DB, merchantID uint, code string) *models.Warehouse {
	t.Helper()
	warehouse := &models.Warehouse{
		MerchantID: merchantID,
		Code:       code,
		Name:       "Warehouse " + code,
		Active:     true,
	}
	if err := db.Create(warehouse).Error; err != nil {
		t.Fatalf("create warehouse failed: %v", err)
	}
	return warehouse
}

func merchantAdminActor(merchantID uint) Actor {
	return Actor{
		UserID:     1,
		Email:      "admin@merchant.test",
		Role:       constants.RoleMerchantAdmin,
		MerchantID: merchantID,
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "m-totals", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-1", "19.90")
	actor := merchantAdminActor(merchant.ID)

	order, err := svc.CreateOrder(actor, CreateOrderInput{
		MerchantID:    merchant.ID,
		Items:         []CreateOrderItem{{ProductID: product.ID, Quantity: 2}},
		DeliveryFee:   decimal.RequireFromString("5"),
		CustomerName:  "Jamie Doe",
		CustomerEmail: "Jamie@Example.COM",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	want := decimal.RequireFromString("44.80")
	if !order.TotalAmount.Decimal.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, order.TotalAmount.Decimal)
	}
	if order.CustomerEmail != "jamie@example.com" {
		t.Fatalf("expected normalized customer email, got %s", order.CustomerEmail)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.SKU != product.SKU || item.Quantity != 2 {
		t.Fatalf("unexpected order item snapshot: %+v", item)
	}
	if !item.TotalPrice.Decimal.Equal(decimal.RequireFromString("39.80")) {
		t.Fatalf("expected line total 39.80, got %s", item.TotalPrice.Decimal)
	}

	history, err := svc.GetOrderHistory(actor, order.ID)
	if err != nil {
		t.Fatalf("get order history failed: %v", err)
	}
	if len(history) != 1 || history[0].Status != constants.OrderStatusPending {
		t.Fatalf("expected single pending history entry, got %d entries", len(history))
	}
}

func TestCreateOrderRejectsForeignProduct(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "m-own", constants.MerchantStatusActive)
	other := createOrderTestMerchant(t, db, "m-other", constants.MerchantStatusActive)
	foreign := createOrderTestProduct(t, db, other.ID, "SKU-F", "10")

	_, err := svc.CreateOrder(merchantAdminActor(merchant.ID), CreateOrderInput{
		MerchantID: merchant.ID,
		Items:      []CreateOrderItem{{ProductID: foreign.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrOrderItemInvalid) {
		t.Fatalf("expected ErrOrderItemInvalid for foreign product, got %v", err)
	}
}

func TestCreateOrderSuspendedMerchant(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "m-susp", constants.MerchantStatusSuspended)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-S", "10")

	_, err := svc.CreateOrder(merchantAdminActor(merchant.ID), CreateOrderInput{
		MerchantID: merchant.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrMerchantSuspended) {
		t.Fatalf("expected ErrMerchantSuspended, got %v", err)
	}
}

func TestTransitionStatusAppendsHistory(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "m-hist", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-H", "8")
	actor := merchantAdminActor(merchant.ID)

	order, err := svc.CreateOrder(actor, CreateOrderInput{
		MerchantID: merchant.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	steps := []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	}
	for _, status := range steps {
		order, err = svc.TransitionStatus(actor, order.ID, TransitionOrderInput{NewStatus: status})
		if err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
		if order.Status != status {
			t.Fatalf("expected status %s, got %s", status, order.Status)
		}
	}
	if order.DeliveredAt == nil {
		t.Fatalf("expected delivered_at to be set")
	}

	history, err := svc.GetOrderHistory(actor, order.ID)
	if err != nil {
		t.Fatalf("get order history failed: %v", err)
	}
	if len(history) != 1+len(steps) {
		t.Fatalf("expected %d history entries, got %d", 1+len(steps), len(history))
	}
	if history[len(history)-1].Status != constants.OrderStatusDelivered {
		t.Fatalf("expected last history entry delivered, got %s", history[len(history)-1].Status)
	}
}

func TestTransitionDeliveredIdempotent(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "m-deliv", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-D", "8")
	actor := merchantAdminActor(merchant.ID)

	order, err := svc.CreateOrder(actor, CreateOrderInput{
		MerchantID: merchant.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	order, err = svc.TransitionStatus(actor, order.ID, TransitionOrderInput{NewStatus: constants.OrderStatusDelivered})
	if err != nil {
		t.Fatalf("transition to delivered failed: %v", err)
	}
	firstDelivered := order.DeliveredAt
	if firstDelivered == nil {
		t.Fatalf("expected delivered_at to be set")
	}

	again, err := svc.TransitionStatus(actor, order.ID, TransitionOrderInput{NewStatus: constants.OrderStatusDelivered})
	if err != nil {
		t.Fatalf("expected repeated delivered to be a no-op, got %v", err)
	}
	if again.DeliveredAt == nil || !again.DeliveredAt.Equal(*firstDelivered) {
		t.Fatalf("expected delivered_at unchanged, got %v", again.DeliveredAt)
	}

	history, err := svc.GetOrderHistory(actor, order.ID)
	if err != nil {
		t.Fatalf("get order history failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries after repeated delivered, got %d", len(history))
	}
}

func TestTransitionStatusRejectsInvalid(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "m-inv", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-I", "8")
	actor := merchantAdminActor(merchant.ID)

	order, err := svc.CreateOrder(actor, CreateOrderInput{
		MerchantID: merchant.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.TransitionStatus(actor, order.ID, TransitionOrderInput{NewStatus: "teleported"}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid for unknown status, got %v", err)
	}
	if _, err := svc.TransitionStatus(actor, order.ID, TransitionOrderInput{NewStatus: constants.OrderStatusPending}); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("expected ErrOrderTransitionInvalid for same status, got %v", err)
	}

	order, err = svc.TransitionStatus(actor, order.ID, TransitionOrderInput{NewStatus: constants.OrderStatusDelivered})
	if err != nil {
		t.Fatalf("transition to delivered failed: %v", err)
	}
	if _, err := svc.TransitionStatus(actor, order.ID, TransitionOrderInput{NewStatus: constants.OrderStatusProcessing}); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("expected ErrOrderTransitionInvalid for backward transition, got %v", err)
	}
	if _, err := svc.TransitionStatus(actor, order.ID, TransitionOrderInput{NewStatus: constants.OrderStatusCancelled}); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("expected ErrOrderTransitionInvalid for cancel after delivered, got %v", err)
	}
}

type staleVersionOrderRepo struct {
	repository.OrderRepository
}

func (r *staleVersionOrderRepo) GetByID(id uint) (*models.Order, error) {
	order, err := r.OrderRepository.GetByID(id)
	if err != nil || order == nil {
		return order, err
	}
	order.Version++
	return order, nil
}

func TestTransitionStatusVersionConflict(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "m-conf", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-C", "8")
	actor := merchantAdminActor(merchant.ID)

	order, err := svc.CreateOrder(actor, CreateOrderInput{
		MerchantID: merchant.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	svc.orderRepo = &staleVersionOrderRepo{OrderRepository: svc.orderRepo}
	if _, err := svc.TransitionStatus(actor, order.ID, TransitionOrderInput{NewStatus: constants.OrderStatusConfirmed}); !errors.Is(err, ErrOrderConflict) {
		t.Fatalf("expected ErrOrderConflict on stale version, got %v", err)
	}

	var count int64
	db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 history entry after conflict, got %d", count)
	}
}

func TestOrderTenantIsolation(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "m-a", constants.MerchantStatusActive)
	other := createOrderTestMerchant(t, db, "m-b", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-T", "8")
	actor := merchantAdminActor(merchant.ID)

	order, err := svc.CreateOrder(actor, CreateOrderInput{
		MerchantID: merchant.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	outsider := merchantAdminActor(other.ID)
	if _, err := svc.GetOrder(outsider, order.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign merchant read, got %v", err)
	}
	if _, err := svc.TransitionStatus(outsider, order.ID, TransitionOrderInput{NewStatus: constants.OrderStatusConfirmed}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign merchant transition, got %v", err)
	}

	orders, total, err := svc.ListOrders(outsider, repository.OrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 0 || len(orders) != 0 {
		t.Fatalf("expected no visible orders for foreign merchant, got total=%d", total)
	}
}

func TestPlatformAdminCrossesMerchantBoundary(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "m-pa", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-P", "8")

	order, err := svc.CreateOrder(merchantAdminActor(merchant.ID), CreateOrderInput{
		MerchantID: merchant.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	platform := Actor{
		UserID: 2,
		Email:  "ops@platform.test",
		Role:   constants.RolePlatformAdmin,
	}
	got, err := svc.GetOrder(platform, order.ID)
	if err != nil {
		t.Fatalf("platform admin read failed: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("expected order %d, got %d", order.ID, got.ID)
	}

	updated, err := svc.TransitionStatus(platform, order.ID, TransitionOrderInput{NewStatus: constants.OrderStatusConfirmed})
	if err != nil {
		t.Fatalf("platform admin transition failed: %v", err)
	}
	if updated.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected status %s, got %s", constants.OrderStatusConfirmed, updated.Status)
	}
}

func TestTransitionStatusWarehouseStaffScope(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "m-wh", constants.MerchantStatusActive)
	product := createOrderTestProduct(t, db, merchant.ID, "SKU-W", "8")
	warehouse := createOrderTestWarehouse(t, db, merchant.ID, "wh-1")
	otherWarehouse := createOrderTestWarehouse(t, db, merchant.ID, "wh-2")
	admin := merchantAdminActor(merchant.ID)

	order, err := svc.CreateOrder(admin, CreateOrderInput{
		MerchantID:  merchant.ID,
		WarehouseID: warehouse.ID,
		Items:       []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	staff := Actor{
		UserID:      9,
		Role:        constants.RoleWarehouseStaff,
		MerchantID:  merchant.ID,
		WarehouseID: otherWarehouse.ID,
	}
	if _, err := svc.TransitionStatus(staff, order.ID, TransitionOrderInput{NewStatus: constants.OrderStatusConfirmed}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for staff of another warehouse, got %v", err)
	}

	staff.WarehouseID = warehouse.ID
	if _, err := svc.TransitionStatus(staff, order.ID, TransitionOrderInput{NewStatus: constants.OrderStatusConfirmed}); err != nil {
		t.Fatalf("expected transition by assigned warehouse staff to succeed, got %v", err)
	}
}
