package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Return{},
		&models.ReturnItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestUpdateStatusVersioned(t *testing.T) {
	db := setupOrderRepositoryTest(t)
	repo := NewOrderRepository(db)

	order := &models.Order{OrderNo: "ORD-V-1", MerchantID: 1, Status: constants.OrderStatusPending}
	if err := repo.Create(order, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	rows, err := repo.UpdateStatusVersioned(order.ID, 0, map[string]interface{}{
		"status": constants.OrderStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("versioned update failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 affected row, got %d", rows)
	}

	updated, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if updated.Version != 1 || updated.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected version 1 confirmed, got version=%d status=%s", updated.Version, updated.Status)
	}

	rows, err = repo.UpdateStatusVersioned(order.ID, 0, map[string]interface{}{
		"status": constants.OrderStatusProcessing,
	})
	if err != nil {
		t.Fatalf("stale versioned update failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 affected rows for stale version, got %d", rows)
	}
}

func TestSumReturnedQuantities(t *testing.T) {
	db := setupOrderRepositoryTest(t)
	orderRepo := NewOrderRepository(db)
	returnRepo := NewReturnRepository(db)

	order := &models.Order{OrderNo: "ORD-SUM-1", MerchantID: 1, Status: constants.OrderStatusDelivered}
	items := []models.OrderItem{
		{ProductID: 1, SKU: "A", Quantity: 5},
		{ProductID: 2, SKU: "B", Quantity: 3},
	}
	if err := orderRepo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	created, err := orderRepo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	itemA, itemB := created.Items[0], created.Items[1]

	pending := &models.Return{ReturnNo: "RET-SUM-1", OrderID: order.ID, MerchantID: 1, Reason: constants.ReturnReasonDamaged, Status: constants.ReturnStatusPending}
	if err := returnRepo.Create(pending, []models.ReturnItem{{OrderItemID: itemA.ID, Quantity: 2, Condition: constants.ReturnItemConditionNew}}); err != nil {
		t.Fatalf("create pending return failed: %v", err)
	}
	rejected := &models.Return{ReturnNo: "RET-SUM-2", OrderID: order.ID, MerchantID: 1, Reason: constants.ReturnReasonDamaged, Status: constants.ReturnStatusRejected}
	if err := returnRepo.Create(rejected, []models.ReturnItem{{OrderItemID: itemA.ID, Quantity: 3, Condition: constants.ReturnItemConditionNew}}); err != nil {
		t.Fatalf("create rejected return failed: %v", err)
	}
	approved := &models.Return{ReturnNo: "RET-SUM-3", OrderID: order.ID, MerchantID: 1, Reason: constants.ReturnReasonDamaged, Status: constants.ReturnStatusApproved}
	if err := returnRepo.Create(approved, []models.ReturnItem{{OrderItemID: itemB.ID, Quantity: 1, Condition: constants.ReturnItemConditionNew}}); err != nil {
		t.Fatalf("create approved return failed: %v", err)
	}

	sums, err := returnRepo.SumReturnedQuantities(order.ID)
	if err != nil {
		t.Fatalf("sum returned quantities failed: %v", err)
	}
	if sums[itemA.ID] != 2 {
		t.Fatalf("expected item A sum 2 excluding rejected, got %d", sums[itemA.ID])
	}
	if sums[itemB.ID] != 1 {
		t.Fatalf("expected item B sum 1, got %d", sums[itemB.ID])
	}

	if err := returnRepo.Delete(pending.ID); err != nil {
		t.Fatalf("delete return failed: %v", err)
	}
	sums, err = returnRepo.SumReturnedQuantities(order.ID)
	if err != nil {
		t.Fatalf("sum returned quantities failed: %v", err)
	}
	if sums[itemA.ID] != 0 {
		t.Fatalf("expected deleted return excluded, got %d", sums[itemA.ID])
	}
}

func TestListHistoryOrdering(t *testing.T) {
	db := setupOrderRepositoryTest(t)
	repo := NewOrderRepository(db)

	order := &models.Order{OrderNo: "ORD-H-1", MerchantID: 1, Status: constants.OrderStatusPending}
	if err := repo.Create(order, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	statuses := []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusShipped,
	}
	for i, status := range statuses {
		entry := &models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.AppendHistory(entry); err != nil {
			t.Fatalf("append history failed: %v", err)
		}
	}

	history, err := repo.ListHistory(order.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != len(statuses) {
		t.Fatalf("expected %d entries, got %d", len(statuses), len(history))
	}
	for i, status := range statuses {
		if history[i].Status != status {
			t.Fatalf("expected entry %d status %s, got %s", i, status, history[i].Status)
		}
	}
}

func TestListOrdersFilter(t *testing.T) {
	db := setupOrderRepositoryTest(t)
	repo := NewOrderRepository(db)

	seed := []models.Order{
		{OrderNo: "ORD-F-1", MerchantID: 1, Status: constants.OrderStatusPending, CustomerEmail: "a@example.com"},
		{OrderNo: "ORD-F-2", MerchantID: 1, Status: constants.OrderStatusShipped, CustomerEmail: "b@example.com"},
		{OrderNo: "ORD-F-3", MerchantID: 2, Status: constants.OrderStatusPending, CustomerEmail: "a@example.com"},
	}
	for i := range seed {
		if err := repo.Create(&seed[i], nil); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	orders, total, err := repo.List(OrderListFilter{MerchantID: 1, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by merchant failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 merchant orders, got total=%d", total)
	}

	orders, total, err = repo.List(OrderListFilter{Status: constants.OrderStatusPending, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 pending orders, got %d", total)
	}

	orders, total, err = repo.List(OrderListFilter{OrderNo: "ORD-F-2", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by order no failed: %v", err)
	}
	if total != 1 || orders[0].OrderNo != "ORD-F-2" {
		t.Fatalf("expected single match for order no, got total=%d", total)
	}
}
