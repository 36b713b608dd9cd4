package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/logger"
	"github.com/fulfill-next/internal/models"
	"github.com/fulfill-next/internal/queue"
	"github.com/fulfill-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	merchantRepo  repository.MerchantRepository
	warehouseRepo repository.WarehouseRepository
	auditService  *AuditService
	queueClient   *queue.Client
	orderNoPrefix string
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, merchantRepo repository.MerchantRepository, warehouseRepo repository.WarehouseRepository, auditService *AuditService, queueClient *queue.Client, orderNoPrefix string) *OrderService {
	if strings.TrimSpace(orderNoPrefix) == "" {
		orderNoPrefix = "ORD"
	}
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		merchantRepo:  merchantRepo,
		warehouseRepo: warehouseRepo,
		auditService:  auditService,
		queueClient:   queueClient,
		orderNoPrefix: orderNoPrefix,
	}
}

// CreateOrderItem 下单项输入
type CreateOrderItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	MerchantID       uint
	WarehouseID      uint
	Items            []CreateOrderItem
	DeliveryFee      decimal.Decimal
	PaymentMethod    string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	ShippingLine1    string
	ShippingLine2    string
	ShippingCity     string
	ShippingPostcode string
	ShippingCountry  string
	ExpectedDelivery *time.Time
	RequestID        string
}

// TransitionOrderInput 订单状态流转输入
type TransitionOrderInput struct {
	NewStatus        string
	Notes            string
	TrackingNumber   string
	ExpectedDelivery *time.Time
	RequestID        string
}

// CreateOrder 创建订单
// 商品必须属于下单商户；金额用 decimal 计算后快照到订单项。
func (s *OrderService) CreateOrder(actor Actor, input CreateOrderInput) (*models.Order, error) {
	if !actor.CanAccessMerchant(input.MerchantID) {
		return nil, ErrForbidden
	}
	merchant, err := s.merchantRepo.GetByID(input.MerchantID)
	if err != nil {
		logger.Errorw("order_create_merchant_fetch_failed", "merchant_id", input.MerchantID, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}
	if merchant.Status == constants.MerchantStatusSuspended {
		return nil, ErrMerchantSuspended
	}
	if len(input.Items) == 0 {
		return nil, ErrOrderItemInvalid
	}
	if input.WarehouseID > 0 {
		warehouse, err := s.warehouseRepo.GetByID(input.WarehouseID)
		if err != nil {
			logger.Errorw("order_create_warehouse_fetch_failed", "warehouse_id", input.WarehouseID, "error", err)
			return nil, ErrOrderUpdateFailed
		}
		if warehouse == nil || warehouse.MerchantID != input.MerchantID {
			return nil, ErrWarehouseNotFound
		}
	}

	now := time.Now()
	total := input.DeliveryFee
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		if in.ProductID == 0 || in.Quantity <= 0 {
			return nil, ErrOrderItemInvalid
		}
		product, err := s.productRepo.GetByID(in.ProductID)
		if err != nil {
			logger.Errorw("order_create_product_fetch_failed", "product_id", in.ProductID, "error", err)
			return nil, ErrOrderUpdateFailed
		}
		if product == nil || product.MerchantID != input.MerchantID || !product.Active {
			return nil, ErrOrderItemInvalid
		}
		lineTotal := product.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(in.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:  product.ID,
			SKU:        product.SKU,
			Name:       product.Name,
			Quantity:   in.Quantity,
			UnitPrice:  product.UnitPrice,
			TotalPrice: models.NewMoneyFromDecimal(lineTotal),
			CreatedAt:  now,
		})
	}

	order := &models.Order{
		OrderNo:            s.generateOrderNo(),
		MerchantID:         input.MerchantID,
		WarehouseID:        input.WarehouseID,
		Status:             constants.OrderStatusPending,
		TotalAmount:        models.NewMoneyFromDecimal(total),
		DeliveryFee:        models.NewMoneyFromDecimal(input.DeliveryFee),
		PaymentMethod:      strings.TrimSpace(input.PaymentMethod),
		CustomerName:       strings.TrimSpace(input.CustomerName),
		CustomerEmail:      strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone:      strings.TrimSpace(input.CustomerPhone),
		ShippingLine1:      strings.TrimSpace(input.ShippingLine1),
		ShippingLine2:      strings.TrimSpace(input.ShippingLine2),
		ShippingCity:       strings.TrimSpace(input.ShippingCity),
		ShippingPostcode:   strings.TrimSpace(input.ShippingPostcode),
		ShippingCountry:    strings.TrimSpace(input.ShippingCountry),
		ExpectedDelivery:   input.ExpectedDelivery,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		if err := repo.Create(order, items); err != nil {
			return err
		}
		if err := repo.AppendHistory(&models.OrderStatusHistory{
			OrderID:     order.ID,
			Status:      constants.OrderStatusPending,
			ActorUserID: actor.UserID,
			Note:        "Order created",
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		return s.auditService.RecordTx(tx, AuditRecordInput{
			Actor:      actor,
			MerchantID: order.MerchantID,
			Action:     constants.AuditActionOrderCreate,
			EntityType: "order",
			EntityID:   order.ID,
			RequestID:  input.RequestID,
			NewValues: models.JSON{
				"order_no":     order.OrderNo,
				"status":       order.Status,
				"total_amount": order.TotalAmount.String(),
				"item_count":   len(items),
			},
		})
	})
	if err != nil {
		logger.Errorw("order_create_failed", "merchant_id", input.MerchantID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"merchant_id", order.MerchantID,
		"total_amount", order.TotalAmount.String(),
	)
	s.notifyOrderStatus(order.ID, order.OrderNo, order.Status)

	return s.reloadOrder(order.ID)
}

// TransitionStatus 流转订单状态
// 整个写入在单事务内完成，版本列做乐观锁；并发修改返回 ErrOrderConflict。
func (s *OrderService) TransitionStatus(actor Actor, orderID uint, input TransitionOrderInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		logger.Errorw("order_fetch_failed", "order_id", orderID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !actor.CanAccessMerchant(order.MerchantID) {
		return nil, ErrForbidden
	}
	if actor.Role == constants.RoleWarehouseStaff && actor.WarehouseID != 0 && order.WarehouseID != actor.WarehouseID {
		return nil, ErrForbidden
	}

	newStatus := strings.TrimSpace(input.NewStatus)
	if !constants.IsValidOrderStatus(newStatus) {
		return nil, ErrOrderStatusInvalid
	}
	if newStatus == order.Status {
		// 重复送达是幂等空操作，delivered_at 不会被覆盖
		if newStatus == constants.OrderStatusDelivered {
			return order, nil
		}
		return nil, ErrOrderTransitionInvalid
	}
	if !isOrderTransitionAllowed(order.Status, newStatus) {
		return nil, ErrOrderTransitionInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_at": now,
	}
	if tracking := strings.TrimSpace(input.TrackingNumber); tracking != "" {
		updates["tracking_number"] = tracking
	}
	if input.ExpectedDelivery != nil {
		updates["expected_delivery"] = input.ExpectedDelivery
	}
	if newStatus == constants.OrderStatusDelivered && order.DeliveredAt == nil {
		updates["delivered_at"] = now
	}

	note := strings.TrimSpace(input.Notes)
	if note == "" {
		note = fmt.Sprintf("Status updated to %s", newStatus)
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		rows, err := repo.UpdateStatusVersioned(order.ID, order.Version, updates)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrOrderConflict
		}
		if err := repo.AppendHistory(&models.OrderStatusHistory{
			OrderID:     order.ID,
			Status:      newStatus,
			ActorUserID: actor.UserID,
			Note:        note,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		return s.auditService.RecordTx(tx, AuditRecordInput{
			Actor:      actor,
			MerchantID: order.MerchantID,
			Action:     constants.AuditActionOrderTransition,
			EntityType: "order",
			EntityID:   order.ID,
			RequestID:  input.RequestID,
			NewValues: models.JSON{
				"order_no":    order.OrderNo,
				"from_status": order.Status,
				"to_status":   newStatus,
			},
		})
	})
	if err != nil {
		if errors.Is(err, ErrOrderConflict) {
			logger.Warnw("order_transition_version_conflict",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"version", order.Version,
			)
			return nil, ErrOrderConflict
		}
		logger.Errorw("order_transition_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"to_status", newStatus,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}

	logger.Infow("order_status_changed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from_status", order.Status,
		"to_status", newStatus,
		"actor_user_id", actor.UserID,
	)
	s.notifyOrderStatus(order.ID, order.OrderNo, newStatus)

	return s.reloadOrder(order.ID)
}

// GetOrder 获取订单详情
func (s *OrderService) GetOrder(actor Actor, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		logger.Errorw("order_fetch_failed", "order_id", orderID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !actor.CanAccessMerchant(order.MerchantID) {
		return nil, ErrForbidden
	}
	return order, nil
}

// GetOrderByNo 根据订单编号获取订单
func (s *OrderService) GetOrderByNo(actor Actor, orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		logger.Errorw("order_fetch_failed", "order_no", orderNo, "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !actor.CanAccessMerchant(order.MerchantID) {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListOrders 查询订单列表
// 非平台管理员强制限定在自己商户；仓库员工再限定到所属仓库。
func (s *OrderService) ListOrders(actor Actor, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if !actor.IsPlatformAdmin() {
		if actor.MerchantID == 0 {
			return nil, 0, ErrForbidden
		}
		filter.MerchantID = actor.MerchantID
		if actor.Role == constants.RoleWarehouseStaff && actor.WarehouseID != 0 {
			filter.WarehouseID = actor.WarehouseID
		}
	}
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		logger.Errorw("order_list_failed", "merchant_id", filter.MerchantID, "error", err)
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// GetOrderHistory 查询订单状态轨迹（按时间升序）
func (s *OrderService) GetOrderHistory(actor Actor, orderID uint) ([]models.OrderStatusHistory, error) {
	if _, err := s.GetOrder(actor, orderID); err != nil {
		return nil, err
	}
	history, err := s.orderRepo.ListHistory(orderID)
	if err != nil {
		logger.Errorw("order_history_fetch_failed", "order_id", orderID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	return history, nil
}

func (s *OrderService) reloadOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil || order == nil {
		logger.Errorw("order_reload_failed", "order_id", orderID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	return order, nil
}

// notifyOrderStatus 推送状态通知任务，失败只记日志不影响主流程
func (s *OrderService) notifyOrderStatus(orderID uint, orderNo, status string) {
	if !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
		OrderID: orderID,
		Status:  status,
	}); err != nil {
		logger.Warnw("order_notify_enqueue_failed",
			"order_id", orderID,
			"order_no", orderNo,
			"status", status,
			"error", err,
		)
	}
}

func (s *OrderService) generateOrderNo() string {
	return fmt.Sprintf("%s-%s-%s", s.orderNoPrefix, time.Now().Format("20060102"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
