package service

import (
	"errors"
	"fmt"
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

// allowedReturnTransitions 退货状态流转表
var allowedReturnTransitions = map[string]map[string]bool{
	constants.ReturnStatusPending: {
		constants.ReturnStatusApproved: true,
		constants.ReturnStatusRejected: true,
	},
	constants.ReturnStatusApproved: {
		constants.ReturnStatusRefunded:  true,
		constants.ReturnStatusRestocked: true,
	},
}

// isReturnTransitionAllowed 判断退货状态流转是否合法
func isReturnTransitionAllowed(current, target string) bool {
	nexts, ok := allowedReturnTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// isTerminalReturnStatus 判断退货是否已处理完结
func isTerminalReturnStatus(status string) bool {
	switch status {
	case constants.ReturnStatusApproved, constants.ReturnStatusRefunded, constants.ReturnStatusRestocked:
		return true
	}
	return false
}

// ReturnService 退货服务
type ReturnService struct {
	returnRepo     repository.ReturnRepository
	orderRepo      repository.OrderRepository
	stockService   *StockService
	auditService   *AuditService
	queueClient    *queue.Client
	returnNoPrefix string
	// restockOnlyReturnedItems 开启时按退货明细数量回补库存，
	// 关闭时回退到按整单订单项数量回补的旧行为
	restockOnlyReturnedItems bool
}

// NewReturnService 创建退货服务
func NewReturnService(returnRepo repository.ReturnRepository, orderRepo repository.OrderRepository, stockService *StockService, auditService *AuditService, queueClient *queue.Client, returnNoPrefix string, restockOnlyReturnedItems bool) *ReturnService {
	if strings.TrimSpace(returnNoPrefix) == "" {
		returnNoPrefix = "RET"
	}
	return &ReturnService{
		returnRepo:               returnRepo,
		orderRepo:                orderRepo,
		stockService:             stockService,
		auditService:             auditService,
		queueClient:              queueClient,
		returnNoPrefix:           returnNoPrefix,
		restockOnlyReturnedItems: restockOnlyReturnedItems,
	}
}

// CreateReturnItem 退货明细输入
type CreateReturnItem struct {
	OrderItemID uint   `json:"order_item_id"`
	Quantity    int    `json:"quantity"`
	Condition   string `json:"condition"`
	Reason      string `json:"reason"`
}

// CreateReturnInput 创建退货单输入
type CreateReturnInput struct {
	OrderID   uint
	Reason    string
	Items     []CreateReturnItem
	Notes     string
	RequestID string
}

// UpdateReturnStatusInput 更新退货状态输入
type UpdateReturnStatusInput struct {
	NewStatus    string
	RefundAmount *decimal.Decimal
	Restockable  *bool
	Notes        string
	RequestID    string
}

// CreateReturn 创建退货单
// 每条明细必须指向该订单的订单项，且累计退货数量不得超过原始数量；
// 任一条目非法则整单失败，不落任何行。
func (s *ReturnService) CreateReturn(actor Actor, input CreateReturnInput) (*models.Return, error) {
	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		logger.Errorw("return_create_order_fetch_failed", "order_id", input.OrderID, "error", err)
		return nil, ErrReturnUpdateFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !actor.CanAccessMerchant(order.MerchantID) {
		return nil, ErrForbidden
	}
	if !constants.IsValidReturnReason(strings.TrimSpace(input.Reason)) {
		return nil, ErrReturnReasonInvalid
	}
	if len(input.Items) == 0 {
		return nil, ErrReturnItemInvalid
	}

	orderItems := make(map[uint]models.OrderItem, len(order.Items))
	for _, item := range order.Items {
		orderItems[item.ID] = item
	}
	alreadyReturned, err := s.returnRepo.SumReturnedQuantities(order.ID)
	if err != nil {
		logger.Errorw("return_quantities_sum_failed", "order_id", order.ID, "error", err)
		return nil, ErrReturnUpdateFailed
	}

	now := time.Now()
	requested := make(map[uint]int, len(input.Items))
	items := make([]models.ReturnItem, 0, len(input.Items))
	for _, in := range input.Items {
		orderItem, ok := orderItems[in.OrderItemID]
		if !ok {
			return nil, fmt.Errorf("%w: order item %d does not belong to order %s", ErrReturnItemInvalid, in.OrderItemID, order.OrderNo)
		}
		if in.Quantity < 1 || in.Quantity > orderItem.Quantity {
			return nil, fmt.Errorf("%w: order item %d", ErrReturnQuantityExceeded, in.OrderItemID)
		}
		if !constants.IsValidReturnItemCondition(strings.TrimSpace(in.Condition)) {
			return nil, ErrReturnItemInvalid
		}
		requested[in.OrderItemID] += in.Quantity
		if requested[in.OrderItemID]+alreadyReturned[in.OrderItemID] > orderItem.Quantity {
			return nil, fmt.Errorf("%w: order item %d", ErrReturnQuantityExceeded, in.OrderItemID)
		}
		items = append(items, models.ReturnItem{
			OrderItemID: in.OrderItemID,
			Quantity:    in.Quantity,
			Condition:   strings.TrimSpace(in.Condition),
			Reason:      strings.TrimSpace(in.Reason),
			CreatedAt:   now,
		})
	}

	ret := &models.Return{
		ReturnNo:   s.generateReturnNo(),
		OrderID:    order.ID,
		MerchantID: order.MerchantID,
		Reason:     strings.TrimSpace(input.Reason),
		Status:     constants.ReturnStatusPending,
		Notes:      strings.TrimSpace(input.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.returnRepo.WithTx(tx).Create(ret, items); err != nil {
			return err
		}
		return s.auditService.RecordTx(tx, AuditRecordInput{
			Actor:      actor,
			MerchantID: ret.MerchantID,
			Action:     constants.AuditActionReturnCreate,
			EntityType: "return",
			EntityID:   ret.ID,
			RequestID:  input.RequestID,
			NewValues: models.JSON{
				"return_no":  ret.ReturnNo,
				"order_no":   order.OrderNo,
				"reason":     ret.Reason,
				"item_count": len(items),
			},
		})
	})
	if err != nil {
		logger.Errorw("return_create_failed", "order_id", order.ID, "error", err)
		return nil, ErrReturnUpdateFailed
	}

	logger.Infow("return_created",
		"return_id", ret.ID,
		"return_no", ret.ReturnNo,
		"order_no", order.OrderNo,
		"merchant_id", ret.MerchantID,
	)
	return s.reloadReturn(ret.ID)
}

// UpdateReturnStatus 流转退货状态
// restocked 且 restockable 时在同一事务内回补库存；
// 状态图保证 restocked 不可重入，版本锁保证并发下最多执行一次。
func (s *ReturnService) UpdateReturnStatus(actor Actor, returnID uint, input UpdateReturnStatusInput) (*models.Return, error) {
	ret, err := s.returnRepo.GetByID(returnID)
	if err != nil {
		logger.Errorw("return_fetch_failed", "return_id", returnID, "error", err)
		return nil, ErrReturnFetchFailed
	}
	if ret == nil {
		return nil, ErrReturnNotFound
	}
	if !actor.CanAccessMerchant(ret.MerchantID) {
		return nil, ErrForbidden
	}

	newStatus := strings.TrimSpace(input.NewStatus)
	if !constants.IsValidReturnStatus(newStatus) {
		return nil, ErrReturnStatusInvalid
	}
	if !isReturnTransitionAllowed(ret.Status, newStatus) {
		return nil, ErrReturnTransitionInvalid
	}

	now := time.Now()
	restockable := ret.Restockable
	if input.Restockable != nil {
		restockable = *input.Restockable
	}
	updates := map[string]interface{}{
		"status":       newStatus,
		"restockable":  restockable,
		"processed_by": actor.UserID,
		"processed_at": now,
		"updated_at":   now,
	}
	if input.RefundAmount != nil {
		updates["refund_amount"] = models.NewMoneyFromDecimal(*input.RefundAmount)
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		updates["notes"] = notes
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		rows, err := s.returnRepo.WithTx(tx).UpdateStatusVersioned(ret.ID, ret.Version, updates)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrReturnConflict
		}
		if newStatus == constants.ReturnStatusRestocked && restockable {
			if err := s.restockInventory(tx, actor, ret); err != nil {
				return err
			}
		}
		return s.auditService.RecordTx(tx, AuditRecordInput{
			Actor:      actor,
			MerchantID: ret.MerchantID,
			Action:     constants.AuditActionReturnUpdateStatus,
			EntityType: "return",
			EntityID:   ret.ID,
			RequestID:  input.RequestID,
			NewValues: models.JSON{
				"return_no":   ret.ReturnNo,
				"from_status": ret.Status,
				"to_status":   newStatus,
				"restockable": restockable,
			},
		})
	})
	if err != nil {
		if errors.Is(err, ErrReturnConflict) {
			logger.Warnw("return_update_version_conflict",
				"return_id", ret.ID,
				"return_no", ret.ReturnNo,
				"version", ret.Version,
			)
			return nil, ErrReturnConflict
		}
		logger.Errorw("return_update_failed",
			"return_id", ret.ID,
			"return_no", ret.ReturnNo,
			"to_status", newStatus,
			"error", err,
		)
		return nil, ErrReturnUpdateFailed
	}

	logger.Infow("return_status_changed",
		"return_id", ret.ID,
		"return_no", ret.ReturnNo,
		"from_status", ret.Status,
		"to_status", newStatus,
		"actor_user_id", actor.UserID,
	)
	s.notifyReturnStatus(ret.ID, ret.ReturnNo, newStatus)

	return s.reloadReturn(ret.ID)
}

// DeleteReturn 删除退货单
// 已进入处理流程（approved/refunded/restocked）的退货单受保护不可删。
func (s *ReturnService) DeleteReturn(actor Actor, returnID uint, requestID string) error {
	ret, err := s.returnRepo.GetByID(returnID)
	if err != nil {
		logger.Errorw("return_fetch_failed", "return_id", returnID, "error", err)
		return ErrReturnFetchFailed
	}
	if ret == nil {
		return ErrReturnNotFound
	}
	if !actor.CanAccessMerchant(ret.MerchantID) {
		return ErrForbidden
	}
	if isTerminalReturnStatus(ret.Status) {
		return ErrReturnDeleteProtected
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.returnRepo.WithTx(tx).Delete(ret.ID); err != nil {
			return err
		}
		return s.auditService.RecordTx(tx, AuditRecordInput{
			Actor:      actor,
			MerchantID: ret.MerchantID,
			Action:     constants.AuditActionReturnDelete,
			EntityType: "return",
			EntityID:   ret.ID,
			RequestID:  requestID,
			NewValues: models.JSON{
				"return_no": ret.ReturnNo,
				"status":    ret.Status,
			},
		})
	})
	if err != nil {
		logger.Errorw("return_delete_failed", "return_id", ret.ID, "error", err)
		return ErrReturnUpdateFailed
	}

	logger.Infow("return_deleted", "return_id", ret.ID, "return_no", ret.ReturnNo)
	return nil
}

// GetReturn 获取退货单详情
func (s *ReturnService) GetReturn(actor Actor, returnID uint) (*models.Return, error) {
	ret, err := s.returnRepo.GetByID(returnID)
	if err != nil {
		logger.Errorw("return_fetch_failed", "return_id", returnID, "error", err)
		return nil, ErrReturnFetchFailed
	}
	if ret == nil {
		return nil, ErrReturnNotFound
	}
	if !actor.CanAccessMerchant(ret.MerchantID) {
		return nil, ErrForbidden
	}
	return ret, nil
}

// ListReturns 查询退货列表（非平台管理员限定到自己商户）
func (s *ReturnService) ListReturns(actor Actor, filter repository.ReturnListFilter) ([]models.Return, int64, error) {
	if !actor.IsPlatformAdmin() {
		if actor.MerchantID == 0 {
			return nil, 0, ErrForbidden
		}
		filter.MerchantID = actor.MerchantID
	}
	returns, total, err := s.returnRepo.List(filter)
	if err != nil {
		logger.Errorw("return_list_failed", "merchant_id", filter.MerchantID, "error", err)
		return nil, 0, ErrReturnFetchFailed
	}
	return returns, total, nil
}

// restockInventory 退货重新入库
// 按回补范围把数量加回该商品在商户所有仓库的库存行，
// 每触达一行库存写一条 restock_return 流水。
func (s *ReturnService) restockInventory(tx *gorm.DB, actor Actor, ret *models.Return) error {
	order, err := s.orderRepo.WithTx(tx).GetByID(ret.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	quantities := s.restockQuantities(order, ret)
	stockRepo := s.stockService.stockRepo.WithTx(tx)
	for _, entry := range quantities {
		stockItems, err := stockRepo.ListByProduct(entry.productID)
		if err != nil {
			return err
		}
		for _, item := range stockItems {
			if _, err := s.stockService.AdjustStock(tx, AdjustStockInput{
				StockItemID:   item.ID,
				Delta:         entry.quantity,
				MovementType:  constants.StockMovementTypeRestockReturn,
				ReferenceType: constants.StockReferenceTypeReturn,
				ReferenceID:   ret.ID,
				ActorUserID:   actor.UserID,
				Note:          fmt.Sprintf("Restock from return %s", ret.ReturnNo),
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

type restockEntry struct {
	productID uint
	quantity  int
}

// restockQuantities 计算回补范围：
// 默认按退货明细的数量；旧行为按订单全部订单项的数量。
func (s *ReturnService) restockQuantities(order *models.Order, ret *models.Return) []restockEntry {
	orderItems := make(map[uint]models.OrderItem, len(order.Items))
	for _, item := range order.Items {
		orderItems[item.ID] = item
	}

	if !s.restockOnlyReturnedItems {
		entries := make([]restockEntry, 0, len(order.Items))
		for _, item := range order.Items {
			entries = append(entries, restockEntry{productID: item.ProductID, quantity: item.Quantity})
		}
		return entries
	}

	totals := make(map[uint]int)
	productOrder := make([]uint, 0, len(ret.Items))
	for _, item := range ret.Items {
		orderItem, ok := orderItems[item.OrderItemID]
		if !ok {
			continue
		}
		if _, seen := totals[orderItem.ProductID]; !seen {
			productOrder = append(productOrder, orderItem.ProductID)
		}
		totals[orderItem.ProductID] += item.Quantity
	}
	entries := make([]restockEntry, 0, len(productOrder))
	for _, productID := range productOrder {
		entries = append(entries, restockEntry{productID: productID, quantity: totals[productID]})
	}
	return entries
}

func (s *ReturnService) reloadReturn(returnID uint) (*models.Return, error) {
	ret, err := s.returnRepo.GetByID(returnID)
	if err != nil || ret == nil {
		logger.Errorw("return_reload_failed", "return_id", returnID, "error", err)
		return nil, ErrReturnFetchFailed
	}
	return ret, nil
}

// notifyReturnStatus 推送退货处理通知任务，失败只记日志
func (s *ReturnService) notifyReturnStatus(returnID uint, returnNo, status string) {
	if !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueReturnStatusNotify(queue.ReturnStatusNotifyPayload{
		ReturnID: returnID,
		Status:   status,
	}); err != nil {
		logger.Warnw("return_notify_enqueue_failed",
			"return_id", returnID,
			"return_no", returnNo,
			"status", status,
			"error", err,
		)
	}
}

func (s *ReturnService) generateReturnNo() string {
	return fmt.Sprintf("%s-%s-%s", s.returnNoPrefix, time.Now().Format("20060102"), randNumeric(6))
}
