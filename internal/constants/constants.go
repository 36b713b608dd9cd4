package constants

// 订单状态常量
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusProcessing     = "processing"
	OrderStatusPicked         = "picked"
	OrderStatusPacked         = "packed"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
	OrderStatusReturned       = "returned"
)

// 退货状态常量
const (
	ReturnStatusPending   = "pending"
	ReturnStatusApproved  = "approved"
	ReturnStatusRejected  = "rejected"
	ReturnStatusRefunded  = "refunded"
	ReturnStatusRestocked = "restocked"
)

// 退货原因常量
const (
	ReturnReasonDamaged        = "damaged"
	ReturnReasonDefective      = "defective"
	ReturnReasonWrongItem      = "wrong_item"
	ReturnReasonNotAsDescribed = "not_as_described"
	ReturnReasonChangedMind    = "changed_mind"
	ReturnReasonOther          = "other"
)

// 退货商品状态常量
const (
	ReturnItemConditionNew       = "new"
	ReturnItemConditionUsed      = "used"
	ReturnItemConditionDamaged   = "damaged"
	ReturnItemConditionDefective = "defective"
)

// 库存流水类型常量
const (
	StockMovementTypeStockIn       = "stock_in"
	StockMovementTypeStockOut      = "stock_out"
	StockMovementTypeAdjustment    = "adjustment"
	StockMovementTypeRestockReturn = "restock_return"
)

// 库存流水关联实体类型常量
const (
	StockReferenceTypeReturn = "return"
	StockReferenceTypeManual = "manual"
)

// 用户角色常量
const (
	RolePlatformAdmin  = "platform_admin"
	RoleMerchantAdmin  = "merchant_admin"
	RoleMerchantStaff  = "merchant_staff"
	RoleWarehouseStaff = "warehouse_staff"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 商户状态常量
const (
	MerchantStatusActive    = "active"
	MerchantStatusSuspended = "suspended"
)

// 商户订阅状态常量
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// 审计动作常量
const (
	AuditActionOrderCreate        = "order.create"
	AuditActionOrderTransition    = "order.transition"
	AuditActionReturnCreate       = "return.create"
	AuditActionReturnUpdateStatus = "return.update_status"
	AuditActionReturnDelete       = "return.delete"
	AuditActionStockAdjust        = "stock.adjust"
)

// 异步任务类型常量
const (
	TaskOrderStatusNotify  = "order:status_notify"
	TaskReturnStatusNotify = "return:status_notify"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// OrderStatuses 订单状态全集（展示顺序）
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusPicked,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

// ReturnStatuses 退货状态全集
var ReturnStatuses = []string{
	ReturnStatusPending,
	ReturnStatusApproved,
	ReturnStatusRejected,
	ReturnStatusRefunded,
	ReturnStatusRestocked,
}

// IsValidOrderStatus 判断订单状态是否合法
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidReturnStatus 判断退货状态是否合法
func IsValidReturnStatus(status string) bool {
	for _, s := range ReturnStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidReturnReason 判断退货原因是否合法
func IsValidReturnReason(reason string) bool {
	switch reason {
	case ReturnReasonDamaged, ReturnReasonDefective, ReturnReasonWrongItem,
		ReturnReasonNotAsDescribed, ReturnReasonChangedMind, ReturnReasonOther:
		return true
	}
	return false
}

// IsValidReturnItemCondition 判断退货商品状态是否合法
func IsValidReturnItemCondition(condition string) bool {
	switch condition {
	case ReturnItemConditionNew, ReturnItemConditionUsed,
		ReturnItemConditionDamaged, ReturnItemConditionDefective:
		return true
	}
	return false
}
