package service

import "errors"

// 订单相关错误
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderFetchFailed       = errors.New("order fetch failed")
	ErrOrderUpdateFailed      = errors.New("order update failed")
	ErrOrderStatusInvalid     = errors.New("invalid order status")
	ErrOrderTransitionInvalid = errors.New("order status transition not allowed")
	ErrOrderItemInvalid       = errors.New("invalid order item")
	ErrOrderConflict          = errors.New("order was modified concurrently")
)

// 退货相关错误
var (
	ErrReturnNotFound          = errors.New("return not found")
	ErrReturnFetchFailed       = errors.New("return fetch failed")
	ErrReturnUpdateFailed      = errors.New("return update failed")
	ErrReturnStatusInvalid     = errors.New("invalid return status")
	ErrReturnTransitionInvalid = errors.New("return status transition not allowed")
	ErrReturnReasonInvalid     = errors.New("invalid return reason")
	ErrReturnItemInvalid       = errors.New("invalid return item")
	ErrReturnQuantityExceeded  = errors.New("return quantity exceeds order item quantity")
	ErrReturnDeleteProtected   = errors.New("processed return cannot be deleted")
	ErrReturnConflict          = errors.New("return was modified concurrently")
)

// 库存相关错误
var (
	ErrStockItemNotFound  = errors.New("stock item not found")
	ErrStockItemExists    = errors.New("stock item already exists for product and warehouse")
	ErrStockAdjustInvalid = errors.New("invalid stock adjustment")
)

// 主数据相关错误
var (
	ErrMerchantNotFound         = errors.New("merchant not found")
	ErrMerchantCodeExists       = errors.New("merchant code already exists")
	ErrMerchantSuspended        = errors.New("merchant is suspended")
	ErrMerchantStatusInvalid    = errors.New("invalid merchant status")
	ErrWarehouseNotFound        = errors.New("warehouse not found")
	ErrWarehouseCodeExists      = errors.New("warehouse code already exists")
	ErrWarehouseHasStock        = errors.New("warehouse still holds stock")
	ErrProductNotFound          = errors.New("product not found")
	ErrProductSKUExists         = errors.New("product sku already exists")
	ErrLogisticsPartnerNotFound = errors.New("logistics partner not found")
	ErrPlanNotFound             = errors.New("subscription plan not found")
	ErrPlanCodeExists           = errors.New("subscription plan code already exists")
)

// 用户与鉴权相关错误
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("user account disabled")
	ErrRoleInvalid        = errors.New("invalid role")
	ErrPasswordTooWeak    = errors.New("password must be at least 8 characters")
	ErrCaptchaInvalid     = errors.New("invalid captcha")
	ErrForbidden          = errors.New("access to this resource is forbidden")
)
