package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	MerchantID    uint
	WarehouseID   uint
	Status        string
	OrderNo       string
	CustomerEmail string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// ReturnListFilter 查询退货列表的过滤条件
type ReturnListFilter struct {
	Page        int
	PageSize    int
	MerchantID  uint
	OrderID     uint
	Status      string
	ReturnNo    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// StockMovementListFilter 查询库存流水的过滤条件
type StockMovementListFilter struct {
	Page          int
	PageSize      int
	StockItemID   uint
	MovementType  string
	ReferenceType string
	ReferenceID   uint
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page       int
	PageSize   int
	MerchantID uint
	Role       string
	Keyword    string
	Status     string
}

// AuditLogListFilter 查询审计日志的过滤条件
type AuditLogListFilter struct {
	Page        int
	PageSize    int
	ActorUserID uint
	MerchantID  uint
	Action      string
	EntityType  string
	EntityID    uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// MerchantListFilter 查询商户列表的过滤条件
type MerchantListFilter struct {
	Page     int
	PageSize int
	Status   string
	Keyword  string
}
