package models

import (
	"time"

	"gorm.io/gorm"
)

// StockItem 库存表（商品 × 仓库 一行）
type StockItem struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                       // 主键
	MerchantID        uint           `gorm:"index;not null" json:"merchant_id"`                          // 所属商户
	ProductID         uint           `gorm:"index:idx_stock_product_warehouse,unique;not null" json:"product_id"`   // 商品ID
	WarehouseID       uint           `gorm:"index:idx_stock_product_warehouse,unique;not null" json:"warehouse_id"` // 仓库ID
	Quantity          int            `gorm:"not null;default:0" json:"quantity"`                         // 总库存
	AvailableQuantity int            `gorm:"not null;default:0" json:"available_quantity"`               // 可售库存
	ReorderLevel      int            `gorm:"not null;default:0" json:"reorder_level"`                    // 补货阈值
	CreatedAt         time.Time      `json:"created_at"`                                                 // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	Product   *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`     // 商品
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"` // 仓库
}

// TableName 指定表名
func (StockItem) TableName() string {
	return "stock_items"
}

// StockMovement 库存流水表（只追加）
// 每一次实际库存变动写入一行，带符号数量与来源引用。
type StockMovement struct {
	ID            uint      `gorm:"primarykey" json:"id"`                          // 主键
	StockItemID   uint      `gorm:"index;not null" json:"stock_item_id"`           // 库存行ID
	MovementType  string    `gorm:"type:varchar(30);index;not null" json:"movement_type"` // 流水类型
	Quantity      int       `gorm:"not null" json:"quantity"`                      // 带符号变动数量
	ReferenceType string    `gorm:"type:varchar(30);index" json:"reference_type"`  // 关联实体类型
	ReferenceID   uint      `gorm:"index" json:"reference_id"`                     // 关联实体ID
	ActorUserID   uint      `gorm:"index;not null" json:"actor_user_id"`           // 操作人
	Note          string    `gorm:"type:varchar(500)" json:"note"`                 // 备注
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                       // 创建时间
}

// TableName 指定表名
func (StockMovement) TableName() string {
	return "stock_movements"
}
