package models

import (
	"time"

	"gorm.io/gorm"
)

// Return 退货单表
type Return struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                     // 主键
	ReturnNo     string         `gorm:"uniqueIndex;not null" json:"return_no"`                    // 退货编号
	OrderID      uint           `gorm:"index;not null" json:"order_id"`                           // 关联订单
	MerchantID   uint           `gorm:"index;not null" json:"merchant_id"`                        // 所属商户（随订单冗余）
	Reason       string         `gorm:"type:varchar(40);index;not null" json:"reason"`            // 退货原因
	Status       string         `gorm:"type:varchar(20);index;not null" json:"status"`            // 退货状态
	RefundAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"refund_amount"` // 退款金额
	Restockable  bool           `gorm:"not null;default:false" json:"restockable"`                // 是否可重新入库
	ProcessedBy  uint           `gorm:"index;not null;default:0" json:"processed_by"`             // 处理人（离开初始状态时写入）
	ProcessedAt  *time.Time     `json:"processed_at,omitempty"`                                   // 处理时间
	Notes        string         `gorm:"type:varchar(1000)" json:"notes"`                          // 备注
	Version      int            `gorm:"not null;default:0" json:"version"`                        // 乐观锁版本
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	Items []ReturnItem `gorm:"foreignKey:ReturnID" json:"items,omitempty"` // 退货明细
}

// TableName 指定表名
func (Return) TableName() string {
	return "returns"
}

// ReturnItem 退货明细表
type ReturnItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                           // 主键
	ReturnID    uint      `gorm:"index;not null" json:"return_id"`                // 退货单ID
	OrderItemID uint      `gorm:"index;not null" json:"order_item_id"`            // 对应订单项
	Quantity    int       `gorm:"not null" json:"quantity"`                       // 退货数量（1..订单项数量）
	Condition   string    `gorm:"type:varchar(20);not null" json:"condition"`     // 商品状态
	Reason      string    `gorm:"type:varchar(40)" json:"reason"`                 // 明细级原因
	CreatedAt   time.Time `json:"created_at"`                                     // 创建时间
}

// TableName 指定表名
func (ReturnItem) TableName() string {
	return "return_items"
}
