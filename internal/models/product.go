package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID         uint           `gorm:"primarykey" json:"id"`                       // 主键
	MerchantID uint           `gorm:"index;not null" json:"merchant_id"`          // 所属商户
	SKU        string         `gorm:"index;not null" json:"sku"`                  // 商品编码（商户内唯一）
	Name       string         `gorm:"type:varchar(300);not null" json:"name"`     // 商品名称
	UnitPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价
	Active     bool           `gorm:"not null;default:true;index" json:"active"`  // 是否在售
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                 // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
