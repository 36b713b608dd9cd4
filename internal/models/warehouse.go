package models

import (
	"time"

	"gorm.io/gorm"
)

// Warehouse 仓库表
type Warehouse struct {
	ID         uint           `gorm:"primarykey" json:"id"`                           // 主键
	MerchantID uint           `gorm:"index;not null" json:"merchant_id"`              // 所属商户
	Code       string         `gorm:"index;not null" json:"code"`                     // 仓库编码（商户内唯一）
	Name       string         `gorm:"type:varchar(200);not null" json:"name"`         // 仓库名称
	Address    string         `gorm:"type:varchar(500)" json:"address"`               // 地址
	City       string         `gorm:"type:varchar(100)" json:"city"`                  // 城市
	Country    string         `gorm:"type:varchar(100)" json:"country"`               // 国家
	Active     bool           `gorm:"not null;default:true;index" json:"active"`      // 是否启用
	CreatedAt  time.Time      `json:"created_at"`                                     // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                     // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (Warehouse) TableName() string {
	return "warehouses"
}

// LogisticsPartner 物流商表
type LogisticsPartner struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                       // 主键
	MerchantID          uint           `gorm:"index;not null" json:"merchant_id"`          // 所属商户
	Code                string         `gorm:"index;not null" json:"code"`                 // 物流商编码
	Name                string         `gorm:"type:varchar(200);not null" json:"name"`     // 物流商名称
	TrackingURLTemplate string         `gorm:"type:varchar(500)" json:"tracking_url_template"` // 运单查询链接模板
	ContactPhone        string         `gorm:"type:varchar(40)" json:"contact_phone"`      // 联系电话
	Active              bool           `gorm:"not null;default:true;index" json:"active"`  // 是否启用
	CreatedAt           time.Time      `json:"created_at"`                                 // 创建时间
	UpdatedAt           time.Time      `json:"updated_at"`                                 // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (LogisticsPartner) TableName() string {
	return "logistics_partners"
}
