package models

import (
	"time"

	"gorm.io/gorm"
)

// Merchant 商户表（多租户隔离单元）
type Merchant struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                     // 主键
	Code         string         `gorm:"uniqueIndex;not null" json:"code"`                         // 商户编码
	Name         string         `gorm:"type:varchar(200);not null" json:"name"`                   // 商户名称
	ContactName  string         `gorm:"type:varchar(100)" json:"contact_name"`                    // 联系人
	ContactEmail string         `gorm:"type:varchar(200);index" json:"contact_email"`             // 联系邮箱
	ContactPhone string         `gorm:"type:varchar(40)" json:"contact_phone"`                    // 联系电话
	Status       string         `gorm:"type:varchar(20);index;not null;default:'active'" json:"status"` // 状态
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	Subscription *Subscription `gorm:"foreignKey:MerchantID" json:"subscription,omitempty"` // 当前订阅
}

// TableName 指定表名
func (Merchant) TableName() string {
	return "merchants"
}
