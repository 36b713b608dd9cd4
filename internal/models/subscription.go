package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionPlan 订阅套餐表
type SubscriptionPlan struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                  // 主键
	Code          string         `gorm:"uniqueIndex;not null" json:"code"`                      // 套餐编码
	Name          string         `gorm:"type:varchar(100);not null" json:"name"`                // 套餐名称
	MonthlyFee    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"monthly_fee"` // 月费
	MaxOrders     int            `gorm:"not null;default:0" json:"max_orders"`                  // 每月订单上限（0 不限）
	MaxUsers      int            `gorm:"not null;default:0" json:"max_users"`                   // 成员数量上限（0 不限）
	MaxWarehouses int            `gorm:"not null;default:0" json:"max_warehouses"`              // 仓库数量上限（0 不限）
	Active        bool           `gorm:"not null;default:true" json:"active"`                   // 是否可售
	CreatedAt     time.Time      `json:"created_at"`                                            // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                            // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间
}

// TableName 指定表名
func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// Subscription 商户订阅表
type Subscription struct {
	ID         uint       `gorm:"primarykey" json:"id"`                                   // 主键
	MerchantID uint       `gorm:"index;not null" json:"merchant_id"`                      // 商户ID
	PlanID     uint       `gorm:"index;not null" json:"plan_id"`                          // 套餐ID
	Status     string     `gorm:"type:varchar(20);index;not null;default:'active'" json:"status"` // 状态
	StartsAt   time.Time  `gorm:"index" json:"starts_at"`                                 // 开始时间
	ExpiresAt  *time.Time `gorm:"index" json:"expires_at"`                                // 过期时间
	CreatedAt  time.Time  `json:"created_at"`                                             // 创建时间
	UpdatedAt  time.Time  `json:"updated_at"`                                             // 更新时间

	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"` // 套餐
}

// TableName 指定表名
func (Subscription) TableName() string {
	return "subscriptions"
}
