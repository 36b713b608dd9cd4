package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（平台管理员与商户/仓库成员共用）
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                     // 主键
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`                        // 登录邮箱
	PasswordHash       string         `gorm:"type:varchar(200);not null" json:"-"`                      // 密码哈希
	DisplayName        string         `gorm:"type:varchar(100)" json:"display_name"`                    // 显示名称
	Role               string         `gorm:"type:varchar(30);index;not null" json:"role"`              // 角色
	MerchantID         uint           `gorm:"index;not null;default:0" json:"merchant_id"`              // 所属商户（平台管理员为 0）
	WarehouseID        uint           `gorm:"index;not null;default:0" json:"warehouse_id"`             // 所属仓库（仓库成员）
	Status             string         `gorm:"type:varchar(20);index;not null;default:'active'" json:"status"` // 状态
	TokenVersion       int            `gorm:"not null;default:0" json:"-"`                              // 令牌版本（改密后失效旧令牌）
	TokenInvalidBefore *time.Time     `json:"-"`                                                        // 此时间之前签发的令牌失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                                            // 最近登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
