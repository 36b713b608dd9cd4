package models

import "time"

// AuditLog 操作审计日志表（只追加）
// 说明：记录平台与商户后台的所有变更操作，支持按操作人与时间范围检索。
type AuditLog struct {
	ID          uint      `gorm:"primarykey" json:"id"`                           // 主键
	ActorUserID uint      `gorm:"index;not null" json:"actor_user_id"`            // 操作人
	ActorEmail  string    `gorm:"type:varchar(200);index" json:"actor_email"`     // 操作人邮箱快照
	MerchantID  uint      `gorm:"index;not null;default:0" json:"merchant_id"`    // 涉及商户
	Action      string    `gorm:"type:varchar(100);index;not null" json:"action"` // 动作
	EntityType  string    `gorm:"type:varchar(60);index;not null" json:"entity_type"` // 实体类型
	EntityID    uint      `gorm:"index" json:"entity_id"`                         // 实体ID
	RequestID   string    `gorm:"type:varchar(64);index" json:"request_id"`       // 请求ID
	NewValues   JSON      `gorm:"type:json" json:"new_values"`                    // 变更后快照
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                        // 创建时间
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}
