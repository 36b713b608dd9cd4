package models

import (
	"time"
)

// Order 订单表
// 订单不做物理删除，取消是终态而非删行。
type Order struct {
	ID                 uint       `gorm:"primarykey" json:"id"`                                   // 主键
	OrderNo            string     `gorm:"uniqueIndex;not null" json:"order_no"`                   // 订单编号
	MerchantID         uint       `gorm:"index;not null" json:"merchant_id"`                      // 所属商户
	WarehouseID        uint       `gorm:"index;not null;default:0" json:"warehouse_id"`           // 发货仓库（可选）
	Status             string     `gorm:"type:varchar(30);index;not null" json:"status"`          // 订单状态
	TotalAmount        Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 总金额（含运费）
	DeliveryFee        Money      `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"` // 运费
	PaymentMethod      string     `gorm:"type:varchar(40)" json:"payment_method"`                 // 支付方式
	CustomerName       string     `gorm:"type:varchar(200)" json:"customer_name"`                 // 客户姓名
	CustomerEmail      string     `gorm:"type:varchar(200);index" json:"customer_email"`          // 客户邮箱
	CustomerPhone      string     `gorm:"type:varchar(40)" json:"customer_phone"`                 // 客户电话
	ShippingLine1      string     `gorm:"type:varchar(300)" json:"shipping_line1"`                // 收货地址行1
	ShippingLine2      string     `gorm:"type:varchar(300)" json:"shipping_line2"`                // 收货地址行2
	ShippingCity       string     `gorm:"type:varchar(100)" json:"shipping_city"`                 // 城市
	ShippingPostcode   string     `gorm:"type:varchar(30)" json:"shipping_postcode"`              // 邮编
	ShippingCountry    string     `gorm:"type:varchar(100)" json:"shipping_country"`              // 国家
	TrackingNumber     string     `gorm:"type:varchar(100);index" json:"tracking_number,omitempty"` // 运单号
	LogisticsPartnerID uint       `gorm:"index;not null;default:0" json:"logistics_partner_id"`   // 物流商（可选）
	ExpectedDelivery   *time.Time `json:"expected_delivery,omitempty"`                            // 预计送达时间
	DeliveredAt        *time.Time `gorm:"index" json:"delivered_at,omitempty"`                    // 实际送达时间（首次到达 delivered 时写入）
	Version            int        `gorm:"not null;default:0" json:"version"`                      // 乐观锁版本
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt          time.Time  `gorm:"index" json:"updated_at"`                                // 更新时间

	Items   []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`   // 订单项
	History []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"` // 状态轨迹
	Returns []Return             `gorm:"foreignKey:OrderID" json:"returns,omitempty"` // 关联退货
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项表（创建后不可变）
type OrderItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                  // 主键
	OrderID    uint      `gorm:"index;not null" json:"order_id"`                        // 订单ID
	ProductID  uint      `gorm:"index;not null" json:"product_id"`                      // 商品ID
	SKU        string    `gorm:"type:varchar(100)" json:"sku"`                          // 商品编码快照
	Name       string    `gorm:"type:varchar(300)" json:"name"`                         // 商品名称快照
	Quantity   int       `gorm:"not null" json:"quantity"`                              // 数量
	UnitPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价快照
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 小计
	CreatedAt  time.Time `json:"created_at"`                                            // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusHistory 订单状态轨迹表（只追加）
// 每次状态变更写入恰好一行，不更新不删除。
type OrderStatusHistory struct {
	ID          uint      `gorm:"primarykey" json:"id"`                          // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`                // 订单ID
	Status      string    `gorm:"type:varchar(30);not null" json:"status"`       // 变更后状态
	ActorUserID uint      `gorm:"index;not null" json:"actor_user_id"`           // 操作人
	Note        string    `gorm:"type:varchar(500)" json:"note"`                 // 备注
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                       // 变更时间
}

// TableName 指定表名
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}
