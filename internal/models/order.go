package models

import "time"

// Order 订单表
type Order struct {
	ID          string      `gorm:"primaryKey;type:varchar(16)" json:"id"`                                 // 订单编号（8 位短码）
	SessionID   string      `gorm:"type:varchar(64);index" json:"-"`                                       // 下单会话
	TradeNo     *string     `gorm:"type:varchar(20);uniqueIndex" json:"tradeNo"`                           // 支付交易编号
	Name        string      `gorm:"type:varchar(100);not null" json:"name"`                                // 收件人
	Phone       string      `gorm:"type:varchar(50);not null" json:"phone"`                                // 电话
	Address     string      `gorm:"type:varchar(500);not null" json:"address"`                             // 地址
	Notes       string      `gorm:"type:text" json:"notes"`                                                // 备注
	Subtotal    int64       `gorm:"not null;default:0" json:"subtotal"`                                    // 商品小计
	Shipping    int64       `gorm:"not null;default:0" json:"shipping"`                                    // 运费
	Total       int64       `gorm:"not null;default:0" json:"total"`                                       // 应付总额
	Status      string      `gorm:"type:varchar(16);index;not null" json:"status"`                         // 订单状态
	PaymentType string      `gorm:"type:varchar(64)" json:"paymentType,omitempty"`                         // 支付方式（网关回传）
	ExpiresAt   *time.Time  `gorm:"index" json:"expiresAt"`                                                // 发起支付截止时间
	PaidAt      *time.Time  `json:"paidAt"`                                                                // 支付时间
	FailedAt    *time.Time  `json:"failedAt"`                                                              // 失败时间
	CreatedAt   time.Time   `gorm:"index" json:"createdAt"`                                                // 创建时间
	UpdatedAt   time.Time   `json:"updatedAt"`                                                             // 更新时间
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
