package models

// OrderItem 订单项表，(order_id, product_id) 联合主键，创建后不可变
type OrderItem struct {
	OrderID   string   `gorm:"primaryKey;type:varchar(16)" json:"orderId"`                               // 订单编号
	ProductID string   `gorm:"primaryKey;type:varchar(64)" json:"productId"`                             // 商品编号
	Quantity  int      `gorm:"not null" json:"quantity"`                                                 // 数量
	Price     int64    `gorm:"not null" json:"price"`                                                    // 下单时单价快照
	LineTotal int64    `gorm:"not null" json:"lineTotal"`                                                // 行小计
	Product   *Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:RESTRICT" json:"-"` // 商品（删除受限）
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
