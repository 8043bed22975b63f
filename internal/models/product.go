package models

import "time"

// Product 商品表
type Product struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`                               // 商品编号
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`                              // 商品名称
	Img       string    `gorm:"type:varchar(500)" json:"img"`                                        // 图片地址
	Price     int64     `gorm:"not null;default:0" json:"price"`                                     // 单价（整数货币单位）
	Stock     int       `gorm:"not null;default:0;check:chk_products_stock,stock >= 0" json:"stock"` // 库存
	CreatedAt time.Time `json:"createdAt"`                                                           // 创建时间
	UpdatedAt time.Time `json:"updatedAt"`                                                           // 更新时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
