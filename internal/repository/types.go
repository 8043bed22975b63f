package repository

import "time"

// OrderListFilter 管理端订单查询条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// OrderItemDetail 订单项与商品名称联表结果
type OrderItemDetail struct {
	OrderID     string `json:"orderId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	LineTotal   int64  `json:"lineTotal"`
}

// ProductPatch 商品局部更新，nil 字段保持不变
type ProductPatch struct {
	Name  *string
	Img   *string
	Price *int64
	Stock *int
}

// IsEmpty 是否没有任何可更新字段
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Img == nil && p.Price == nil && p.Stock == nil
}
