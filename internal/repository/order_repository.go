package repository

import (
	"errors"
	"time"

	"github.com/dawit-coffee/storefront/internal/constants"
	"github.com/dawit-coffee/storefront/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	Exists(id string) (bool, error)
	GetByID(id string) (*models.Order, error)
	GetByTradeNo(tradeNo string) (*models.Order, error)
	GetBySession(id, sessionID string) (*models.Order, error)
	ListItems(orderID string) ([]models.OrderItem, error)
	ListItemDetails(orderID string) ([]OrderItemDetail, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	ListExpiredCreated(now time.Time, limit int) ([]models.Order, error)
	AssignTradeNo(id, tradeNo string) (int64, error)
	TransitionStatus(id string, from []string, to string, updates map[string]interface{}) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Omit("Items").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Omit("Product").Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// Exists 订单编号是否已被占用
func (r *GormOrderRepository) Exists(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByID 根据编号获取订单（含订单项）
func (r *GormOrderRepository) GetByID(id string) (*models.Order, error) {
	return r.first(r.db.Preload("Items").Where("id = ?", id))
}

// GetByTradeNo 根据支付交易编号获取订单
func (r *GormOrderRepository) GetByTradeNo(tradeNo string) (*models.Order, error) {
	if tradeNo == "" {
		return nil, nil
	}
	return r.first(r.db.Preload("Items").Where("trade_no = ?", tradeNo))
}

// GetBySession 获取属于指定会话的订单
func (r *GormOrderRepository) GetBySession(id, sessionID string) (*models.Order, error) {
	if id == "" || sessionID == "" {
		return nil, nil
	}
	return r.first(r.db.Preload("Items").Where("id = ? AND session_id = ?", id, sessionID))
}

func (r *GormOrderRepository) first(query *gorm.DB) (*models.Order, error) {
	var order models.Order
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListItems 获取订单项
func (r *GormOrderRepository) ListItems(orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.Where("order_id = ?", orderID).Order("product_id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListItemDetails 获取订单项并带出商品名称
func (r *GormOrderRepository) ListItemDetails(orderID string) ([]OrderItemDetail, error) {
	var rows []OrderItemDetail
	err := r.db.Table("order_items AS oi").
		Select("oi.order_id, oi.product_id, p.name AS product_name, oi.quantity, oi.price, oi.line_total").
		Joins("JOIN products AS p ON p.id = oi.product_id").
		Where("oi.order_id = ?", orderID).
		Order("oi.product_id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAdmin 管理端订单列表，最新在前
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at desc").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListExpiredCreated 获取已过发起支付期限、仍未发起支付的订单
func (r *GormOrderRepository) ListExpiredCreated(now time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", constants.OrderStatusCreated, now).
		Order("expires_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// AssignTradeNo 写入交易编号并置为待支付，仅对 created/pending 订单生效
func (r *GormOrderRepository) AssignTradeNo(id, tradeNo string) (int64, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, []string{constants.OrderStatusCreated, constants.OrderStatusPending}).
		Updates(map[string]interface{}{
			"trade_no": tradeNo,
			"status":   constants.OrderStatusPending,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// TransitionStatus 条件迁移订单状态，当前状态不在 from 中时影响行数为 0
func (r *GormOrderRepository) TransitionStatus(id string, from []string, to string, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	query := r.db.Model(&models.Order{}).Where("id = ?", id)
	if len(from) > 0 {
		query = query.Where("status IN ?", from)
	}
	result := query.Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
