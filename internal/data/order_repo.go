package data

import (
	"context"
	"errors"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// orderRepo 订单仓库实现
type orderRepo struct {
	data *Data
	log  *log.Helper
}

// NewOrderRepo 创建订单仓库
func NewOrderRepo(data *Data, logger log.Logger) biz.OrderRepo {
	return &orderRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// GetOrder 获取订单
func (r *orderRepo) GetOrder(ctx context.Context, id string) (*biz.Order, error) {
	var m model.Order
	err := r.data.orm(ctx).First(&m, "order_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Errorf("Failed to get order %s: %v", id, err)
		return nil, err
	}
	return orderToBiz(&m), nil
}

// ListOrders 查询订单列表
func (r *orderRepo) ListOrders(ctx context.Context, filter biz.OrderFilter) ([]*biz.Order, error) {
	query := r.data.orm(ctx).Model(&model.Order{})
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.VendorID > 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.ProductID != "" {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if !filter.From.IsZero() {
		query = query.Where("order_date >= ?", biz.DateOf(filter.From))
	}
	if !filter.To.IsZero() {
		query = query.Where("order_date <= ?", biz.DateOf(filter.To))
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	var models []model.Order
	if err := query.Order("order_date ASC").Find(&models).Error; err != nil {
		r.log.Errorf("Failed to list orders: %v", err)
		return nil, err
	}

	orders := make([]*biz.Order, len(models))
	for i := range models {
		orders[i] = orderToBiz(&models[i])
	}
	return orders, nil
}

// ListBySubscription 查询订阅在区间内已物化的订单
func (r *orderRepo) ListBySubscription(ctx context.Context, subscriptionID string, from, to time.Time) ([]*biz.Order, error) {
	var models []model.Order
	if err := r.data.orm(ctx).
		Where("subscription_id = ? AND order_date BETWEEN ? AND ?",
			subscriptionID, biz.DateOf(from), biz.DateOf(to)).
		Order("order_date ASC").
		Find(&models).Error; err != nil {
		r.log.Errorf("Failed to list orders for subscription %s: %v", subscriptionID, err)
		return nil, err
	}

	orders := make([]*biz.Order, len(models))
	for i := range models {
		orders[i] = orderToBiz(&models[i])
	}
	return orders, nil
}

// CreateOrder 创建订单
func (r *orderRepo) CreateOrder(ctx context.Context, order *biz.Order) error {
	if err := r.data.orm(ctx).Create(orderToModel(order)).Error; err != nil {
		r.log.Errorf("Failed to create order %s: %v", order.ID, err)
		return err
	}
	return nil
}

// UpdateOrder 更新订单
func (r *orderRepo) UpdateOrder(ctx context.Context, order *biz.Order) error {
	if err := r.data.orm(ctx).Save(orderToModel(order)).Error; err != nil {
		r.log.Errorf("Failed to update order %s: %v", order.ID, err)
		return err
	}
	return nil
}

// DeleteOrder 删除订单
func (r *orderRepo) DeleteOrder(ctx context.Context, id string) error {
	if err := r.data.orm(ctx).Delete(&model.Order{}, "order_id = ?", id).Error; err != nil {
		r.log.Errorf("Failed to delete order %s: %v", id, err)
		return err
	}
	return nil
}

func orderToBiz(m *model.Order) *biz.Order {
	subscriptionID := ""
	if m.SubscriptionID != nil {
		subscriptionID = *m.SubscriptionID
	}
	return &biz.Order{
		ID:              m.ID,
		CustomerID:      m.CustomerID,
		VendorID:        m.VendorID,
		ProductID:       m.ProductID,
		SubscriptionID:  subscriptionID,
		OrderDate:       m.OrderDate,
		Quantity:        m.Quantity,
		Unit:            m.Unit,
		PricePerUnit:    m.PricePerUnit,
		TotalAmount:     m.TotalAmount,
		Status:          m.Status,
		DeliveredAt:     m.DeliveredAt,
		DisputeRaised:   m.DisputeRaised,
		DisputeReason:   m.DisputeReason,
		PlacedByUserID:  m.PlacedByUserID,
		PlacedByRole:    m.PlacedByRole,
		PlacedVia:       m.PlacedVia,
		UpdatedByUserID: m.UpdatedByUserID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func orderToModel(o *biz.Order) *model.Order {
	var subscriptionID *string
	if o.SubscriptionID != "" {
		subscriptionID = &o.SubscriptionID
	}
	return &model.Order{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		VendorID:        o.VendorID,
		ProductID:       o.ProductID,
		SubscriptionID:  subscriptionID,
		OrderDate:       o.OrderDate,
		Quantity:        o.Quantity,
		Unit:            o.Unit,
		PricePerUnit:    o.PricePerUnit,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		DeliveredAt:     o.DeliveredAt,
		DisputeRaised:   o.DisputeRaised,
		DisputeReason:   o.DisputeReason,
		PlacedByUserID:  o.PlacedByUserID,
		PlacedByRole:    o.PlacedByRole,
		PlacedVia:       o.PlacedVia,
		UpdatedByUserID: o.UpdatedByUserID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
