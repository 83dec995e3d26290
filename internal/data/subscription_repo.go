package data

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// subscriptionRepo 订阅仓库实现
type subscriptionRepo struct {
	data *Data
	log  *log.Helper
}

// NewSubscriptionRepo 创建订阅仓库
func NewSubscriptionRepo(data *Data, logger log.Logger) biz.SubscriptionRepo {
	return &subscriptionRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// GetSubscription 获取订阅
func (r *subscriptionRepo) GetSubscription(ctx context.Context, id string) (*biz.Subscription, error) {
	var m model.Subscription
	err := r.data.orm(ctx).First(&m, "subscription_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Errorf("Failed to get subscription %s: %v", id, err)
		return nil, err
	}
	return subscriptionToBiz(&m), nil
}

// ListByCustomer 查询客户的订阅
func (r *subscriptionRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]*biz.Subscription, error) {
	var models []model.Subscription
	if err := r.data.orm(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		r.log.Errorf("Failed to list subscriptions for customer %d: %v", customerID, err)
		return nil, err
	}

	subs := make([]*biz.Subscription, len(models))
	for i := range models {
		subs[i] = subscriptionToBiz(&models[i])
	}
	return subs, nil
}

// ListActive 查询所有 active 订阅(物化定时任务用)
func (r *subscriptionRepo) ListActive(ctx context.Context) ([]*biz.Subscription, error) {
	var models []model.Subscription
	if err := r.data.orm(ctx).
		Where("status = ?", constants.SubscriptionStatusActive).
		Find(&models).Error; err != nil {
		r.log.Errorf("Failed to list active subscriptions: %v", err)
		return nil, err
	}

	subs := make([]*biz.Subscription, len(models))
	for i := range models {
		subs[i] = subscriptionToBiz(&models[i])
	}
	return subs, nil
}

// CreateSubscription 创建订阅
func (r *subscriptionRepo) CreateSubscription(ctx context.Context, sub *biz.Subscription) error {
	if err := r.data.orm(ctx).Create(subscriptionToModel(sub)).Error; err != nil {
		r.log.Errorf("Failed to create subscription %s: %v", sub.ID, err)
		return err
	}
	return nil
}

// SaveSubscription 保存订阅
func (r *subscriptionRepo) SaveSubscription(ctx context.Context, sub *biz.Subscription) error {
	if err := r.data.orm(ctx).Save(subscriptionToModel(sub)).Error; err != nil {
		r.log.Errorf("Failed to save subscription %s: %v", sub.ID, err)
		return err
	}
	return nil
}

func subscriptionToBiz(m *model.Subscription) *biz.Subscription {
	return &biz.Subscription{
		ID:                m.ID,
		CustomerID:        m.CustomerID,
		VendorID:          m.VendorID,
		ProductID:         m.ProductID,
		Frequency:         m.Frequency,
		StartDate:         m.StartDate,
		OriginalStartDate: m.OriginalStartDate,
		EndDate:           m.EndDate,
		Status:            m.Status,
		PausedFrom:        m.PausedFrom,
		PausedUntil:       m.PausedUntil,
		WeeklyDays:        decodeWeeklyDays(m.WeeklyDays),
		MonthlyDay:        m.MonthlyDay,
		Quantity:          m.Quantity,
		Unit:              m.Unit,
		PricePerUnit:      m.PricePerUnit,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func subscriptionToModel(s *biz.Subscription) *model.Subscription {
	return &model.Subscription{
		ID:                s.ID,
		CustomerID:        s.CustomerID,
		VendorID:          s.VendorID,
		ProductID:         s.ProductID,
		Frequency:         s.Frequency,
		StartDate:         s.StartDate,
		OriginalStartDate: s.OriginalStartDate,
		EndDate:           s.EndDate,
		Status:            s.Status,
		PausedFrom:        s.PausedFrom,
		PausedUntil:       s.PausedUntil,
		WeeklyDays:        encodeWeeklyDays(s.WeeklyDays),
		MonthlyDay:        s.MonthlyDay,
		Quantity:          s.Quantity,
		Unit:              s.Unit,
		PricePerUnit:      s.PricePerUnit,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func encodeWeeklyDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func decodeWeeklyDays(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return days
}
