package data

import (
	"context"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
)

// subscriptionHistoryRepo 订阅历史仓库实现
type subscriptionHistoryRepo struct {
	data *Data
	log  *log.Helper
}

// NewSubscriptionHistoryRepo 创建订阅历史仓库
func NewSubscriptionHistoryRepo(data *Data, logger log.Logger) biz.SubscriptionHistoryRepo {
	return &subscriptionHistoryRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// AddSubscriptionHistory 添加历史记录
func (r *subscriptionHistoryRepo) AddSubscriptionHistory(ctx context.Context, history *biz.SubscriptionHistory) error {
	m := &model.SubscriptionHistory{
		SubscriptionID: history.SubscriptionID,
		CustomerID:     history.CustomerID,
		Action:         history.Action,
		Status:         history.Status,
		StartDate:      history.StartDate,
		EndDate:        history.EndDate,
		CreatedAt:      history.CreatedAt,
	}
	if err := r.data.orm(ctx).Create(m).Error; err != nil {
		r.log.Errorf("Failed to add history for subscription %s: %v", history.SubscriptionID, err)
		return err
	}
	return nil
}

// GetSubscriptionHistory 分页查询历史记录
func (r *subscriptionHistoryRepo) GetSubscriptionHistory(ctx context.Context, subscriptionID string, page, pageSize int) ([]*biz.SubscriptionHistory, int, error) {
	var total int64
	if err := r.data.orm(ctx).Model(&model.SubscriptionHistory{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&total).Error; err != nil {
		r.log.Errorf("Failed to count history for subscription %s: %v", subscriptionID, err)
		return nil, 0, err
	}

	var models []model.SubscriptionHistory
	offset := (page - 1) * pageSize
	if err := r.data.orm(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error; err != nil {
		r.log.Errorf("Failed to get history for subscription %s: %v", subscriptionID, err)
		return nil, 0, err
	}

	items := make([]*biz.SubscriptionHistory, len(models))
	for i, m := range models {
		items[i] = &biz.SubscriptionHistory{
			ID:             m.ID,
			SubscriptionID: m.SubscriptionID,
			CustomerID:     m.CustomerID,
			Action:         m.Action,
			Status:         m.Status,
			StartDate:      m.StartDate,
			EndDate:        m.EndDate,
			CreatedAt:      m.CreatedAt,
		}
	}
	return items, int(total), nil
}
