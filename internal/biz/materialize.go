package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/errors"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
)

// materializeWindowDays 读配置里的物化窗口天数，缺省回退常量
func (uc *SubscriptionUsecase) materializeWindowDays() int {
	if uc.config != nil && uc.config.Engine != nil && uc.config.Engine.MaterializeWindowDays > 0 {
		return uc.config.Engine.MaterializeWindowDays
	}
	return constants.DefaultMaterializeWindowDays
}

// MaterializeSubscription 把订阅在[from, to]区间内展开并对账落成订单。
// 幂等: 按 (subscription, date) 与既有订单比对，只补缺失的日期。
// 展开起点不早于今天，回填历史日期只走订单侧的 backfill 路径。
// 零值区间按"今天起一个配置窗口"补齐，时间一律取注入的时钟。
func (uc *SubscriptionUsecase) MaterializeSubscription(ctx context.Context, subscriptionID string, from, to time.Time) (int, error) {
	now := uc.clock.Now()
	if from.IsZero() {
		from = DateOf(now)
	}
	if to.IsZero() {
		to = DateOf(from).AddDate(0, 0, uc.materializeWindowDays())
	}
	if DateOf(to).Before(DateOf(from)) {
		return 0, errors.NewValidation(errors.ErrCodeSubscriptionValidation, "to must not be before from")
	}
	if DateOf(to).Sub(DateOf(from)) > constants.MaxExpansionRangeDays*24*time.Hour {
		return 0, errors.NewValidation(errors.ErrCodeSubscriptionValidation,
			fmt.Sprintf("expansion range exceeds %d days", constants.MaxExpansionRangeDays))
	}

	// 页面触发和定时任务可能同时对账同一订阅，用分布式锁串行化
	lockKey := fmt.Sprintf("materialize_lock:subscription:%s", subscriptionID)
	mutex := uc.rs.NewMutex(
		lockKey,
		redsync.WithExpiry(constants.MaterializeLockExpiration),
		redsync.WithTries(constants.MaterializeLockRetries),
	)
	if err := mutex.LockContext(ctx); err != nil {
		uc.log.Infof("Skipping materialization for subscription %s: lock busy", subscriptionID)
		return 0, nil
	}
	defer func() {
		if _, err := mutex.UnlockContext(ctx); err != nil {
			uc.log.Warnf("Failed to unlock materialization for subscription %s: %v", subscriptionID, err)
		}
	}()

	sub, err := uc.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return 0, err
	}

	from = MaxDate(from, now)
	dates := ExpandDates(sub, from, to)
	if len(dates) == 0 {
		return 0, nil
	}

	existing, err := uc.orderRepo.ListBySubscription(ctx, sub.ID, from, to)
	if err != nil {
		uc.log.Errorf("Failed to list orders for subscription %s: %v", sub.ID, err)
		return 0, err
	}
	materialized := make(map[string]bool, len(existing))
	for _, o := range existing {
		materialized[o.OrderDate.Format(time.DateOnly)] = true
	}

	var missing []time.Time
	for _, d := range dates {
		if !materialized[d.Format(time.DateOnly)] {
			missing = append(missing, d)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	created := 0
	err = uc.tm.Exec(ctx, func(ctx context.Context) error {
		for _, d := range missing {
			order := &Order{
				ID:             uuid.New().String(),
				CustomerID:     sub.CustomerID,
				VendorID:       sub.VendorID,
				ProductID:      sub.ProductID,
				SubscriptionID: sub.ID,
				OrderDate:      d,
				Quantity:       sub.Quantity,
				Unit:           sub.Unit,
				PricePerUnit:   sub.PricePerUnit,
				TotalAmount:    sub.Quantity.Mul(sub.PricePerUnit).Round(constants.MoneyScale),
				Status:         constants.OrderStatusPending,
				PlacedByUserID: sub.CustomerID,
				PlacedByRole:   "customer",
				PlacedVia:      constants.PlacementSubscription,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := uc.orderRepo.CreateOrder(ctx, order); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		uc.log.Errorf("Failed to materialize subscription %s: %v", sub.ID, err)
		return 0, err
	}

	uc.log.Infof("Materialized %d orders for subscription %s in [%s, %s]",
		created, sub.ID, from.Format(time.DateOnly), DateOf(to).Format(time.DateOnly))
	return created, nil
}

// MaterializeDueSubscriptions 对所有 active 订阅做一轮物化(定时任务入口)
func (uc *SubscriptionUsecase) MaterializeDueSubscriptions(ctx context.Context, windowDays int) (int, int, error) {
	if windowDays < 1 {
		windowDays = uc.materializeWindowDays()
	}

	subs, err := uc.subRepo.ListActive(ctx)
	if err != nil {
		uc.log.Errorf("Failed to list active subscriptions: %v", err)
		return 0, 0, err
	}

	now := uc.clock.Now()
	from := DateOf(now)
	to := from.AddDate(0, 0, windowDays)

	processed, created := 0, 0
	for _, sub := range subs {
		n, err := uc.MaterializeSubscription(ctx, sub.ID, from, to)
		if err != nil {
			uc.log.Errorf("Materialization failed for subscription %s: %v", sub.ID, err)
			continue
		}
		processed++
		created += n
	}

	uc.log.Infof("Materialization sweep completed: %d/%d subscriptions, %d orders created", processed, len(subs), created)
	return processed, created, nil
}
