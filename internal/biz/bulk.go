package biz

import (
	"context"
	"sync"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/auth"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/errors"

	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// BulkFailure 批量操作中单条订单的失败信息
type BulkFailure struct {
	OrderID string
	Reason  string
	Message string
}

// BulkResult 批量操作聚合结果
type BulkResult struct {
	Target    string // 状态切换的目标状态，删除操作为空
	Succeeded int
	Failed    int
	Failures  []BulkFailure
}

// BulkToggleTarget 批量状态切换的目标状态，整个选集算一次:
// 所有选中订单都是 delivered 且未被对方更新时目标为 pending，否则为 delivered
func BulkToggleTarget(orders []*Order) string {
	if len(orders) == 0 {
		return constants.OrderStatusDelivered
	}
	for _, o := range orders {
		if o.Status != constants.OrderStatusDelivered || CounterPartyUpdated(o) {
			return constants.OrderStatusDelivered
		}
	}
	return constants.OrderStatusPending
}

// SelectAllEligible 全选集只含 pending 订单
func SelectAllEligible(orders []*Order) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		if o.Status == constants.OrderStatusPending {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// BulkToggleStatus 批量状态切换。逐条独立执行，单条失败不回滚其余，
// 所有结果汇齐后统一返回
func (uc *OrderUsecase) BulkToggleStatus(ctx context.Context, actor auth.Actor, orderIDs []string) (*BulkResult, error) {
	if len(orderIDs) == 0 {
		return nil, errors.NewValidation(errors.ErrCodeBulkEmptySelection, "no orders selected")
	}

	orders := make([]*Order, 0, len(orderIDs))
	result := &BulkResult{}
	pending := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		order, err := uc.GetOrder(ctx, id)
		if err != nil {
			result.recordFailure(id, err)
			continue
		}
		orders = append(orders, order)
		pending = append(pending, id)
	}

	result.Target = BulkToggleTarget(orders)

	uc.dispatch(ctx, pending, result, func(ctx context.Context, id string) error {
		var err error
		if result.Target == constants.OrderStatusPending {
			_, err = uc.MarkPending(ctx, actor, id)
		} else {
			_, err = uc.ConfirmDelivery(ctx, actor, id, nil)
		}
		return err
	})

	uc.log.Infof("Bulk toggle to %s by user %d: %d succeeded, %d failed",
		result.Target, actor.UserID, result.Succeeded, result.Failed)
	return result, nil
}

// BulkDelete 批量删除，语义同上: 逐条独立
func (uc *OrderUsecase) BulkDelete(ctx context.Context, actor auth.Actor, orderIDs []string) (*BulkResult, error) {
	if len(orderIDs) == 0 {
		return nil, errors.NewValidation(errors.ErrCodeBulkEmptySelection, "no orders selected")
	}

	result := &BulkResult{}
	uc.dispatch(ctx, orderIDs, result, func(ctx context.Context, id string) error {
		return uc.DeleteOrder(ctx, actor, id)
	})

	uc.log.Infof("Bulk delete by user %d: %d succeeded, %d failed", actor.UserID, result.Succeeded, result.Failed)
	return result, nil
}

// dispatch 并发执行每条订单的变更。各订单ID互不相交，可自由并行;
// join 点等所有结果，单条失败或超时不取消已在途的兄弟操作
func (uc *OrderUsecase) dispatch(ctx context.Context, orderIDs []string, result *BulkResult, fn func(ctx context.Context, id string) error) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, id := range orderIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := fn(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.recordFailure(id, err)
			} else {
				result.Succeeded++
			}
		}(id)
	}
	wg.Wait()
}

func (r *BulkResult) recordFailure(orderID string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, BulkFailure{
		OrderID: orderID,
		Reason:  kerrors.Reason(err),
		Message: err.Error(),
	})
}
