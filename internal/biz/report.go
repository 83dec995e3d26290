package biz

import (
	"context"
	"sort"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"
)

// OrderStats 订单统计。展示金额四舍五入到整数，单条订单金额保留全精度
type OrderStats struct {
	TotalCount       int   `json:"total_count"` // 不含 cancelled
	TotalAmount      int64 `json:"total_amount"`
	FutureCount      int   `json:"future_count"` // order_date >= 今天
	FutureAmount     int64 `json:"future_amount"`
	DeliveredCount   int   `json:"delivered_count"` // delivered 且无争议
	DeliveredAmount  int64 `json:"delivered_amount"`
	DisputedCount    int   `json:"disputed_count"` // delivered 且有争议
	DisputedAmount   int64 `json:"disputed_amount"`
	PendingCount     int   `json:"pending_count"`
	PendingAmount    int64 `json:"pending_amount"` // 预测金额
}

// AggregateOrders 对已取回的订单集合做纯聚合，每次筛选/集合变化由宿主重算
func AggregateOrders(orders []*Order, now time.Time) *OrderStats {
	today := DateOf(now)
	var total, future, delivered, disputed, pending decimal.Decimal
	stats := &OrderStats{}

	for _, o := range orders {
		if o.Status == constants.OrderStatusCancelled {
			continue
		}
		stats.TotalCount++
		total = total.Add(o.TotalAmount)

		if !DateOf(o.OrderDate).Before(today) {
			stats.FutureCount++
			future = future.Add(o.TotalAmount)
		}
		switch {
		case o.Status == constants.OrderStatusDelivered && o.DisputeRaised:
			stats.DisputedCount++
			disputed = disputed.Add(o.TotalAmount)
		case o.Status == constants.OrderStatusDelivered:
			stats.DeliveredCount++
			delivered = delivered.Add(o.TotalAmount)
		case o.Status == constants.OrderStatusPending:
			stats.PendingCount++
			pending = pending.Add(o.TotalAmount)
		}
	}

	stats.TotalAmount = total.Round(0).IntPart()
	stats.FutureAmount = future.Round(0).IntPart()
	stats.DeliveredAmount = delivered.Round(0).IntPart()
	stats.DisputedAmount = disputed.Round(0).IntPart()
	stats.PendingAmount = pending.Round(0).IntPart()
	return stats
}

// SortOrders 按指定字段排序，稳定排序，相等项保持集合原序
func SortOrders(orders []*Order, key string, desc bool) {
	less := func(a, b *Order) bool { return a.OrderDate.Before(b.OrderDate) }
	switch key {
	case constants.SortByVendor:
		less = func(a, b *Order) bool { return a.VendorID < b.VendorID }
	case constants.SortByProduct:
		less = func(a, b *Order) bool { return a.ProductID < b.ProductID }
	case constants.SortByQuantity:
		less = func(a, b *Order) bool { return a.Quantity.LessThan(b.Quantity) }
	case constants.SortByAmount:
		less = func(a, b *Order) bool { return a.TotalAmount.LessThan(b.TotalAmount) }
	case constants.SortByStatus:
		less = func(a, b *Order) bool { return a.Status < b.Status }
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if desc {
			return less(orders[j], orders[i])
		}
		return less(orders[i], orders[j])
	})
}

// ReportUsecase 报表业务逻辑，只读
type ReportUsecase struct {
	orderRepo OrderRepo
	clock     Clock
	log       *log.Helper
}

// NewReportUsecase 创建报表业务用例
func NewReportUsecase(orderRepo OrderRepo, clock Clock, logger log.Logger) *ReportUsecase {
	return &ReportUsecase{
		orderRepo: orderRepo,
		clock:     clock,
		log:       log.NewHelper(logger),
	}
}

// GetStats 取回筛选窗口内的订单并聚合
func (uc *ReportUsecase) GetStats(ctx context.Context, filter OrderFilter) (*OrderStats, error) {
	orders, err := uc.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		uc.log.Errorf("Failed to list orders for stats: %v", err)
		return nil, err
	}
	return AggregateOrders(orders, uc.clock.Now()), nil
}

// ListSorted 取回筛选窗口内的订单并按指定字段排序
func (uc *ReportUsecase) ListSorted(ctx context.Context, filter OrderFilter, sortKey string, desc bool) ([]*Order, error) {
	orders, err := uc.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	SortOrders(orders, sortKey, desc)
	return orders, nil
}
