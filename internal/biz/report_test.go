package biz

import (
	"context"
	"testing"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statOrder(id, date, status, amount string) *Order {
	return &Order{
		ID:          id,
		CustomerID:  100,
		OrderDate:   day(date),
		Status:      status,
		TotalAmount: dec(amount),
	}
}

func TestAggregateOrders(t *testing.T) {
	now := at("2024-03-10T12:00")
	disputed := statOrder("d1", "2024-03-08", constants.OrderStatusDelivered, "10.40")
	disputed.DisputeRaised = true

	orders := []*Order{
		statOrder("p1", "2024-03-11", constants.OrderStatusPending, "5.25"),   // future
		statOrder("p2", "2024-03-09", constants.OrderStatusPending, "2.50"),   // past, still pending
		statOrder("v1", "2024-03-10", constants.OrderStatusDelivered, "7.80"), // today counts as future
		disputed,
		statOrder("c1", "2024-03-09", constants.OrderStatusCancelled, "99.99"), // excluded entirely
	}

	stats := AggregateOrders(orders, now)

	assert.Equal(t, 4, stats.TotalCount, "cancelled excluded")
	assert.Equal(t, int64(26), stats.TotalAmount) // 25.95 rounds to 26

	assert.Equal(t, 2, stats.FutureCount)
	assert.Equal(t, int64(13), stats.FutureAmount) // 5.25 + 7.80 = 13.05

	assert.Equal(t, 1, stats.DeliveredCount)
	assert.Equal(t, int64(8), stats.DeliveredAmount)

	assert.Equal(t, 1, stats.DisputedCount)
	assert.Equal(t, int64(10), stats.DisputedAmount)

	assert.Equal(t, 2, stats.PendingCount)
	assert.Equal(t, int64(8), stats.PendingAmount) // 5.25 + 2.50 = 7.75
}

func TestAggregateOrdersEmpty(t *testing.T) {
	stats := AggregateOrders(nil, at("2024-03-10T12:00"))
	assert.Equal(t, 0, stats.TotalCount)
	assert.Equal(t, int64(0), stats.TotalAmount)
}

func TestSortOrders(t *testing.T) {
	orders := []*Order{
		{ID: "a", OrderDate: day("2024-03-12"), VendorID: 2, TotalAmount: dec("3.00")},
		{ID: "b", OrderDate: day("2024-03-10"), VendorID: 1, TotalAmount: dec("9.00")},
		{ID: "c", OrderDate: day("2024-03-11"), VendorID: 3, TotalAmount: dec("1.00")},
	}

	SortOrders(orders, constants.SortByDate, false)
	assert.Equal(t, []string{"b", "c", "a"}, orderIDs(orders))

	SortOrders(orders, constants.SortByDate, true)
	assert.Equal(t, []string{"a", "c", "b"}, orderIDs(orders))

	SortOrders(orders, constants.SortByAmount, false)
	assert.Equal(t, []string{"c", "a", "b"}, orderIDs(orders))

	SortOrders(orders, constants.SortByVendor, false)
	assert.Equal(t, []string{"b", "a", "c"}, orderIDs(orders))
}

// 稳定排序: 相等键保持集合原序
func TestSortOrdersStable(t *testing.T) {
	orders := []*Order{
		{ID: "x", OrderDate: day("2024-03-10"), VendorID: 1},
		{ID: "y", OrderDate: day("2024-03-10"), VendorID: 1},
		{ID: "z", OrderDate: day("2024-03-09"), VendorID: 1},
	}
	SortOrders(orders, constants.SortByVendor, false)
	assert.Equal(t, []string{"x", "y", "z"}, orderIDs(orders))
}

func TestReportUsecaseGetStats(t *testing.T) {
	repo := newMemOrderRepo()
	clock := newFakeClock(at("2024-03-10T12:00"))
	uc := NewReportUsecase(repo, clock, testLogger())

	require.NoError(t, repo.CreateOrder(context.Background(), statOrder("o1", "2024-03-11", constants.OrderStatusPending, "4.00")))
	require.NoError(t, repo.CreateOrder(context.Background(), statOrder("o2", "2024-03-09", constants.OrderStatusDelivered, "6.00")))

	stats, err := uc.GetStats(context.Background(), OrderFilter{CustomerID: 100})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCount)
	assert.Equal(t, int64(10), stats.TotalAmount)
	assert.Equal(t, 1, stats.PendingCount)
	assert.Equal(t, 1, stats.DeliveredCount)
}

func orderIDs(orders []*Order) []string {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}
