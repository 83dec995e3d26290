package biz

import (
	"context"
	"testing"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/auth"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/errors"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	customer = auth.Actor{UserID: 100, Role: auth.RoleCustomer}
	vendor   = auth.Actor{UserID: 200, Role: auth.RoleVendor}
)

func newOrderTestKit(now time.Time) (*OrderUsecase, *memOrderRepo, *fakePricing, *fakeClock) {
	repo := newMemOrderRepo()
	pricing := newFakePricing()
	clock := newFakeClock(now)
	uc := NewOrderUsecase(repo, pricing, clock, testLogger())
	return uc, repo, pricing, clock
}

func milkQuote() *ProductQuote {
	return &ProductQuote{
		ProductID:    "milk-1l",
		VendorID:     200,
		Name:         "Whole Milk 1L",
		Unit:         "bottle",
		PricePerUnit: dec("2.50"),
	}
}

func cutoffQuote() *ProductQuote {
	q := milkQuote()
	q.SubscribeBefore = "18:00"
	return q
}

func TestPlaceOrder(t *testing.T) {
	uc, repo, pricing, _ := newOrderTestKit(at("2024-03-10T17:00"))
	pricing.add(milkQuote())

	order, err := uc.PlaceOrder(context.Background(), customer, PlaceOrderInput{
		CustomerID: 100,
		VendorID:   200,
		ProductID:  "milk-1l",
		OrderDate:  day("2024-03-11"),
		Quantity:   dec("2"),
	})
	require.NoError(t, err)

	assert.Equal(t, constants.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(dec("5.00")), "total = quantity x price, got %s", order.TotalAmount)
	assert.Equal(t, "bottle", order.Unit)
	assert.Equal(t, constants.PlacementManual, order.PlacedVia)
	assert.Equal(t, uint64(100), order.PlacedByUserID)
	assert.Equal(t, 1, repo.count())
}

func TestPlaceOrderQuantityValidation(t *testing.T) {
	uc, _, pricing, _ := newOrderTestKit(at("2024-03-10T17:00"))
	pricing.add(milkQuote())

	_, err := uc.PlaceOrder(context.Background(), customer, PlaceOrderInput{
		CustomerID: 100, VendorID: 200, ProductID: "milk-1l",
		OrderDate: day("2024-03-11"), Quantity: decimal.Zero,
	})
	assert.True(t, errors.IsValidation(err))
}

func TestPlaceOrderAfterCutoff(t *testing.T) {
	uc, _, pricing, _ := newOrderTestKit(at("2024-03-10T19:00"))
	pricing.add(cutoffQuote())

	// 19:00 已过 18:00 截止，明天的窗口关了
	_, err := uc.PlaceOrder(context.Background(), customer, PlaceOrderInput{
		CustomerID: 100, VendorID: 200, ProductID: "milk-1l",
		OrderDate: day("2024-03-11"), Quantity: dec("1"),
	})
	assert.True(t, errors.IsInvalidState(err))

	// 后天仍开放
	_, err = uc.PlaceOrder(context.Background(), customer, PlaceOrderInput{
		CustomerID: 100, VendorID: 200, ProductID: "milk-1l",
		OrderDate: day("2024-03-12"), Quantity: dec("1"),
	})
	assert.NoError(t, err)
}

func TestPlaceOrderBackfillBypassesCutoff(t *testing.T) {
	uc, _, pricing, _ := newOrderTestKit(at("2024-03-10T19:00"))
	pricing.add(cutoffQuote())

	order, err := uc.PlaceOrder(context.Background(), customer, PlaceOrderInput{
		CustomerID: 100, VendorID: 200, ProductID: "milk-1l",
		OrderDate: day("2024-03-01"), Quantity: dec("1"),
		Via: constants.PlacementBackfill,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.PlacementBackfill, order.PlacedVia)
	assert.Equal(t, day("2024-03-01"), order.OrderDate)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	uc, _, pricing, _ := newOrderTestKit(at("2024-03-10T17:00"))
	available := dec("5")
	q := milkQuote()
	q.AvailableQty = &available
	pricing.add(q)

	_, err := uc.PlaceOrder(context.Background(), customer, PlaceOrderInput{
		CustomerID: 100, VendorID: 200, ProductID: "milk-1l",
		OrderDate: day("2024-03-11"), Quantity: dec("6"),
	})
	require.Error(t, err)
	assert.Equal(t, errors.ReasonInsufficientStock, kerrors.Reason(err))
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	uc, _, _, _ := newOrderTestKit(at("2024-03-10T17:00"))

	_, err := uc.PlaceOrder(context.Background(), customer, PlaceOrderInput{
		CustomerID: 100, VendorID: 200, ProductID: "nope",
		OrderDate: day("2024-03-11"), Quantity: dec("1"),
	})
	assert.True(t, errors.IsNotFound(err))
}

func TestConfirmDeliveryAndMarkPending(t *testing.T) {
	uc, _, pricing, clock := newOrderTestKit(at("2024-03-10T17:00"))
	pricing.add(milkQuote())

	order := mustPlace(t, uc, customer, day("2024-03-11"), dec("1"))

	clock.Set(at("2024-03-11T09:00"))
	delivered, err := uc.ConfirmDelivery(context.Background(), customer, order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)
	assert.Equal(t, at("2024-03-11T09:00"), *delivered.DeliveredAt)

	// 已交付不能重复确认
	_, err = uc.ConfirmDelivery(context.Background(), customer, order.ID, nil)
	assert.True(t, errors.IsInvalidState(err))

	// 客户自己确认的可以翻回 pending，交付时间清除
	back, err := uc.MarkPending(context.Background(), customer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusPending, back.Status)
	assert.Nil(t, back.DeliveredAt)
}

func TestConfirmDeliveryWithExplicitTime(t *testing.T) {
	uc, _, pricing, clock := newOrderTestKit(at("2024-03-10T17:00"))
	pricing.add(milkQuote())
	order := mustPlace(t, uc, customer, day("2024-03-11"), dec("1"))

	clock.Set(at("2024-03-12T08:00"))
	when := at("2024-03-11T06:30")
	delivered, err := uc.ConfirmDelivery(context.Background(), vendor, order.ID, &when)
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)
	assert.Equal(t, when, *delivered.DeliveredAt)
	require.NotNil(t, delivered.UpdatedByUserID)
	assert.Equal(t, uint64(200), *delivered.UpdatedByUserID)
}

func TestEditOrderRepricesAtCurrentQuote(t *testing.T) {
	uc, _, pricing, _ := newOrderTestKit(at("2024-03-10T17:00"))
	pricing.add(milkQuote())
	order := mustPlace(t, uc, customer, day("2024-03-11"), dec("2"))

	// 编辑时商品已调价，总价按现价重算
	repriced := milkQuote()
	repriced.PricePerUnit = dec("3.00")
	pricing.add(repriced)

	qty := dec("3")
	edited, err := uc.EditOrder(context.Background(), customer, order.ID, EditOrderInput{Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, edited.TotalAmount.Equal(dec("9.00")), "got %s", edited.TotalAmount)
	assert.True(t, edited.PricePerUnit.Equal(dec("3.00")))
}

func TestEditOrderDateImmutableOnceDelivered(t *testing.T) {
	uc, _, pricing, _ := newOrderTestKit(at("2024-03-10T17:00"))
	pricing.add(milkQuote())
	order := mustPlace(t, uc, customer, day("2024-03-11"), dec("1"))

	_, err := uc.ConfirmDelivery(context.Background(), customer, order.ID, nil)
	require.NoError(t, err)

	newDate := day("2024-03-12")
	_, err = uc.EditOrder(context.Background(), customer, order.ID, EditOrderInput{OrderDate: &newDate})
	assert.True(t, errors.IsInvalidState(err))

	// 数量编辑仍然允许(自己确认的交付)
	qty := dec("2")
	_, err = uc.EditOrder(context.Background(), customer, order.ID, EditOrderInput{Quantity: &qty})
	assert.NoError(t, err)
}

// 客户昨天下的单，商家确认了交付: 客户不能删除，只能走争议
func TestVendorConfirmedDeliveryLocksCustomer(t *testing.T) {
	uc, repo, pricing, clock := newOrderTestKit(at("2024-03-09T12:00"))
	pricing.add(milkQuote())
	order := mustPlace(t, uc, customer, day("2024-03-09"), dec("1"))

	_, err := uc.ConfirmDelivery(context.Background(), vendor, order.ID, nil)
	require.NoError(t, err)

	clock.Set(at("2024-03-10T12:00"))

	// 删除被拒
	err = uc.DeleteOrder(context.Background(), customer, order.ID)
	assert.True(t, errors.IsPermissionDenied(err))
	assert.Equal(t, 1, repo.count())

	// 翻回 pending 也被拒
	_, err = uc.MarkPending(context.Background(), customer, order.ID)
	assert.True(t, errors.IsPermissionDenied(err))

	// 争议是开放的
	disputed, err := uc.RaiseDispute(context.Background(), customer, order.ID, "was not delivered")
	require.NoError(t, err)
	assert.True(t, disputed.DisputeRaised)
	assert.Equal(t, "was not delivered", disputed.DisputeReason)
	assert.Equal(t, constants.OrderStatusDelivered, disputed.Status, "status unchanged while disputed")
}

func TestRaiseDisputeRequiresReason(t *testing.T) {
	uc, _, pricing, _ := newOrderTestKit(at("2024-03-09T12:00"))
	pricing.add(milkQuote())
	order := mustPlace(t, uc, customer, day("2024-03-09"), dec("1"))
	_, err := uc.ConfirmDelivery(context.Background(), vendor, order.ID, nil)
	require.NoError(t, err)

	_, err = uc.RaiseDispute(context.Background(), customer, order.ID, "")
	assert.True(t, errors.IsValidation(err))
}

func TestResolveDispute(t *testing.T) {
	uc, _, pricing, _ := newOrderTestKit(at("2024-03-09T12:00"))
	pricing.add(milkQuote())
	order := mustPlace(t, uc, customer, day("2024-03-09"), dec("1"))
	_, err := uc.ConfirmDelivery(context.Background(), vendor, order.ID, nil)
	require.NoError(t, err)
	_, err = uc.RaiseDispute(context.Background(), customer, order.ID, "wrong quantity")
	require.NoError(t, err)

	resolved, err := uc.ResolveDispute(context.Background(), vendor, order.ID, constants.DisputeResolutionPending)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusPending, resolved.Status)
	assert.False(t, resolved.DisputeRaised)
	assert.Empty(t, resolved.DisputeReason)
	assert.Nil(t, resolved.DeliveredAt)
	// 最后更新者保留，授权继续以其为准
	require.NotNil(t, resolved.UpdatedByUserID)
	assert.Equal(t, uint64(200), *resolved.UpdatedByUserID)

	// 没有争议时不能再处理
	_, err = uc.ResolveDispute(context.Background(), vendor, order.ID, constants.DisputeResolutionPending)
	assert.True(t, errors.IsInvalidState(err))
}

func TestResolveDisputeInvalidResolution(t *testing.T) {
	uc, _, pricing, _ := newOrderTestKit(at("2024-03-09T12:00"))
	pricing.add(milkQuote())
	order := mustPlace(t, uc, customer, day("2024-03-09"), dec("1"))
	_, err := uc.ConfirmDelivery(context.Background(), vendor, order.ID, nil)
	require.NoError(t, err)
	_, err = uc.RaiseDispute(context.Background(), customer, order.ID, "spoiled")
	require.NoError(t, err)

	_, err = uc.ResolveDispute(context.Background(), vendor, order.ID, "cancelled")
	assert.True(t, errors.IsValidation(err))
}

func TestDeleteOwnDeliveredOrder(t *testing.T) {
	uc, repo, pricing, _ := newOrderTestKit(at("2024-03-09T12:00"))
	pricing.add(milkQuote())
	order := mustPlace(t, uc, customer, day("2024-03-09"), dec("1"))

	// 自己确认的交付，下单者本人可删
	_, err := uc.ConfirmDelivery(context.Background(), customer, order.ID, nil)
	require.NoError(t, err)
	require.NoError(t, uc.DeleteOrder(context.Background(), customer, order.ID))
	assert.Equal(t, 0, repo.count())
}

func TestDefaultOrderDate(t *testing.T) {
	uc, _, pricing, clock := newOrderTestKit(at("2024-03-10T17:00"))
	pricing.add(cutoffQuote())

	d, err := uc.DefaultOrderDate(context.Background(), 200, "milk-1l")
	require.NoError(t, err)
	assert.Equal(t, day("2024-03-10"), d)

	clock.Set(at("2024-03-10T18:30"))
	d, err = uc.DefaultOrderDate(context.Background(), 200, "milk-1l")
	require.NoError(t, err)
	assert.Equal(t, day("2024-03-11"), d)
}

func TestGetOrderNotFound(t *testing.T) {
	uc, _, _, _ := newOrderTestKit(at("2024-03-10T17:00"))
	_, err := uc.GetOrder(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}

func mustPlace(t *testing.T, uc *OrderUsecase, actor auth.Actor, date time.Time, qty decimal.Decimal) *Order {
	t.Helper()
	order, err := uc.PlaceOrder(context.Background(), actor, PlaceOrderInput{
		CustomerID: 100,
		VendorID:   200,
		ProductID:  "milk-1l",
		OrderDate:  date,
		Quantity:   qty,
	})
	require.NoError(t, err)
	return order
}
