package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/auth"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/errors"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order 订单: 一个商品、一个交付日期、一个客户、一个商家
type Order struct {
	ID             string
	CustomerID     uint64
	VendorID       uint64
	ProductID      string
	SubscriptionID string // 空=非订阅生成
	OrderDate      time.Time
	Quantity       decimal.Decimal
	Unit           string // 下单时从商品冗余，不再重新推导
	PricePerUnit   decimal.Decimal
	TotalAmount    decimal.Decimal
	Status         string // pending, delivered, cancelled
	DeliveredAt    *time.Time
	DisputeRaised  bool
	DisputeReason  string
	PlacedByUserID uint64
	PlacedByRole   string
	PlacedVia      string // manual, calendar, subscription, backfill
	UpdatedByUserID *uint64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderFilter 订单查询条件
type OrderFilter struct {
	CustomerID uint64
	VendorID   uint64
	ProductID  string
	From       time.Time // 零值=不限
	To         time.Time // 零值=不限
	Statuses   []string
}

// OrderRepo 订单仓库接口
type OrderRepo interface {
	GetOrder(ctx context.Context, id string) (*Order, error) // 不存在时返回 nil, nil
	ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, error)
	ListBySubscription(ctx context.Context, subscriptionID string, from, to time.Time) ([]*Order, error)
	CreateOrder(ctx context.Context, order *Order) error
	UpdateOrder(ctx context.Context, order *Order) error
	DeleteOrder(ctx context.Context, id string) error
}

// ProductQuote 商品报价(来自外部商品目录服务)
type ProductQuote struct {
	ProductID       string
	VendorID        uint64
	Name            string
	Unit            string
	PricePerUnit    decimal.Decimal
	AvailableQty    *decimal.Decimal // nil=不限库存
	SubscribeBefore string           // "HH:MM"，空=无截止
}

// PricingClient 商品/定价服务客户端接口 (防腐层)
type PricingClient interface {
	ResolveProduct(ctx context.Context, vendorID uint64, productID string) (*ProductQuote, error) // 不存在时返回 nil, nil
}

// OrderUsecase 订单生命周期业务逻辑
type OrderUsecase struct {
	orderRepo OrderRepo
	pricing   PricingClient
	clock     Clock
	log       *log.Helper
}

// NewOrderUsecase 创建订单业务用例
func NewOrderUsecase(orderRepo OrderRepo, pricing PricingClient, clock Clock, logger log.Logger) *OrderUsecase {
	return &OrderUsecase{
		orderRepo: orderRepo,
		pricing:   pricing,
		clock:     clock,
		log:       log.NewHelper(logger),
	}
}

// PlaceOrderInput 下单参数
type PlaceOrderInput struct {
	CustomerID uint64
	VendorID   uint64
	ProductID  string
	OrderDate  time.Time
	Quantity   decimal.Decimal
	Via        string // manual, calendar, backfill
}

// PlaceOrder 下单。backfill 之外的路径都要过截止时间校验
func (uc *OrderUsecase) PlaceOrder(ctx context.Context, actor auth.Actor, in PlaceOrderInput) (*Order, error) {
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, errors.NewValidation(errors.ErrCodeOrderValidation, "quantity must be positive")
	}
	if in.Via == "" {
		in.Via = constants.PlacementManual
	}

	quote, err := uc.resolveQuote(ctx, in.VendorID, in.ProductID, in.Quantity)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	orderDate := DateOf(in.OrderDate)
	if in.Via != constants.PlacementBackfill {
		policy, err := CutoffPolicyFromString(quote.SubscribeBefore)
		if err != nil {
			return nil, err
		}
		if !policy.IsOrderable(now, orderDate) {
			return nil, errors.NewInvalidState(errors.ErrCodeOrderDateClosed,
				fmt.Sprintf("ordering for %s is closed", orderDate.Format(time.DateOnly)))
		}
	}

	order := &Order{
		ID:             uuid.New().String(),
		CustomerID:     in.CustomerID,
		VendorID:       in.VendorID,
		ProductID:      in.ProductID,
		OrderDate:      orderDate,
		Quantity:       in.Quantity,
		Unit:           quote.Unit,
		PricePerUnit:   quote.PricePerUnit,
		TotalAmount:    in.Quantity.Mul(quote.PricePerUnit).Round(constants.MoneyScale),
		Status:         constants.OrderStatusPending,
		PlacedByUserID: actor.UserID,
		PlacedByRole:   string(actor.Role),
		PlacedVia:      in.Via,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.orderRepo.CreateOrder(ctx, order); err != nil {
		uc.log.Errorf("Failed to create order for customer %d: %v", in.CustomerID, err)
		return nil, err
	}

	uc.log.Infof("Order %s placed: customer=%d vendor=%d product=%s date=%s via=%s",
		order.ID, order.CustomerID, order.VendorID, order.ProductID, orderDate.Format(time.DateOnly), in.Via)
	return order, nil
}

// GetOrder 获取订单
func (uc *OrderUsecase) GetOrder(ctx context.Context, id string) (*Order, error) {
	order, err := uc.orderRepo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.WithOrderID(errors.NewNotFound(errors.ErrCodeOrderNotFound, "order not found"), id)
	}
	return order, nil
}

// ListOrders 查询订单列表
func (uc *OrderUsecase) ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, error) {
	return uc.orderRepo.ListOrders(ctx, filter)
}

// ConfirmDelivery 确认交付: pending -> delivered
// deliveredAt 由确认方提供，允许补记或预记，缺省取当前时刻
func (uc *OrderUsecase) ConfirmDelivery(ctx context.Context, actor auth.Actor, orderID string, deliveredAt *time.Time) (*Order, error) {
	order, err := uc.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == constants.OrderStatusDelivered {
		return nil, errors.WithOrderID(errors.NewInvalidState(errors.ErrCodeOrderInvalidState, "order already delivered"), orderID)
	}
	if order.Status == constants.OrderStatusCancelled {
		return nil, errors.WithOrderID(errors.NewInvalidState(errors.ErrCodeOrderInvalidState, "order is cancelled"), orderID)
	}
	if !CanToggleOrDelete(order, actor, uc.clock.Now()) {
		return nil, errors.WithOrderID(errors.NewPermissionDenied(errors.ErrCodeOrderPermissionDenied, "order is locked by counter-party update"), orderID)
	}

	now := uc.clock.Now()
	at := now
	if deliveredAt != nil {
		at = *deliveredAt
	}
	order.Status = constants.OrderStatusDelivered
	order.DeliveredAt = &at
	order.UpdatedByUserID = &actor.UserID
	order.UpdatedAt = now

	if err := uc.orderRepo.UpdateOrder(ctx, order); err != nil {
		uc.log.Errorf("Failed to confirm delivery for order %s: %v", orderID, err)
		return nil, err
	}
	uc.log.Infof("Order %s delivered at %s by user %d", orderID, at.Format(time.RFC3339), actor.UserID)
	return order, nil
}

// MarkPending 撤销交付: delivered -> pending，清除交付时间
func (uc *OrderUsecase) MarkPending(ctx context.Context, actor auth.Actor, orderID string) (*Order, error) {
	order, err := uc.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusDelivered {
		return nil, errors.WithOrderID(errors.NewInvalidState(errors.ErrCodeOrderInvalidState, "order is not delivered"), orderID)
	}
	if !CanToggleOrDelete(order, actor, uc.clock.Now()) {
		return nil, errors.WithOrderID(errors.NewPermissionDenied(errors.ErrCodeOrderPermissionDenied, "delivery was confirmed by the counter-party"), orderID)
	}

	order.Status = constants.OrderStatusPending
	order.DeliveredAt = nil
	order.DisputeRaised = false
	order.DisputeReason = ""
	order.UpdatedByUserID = &actor.UserID
	order.UpdatedAt = uc.clock.Now()

	if err := uc.orderRepo.UpdateOrder(ctx, order); err != nil {
		uc.log.Errorf("Failed to mark order %s pending: %v", orderID, err)
		return nil, err
	}
	uc.log.Infof("Order %s marked pending by user %d", orderID, actor.UserID)
	return order, nil
}

// EditOrderInput 订单编辑参数，nil 字段保持不变
type EditOrderInput struct {
	Quantity  *decimal.Decimal
	ProductID *string
	OrderDate *time.Time
}

// EditOrder 编辑订单。总价按编辑时刻解析到的现价重算，不用存量单价
func (uc *OrderUsecase) EditOrder(ctx context.Context, actor auth.Actor, orderID string, in EditOrderInput) (*Order, error) {
	order, err := uc.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	if !CanModify(order, actor, now) {
		return nil, errors.WithOrderID(errors.NewPermissionDenied(errors.ErrCodeOrderPermissionDenied, "past order is locked by counter-party update"), orderID)
	}
	if order.Status == constants.OrderStatusDelivered {
		if CounterPartyUpdated(order) && actor.UserID == order.CustomerID {
			return nil, errors.WithOrderID(errors.NewPermissionDenied(errors.ErrCodeOrderPermissionDenied, "delivered order was confirmed by the counter-party"), orderID)
		}
		// 交付日期在 delivered 状态下不可变
		if in.OrderDate != nil && !SameDate(*in.OrderDate, order.OrderDate) {
			return nil, errors.WithOrderID(errors.NewInvalidState(errors.ErrCodeOrderInvalidState, "order date is immutable once delivered"), orderID)
		}
	}

	if in.ProductID != nil {
		order.ProductID = *in.ProductID
	}
	if in.Quantity != nil {
		if in.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, errors.NewValidation(errors.ErrCodeOrderValidation, "quantity must be positive")
		}
		order.Quantity = *in.Quantity
	}
	if in.OrderDate != nil {
		order.OrderDate = DateOf(*in.OrderDate)
	}

	quote, err := uc.resolveQuote(ctx, order.VendorID, order.ProductID, order.Quantity)
	if err != nil {
		return nil, err
	}
	order.Unit = quote.Unit
	order.PricePerUnit = quote.PricePerUnit
	order.TotalAmount = order.Quantity.Mul(quote.PricePerUnit).Round(constants.MoneyScale)
	order.UpdatedByUserID = &actor.UserID
	order.UpdatedAt = now

	if err := uc.orderRepo.UpdateOrder(ctx, order); err != nil {
		uc.log.Errorf("Failed to edit order %s: %v", orderID, err)
		return nil, err
	}
	uc.log.Infof("Order %s edited by user %d", orderID, actor.UserID)
	return order, nil
}

// DeleteOrder 删除订单
// delivered 订单仅当由下单者本人删除且未被对方更新过时允许
func (uc *OrderUsecase) DeleteOrder(ctx context.Context, actor auth.Actor, orderID string) error {
	order, err := uc.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == constants.OrderStatusDelivered {
		if order.PlacedByUserID != actor.UserID || CounterPartyUpdated(order) {
			return errors.WithOrderID(errors.NewPermissionDenied(errors.ErrCodeOrderPermissionDenied, "delivered order cannot be deleted; raise a dispute instead"), orderID)
		}
	}
	if !CanToggleOrDelete(order, actor, uc.clock.Now()) {
		return errors.WithOrderID(errors.NewPermissionDenied(errors.ErrCodeOrderPermissionDenied, "past order is locked by counter-party update"), orderID)
	}

	if err := uc.orderRepo.DeleteOrder(ctx, orderID); err != nil {
		uc.log.Errorf("Failed to delete order %s: %v", orderID, err)
		return err
	}
	uc.log.Infof("Order %s deleted by user %d", orderID, actor.UserID)
	return nil
}

// RaiseDispute 发起争议。仅限订单归属客户，且交付由对方确认时
func (uc *OrderUsecase) RaiseDispute(ctx context.Context, actor auth.Actor, orderID, reason string) (*Order, error) {
	order, err := uc.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusDelivered {
		return nil, errors.WithOrderID(errors.NewInvalidState(errors.ErrCodeOrderInvalidState, "only delivered orders can be disputed"), orderID)
	}
	if !CanDispute(order, actor) {
		return nil, errors.WithOrderID(errors.NewPermissionDenied(errors.ErrCodeOrderPermissionDenied, "dispute is only available to the order owner against a counter-party confirmation"), orderID)
	}
	if reason == "" {
		return nil, errors.NewValidation(errors.ErrCodeOrderValidation, "dispute reason is required")
	}

	order.DisputeRaised = true
	order.DisputeReason = reason
	order.UpdatedAt = uc.clock.Now()

	if err := uc.orderRepo.UpdateOrder(ctx, order); err != nil {
		uc.log.Errorf("Failed to raise dispute on order %s: %v", orderID, err)
		return nil, err
	}
	uc.log.Infof("Dispute raised on order %s by user %d", orderID, actor.UserID)
	return order, nil
}

// ResolveDispute 处理争议，resolution 取 delivered 或 pending
// 注意: 不清除 UpdatedByUserID，授权规则继续以最后更新者为准
func (uc *OrderUsecase) ResolveDispute(ctx context.Context, actor auth.Actor, orderID, resolution string) (*Order, error) {
	order, err := uc.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.DisputeRaised {
		return nil, errors.WithOrderID(errors.NewInvalidState(errors.ErrCodeOrderInvalidState, "order has no open dispute"), orderID)
	}
	if resolution != constants.DisputeResolutionDelivered && resolution != constants.DisputeResolutionPending {
		return nil, errors.NewValidation(errors.ErrCodeOrderValidation, fmt.Sprintf("invalid dispute resolution %q", resolution))
	}

	order.DisputeRaised = false
	order.DisputeReason = ""
	order.Status = resolution
	if resolution == constants.DisputeResolutionPending {
		order.DeliveredAt = nil
	}
	order.UpdatedAt = uc.clock.Now()

	if err := uc.orderRepo.UpdateOrder(ctx, order); err != nil {
		uc.log.Errorf("Failed to resolve dispute on order %s: %v", orderID, err)
		return nil, err
	}
	uc.log.Infof("Dispute on order %s resolved to %s by user %d", orderID, resolution, actor.UserID)
	return order, nil
}

// DefaultOrderDate 无预选日期时给前端的建议日期
func (uc *OrderUsecase) DefaultOrderDate(ctx context.Context, vendorID uint64, productID string) (time.Time, error) {
	quote, err := uc.resolveQuote(ctx, vendorID, productID, decimal.Zero)
	if err != nil {
		return time.Time{}, err
	}
	policy, err := CutoffPolicyFromString(quote.SubscribeBefore)
	if err != nil {
		return time.Time{}, err
	}
	return policy.DefaultDate(uc.clock.Now()), nil
}

// resolveQuote 解析商品现价，quantity 大于可用库存时上浮库存错误
func (uc *OrderUsecase) resolveQuote(ctx context.Context, vendorID uint64, productID string, quantity decimal.Decimal) (*ProductQuote, error) {
	quote, err := uc.pricing.ResolveProduct(ctx, vendorID, productID)
	if err != nil {
		uc.log.Errorf("Failed to resolve product %s from vendor %d: %v", productID, vendorID, err)
		return nil, err
	}
	if quote == nil {
		return nil, errors.NewNotFound(errors.ErrCodeProductNotFound, fmt.Sprintf("product %s not found for vendor %d", productID, vendorID))
	}
	if quote.AvailableQty != nil && quantity.GreaterThan(*quote.AvailableQty) {
		return nil, errors.NewInsufficientStock(fmt.Sprintf("requested %s exceeds available %s %s",
			quantity.String(), quote.AvailableQty.String(), quote.Unit))
	}
	return quote, nil
}
