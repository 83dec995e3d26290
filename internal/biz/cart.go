package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/errors"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"
)

// CartItem 购物车条目，短生命周期，按 vendor_id-product_id 定位
type CartItem struct {
	CustomerID   uint64          `json:"customer_id"`
	VendorID     uint64          `json:"vendor_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	AddedAt      time.Time       `json:"added_at"`
}

// Key 条目键: vendor_id-product_id
func (i *CartItem) Key() string { return CartKey(i.VendorID, i.ProductID) }

// CartKey 购物车条目键
func CartKey(vendorID uint64, productID string) string {
	return fmt.Sprintf("%d-%s", vendorID, productID)
}

// CartRepo 购物车仓库接口(redis 实现，带过期)
type CartRepo interface {
	GetItem(ctx context.Context, customerID uint64, key string) (*CartItem, error) // 不存在时返回 nil, nil
	PutItem(ctx context.Context, customerID uint64, item *CartItem) error
	RemoveItems(ctx context.Context, customerID uint64, keys []string) error
	ListItems(ctx context.Context, customerID uint64) ([]*CartItem, error)
	ClearCart(ctx context.Context, customerID uint64) error
}

// CartUsecase 购物车业务逻辑
type CartUsecase struct {
	cartRepo  CartRepo
	orderRepo OrderRepo
	pricing   PricingClient
	clock     Clock
	log       *log.Helper
}

// NewCartUsecase 创建购物车业务用例
func NewCartUsecase(cartRepo CartRepo, orderRepo OrderRepo, pricing PricingClient, clock Clock, logger log.Logger) *CartUsecase {
	return &CartUsecase{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		pricing:   pricing,
		clock:     clock,
		log:       log.NewHelper(logger),
	}
}

// AddItem 加入购物车，同键条目覆盖数量
func (uc *CartUsecase) AddItem(ctx context.Context, customerID, vendorID uint64, productID string, quantity decimal.Decimal) (*CartItem, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, errors.NewValidation(errors.ErrCodeCartValidation, "quantity must be positive")
	}

	quote, err := uc.pricing.ResolveProduct(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, errors.NewNotFound(errors.ErrCodeProductNotFound, fmt.Sprintf("product %s not found for vendor %d", productID, vendorID))
	}
	if quote.AvailableQty != nil && quantity.GreaterThan(*quote.AvailableQty) {
		return nil, errors.NewInsufficientStock(fmt.Sprintf("requested %s exceeds available %s %s",
			quantity.String(), quote.AvailableQty.String(), quote.Unit))
	}

	item := &CartItem{
		CustomerID:   customerID,
		VendorID:     vendorID,
		ProductID:    productID,
		ProductName:  quote.Name,
		Unit:         quote.Unit,
		Quantity:     quantity,
		PricePerUnit: quote.PricePerUnit,
		AddedAt:      uc.clock.Now(),
	}
	if err := uc.cartRepo.PutItem(ctx, customerID, item); err != nil {
		uc.log.Errorf("Failed to put cart item %s for customer %d: %v", item.Key(), customerID, err)
		return nil, err
	}
	return item, nil
}

// UpdateQuantity 修改条目数量
func (uc *CartUsecase) UpdateQuantity(ctx context.Context, customerID, vendorID uint64, productID string, quantity decimal.Decimal) (*CartItem, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, errors.NewValidation(errors.ErrCodeCartValidation, "quantity must be positive")
	}
	key := CartKey(vendorID, productID)
	item, err := uc.cartRepo.GetItem(ctx, customerID, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.NewNotFound(errors.ErrCodeCartItemNotFound, fmt.Sprintf("cart item %s not found", key))
	}
	item.Quantity = quantity
	if err := uc.cartRepo.PutItem(ctx, customerID, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem 移除条目
func (uc *CartUsecase) RemoveItem(ctx context.Context, customerID, vendorID uint64, productID string) error {
	return uc.cartRepo.RemoveItems(ctx, customerID, []string{CartKey(vendorID, productID)})
}

// ClearCart 清空购物车
func (uc *CartUsecase) ClearCart(ctx context.Context, customerID uint64) error {
	return uc.cartRepo.ClearCart(ctx, customerID)
}

// ListCart 列出购物车，并清掉底层订单已被独立交付的条目
func (uc *CartUsecase) ListCart(ctx context.Context, customerID uint64) ([]*CartItem, error) {
	items, err := uc.cartRepo.ListItems(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	today := DateOf(uc.clock.Now())
	delivered, err := uc.orderRepo.ListOrders(ctx, OrderFilter{
		CustomerID: customerID,
		From:       today,
		To:         today,
		Statuses:   []string{constants.OrderStatusDelivered},
	})
	if err != nil {
		uc.log.Errorf("Failed to list delivered orders for cart purge, customer %d: %v", customerID, err)
		return items, nil
	}
	if len(delivered) == 0 {
		return items, nil
	}

	deliveredKeys := make(map[string]bool, len(delivered))
	for _, o := range delivered {
		deliveredKeys[CartKey(o.VendorID, o.ProductID)] = true
	}

	kept := items[:0]
	var purge []string
	for _, item := range items {
		if deliveredKeys[item.Key()] {
			purge = append(purge, item.Key())
			continue
		}
		kept = append(kept, item)
	}
	if len(purge) > 0 {
		if err := uc.cartRepo.RemoveItems(ctx, customerID, purge); err != nil {
			uc.log.Errorf("Failed to purge delivered cart items for customer %d: %v", customerID, err)
		} else {
			uc.log.Infof("Purged %d delivered items from cart of customer %d", len(purge), customerID)
		}
	}
	return kept, nil
}
