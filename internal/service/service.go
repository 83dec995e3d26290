package service

import (
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/errors"

	"github.com/google/wire"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(
	NewOrderService,
	NewSubscriptionService,
	NewCartService,
)

// parseDate 解析 "2006-01-02"
func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.NewValidation(errors.ErrCodeOrderValidation, "invalid date, expect YYYY-MM-DD")
	}
	return d, nil
}

// parseOptionalDate 空串返回零值
func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return parseDate(s)
}

// OrderReply 订单应答
type OrderReply struct {
	ID              string     `json:"id"`
	CustomerID      uint64     `json:"customer_id"`
	VendorID        uint64     `json:"vendor_id"`
	ProductID       string     `json:"product_id"`
	SubscriptionID  string     `json:"subscription_id,omitempty"`
	OrderDate       string     `json:"order_date"`
	Quantity        string     `json:"quantity"`
	Unit            string     `json:"unit"`
	PricePerUnit    string     `json:"price_per_unit"`
	TotalAmount     string     `json:"total_amount"`
	Status          string     `json:"status"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	DisputeRaised   bool       `json:"dispute_raised"`
	DisputeReason   string     `json:"dispute_reason,omitempty"`
	PlacedByUserID  uint64     `json:"placed_by_user_id"`
	PlacedByRole    string     `json:"placed_by_role"`
	UpdatedByUserID *uint64    `json:"updated_by_user_id,omitempty"`
}

func orderToReply(o *biz.Order) *OrderReply {
	return &OrderReply{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		VendorID:        o.VendorID,
		ProductID:       o.ProductID,
		SubscriptionID:  o.SubscriptionID,
		OrderDate:       o.OrderDate.Format(time.DateOnly),
		Quantity:        o.Quantity.String(),
		Unit:            o.Unit,
		PricePerUnit:    o.PricePerUnit.String(),
		TotalAmount:     o.TotalAmount.String(),
		Status:          o.Status,
		DeliveredAt:     o.DeliveredAt,
		DisputeRaised:   o.DisputeRaised,
		DisputeReason:   o.DisputeReason,
		PlacedByUserID:  o.PlacedByUserID,
		PlacedByRole:    o.PlacedByRole,
		UpdatedByUserID: o.UpdatedByUserID,
	}
}

func ordersToReply(orders []*biz.Order) []*OrderReply {
	replies := make([]*OrderReply, len(orders))
	for i, o := range orders {
		replies[i] = orderToReply(o)
	}
	return replies
}
