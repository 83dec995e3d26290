package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单模型
type Order struct {
	ID              string          `gorm:"primaryKey;column:order_id"`
	CustomerID      uint64          `gorm:"column:customer_id;index"`
	VendorID        uint64          `gorm:"column:vendor_id;index"`
	ProductID       string          `gorm:"column:product_id"`
	SubscriptionID  *string         `gorm:"column:subscription_id;uniqueIndex:uk_subscription_date"`
	OrderDate       time.Time       `gorm:"column:order_date;type:date;uniqueIndex:uk_subscription_date;index"`
	Quantity        decimal.Decimal `gorm:"column:quantity;type:decimal(12,3)"`
	Unit            string          `gorm:"column:unit"`
	PricePerUnit    decimal.Decimal `gorm:"column:price_per_unit;type:decimal(12,2)"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:decimal(14,2)"`
	Status          string          `gorm:"column:status;index"` // pending, delivered, cancelled
	DeliveredAt     *time.Time      `gorm:"column:delivered_at"`
	DisputeRaised   bool            `gorm:"column:dispute_raised;default:false"`
	DisputeReason   string          `gorm:"column:dispute_reason"`
	PlacedByUserID  uint64          `gorm:"column:placed_by_user_id"`
	PlacedByRole    string          `gorm:"column:placed_by_role"`
	PlacedVia       string          `gorm:"column:placed_via"`
	UpdatedByUserID *uint64         `gorm:"column:updated_by_user_id"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (Order) TableName() string { return "orders" }
