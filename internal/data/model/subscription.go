package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription 订阅模型
type Subscription struct {
	ID                string          `gorm:"primaryKey;column:subscription_id"`
	CustomerID        uint64          `gorm:"column:customer_id;index"`
	VendorID          uint64          `gorm:"column:vendor_id;index"`
	ProductID         string          `gorm:"column:product_id"`
	Frequency         string          `gorm:"column:frequency"` // one_time, daily, weekly, monthly
	StartDate         time.Time       `gorm:"column:start_date;type:date"`
	OriginalStartDate time.Time       `gorm:"column:original_start_date;type:date"`
	EndDate           *time.Time      `gorm:"column:end_date;type:date"`
	Status            string          `gorm:"column:status;index"` // active, paused, cancelled
	PausedFrom        *time.Time      `gorm:"column:paused_from;type:date"`
	PausedUntil       *time.Time      `gorm:"column:paused_until;type:date"`
	WeeklyDays        string          `gorm:"column:weekly_days"` // 逗号分隔的 0..6
	MonthlyDay        int             `gorm:"column:monthly_day"`
	Quantity          decimal.Decimal `gorm:"column:quantity;type:decimal(12,3)"`
	Unit              string          `gorm:"column:unit"`
	PricePerUnit      decimal.Decimal `gorm:"column:price_per_unit;type:decimal(12,2)"`
	CreatedAt         time.Time       `gorm:"column:created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"`
}

func (Subscription) TableName() string { return "subscription" }
