package model

import "time"

// SubscriptionHistory 订阅历史模型
type SubscriptionHistory struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement;column:subscription_history_id"`
	SubscriptionID string     `gorm:"column:subscription_id;index"`
	CustomerID     uint64     `gorm:"column:customer_id;index"`
	Action         string     `gorm:"column:action"` // created, paused, resumed, cancelled
	Status         string     `gorm:"column:status"`
	StartDate      time.Time  `gorm:"column:start_date;type:date"`
	EndDate        *time.Time `gorm:"column:end_date;type:date"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
}

func (SubscriptionHistory) TableName() string { return "subscription_history" }
