package constants

import "time"

// 订单状态
const (
	OrderStatusPending   = "pending"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 订阅状态
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPaused    = "paused"
	SubscriptionStatusCancelled = "cancelled"
)

// 订阅频率
const (
	FrequencyOneTime = "one_time"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// 订阅操作(历史记录用)
const (
	ActionCreated   = "created"
	ActionPaused    = "paused"
	ActionResumed   = "resumed"
	ActionCancelled = "cancelled"
)

// 订单来源
const (
	PlacementManual       = "manual"
	PlacementCalendar     = "calendar"
	PlacementSubscription = "subscription"
	PlacementBackfill     = "backfill"
)

// 争议处理结果
const (
	DisputeResolutionDelivered = "delivered"
	DisputeResolutionPending   = "pending"
)

// 报表排序字段
const (
	SortByDate     = "date"
	SortByVendor   = "vendor"
	SortByProduct  = "product"
	SortByQuantity = "quantity"
	SortByAmount   = "amount"
	SortByStatus   = "status"
)

// 分页相关常量
const (
	// DefaultPageSize 默认分页大小
	DefaultPageSize = 20
	// MaxPageSize 最大分页大小
	MaxPageSize = 100
)

// 展开/物化相关常量
const (
	// DefaultMaterializeWindowDays 默认物化窗口天数
	DefaultMaterializeWindowDays = 30
	// MaxExpansionRangeDays 单次展开允许的最大天数
	MaxExpansionRangeDays = 366
)

// 分布式锁相关常量
const (
	// MaterializeLockExpiration 订阅物化锁过期时间
	MaterializeLockExpiration = 5 * time.Minute
	// MaterializeLockRetries 订阅物化锁重试次数
	MaterializeLockRetries = 1
)

// 缓存相关常量
const (
	// PriceCacheExpiration 商品报价缓存过期时间
	PriceCacheExpiration = 10 * time.Minute
	// CartExpiration 购物车过期时间
	CartExpiration = 7 * 24 * time.Hour
)

// MoneyScale 单条订单金额保留的小数位数(聚合金额展示时四舍五入到整数)
const MoneyScale = 2
