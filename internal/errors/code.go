package errors

// 订单服务错误码定义
// 错误码格式：SSMMEE (6位数字)，其中 SS=21 表示 order-service
// 模块划分：
//   01: 订单模块
//   02: 订阅模块
//   03: 购物车模块
//   04: 商品/定价模块

// 订单模块 (210100-210199)
const (
	// ErrCodeOrderNotFound 订单不存在错误
	ErrCodeOrderNotFound = 210101
	// ErrCodeOrderInvalidState 当前订单状态不允许该操作
	ErrCodeOrderInvalidState = 210102
	// ErrCodeOrderPermissionDenied 无权修改该订单
	ErrCodeOrderPermissionDenied = 210103
	// ErrCodeOrderValidation 订单参数无效
	ErrCodeOrderValidation = 210104
	// ErrCodeOrderDateClosed 该日期已过下单截止时间
	ErrCodeOrderDateClosed = 210105
	// ErrCodeBulkEmptySelection 批量操作未选择任何订单
	ErrCodeBulkEmptySelection = 210106
)

// 订阅模块 (210200-210299)
const (
	// ErrCodeSubscriptionNotFound 订阅不存在错误
	ErrCodeSubscriptionNotFound = 210201
	// ErrCodeCannotPauseStatus 当前状态无法暂停订阅错误
	ErrCodeCannotPauseStatus = 210202
	// ErrCodeCannotResumeStatus 当前状态无法恢复订阅错误
	ErrCodeCannotResumeStatus = 210203
	// ErrCodeCannotCancelStatus 当前状态无法取消订阅错误
	ErrCodeCannotCancelStatus = 210204
	// ErrCodeSubscriptionValidation 订阅参数无效
	ErrCodeSubscriptionValidation = 210205
)

// 购物车模块 (210300-210399)
const (
	// ErrCodeCartItemNotFound 购物车条目不存在错误
	ErrCodeCartItemNotFound = 210301
	// ErrCodeCartValidation 购物车参数无效
	ErrCodeCartValidation = 210302
)

// 商品/定价模块 (210400-210499)
const (
	// ErrCodeProductNotFound 商品不存在错误
	ErrCodeProductNotFound = 210401
	// ErrCodeInsufficientStock 库存不足错误
	ErrCodeInsufficientStock = 210402
)
