package errors

import (
	"strconv"

	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// 错误分类(reason)，collaborator 层根据 reason + metadata 渲染具体提示
const (
	ReasonInvalidState      = "INVALID_STATE"
	ReasonPermissionDenied  = "PERMISSION_DENIED"
	ReasonValidationError   = "VALIDATION_ERROR"
	ReasonNotFound          = "NOT_FOUND"
	ReasonInsufficientStock = "INSUFFICIENT_STOCK"
)

// metadata key
const (
	MetaBizCode        = "biz_code"
	MetaOrderID        = "order_id"
	MetaSubscriptionID = "subscription_id"
	MetaProductID      = "product_id"
)

func withCode(e *kerrors.Error, code int) *kerrors.Error {
	return e.WithMetadata(map[string]string{MetaBizCode: strconv.Itoa(code)})
}

// NewInvalidState 状态不允许该操作
func NewInvalidState(code int, message string) *kerrors.Error {
	return withCode(kerrors.Conflict(ReasonInvalidState, message), code)
}

// NewPermissionDenied 当前操作者无权执行该操作
func NewPermissionDenied(code int, message string) *kerrors.Error {
	return withCode(kerrors.Forbidden(ReasonPermissionDenied, message), code)
}

// NewValidation 参数无效
func NewValidation(code int, message string) *kerrors.Error {
	return withCode(kerrors.BadRequest(ReasonValidationError, message), code)
}

// NewNotFound 资源不存在
func NewNotFound(code int, message string) *kerrors.Error {
	return withCode(kerrors.NotFound(ReasonNotFound, message), code)
}

// NewInsufficientStock 库存不足(由定价/库存边界上浮，不在核心内重试)
func NewInsufficientStock(message string) *kerrors.Error {
	return withCode(kerrors.New(422, ReasonInsufficientStock, message), ErrCodeInsufficientStock)
}

// WithOrderID 附加订单ID，便于批量操作逐条定位失败原因
func WithOrderID(err *kerrors.Error, orderID string) *kerrors.Error {
	return err.WithMetadata(mergeMeta(err.Metadata, MetaOrderID, orderID))
}

// WithSubscriptionID 附加订阅ID
func WithSubscriptionID(err *kerrors.Error, subscriptionID string) *kerrors.Error {
	return err.WithMetadata(mergeMeta(err.Metadata, MetaSubscriptionID, subscriptionID))
}

func mergeMeta(md map[string]string, key, value string) map[string]string {
	merged := make(map[string]string, len(md)+1)
	for k, v := range md {
		merged[k] = v
	}
	merged[key] = value
	return merged
}

// IsInvalidState 判断错误是否为状态类错误
func IsInvalidState(err error) bool {
	return kerrors.Reason(err) == ReasonInvalidState
}

// IsPermissionDenied 判断错误是否为权限类错误
func IsPermissionDenied(err error) bool {
	return kerrors.Reason(err) == ReasonPermissionDenied
}

// IsValidation 判断错误是否为参数类错误
func IsValidation(err error) bool {
	return kerrors.Reason(err) == ReasonValidationError
}

// IsNotFound 判断错误是否为资源不存在
func IsNotFound(err error) bool {
	return kerrors.Reason(err) == ReasonNotFound
}
