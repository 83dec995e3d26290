package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
)

// 定义 context key
type contextKey string

const (
	// actorKey 当前操作者的context key
	actorKey contextKey = "actor"
)

// 请求头，由网关/session层在上游填充
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

// Role 用户角色
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

// Actor 当前操作者(用户ID + 角色)
type Actor struct {
	UserID uint64
	Role   Role
}

// IsVendor 判断当前操作者是否为商家
func (a Actor) IsVendor() bool { return a.Role == RoleVendor }

// WithActor 把操作者写入 context
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// FromContext 从 context 中获取当前操作者
func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

// RequireActor 从 context 中获取当前操作者，缺失时返回认证错误
func RequireActor(ctx context.Context) (Actor, error) {
	actor, ok := FromContext(ctx)
	if !ok {
		return Actor{}, errors.Unauthorized("UNAUTHORIZED", "authentication required")
	}
	return actor, nil
}

// CheckOwnership 检查操作者是否有权限访问指定客户的资源
// 商家侧接口自行校验 vendor 归属，这里只拦截跨客户访问
func CheckOwnership(ctx context.Context, customerID uint64) error {
	actor, err := RequireActor(ctx)
	if err != nil {
		return err
	}
	if actor.IsVendor() {
		return nil
	}
	if actor.UserID != customerID {
		return errors.Forbidden("FORBIDDEN", "permission denied: you can only access your own resources")
	}
	return nil
}

// HTTPFilter 从请求头提取操作者并写入 request context
// 身份认证本身属于上游网关，这里只做透传
func HTTPFilter() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, err := strconv.ParseUint(r.Header.Get(HeaderUserID), 10, 64)
			if err == nil && uid > 0 {
				role := Role(r.Header.Get(HeaderUserRole))
				if role != RoleVendor {
					role = RoleCustomer
				}
				r = r.WithContext(WithActor(r.Context(), Actor{UserID: uid, Role: role}))
			}
			next.ServeHTTP(w, r)
		})
	}
}
