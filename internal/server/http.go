package server

import (
	"encoding/json"
	stdhttp "net/http"
	"strconv"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/auth"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/conf"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/service"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/wire"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(
	c *conf.Bootstrap,
	orders *service.OrderService,
	subscriptions *service.SubscriptionService,
	cart *service.CartService,
	logger log.Logger,
) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		http.Filter(auth.HTTPFilter()),
		http.ErrorEncoder(customErrorEncoder),
	}
	if c.Server.Http.Addr != "" {
		opts = append(opts, http.Address(c.Server.Http.Addr))
	}
	if c.Server.Http.Timeout != "" {
		if d, err := time.ParseDuration(c.Server.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}
	srv := http.NewServer(opts...)

	// 注册业务路由
	api := srv.Route("/api/v1")
	orders.RegisterRoutes(api)
	subscriptions.RegisterRoutes(api)
	cart.RegisterRoutes(api)

	// 注册健康检查端点
	srv.Route("/").GET("/health", func(ctx http.Context) error {
		return ctx.Result(200, map[string]string{"service": "order-service", "status": "ok"})
	})

	return srv
}

func customErrorEncoder(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	se := kerrors.FromError(err)
	status := stdhttp.StatusInternalServerError
	response := map[string]interface{}{
		"code":    status,
		"message": "internal server error",
	}

	if se != nil {
		status = mapErrorStatus(int(se.Code), se.Metadata)
		response["code"] = se.Code
		response["reason"] = se.Reason
		response["message"] = se.Message
		if len(se.Metadata) > 0 {
			response["metadata"] = se.Metadata
		}
	} else if err != nil {
		response["message"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

func mapErrorStatus(code int, metadata map[string]string) int {
	if code >= 100 && code < 600 {
		return code
	}
	if bizCode, err := strconv.Atoi(metadata["biz_code"]); err == nil && bizCode >= 210000 && bizCode < 220000 {
		return stdhttp.StatusBadRequest
	}
	return stdhttp.StatusInternalServerError
}
