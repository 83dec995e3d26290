package service

import (
	"strconv"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/auth"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"

	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/shopspring/decimal"
)

// OrderService 订单服务
type OrderService struct {
	uc     *biz.OrderUsecase
	report *biz.ReportUsecase
}

// NewOrderService 创建订单服务实例
func NewOrderService(uc *biz.OrderUsecase, report *biz.ReportUsecase) *OrderService {
	return &OrderService{uc: uc, report: report}
}

// RegisterRoutes 注册业务路由
func (s *OrderService) RegisterRoutes(r *khttp.Router) {
	r.POST("/orders", s.PlaceOrder)
	r.GET("/orders", s.ListOrders)
	r.GET("/orders/stats", s.GetStats)
	r.GET("/orders/default-date", s.GetDefaultDate)
	r.POST("/orders/bulk/toggle", s.BulkToggle)
	r.POST("/orders/bulk/delete", s.BulkDelete)
	r.GET("/orders/{id}", s.GetOrder)
	r.PUT("/orders/{id}", s.EditOrder)
	r.DELETE("/orders/{id}", s.DeleteOrder)
	r.POST("/orders/{id}/deliver", s.ConfirmDelivery)
	r.POST("/orders/{id}/pending", s.MarkPending)
	r.POST("/orders/{id}/dispute", s.RaiseDispute)
	r.POST("/orders/{id}/dispute/resolve", s.ResolveDispute)
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	CustomerID uint64          `json:"customer_id"`
	VendorID   uint64          `json:"vendor_id"`
	ProductID  string          `json:"product_id"`
	OrderDate  string          `json:"order_date"`
	Quantity   decimal.Decimal `json:"quantity"`
	Via        string          `json:"via"`
}

// PlaceOrder 下单
func (s *OrderService) PlaceOrder(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	orderDate, err := parseDate(req.OrderDate)
	if err != nil {
		return err
	}
	order, err := s.uc.PlaceOrder(ctx, actor, biz.PlaceOrderInput{
		CustomerID: req.CustomerID,
		VendorID:   req.VendorID,
		ProductID:  req.ProductID,
		OrderDate:  orderDate,
		Quantity:   req.Quantity,
		Via:        req.Via,
	})
	if err != nil {
		return err
	}
	return ctx.Result(201, orderToReply(order))
}

// GetOrder 查询单个订单
func (s *OrderService) GetOrder(ctx khttp.Context) error {
	order, err := s.uc.GetOrder(ctx, ctx.Vars().Get("id"))
	if err != nil {
		return err
	}
	return ctx.Result(200, orderToReply(order))
}

// ListOrders 查询订单列表，支持排序
func (s *OrderService) ListOrders(ctx khttp.Context) error {
	filter, err := filterFromQuery(ctx)
	if err != nil {
		return err
	}
	q := ctx.Query()
	orders, err := s.report.ListSorted(ctx, filter, q.Get("sort_by"), q.Get("desc") == "true")
	if err != nil {
		return err
	}
	return ctx.Result(200, map[string]interface{}{
		"orders":              ordersToReply(orders),
		"select_all_eligible": biz.SelectAllEligible(orders),
	})
}

// EditOrderRequest 订单编辑请求，缺省字段不变
type EditOrderRequest struct {
	Quantity  *decimal.Decimal `json:"quantity"`
	ProductID *string          `json:"product_id"`
	OrderDate *string          `json:"order_date"`
}

// EditOrder 编辑订单
func (s *OrderService) EditOrder(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	var req EditOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	in := biz.EditOrderInput{Quantity: req.Quantity, ProductID: req.ProductID}
	if req.OrderDate != nil {
		d, err := parseDate(*req.OrderDate)
		if err != nil {
			return err
		}
		in.OrderDate = &d
	}
	order, err := s.uc.EditOrder(ctx, actor, ctx.Vars().Get("id"), in)
	if err != nil {
		return err
	}
	return ctx.Result(200, orderToReply(order))
}

// DeleteOrder 删除订单
func (s *OrderService) DeleteOrder(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	if err := s.uc.DeleteOrder(ctx, actor, ctx.Vars().Get("id")); err != nil {
		return err
	}
	return ctx.Result(200, map[string]bool{"deleted": true})
}

// ConfirmDeliveryRequest 确认交付请求，delivered_at 可补记/预记
type ConfirmDeliveryRequest struct {
	DeliveredAt *time.Time `json:"delivered_at"`
}

// ConfirmDelivery 确认交付
func (s *OrderService) ConfirmDelivery(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	var req ConfirmDeliveryRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	order, err := s.uc.ConfirmDelivery(ctx, actor, ctx.Vars().Get("id"), req.DeliveredAt)
	if err != nil {
		return err
	}
	return ctx.Result(200, orderToReply(order))
}

// MarkPending 撤销交付
func (s *OrderService) MarkPending(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	order, err := s.uc.MarkPending(ctx, actor, ctx.Vars().Get("id"))
	if err != nil {
		return err
	}
	return ctx.Result(200, orderToReply(order))
}

// RaiseDisputeRequest 发起争议请求
type RaiseDisputeRequest struct {
	Reason string `json:"reason"`
}

// RaiseDispute 发起争议
func (s *OrderService) RaiseDispute(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	var req RaiseDisputeRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	order, err := s.uc.RaiseDispute(ctx, actor, ctx.Vars().Get("id"), req.Reason)
	if err != nil {
		return err
	}
	return ctx.Result(200, orderToReply(order))
}

// ResolveDisputeRequest 争议处理请求
type ResolveDisputeRequest struct {
	Resolution string `json:"resolution"` // delivered, pending
}

// ResolveDispute 处理争议
func (s *OrderService) ResolveDispute(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	var req ResolveDisputeRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	order, err := s.uc.ResolveDispute(ctx, actor, ctx.Vars().Get("id"), req.Resolution)
	if err != nil {
		return err
	}
	return ctx.Result(200, orderToReply(order))
}

// BulkRequest 批量操作请求
type BulkRequest struct {
	OrderIDs []string `json:"order_ids"`
}

// BulkReply 批量操作应答
type BulkReply struct {
	Target    string            `json:"target,omitempty"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Failures  []biz.BulkFailure `json:"failures,omitempty"`
}

// BulkToggle 批量状态切换
func (s *OrderService) BulkToggle(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	var req BulkRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	result, err := s.uc.BulkToggleStatus(ctx, actor, req.OrderIDs)
	if err != nil {
		return err
	}
	return ctx.Result(200, bulkToReply(result))
}

// BulkDelete 批量删除
func (s *OrderService) BulkDelete(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	var req BulkRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	result, err := s.uc.BulkDelete(ctx, actor, req.OrderIDs)
	if err != nil {
		return err
	}
	return ctx.Result(200, bulkToReply(result))
}

// GetStats 订单统计
func (s *OrderService) GetStats(ctx khttp.Context) error {
	filter, err := filterFromQuery(ctx)
	if err != nil {
		return err
	}
	stats, err := s.report.GetStats(ctx, filter)
	if err != nil {
		return err
	}
	return ctx.Result(200, stats)
}

// GetDefaultDate 无预选日期时的建议日期
func (s *OrderService) GetDefaultDate(ctx khttp.Context) error {
	q := ctx.Query()
	vendorID, _ := strconv.ParseUint(q.Get("vendor_id"), 10, 64)
	d, err := s.uc.DefaultOrderDate(ctx, vendorID, q.Get("product_id"))
	if err != nil {
		return err
	}
	return ctx.Result(200, map[string]string{"default_date": d.Format(time.DateOnly)})
}

func bulkToReply(r *biz.BulkResult) *BulkReply {
	return &BulkReply{
		Target:    r.Target,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Failures:  r.Failures,
	}
}

func filterFromQuery(ctx khttp.Context) (biz.OrderFilter, error) {
	q := ctx.Query()
	var filter biz.OrderFilter
	filter.CustomerID, _ = strconv.ParseUint(q.Get("customer_id"), 10, 64)
	filter.VendorID, _ = strconv.ParseUint(q.Get("vendor_id"), 10, 64)
	filter.ProductID = q.Get("product_id")
	if status := q.Get("status"); status != "" {
		filter.Statuses = []string{status}
	}
	from, err := parseOptionalDate(q.Get("from"))
	if err != nil {
		return filter, err
	}
	to, err := parseOptionalDate(q.Get("to"))
	if err != nil {
		return filter, err
	}
	filter.From, filter.To = from, to
	return filter, nil
}
