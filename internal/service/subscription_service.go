package service

import (
	"strconv"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/auth"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"

	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/shopspring/decimal"
)

// SubscriptionService 订阅服务
type SubscriptionService struct {
	uc *biz.SubscriptionUsecase
}

// NewSubscriptionService 创建订阅服务实例
func NewSubscriptionService(uc *biz.SubscriptionUsecase) *SubscriptionService {
	return &SubscriptionService{uc: uc}
}

// RegisterRoutes 注册业务路由
func (s *SubscriptionService) RegisterRoutes(r *khttp.Router) {
	r.POST("/subscriptions", s.CreateSubscription)
	r.GET("/subscriptions", s.ListSubscriptions)
	r.GET("/subscriptions/{id}", s.GetSubscription)
	r.POST("/subscriptions/{id}/pause", s.PauseSubscription)
	r.POST("/subscriptions/{id}/resume", s.ResumeSubscription)
	r.POST("/subscriptions/{id}/cancel", s.CancelSubscription)
	r.GET("/subscriptions/{id}/history", s.GetHistory)
	r.GET("/subscriptions/{id}/expansion", s.PreviewExpansion)
	r.POST("/subscriptions/{id}/materialize", s.Materialize)
}

// SubscriptionReply 订阅应答
type SubscriptionReply struct {
	ID                string  `json:"id"`
	CustomerID        uint64  `json:"customer_id"`
	VendorID          uint64  `json:"vendor_id"`
	ProductID         string  `json:"product_id"`
	Frequency         string  `json:"frequency"`
	StartDate         string  `json:"start_date"`
	OriginalStartDate string  `json:"original_start_date"`
	EndDate           *string `json:"end_date,omitempty"`
	Status            string  `json:"status"`
	PausedFrom        *string `json:"paused_from,omitempty"`
	PausedUntil       *string `json:"paused_until,omitempty"`
	WeeklyDays        []int   `json:"weekly_days,omitempty"`
	MonthlyDay        int     `json:"monthly_day,omitempty"`
	Quantity          string  `json:"quantity"`
	Unit              string  `json:"unit"`
	PricePerUnit      string  `json:"price_per_unit"`
}

func subscriptionToReply(sub *biz.Subscription) *SubscriptionReply {
	reply := &SubscriptionReply{
		ID:                sub.ID,
		CustomerID:        sub.CustomerID,
		VendorID:          sub.VendorID,
		ProductID:         sub.ProductID,
		Frequency:         sub.Frequency,
		StartDate:         sub.StartDate.Format(time.DateOnly),
		OriginalStartDate: sub.OriginalStartDate.Format(time.DateOnly),
		Status:            sub.Status,
		WeeklyDays:        sub.WeeklyDays,
		MonthlyDay:        sub.MonthlyDay,
		Quantity:          sub.Quantity.String(),
		Unit:              sub.Unit,
		PricePerUnit:      sub.PricePerUnit.String(),
	}
	reply.EndDate = formatOptionalDate(sub.EndDate)
	reply.PausedFrom = formatOptionalDate(sub.PausedFrom)
	reply.PausedUntil = formatOptionalDate(sub.PausedUntil)
	return reply
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

// CreateSubscriptionRequest 创建订阅请求
type CreateSubscriptionRequest struct {
	CustomerID uint64          `json:"customer_id"`
	VendorID   uint64          `json:"vendor_id"`
	ProductID  string          `json:"product_id"`
	Frequency  string          `json:"frequency"`
	StartDate  string          `json:"start_date"`
	EndDate    *string         `json:"end_date"`
	WeeklyDays []int           `json:"weekly_days"`
	MonthlyDay int             `json:"monthly_day"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// CreateSubscription 创建订阅
func (s *SubscriptionService) CreateSubscription(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	var req CreateSubscriptionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}
	in := biz.CreateSubscriptionInput{
		CustomerID: req.CustomerID,
		VendorID:   req.VendorID,
		ProductID:  req.ProductID,
		Frequency:  req.Frequency,
		StartDate:  startDate,
		WeeklyDays: req.WeeklyDays,
		MonthlyDay: req.MonthlyDay,
		Quantity:   req.Quantity,
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return err
		}
		in.EndDate = &d
	}
	sub, err := s.uc.CreateSubscription(ctx, actor, in)
	if err != nil {
		return err
	}
	return ctx.Result(201, subscriptionToReply(sub))
}

// loadOwned 按路径ID取订阅并校验归属，所有单订阅端点(读和写)共用
func (s *SubscriptionService) loadOwned(ctx khttp.Context) (*biz.Subscription, error) {
	sub, err := s.uc.GetSubscription(ctx, ctx.Vars().Get("id"))
	if err != nil {
		return nil, err
	}
	if err := auth.CheckOwnership(ctx.Request().Context(), sub.CustomerID); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubscription 查询订阅
func (s *SubscriptionService) GetSubscription(ctx khttp.Context) error {
	sub, err := s.loadOwned(ctx)
	if err != nil {
		return err
	}
	return ctx.Result(200, subscriptionToReply(sub))
}

// ListSubscriptions 查询客户的订阅列表
func (s *SubscriptionService) ListSubscriptions(ctx khttp.Context) error {
	customerID, _ := strconv.ParseUint(ctx.Query().Get("customer_id"), 10, 64)
	if err := auth.CheckOwnership(ctx.Request().Context(), customerID); err != nil {
		return err
	}
	subs, err := s.uc.ListByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	replies := make([]*SubscriptionReply, len(subs))
	for i, sub := range subs {
		replies[i] = subscriptionToReply(sub)
	}
	return ctx.Result(200, map[string]interface{}{"subscriptions": replies})
}

// PauseSubscriptionRequest 暂停请求
type PauseSubscriptionRequest struct {
	PausedFrom  string `json:"paused_from"`
	PausedUntil string `json:"paused_until"`
}

// PauseSubscription 暂停订阅
func (s *SubscriptionService) PauseSubscription(ctx khttp.Context) error {
	sub, err := s.loadOwned(ctx)
	if err != nil {
		return err
	}
	var req PauseSubscriptionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	from, err := parseDate(req.PausedFrom)
	if err != nil {
		return err
	}
	until, err := parseDate(req.PausedUntil)
	if err != nil {
		return err
	}
	if err := s.uc.PauseSubscription(ctx, sub.ID, from, until); err != nil {
		return err
	}
	return ctx.Result(200, map[string]bool{"paused": true})
}

// ResumeSubscription 恢复订阅
func (s *SubscriptionService) ResumeSubscription(ctx khttp.Context) error {
	sub, err := s.loadOwned(ctx)
	if err != nil {
		return err
	}
	if err := s.uc.ResumeSubscription(ctx, sub.ID); err != nil {
		return err
	}
	return ctx.Result(200, map[string]bool{"resumed": true})
}

// CancelSubscription 取消订阅
func (s *SubscriptionService) CancelSubscription(ctx khttp.Context) error {
	sub, err := s.loadOwned(ctx)
	if err != nil {
		return err
	}
	if err := s.uc.CancelSubscription(ctx, sub.ID); err != nil {
		return err
	}
	return ctx.Result(200, map[string]bool{"cancelled": true})
}

// GetHistory 查询订阅历史
func (s *SubscriptionService) GetHistory(ctx khttp.Context) error {
	sub, err := s.loadOwned(ctx)
	if err != nil {
		return err
	}
	q := ctx.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	items, total, err := s.uc.GetSubscriptionHistory(ctx, sub.ID, page, pageSize)
	if err != nil {
		return err
	}
	return ctx.Result(200, map[string]interface{}{"items": items, "total": total})
}

// PreviewExpansion 预览展开日期(纯计算，不落库)
func (s *SubscriptionService) PreviewExpansion(ctx khttp.Context) error {
	sub, err := s.loadOwned(ctx)
	if err != nil {
		return err
	}
	q := ctx.Query()
	from, err := parseDate(q.Get("from"))
	if err != nil {
		return err
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		return err
	}
	dates := biz.ExpandDates(sub, from, to)
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(time.DateOnly)
	}
	return ctx.Result(200, map[string]interface{}{"dates": out})
}

// MaterializeRequest 物化请求，区间缺省取今天起的默认窗口
type MaterializeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Materialize 展开并落成订单
func (s *SubscriptionService) Materialize(ctx khttp.Context) error {
	sub, err := s.loadOwned(ctx)
	if err != nil {
		return err
	}
	var req MaterializeRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	from, err := parseOptionalDate(req.From)
	if err != nil {
		return err
	}
	to, err := parseOptionalDate(req.To)
	if err != nil {
		return err
	}
	created, err := s.uc.MaterializeSubscription(ctx, sub.ID, from, to)
	if err != nil {
		return err
	}
	return ctx.Result(200, map[string]int{"created": created})
}
