package service

import (
	"strconv"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/auth"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"

	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/shopspring/decimal"
)

// CartService 购物车服务
type CartService struct {
	uc *biz.CartUsecase
}

// NewCartService 创建购物车服务实例
func NewCartService(uc *biz.CartUsecase) *CartService {
	return &CartService{uc: uc}
}

// RegisterRoutes 注册业务路由
func (s *CartService) RegisterRoutes(r *khttp.Router) {
	r.GET("/cart", s.ListCart)
	r.POST("/cart/items", s.AddItem)
	r.PUT("/cart/items", s.UpdateQuantity)
	r.DELETE("/cart/items", s.RemoveItem)
	r.DELETE("/cart", s.ClearCart)
}

// CartItemRequest 购物车条目请求
type CartItemRequest struct {
	VendorID  uint64          `json:"vendor_id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ListCart 列出购物车(附带清理已交付条目)
func (s *CartService) ListCart(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	items, err := s.uc.ListCart(ctx, actor.UserID)
	if err != nil {
		return err
	}
	return ctx.Result(200, map[string]interface{}{"items": items})
}

// AddItem 加入购物车
func (s *CartService) AddItem(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	var req CartItemRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	item, err := s.uc.AddItem(ctx, actor.UserID, req.VendorID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return ctx.Result(201, item)
}

// UpdateQuantity 修改条目数量
func (s *CartService) UpdateQuantity(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	var req CartItemRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	item, err := s.uc.UpdateQuantity(ctx, actor.UserID, req.VendorID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return ctx.Result(200, item)
}

// RemoveItem 移除条目
func (s *CartService) RemoveItem(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	q := ctx.Query()
	vendorID, _ := strconv.ParseUint(q.Get("vendor_id"), 10, 64)
	if err := s.uc.RemoveItem(ctx, actor.UserID, vendorID, q.Get("product_id")); err != nil {
		return err
	}
	return ctx.Result(200, map[string]bool{"removed": true})
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(ctx khttp.Context) error {
	actor, err := auth.RequireActor(ctx.Request().Context())
	if err != nil {
		return err
	}
	if err := s.uc.ClearCart(ctx, actor.UserID); err != nil {
		return err
	}
	return ctx.Result(200, map[string]bool{"cleared": true})
}
