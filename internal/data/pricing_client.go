package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/conf"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// productReply 商品目录服务的应答
type productReply struct {
	ProductID       string           `json:"product_id"`
	VendorID        uint64           `json:"vendor_id"`
	Name            string           `json:"name"`
	Unit            string           `json:"unit"`
	PricePerUnit    decimal.Decimal  `json:"price_per_unit"`
	AvailableQty    *decimal.Decimal `json:"available_qty"`
	SubscribeBefore string           `json:"subscribe_before"`
}

// pricingClient 商品/定价服务客户端 (防腐层)，带 redis 缓存
type pricingClient struct {
	conn *khttp.Client
	rdb  *redis.Client
	log  *log.Helper
}

// NewPricingClient 创建商品/定价服务客户端
func NewPricingClient(c *conf.Bootstrap, rdb *redis.Client, logger log.Logger) (biz.PricingClient, error) {
	timeout := 3 * time.Second
	if c.Client.CatalogService.Timeout != "" {
		if d, err := time.ParseDuration(c.Client.CatalogService.Timeout); err == nil {
			timeout = d
		}
	}
	conn, err := khttp.NewClient(
		context.Background(),
		khttp.WithEndpoint(c.Client.CatalogService.Addr),
		khttp.WithTimeout(timeout),
	)
	if err != nil {
		return nil, err
	}
	return &pricingClient{
		conn: conn,
		rdb:  rdb,
		log:  log.NewHelper(logger),
	}, nil
}

func quoteCacheKey(vendorID uint64, productID string) string {
	return fmt.Sprintf("quote:vendor:%d:product:%s", vendorID, productID)
}

// ResolveProduct 解析商品现价。命中缓存直接返回，未命中回源并写缓存
func (c *pricingClient) ResolveProduct(ctx context.Context, vendorID uint64, productID string) (*biz.ProductQuote, error) {
	cacheKey := quoteCacheKey(vendorID, productID)
	if raw, err := c.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var reply productReply
		if err := json.Unmarshal([]byte(raw), &reply); err == nil {
			return replyToQuote(&reply), nil
		}
	}

	var reply productReply
	path := fmt.Sprintf("/api/v1/vendors/%d/products/%s", vendorID, productID)
	if err := c.conn.Invoke(ctx, "GET", path, nil, &reply); err != nil {
		if kerrors.Code(err) == 404 {
			return nil, nil
		}
		c.log.Errorf("Failed to resolve product %s from vendor %d: %v", productID, vendorID, err)
		return nil, err
	}

	if raw, err := json.Marshal(&reply); err == nil {
		if err := c.rdb.Set(ctx, cacheKey, raw, constants.PriceCacheExpiration).Err(); err != nil {
			c.log.Warnf("Failed to cache quote for product %s: %v", productID, err)
		}
	}
	return replyToQuote(&reply), nil
}

func replyToQuote(r *productReply) *biz.ProductQuote {
	return &biz.ProductQuote{
		ProductID:       r.ProductID,
		VendorID:        r.VendorID,
		Name:            r.Name,
		Unit:            r.Unit,
		PricePerUnit:    r.PricePerUnit,
		AvailableQty:    r.AvailableQty,
		SubscribeBefore: r.SubscribeBefore,
	}
}
