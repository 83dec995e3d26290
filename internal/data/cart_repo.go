package data

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// cartRepo 购物车仓库实现。购物车是短生命周期数据，只存 redis，
// 每个客户一个 hash，field 为 vendor_id-product_id
type cartRepo struct {
	data *Data
	log  *log.Helper
}

// NewCartRepo 创建购物车仓库
func NewCartRepo(data *Data, logger log.Logger) biz.CartRepo {
	return &cartRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func cartRedisKey(customerID uint64) string {
	return fmt.Sprintf("cart:customer:%d", customerID)
}

// GetItem 获取单个条目
func (r *cartRepo) GetItem(ctx context.Context, customerID uint64, key string) (*biz.CartItem, error) {
	raw, err := r.data.rdb.HGet(ctx, cartRedisKey(customerID), key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		r.log.Errorf("Failed to get cart item %s for customer %d: %v", key, customerID, err)
		return nil, err
	}
	var item biz.CartItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// PutItem 写入条目并续期
func (r *cartRepo) PutItem(ctx context.Context, customerID uint64, item *biz.CartItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	redisKey := cartRedisKey(customerID)
	pipe := r.data.rdb.TxPipeline()
	pipe.HSet(ctx, redisKey, item.Key(), raw)
	pipe.Expire(ctx, redisKey, constants.CartExpiration)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Errorf("Failed to put cart item %s for customer %d: %v", item.Key(), customerID, err)
		return err
	}
	return nil
}

// RemoveItems 删除条目
func (r *cartRepo) RemoveItems(ctx context.Context, customerID uint64, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.data.rdb.HDel(ctx, cartRedisKey(customerID), keys...).Err(); err != nil {
		r.log.Errorf("Failed to remove cart items for customer %d: %v", customerID, err)
		return err
	}
	return nil
}

// ListItems 列出全部条目
func (r *cartRepo) ListItems(ctx context.Context, customerID uint64) ([]*biz.CartItem, error) {
	raw, err := r.data.rdb.HGetAll(ctx, cartRedisKey(customerID)).Result()
	if err != nil {
		r.log.Errorf("Failed to list cart items for customer %d: %v", customerID, err)
		return nil, err
	}
	items := make([]*biz.CartItem, 0, len(raw))
	for _, v := range raw {
		var item biz.CartItem
		if err := json.Unmarshal([]byte(v), &item); err != nil {
			r.log.Warnf("Skipping malformed cart item for customer %d: %v", customerID, err)
			continue
		}
		items = append(items, &item)
	}
	return items, nil
}

// ClearCart 清空购物车
func (r *cartRepo) ClearCart(ctx context.Context, customerID uint64) error {
	if err := r.data.rdb.Del(ctx, cartRedisKey(customerID)).Err(); err != nil {
		r.log.Errorf("Failed to clear cart for customer %d: %v", customerID, err)
		return err
	}
	return nil
}
