package data

import (
	"context"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
	goredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewDB,
	NewRedis,
	NewRedsync,
	NewOrderRepo,
	NewSubscriptionRepo,
	NewSubscriptionHistoryRepo,
	NewCartRepo,
	NewPricingClient,
	wire.Bind(new(biz.Transaction), new(*Data)),
)

// Data .
type Data struct {
	db  *gorm.DB
	rdb *redis.Client
}

type contextTxKey struct{}

// Exec 执行事务
func (d *Data) Exec(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctx = context.WithValue(ctx, contextTxKey{}, tx)
		return fn(ctx)
	})
}

// orm 优先取 context 中的事务句柄
func (d *Data) orm(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(contextTxKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}

// NewData .
func NewData(c *conf.Bootstrap, logger log.Logger, db *gorm.DB, rdb *redis.Client) (*Data, func(), error) {
	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		if err := rdb.Close(); err != nil {
			log.NewHelper(logger).Errorf("failed to close redis: %v", err)
		}
	}
	return &Data{db: db, rdb: rdb}, cleanup, nil
}

// NewDB .
func NewDB(c *conf.Bootstrap) *gorm.DB {
	source := ""
	if c != nil && c.Data != nil {
		source = c.Data.Database.Source
	}
	if source == "" {
		panic("database source is required")
	}

	db, err := gorm.Open(mysql.Open(source), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	dbConf := c.Data.Database
	if dbConf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbConf.MaxIdleConns)
	}
	if dbConf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbConf.MaxOpenConns)
	}
	if dbConf.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(dbConf.ConnMaxLifetime); err == nil {
			sqlDB.SetConnMaxLifetime(d)
		}
	}
	return db
}

// NewRedis .
func NewRedis(c *conf.Bootstrap) *redis.Client {
	var readTimeout, writeTimeout, dialTimeout time.Duration
	var addr, password string
	var db, poolSize, minIdleConns int32

	if c != nil && c.Data != nil {
		redisConf := c.Data.Redis
		readTimeout = parseDuration(redisConf.ReadTimeout)
		writeTimeout = parseDuration(redisConf.WriteTimeout)
		dialTimeout = parseDuration(redisConf.DialTimeout)
		addr = redisConf.Addr
		password = redisConf.Password
		db = redisConf.Db
		poolSize = redisConf.PoolSize
		minIdleConns = redisConf.MinIdleConns
	}

	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           int(db),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		DialTimeout:  dialTimeout,
		PoolSize:     int(poolSize),
		MinIdleConns: int(minIdleConns),
	})
	return rdb
}

// NewRedsync 创建 redsync 实例
func NewRedsync(rdb *redis.Client) *redsync.Redsync {
	pool := goredis.NewPool(rdb)
	return redsync.New(pool)
}

func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
