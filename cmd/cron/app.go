package main

import (
	"os"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// CronApp Cron 应用结构
type CronApp struct {
	subscriptionUsecase *biz.SubscriptionUsecase
}

// newLogger 创建 logger
func newLogger() log.Logger {
	return log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.name", "order-cron",
	)
}
