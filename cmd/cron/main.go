package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/conf"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"

	"github.com/robfig/cron/v3"
	_ "go.uber.org/automaxprocs"
)

var (
	flagconf string
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	// 初始化配置(加载即校验)
	bc, err := conf.Load(flagconf)
	if err != nil {
		panic(err)
	}

	windowDays := constants.DefaultMaterializeWindowDays
	if bc.Engine != nil && bc.Engine.MaterializeWindowDays > 0 {
		windowDays = bc.Engine.MaterializeWindowDays
	}

	// 初始化应用
	app, cleanup, err := wireApp(bc)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// 创建定时任务调度器（支持秒级调度）
	cronScheduler := cron.New(cron.WithSeconds())

	// 1. 订阅订单生成 - 每天凌晨 00:30 执行，展开未来 windowDays 天
	_, err = cronScheduler.AddFunc("0 30 0 * * *", func() {
		log.Println("[CRON] Starting subscription materialization sweep...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		subs, orders, err := app.subscriptionUsecase.MaterializeDueSubscriptions(ctx, windowDays)
		if err != nil {
			log.Printf("[CRON] Error materializing subscriptions: %v", err)
		} else {
			log.Printf("[CRON] Materialized %d orders across %d subscriptions", orders, subs)
		}
		log.Println("[CRON] Finished subscription materialization sweep")
	})
	if err != nil {
		log.Printf("Failed to add materialization sweep job: %v", err)
	}

	// 2. 补漏扫描 - 每小时执行，覆盖当天新建或恢复的订阅
	_, err = cronScheduler.AddFunc("0 0 * * * *", func() {
		log.Println("[CRON] Starting hourly top-up materialization...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		subs, orders, err := app.subscriptionUsecase.MaterializeDueSubscriptions(ctx, windowDays)
		if err != nil {
			log.Printf("[CRON] Error in top-up materialization: %v", err)
		} else if orders > 0 {
			log.Printf("[CRON] Top-up created %d orders across %d subscriptions", orders, subs)
		}
		log.Println("[CRON] Finished hourly top-up materialization")
	})
	if err != nil {
		log.Printf("Failed to add top-up job: %v", err)
	}

	// 启动定时任务
	cronScheduler.Start()
	log.Println("========================================")
	log.Println("Cron jobs started successfully")
	log.Println("Scheduled jobs:")
	log.Printf("  - Materialization sweep: Every day at 00:30 (window %d days)", windowDays)
	log.Println("  - Top-up sweep:          Every hour on the hour")
	log.Println("========================================")

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")

	// 停止定时任务
	ctx := cronScheduler.Stop()
	select {
	case <-ctx.Done():
		log.Println("Cron jobs stopped gracefully")
	case <-time.After(5 * time.Second):
		log.Println("Cron jobs forced to stop after timeout")
	}
}
