package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/auth"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/conf"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/errors"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subscription 周期性订购意图，按频率展开成具体日期的订单
type Subscription struct {
	ID                string
	CustomerID        uint64
	VendorID          uint64
	ProductID         string
	Frequency         string // one_time, daily, weekly, monthly
	StartDate         time.Time
	OriginalStartDate time.Time // 首次开始日期，跨暂停/恢复周期保留
	EndDate           *time.Time
	Status            string // active, paused, cancelled
	PausedFrom        *time.Time
	PausedUntil       *time.Time
	WeeklyDays        []int // 0=Sunday..6=Saturday，weekly 专用
	MonthlyDay        int   // monthly 专用，短月收敛到月末
	Quantity          decimal.Decimal
	Unit              string
	PricePerUnit      decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SubscriptionRepo 订阅仓库接口
type SubscriptionRepo interface {
	GetSubscription(ctx context.Context, id string) (*Subscription, error) // 不存在时返回 nil, nil
	ListByCustomer(ctx context.Context, customerID uint64) ([]*Subscription, error)
	ListActive(ctx context.Context) ([]*Subscription, error)
	CreateSubscription(ctx context.Context, sub *Subscription) error
	SaveSubscription(ctx context.Context, sub *Subscription) error
}

// SubscriptionHistory 订阅历史记录
type SubscriptionHistory struct {
	ID             uint64
	SubscriptionID string
	CustomerID     uint64
	Action         string // created, paused, resumed, cancelled
	Status         string
	StartDate      time.Time
	EndDate        *time.Time
	CreatedAt      time.Time
}

// SubscriptionHistoryRepo 订阅历史记录仓库接口
type SubscriptionHistoryRepo interface {
	AddSubscriptionHistory(ctx context.Context, history *SubscriptionHistory) error
	GetSubscriptionHistory(ctx context.Context, subscriptionID string, page, pageSize int) ([]*SubscriptionHistory, int, error)
}

// Transaction 事务接口，物化批量建单时使用
type Transaction interface {
	Exec(ctx context.Context, fn func(ctx context.Context) error) error
}

// SubscriptionUsecase 订阅生命周期业务逻辑
type SubscriptionUsecase struct {
	subRepo     SubscriptionRepo
	historyRepo SubscriptionHistoryRepo
	orderRepo   OrderRepo
	pricing     PricingClient
	tm          Transaction
	rs          *redsync.Redsync
	clock       Clock
	config      *conf.Bootstrap
	log         *log.Helper
}

// NewSubscriptionUsecase 创建订阅业务用例
func NewSubscriptionUsecase(
	subRepo SubscriptionRepo,
	historyRepo SubscriptionHistoryRepo,
	orderRepo OrderRepo,
	pricing PricingClient,
	tm Transaction,
	rs *redsync.Redsync,
	clock Clock,
	config *conf.Bootstrap,
	logger log.Logger,
) *SubscriptionUsecase {
	return &SubscriptionUsecase{
		subRepo:     subRepo,
		historyRepo: historyRepo,
		orderRepo:   orderRepo,
		pricing:     pricing,
		tm:          tm,
		rs:          rs,
		clock:       clock,
		config:      config,
		log:         log.NewHelper(logger),
	}
}

// CreateSubscriptionInput 创建订阅参数
type CreateSubscriptionInput struct {
	CustomerID uint64
	VendorID   uint64
	ProductID  string
	Frequency  string
	StartDate  time.Time
	EndDate    *time.Time
	WeeklyDays []int
	MonthlyDay int
	Quantity   decimal.Decimal
}

// CreateSubscription 创建订阅，初始为 active。单位与单价在创建时刻
// 从商品目录冗余到模板，后续生成的订单沿用模板价
func (uc *SubscriptionUsecase) CreateSubscription(ctx context.Context, actor auth.Actor, in CreateSubscriptionInput) (*Subscription, error) {
	if err := validateSubscriptionInput(in); err != nil {
		return nil, err
	}
	if !actor.IsVendor() && actor.UserID != in.CustomerID {
		return nil, errors.NewPermissionDenied(errors.ErrCodeOrderPermissionDenied, "cannot create a subscription for another customer")
	}

	quote, err := uc.pricing.ResolveProduct(ctx, in.VendorID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, errors.NewNotFound(errors.ErrCodeProductNotFound, fmt.Sprintf("product %s not found for vendor %d", in.ProductID, in.VendorID))
	}

	now := uc.clock.Now()
	start := DateOf(in.StartDate)
	sub := &Subscription{
		ID:                uuid.New().String(),
		CustomerID:        in.CustomerID,
		VendorID:          in.VendorID,
		ProductID:         in.ProductID,
		Frequency:         in.Frequency,
		StartDate:         start,
		OriginalStartDate: start,
		EndDate:           in.EndDate,
		Status:            constants.SubscriptionStatusActive,
		WeeklyDays:        in.WeeklyDays,
		MonthlyDay:        in.MonthlyDay,
		Quantity:          in.Quantity,
		Unit:              quote.Unit,
		PricePerUnit:      quote.PricePerUnit,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.subRepo.CreateSubscription(ctx, sub); err != nil {
		uc.log.Errorf("Failed to create subscription for customer %d: %v", in.CustomerID, err)
		return nil, err
	}

	uc.addHistory(ctx, sub, constants.ActionCreated)
	uc.log.Infof("Subscription %s created: customer=%d product=%s frequency=%s", sub.ID, sub.CustomerID, sub.ProductID, sub.Frequency)
	return sub, nil
}

// GetSubscription 获取订阅
func (uc *SubscriptionUsecase) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	sub, err := uc.subRepo.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.WithSubscriptionID(errors.NewNotFound(errors.ErrCodeSubscriptionNotFound, "subscription not found"), id)
	}
	return sub, nil
}

// ListByCustomer 查询客户的订阅列表
func (uc *SubscriptionUsecase) ListByCustomer(ctx context.Context, customerID uint64) ([]*Subscription, error) {
	return uc.subRepo.ListByCustomer(ctx, customerID)
}

// PauseSubscription 暂停订阅，暂停窗口内不再生成订单
func (uc *SubscriptionUsecase) PauseSubscription(ctx context.Context, id string, pausedFrom, pausedUntil time.Time) error {
	sub, err := uc.GetSubscription(ctx, id)
	if err != nil {
		return err
	}

	// 只能暂停 active 状态的订阅
	if sub.Status != constants.SubscriptionStatusActive {
		return errors.WithSubscriptionID(errors.NewInvalidState(errors.ErrCodeCannotPauseStatus, "only active subscriptions can be paused"), id)
	}
	from, until := DateOf(pausedFrom), DateOf(pausedUntil)
	if until.Before(from) {
		return errors.NewValidation(errors.ErrCodeSubscriptionValidation, "paused_until must not be before paused_from")
	}

	now := uc.clock.Now()
	sub.Status = constants.SubscriptionStatusPaused
	sub.PausedFrom = &from
	sub.PausedUntil = &until
	sub.UpdatedAt = now

	if err := uc.subRepo.SaveSubscription(ctx, sub); err != nil {
		uc.log.Errorf("Failed to save subscription %s: %v", id, err)
		return err
	}

	uc.addHistory(ctx, sub, constants.ActionPaused)
	uc.log.Infof("Subscription %s paused from %s until %s", id, from.Format(time.DateOnly), until.Format(time.DateOnly))
	return nil
}

// ResumeSubscription 恢复订阅。start_date 前移到恢复日，
// original_start_date 保留用于历史展示
func (uc *SubscriptionUsecase) ResumeSubscription(ctx context.Context, id string) error {
	sub, err := uc.GetSubscription(ctx, id)
	if err != nil {
		return err
	}

	// 只能恢复 paused 状态的订阅
	if sub.Status != constants.SubscriptionStatusPaused {
		return errors.WithSubscriptionID(errors.NewInvalidState(errors.ErrCodeCannotResumeStatus, "only paused subscriptions can be resumed"), id)
	}

	now := uc.clock.Now()
	sub.Status = constants.SubscriptionStatusActive
	sub.StartDate = DateOf(now)
	sub.PausedFrom = nil
	sub.PausedUntil = nil
	sub.UpdatedAt = now

	if err := uc.subRepo.SaveSubscription(ctx, sub); err != nil {
		uc.log.Errorf("Failed to save subscription %s: %v", id, err)
		return err
	}

	uc.addHistory(ctx, sub, constants.ActionResumed)
	uc.log.Infof("Subscription %s resumed, generation continues from %s", id, sub.StartDate.Format(time.DateOnly))
	return nil
}

// CancelSubscription 取消订阅(终态)。已物化的订单不动
func (uc *SubscriptionUsecase) CancelSubscription(ctx context.Context, id string) error {
	sub, err := uc.GetSubscription(ctx, id)
	if err != nil {
		return err
	}

	// 取消是终态，cancelled 不能再取消
	if sub.Status == constants.SubscriptionStatusCancelled {
		return errors.WithSubscriptionID(errors.NewInvalidState(errors.ErrCodeCannotCancelStatus, "subscription is already cancelled"), id)
	}

	now := uc.clock.Now()
	sub.Status = constants.SubscriptionStatusCancelled
	sub.PausedFrom = nil
	sub.PausedUntil = nil
	sub.UpdatedAt = now

	if err := uc.subRepo.SaveSubscription(ctx, sub); err != nil {
		uc.log.Errorf("Failed to save subscription %s: %v", id, err)
		return err
	}

	uc.addHistory(ctx, sub, constants.ActionCancelled)
	uc.log.Infof("Subscription %s cancelled", id)
	return nil
}

// GetSubscriptionHistory 获取订阅历史记录
func (uc *SubscriptionUsecase) GetSubscriptionHistory(ctx context.Context, subscriptionID string, page, pageSize int) ([]*SubscriptionHistory, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}
	return uc.historyRepo.GetSubscriptionHistory(ctx, subscriptionID, page, pageSize)
}

func (uc *SubscriptionUsecase) addHistory(ctx context.Context, sub *Subscription, action string) {
	history := &SubscriptionHistory{
		SubscriptionID: sub.ID,
		CustomerID:     sub.CustomerID,
		Action:         action,
		Status:         sub.Status,
		StartDate:      sub.StartDate,
		EndDate:        sub.EndDate,
		CreatedAt:      uc.clock.Now(),
	}
	if err := uc.historyRepo.AddSubscriptionHistory(ctx, history); err != nil {
		uc.log.Errorf("Failed to add history for subscription %s: %v", sub.ID, err)
	}
}

func validateSubscriptionInput(in CreateSubscriptionInput) error {
	switch in.Frequency {
	case constants.FrequencyOneTime, constants.FrequencyDaily, constants.FrequencyWeekly, constants.FrequencyMonthly:
	default:
		return errors.NewValidation(errors.ErrCodeSubscriptionValidation, fmt.Sprintf("invalid frequency %q", in.Frequency))
	}
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return errors.NewValidation(errors.ErrCodeSubscriptionValidation, "quantity must be positive")
	}
	if in.EndDate != nil && DateOf(*in.EndDate).Before(DateOf(in.StartDate)) {
		return errors.NewValidation(errors.ErrCodeSubscriptionValidation, "end_date must not be before start_date")
	}
	if in.Frequency == constants.FrequencyWeekly {
		if len(in.WeeklyDays) == 0 {
			return errors.NewValidation(errors.ErrCodeSubscriptionValidation, "weekly subscription requires weekly_days")
		}
		for _, d := range in.WeeklyDays {
			if d < 0 || d > 6 {
				return errors.NewValidation(errors.ErrCodeSubscriptionValidation, fmt.Sprintf("weekly day %d out of range 0..6", d))
			}
		}
	}
	if in.Frequency == constants.FrequencyMonthly && (in.MonthlyDay < 1 || in.MonthlyDay > 31) {
		return errors.NewValidation(errors.ErrCodeSubscriptionValidation, "monthly subscription requires monthly_day in 1..31")
	}
	return nil
}
