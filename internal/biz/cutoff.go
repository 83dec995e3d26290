package biz

import (
	"fmt"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/errors"
)

// TimeOfDay 一天中的时刻(商品配置的 subscribe-before)
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay 严格解析 "HH:MM"，多余字符或越界一律报错
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, errors.NewValidation(errors.ErrCodeOrderValidation, fmt.Sprintf("invalid time of day %q, expect HH:MM", s))
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// On 该时刻落在指定日期上的时间点
func (t TimeOfDay) On(d time.Time) time.Time {
	d = DateOf(d)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, time.UTC)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// CutoffPolicy 下单截止策略: 交付日 D 的截止时刻是 (D-1)@HH:MM
// SubscribeBefore 为 nil 时不设截止，今天及以后都可下单
type CutoffPolicy struct {
	SubscribeBefore *TimeOfDay
}

// CutoffPolicyFromString 从商品配置构建策略，空串=无截止
func CutoffPolicyFromString(s string) (CutoffPolicy, error) {
	if s == "" {
		return CutoffPolicy{}, nil
	}
	t, err := ParseTimeOfDay(s)
	if err != nil {
		return CutoffPolicy{}, err
	}
	return CutoffPolicy{SubscribeBefore: &t}, nil
}

// CutoffInstant 候选日期的截止时刻，策略未设截止时第二个返回值为 false
func (p CutoffPolicy) CutoffInstant(date time.Time) (time.Time, bool) {
	if p.SubscribeBefore == nil {
		return time.Time{}, false
	}
	return p.SubscribeBefore.On(DateOf(date).AddDate(0, 0, -1)), true
}

// IsOrderable 判断此刻是否仍可为候选日期下单
func (p CutoffPolicy) IsOrderable(now, date time.Time) bool {
	cutoff, ok := p.CutoffInstant(date)
	if !ok {
		return !DateOf(date).Before(DateOf(now))
	}
	return !now.After(cutoff)
}

// EarliestOrderable 此刻还能下单的最早日期
func (p CutoffPolicy) EarliestOrderable(now time.Time) time.Time {
	d := DateOf(now)
	for !p.IsOrderable(now, d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// DefaultDate 无预选日期时的建议日期: 当前时刻早于 HH:MM 取今天，否则取明天
func (p CutoffPolicy) DefaultDate(now time.Time) time.Time {
	if p.SubscribeBefore == nil {
		return DateOf(now)
	}
	if now.Before(p.SubscribeBefore.On(now)) {
		return DateOf(now)
	}
	return NextDate(now)
}
