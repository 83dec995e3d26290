package biz

import "time"

// Clock 时钟接口，"now" 全部注入，保证引擎可确定性测试
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// NewClock 创建真实时钟
func NewClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now().UTC() }

// DateOf 截断到日界(UTC零点)，订单日期不含时间部分
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate 判断两个时间是否落在同一天
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// NextDate 下一天
func NextDate(d time.Time) time.Time {
	return DateOf(d).AddDate(0, 0, 1)
}

// MaxDate 取较晚的日期
func MaxDate(a, b time.Time) time.Time {
	if DateOf(a).After(DateOf(b)) {
		return DateOf(a)
	}
	return DateOf(b)
}

// MinDate 取较早的日期
func MinDate(a, b time.Time) time.Time {
	if DateOf(a).Before(DateOf(b)) {
		return DateOf(a)
	}
	return DateOf(b)
}

// EachDate 遍历[from, to]闭区间内的每一天
func EachDate(from, to time.Time, fn func(d time.Time)) {
	for d := DateOf(from); !d.After(DateOf(to)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// LastDayOfMonth 指定月份的最后一天(28/29/30/31)
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayOfMonth 目标日超出短月时收敛到月末
func ClampDayOfMonth(d time.Time, day int) int {
	last := LastDayOfMonth(d.Year(), d.Month())
	if day > last {
		return last
	}
	return day
}
