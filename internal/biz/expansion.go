package biz

import (
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"
)

// ExpandDates 把订阅在[from, to]闭区间内展开成应存在订单的日期集合。
// 纯函数，无副作用; 与既有订单的去重由物化层按 (subscription, date) 对账。
func ExpandDates(sub *Subscription, from, to time.Time) []time.Time {
	// 取消是终态，从取消点起不再产出日期
	if sub.Status == constants.SubscriptionStatusCancelled {
		return nil
	}

	from = MaxDate(from, sub.StartDate)
	to = DateOf(to)
	if sub.EndDate != nil {
		to = MinDate(to, *sub.EndDate)
	}
	if to.Before(from) {
		return nil
	}

	if sub.Frequency == constants.FrequencyOneTime {
		d := DateOf(sub.StartDate)
		if !d.Before(from) && !d.After(to) && !paused(sub, d) {
			return []time.Time{d}
		}
		return nil
	}

	var dates []time.Time
	EachDate(from, to, func(d time.Time) {
		if paused(sub, d) {
			return
		}
		switch sub.Frequency {
		case constants.FrequencyDaily:
			dates = append(dates, d)
		case constants.FrequencyWeekly:
			if weeklyMatch(sub.WeeklyDays, d) {
				dates = append(dates, d)
			}
		case constants.FrequencyMonthly:
			if d.Day() == ClampDayOfMonth(d, sub.MonthlyDay) {
				dates = append(dates, d)
			}
		}
	})
	return dates
}

// paused 日期落在暂停窗口内(仅 paused 状态下窗口有效)
func paused(sub *Subscription, d time.Time) bool {
	if sub.Status != constants.SubscriptionStatusPaused || sub.PausedFrom == nil || sub.PausedUntil == nil {
		return false
	}
	return !d.Before(DateOf(*sub.PausedFrom)) && !d.After(DateOf(*sub.PausedUntil))
}

func weeklyMatch(days []int, d time.Time) bool {
	weekday := int(d.Weekday()) // 0=Sunday..6=Saturday
	for _, wd := range days {
		if wd == weekday {
			return true
		}
	}
	return false
}
