package biz

import (
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/auth"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/constants"
)

// 变更授权规则。角色不落库，一律从订单溯源字段现场推导:
// 最后一次状态变更若不是归属客户本人做的，就视为对方(商家)更新。

// CounterPartyUpdated 最后更新者已设置且不是订单归属客户
func CounterPartyUpdated(o *Order) bool {
	return o.UpdatedByUserID != nil && *o.UpdatedByUserID != o.CustomerID
}

// CanModify 今天及以后的订单归属方随时可改;
// 过去的订单只有在最后一次变更仍是归属方自己做的时才可改
func CanModify(o *Order, actor auth.Actor, now time.Time) bool {
	if actor.UserID != o.CustomerID {
		// 商家侧走自身归属校验，不受客户侧冻结规则限制
		return true
	}
	isPast := DateOf(o.OrderDate).Before(DateOf(now))
	return !isPast || !CounterPartyUpdated(o)
}

// CanToggleOrDelete 状态切换/删除在 delivered 且被对方更新时对客户一律禁用，
// 与日期无关; 其余情况退回 CanModify
func CanToggleOrDelete(o *Order, actor auth.Actor, now time.Time) bool {
	if o.Status == constants.OrderStatusDelivered && CounterPartyUpdated(o) && actor.UserID == o.CustomerID {
		return false
	}
	return CanModify(o, actor, now)
}

// CanDispute 争议仅对归属客户开放，且要求交付由对方确认
// (客户自己确认的交付不能由自己发起争议)
func CanDispute(o *Order, actor auth.Actor) bool {
	return o.Status == constants.OrderStatusDelivered &&
		CounterPartyUpdated(o) &&
		!actor.IsVendor() &&
		actor.UserID == o.CustomerID
}
