package biz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("18:00")
	require.NoError(t, err)
	assert.Equal(t, 18, tod.Hour)
	assert.Equal(t, 0, tod.Minute)
	assert.Equal(t, "18:00", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("18:61")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("not-a-time")
	assert.Error(t, err)

	// 尾部多余字符和带符号分量也要拒绝
	_, err = ParseTimeOfDay("18:00xyz")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("-1:30")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("18:-5")
	assert.Error(t, err)
}

func TestCutoffPolicyFromString(t *testing.T) {
	// 空串=无截止
	p, err := CutoffPolicyFromString("")
	require.NoError(t, err)
	assert.Nil(t, p.SubscribeBefore)

	p, err = CutoffPolicyFromString("07:30")
	require.NoError(t, err)
	require.NotNil(t, p.SubscribeBefore)
	assert.Equal(t, "07:30", p.SubscribeBefore.String())
}

// 商品截止 18:00，当前 2024-03-10 17:00:
// 明天(03-11)的截止点是今天 18:00，还没到，可下单;
// 今天(03-10)的截止点是昨天 18:00，已过，不可下单。
func TestIsOrderableAroundCutoff(t *testing.T) {
	p, err := CutoffPolicyFromString("18:00")
	require.NoError(t, err)

	now := at("2024-03-10T17:00")
	assert.True(t, p.IsOrderable(now, day("2024-03-11")))
	assert.False(t, p.IsOrderable(now, day("2024-03-10")))

	// 过了 18:00 之后，明天也关了
	later := at("2024-03-10T18:01")
	assert.False(t, p.IsOrderable(later, day("2024-03-11")))
	assert.True(t, p.IsOrderable(later, day("2024-03-12")))

	// 截止点本身仍可下单(不晚于截止点)
	exact := at("2024-03-10T18:00")
	assert.True(t, p.IsOrderable(exact, day("2024-03-11")))
}

func TestIsOrderableNoCutoff(t *testing.T) {
	p := CutoffPolicy{}
	now := at("2024-03-10T23:59")
	assert.True(t, p.IsOrderable(now, day("2024-03-10")))
	assert.True(t, p.IsOrderable(now, day("2024-03-20")))
	assert.False(t, p.IsOrderable(now, day("2024-03-09")))
}

// 时间只会把窗口关上，不会重新打开: 对固定交付日，
// orderable 随 now 前进只能从 true 翻到 false 一次
func TestOrderableMonotonicity(t *testing.T) {
	p, err := CutoffPolicyFromString("07:00")
	require.NoError(t, err)

	date := day("2024-03-15")
	instants := []time.Time{
		at("2024-03-13T06:00"),
		at("2024-03-14T06:59"),
		at("2024-03-14T07:00"),
		at("2024-03-14T07:01"),
		at("2024-03-15T12:00"),
	}
	wasOrderable := true
	for _, now := range instants {
		ok := p.IsOrderable(now, date)
		if !wasOrderable {
			assert.False(t, ok, "window reopened at %s", now)
		}
		wasOrderable = ok
	}
	assert.False(t, wasOrderable)
}

func TestEarliestOrderable(t *testing.T) {
	p, err := CutoffPolicyFromString("18:00")
	require.NoError(t, err)

	assert.Equal(t, day("2024-03-11"), p.EarliestOrderable(at("2024-03-10T17:00")))
	assert.Equal(t, day("2024-03-12"), p.EarliestOrderable(at("2024-03-10T19:00")))

	// 无截止: 今天
	assert.Equal(t, day("2024-03-10"), CutoffPolicy{}.EarliestOrderable(at("2024-03-10T19:00")))
}

func TestDefaultDate(t *testing.T) {
	p, err := CutoffPolicyFromString("18:00")
	require.NoError(t, err)

	assert.Equal(t, day("2024-03-10"), p.DefaultDate(at("2024-03-10T17:00")))
	assert.Equal(t, day("2024-03-11"), p.DefaultDate(at("2024-03-10T18:30")))
	assert.Equal(t, day("2024-03-10"), CutoffPolicy{}.DefaultDate(at("2024-03-10T23:00")))
}
