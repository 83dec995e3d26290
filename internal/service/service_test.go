package service

import (
	"testing"
	"time"

	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDate("10/03/2024")
	assert.Error(t, err)

	d, err = parseOptionalDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestOrderToReply(t *testing.T) {
	qty, _ := decimal.NewFromString("2.5")
	price, _ := decimal.NewFromString("3.20")
	total := qty.Mul(price)
	o := &biz.Order{
		ID:          "ord-1",
		CustomerID:  100,
		VendorID:    200,
		ProductID:   "milk-1l",
		OrderDate:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Quantity:    qty,
		Unit:        "bottle",
		PricePerUnit: price,
		TotalAmount: total,
		Status:      "pending",
	}

	reply := orderToReply(o)
	assert.Equal(t, "2024-03-10", reply.OrderDate)
	assert.Equal(t, "2.5", reply.Quantity)
	assert.Equal(t, "8", reply.TotalAmount)
	assert.Empty(t, reply.SubscriptionID)
	assert.Nil(t, reply.DeliveredAt)
}
