package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restopos/internal/domains/inventory/model"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func item(current, minStock, maxStock string) model.Item {
	return model.Item{
		ID:           "i-1",
		Name:         "Tomatoes",
		CurrentStock: d(current),
		MinStock:     d(minStock),
		MaxStock:     d(maxStock),
		CostPerUnit:  d("2.50"),
		StockHistory: gModel.NewJSONB([]model.StockEntry{}),
	}
}

func TestItem_Adjust(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		action   model.Action
		quantity string
		want     string
	}{
		{name: "restock adds", current: "8", action: model.ActionRestock, quantity: "20", want: "28"},
		{name: "usage subtracts", current: "12", action: model.ActionUsage, quantity: "5", want: "7"},
		{name: "usage clamps at zero", current: "3", action: model.ActionUsage, quantity: "5", want: "0"},
		{name: "waste subtracts", current: "10", action: model.ActionWaste, quantity: "2.5", want: "7.5"},
		{name: "adjustment sets absolute level up", current: "3", action: model.ActionAdjustment, quantity: "7", want: "7"},
		{name: "adjustment sets absolute level down", current: "40", action: model.ActionAdjustment, quantity: "7", want: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := item(tt.current, "10", "50")

			require.NoError(t, it.Adjust(tt.action, d(tt.quantity), "count", "u-1", now))

			assert.True(t, d(tt.want).Equal(it.CurrentStock), "got %s", it.CurrentStock)
			require.Len(t, it.StockHistory.Val, 1)

			entry := it.StockHistory.Val[0]
			assert.Equal(t, tt.action, entry.Action)
			assert.True(t, d(tt.quantity).Equal(entry.Quantity))
			assert.Equal(t, "u-1", entry.PerformedBy)
			assert.Equal(t, now, entry.Timestamp)
		})
	}
}

func TestItem_AdjustRejects(t *testing.T) {
	it := item("5", "1", "10")

	err := it.Adjust("theft", d("1"), "", "u-1", now)
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))

	err = it.Adjust(model.ActionUsage, d("-1"), "", "u-1", now)
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))

	assert.True(t, d("5").Equal(it.CurrentStock))
	assert.Empty(t, it.StockHistory.Val)
}

func TestItem_RestockStampsLastRestocked(t *testing.T) {
	it := item("5", "1", "10")

	require.NoError(t, it.Adjust(model.ActionUsage, d("1"), "", "u-1", now))
	assert.True(t, it.LastRestocked.IsZero())

	require.NoError(t, it.Adjust(model.ActionRestock, d("1"), "", "u-1", now))
	assert.Equal(t, now, it.LastRestocked)
}

// TestItem_LowThenNormal follows an item that starts under its minimum and is restocked.
func TestItem_LowThenNormal(t *testing.T) {
	it := item("8", "10", "50")
	assert.Equal(t, model.StockLow, it.StockStatus())

	require.NoError(t, it.Adjust(model.ActionRestock, d("20"), "delivery", "u-1", now))

	assert.True(t, d("28").Equal(it.CurrentStock))
	assert.Equal(t, model.StockNormal, it.StockStatus())
}

func TestItem_StockStatus(t *testing.T) {
	tests := []struct {
		current string
		want    model.StockStatus
	}{
		{current: "0", want: model.StockLow},
		{current: "10", want: model.StockLow},
		{current: "10.5", want: model.StockNormal},
		{current: "49", want: model.StockNormal},
		{current: "50", want: model.StockHigh},
		{current: "80", want: model.StockHigh},
	}

	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			it := item(tt.current, "10", "50")
			assert.Equal(t, tt.want, it.StockStatus())
		})
	}
}

func TestItem_TotalValue(t *testing.T) {
	it := item("3.3", "1", "10")
	assert.Equal(t, "8.25", it.TotalValue().StringFixed(2))
}

func TestItem_Expiry(t *testing.T) {
	at := func(hours int) *time.Time {
		v := now.Add(time.Duration(hours) * time.Hour)

		return &v
	}

	tests := []struct {
		name     string
		expiry   *time.Time
		wantDays *int
		within7  bool
	}{
		{name: "no expiry", expiry: nil, wantDays: nil},
		{name: "later today", expiry: at(5), wantDays: intPtr(1), within7: true},
		{name: "a few hours ago", expiry: at(-5), wantDays: intPtr(0), within7: true},
		{name: "yesterday", expiry: at(-30), wantDays: intPtr(-1)},
		{name: "exactly a week", expiry: at(7 * 24), wantDays: intPtr(7), within7: true},
		{name: "next month", expiry: at(30 * 24), wantDays: intPtr(30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := item("1", "1", "10")
			it.ExpiryDate = tt.expiry

			assert.Equal(t, tt.wantDays, it.DaysUntilExpiry(now))
			assert.Equal(t, tt.within7, it.ExpiresWithin(7, now))
		})
	}
}

func TestCheckLevels(t *testing.T) {
	assert.NoError(t, model.CheckLevels(d("10"), d("50")))
	assert.NoError(t, model.CheckLevels(d("10"), d("10")))

	err := model.CheckLevels(d("60"), d("50"))
	require.Error(t, err)
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	assert.Equal(t, model.FieldMinStock, failure.GetDetails(err)["field"])
}

func intPtr(v int) *int {
	return &v
}
