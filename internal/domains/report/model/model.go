package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"

	// TopItemsLimit caps the best seller lists.
	TopItemsLimit = 10
	// TopStaffLimit caps the staff leaderboard.
	TopStaffLimit = 5
)

// Range is a half open interval [From, To).
type Range struct {
	From time.Time
	To   time.Time
}

// SalesBucket is the revenue of one order type within one period.
type SalesBucket struct {
	Period    time.Time       `db:"period"`
	OrderType string          `db:"order_type"`
	Orders    int             `db:"orders"`
	Revenue   decimal.Decimal `db:"revenue"`
}

// ItemSales joins a menu item with what it sold in a range. OnMenu is false for items that
// were sold and later deleted from the menu.
type ItemSales struct {
	MenuItemID string          `db:"menu_item_id"`
	Name       string          `db:"name"`
	Category   string          `db:"category"`
	Price      decimal.Decimal `db:"price"`
	Quantity   int             `db:"quantity"`
	Revenue    decimal.Decimal `db:"revenue"`
	OrderCount int             `db:"order_count"`
	OnMenu     bool            `db:"on_menu"`
}

type CategoryStock struct {
	Category string          `db:"category"`
	Items    int             `db:"items"`
	Value    decimal.Decimal `db:"value"`
	LowStock int             `db:"low_stock"`
	Expiring int             `db:"expiring"`
}

type StaffActivity struct {
	UserID  string          `db:"user_id"`
	Name    string          `db:"name"`
	Role    string          `db:"role"`
	Status  string          `db:"status"`
	Orders  int             `db:"orders"`
	Revenue decimal.Decimal `db:"revenue"`
}

// PeriodKey labels the bucket that starts at t. Weeks use ISO numbering.
func PeriodKey(period string, t time.Time) string {
	switch period {
	case PeriodMonth:
		return t.Format("2006-01")
	case PeriodWeek:
		year, week := t.ISOWeek()

		return fmt.Sprintf("%d-W%02d", year, week)
	default:
		return t.Format("2006-01-02")
	}
}
