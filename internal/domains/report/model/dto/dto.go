package dto

import (
	"restopos/internal/domains/report/model"
	"restopos/shared/constant"
	"restopos/shared/failure"
	"restopos/shared/timezone"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRangeDays is how far back a report looks when no start date is given.
const DefaultRangeDays = 30

type RangeRequest struct {
	StartDate string `json:"start_date" validate:"omitempty,isodate"`
	EndDate   string `json:"end_date"   validate:"omitempty,isodate"`
	GroupBy   string `json:"group_by"   validate:"omitempty,oneof=day week month"`
}

// ToRange resolves the request against today. Both dates are inclusive calendar days, so
// the returned range ends at midnight after EndDate.
func (r RangeRequest) ToRange(today time.Time) (model.Range, error) {
	end := today
	if r.EndDate != constant.Empty {
		parsed, err := timezone.ParseDate(r.EndDate)
		if err != nil {
			return model.Range{}, failure.Validation("end_date must be YYYY-MM-DD", "end_date") // nolint:wrapcheck
		}

		end = parsed
	}

	start := end.AddDate(0, 0, -(DefaultRangeDays - 1))
	if r.StartDate != constant.Empty {
		parsed, err := timezone.ParseDate(r.StartDate)
		if err != nil {
			return model.Range{}, failure.Validation("start_date must be YYYY-MM-DD", "start_date") // nolint:wrapcheck
		}

		start = parsed
	}

	if start.After(end) {
		return model.Range{}, failure.Validation("start_date must not be after end_date", "start_date") // nolint:wrapcheck
	}

	return model.Range{From: start, To: end.AddDate(0, 0, 1)}, nil
}

func (r RangeRequest) Period() string {
	if r.GroupBy == constant.Empty {
		return model.PeriodDay
	}

	return r.GroupBy
}

type RangeResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func NewRangeResponse(r model.Range) RangeResponse {
	return RangeResponse{
		StartDate: timezone.Format(r.From, constant.DateOnlyFormat),
		EndDate:   timezone.Format(r.To.AddDate(0, 0, -1), constant.DateOnlyFormat),
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type SalesSummary struct {
	TotalOrders       int    `json:"total_orders"`
	TotalRevenue      string `json:"total_revenue"`
	AverageOrderValue string `json:"average_order_value"`
}

type PeriodSales struct {
	Period  string `json:"period"`
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

type OrderTypeSales struct {
	OrderType string `json:"order_type"`
	Orders    int    `json:"orders"`
	Revenue   string `json:"revenue"`
}

type ItemStat struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Quantity   int    `json:"quantity"`
	Revenue    string `json:"revenue"`
	OrderCount int    `json:"order_count"`
}

func NewItemStat(item model.ItemSales) ItemStat {
	return ItemStat{
		MenuItemID: item.MenuItemID,
		Name:       item.Name,
		Category:   item.Category,
		Quantity:   item.Quantity,
		Revenue:    money(item.Revenue),
		OrderCount: item.OrderCount,
	}
}

type SalesReport struct {
	Range       RangeResponse    `json:"range"`
	GroupBy     string           `json:"group_by"`
	Summary     SalesSummary     `json:"summary"`
	ByPeriod    []PeriodSales    `json:"by_period"`
	ByOrderType []OrderTypeSales `json:"by_order_type"`
	TopItems    []ItemStat       `json:"top_items"`
}

type InventorySummary struct {
	TotalItems int    `json:"total_items"`
	TotalValue string `json:"total_value"`
	LowStock   int    `json:"low_stock"`
	Expiring   int    `json:"expiring"`
}

type CategoryInventory struct {
	Category string `json:"category"`
	Items    int    `json:"items"`
	Value    string `json:"value"`
	LowStock int    `json:"low_stock"`
	Expiring int    `json:"expiring"`
}

type InventoryReport struct {
	ExpiringWithinDays int                 `json:"expiring_within_days"`
	Summary            InventorySummary    `json:"summary"`
	ByCategory         []CategoryInventory `json:"by_category"`
}

type RoleCount struct {
	Role   string `json:"role"`
	Total  int    `json:"total"`
	Active int    `json:"active"`
}

type StaffPerformance struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

type StaffReport struct {
	Range         RangeResponse      `json:"range"`
	TotalStaff    int                `json:"total_staff"`
	ActiveStaff   int                `json:"active_staff"`
	ByRole        []RoleCount        `json:"by_role"`
	TopPerformers []StaffPerformance `json:"top_performers"`
}

type CategoryPerformance struct {
	Category string `json:"category"`
	Items    int    `json:"items"`
	Quantity int    `json:"quantity"`
	Revenue  string `json:"revenue"`
}

type MenuReport struct {
	Range      RangeResponse         `json:"range"`
	TopSelling []ItemStat            `json:"top_selling"`
	TopRevenue []ItemStat            `json:"top_revenue"`
	Categories []CategoryPerformance `json:"categories"`
	Unsold     []ItemStat            `json:"unsold"`
}
