package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"restopos/config"
	"restopos/infras/otel/mocks"
	reportMocks "restopos/internal/domains/report/mocks"
	"restopos/internal/domains/report/model"
	"restopos/internal/domains/report/model/dto"
	"restopos/internal/domains/report/service"
	"restopos/shared/failure"
	"restopos/shared/timezone"
)

func newService(t *testing.T) (*reportMocks.MockReport, service.Report) {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Restaurant.ExpiringWindowDays = 7

	repo := reportMocks.NewMockReport(ctrl)

	return repo, service.New(repo, cfg, mocks.NewOtel())
}

func day(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := timezone.ParseDate(value)
	require.NoError(t, err)

	return parsed
}

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestRangeRequest_ToRange(t *testing.T) {
	today := day(t, "2026-03-31")

	tests := []struct {
		name      string
		req       dto.RangeRequest
		wantFrom  string
		wantTo    string
		wantField string
	}{
		{name: "defaults to the last thirty days", req: dto.RangeRequest{}, wantFrom: "2026-03-02", wantTo: "2026-04-01"},
		{name: "explicit range includes the end date", req: dto.RangeRequest{StartDate: "2026-03-01", EndDate: "2026-03-07"}, wantFrom: "2026-03-01", wantTo: "2026-03-08"},
		{name: "single day", req: dto.RangeRequest{StartDate: "2026-03-05", EndDate: "2026-03-05"}, wantFrom: "2026-03-05", wantTo: "2026-03-06"},
		{name: "start after end", req: dto.RangeRequest{StartDate: "2026-03-09", EndDate: "2026-03-01"}, wantField: "start_date"},
		{name: "unparseable end", req: dto.RangeRequest{EndDate: "2026-02-30"}, wantField: "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.req.ToRange(today)

			if tt.wantField != "" {
				require.Error(t, err)
				assert.Equal(t, failure.KindValidation, failure.GetKind(err))
				assert.Equal(t, tt.wantField, failure.GetDetails(err)["field"])

				return
			}

			require.NoError(t, err)
			assert.True(t, day(t, tt.wantFrom).Equal(r.From))
			assert.True(t, day(t, tt.wantTo).Equal(r.To))
		})
	}
}

func TestPeriodKey(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-01-01", model.PeriodKey(model.PeriodDay, at))
	assert.Equal(t, "2026-W01", model.PeriodKey(model.PeriodWeek, at))
	assert.Equal(t, "2026-01", model.PeriodKey(model.PeriodMonth, at))
	assert.Equal(t, "2025-W52", model.PeriodKey(model.PeriodWeek, time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)))
}

func TestReportService_Sales(t *testing.T) {
	repo, svc := newService(t)

	req := dto.RangeRequest{StartDate: "2026-03-01", EndDate: "2026-03-02", GroupBy: model.PeriodDay}
	want := model.Range{From: day(t, "2026-03-01"), To: day(t, "2026-03-03")}

	first := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().SalesBuckets(gomock.Any(), want, model.PeriodDay).Return([]model.SalesBucket{
		{Period: first, OrderType: "dine-in", Orders: 3, Revenue: money("60.00")},
		{Period: first, OrderType: "takeout", Orders: 1, Revenue: money("12.50")},
		{Period: second, OrderType: "delivery", Orders: 2, Revenue: money("80.00")},
	}, nil)

	items := []model.ItemSales{
		{MenuItemID: "m-1", Name: "Burger", Category: "main-course", Quantity: 6, Revenue: money("45.00"), OnMenu: true},
		{MenuItemID: "m-2", Name: "Soup", Category: "appetizer", Quantity: 9, Revenue: money("36.00"), OnMenu: true},
		{MenuItemID: "m-3", Name: "Cake", Category: "dessert", Quantity: 0, Revenue: decimal.Zero, OnMenu: true},
	}
	repo.EXPECT().ItemSales(gomock.Any(), want).Return(items, nil)

	res, err := svc.Sales(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, dto.RangeResponse{StartDate: "2026-03-01", EndDate: "2026-03-02"}, res.Range)
	assert.Equal(t, dto.SalesSummary{TotalOrders: 6, TotalRevenue: "152.50", AverageOrderValue: "25.42"}, res.Summary)
	assert.Equal(t, []dto.PeriodSales{
		{Period: "2026-03-01", Orders: 4, Revenue: "72.50"},
		{Period: "2026-03-02", Orders: 2, Revenue: "80.00"},
	}, res.ByPeriod)
	assert.Equal(t, []dto.OrderTypeSales{
		{OrderType: "delivery", Orders: 2, Revenue: "80.00"},
		{OrderType: "dine-in", Orders: 3, Revenue: "60.00"},
		{OrderType: "takeout", Orders: 1, Revenue: "12.50"},
	}, res.ByOrderType)

	require.Len(t, res.TopItems, 2)
	assert.Equal(t, "Burger", res.TopItems[0].Name)
	assert.Equal(t, "Soup", res.TopItems[1].Name)
}

func TestReportService_SalesByWeekMergesDays(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().SalesBuckets(gomock.Any(), gomock.Any(), model.PeriodWeek).Return([]model.SalesBucket{
		{Period: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), OrderType: "dine-in", Orders: 1, Revenue: money("10")},
		{Period: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), OrderType: "takeout", Orders: 1, Revenue: money("5")},
	}, nil)
	repo.EXPECT().ItemSales(gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := svc.Sales(context.Background(), dto.RangeRequest{GroupBy: model.PeriodWeek})
	require.NoError(t, err)

	assert.Equal(t, []dto.PeriodSales{{Period: "2026-W10", Orders: 2, Revenue: "15.00"}}, res.ByPeriod)
	assert.Empty(t, res.TopItems)
}

func TestReportService_SalesEmpty(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().SalesBuckets(gomock.Any(), gomock.Any(), model.PeriodDay).Return(nil, nil)
	repo.EXPECT().ItemSales(gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := svc.Sales(context.Background(), dto.RangeRequest{})
	require.NoError(t, err)

	assert.Equal(t, dto.SalesSummary{TotalOrders: 0, TotalRevenue: "0.00", AverageOrderValue: "0.00"}, res.Summary)
	assert.Equal(t, model.PeriodDay, res.GroupBy)
	assert.Empty(t, res.ByPeriod)
}

func TestReportService_SalesFailures(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.RangeRequest
		setup func(repo *reportMocks.MockReport)
		check func(t *testing.T, err error)
	}{
		{
			name:  "bad range never reaches the database",
			req:   dto.RangeRequest{StartDate: "2026-03-09", EndDate: "2026-03-01"},
			setup: func(*reportMocks.MockReport) {},
			check: func(t *testing.T, err error) {
				assert.Equal(t, failure.KindValidation, failure.GetKind(err))
			},
		},
		{
			name: "bucket query fails",
			setup: func(repo *reportMocks.MockReport) {
				repo.EXPECT().SalesBuckets(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "failed to aggregate sales")
			},
		},
		{
			name: "item query fails",
			setup: func(repo *reportMocks.MockReport) {
				repo.EXPECT().SalesBuckets(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				repo.EXPECT().ItemSales(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "failed to aggregate item sales")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, svc := newService(t)
			tt.setup(repo)

			_, err := svc.Sales(context.Background(), tt.req)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestReportService_SalesCapsTopItems(t *testing.T) {
	repo, svc := newService(t)

	var items []model.ItemSales
	for i := range model.TopItemsLimit + 5 {
		items = append(items, model.ItemSales{
			MenuItemID: fmt.Sprintf("m-%02d", i),
			Name:       fmt.Sprintf("Dish %02d", i),
			Quantity:   1,
			Revenue:    decimal.NewFromInt(int64(i)),
			OnMenu:     true,
		})
	}

	repo.EXPECT().SalesBuckets(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	repo.EXPECT().ItemSales(gomock.Any(), gomock.Any()).Return(items, nil)

	res, err := svc.Sales(context.Background(), dto.RangeRequest{})
	require.NoError(t, err)

	require.Len(t, res.TopItems, model.TopItemsLimit)
	assert.Equal(t, "Dish 14", res.TopItems[0].Name)
}

func TestReportService_Inventory(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().StockByCategory(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, now, until time.Time) ([]model.CategoryStock, error) {
			assert.Equal(t, now.AddDate(0, 0, 7), until)

			return []model.CategoryStock{
				{Category: "dairy", Items: 4, Value: money("42.10"), LowStock: 1, Expiring: 2},
				{Category: "produce", Items: 6, Value: money("18.40"), LowStock: 2},
			}, nil
		})

	res, err := svc.Inventory(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, res.ExpiringWithinDays)
	assert.Equal(t, dto.InventorySummary{TotalItems: 10, TotalValue: "60.50", LowStock: 3, Expiring: 2}, res.Summary)
	require.Len(t, res.ByCategory, 2)
	assert.Equal(t, "42.10", res.ByCategory[0].Value)
}

func TestReportService_InventoryFails(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().StockByCategory(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	_, err := svc.Inventory(context.Background())
	assert.ErrorContains(t, err, "failed to aggregate inventory")
}

func TestReportService_Staff(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().StaffActivity(gomock.Any(), gomock.Any()).Return([]model.StaffActivity{
		{UserID: "u-1", Name: "Ada", Role: "cashier", Status: "active", Orders: 12, Revenue: money("300")},
		{UserID: "u-2", Name: "Bo", Role: "cashier", Status: "inactive", Orders: 0, Revenue: decimal.Zero},
		{UserID: "u-3", Name: "Cy", Role: "admin", Status: "active", Orders: 4, Revenue: money("310")},
		{UserID: "u-4", Name: "Di", Role: "kitchen", Status: "active"},
	}, nil)

	res, err := svc.Staff(context.Background(), dto.RangeRequest{})
	require.NoError(t, err)

	assert.Equal(t, 4, res.TotalStaff)
	assert.Equal(t, 3, res.ActiveStaff)
	assert.Equal(t, []dto.RoleCount{
		{Role: "admin", Total: 1, Active: 1},
		{Role: "cashier", Total: 2, Active: 1},
		{Role: "kitchen", Total: 1, Active: 1},
	}, res.ByRole)
	assert.Equal(t, []dto.StaffPerformance{
		{UserID: "u-3", Name: "Cy", Role: "admin", Orders: 4, Revenue: "310.00"},
		{UserID: "u-1", Name: "Ada", Role: "cashier", Orders: 12, Revenue: "300.00"},
	}, res.TopPerformers)
}

func TestReportService_Menu(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().ItemSales(gomock.Any(), gomock.Any()).Return([]model.ItemSales{
		{MenuItemID: "m-1", Name: "Burger", Category: "main-course", Quantity: 4, Revenue: money("30.00"), OnMenu: true},
		{MenuItemID: "m-2", Name: "Steak", Category: "main-course", Quantity: 1, Revenue: money("32.00"), OnMenu: true},
		{MenuItemID: "m-3", Name: "Soup", Category: "appetizer", Quantity: 7, Revenue: money("28.00"), OnMenu: true},
		{MenuItemID: "m-4", Name: "Tart", Category: "dessert", OnMenu: true},
		{MenuItemID: "m-5", Name: "Old Special", Quantity: 2, Revenue: money("50.00")},
	}, nil)

	res, err := svc.Menu(context.Background(), dto.RangeRequest{})
	require.NoError(t, err)

	names := func(stats []dto.ItemStat) []string {
		var out []string
		for _, s := range stats {
			out = append(out, s.Name)
		}

		return out
	}

	assert.Equal(t, []string{"Soup", "Burger", "Old Special", "Steak"}, names(res.TopSelling))
	assert.Equal(t, []string{"Old Special", "Steak", "Burger", "Soup"}, names(res.TopRevenue))
	assert.Equal(t, []string{"Tart"}, names(res.Unsold))
	assert.Equal(t, []dto.CategoryPerformance{
		{Category: "main-course", Items: 2, Quantity: 5, Revenue: "62.00"},
		{Category: "appetizer", Items: 1, Quantity: 7, Revenue: "28.00"},
		{Category: "dessert", Items: 1, Quantity: 0, Revenue: "0.00"},
	}, res.Categories)
}
