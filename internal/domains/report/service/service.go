package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"cmp"
	"context"
	"fmt"
	"restopos/config"
	"restopos/infras/otel"
	"restopos/internal/domains/report/model"
	"restopos/internal/domains/report/model/dto"
	"restopos/internal/domains/report/repository"
	"restopos/shared/constant"
	"restopos/shared/timezone"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const statusActive = "active"

type Report interface {
	Sales(ctx context.Context, req dto.RangeRequest) (dto.SalesReport, error)
	Inventory(ctx context.Context) (dto.InventoryReport, error)
	Staff(ctx context.Context, req dto.RangeRequest) (dto.StaffReport, error)
	Menu(ctx context.Context, req dto.RangeRequest) (dto.MenuReport, error)
}

type serviceImpl struct {
	repo repository.Report
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Report, cfg *config.Config, otel otel.Otel) Report {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

func (s *serviceImpl) Sales(ctx context.Context, req dto.RangeRequest) (res dto.SalesReport, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Sales")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	r, err := req.ToRange(timezone.Today())
	if err != nil {
		return res, err
	}

	period := req.Period()

	buckets, err := s.repo.SalesBuckets(ctx, r, period)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate sales")

		return res, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	items, err := s.repo.ItemSales(ctx, r)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate item sales")

		return res, fmt.Errorf("failed to aggregate item sales: %w", err)
	}

	res.Range = dto.NewRangeResponse(r)
	res.GroupBy = period
	res.ByPeriod, res.ByOrderType, res.Summary = summarizeSales(buckets, period)
	res.TopItems = topItems(items, byRevenue)

	return res, nil
}

// summarizeSales folds the per period, per order type rows. Bucket timestamps carry the
// restaurant's wall clock already, so they are labelled without conversion.
func summarizeSales(buckets []model.SalesBucket, period string) ([]dto.PeriodSales, []dto.OrderTypeSales, dto.SalesSummary) {
	type tally struct {
		orders  int
		revenue decimal.Decimal
	}

	var periodKeys, typeKeys []string

	periods := map[string]*tally{}
	types := map[string]*tally{}
	total := tally{}

	for _, b := range buckets {
		key := model.PeriodKey(period, b.Period)
		if _, ok := periods[key]; !ok {
			periods[key] = &tally{}
			periodKeys = append(periodKeys, key)
		}

		if _, ok := types[b.OrderType]; !ok {
			types[b.OrderType] = &tally{}
			typeKeys = append(typeKeys, b.OrderType)
		}

		for _, t := range []*tally{periods[key], types[b.OrderType], &total} {
			t.orders += b.Orders
			t.revenue = t.revenue.Add(b.Revenue)
		}
	}

	slices.Sort(periodKeys)

	byPeriod := make([]dto.PeriodSales, 0, len(periodKeys))
	for _, key := range periodKeys {
		byPeriod = append(byPeriod, dto.PeriodSales{Period: key, Orders: periods[key].orders, Revenue: periods[key].revenue.StringFixed(2)})
	}

	slices.SortFunc(typeKeys, func(a, b string) int {
		if c := types[b].revenue.Cmp(types[a].revenue); c != 0 {
			return c
		}

		return cmp.Compare(a, b)
	})

	byType := make([]dto.OrderTypeSales, 0, len(typeKeys))
	for _, key := range typeKeys {
		byType = append(byType, dto.OrderTypeSales{OrderType: key, Orders: types[key].orders, Revenue: types[key].revenue.StringFixed(2)})
	}

	average := decimal.Zero
	if total.orders > 0 {
		average = total.revenue.Div(decimal.NewFromInt(int64(total.orders)))
	}

	summary := dto.SalesSummary{
		TotalOrders:       total.orders,
		TotalRevenue:      total.revenue.StringFixed(2),
		AverageOrderValue: average.StringFixed(2),
	}

	return byPeriod, byType, summary
}

func byRevenue(a, b model.ItemSales) int {
	if c := b.Revenue.Cmp(a.Revenue); c != 0 {
		return c
	}

	return cmp.Compare(a.Name, b.Name)
}

func byQuantity(a, b model.ItemSales) int {
	if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
		return c
	}

	return cmp.Compare(a.Name, b.Name)
}

// topItems ranks the items that sold at least once.
func topItems(items []model.ItemSales, order func(a, b model.ItemSales) int) []dto.ItemStat {
	sold := make([]model.ItemSales, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			sold = append(sold, item)
		}
	}

	slices.SortFunc(sold, order)

	if len(sold) > model.TopItemsLimit {
		sold = sold[:model.TopItemsLimit]
	}

	res := make([]dto.ItemStat, 0, len(sold))
	for _, item := range sold {
		res = append(res, dto.NewItemStat(item))
	}

	return res
}

// Inventory reports stock value and alerts per category as of now.
func (s *serviceImpl) Inventory(ctx context.Context) (res dto.InventoryReport, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Inventory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := timezone.Now()
	days := s.cfg.Restaurant.ExpiringWindowDays

	rows, err := s.repo.StockByCategory(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate inventory")

		return res, fmt.Errorf("failed to aggregate inventory: %w", err)
	}

	total := decimal.Zero
	res.ExpiringWithinDays = days
	res.ByCategory = make([]dto.CategoryInventory, 0, len(rows))

	for _, row := range rows {
		res.Summary.TotalItems += row.Items
		res.Summary.LowStock += row.LowStock
		res.Summary.Expiring += row.Expiring
		total = total.Add(row.Value)

		res.ByCategory = append(res.ByCategory, dto.CategoryInventory{
			Category: row.Category,
			Items:    row.Items,
			Value:    row.Value.StringFixed(2),
			LowStock: row.LowStock,
			Expiring: row.Expiring,
		})
	}

	res.Summary.TotalValue = total.StringFixed(2)

	return res, nil
}

func (s *serviceImpl) Staff(ctx context.Context, req dto.RangeRequest) (res dto.StaffReport, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Staff")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	r, err := req.ToRange(timezone.Today())
	if err != nil {
		return res, err
	}

	rows, err := s.repo.StaffActivity(ctx, r)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate staff activity")

		return res, fmt.Errorf("failed to aggregate staff activity: %w", err)
	}

	res.Range = dto.NewRangeResponse(r)
	res.TotalStaff = len(rows)

	roles := map[string]*dto.RoleCount{}
	var performers []model.StaffActivity

	for _, row := range rows {
		count, ok := roles[row.Role]
		if !ok {
			count = &dto.RoleCount{Role: row.Role}
			roles[row.Role] = count
		}

		count.Total++

		if row.Status == statusActive {
			res.ActiveStaff++
			count.Active++
		}

		if row.Orders > 0 {
			performers = append(performers, row)
		}
	}

	res.ByRole = make([]dto.RoleCount, 0, len(roles))
	for _, count := range roles {
		res.ByRole = append(res.ByRole, *count)
	}

	slices.SortFunc(res.ByRole, func(a, b dto.RoleCount) int { return cmp.Compare(a.Role, b.Role) })

	slices.SortFunc(performers, func(a, b model.StaffActivity) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	if len(performers) > model.TopStaffLimit {
		performers = performers[:model.TopStaffLimit]
	}

	res.TopPerformers = make([]dto.StaffPerformance, 0, len(performers))
	for _, p := range performers {
		res.TopPerformers = append(res.TopPerformers, dto.StaffPerformance{
			UserID:  p.UserID,
			Name:    p.Name,
			Role:    p.Role,
			Orders:  p.Orders,
			Revenue: p.Revenue.StringFixed(2),
		})
	}

	return res, nil
}

// Menu ranks menu items by what they sold. Items deleted from the menu still rank but are
// left out of the category totals and the unsold list.
func (s *serviceImpl) Menu(ctx context.Context, req dto.RangeRequest) (res dto.MenuReport, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Menu")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	r, err := req.ToRange(timezone.Today())
	if err != nil {
		return res, err
	}

	items, err := s.repo.ItemSales(ctx, r)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate item sales")

		return res, fmt.Errorf("failed to aggregate item sales: %w", err)
	}

	res.Range = dto.NewRangeResponse(r)
	res.TopSelling = topItems(items, byQuantity)
	res.TopRevenue = topItems(items, byRevenue)
	res.Unsold = []dto.ItemStat{}

	type tally struct {
		items    int
		quantity int
		revenue  decimal.Decimal
	}

	var names []string
	categories := map[string]*tally{}

	for _, item := range items {
		if !item.OnMenu {
			continue
		}

		if item.Quantity == 0 {
			res.Unsold = append(res.Unsold, dto.NewItemStat(item))
		}

		t, ok := categories[item.Category]
		if !ok {
			t = &tally{}
			categories[item.Category] = t
			names = append(names, item.Category)
		}

		t.items++
		t.quantity += item.Quantity
		t.revenue = t.revenue.Add(item.Revenue)
	}

	slices.SortFunc(res.Unsold, func(a, b dto.ItemStat) int { return cmp.Compare(a.Name, b.Name) })

	slices.SortFunc(names, func(a, b string) int {
		if c := categories[b].revenue.Cmp(categories[a].revenue); c != 0 {
			return c
		}

		return cmp.Compare(a, b)
	})

	res.Categories = make([]dto.CategoryPerformance, 0, len(names))
	for _, name := range names {
		res.Categories = append(res.Categories, dto.CategoryPerformance{
			Category: name,
			Items:    categories[name].items,
			Quantity: categories[name].quantity,
			Revenue:  categories[name].revenue.StringFixed(2),
		})
	}

	return res, nil
}
