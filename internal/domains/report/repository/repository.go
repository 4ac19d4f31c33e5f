package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"restopos/infras/otel"
	"restopos/infras/postgres"
	orderModel "restopos/internal/domains/order/model"
	"restopos/internal/domains/report/model"
	"restopos/shared/constant"
	"restopos/shared/logger"
	"restopos/shared/timezone"
	"time"

	"github.com/lib/pq"
)

// Orders count toward revenue once the kitchen has finished them.
var revenueStatuses = pq.StringArray{string(orderModel.StatusReady), string(orderModel.StatusCompleted)}

const salesBucketsQuery = `
SELECT date_trunc(:period, o.created_at AT TIME ZONE :tz) AS period,
       o.order_type,
       COUNT(*) AS orders,
       COALESCE(SUM(o.total), 0) AS revenue
FROM orders o
WHERE o.status = ANY(:statuses) AND o.created_at >= :from AND o.created_at < :to
GROUP BY 1, 2
ORDER BY 1, 2`

const itemSalesQuery = `
WITH sold AS (
    SELECT line->>'menu_item_id' AS menu_item_id,
           MAX(line->>'name') AS name,
           SUM(CAST(line->>'quantity' AS INTEGER)) AS quantity,
           SUM(CAST(line->>'quantity' AS NUMERIC) * CAST(line->>'price' AS NUMERIC)) AS revenue,
           COUNT(DISTINCT o.id) AS order_count
    FROM orders o
    CROSS JOIN LATERAL jsonb_array_elements(o.items) AS line
    WHERE o.status = ANY(:statuses) AND o.created_at >= :from AND o.created_at < :to
    GROUP BY 1
)
SELECT COALESCE(m.id, s.menu_item_id) AS menu_item_id,
       COALESCE(m.name, s.name) AS name,
       COALESCE(m.category, '') AS category,
       COALESCE(m.price, 0) AS price,
       COALESCE(s.quantity, 0) AS quantity,
       COALESCE(s.revenue, 0) AS revenue,
       COALESCE(s.order_count, 0) AS order_count,
       m.id IS NOT NULL AS on_menu
FROM menu_items m
FULL OUTER JOIN sold s ON s.menu_item_id = m.id
ORDER BY revenue DESC, name`

const stockByCategoryQuery = `
SELECT category,
       COUNT(*) AS items,
       COALESCE(SUM(current_stock * cost_per_unit), 0) AS value,
       COUNT(*) FILTER (WHERE current_stock <= min_stock) AS low_stock,
       COUNT(*) FILTER (WHERE expiry_date >= :now AND expiry_date < :until) AS expiring
FROM inventory_items
GROUP BY category
ORDER BY category`

const staffActivityQuery = `
SELECT u.id AS user_id,
       u.name,
       u.role,
       u.status,
       COUNT(o.id) AS orders,
       COALESCE(SUM(o.total), 0) AS revenue
FROM users u
LEFT JOIN orders o ON o.cashier_id = u.id
    AND o.status = ANY(:statuses) AND o.created_at >= :from AND o.created_at < :to
GROUP BY u.id, u.name, u.role, u.status
ORDER BY revenue DESC, u.name`

// Report runs the read-only aggregations behind the management reports.
type Report interface {
	SalesBuckets(ctx context.Context, r model.Range, period string) ([]model.SalesBucket, error)
	ItemSales(ctx context.Context, r model.Range) ([]model.ItemSales, error)
	StockByCategory(ctx context.Context, now, until time.Time) ([]model.CategoryStock, error)
	StaffActivity(ctx context.Context, r model.Range) ([]model.StaffActivity, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Report {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func rangeArgs(r model.Range) map[string]any {
	return map[string]any{
		"from":     r.From,
		"to":       r.To,
		"statuses": revenueStatuses,
	}
}

func (repo *repositoryImpl) SalesBuckets(ctx context.Context, r model.Range, period string) ([]model.SalesBucket, error) {
	args := rangeArgs(r)
	args["period"] = period
	args["tz"] = timezone.GetLocation().String()

	var rows []model.SalesBucket

	return rows, repo.selectRows(ctx, "salesBuckets", salesBucketsQuery, args, &rows)
}

func (repo *repositoryImpl) ItemSales(ctx context.Context, r model.Range) ([]model.ItemSales, error) {
	var rows []model.ItemSales

	return rows, repo.selectRows(ctx, "itemSales", itemSalesQuery, rangeArgs(r), &rows)
}

func (repo *repositoryImpl) StockByCategory(ctx context.Context, now, until time.Time) ([]model.CategoryStock, error) {
	var rows []model.CategoryStock

	return rows, repo.selectRows(ctx, "stockByCategory", stockByCategoryQuery, map[string]any{"now": now, "until": until}, &rows)
}

func (repo *repositoryImpl) StaffActivity(ctx context.Context, r model.Range) ([]model.StaffActivity, error) {
	var rows []model.StaffActivity

	return rows, repo.selectRows(ctx, "staffActivity", staffActivityQuery, rangeArgs(r), &rows)
}

func (repo *repositoryImpl) selectRows(ctx context.Context, name, query string, args map[string]any, dest any) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report."+name)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to prepare %s query: %w", name, err)
	}
	defer prepare.Close()

	if err := prepare.SelectContext(ctx, dest, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to run %s query: %w", name, err)
	}

	return nil
}
