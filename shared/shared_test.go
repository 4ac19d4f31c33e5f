package shared_test

import (
	"context"
	"errors"
	"restopos/shared"
	cacheMocks "restopos/shared/cache/mocks"
	"restopos/shared/constant"
	"restopos/shared/dto"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{name: "no rows still one page", total: 0, limit: 10, want: 1},
		{name: "exact fit", total: 20, limit: 10, want: 2},
		{name: "partial last page", total: 21, limit: 10, want: 3},
		{name: "fewer rows than limit", total: 3, limit: 50, want: 1},
		{name: "zero limit", total: 12, limit: 0, want: 1},
		{name: "negative limit", total: 12, limit: -5, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

type tablePatch struct {
	TableNumber string  `db:"table_number"`
	Capacity    int     `db:"capacity"`
	Notes       *string `db:"notes"`
	Internal    string
	Skipped     string `db:"-"`
}

type menuPatch struct {
	Price     decimal.Decimal `db:"price"`
	Available *bool           `db:"available"`
}

func TestTransformFields(t *testing.T) {
	notes := "by the window"

	before := time.Now().Add(-time.Second)
	fields := shared.TransformFields(tablePatch{TableNumber: "B2", Notes: &notes, Internal: "x", Skipped: "y"}, "u-9")

	assert.Equal(t, "B2", fields["table_number"])
	assert.Equal(t, &notes, fields["notes"])
	assert.NotContains(t, fields, "capacity")
	assert.NotContains(t, fields, "Internal")
	assert.NotContains(t, fields, "-")
	assert.Equal(t, "u-9", fields[constant.FieldModifiedBy])

	modifiedAt, ok := fields[constant.FieldModifiedAt].(time.Time)
	require.True(t, ok)
	assert.True(t, modifiedAt.After(before))
}

func TestTransformFields_FalseAndZeroPointers(t *testing.T) {
	unavailable := false

	fields := shared.TransformFields(menuPatch{Available: &unavailable}, "u-1")

	// a pointer to false is an explicit change; a zero decimal is not
	assert.Equal(t, &unavailable, fields["available"])
	assert.NotContains(t, fields, "price")

	fields = shared.TransformFields(menuPatch{Price: decimal.RequireFromString("12.50")}, "u-1")
	assert.True(t, decimal.RequireFromString("12.50").Equal(fields["price"].(decimal.Decimal)))
	assert.NotContains(t, fields, "available")
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID("t-1", "id", "tables")
	where, args := filter.GetWhereClause()

	assert.Equal(t, "(tables.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "t-1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "menu:get:m-1", shared.BuildCacheKey("menu:get", "m-1"))
	assert.Equal(t, "limiter", shared.BuildCacheKey("limiter"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 20, SortBy: "name", SortDir: dto.SortDirAsc}

	first := dto.And()
	first.AddIf("menu_items", "category", "dessert").AddIf("menu_items", "name", "Tiramisu")

	second := dto.And()
	second.AddIf("menu_items", "category", "dessert").AddIf("menu_items", "name", "Tiramisu")

	other := dto.And()
	other.AddIf("menu_items", "category", "main")

	key := shared.BuildCacheKeyWithQuery("menu:gets", params, first)

	assert.Equal(t, key, shared.BuildCacheKeyWithQuery("menu:gets", params, second))
	assert.NotEqual(t, key, shared.BuildCacheKeyWithQuery("menu:gets", params, other))
	assert.NotEqual(t, key, shared.BuildCacheKeyWithQuery("menu:gets", dto.QueryParams{Page: 2, Limit: 20, SortBy: "name", SortDir: dto.SortDirAsc}, first))
	assert.Contains(t, key, "menu:gets:1:20:name:ASC:")
}

func TestInvalidateCaches(t *testing.T) {
	redisCache := cacheMocks.NewMockRedisCache(gomock.NewController(t))

	redisCache.EXPECT().Clear(gomock.Any(), "menu:gets").Return(nil)
	shared.InvalidateCaches(context.Background(), redisCache, "menu:gets")

	// a failing clear is logged, never surfaced
	redisCache.EXPECT().Clear(gomock.Any(), "user:gets").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), redisCache, "user:gets")
}
