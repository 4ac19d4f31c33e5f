package shared

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"restopos/shared/cache"
	"restopos/shared/constant"
	"restopos/shared/dto"
	"restopos/shared/timezone"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// CalculateTotalPage never reports fewer than one page.
func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the non-zero db-tagged fields of a struct into a column map
// and stamps the modification metadata.
func TransformFields(data any, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins a prefix and its parts with ':'.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

// BuildCacheKeyWithQuery derives a stable key from paging params and filter arguments.
func BuildCacheKeyWithQuery(prefix string, req dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}

	sort.Strings(names)

	values := make([]string, 0, len(names))
	for _, name := range names {
		values = append(values, fmt.Sprintf("%s=%v", name, args[name]))
	}

	return BuildCacheKey(prefix,
		strconv.Itoa(req.Page),
		strconv.Itoa(req.Limit),
		req.SortBy,
		req.SortDir,
		where,
		strings.Join(values, "&"),
	)
}

// InvalidateCaches clears every key under prefix, logging instead of failing.
func InvalidateCaches(ctx context.Context, c cache.RedisCache, prefix string) {
	if err := c.Clear(ctx, prefix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
