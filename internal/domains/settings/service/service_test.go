package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"restopos/config"
	"restopos/infras/otel/mocks"
	notificationMocks "restopos/internal/domains/notification/mocks"
	notificationModel "restopos/internal/domains/notification/model"
	settingsMocks "restopos/internal/domains/settings/mocks"
	"restopos/internal/domains/settings/model"
	"restopos/internal/domains/settings/model/dto"
	"restopos/internal/domains/settings/service"
	cacheMocks "restopos/shared/cache/mocks"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
)

var errCacheMiss = errors.New("redis: nil")

type fixture struct {
	repo        *settingsMocks.MockSettings
	cache       *cacheMocks.MockRedisCache
	broadcaster *notificationMocks.MockBroadcaster
	svc         service.Settings
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 300
	cfg.Restaurant.Name = "Warung Rina"
	cfg.Restaurant.Currency = "USD"
	cfg.Restaurant.TaxRate = 0.08
	cfg.Restaurant.OrderNumberPrefix = "ORD"
	cfg.Restaurant.ReservationNumberPrefix = "RES"

	f := fixture{
		repo:        settingsMocks.NewMockSettings(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		broadcaster: notificationMocks.NewMockBroadcaster(ctrl),
	}
	f.svc = service.New(f.repo, f.cache, f.broadcaster, cfg, mocks.NewOtel())

	// cache writes happen in the background
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func adminCtx() context.Context {
	return gModel.WithActor(context.Background(), gModel.Actor{ID: "u-1", Name: "Ada", Role: constant.RoleAdmin})
}

func stored() model.Settings {
	return model.New(model.Defaults{
		RestaurantName:          "Warung Rina",
		Currency:                "USD",
		TaxRate:                 0.1,
		OrderNumberPrefix:       "TKT",
		ReservationNumberPrefix: "BK",
	}, "u-1", time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC))
}

func TestSettingsService_Current(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(f fixture)
		wantPrefix string
		wantTax    string
	}{
		{
			name: "cache hit",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "settings:current", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
					*value.(*model.Settings) = stored()

					return nil
				})
			},
			wantPrefix: "TKT",
			wantTax:    "0.1",
		},
		{
			name: "stored row",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(), nil)
			},
			wantPrefix: "TKT",
			wantTax:    "0.1",
		},
		{
			name: "first use seeds the row from configuration",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Settings{}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, settings model.Settings) error {
					assert.Equal(t, model.SingletonID, settings.ID)
					assert.Equal(t, constant.ContextSystem, settings.CreatedBy)
					assert.Len(t, settings.BusinessHours.Val, 7)

					return nil
				})
			},
			wantPrefix: "ORD",
			wantTax:    "0.08",
		},
		{
			name: "another instance seeded first",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				gomock.InOrder(
					f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Settings{}, nil),
					f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})),
					f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(), nil),
				)
			},
			wantPrefix: "TKT",
			wantTax:    "0.1",
		},
		{
			name: "database down falls back to configuration",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Settings{}, errors.New("connection refused"))
			},
			wantPrefix: "ORD",
			wantTax:    "0.08",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			settings := f.svc.Current(context.Background())

			assert.Equal(t, tt.wantPrefix, settings.OrderNumberPrefix)
			assert.Equal(t, tt.wantTax, settings.TaxRate.String())
		})
	}
}

func TestSettingsService_Update(t *testing.T) {
	rate := decimal.RequireFromString("0.11")

	tests := []struct {
		name      string
		req       dto.UpdateSettingsRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
		check     func(t *testing.T, res dto.SettingsResponse)
	}{
		{
			name: "tax rate and sunday hours",
			req: dto.UpdateSettingsRequest{
				TaxRate:       &rate,
				BusinessHours: map[string]dto.DayHoursRequest{"sunday": {Closed: true}},
			},
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, "0.11", fields[model.FieldTaxRate].(decimal.Decimal).String())
					assert.Equal(t, "u-1", fields[constant.FieldModifiedBy])
					assert.NotContains(t, fields, model.FieldOrderNumberPrefix)

					hours := fields[model.FieldBusinessHours].(gModel.JSONB[model.BusinessHours]).Val
					assert.True(t, hours["sunday"].Closed)
					assert.Equal(t, "09:00", hours["monday"].Open)

					return nil
				})
				f.cache.EXPECT().Delete(gomock.Any(), "settings:current").Return(nil)
				f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventSettingsUpdated, gomock.Any())
			},
			check: func(t *testing.T, res dto.SettingsResponse) {
				assert.InDelta(t, 0.11, res.TaxRate, 1e-9)
				assert.Equal(t, "TKT", res.OrderNumberPrefix)
				assert.True(t, res.BusinessHours["sunday"].Closed)
			},
		},
		{
			name:     "empty patch",
			req:      dto.UpdateSettingsRequest{},
			wantKind: failure.KindValidation,
		},
		{
			name:     "open day without closing time",
			req:      dto.UpdateSettingsRequest{BusinessHours: map[string]dto.DayHoursRequest{"monday": {Open: "10:00"}}},
			wantKind: failure.KindValidation,
		},
		{
			name: "write fails",
			req:  dto.UpdateSettingsRequest{Currency: "EUR"},
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			res, err := f.svc.Update(adminCtx(), tt.req)

			if tt.wantKind != constant.Empty {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestSettingsService_Reset(t *testing.T) {
	f := newFixture(t)

	gomock.InOrder(
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil),
		f.cache.EXPECT().Delete(gomock.Any(), "settings:current").Return(nil),
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, settings model.Settings) error {
			assert.Equal(t, "u-1", settings.CreatedBy)
			assert.Equal(t, "RES", settings.ReservationNumberPrefix)

			return nil
		}),
	)
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventSettingsUpdated, gomock.Any())

	res, err := f.svc.Reset(adminCtx())

	require.NoError(t, err)
	assert.Equal(t, "Warung Rina", res.RestaurantName)
	assert.InDelta(t, 0.08, res.TaxRate, 1e-9)
}
