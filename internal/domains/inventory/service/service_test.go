package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"restopos/config"
	"restopos/infras/otel/mocks"
	pgMocks "restopos/infras/postgres/mocks"
	inventoryMocks "restopos/internal/domains/inventory/mocks"
	"restopos/internal/domains/inventory/model"
	"restopos/internal/domains/inventory/model/dto"
	"restopos/internal/domains/inventory/service"
	notificationMocks "restopos/internal/domains/notification/mocks"
	notificationModel "restopos/internal/domains/notification/model"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	"restopos/shared/timezone"
)

const itemID = "c3b1a2d4-5e6f-4a7b-8c9d-0e1f2a3b4c5d"

type fixture struct {
	repo        *inventoryMocks.MockInventory
	broadcaster *notificationMocks.MockBroadcaster
	svc         service.Inventory
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Restaurant.ExpiringWindowDays = 7

	f := fixture{
		repo:        inventoryMocks.NewMockInventory(ctrl),
		broadcaster: notificationMocks.NewMockBroadcaster(ctrl),
	}
	f.svc = service.New(f.repo, pgMocks.NewTransactor(), f.broadcaster, cfg, mocks.NewOtel())

	return f
}

func managerCtx() context.Context {
	return gModel.WithActor(context.Background(), gModel.Actor{ID: "u-mgr", Name: "Mona", Role: constant.RoleManager})
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func tomatoes(current string) model.Item {
	return model.Item{
		ID:           itemID,
		Name:         "Tomatoes",
		Category:     model.CategoryVegetables,
		CurrentStock: d(current),
		MinStock:     d("10"),
		MaxStock:     d("50"),
		Unit:         "kg",
		CostPerUnit:  d("2.00"),
		Supplier:     gModel.NewJSONB(model.Supplier{Name: "Green Farm"}),
		StockHistory: gModel.NewJSONB([]model.StockEntry{}),
	}
}

func TestInventoryService_Create(t *testing.T) {
	f := newFixture(t)

	var inserted model.Item

	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, it model.Item) error {
		inserted = it

		return nil
	})
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventInventoryUpdated, gomock.Any(), notificationModel.AudienceManager)

	res, err := f.svc.Create(managerCtx(), dto.CreateItemRequest{
		Name:         "Tomatoes",
		Category:     "Vegetables",
		CurrentStock: d("8"),
		MinStock:     d("10"),
		MaxStock:     d("50"),
		Unit:         "kg",
		CostPerUnit:  d("2.00"),
		Supplier:     dto.SupplierRequest{Name: "Green Farm"},
	})

	require.NoError(t, err)
	assert.Equal(t, string(model.StockLow), res.StockStatus)
	assert.Equal(t, "16.00", res.TotalValue)
	assert.Equal(t, model.DefaultLocation, res.Location)
	assert.Nil(t, res.DaysUntilExpiry)

	require.Len(t, inserted.StockHistory.Val, 1)
	assert.Equal(t, model.ActionRestock, inserted.StockHistory.Val[0].Action)
	assert.Equal(t, "Initial stock", inserted.StockHistory.Val[0].Reason)
	assert.Equal(t, "u-mgr", inserted.StockHistory.Val[0].PerformedBy)
}

func TestInventoryService_CreateRejectsInvertedLevels(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(managerCtx(), dto.CreateItemRequest{
		Name: "Milk", Category: "Dairy", MinStock: d("20"), MaxStock: d("5"), Unit: "liters",
		Supplier: dto.SupplierRequest{Name: "Dairy Co"},
	})

	require.Error(t, err)
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))
}

// TestInventoryService_AdjustStockScenario starts below the minimum, restocks, then uses
// stock back under the minimum and expects a manager alert.
func TestInventoryService_AdjustStockScenario(t *testing.T) {
	f := newFixture(t)

	stored := tomatoes("8")

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, _ gDto.FilterGroup) (model.Item, error) {
			return stored, nil
		}).Times(2)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			stored.CurrentStock = fields[model.FieldCurrentStock].(decimal.Decimal)
			stored.StockHistory = fields[model.FieldStockHistory].(gModel.JSONB[[]model.StockEntry])

			return nil
		}).Times(2)

	res, err := f.svc.AdjustStock(managerCtx(), itemID, dto.AdjustStockRequest{Action: "restock", Quantity: d("20"), Reason: "delivery"})
	require.NoError(t, err)
	assert.Equal(t, float64(28), res.CurrentStock)
	assert.Equal(t, string(model.StockNormal), res.StockStatus)

	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventInventoryLowStock, gomock.Any(), notificationModel.AudienceManager)

	res, err = f.svc.AdjustStock(managerCtx(), itemID, dto.AdjustStockRequest{Action: "usage", Quantity: d("25")})
	require.NoError(t, err)
	assert.Equal(t, float64(3), res.CurrentStock)
	assert.Equal(t, string(model.StockLow), res.StockStatus)
	assert.Len(t, res.StockHistory, 2)
}

func TestInventoryService_AdjustStockErrors(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.AdjustStockRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
	}{
		{
			name: "unknown item",
			req:  dto.AdjustStockRequest{Action: "usage", Quantity: d("1")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Item{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name: "unknown action",
			req:  dto.AdjustStockRequest{Action: "theft", Quantity: d("1")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tomatoes("5"), nil)
			},
			wantKind: failure.KindValidation,
		},
		{
			name: "save failure",
			req:  dto.AdjustStockRequest{Action: "usage", Quantity: d("1")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tomatoes("5"), nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.AdjustStock(managerCtx(), itemID, tt.req)

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, failure.GetKind(err))
		})
	}
}

func TestInventoryService_Update(t *testing.T) {
	t.Run("merged levels are checked together", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tomatoes("20"), nil)

		minStock := d("60")
		_, err := f.svc.Update(managerCtx(), dto.UpdateItemRequest{MinStock: &minStock}, itemID)

		require.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("writes only changed columns", func(t *testing.T) {
		f := newFixture(t)

		var saved map[string]any

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tomatoes("20"), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				saved = fields

				return nil
			})
		f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventInventoryUpdated, gomock.Any(), gomock.Any())

		maxStock := d("80")
		res, err := f.svc.Update(managerCtx(), dto.UpdateItemRequest{MaxStock: &maxStock, Location: "Walk-in Fridge"}, itemID)

		require.NoError(t, err)
		assert.Equal(t, float64(80), res.MaxStock)
		assert.Equal(t, "Walk-in Fridge", res.Location)
		assert.Contains(t, saved, model.FieldMaxStock)
		assert.Contains(t, saved, model.FieldLocation)
		assert.Contains(t, saved, constant.FieldModifiedBy)
		assert.NotContains(t, saved, model.FieldMinStock)
		assert.NotContains(t, saved, model.FieldCurrentStock)
	})

	t.Run("empty patch", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(managerCtx(), dto.UpdateItemRequest{}, itemID)

		require.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})
}

func TestInventoryService_LowStock(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ gDto.QueryParams, group gDto.FilterGroup, _ ...string) ([]model.Item, error) {
			where, _ := group.GetWhereClause()
			assert.Equal(t, "((inventory_items.current_stock <= inventory_items.min_stock))", where)

			return []model.Item{tomatoes("4")}, nil
		})

	res, err := f.svc.LowStock(managerCtx())

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, string(model.StockLow), res[0].StockStatus)
}

func TestInventoryService_Expiring(t *testing.T) {
	f := newFixture(t)

	soon := timezone.Now().Add(48 * time.Hour)
	late := timezone.Now().Add(10 * 24 * time.Hour)

	inWindow := tomatoes("20")
	inWindow.ExpiryDate = &soon

	outside := tomatoes("20")
	outside.ID = "other"
	outside.ExpiryDate = &late

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Item, error) {
			assert.Equal(t, model.FieldExpiryDate, params.SortBy)

			return []model.Item{inWindow, outside}, nil
		})

	res, err := f.svc.Expiring(managerCtx(), 0)

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, itemID, res[0].ID)
	require.NotNil(t, res[0].DaysUntilExpiry)
	assert.Equal(t, 2, *res[0].DaysUntilExpiry)
}

func TestInventoryService_Delete(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tomatoes("1"), nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventInventoryUpdated, gomock.Any(), gomock.Any())

		require.NoError(t, f.svc.Delete(managerCtx(), itemID))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Item{}, nil)

		err := f.svc.Delete(managerCtx(), itemID)

		require.Error(t, err)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}
