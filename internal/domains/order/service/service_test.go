package service_test

import (
	"context"
	"errors"
	"strings"
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
	menuMocks "restopos/internal/domains/menu/mocks"
	menuModel "restopos/internal/domains/menu/model"
	notificationMocks "restopos/internal/domains/notification/mocks"
	notificationModel "restopos/internal/domains/notification/model"
	orderMocks "restopos/internal/domains/order/mocks"
	"restopos/internal/domains/order/model"
	"restopos/internal/domains/order/model/dto"
	"restopos/internal/domains/order/service"
	settingsModel "restopos/internal/domains/settings/model"
	settingsMocks "restopos/internal/domains/settings/service/mocks"
	tableMocks "restopos/internal/domains/table/mocks"
	tableModel "restopos/internal/domains/table/model"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
)

const (
	burgerID = "0b6f3c1e-3f7a-4b55-9d43-3c7d6b1e0a01"
	friesID  = "0b6f3c1e-3f7a-4b55-9d43-3c7d6b1e0a02"
	orderID  = "5d2a9c84-1b3e-4d6f-8a7b-9c0d1e2f3a4b"
	tableID  = "7f1c1f2e-7c47-4d4f-9a55-0d6f6d1c0a01"
)

type fixture struct {
	repo        *orderMocks.MockOrder
	menu        *menuMocks.MockMenu
	tables      *tableMocks.MockTable
	broadcaster *notificationMocks.MockBroadcaster
	settings    *settingsMocks.MockSettings
	svc         service.Order
}

func newFixture(t *testing.T) fixture {
	return newFixtureWithSettings(t, settingsModel.Settings{TaxRate: decimal.RequireFromString("0.08"), OrderNumberPrefix: "ORD"})
}

func newFixtureWithSettings(t *testing.T, current settingsModel.Settings) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Restaurant.DefaultPrepMinutes = 30

	f := fixture{
		repo:        orderMocks.NewMockOrder(ctrl),
		menu:        menuMocks.NewMockMenu(ctrl),
		tables:      tableMocks.NewMockTable(ctrl),
		broadcaster: notificationMocks.NewMockBroadcaster(ctrl),
		settings:    settingsMocks.NewMockSettings(ctrl),
	}
	f.svc = service.New(f.repo, f.menu, f.tables, pgMocks.NewTransactor(), f.broadcaster, f.settings, cfg, mocks.NewOtel())

	f.settings.EXPECT().Current(gomock.Any()).Return(current).AnyTimes()

	return f
}

func actorCtx(id, role string) context.Context {
	return gModel.WithActor(context.Background(), gModel.Actor{ID: id, Name: id, Role: role})
}

func menuItems() []menuModel.MenuItem {
	return []menuModel.MenuItem{
		{ID: burgerID, Name: "Burger", Price: decimal.RequireFromString("7.50"), Available: true},
		{ID: friesID, Name: "Fries", Price: decimal.RequireFromString("5.00"), Available: true},
	}
}

func tableA1() tableModel.Table {
	return tableModel.Table{
		ID:                 tableID,
		TableNumber:        "A1",
		Capacity:           4,
		Status:             tableModel.StatusOccupied,
		MaintenanceHistory: gModel.NewJSONB([]tableModel.MaintenanceEntry{}),
	}
}

func stored(status model.Status) model.Order {
	created := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	return model.Order{
		ID:            orderID,
		OrderNumber:   "ORD-1-0001",
		OrderType:     model.TypeDineIn,
		TableNumber:   "A1",
		Status:        status,
		CashierID:     "u-cashier",
		Items:         gModel.NewJSONB([]model.Item{}),
		Kitchen:       gModel.NewJSONB(model.Kitchen{}),
		StatusHistory: gModel.NewJSONB([]model.HistoryEntry{}),
		Metadata:      gModel.Metadata{CreatedAt: created, ModifiedAt: created},
	}
}

// TestOrderService_CreateDineIn prices two burgers and a side of fries at an 8% tax rate.
func TestOrderService_CreateDineIn(t *testing.T) {
	f := newFixture(t)

	var (
		inserted model.Order
		linked   map[string]any
	)

	f.menu.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(menuItems(), nil)
	f.repo.EXPECT().NextVal(gomock.Any(), gomock.Any(), model.NumberSequence).Return(int64(7), nil)
	f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tableA1(), nil)
	f.tables.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			linked = fields

			return nil
		})
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, o model.Order) error {
			inserted = o

			return nil
		})
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventOrderCreated, gomock.Any(),
		notificationModel.AudienceKitchen, notificationModel.AudienceCashier)
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventTableUpdated, gomock.Any())

	res, err := f.svc.Create(actorCtx("u-cashier", constant.RoleCashier), dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{MenuItemID: burgerID, Quantity: 2},
			{MenuItemID: friesID, Quantity: 1, Notes: "extra salt"},
		},
		OrderType:   string(model.TypeDineIn),
		TableNumber: "A1",
	})

	require.NoError(t, err)
	assert.Equal(t, "20.00", res.Subtotal)
	assert.Equal(t, "1.60", res.Tax)
	assert.Equal(t, "0.00", res.Discount)
	assert.Equal(t, "21.60", res.Total)
	assert.Equal(t, string(model.StatusPending), res.Status)
	assert.Equal(t, 30, res.EstimatedTime)
	assert.True(t, strings.HasPrefix(res.OrderNumber, "ORD-"))
	assert.True(t, strings.HasSuffix(res.OrderNumber, "-0007"))

	assert.Equal(t, "u-cashier", inserted.CashierID)
	assert.True(t, inserted.Balanced())
	require.Len(t, inserted.Items.Val, 2)
	assert.Equal(t, "Burger", inserted.Items.Val[0].Name)
	assert.Equal(t, "extra salt", inserted.Items.Val[1].Notes)
	require.Len(t, inserted.StatusHistory.Val, 1)
	assert.Equal(t, model.StatusPending, inserted.StatusHistory.Val[0].Status)

	require.NotNil(t, linked)
	assert.Equal(t, &inserted.ID, linked[tableModel.FieldCurrentOrderID])
}

func TestOrderService_CreateUsesCurrentSettings(t *testing.T) {
	f := newFixtureWithSettings(t, settingsModel.Settings{TaxRate: decimal.RequireFromString("0.1"), OrderNumberPrefix: "TKT"})

	f.menu.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(menuItems(), nil)
	f.repo.EXPECT().NextVal(gomock.Any(), gomock.Any(), model.NumberSequence).Return(int64(3), nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventOrderCreated, gomock.Any(),
		notificationModel.AudienceKitchen, notificationModel.AudienceCashier)

	res, err := f.svc.Create(actorCtx("u-cashier", constant.RoleCashier), dto.CreateOrderRequest{
		Items:     []dto.OrderItemRequest{{MenuItemID: burgerID, Quantity: 2}},
		OrderType: string(model.TypeTakeout),
	})

	require.NoError(t, err)
	assert.Equal(t, "15.00", res.Subtotal)
	assert.Equal(t, "1.50", res.Tax)
	assert.Equal(t, "16.50", res.Total)
	assert.True(t, strings.HasPrefix(res.OrderNumber, "TKT-"))
}

func TestOrderService_Create(t *testing.T) {
	f := newFixture(t)

	base := dto.CreateOrderRequest{
		Items:     []dto.OrderItemRequest{{MenuItemID: burgerID, Quantity: 1}},
		OrderType: string(model.TypeTakeout),
	}

	tests := []struct {
		name      string
		mutate    func(req *dto.CreateOrderRequest)
		setupMock func()
		wantKind  failure.Kind
	}{
		{
			name:      "dine-in without table",
			mutate:    func(req *dto.CreateOrderRequest) { req.OrderType = string(model.TypeDineIn) },
			setupMock: func() {},
			wantKind:  failure.KindValidation,
		},
		{
			name:   "unknown menu item",
			mutate: func(_ *dto.CreateOrderRequest) {},
			setupMock: func() {
				f.menu.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name:   "item not available",
			mutate: func(_ *dto.CreateOrderRequest) {},
			setupMock: func() {
				items := menuItems()
				items[0].Available = false
				f.menu.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(items, nil)
			},
			wantKind: failure.KindNotAvailable,
		},
		{
			name:   "discount above gross",
			mutate: func(req *dto.CreateOrderRequest) { req.Discount = decimal.NewFromInt(100) },
			setupMock: func() {
				f.menu.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(menuItems(), nil)
			},
			wantKind: failure.KindValidation,
		},
		{
			name: "table under maintenance",
			mutate: func(req *dto.CreateOrderRequest) {
				req.OrderType = string(model.TypeDineIn)
				req.TableNumber = "A1"
			},
			setupMock: func() {
				table := tableA1()
				table.Status = tableModel.StatusMaintenance
				f.menu.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(menuItems(), nil)
				f.repo.EXPECT().NextVal(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(table, nil)
			},
			wantKind: failure.KindInvalidState,
		},
		{
			name:   "menu lookup failure",
			mutate: func(_ *dto.CreateOrderRequest) {},
			setupMock: func() {
				f.menu.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))
			},
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			tt.setupMock()

			_, err := f.svc.Create(actorCtx("u-cashier", constant.RoleCashier), req)

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, failure.GetKind(err))
		})
	}
}

func TestOrderService_CreateOnLinkedTable(t *testing.T) {
	const otherID = "5d2a9c84-1b3e-4d6f-8a7b-9c0d1e2f3a99"

	tests := []struct {
		name     string
		holder   model.Order
		wantKind failure.Kind
	}{
		{
			name: "table has another open order",
			holder: func() model.Order {
				o := stored(model.StatusPreparing)
				o.ID = otherID

				return o
			}(),
			wantKind: failure.KindInvalidState,
		},
		{
			name: "linked order already completed",
			holder: func() model.Order {
				o := stored(model.StatusCompleted)
				o.ID = otherID

				return o
			}(),
		},
		{
			name:   "linked order no longer exists",
			holder: model.Order{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			busy := tableA1()
			busy.LinkOrder(otherID)

			f.menu.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(menuItems(), nil)
			f.repo.EXPECT().NextVal(gomock.Any(), gomock.Any(), model.NumberSequence).Return(int64(8), nil)
			f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(busy, nil)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.holder, nil)

			if tt.wantKind == constant.Empty {
				f.tables.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						linked, ok := fields[tableModel.FieldCurrentOrderID].(*string)
						require.True(t, ok)
						require.NotNil(t, linked)
						assert.NotEqual(t, otherID, *linked)

						return nil
					})
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventOrderCreated, gomock.Any(),
					notificationModel.AudienceKitchen, notificationModel.AudienceCashier)
				f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventTableUpdated, gomock.Any())
			}

			_, err := f.svc.Create(actorCtx("u-cashier", constant.RoleCashier), dto.CreateOrderRequest{
				Items:       []dto.OrderItemRequest{{MenuItemID: burgerID, Quantity: 1}},
				OrderType:   string(model.TypeDineIn),
				TableNumber: "A1",
			})

			if tt.wantKind != constant.Empty {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
				assert.Equal(t, otherID, failure.GetDetails(err)["current_order_id"])

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestOrderService_UpdateStatusRoleMatrix(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		from     model.Status
		target   model.Status
		wantKind failure.Kind
	}{
		{name: "kitchen confirms", role: constant.RoleKitchen, from: model.StatusPending, target: model.StatusConfirmed},
		{name: "kitchen starts preparing", role: constant.RoleKitchen, from: model.StatusConfirmed, target: model.StatusPreparing},
		{name: "kitchen marks ready", role: constant.RoleKitchen, from: model.StatusPreparing, target: model.StatusReady},
		{name: "kitchen cannot complete", role: constant.RoleKitchen, from: model.StatusReady, target: model.StatusCompleted, wantKind: failure.KindForbidden},
		{name: "kitchen cannot cancel", role: constant.RoleKitchen, from: model.StatusPending, target: model.StatusCancelled, wantKind: failure.KindForbidden},
		{name: "cashier completes", role: constant.RoleCashier, from: model.StatusReady, target: model.StatusCompleted},
		{name: "cashier cannot mark ready", role: constant.RoleCashier, from: model.StatusPreparing, target: model.StatusReady, wantKind: failure.KindForbidden},
		{name: "manager still follows the graph", role: constant.RoleManager, from: model.StatusPending, target: model.StatusReady, wantKind: failure.KindInvalidState},
		{name: "completed is terminal", role: constant.RoleAdmin, from: model.StatusCompleted, target: model.StatusCancelled, wantKind: failure.KindInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(tt.from), nil)

			if tt.wantKind == constant.Empty {
				if tt.target == model.StatusCompleted || tt.target == model.StatusCancelled {
					table := tableA1()
					table.LinkOrder(orderID)
					f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(table, nil)
					f.tables.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
					f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventTableUpdated, gomock.Any())
				}

				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventOrderStatusUpdated, gomock.Any(),
					notificationModel.AudienceKitchen, notificationModel.AudienceCashier)
			}

			res, err := f.svc.UpdateStatus(actorCtx("u-1", tt.role), orderID, dto.UpdateOrderStatusRequest{Status: string(tt.target)})

			if tt.wantKind != constant.Empty {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(tt.target), res.Status)
		})
	}
}

func TestOrderService_UpdateStatusStampsKitchen(t *testing.T) {
	f := newFixture(t)

	var saved map[string]any

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(model.StatusConfirmed), nil)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			saved = fields

			return nil
		})
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventOrderStatusUpdated, gomock.Any(), gomock.Any(), gomock.Any())

	res, err := f.svc.UpdateStatus(actorCtx("u-chef", constant.RoleKitchen), orderID, dto.UpdateOrderStatusRequest{
		Status: string(model.StatusPreparing),
		Notes:  "on the grill",
	})

	require.NoError(t, err)
	require.NotNil(t, res.Kitchen.AssignedTo)
	assert.Equal(t, "u-chef", *res.Kitchen.AssignedTo)
	assert.NotEmpty(t, res.Kitchen.StartedAt)
	require.Len(t, res.StatusHistory, 1)
	assert.Equal(t, "on the grill", res.StatusHistory[0].Notes)

	assert.Equal(t, model.StatusPreparing, saved[model.FieldStatus])
	assert.Equal(t, "u-chef", saved[constant.FieldModifiedBy])
}

func TestOrderService_UpdateStatusUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStatus(actorCtx("u-1", constant.RoleAdmin), orderID, dto.UpdateOrderStatusRequest{Status: "lost"})

	require.Error(t, err)
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))
}

func TestOrderService_Update(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(actorCtx("u-cashier", constant.RoleCashier), dto.UpdateOrderRequest{}, orderID)

		require.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("other cashier's order", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(model.StatusPending), nil)

		_, err := f.svc.Update(actorCtx("u-other", constant.RoleCashier), dto.UpdateOrderRequest{Notes: "no onions"}, orderID)

		require.Error(t, err)
		assert.Equal(t, failure.KindForbidden, failure.GetKind(err))
	})

	t.Run("preparing order is locked", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(model.StatusPreparing), nil)

		_, err := f.svc.Update(actorCtx("u-cashier", constant.RoleCashier), dto.UpdateOrderRequest{Notes: "no onions"}, orderID)

		require.Error(t, err)
		assert.Equal(t, failure.KindInvalidState, failure.GetKind(err))
	})

	t.Run("moves to another table", func(t *testing.T) {
		f := newFixture(t)

		oldTable := tableA1()
		oldTable.LinkOrder(orderID)

		newTable := tableA1()
		newTable.ID = "7f1c1f2e-7c47-4d4f-9a55-0d6f6d1c0a02"
		newTable.TableNumber = "B2"

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(model.StatusConfirmed), nil)
		f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(newTable, nil)
		f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(oldTable, nil)
		f.tables.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventOrderUpdated, gomock.Any(), gomock.Any(), gomock.Any())
		f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventTableUpdated, gomock.Any()).Times(2)

		res, err := f.svc.Update(actorCtx("u-cashier", constant.RoleCashier), dto.UpdateOrderRequest{TableNumber: "B2"}, orderID)

		require.NoError(t, err)
		assert.Equal(t, "B2", res.TableNumber)
	})
}

func TestOrderService_Get(t *testing.T) {
	tests := []struct {
		name     string
		actor    context.Context
		found    model.Order
		wantKind failure.Kind
	}{
		{name: "owner", actor: actorCtx("u-cashier", constant.RoleCashier), found: stored(model.StatusPending)},
		{name: "kitchen", actor: actorCtx("u-chef", constant.RoleKitchen), found: stored(model.StatusPending)},
		{name: "foreign cashier", actor: actorCtx("u-other", constant.RoleCashier), found: stored(model.StatusPending), wantKind: failure.KindForbidden},
		{name: "not found", actor: actorCtx("u-1", constant.RoleAdmin), found: model.Order{}, wantKind: failure.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.found, nil)

			res, err := f.svc.Get(tt.actor, orderID)

			if tt.wantKind != constant.Empty {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, orderID, res.ID)
		})
	}
}

func TestOrderService_GetAllScopesByRole(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		wantWhere string
	}{
		{name: "cashier sees own", role: constant.RoleCashier, wantWhere: "orders.cashier_id = :cashier_id"},
		{name: "kitchen sees active", role: constant.RoleKitchen, wantWhere: "orders.status IN ("},
		{name: "manager sees all", role: constant.RoleManager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			var where string

			f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
			f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, _ gDto.QueryParams, group gDto.FilterGroup, _ ...string) ([]model.Order, error) {
					where, _ = group.GetWhereClause()

					return []model.Order{stored(model.StatusPending)}, nil
				})

			res, err := f.svc.GetAll(actorCtx("u-cashier", tt.role), gDto.QueryParams{Page: 1, Limit: 10}, dto.OrderFilter{})

			require.NoError(t, err)
			assert.Equal(t, 1, res.TotalData)

			if tt.wantWhere == constant.Empty {
				assert.Empty(t, where)

				return
			}

			assert.Contains(t, where, tt.wantWhere)
		})
	}
}

func TestOrderService_Delete(t *testing.T) {
	t.Run("pending order frees table", func(t *testing.T) {
		f := newFixture(t)

		table := tableA1()
		table.LinkOrder(orderID)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(model.StatusPending), nil)
		f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(table, nil)
		f.tables.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventOrderDeleted, gomock.Any(), gomock.Any(), gomock.Any())
		f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventTableUpdated, gomock.Any())

		require.NoError(t, f.svc.Delete(actorCtx("u-1", constant.RoleManager), orderID))
	})

	t.Run("ready order cannot be deleted", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(model.StatusReady), nil)

		err := f.svc.Delete(actorCtx("u-1", constant.RoleManager), orderID)

		require.Error(t, err)
		assert.Equal(t, failure.KindInvalidState, failure.GetKind(err))
	})
}

func TestOrderService_KitchenDisplay(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params gDto.QueryParams, group gDto.FilterGroup, _ ...string) ([]model.Order, error) {
			assert.Equal(t, constant.FieldCreatedAt, params.SortBy)
			assert.Equal(t, gDto.SortDirAsc, params.SortDir)

			_, args := group.GetWhereClause()
			assert.Len(t, args, len(model.KitchenStatuses))

			return []model.Order{stored(model.StatusPending), stored(model.StatusPreparing)}, nil
		})

	res, err := f.svc.KitchenDisplay(actorCtx("u-chef", constant.RoleKitchen))

	require.NoError(t, err)
	assert.Len(t, res, 2)
}
