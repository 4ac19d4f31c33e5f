package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"restopos/infras/otel/mocks"
	pgMocks "restopos/infras/postgres/mocks"
	notificationMocks "restopos/internal/domains/notification/mocks"
	notificationModel "restopos/internal/domains/notification/model"
	reservationMocks "restopos/internal/domains/reservation/mocks"
	"restopos/internal/domains/reservation/model"
	"restopos/internal/domains/reservation/model/dto"
	"restopos/internal/domains/reservation/service"
	settingsModel "restopos/internal/domains/settings/model"
	settingsMocks "restopos/internal/domains/settings/service/mocks"
	tableMocks "restopos/internal/domains/table/mocks"
	tableModel "restopos/internal/domains/table/model"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	"restopos/shared/timezone"
)

const tableID = "7f1c1f2e-7c47-4d4f-9a55-0d6f6d1c0a01"

type fixture struct {
	repo        *reservationMocks.MockReservation
	tables      *tableMocks.MockTable
	broadcaster *notificationMocks.MockBroadcaster
	svc         service.Reservation
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:        reservationMocks.NewMockReservation(ctrl),
		tables:      tableMocks.NewMockTable(ctrl),
		broadcaster: notificationMocks.NewMockBroadcaster(ctrl),
	}

	settings := settingsMocks.NewMockSettings(ctrl)
	settings.EXPECT().Current(gomock.Any()).Return(settingsModel.Settings{ReservationNumberPrefix: "RES"}).AnyTimes()

	f.svc = service.New(f.repo, f.tables, pgMocks.NewTransactor(), f.broadcaster, settings, mocks.NewOtel())

	return f
}

func cashierCtx() context.Context {
	return gModel.WithActor(context.Background(), gModel.Actor{ID: "u-9", Name: "Cass", Role: constant.RoleCashier})
}

func tableA1(status tableModel.Status) tableModel.Table {
	return tableModel.Table{
		ID:                 tableID,
		TableNumber:        "A1",
		Capacity:           4,
		Status:             status,
		MaintenanceHistory: gModel.NewJSONB([]tableModel.MaintenanceEntry{}),
	}
}

func stored(id string, status model.Status) model.Reservation {
	date, _ := model.ParseDate("2025-06-01")

	return model.Reservation{
		ID:                id,
		ReservationNumber: "RES-1-" + id,
		CustomerName:      "Alice",
		CustomerPhone:     "555-0101",
		PartySize:         3,
		Date:              date,
		Time:              "18:00",
		Duration:          120,
		TableID:           tableID,
		Status:            status,
	}
}

// TestReservationService_CreateScenario books Alice, rejects an overlapping Bob and
// accepts Carol starting exactly when Alice ends.
func TestReservationService_CreateScenario(t *testing.T) {
	f := newFixture(t)

	var book []model.Reservation

	f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tableA1(tableModel.StatusAvailable), nil).Times(3)
	f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Reservation, error) {
			return book, nil
		}).Times(3)
	f.repo.EXPECT().NextVal(gomock.Any(), gomock.Any(), model.NumberSequence).Return(int64(1), nil)
	f.repo.EXPECT().NextVal(gomock.Any(), gomock.Any(), model.NumberSequence).Return(int64(2), nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, r model.Reservation) error {
			book = append(book, r)

			return nil
		}).Times(2)
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventReservationCreated, gomock.Any()).Times(2)

	alice, err := f.svc.Create(cashierCtx(), dto.CreateReservationRequest{
		CustomerName: "Alice", CustomerPhone: "555-0101", PartySize: 3,
		Date: "2025-06-01", Time: "18:00", Duration: 120, TableID: tableID,
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusConfirmed), alice.Status)
	assert.Equal(t, "20:00", alice.EndTime)
	assert.True(t, strings.HasPrefix(alice.ReservationNumber, "RES-"))
	assert.True(t, strings.HasSuffix(alice.ReservationNumber, "-0001"))

	_, err = f.svc.Create(cashierCtx(), dto.CreateReservationRequest{
		CustomerName: "Bob", CustomerPhone: "555-0102", PartySize: 2,
		Date: "2025-06-01", Time: "18:30", Duration: 60, TableID: tableID,
	})
	require.Error(t, err)
	assert.Equal(t, failure.KindConflict, failure.GetKind(err))

	details := failure.GetDetails(err)
	assert.Equal(t, "A1", details["table_number"])
	assert.Equal(t, "2025-06-01", details["date"])
	assert.Equal(t, "19:30", details["end_time"])
	assert.Equal(t, []string{alice.ReservationNumber}, details["conflicts"])

	carol, err := f.svc.Create(cashierCtx(), dto.CreateReservationRequest{
		CustomerName: "Carol", CustomerPhone: "555-0103", PartySize: 2,
		Date: "2025-06-01", Time: "20:00", Duration: 60, TableID: tableID,
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusConfirmed), carol.Status)
	assert.Len(t, book, 2)
}

func TestReservationService_Create(t *testing.T) {
	f := newFixture(t)

	base := dto.CreateReservationRequest{
		CustomerName: "Alice", CustomerPhone: "555-0101", PartySize: 3,
		Date: "2025-06-01", Time: "18:00", Duration: 120, TableID: tableID,
	}

	tests := []struct {
		name      string
		mutate    func(req *dto.CreateReservationRequest)
		setupMock func()
		wantKind  failure.Kind
	}{
		{
			name:   "party exceeds capacity",
			mutate: func(req *dto.CreateReservationRequest) { req.PartySize = 6 },
			setupMock: func() {
				f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tableA1(tableModel.StatusAvailable), nil)
			},
			wantKind: failure.KindCapacity,
		},
		{
			name:   "unknown table",
			mutate: func(_ *dto.CreateReservationRequest) {},
			setupMock: func() {
				f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tableModel.Table{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name:      "crosses midnight",
			mutate:    func(req *dto.CreateReservationRequest) { req.Time = "23:30"; req.Duration = 60 },
			setupMock: func() {},
			wantKind:  failure.KindValidation,
		},
		{
			name:   "sequence failure",
			mutate: func(_ *dto.CreateReservationRequest) {},
			setupMock: func() {
				f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tableA1(tableModel.StatusAvailable), nil)
				f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				f.repo.EXPECT().NextVal(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database error"))
			},
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			tt.setupMock()

			_, err := f.svc.Create(cashierCtx(), req)

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, failure.GetKind(err))
		})
	}
}

func TestReservationService_CreateTodayReservesTable(t *testing.T) {
	f := newFixture(t)

	f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tableA1(tableModel.StatusAvailable), nil)
	f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.repo.EXPECT().NextVal(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(7), nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.tables.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, tableModel.StatusReserved, fields[tableModel.FieldStatus])
			assert.NotNil(t, fields[tableModel.FieldCurrentReservationID])

			return nil
		})
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventReservationCreated, gomock.Any())
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventTableUpdated, gomock.Any())

	_, err := f.svc.Create(cashierCtx(), dto.CreateReservationRequest{
		CustomerName: "Alice", CustomerPhone: "555-0101", PartySize: 2,
		Date: timezone.Now().Format(constant.DateOnlyFormat), Time: "00:00", Duration: 60, TableID: tableID,
	})
	require.NoError(t, err)
}

func TestReservationService_Seat(t *testing.T) {
	f := newFixture(t)

	reserved := tableA1(tableModel.StatusAvailable)
	require.NoError(t, reserved.Reserve("r-1"))

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored("r-1", model.StatusConfirmed), nil)
	f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(reserved, nil)
	f.tables.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, tableModel.StatusOccupied, fields[tableModel.FieldStatus])

			occupant, ok := fields[tableModel.FieldOccupiedBy].(gModel.JSONB[*tableModel.Occupant])
			require.True(t, ok)
			assert.Equal(t, "Alice", occupant.Val.CustomerName)
			assert.Equal(t, 3, occupant.Val.PartySize)
			assert.Equal(t, "555-0101", occupant.Val.ContactInfo)

			seatedFor, ok := fields[tableModel.FieldCurrentReservationID].(*string)
			require.True(t, ok)
			require.NotNil(t, seatedFor)
			assert.Equal(t, "r-1", *seatedFor)

			return nil
		})
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusSeated, fields[model.FieldStatus])
			assert.NotNil(t, fields[model.FieldSeatedAt])

			return nil
		})
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventReservationUpdated, gomock.Any())
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventTableOccupied, gomock.Any())

	res, err := f.svc.Seat(cashierCtx(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusSeated), res.Status)
}

func TestReservationService_SeatRejectsForeignHold(t *testing.T) {
	f := newFixture(t)

	held := tableA1(tableModel.StatusAvailable)
	require.NoError(t, held.Reserve("r-other"))

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored("r-1", model.StatusConfirmed), nil)
	f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(held, nil)

	_, err := f.svc.Seat(cashierCtx(), "r-1")
	assert.True(t, failure.IsKind(err, failure.KindInvalidState))

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored("r-2", model.StatusSeated), nil)

	_, err = f.svc.Seat(cashierCtx(), "r-2")
	assert.True(t, failure.IsKind(err, failure.KindInvalidState))
}

func TestReservationService_Complete(t *testing.T) {
	tests := []struct {
		name        string
		reservation model.Reservation
		table       func(t *testing.T) tableModel.Table
		wantFreed   bool
	}{
		{
			name:        "seated party still at the table",
			reservation: stored("r-1", model.StatusSeated),
			table: func(t *testing.T) tableModel.Table {
				table := tableA1(tableModel.StatusAvailable)
				require.NoError(t, table.SeatReservation("r-1", tableModel.Occupant{CustomerName: "Alice", PartySize: 3}, timezone.Now()))

				return table
			},
			wantFreed: true,
		},
		{
			name:        "table freed and given to a walk-in",
			reservation: stored("r-1", model.StatusSeated),
			table: func(t *testing.T) tableModel.Table {
				table := tableA1(tableModel.StatusAvailable)
				require.NoError(t, table.SeatReservation("r-1", tableModel.Occupant{CustomerName: "Alice", PartySize: 3}, timezone.Now()))
				table.Free("u-9", timezone.Now())
				require.NoError(t, table.Occupy(tableModel.Occupant{CustomerName: "Walk-in Dave", PartySize: 2}, timezone.Now()))

				return table
			},
		},
		{
			name:        "seated at a table now held for the next booking",
			reservation: stored("r-1", model.StatusSeated),
			table: func(t *testing.T) tableModel.Table {
				table := tableA1(tableModel.StatusAvailable)
				require.NoError(t, table.Reserve("r-2"))

				return table
			},
		},
		{
			name:        "never seated but holding the table",
			reservation: stored("r-1", model.StatusConfirmed),
			table: func(t *testing.T) tableModel.Table {
				table := tableA1(tableModel.StatusAvailable)
				require.NoError(t, table.Reserve("r-1"))

				return table
			},
			wantFreed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.reservation, nil)
			f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.table(t), nil)
			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventReservationUpdated, gomock.Any())

			if tt.wantFreed {
				f.tables.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, tableModel.StatusAvailable, fields[tableModel.FieldStatus])
						assert.Nil(t, fields[tableModel.FieldCurrentReservationID])

						return nil
					})
				f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventTableFreed, gomock.Any())
			}

			res, err := f.svc.Complete(cashierCtx(), "r-1")
			require.NoError(t, err)
			assert.Equal(t, string(model.StatusCompleted), res.Status)
			assert.NotNil(t, res.CompletedAt)
		})
	}
}

func TestReservationService_CancelFreesOnlyOwnHold(t *testing.T) {
	tests := []struct {
		name      string
		table     func() tableModel.Table
		wantFreed bool
	}{
		{
			name: "table reserved for this reservation",
			table: func() tableModel.Table {
				table := tableA1(tableModel.StatusAvailable)
				_ = table.Reserve("r-1")

				return table
			},
			wantFreed: true,
		},
		{
			name: "table held for someone else",
			table: func() tableModel.Table {
				table := tableA1(tableModel.StatusAvailable)
				_ = table.Reserve("r-2")

				return table
			},
		},
		{
			name: "table occupied by walk-in",
			table: func() tableModel.Table {
				table := tableA1(tableModel.StatusAvailable)
				_ = table.Occupy(tableModel.Occupant{CustomerName: "Walk-in", PartySize: 2}, timezone.Now())

				return table
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored("r-1", model.StatusConfirmed), nil)
			f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.table(), nil)
			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventReservationUpdated, gomock.Any())

			if tt.wantFreed {
				f.tables.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventTableFreed, gomock.Any())
			}

			res, err := f.svc.Cancel(cashierCtx(), "r-1")
			require.NoError(t, err)
			assert.Equal(t, string(model.StatusCancelled), res.Status)
		})
	}
}

func TestReservationService_MarkNoShow(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored("r-1", model.StatusSeated), nil)

	_, err := f.svc.MarkNoShow(cashierCtx(), "r-1")
	assert.True(t, failure.IsKind(err, failure.KindInvalidState))

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored("r-1", model.StatusConfirmed), nil)
	f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tableA1(tableModel.StatusAvailable), nil)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventReservationUpdated, gomock.Any())

	res, err := f.svc.UpdateStatus(cashierCtx(), "r-1", dto.UpdateReservationStatusRequest{Status: "no-show"})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusNoShow), res.Status)
}

func TestReservationService_Update(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored("r-1", model.StatusCompleted), nil)

	_, err := f.svc.Update(cashierCtx(), dto.UpdateReservationRequest{Notes: "late"}, "r-1")
	assert.True(t, failure.IsKind(err, failure.KindInvalidState))

	other := stored("r-2", model.StatusConfirmed)
	other.Time = "20:00"

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored("r-1", model.StatusConfirmed), nil)
	f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tableA1(tableModel.StatusAvailable), nil)
	f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{stored("r-1", model.StatusConfirmed), other}, nil)

	_, err = f.svc.Update(cashierCtx(), dto.UpdateReservationRequest{Duration: 180}, "r-1")
	assert.True(t, failure.IsKind(err, failure.KindConflict))

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored("r-1", model.StatusConfirmed), nil)
	f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tableA1(tableModel.StatusAvailable), nil)
	f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{stored("r-1", model.StatusConfirmed), other}, nil)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, "17:00", fields[model.FieldTime])

			return nil
		})
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventReservationUpdated, gomock.Any())

	res, err := f.svc.Update(cashierCtx(), dto.UpdateReservationRequest{Time: "17:00", Duration: 180}, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "20:00", res.EndTime)
}

func TestReservationService_UpdateSeated(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.UpdateReservationRequest
		wantKind failure.Kind
	}{
		{name: "move to another table", req: dto.UpdateReservationRequest{TableID: "t-b2"}, wantKind: failure.KindInvalidState},
		{name: "shift the time", req: dto.UpdateReservationRequest{Time: "19:00"}, wantKind: failure.KindInvalidState},
		{name: "extend the stay", req: dto.UpdateReservationRequest{Duration: 180}, wantKind: failure.KindInvalidState},
		{name: "change the date", req: dto.UpdateReservationRequest{Date: "2025-06-02"}, wantKind: failure.KindInvalidState},
		{name: "add a note", req: dto.UpdateReservationRequest{Notes: "birthday cake at 19:30"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored("r-1", model.StatusSeated), nil)

			if tt.wantKind == constant.Empty {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventReservationUpdated, gomock.Any())
			}

			res, err := f.svc.Update(cashierCtx(), tt.req, "r-1")

			if tt.wantKind != constant.Empty {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(model.StatusSeated), res.Status)
			assert.Equal(t, tableID, res.TableID)
		})
	}
}

func TestReservationService_FindAvailableTables(t *testing.T) {
	f := newFixture(t)

	free := tableA1(tableModel.StatusAvailable)
	free.ID = "t-free"
	free.TableNumber = "B2"

	f.tables.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]tableModel.Table{tableA1(tableModel.StatusAvailable), free}, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{stored("r-1", model.StatusConfirmed)}, nil)

	res, err := f.svc.FindAvailableTables(cashierCtx(), dto.AvailableTablesRequest{Date: "2025-06-01", Time: "19:00", Duration: 60, PartySize: 2})

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "B2", res[0].TableNumber)
}

func TestReservationService_Delete(t *testing.T) {
	f := newFixture(t)

	held := tableA1(tableModel.StatusAvailable)
	require.NoError(t, held.Reserve("r-1"))

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored("r-1", model.StatusConfirmed), nil)
	f.tables.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(held, nil)
	f.tables.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventReservationUpdated, gomock.Any())
	f.broadcaster.EXPECT().Publish(gomock.Any(), notificationModel.EventTableFreed, gomock.Any())

	assert.NoError(t, f.svc.Delete(cashierCtx(), "r-1"))
}
