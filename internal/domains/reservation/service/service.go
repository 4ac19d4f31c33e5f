package service

import (
	"context"
	"fmt"
	"restopos/infras/otel"
	"restopos/infras/postgres"
	notificationModel "restopos/internal/domains/notification/model"
	notification "restopos/internal/domains/notification/service"
	"restopos/internal/domains/reservation/model"
	"restopos/internal/domains/reservation/model/dto"
	"restopos/internal/domains/reservation/repository"
	settings "restopos/internal/domains/settings/service"
	tableModel "restopos/internal/domains/table/model"
	tableDto "restopos/internal/domains/table/model/dto"
	tableRepo "restopos/internal/domains/table/repository"
	"restopos/shared"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	"restopos/shared/timezone"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var sortableColumns = []string{
	model.FieldDate,
	model.FieldTime,
	model.FieldCustomerName,
	model.FieldStatus,
	constant.FieldCreatedAt,
}

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ReservationFilter) (dto.GetReservationsResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (dto.ReservationResponse, error)
	Delete(ctx context.Context, id string) error
	Seat(ctx context.Context, id string) (dto.ReservationResponse, error)
	Complete(ctx context.Context, id string) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id string) (dto.ReservationResponse, error)
	MarkNoShow(ctx context.Context, id string) (dto.ReservationResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateReservationStatusRequest) (dto.ReservationResponse, error)
	FindAvailableTables(ctx context.Context, req dto.AvailableTablesRequest) ([]tableDto.TableResponse, error)
}

type serviceImpl struct {
	repo        repository.Reservation
	tableRepo   tableRepo.Table
	tx          postgres.Transactor
	broadcaster notification.Broadcaster
	settings    settings.Settings
	otel        otel.Otel
}

func New(repo repository.Reservation, tableRepo tableRepo.Table, tx postgres.Transactor, broadcaster notification.Broadcaster, settings settings.Settings, otel otel.Otel) Reservation {
	return &serviceImpl{
		repo:        repo,
		tableRepo:   tableRepo,
		tx:          tx,
		broadcaster: broadcaster,
		settings:    settings,
		otel:        otel,
	}
}

// outcome collects what a transaction changed so events go out after commit.
type outcome struct {
	reservation model.Reservation
	tables      []tableModel.Table
	tableEvent  string
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	date, err := model.ParseDate(req.Date)
	if err != nil {
		return res, err
	}

	window, err := model.NewWindow(req.Time, req.Duration)
	if err != nil {
		return res, err
	}

	actor := gModel.ActorFromContext(ctx)

	var out outcome

	prefix := s.settings.Current(ctx).ReservationNumberPrefix

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		table, err := s.lockTable(ctx, tx, req.TableID)
		if err != nil {
			return err
		}

		if err := checkCapacity(table, req.PartySize); err != nil {
			return err
		}

		if err := s.checkConflicts(ctx, tx, table, date, window, req.Time, constant.Empty); err != nil {
			return err
		}

		seq, err := s.repo.NextVal(ctx, tx, model.NumberSequence)
		if err != nil {
			log.Error().Err(err).Msg("failed to draw reservation number")

			return fmt.Errorf("failed to draw reservation number: %w", err)
		}

		now := timezone.Now()
		reservation := req.ToModel(date, model.FormatNumber(prefix, now, seq), actor.ID, now)

		if err := s.repo.InsertTx(ctx, tx, reservation); err != nil {
			log.Error().Err(err).Msg("failed to create reservation")

			return fmt.Errorf("failed to create reservation: %w", err)
		}

		out.reservation = reservation

		if reservation.IsOn(now) && table.Status == tableModel.StatusAvailable {
			if err := table.Reserve(reservation.ID); err != nil {
				return err //nolint:wrapcheck
			}

			if err := s.saveTable(ctx, tx, &table, actor, now); err != nil {
				return err
			}

			out.tables = []tableModel.Table{table}
			out.tableEvent = notificationModel.EventTableUpdated
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(out.reservation)
	s.publish(ctx, notificationModel.EventReservationCreated, res, out)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ReservationFilter) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Sanitize(sortableColumns...).WithDefaults(constant.DefaultValueLimit, model.FieldDate, gDto.SortDirAsc)
	group := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateReservationRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	var date *time.Time

	if req.Date != constant.Empty {
		parsed, err := model.ParseDate(req.Date)
		if err != nil {
			return res, err
		}

		date = &parsed
	}

	actor := gModel.ActorFromContext(ctx)

	var out outcome

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		reservation, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		if reservation.Status.Closed() {
			return failure.InvalidState("reservation "+reservation.ReservationNumber+" is "+string(reservation.Status)+" and cannot be changed", map[string]any{
				"reservation_id": reservation.ID,
				"status":         reservation.Status,
			}) // nolint:wrapcheck
		}

		if reservation.Status == model.StatusSeated && req.Moves() {
			return failure.InvalidState("reservation "+reservation.ReservationNumber+" is seated and cannot move to another table or time", map[string]any{
				"reservation_id": reservation.ID,
				"status":         reservation.Status,
			}) // nolint:wrapcheck
		}

		previousTableID := reservation.TableID
		now := timezone.Now()

		req.ApplyTo(&reservation, date)
		reservation.Touch(actor.ID, now)

		if req.Reschedules() {
			window, err := reservation.Window()
			if err != nil {
				return err
			}

			table, err := s.lockTable(ctx, tx, reservation.TableID)
			if err != nil {
				return err
			}

			if err := checkCapacity(table, reservation.PartySize); err != nil {
				return err
			}

			if err := s.checkConflicts(ctx, tx, table, reservation.Date, window, reservation.Time, reservation.ID); err != nil {
				return err
			}

			moved, err := s.moveTableHold(ctx, tx, reservation, previousTableID, table, actor, now)
			if err != nil {
				return err
			}

			out.tables = moved
			out.tableEvent = notificationModel.EventTableUpdated
		}

		if err := s.repo.UpdateTx(ctx, tx, reservation.DetailFields(), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update reservation")

			return fmt.Errorf("failed to update reservation: %w", err)
		}

		out.reservation = reservation

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(out.reservation)
	s.publish(ctx, notificationModel.EventReservationUpdated, res, out)

	return res, nil
}

// moveTableHold keeps the same-day table hold in step with a rescheduled reservation.
// The old table is released when the hold no longer applies, and the new one is
// reserved when the reservation is for today and the table is free.
func (s *serviceImpl) moveTableHold(ctx context.Context, tx *sqlx.Tx, reservation model.Reservation, previousTableID string, table tableModel.Table, actor gModel.Actor, now time.Time) ([]tableModel.Table, error) {
	changed := []tableModel.Table{}

	if previousTableID != table.ID {
		previous, err := s.releaseHold(ctx, tx, model.Reservation{ID: reservation.ID, TableID: previousTableID}, actor, now)
		if err != nil {
			return nil, err
		}

		changed = append(changed, previous...)
	} else if !reservation.IsOn(now) && table.ReleaseReservation(reservation.ID) {
		if err := s.saveTable(ctx, tx, &table, actor, now); err != nil {
			return nil, err
		}

		return append(changed, table), nil
	}

	if reservation.IsOn(now) && table.Status == tableModel.StatusAvailable {
		if err := table.Reserve(reservation.ID); err != nil {
			return nil, err //nolint:wrapcheck
		}

		if err := s.saveTable(ctx, tx, &table, actor, now); err != nil {
			return nil, err
		}

		changed = append(changed, table)
	}

	return changed, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := gModel.ActorFromContext(ctx)

	var out outcome

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		reservation, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		released, err := s.releaseHold(ctx, tx, reservation, actor, timezone.Now())
		if err != nil {
			return err
		}

		if err := s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation")

			return fmt.Errorf("failed to delete reservation: %w", err)
		}

		out.reservation = reservation
		out.tables = released
		out.tableEvent = notificationModel.EventTableFreed

		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, notificationModel.EventReservationUpdated, map[string]any{"id": id, "deleted": true}, out)

	return nil
}

// Seat moves a confirmed reservation to seated and occupies its table with the party.
func (s *serviceImpl) Seat(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Seat")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	out, err := s.transition(ctx, id, func(ctx context.Context, tx *sqlx.Tx, reservation *model.Reservation, actor gModel.Actor, now time.Time) ([]tableModel.Table, string, error) {
		if err := reservation.Seat(now); err != nil {
			return nil, "", err
		}

		table, err := s.lockTable(ctx, tx, reservation.TableID)
		if err != nil {
			return nil, "", err
		}

		err = table.SeatReservation(reservation.ID, tableModel.Occupant{
			CustomerName: reservation.CustomerName,
			PartySize:    reservation.PartySize,
			ContactInfo:  reservation.CustomerPhone,
		}, now)
		if err != nil {
			return nil, "", err //nolint:wrapcheck
		}

		if err := s.saveTable(ctx, tx, &table, actor, now); err != nil {
			return nil, "", err
		}

		return []tableModel.Table{table}, notificationModel.EventTableOccupied, nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(out.reservation)
	s.publish(ctx, notificationModel.EventReservationUpdated, res, out)

	return res, nil
}

// Complete closes a seated (or never seated) reservation and frees its table, unless the
// table has since been freed and given to another party.
func (s *serviceImpl) Complete(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	out, err := s.transition(ctx, id, func(ctx context.Context, tx *sqlx.Tx, reservation *model.Reservation, actor gModel.Actor, now time.Time) ([]tableModel.Table, string, error) {
		if err := reservation.Complete(now); err != nil {
			return nil, "", err
		}

		table, err := s.lockTable(ctx, tx, reservation.TableID)
		if err != nil {
			if failure.IsKind(err, failure.KindNotFound) {
				return nil, "", nil
			}

			return nil, "", err
		}

		if !table.HeldBy(reservation.ID) {
			log.Info().Str("reservation_id", reservation.ID).Str("table_id", table.ID).Msg("table no longer held by reservation, leaving it as is")

			return nil, "", nil
		}

		table.Free(actor.ID, now)

		if err := s.saveTable(ctx, tx, &table, actor, now); err != nil {
			return nil, "", err
		}

		return []tableModel.Table{table}, notificationModel.EventTableFreed, nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(out.reservation)
	s.publish(ctx, notificationModel.EventReservationUpdated, res, out)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.withdraw(ctx, id, (*model.Reservation).Cancel)
}

func (s *serviceImpl) MarkNoShow(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkNoShow")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.withdraw(ctx, id, (*model.Reservation).MarkNoShow)
}

// withdraw applies a cancelling transition and releases the table only when it is still
// held for this reservation.
func (s *serviceImpl) withdraw(ctx context.Context, id string, apply func(*model.Reservation) error) (res dto.ReservationResponse, err error) {
	out, err := s.transition(ctx, id, func(ctx context.Context, tx *sqlx.Tx, reservation *model.Reservation, actor gModel.Actor, now time.Time) ([]tableModel.Table, string, error) {
		if err := apply(reservation); err != nil {
			return nil, "", err
		}

		released, err := s.releaseHold(ctx, tx, *reservation, actor, now)
		if err != nil {
			return nil, "", err
		}

		return released, notificationModel.EventTableFreed, nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(out.reservation)
	s.publish(ctx, notificationModel.EventReservationUpdated, res, out)

	return res, nil
}

// UpdateStatus dispatches PUT /reservations/{id}/status to the matching transition.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateReservationStatusRequest) (dto.ReservationResponse, error) {
	switch model.Status(req.Status) {
	case model.StatusSeated:
		return s.Seat(ctx, id)
	case model.StatusCompleted:
		return s.Complete(ctx, id)
	case model.StatusCancelled:
		return s.Cancel(ctx, id)
	case model.StatusNoShow:
		return s.MarkNoShow(ctx, id)
	case model.StatusConfirmed:
		current, err := s.Get(ctx, id)
		if err != nil {
			return current, err
		}

		if current.Status != string(model.StatusConfirmed) {
			return current, failure.InvalidState("reservation cannot return to confirmed", map[string]any{
				"reservation_id": id,
				"status":         current.Status,
			}) // nolint:wrapcheck
		}

		return current, nil
	default:
		return dto.ReservationResponse{}, failure.Validation("unknown reservation status "+req.Status, "status") // nolint:wrapcheck
	}
}

// FindAvailableTables lists the tables that can seat the party and have no overlapping
// booking in the requested window. Tables under maintenance are never offered.
func (s *serviceImpl) FindAvailableTables(ctx context.Context, req dto.AvailableTablesRequest) (res []tableDto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FindAvailableTables")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	date, err := model.ParseDate(req.Date)
	if err != nil {
		return res, err
	}

	window, err := model.NewWindow(req.Time, req.Duration)
	if err != nil {
		return res, err
	}

	candidates := tableDto.TableFilter{MinCapacity: req.PartySize}.ToFilterGroup()
	candidates.Add(gDto.Filter{
		ArgName:  "excluded_status",
		Field:    tableModel.FieldStatus,
		Value:    tableModel.StatusMaintenance,
		Operator: gDto.FilterOperatorNotEq,
		Table:    tableModel.TableName,
	})

	tables, err := s.tableRepo.GetAll(ctx, gDto.QueryParams{SortBy: tableModel.FieldTableNumber, SortDir: gDto.SortDirAsc}, candidates)
	if err != nil {
		log.Error().Err(err).Msg("failed to get candidate tables")

		return res, fmt.Errorf("failed to get candidate tables: %w", err)
	}

	booked, err := s.repo.GetAll(ctx, gDto.QueryParams{}, repository.ActiveOn(date, constant.Empty))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations for the day")

		return res, fmt.Errorf("failed to get reservations for the day: %w", err)
	}

	now := timezone.Now()
	res = []tableDto.TableResponse{}

	for _, table := range tables {
		if len(model.FindConflicts(booked, table.ID, date, window, constant.Empty)) > 0 {
			continue
		}

		var item tableDto.TableResponse
		item.FromModel(table, now)
		res = append(res, item)
	}

	return res, nil
}

type transitionFunc func(ctx context.Context, tx *sqlx.Tx, reservation *model.Reservation, actor gModel.Actor, now time.Time) ([]tableModel.Table, string, error)

// transition locks the reservation, lets fn mutate it and its table, and saves the
// reservation state in the same transaction.
func (s *serviceImpl) transition(ctx context.Context, id string, fn transitionFunc) (outcome, error) {
	var out outcome

	actor := gModel.ActorFromContext(ctx)

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		reservation, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		now := timezone.Now()

		tables, event, err := fn(ctx, tx, &reservation, actor, now)
		if err != nil {
			return err
		}

		reservation.Touch(actor.ID, now)

		if err := s.repo.UpdateTx(ctx, tx, reservation.StateFields(), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Str("reservation_id", id).Msg("failed to save reservation state")

			return fmt.Errorf("failed to save reservation state: %w", err)
		}

		out = outcome{reservation: reservation, tables: tables, tableEvent: event}

		return nil
	})

	return out, err //nolint:wrapcheck
}

// releaseHold frees the reservation's table if it is still reserved for it.
func (s *serviceImpl) releaseHold(ctx context.Context, tx *sqlx.Tx, reservation model.Reservation, actor gModel.Actor, now time.Time) ([]tableModel.Table, error) {
	table, err := s.lockTable(ctx, tx, reservation.TableID)
	if err != nil {
		if failure.IsKind(err, failure.KindNotFound) {
			return nil, nil
		}

		return nil, err
	}

	if !table.ReleaseReservation(reservation.ID) {
		return nil, nil
	}

	if err := s.saveTable(ctx, tx, &table, actor, now); err != nil {
		return nil, err
	}

	return []tableModel.Table{table}, nil
}

func (s *serviceImpl) checkConflicts(ctx context.Context, tx *sqlx.Tx, table tableModel.Table, date time.Time, window model.Window, clock, excludeID string) error {
	existing, err := s.repo.GetAllTx(ctx, tx, gDto.QueryParams{}, repository.ActiveOn(date, table.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to load reservations for conflict check")

		return fmt.Errorf("failed to load reservations for conflict check: %w", err)
	}

	conflicts := model.FindConflicts(existing, table.ID, date, window, excludeID)
	if len(conflicts) == 0 {
		return nil
	}

	numbers := make([]string, len(conflicts))
	for i, c := range conflicts {
		numbers[i] = c.ReservationNumber
	}

	return failure.Conflict("table "+table.TableNumber+" is not available at the requested time", map[string]any{
		"table_id":     table.ID,
		"table_number": table.TableNumber,
		"date":         date.Format(constant.DateOnlyFormat),
		"time":         clock,
		"end_time":     window.EndClock(),
		"conflicts":    numbers,
	}) // nolint:wrapcheck
}

func checkCapacity(table tableModel.Table, partySize int) error {
	if partySize <= table.Capacity {
		return nil
	}

	return failure.Capacity(fmt.Sprintf("table capacity (%d) is insufficient for party size (%d)", table.Capacity, partySize), map[string]any{
		"table_id":   table.ID,
		"capacity":   table.Capacity,
		"party_size": partySize,
	}) // nolint:wrapcheck
}

func (s *serviceImpl) lock(ctx context.Context, tx *sqlx.Tx, id string) (model.Reservation, error) {
	reservation, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to lock reservation")

		return reservation, fmt.Errorf("failed to lock reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	return reservation, nil
}

func (s *serviceImpl) lockTable(ctx context.Context, tx *sqlx.Tx, id string) (tableModel.Table, error) {
	table, err := s.tableRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, tableModel.FieldID, tableModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("table_id", id).Msg("failed to lock table")

		return table, fmt.Errorf("failed to lock table: %w", err)
	}

	if table.ID == constant.Empty {
		return table, failure.NotFound("table not found") // nolint:wrapcheck
	}

	return table, nil
}

func (s *serviceImpl) saveTable(ctx context.Context, tx *sqlx.Tx, table *tableModel.Table, actor gModel.Actor, now time.Time) error {
	table.Touch(actor.ID, now)

	if err := s.tableRepo.UpdateTx(ctx, tx, table.StateFields(), shared.FilterByID(table.ID, tableModel.FieldID, tableModel.TableName)); err != nil {
		log.Error().Err(err).Str("table_id", table.ID).Msg("failed to save table state")

		return fmt.Errorf("failed to save table state: %w", err)
	}

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, event string, data any, out outcome) {
	s.broadcaster.Publish(ctx, event, data)

	for _, table := range out.tables {
		var payload tableDto.TableResponse
		payload.FromModel(table, timezone.Now())
		s.broadcaster.Publish(ctx, out.tableEvent, payload)
	}
}
