package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"restopos/infras/otel"
	"restopos/infras/postgres"
	notificationModel "restopos/internal/domains/notification/model"
	notification "restopos/internal/domains/notification/service"
	"restopos/internal/domains/table/model"
	"restopos/internal/domains/table/model/dto"
	"restopos/internal/domains/table/repository"
	"restopos/shared"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	gRepo "restopos/shared/repository"
	"restopos/shared/timezone"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var sortableColumns = []string{
	model.FieldTableNumber,
	model.FieldCapacity,
	model.FieldStatus,
	constant.FieldCreatedAt,
}

type Table interface {
	Create(ctx context.Context, req dto.CreateTableRequest) (dto.TableResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.TableFilter) (dto.GetTablesResponse, error)
	Get(ctx context.Context, id string) (dto.TableResponse, error)
	Update(ctx context.Context, req dto.UpdateTableRequest, id string) (dto.TableResponse, error)
	Delete(ctx context.Context, id string) error
	Occupy(ctx context.Context, id string, req dto.OccupyTableRequest) (dto.TableResponse, error)
	Free(ctx context.Context, id string) (dto.TableResponse, error)
	ReportMaintenance(ctx context.Context, id string, req dto.MaintenanceRequest) (dto.TableResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateTableStatusRequest) (dto.TableResponse, error)
}

type serviceImpl struct {
	repo        repository.Table
	tx          postgres.Transactor
	broadcaster notification.Broadcaster
	otel        otel.Otel
}

func New(repo repository.Table, tx postgres.Transactor, broadcaster notification.Broadcaster, otel otel.Otel) Table {
	return &serviceImpl{
		repo:        repo,
		tx:          tx,
		broadcaster: broadcaster,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTableRequest) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exist, err := s.repo.Exist(ctx, repository.ByNumber(req.TableNumber))
	if err != nil {
		log.Error().Err(err).Msg("failed to check table number")

		return res, fmt.Errorf("failed to check table number: %w", err)
	}

	if exist {
		return res, duplicateNumber(req.TableNumber)
	}

	now := timezone.Now()
	table := req.ToModel(gModel.ActorFromContext(ctx).ID, now)

	if err = s.repo.Insert(ctx, table); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, duplicateNumber(req.TableNumber)
		}

		log.Error().Err(err).Msg("failed to create table")

		return res, fmt.Errorf("failed to create table: %w", err)
	}

	res.FromModel(table, now)
	s.broadcaster.Publish(ctx, notificationModel.EventTableUpdated, res)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.TableFilter) (res dto.GetTablesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Sanitize(sortableColumns...).WithDefaults(constant.DefaultValueLimit, model.FieldTableNumber, gDto.SortDirAsc)
	group := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tables")

		return res, fmt.Errorf("failed to count tables: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tables")

		return res, fmt.Errorf("failed to get tables: %w", err)
	}

	res.FromModels(models, total, req.Limit, timezone.Now())

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	table, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get table")

		return res, fmt.Errorf("failed to get table: %w", err)
	}

	if table.ID == constant.Empty {
		return res, failure.NotFound("table not found") // nolint:wrapcheck
	}

	res.FromModel(table, timezone.Now())

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTableRequest, id string) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateTableRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	actor := gModel.ActorFromContext(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var table model.Table

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.TableNumber != constant.Empty && req.TableNumber != current.TableNumber {
			taken, err := s.repo.ExistTx(ctx, tx, repository.ByNumber(req.TableNumber))
			if err != nil {
				log.Error().Err(err).Msg("failed to check table number")

				return fmt.Errorf("failed to check table number: %w", err)
			}

			if taken {
				return duplicateNumber(req.TableNumber)
			}
		}

		if err := s.repo.UpdateTx(ctx, tx, shared.TransformFields(req, actor.ID), filter); err != nil {
			if gRepo.IsUniqueViolation(err) {
				return duplicateNumber(req.TableNumber)
			}

			log.Error().Err(err).Msg("failed to update table")

			return fmt.Errorf("failed to update table: %w", err)
		}

		table, err = s.repo.GetTx(ctx, tx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to reload table")

			return fmt.Errorf("failed to reload table: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(table, timezone.Now())
	s.broadcaster.Publish(ctx, notificationModel.EventTableUpdated, res)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		table, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := table.CanDelete(); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.repo.DeleteTx(ctx, tx, filter); err != nil {
			if gRepo.IsForeignKeyViolation(err) {
				return failure.Conflict("table has reservation history and cannot be deleted", map[string]any{"table_id": id}) //nolint:wrapcheck
			}

			log.Error().Err(err).Msg("failed to delete table")

			return fmt.Errorf("failed to delete table: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.broadcaster.Publish(ctx, notificationModel.EventTableUpdated, map[string]any{"id": id, "deleted": true})

	return nil
}

func (s *serviceImpl) Occupy(ctx context.Context, id string, req dto.OccupyTableRequest) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Occupy")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	table, err := s.transition(ctx, id, func(table *model.Table, _ gModel.Actor, now time.Time) error {
		return table.Occupy(req.ToOccupant(), now)
	})
	if err != nil {
		return res, err
	}

	res.FromModel(table, timezone.Now())
	s.broadcaster.Publish(ctx, notificationModel.EventTableOccupied, res)

	return res, nil
}

func (s *serviceImpl) Free(ctx context.Context, id string) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Free")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	table, err := s.transition(ctx, id, func(table *model.Table, actor gModel.Actor, now time.Time) error {
		table.Free(actor.ID, now)

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(table, timezone.Now())
	s.broadcaster.Publish(ctx, notificationModel.EventTableFreed, res)

	return res, nil
}

func (s *serviceImpl) ReportMaintenance(ctx context.Context, id string, req dto.MaintenanceRequest) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReportMaintenance")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	table, err := s.transition(ctx, id, func(table *model.Table, actor gModel.Actor, now time.Time) error {
		return table.ReportMaintenance(req.Issue, actor.ID, now)
	})
	if err != nil {
		return res, err
	}

	res.FromModel(table, timezone.Now())
	s.broadcaster.Publish(ctx, notificationModel.EventTableUpdated, res, notificationModel.AudienceManager)

	return res, nil
}

// UpdateStatus maps a requested status onto the matching transition. Reserved is owned
// by the reservation scheduler and cannot be set here.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateTableStatusRequest) (dto.TableResponse, error) {
	switch model.Status(req.Status) {
	case model.StatusAvailable:
		return s.Free(ctx, id)
	case model.StatusOccupied:
		return s.Occupy(ctx, id, dto.OccupyTableRequest{
			CustomerName: req.CustomerName,
			PartySize:    req.PartySize,
			ContactInfo:  req.ContactInfo,
		})
	case model.StatusMaintenance:
		return s.ReportMaintenance(ctx, id, dto.MaintenanceRequest{Issue: req.MaintenanceIssue()})
	case model.StatusReserved:
		return dto.TableResponse{}, failure.Validation("tables are reserved through reservations", "status") // nolint:wrapcheck
	default:
		return dto.TableResponse{}, failure.Validation("unknown table status "+req.Status, "status") // nolint:wrapcheck
	}
}

// transition applies fn to the locked row and persists the state columns in one transaction.
func (s *serviceImpl) transition(ctx context.Context, id string, fn func(table *model.Table, actor gModel.Actor, now time.Time) error) (model.Table, error) {
	var table model.Table

	actor := gModel.ActorFromContext(ctx)

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		now := timezone.Now()
		if err := fn(&current, actor, now); err != nil {
			return err
		}

		current.Touch(actor.ID, now)

		if err := s.repo.UpdateTx(ctx, tx, current.StateFields(), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Str("table_id", id).Msg("failed to save table state")

			return fmt.Errorf("failed to save table state: %w", err)
		}

		table = current

		return nil
	})

	return table, err //nolint:wrapcheck
}

func (s *serviceImpl) lock(ctx context.Context, tx *sqlx.Tx, id string) (model.Table, error) {
	table, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("table_id", id).Msg("failed to lock table")

		return table, fmt.Errorf("failed to lock table: %w", err)
	}

	if table.ID == constant.Empty {
		return table, failure.NotFound("table not found") // nolint:wrapcheck
	}

	return table, nil
}

func duplicateNumber(number string) error {
	return failure.Conflict("table number already exists", map[string]any{"table_number": number}) // nolint:wrapcheck
}
