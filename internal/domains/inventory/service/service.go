package service

import (
	"context"
	"fmt"
	"restopos/config"
	"restopos/infras/otel"
	"restopos/infras/postgres"
	"restopos/internal/domains/inventory/model"
	"restopos/internal/domains/inventory/model/dto"
	"restopos/internal/domains/inventory/repository"
	notificationModel "restopos/internal/domains/notification/model"
	notification "restopos/internal/domains/notification/service"
	"restopos/shared"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	"restopos/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var sortableColumns = []string{
	model.FieldName,
	model.FieldCategory,
	model.FieldCurrentStock,
	model.FieldExpiryDate,
	constant.FieldCreatedAt,
}

type Inventory interface {
	Create(ctx context.Context, req dto.CreateItemRequest) (dto.ItemResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ItemFilter) (dto.GetItemsResponse, error)
	Get(ctx context.Context, id string) (dto.ItemResponse, error)
	Update(ctx context.Context, req dto.UpdateItemRequest, id string) (dto.ItemResponse, error)
	AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (dto.ItemResponse, error)
	LowStock(ctx context.Context) ([]dto.ItemResponse, error)
	Expiring(ctx context.Context, days int) ([]dto.ItemResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Inventory
	tx          postgres.Transactor
	broadcaster notification.Broadcaster
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Inventory, tx postgres.Transactor, broadcaster notification.Broadcaster, cfg *config.Config, otel otel.Otel) Inventory {
	return &serviceImpl{
		repo:        repo,
		tx:          tx,
		broadcaster: broadcaster,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateItemRequest) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := timezone.Now()

	item, err := req.ToModel(gModel.ActorFromContext(ctx).ID, now)
	if err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, item); err != nil {
		log.Error().Err(err).Msg("failed to create inventory item")

		return res, fmt.Errorf("failed to create inventory item: %w", err)
	}

	res.FromModel(item, now)
	s.broadcaster.Publish(ctx, notificationModel.EventInventoryUpdated, res, notificationModel.AudienceManager)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ItemFilter) (res dto.GetItemsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Sanitize(sortableColumns...).WithDefaults(constant.DefaultValueLimit, model.FieldName, gDto.SortDirAsc)
	group := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count inventory items")

		return res, fmt.Errorf("failed to count inventory items: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get inventory items")

		return res, fmt.Errorf("failed to get inventory items: %w", err)
	}

	res.FromModels(models, total, req.Limit, timezone.Now())

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	item, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(item, timezone.Now())

	return res, nil
}

// Update merges the request into the stored item so min and max are validated together.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateItemRequest, id string) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Empty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	actor := gModel.ActorFromContext(ctx)
	now := timezone.Now()

	var item model.Item

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		fields, err := req.ApplyTo(&current)
		if err != nil {
			return err //nolint:wrapcheck
		}

		current.Touch(actor.ID, now)
		for field, value := range current.Metadata.Fields() {
			fields[field] = value
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Str("item_id", id).Msg("failed to update inventory item")

			return fmt.Errorf("failed to update inventory item: %w", err)
		}

		item = current

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(item, now)
	s.broadcaster.Publish(ctx, notificationModel.EventInventoryUpdated, res, notificationModel.AudienceManager)

	return res, nil
}

// AdjustStock records a stock movement and alerts managers when the item falls to its minimum.
func (s *serviceImpl) AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdjustStock")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := gModel.ActorFromContext(ctx)
	now := timezone.Now()

	var item model.Item

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := current.Adjust(model.Action(req.Action), req.Quantity, req.Reason, actor.ID, now); err != nil {
			return err //nolint:wrapcheck
		}

		current.Touch(actor.ID, now)

		if err := s.repo.UpdateTx(ctx, tx, current.StockFields(), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Str("item_id", id).Msg("failed to save stock level")

			return fmt.Errorf("failed to save stock level: %w", err)
		}

		item = current

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(item, now)

	log.Info().
		Str("item_id", id).
		Str("action", req.Action).
		Str("current_stock", item.CurrentStock.String()).
		Str("stock_status", res.StockStatus).
		Msg("stock adjusted")

	if item.StockStatus() == model.StockLow {
		s.broadcaster.Publish(ctx, notificationModel.EventInventoryLowStock, res, notificationModel.AudienceManager)
	}

	return res, nil
}

func (s *serviceImpl) LowStock(ctx context.Context) (res []dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".LowStock")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}

	models, err := s.repo.GetAll(ctx, params, gDto.And(dto.LowStockFilter()))
	if err != nil {
		log.Error().Err(err).Msg("failed to get low stock items")

		return res, fmt.Errorf("failed to get low stock items: %w", err)
	}

	return dto.FromModels(models, timezone.Now()), nil
}

// Expiring lists items expiring within days, soonest first. Non-positive days use the configured window.
func (s *serviceImpl) Expiring(ctx context.Context, days int) (res []dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Expiring")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if days <= 0 {
		days = s.cfg.Restaurant.ExpiringWindowDays
	}

	now := timezone.Now()
	params := gDto.QueryParams{SortBy: model.FieldExpiryDate, SortDir: gDto.SortDirAsc}

	models, err := s.repo.GetAll(ctx, params, dto.ExpiryWindow(days, now))
	if err != nil {
		log.Error().Err(err).Msg("failed to get expiring items")

		return res, fmt.Errorf("failed to get expiring items: %w", err)
	}

	expiring := make([]model.Item, 0, len(models))
	for _, item := range models {
		if item.ExpiresWithin(days, now) {
			expiring = append(expiring, item)
		}
	}

	return dto.FromModels(expiring, now), nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete inventory item")

		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	s.broadcaster.Publish(ctx, notificationModel.EventInventoryUpdated, map[string]any{"id": id, "deleted": true}, notificationModel.AudienceManager)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Item, error) {
	item, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get inventory item")

		return item, fmt.Errorf("failed to get inventory item: %w", err)
	}

	if item.ID == constant.Empty {
		return item, failure.NotFound("inventory item not found") // nolint:wrapcheck
	}

	return item, nil
}

func (s *serviceImpl) lock(ctx context.Context, tx *sqlx.Tx, id string) (model.Item, error) {
	item, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("item_id", id).Msg("failed to lock inventory item")

		return item, fmt.Errorf("failed to lock inventory item: %w", err)
	}

	if item.ID == constant.Empty {
		return item, failure.NotFound("inventory item not found") // nolint:wrapcheck
	}

	return item, nil
}
