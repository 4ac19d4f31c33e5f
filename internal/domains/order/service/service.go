package service

import (
	"context"
	"fmt"
	"restopos/config"
	"restopos/infras/otel"
	"restopos/infras/postgres"
	menuModel "restopos/internal/domains/menu/model"
	menuRepo "restopos/internal/domains/menu/repository"
	notificationModel "restopos/internal/domains/notification/model"
	notification "restopos/internal/domains/notification/service"
	"restopos/internal/domains/order/model"
	"restopos/internal/domains/order/model/dto"
	"restopos/internal/domains/order/repository"
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
	model.FieldOrderNumber,
	model.FieldStatus,
	model.FieldTotal,
	model.FieldTableNumber,
	constant.FieldCreatedAt,
}

var orderAudiences = []string{notificationModel.AudienceKitchen, notificationModel.AudienceCashier}

type Order interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (dto.OrderResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.OrderFilter) (dto.GetOrdersResponse, error)
	Get(ctx context.Context, id string) (dto.OrderResponse, error)
	Update(ctx context.Context, req dto.UpdateOrderRequest, id string) (dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateOrderStatusRequest) (dto.OrderResponse, error)
	Delete(ctx context.Context, id string) error
	KitchenDisplay(ctx context.Context) ([]dto.OrderResponse, error)
}

type serviceImpl struct {
	repo        repository.Order
	menuRepo    menuRepo.Menu
	tableRepo   tableRepo.Table
	tx          postgres.Transactor
	broadcaster notification.Broadcaster
	settings    settings.Settings
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Order, menuRepo menuRepo.Menu, tableRepo tableRepo.Table, tx postgres.Transactor, broadcaster notification.Broadcaster, settings settings.Settings, cfg *config.Config, otel otel.Otel) Order {
	return &serviceImpl{
		repo:        repo,
		menuRepo:    menuRepo,
		tableRepo:   tableRepo,
		tx:          tx,
		broadcaster: broadcaster,
		settings:    settings,
		cfg:         cfg,
		otel:        otel,
	}
}

// Create prices the order from the current menu and links it to its table when dining in.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateOrderRequest) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Check(); err != nil {
		return res, err
	}

	lines, err := s.resolveItems(ctx, req)
	if err != nil {
		return res, err
	}

	current := s.settings.Current(ctx)

	totals, err := model.ComputeTotals(lines, current.TaxRate, req.Discount)
	if err != nil {
		return res, err
	}

	actor := gModel.ActorFromContext(ctx)

	var (
		order  model.Order
		linked []tableModel.Table
	)

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		seq, err := s.repo.NextVal(ctx, tx, model.NumberSequence)
		if err != nil {
			log.Error().Err(err).Msg("failed to draw order number")

			return fmt.Errorf("failed to draw order number: %w", err)
		}

		now := timezone.Now()
		order = req.ToModel(model.FormatNumber(current.OrderNumberPrefix, now, seq), lines, totals, s.cfg.Restaurant.DefaultPrepMinutes, actor.ID, now)

		if order.OrderType == model.TypeDineIn {
			table, err := s.linkTable(ctx, tx, order.TableNumber, order.ID, actor, now)
			if err != nil {
				return err
			}

			linked = append(linked, table)
		}

		if err := s.repo.InsertTx(ctx, tx, order); err != nil {
			log.Error().Err(err).Msg("failed to create order")

			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(order)
	s.publish(ctx, notificationModel.EventOrderCreated, res, linked)

	return res, nil
}

// resolveItems snapshots the name and price of every requested menu item.
func (s *serviceImpl) resolveItems(ctx context.Context, req dto.CreateOrderRequest) ([]model.Item, error) {
	menu, err := s.menuRepo.GetAll(ctx, gDto.QueryParams{}, menuRepo.ByIDs(req.MenuItemIDs()))
	if err != nil {
		log.Error().Err(err).Msg("failed to get menu items")

		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}

	byID := make(map[string]menuModel.MenuItem, len(menu))
	for _, item := range menu {
		byID[item.ID] = item
	}

	lines := make([]model.Item, len(req.Items))

	for i, line := range req.Items {
		item, ok := byID[line.MenuItemID]
		if !ok {
			return nil, failure.NotFound("menu item " + line.MenuItemID + " not found") // nolint:wrapcheck
		}

		if !item.Available {
			return nil, failure.NotAvailable(item.Name+" is not available", map[string]any{
				"menu_item_id": item.ID,
				"name":         item.Name,
			}) // nolint:wrapcheck
		}

		lines[i] = model.Item{
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   line.Quantity,
			Price:      item.Price,
			Notes:      line.Notes,
		}
	}

	return lines, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.OrderFilter) (res dto.GetOrdersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Sanitize(sortableColumns...).WithDefaults(constant.DefaultValueLimit, constant.FieldCreatedAt, gDto.SortDirDesc)

	group, err := filter.ToFilterGroup()
	if err != nil {
		return res, err
	}

	group = scopeToActor(group, gModel.ActorFromContext(ctx))

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count orders")

		return res, fmt.Errorf("failed to count orders: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get orders")

		return res, fmt.Errorf("failed to get orders: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// scopeToActor limits cashiers to their own orders and the kitchen to open ones.
func scopeToActor(group gDto.FilterGroup, actor gModel.Actor) gDto.FilterGroup {
	switch actor.Role {
	case constant.RoleCashier:
		group.AddIf(model.TableName, model.FieldCashierID, actor.ID)
	case constant.RoleKitchen:
		group = repository.InStatuses(group, model.ActiveStatuses)
	}

	return group
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	order, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get order")

		return res, fmt.Errorf("failed to get order: %w", err)
	}

	if order.ID == constant.Empty {
		return res, failure.NotFound("order not found") // nolint:wrapcheck
	}

	if err = checkOwner(order, gModel.ActorFromContext(ctx)); err != nil {
		return res, err
	}

	res.FromModel(order)

	return res, nil
}

// Update edits customer details, table and notes of an order that has not reached the kitchen.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateOrderRequest, id string) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Empty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	actor := gModel.ActorFromContext(ctx)

	var (
		order   model.Order
		changed []tableModel.Table
	)

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := checkOwner(current, actor); err != nil {
			return err
		}

		if !current.Editable() {
			return failure.InvalidState("order "+current.OrderNumber+" is "+string(current.Status)+" and can no longer be edited", map[string]any{
				"order_id": current.ID,
				"status":   current.Status,
			}) // nolint:wrapcheck
		}

		previousTable := current.TableNumber
		now := timezone.Now()

		req.ApplyTo(&current)
		current.Touch(actor.ID, now)

		if current.OrderType == model.TypeDineIn && current.TableNumber != previousTable {
			table, err := s.linkTable(ctx, tx, current.TableNumber, current.ID, actor, now)
			if err != nil {
				return err
			}

			changed = append(changed, table)

			released, err := s.unlinkTable(ctx, tx, previousTable, current.ID, actor, now)
			if err != nil {
				return err
			}

			changed = append(changed, released...)
		}

		if err := s.repo.UpdateTx(ctx, tx, current.DetailFields(), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update order")

			return fmt.Errorf("failed to update order: %w", err)
		}

		order = current

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(order)
	s.publish(ctx, notificationModel.EventOrderUpdated, res, changed)

	return res, nil
}

// UpdateStatus applies a role-gated transition. Closing an order releases its table link.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateOrderStatusRequest) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	target := model.Status(req.Status)
	if !target.Valid() {
		return res, failure.Validation("unknown order status "+req.Status, "status") // nolint:wrapcheck
	}

	actor := gModel.ActorFromContext(ctx)

	var (
		order    model.Order
		released []tableModel.Table
	)

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		now := timezone.Now()

		if err := current.Transition(target, actor, req.Notes, now); err != nil {
			return err //nolint:wrapcheck
		}

		current.Touch(actor.ID, now)

		if current.Closed() && current.TableNumber != constant.Empty {
			released, err = s.unlinkTable(ctx, tx, current.TableNumber, current.ID, actor, now)
			if err != nil {
				return err
			}
		}

		if err := s.repo.UpdateTx(ctx, tx, current.StateFields(), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Str("order_id", id).Msg("failed to save order status")

			return fmt.Errorf("failed to save order status: %w", err)
		}

		order = current

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(order)
	s.publish(ctx, notificationModel.EventOrderStatusUpdated, res, released)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := gModel.ActorFromContext(ctx)

	var released []tableModel.Table

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		order, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		if !order.Deletable() {
			return failure.InvalidState("order "+order.OrderNumber+" is "+string(order.Status)+" and cannot be deleted", map[string]any{
				"order_id": order.ID,
				"status":   order.Status,
			}) // nolint:wrapcheck
		}

		released, err = s.unlinkTable(ctx, tx, order.TableNumber, order.ID, actor, timezone.Now())
		if err != nil {
			return err
		}

		if err := s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to delete order")

			return fmt.Errorf("failed to delete order: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, notificationModel.EventOrderDeleted, map[string]any{"id": id}, released)

	return nil
}

// KitchenDisplay lists the orders the kitchen still has to work on, oldest first.
func (s *serviceImpl) KitchenDisplay(ctx context.Context) (res []dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".KitchenDisplay")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	models, err := s.repo.GetAll(ctx, params, repository.InStatuses(gDto.And(), model.KitchenStatuses))
	if err != nil {
		log.Error().Err(err).Msg("failed to get kitchen orders")

		return res, fmt.Errorf("failed to get kitchen orders: %w", err)
	}

	res = make([]dto.OrderResponse, len(models))
	for i, order := range models {
		res[i].FromModel(order)
	}

	return res, nil
}

func checkOwner(order model.Order, actor gModel.Actor) error {
	if actor.Role == constant.RoleCashier && order.CashierID != actor.ID {
		return failure.ResourceRestrictedError
	}

	return nil
}

func (s *serviceImpl) lock(ctx context.Context, tx *sqlx.Tx, id string) (model.Order, error) {
	order, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("order_id", id).Msg("failed to lock order")

		return order, fmt.Errorf("failed to lock order: %w", err)
	}

	if order.ID == constant.Empty {
		return order, failure.NotFound("order not found") // nolint:wrapcheck
	}

	return order, nil
}

// linkTable points a dine-in table at the order. Tables under maintenance cannot take orders.
func (s *serviceImpl) linkTable(ctx context.Context, tx *sqlx.Tx, number, orderID string, actor gModel.Actor, now time.Time) (tableModel.Table, error) {
	table, err := s.tableRepo.GetForUpdateTx(ctx, tx, tableRepo.ByNumber(number))
	if err != nil {
		log.Error().Err(err).Str("table_number", number).Msg("failed to lock table")

		return table, fmt.Errorf("failed to lock table: %w", err)
	}

	if table.ID == constant.Empty {
		return table, failure.NotFound("table " + number + " not found") // nolint:wrapcheck
	}

	if table.Status == tableModel.StatusMaintenance {
		return table, failure.InvalidState("table "+number+" is under maintenance", map[string]any{
			"table_id":     table.ID,
			"table_number": number,
			"status":       table.Status,
		}) // nolint:wrapcheck
	}

	if table.CurrentOrderID != nil && *table.CurrentOrderID != orderID {
		if err := s.checkTableOrder(ctx, table); err != nil {
			return table, err
		}
	}

	table.LinkOrder(orderID)

	return table, s.saveTable(ctx, tx, &table, actor, now)
}

// checkTableOrder rejects taking over a table whose linked order is still open. A link to
// an order that was closed or removed is stale and may be replaced.
func (s *serviceImpl) checkTableOrder(ctx context.Context, table tableModel.Table) error {
	holder, err := s.repo.Get(ctx, shared.FilterByID(*table.CurrentOrderID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("order_id", *table.CurrentOrderID).Msg("failed to get order linked to table")

		return fmt.Errorf("failed to get order linked to table: %w", err)
	}

	if holder.ID == constant.Empty || holder.Closed() {
		log.Warn().Str("table_id", table.ID).Str("order_id", *table.CurrentOrderID).Msg("replacing stale order link on table")

		return nil
	}

	return failure.InvalidState("table "+table.TableNumber+" already has open order "+holder.OrderNumber, map[string]any{
		"table_id":             table.ID,
		"table_number":         table.TableNumber,
		"current_order_id":     holder.ID,
		"current_order_number": holder.OrderNumber,
	}) // nolint:wrapcheck
}

// unlinkTable clears the table's order reference if it still points at orderID.
func (s *serviceImpl) unlinkTable(ctx context.Context, tx *sqlx.Tx, number, orderID string, actor gModel.Actor, now time.Time) ([]tableModel.Table, error) {
	if number == constant.Empty {
		return nil, nil
	}

	table, err := s.tableRepo.GetForUpdateTx(ctx, tx, tableRepo.ByNumber(number))
	if err != nil {
		log.Error().Err(err).Str("table_number", number).Msg("failed to lock table")

		return nil, fmt.Errorf("failed to lock table: %w", err)
	}

	if table.ID == constant.Empty || !table.UnlinkOrder(orderID) {
		return nil, nil
	}

	if err := s.saveTable(ctx, tx, &table, actor, now); err != nil {
		return nil, err
	}

	return []tableModel.Table{table}, nil
}

func (s *serviceImpl) saveTable(ctx context.Context, tx *sqlx.Tx, table *tableModel.Table, actor gModel.Actor, now time.Time) error {
	table.Touch(actor.ID, now)

	if err := s.tableRepo.UpdateTx(ctx, tx, table.StateFields(), shared.FilterByID(table.ID, tableModel.FieldID, tableModel.TableName)); err != nil {
		log.Error().Err(err).Str("table_id", table.ID).Msg("failed to save table state")

		return fmt.Errorf("failed to save table state: %w", err)
	}

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, event string, data any, tables []tableModel.Table) {
	s.broadcaster.Publish(ctx, event, data, orderAudiences...)

	for _, table := range tables {
		var payload tableDto.TableResponse
		payload.FromModel(table, timezone.Now())
		s.broadcaster.Publish(ctx, notificationModel.EventTableUpdated, payload)
	}
}
