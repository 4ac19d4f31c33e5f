package inventory

import (
	"net/http"
	"restopos/infras/otel"
	"restopos/internal/domains/inventory/model/dto"
	"restopos/internal/domains/inventory/service"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	"restopos/shared/validator"
	"restopos/transport/http/response"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Inventory
	otel    otel.Otel
}

func New(service service.Inventory, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/inventory", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateItem)
		routerGroup.Get("/", handler.GetItems)
		routerGroup.Get("/alerts/low-stock", handler.GetLowStock)
		routerGroup.Get("/alerts/expiring", handler.GetExpiring)
		routerGroup.Get("/{id}", handler.GetItemByID)
		routerGroup.Put("/{id}", handler.UpdateItem)
		routerGroup.Delete("/{id}", handler.DeleteItem)
		routerGroup.Put("/{id}/stock", handler.AdjustStock)
	})
}

// CreateItem adds a stock item with its opening level.
// @Summary Create an inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body dto.CreateItemRequest true "Create Item Request"
// @Success 201 {object} response.Data[dto.ItemResponse] "Item created successfully"
// @Failure 400 {object} response.Error
// @Router /v1/inventory [post]
// @Security BearerAuth
func (handler *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateItem")
	defer scope.End()

	req := dto.CreateItemRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create inventory item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Inventory item created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetItems lists inventory items.
// @Summary Get all inventory items
// @Tags Inventory
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Param low_stock query bool false "Only items at or below their minimum"
// @Param search query string false "Search name and description"
// @Success 200 {object} response.Data[dto.GetItemsResponse] "List of items"
// @Router /v1/inventory [get]
// @Security BearerAuth
func (handler *Handler) GetItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetItems")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	lowStock, _ := strconv.ParseBool(query.Get("low_stock"))

	filter := dto.ItemFilter{
		Category: query.Get("category"),
		LowStock: lowStock,
		Search:   query.Get(constant.RequestParamSearch),
	}

	items, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get inventory items")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, items)
}

// GetLowStock lists items at or below their minimum level.
// @Summary Low stock alerts
// @Tags Inventory
// @Produce json
// @Success 200 {object} response.Data[[]dto.ItemResponse] "Low stock items"
// @Router /v1/inventory/alerts/low-stock [get]
// @Security BearerAuth
func (handler *Handler) GetLowStock(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLowStock")
	defer scope.End()

	items, err := handler.service.LowStock(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get low stock items")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, items)
}

// GetExpiring lists items expiring within the given number of days.
// @Summary Expiry alerts
// @Tags Inventory
// @Produce json
// @Param days query int false "Window in days (default 7)"
// @Success 200 {object} response.Data[[]dto.ItemResponse] "Expiring items"
// @Failure 400 {object} response.Error
// @Router /v1/inventory/alerts/expiring [get]
// @Security BearerAuth
func (handler *Handler) GetExpiring(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetExpiring")
	defer scope.End()

	var days int

	if raw := r.URL.Query().Get(constant.RequestParamDays); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.WithError(w, failure.Validation("days must be a non-negative number", constant.RequestParamDays))

			return
		}

		days = parsed
	}

	items, err := handler.service.Expiring(ctx, days)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get expiring items")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, items)
}

// GetItemByID retrieves an inventory item by its ID.
// @Summary Get an inventory item by ID
// @Tags Inventory
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Data[dto.ItemResponse] "Item details"
// @Failure 404 {object} response.Error
// @Router /v1/inventory/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetItemByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetItemByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	item, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get inventory item by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, item)
}

// UpdateItem edits an item's descriptive fields and thresholds. Stock levels change through AdjustStock.
// @Summary Update an inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.UpdateItemRequest true "Update Item Request"
// @Success 200 {object} response.Data[dto.ItemResponse] "Item updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/inventory/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateItemRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update inventory item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Inventory item updated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteItem removes an inventory item.
// @Summary Delete an inventory item
// @Tags Inventory
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Message "Item deleted successfully"
// @Failure 404 {object} response.Error
// @Router /v1/inventory/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete inventory item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Inventory item deleted successfully")

	response.WithMessage(w, http.StatusOK, "Inventory item deleted successfully")
}

// AdjustStock records a restock, usage, waste or absolute adjustment.
// @Summary Adjust stock level
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.AdjustStockRequest true "Adjust Stock Request"
// @Success 200 {object} response.Data[dto.ItemResponse] "Stock adjusted"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/inventory/{id}/stock [put]
// @Security BearerAuth
func (handler *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AdjustStock")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AdjustStockRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.AdjustStock(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("action", req.Action).Msg("failed to adjust stock")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Stock adjusted: " + req.Action)

	response.WithJSON(w, http.StatusOK, res)
}
