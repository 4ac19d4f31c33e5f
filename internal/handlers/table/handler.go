package table

import (
	"net/http"
	"restopos/infras/otel"
	"restopos/internal/domains/table/model"
	"restopos/internal/domains/table/model/dto"
	"restopos/internal/domains/table/service"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	"restopos/shared/validator"
	"restopos/transport/http/response"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryMinCapacity = "min_capacity"

type Handler struct {
	service service.Table
	otel    otel.Otel
}

func New(service service.Table, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tables", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTable)
		routerGroup.Get("/", handler.GetTables)
		routerGroup.Get("/{id}", handler.GetTableByID)
		routerGroup.Put("/{id}", handler.UpdateTable)
		routerGroup.Delete("/{id}", handler.DeleteTable)
		routerGroup.Put("/{id}/status", handler.UpdateTableStatus)
		routerGroup.Post("/{id}/maintenance", handler.ReportMaintenance)
	})
}

// CreateTable handles the creation of a new table.
// @Summary Create a new table
// @Description Create a dining table. Table numbers are unique.
// @Tags Table
// @Accept json
// @Produce json
// @Param request body dto.CreateTableRequest true "Create Table Request"
// @Success 201 {object} response.Data[dto.TableResponse] "Table created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables [post]
// @Security BearerAuth
func (handler *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTable")
	defer scope.End()

	req := dto.CreateTableRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create table")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Table created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetTables retrieves all tables based on query parameters.
// @Summary Get all tables
// @Description Retrieve tables with optional filtering and pagination.
// @Tags Table
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param location query string false "Filter by location"
// @Param min_capacity query int false "Minimum seats"
// @Success 200 {object} response.Data[dto.GetTablesResponse] "List of tables"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables [get]
// @Security BearerAuth
func (handler *Handler) GetTables(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTables")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.TableFilter{
		Status:   query.Get(model.FieldStatus),
		Location: query.Get(model.FieldLocation),
	}

	if raw := query.Get(queryMinCapacity); raw != "" {
		minCapacity, err := strconv.Atoi(raw)
		if err != nil || minCapacity < 0 {
			response.WithError(w, failure.Validation("min_capacity must be a positive number", queryMinCapacity))

			return
		}

		filter.MinCapacity = minCapacity
	}

	tables, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tables")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tables retrieved successfully")

	response.WithJSON(w, http.StatusOK, tables)
}

// GetTableByID retrieves a table by its ID.
// @Summary Get a table by ID
// @Tags Table
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Data[dto.TableResponse] "Table details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tables/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTableByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTableByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	table, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get table by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, table)
}

// UpdateTable updates the descriptive fields of a table.
// @Summary Update a table by ID
// @Tags Table
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param request body dto.UpdateTableRequest true "Update Table Request"
// @Success 200 {object} response.Data[dto.TableResponse] "Table updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/tables/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTable")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateTableRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update table")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Table updated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteTable deletes a table that is neither occupied, reserved nor linked to an order.
// @Summary Delete a table by ID
// @Tags Table
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Message "Table deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/tables/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTable")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete table")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Table deleted successfully")

	response.WithMessage(w, http.StatusOK, "Table deleted successfully")
}

// UpdateTableStatus moves a table to available, occupied or maintenance.
// @Summary Change the status of a table
// @Description Reserved can only be set by a reservation.
// @Tags Table
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param request body dto.UpdateTableStatusRequest true "Update Table Status Request"
// @Success 200 {object} response.Data[dto.TableResponse] "Table status updated"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/tables/{id}/status [put]
// @Security BearerAuth
func (handler *Handler) UpdateTableStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTableStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateTableStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdateStatus(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("status", req.Status).Msg("failed to update table status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Table status updated to " + req.Status)

	response.WithJSON(w, http.StatusOK, res)
}

// ReportMaintenance takes an available table out of service.
// @Summary Report a maintenance issue
// @Tags Table
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param request body dto.MaintenanceRequest true "Maintenance Request"
// @Success 200 {object} response.Data[dto.TableResponse] "Maintenance reported"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/tables/{id}/maintenance [post]
// @Security BearerAuth
func (handler *Handler) ReportMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReportMaintenance")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.MaintenanceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.ReportMaintenance(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to report maintenance")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance reported")

	response.WithJSON(w, http.StatusOK, res)
}
