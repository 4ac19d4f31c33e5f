package reservation

import (
	"net/http"
	"restopos/infras/otel"
	"restopos/internal/domains/reservation/model/dto"
	"restopos/internal/domains/reservation/service"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	"restopos/shared/validator"
	"restopos/transport/http/response"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	queryStatus    = "status"
	queryDate      = "date"
	queryTime      = "time"
	queryTableID   = "table_id"
	queryDuration  = "duration"
	queryPartySize = "party_size"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/available-tables", handler.GetAvailableTables)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Put("/{id}", handler.UpdateReservation)
		routerGroup.Delete("/{id}", handler.DeleteReservation)
		routerGroup.Put("/{id}/status", handler.UpdateReservationStatus)
	})
}

// CreateReservation books a table for a time window.
// @Summary Create a reservation
// @Description Fails with ConflictError when the window overlaps another booking on the table.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} response.Data[dto.ReservationResponse] "Reservation created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("table_id", req.TableID).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetReservations retrieves reservations based on query parameters.
// @Summary Get all reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param table_id query string false "Filter by table"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.ReservationFilter{
		Status:  query.Get(queryStatus),
		Date:    query.Get(queryDate),
		TableID: query.Get(queryTableID),
	}

	reservations, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetAvailableTables lists tables that can seat the party for the whole window.
// @Summary Find available tables
// @Tags Reservation
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param time query string true "Start time (HH:MM)"
// @Param duration query int false "Duration in minutes"
// @Param party_size query int false "Party size"
// @Success 200 {object} response.Data[[]object] "Available tables"
// @Failure 400 {object} response.Error
// @Router /v1/reservations/available-tables [get]
// @Security BearerAuth
func (handler *Handler) GetAvailableTables(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableTables")
	defer scope.End()

	req, err := availableTablesRequest(r)
	if err == nil {
		err = validator.ValidateStruct(&req)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query")

		response.WithError(w, err)

		return
	}

	tables, err := handler.service.FindAvailableTables(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to find available tables")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tables)
}

func availableTablesRequest(r *http.Request) (dto.AvailableTablesRequest, error) {
	query := r.URL.Query()

	req := dto.AvailableTablesRequest{
		Date: query.Get(queryDate),
		Time: query.Get(queryTime),
	}

	for name, target := range map[string]*int{queryDuration: &req.Duration, queryPartySize: &req.PartySize} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}

		value, err := strconv.Atoi(raw)
		if err != nil {
			return req, failure.Validation(name+" must be a number", name) // nolint:wrapcheck
		}

		*target = value
	}

	return req, nil
}

// GetReservationByID retrieves a reservation by its ID.
// @Summary Get a reservation by ID
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation details"
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	reservation, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// UpdateReservation edits an open reservation and re-checks capacity and overlaps.
// @Summary Update a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateReservationRequest true "Update Reservation Request"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation updated successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/reservations/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateReservationRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation updated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteReservation removes a reservation and releases its table hold.
// @Summary Delete a reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message "Reservation deleted successfully"
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation deleted successfully")

	response.WithMessage(w, http.StatusOK, "Reservation deleted successfully")
}

// UpdateReservationStatus seats, completes, cancels or marks a reservation as no-show.
// @Summary Change the status of a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateReservationStatusRequest true "Update Reservation Status Request"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation status updated"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/status [put]
// @Security BearerAuth
func (handler *Handler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservationStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateReservationStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdateStatus(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("status", req.Status).Msg("failed to update reservation status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation status updated to " + req.Status)

	response.WithJSON(w, http.StatusOK, res)
}
