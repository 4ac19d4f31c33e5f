package report

import (
	"net/http"
	"restopos/infras/otel"
	"restopos/internal/domains/report/model/dto"
	"restopos/internal/domains/report/service"
	"restopos/shared/constant"
	"restopos/shared/validator"
	"restopos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Get("/sales", handler.GetSalesReport)
		routerGroup.Get("/inventory", handler.GetInventoryReport)
		routerGroup.Get("/staff", handler.GetStaffReport)
		routerGroup.Get("/menu", handler.GetMenuReport)
	})
}

func rangeRequest(r *http.Request) (dto.RangeRequest, error) {
	query := r.URL.Query()
	req := dto.RangeRequest{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		GroupBy:   query.Get("group_by"),
	}

	return req, validator.ValidateStruct(&req) // nolint:wrapcheck
}

// GetSalesReport aggregates revenue of ready and completed orders.
// @Summary Sales report
// @Tags Reports
// @Produce json
// @Param start_date query string false "First day, YYYY-MM-DD. Defaults to 30 days before end_date"
// @Param end_date query string false "Last day, YYYY-MM-DD. Defaults to today"
// @Param group_by query string false "day, week or month"
// @Success 200 {object} response.Data[dto.SalesReport] "Sales report"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/reports/sales [get]
// @Security BearerAuth
func (handler *Handler) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSalesReport")
	defer scope.End()

	req, err := rangeRequest(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Sales(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build sales report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// @Summary Inventory report
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Data[dto.InventoryReport] "Inventory report"
// @Failure 403 {object} response.Error
// @Router /v1/reports/inventory [get]
// @Security BearerAuth
func (handler *Handler) GetInventoryReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInventoryReport")
	defer scope.End()

	res, err := handler.service.Inventory(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build inventory report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// @Summary Staff report
// @Tags Reports
// @Produce json
// @Param start_date query string false "First day, YYYY-MM-DD"
// @Param end_date query string false "Last day, YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.StaffReport] "Staff report"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/reports/staff [get]
// @Security BearerAuth
func (handler *Handler) GetStaffReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStaffReport")
	defer scope.End()

	req, err := rangeRequest(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Staff(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build staff report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetMenuReport ranks menu items and categories by sales.
// @Summary Menu performance report
// @Tags Reports
// @Produce json
// @Param start_date query string false "First day, YYYY-MM-DD"
// @Param end_date query string false "Last day, YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.MenuReport] "Menu report"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/reports/menu [get]
// @Security BearerAuth
func (handler *Handler) GetMenuReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMenuReport")
	defer scope.End()

	req, err := rangeRequest(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Menu(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build menu report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
