package order

import (
	"net/http"
	"restopos/infras/otel"
	"restopos/internal/domains/order/model/dto"
	"restopos/internal/domains/order/service"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/validator"
	"restopos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Order
	otel    otel.Otel
}

func New(service service.Order, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/orders", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateOrder)
		routerGroup.Get("/", handler.GetOrders)
		routerGroup.Get("/kitchen/display", handler.GetKitchenDisplay)
		routerGroup.Get("/{id}", handler.GetOrderByID)
		routerGroup.Put("/{id}", handler.UpdateOrder)
		routerGroup.Delete("/{id}", handler.DeleteOrder)
		routerGroup.Put("/{id}/status", handler.UpdateOrderStatus)
	})
}

// CreateOrder prices the lines from the menu and opens a pending order.
// @Summary Create an order
// @Tags Order
// @Accept json
// @Produce json
// @Param request body dto.CreateOrderRequest true "Create Order Request"
// @Success 201 {object} response.Data[dto.OrderResponse] "Order created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/orders [post]
// @Security BearerAuth
func (handler *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOrder")
	defer scope.End()

	req := dto.CreateOrderRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create order")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Order " + res.OrderNumber + " created")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetOrders lists orders visible to the caller.
// @Summary Get all orders
// @Description Cashiers see their own orders, kitchen staff the active ones.
// @Tags Order
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param order_type query string false "Filter by order type"
// @Param table_number query string false "Filter by table number"
// @Param date query string false "Filter by creation date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetOrdersResponse] "List of orders"
// @Failure 400 {object} response.Error
// @Router /v1/orders [get]
// @Security BearerAuth
func (handler *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOrders")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.OrderFilter{
		Status:      query.Get("status"),
		OrderType:   query.Get("order_type"),
		TableNumber: query.Get("table_number"),
		Date:        query.Get("date"),
	}

	orders, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get orders")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, orders)
}

// GetKitchenDisplay lists the orders the kitchen still has to work on, oldest first.
// @Summary Kitchen display
// @Tags Order
// @Produce json
// @Success 200 {object} response.Data[[]dto.OrderResponse] "Kitchen queue"
// @Router /v1/orders/kitchen/display [get]
// @Security BearerAuth
func (handler *Handler) GetKitchenDisplay(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetKitchenDisplay")
	defer scope.End()

	orders, err := handler.service.KitchenDisplay(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get kitchen display")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, orders)
}

// GetOrderByID retrieves an order by its ID.
// @Summary Get an order by ID
// @Tags Order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Data[dto.OrderResponse] "Order details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/orders/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOrderByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	order, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get order by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, order)
}

// UpdateOrder edits customer details, table or notes while the order is pending or confirmed.
// @Summary Update an order
// @Tags Order
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body dto.UpdateOrderRequest true "Update Order Request"
// @Success 200 {object} response.Data[dto.OrderResponse] "Order updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/orders/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateOrder")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateOrderRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update order")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Order updated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteOrder removes a pending or cancelled order.
// @Summary Delete an order
// @Tags Order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Message "Order deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/orders/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteOrder")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete order")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Order deleted successfully")

	response.WithMessage(w, http.StatusOK, "Order deleted successfully")
}

// UpdateOrderStatus advances an order through the kitchen workflow.
// @Summary Change the status of an order
// @Description The caller's role limits which statuses it may set.
// @Tags Order
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body dto.UpdateOrderStatusRequest true "Update Order Status Request"
// @Success 200 {object} response.Data[dto.OrderResponse] "Order status updated"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/orders/{id}/status [put]
// @Security BearerAuth
func (handler *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateOrderStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateOrderStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdateStatus(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("status", req.Status).Msg("failed to update order status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Order status updated to " + req.Status)

	response.WithJSON(w, http.StatusOK, res)
}
