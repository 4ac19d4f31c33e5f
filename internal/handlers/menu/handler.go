package menu

import (
	"net/http"
	"restopos/infras/otel"
	"restopos/internal/domains/menu/model/dto"
	"restopos/internal/domains/menu/service"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	"restopos/shared/validator"
	"restopos/transport/http/response"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	formName            = "name"
	formDescription     = "description"
	formPrice           = "price"
	formCategory        = "category"
	formPreparationTime = "preparation_time"
	formAvailable       = "available"
	formImage           = "image"
)

type Handler struct {
	service service.Menu
	otel    otel.Otel
}

func New(service service.Menu, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/menu", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateMenuItem)
		routerGroup.Get("/", handler.GetMenuItems)
		routerGroup.Get("/{id}", handler.GetMenuItemByID)
		routerGroup.Put("/{id}", handler.UpdateMenuItem)
		routerGroup.Put("/{id}/image", handler.ReplaceImage)
		routerGroup.Put("/{id}/availability", handler.SetAvailability)
		routerGroup.Delete("/{id}", handler.DeleteMenuItem)
	})
}

// CreateMenuItem adds a dish. A multipart body may carry an image in the "image" field.
// @Summary Create a menu item
// @Tags Menu
// @Accept json,mpfd
// @Produce json
// @Param request body dto.CreateMenuItemRequest true "Create Menu Item Request"
// @Param image formData file false "Dish photo"
// @Success 201 {object} response.Data[dto.MenuItemResponse] "Menu item created successfully"
// @Failure 400 {object} response.Error
// @Router /v1/menu [post]
// @Security BearerAuth
func (handler *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMenuItem")
	defer scope.End()

	var (
		req dto.CreateMenuItemRequest
		err error
	)

	if strings.HasPrefix(r.Header.Get(constant.RequestHeaderContentType), constant.ContentTypeMultipartFormData) {
		req, err = fromMultipart(r)
		if err == nil {
			err = validator.ValidateStruct(&req)
		}
	} else {
		err = validator.Validate(r.Body, &req)
	}

	if req.ImageFile != nil {
		defer req.ImageFile.Close()
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create menu item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Menu item created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

func fromMultipart(r *http.Request) (dto.CreateMenuItemRequest, error) {
	req := dto.CreateMenuItemRequest{}

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return req, failure.BadRequest(err) // nolint:wrapcheck
	}

	req.Name = r.FormValue(formName)
	req.Description = r.FormValue(formDescription)
	req.Category = r.FormValue(formCategory)

	price, err := decimal.NewFromString(r.FormValue(formPrice))
	if err != nil {
		return req, failure.Validation("price must be a number", formPrice) // nolint:wrapcheck
	}

	req.Price = price

	if raw := r.FormValue(formPreparationTime); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return req, failure.Validation("preparation_time must be a number", formPreparationTime) // nolint:wrapcheck
		}

		req.PreparationTime = minutes
	}

	if raw := r.FormValue(formAvailable); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return req, failure.Validation("available must be true or false", formAvailable) // nolint:wrapcheck
		}

		req.Available = &available
	}

	file, header, err := r.FormFile(formImage)
	if err == nil {
		req.Image = header
		req.ImageFile = file
	} else if err != http.ErrMissingFile {
		return req, failure.BadRequest(err) // nolint:wrapcheck
	}

	return req, nil
}

// GetMenuItems lists menu items.
// @Summary Get all menu items
// @Tags Menu
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Param available query bool false "Filter by availability"
// @Param search query string false "Search name and description"
// @Success 200 {object} response.Data[dto.GetMenuItemsResponse] "List of menu items"
// @Router /v1/menu [get]
// @Security BearerAuth
func (handler *Handler) GetMenuItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMenuItems")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.MenuFilter{
		Category: query.Get(formCategory),
		Search:   query.Get(constant.RequestParamSearch),
	}

	if available, err := strconv.ParseBool(query.Get(formAvailable)); err == nil {
		filter.Available = &available
	}

	items, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get menu items")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, items)
}

// GetMenuItemByID retrieves a menu item by its ID.
// @Summary Get a menu item by ID
// @Tags Menu
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} response.Data[dto.MenuItemResponse] "Menu item details"
// @Failure 404 {object} response.Error
// @Router /v1/menu/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetMenuItemByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMenuItemByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	item, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get menu item by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, item)
}

// UpdateMenuItem edits a menu item.
// @Summary Update a menu item
// @Tags Menu
// @Accept json
// @Produce json
// @Param id path string true "Menu item ID"
// @Param request body dto.UpdateMenuItemRequest true "Update Menu Item Request"
// @Success 200 {object} response.Data[dto.MenuItemResponse] "Menu item updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/menu/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMenuItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateMenuItemRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update menu item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Menu item updated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// ReplaceImage uploads a new dish photo and removes the previous one.
// @Summary Replace a menu item image
// @Tags Menu
// @Accept mpfd
// @Produce json
// @Param id path string true "Menu item ID"
// @Param image formData file true "Dish photo"
// @Success 200 {object} response.Data[dto.MenuItemResponse] "Image replaced"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/menu/{id}/image [put]
// @Security BearerAuth
func (handler *Handler) ReplaceImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReplaceImage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := r.FormFile(formImage)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, failure.BadRequest(err))

		return
	}
	defer file.Close()

	if err := validator.ValidateStruct(&dto.ImageRequest{Image: fileHeader}); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.ReplaceImage(ctx, id, fileHeader, file)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to replace menu image")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Menu image replaced")

	response.WithJSON(w, http.StatusOK, res)
}

// SetAvailability marks a dish as available or sold out.
// @Summary Toggle menu item availability
// @Tags Menu
// @Accept json
// @Produce json
// @Param id path string true "Menu item ID"
// @Param request body dto.AvailabilityRequest true "Availability Request"
// @Success 200 {object} response.Data[dto.MenuItemResponse] "Availability updated"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/menu/{id}/availability [put]
// @Security BearerAuth
func (handler *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetAvailability")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AvailabilityRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.SetAvailability(ctx, id, *req.Available)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set menu availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteMenuItem removes a menu item and its image.
// @Summary Delete a menu item
// @Tags Menu
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} response.Message "Menu item deleted successfully"
// @Failure 404 {object} response.Error
// @Router /v1/menu/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMenuItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete menu item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Menu item deleted successfully")

	response.WithMessage(w, http.StatusOK, "Menu item deleted successfully")
}
