package settings

import (
	"net/http"
	"restopos/infras/otel"
	"restopos/internal/domains/settings/model/dto"
	"restopos/internal/domains/settings/service"
	"restopos/shared/constant"
	"restopos/shared/validator"
	"restopos/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Settings
	otel    otel.Otel
}

func New(service service.Settings, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/settings", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetSettings)
		routerGroup.Put("/", handler.UpdateSettings)
		routerGroup.Post("/reset", handler.ResetSettings)
	})
}

// GetSettings returns the restaurant settings.
// @Summary Get restaurant settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Data[dto.SettingsResponse] "Restaurant settings"
// @Failure 500 {object} response.Error
// @Router /v1/settings [get]
// @Security BearerAuth
func (handler *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSettings")
	defer scope.End()

	res, err := handler.service.Get(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get settings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateSettings patches the restaurant settings. Tax rate and number prefixes apply to
// orders and reservations created afterwards.
// @Summary Update restaurant settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Settings patch"
// @Success 200 {object} response.Data[dto.SettingsResponse] "Settings updated"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/settings [put]
// @Security BearerAuth
func (handler *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSettings")
	defer scope.End()

	req := dto.UpdateSettingsRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update settings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Settings updated")

	response.WithJSON(w, http.StatusOK, res)
}

// ResetSettings restores the configured defaults.
// @Summary Reset restaurant settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Data[dto.SettingsResponse] "Settings reset"
// @Failure 403 {object} response.Error
// @Router /v1/settings/reset [post]
// @Security BearerAuth
func (handler *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResetSettings")
	defer scope.End()

	res, err := handler.service.Reset(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reset settings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Settings reset")

	response.WithJSON(w, http.StatusOK, res)
}
