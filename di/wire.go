//go:build wireinject
// +build wireinject

package di

import (
	"restopos/config"
	"restopos/infras/jwt"
	"restopos/infras/otel"
	"restopos/infras/postgres"
	"restopos/infras/redis"
	"restopos/infras/s3"
	"restopos/internal/domains/notification/hub"
	"restopos/permissions"
	"restopos/shared/cache"
	"restopos/transport/http"
	"restopos/transport/http/middleware"
	"restopos/transport/http/router"

	"github.com/google/wire"

	authService "restopos/internal/domains/auth/service"
	inventoryRepository "restopos/internal/domains/inventory/repository"
	inventoryService "restopos/internal/domains/inventory/service"
	menuRepository "restopos/internal/domains/menu/repository"
	menuService "restopos/internal/domains/menu/service"
	orderRepository "restopos/internal/domains/order/repository"
	orderService "restopos/internal/domains/order/service"
	reportRepository "restopos/internal/domains/report/repository"
	reportService "restopos/internal/domains/report/service"
	reservationRepository "restopos/internal/domains/reservation/repository"
	reservationService "restopos/internal/domains/reservation/service"
	settingsRepository "restopos/internal/domains/settings/repository"
	settingsService "restopos/internal/domains/settings/service"
	tableRepository "restopos/internal/domains/table/repository"
	tableService "restopos/internal/domains/table/service"
	userRepository "restopos/internal/domains/user/repository"
	userService "restopos/internal/domains/user/service"
	authHandler "restopos/internal/handlers/auth"
	eventsHandler "restopos/internal/handlers/events"
	inventoryHandler "restopos/internal/handlers/inventory"
	menuHandler "restopos/internal/handlers/menu"
	orderHandler "restopos/internal/handlers/order"
	reportHandler "restopos/internal/handlers/report"
	reservationHandler "restopos/internal/handlers/reservation"
	settingsHandler "restopos/internal/handlers/settings"
	tableHandler "restopos/internal/handlers/table"
	userHandler "restopos/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var notificationDomain = wire.NewSet(
	hub.New,
	wire.Bind(new(eventsHandler.Subscriptions), new(*hub.Hub)),
	ProvideBroadcaster,
)

var settingsDomain = wire.NewSet(
	settingsRepository.New,
	settingsService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var tableDomain = wire.NewSet(
	tableRepository.New,
	tableService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var menuDomain = wire.NewSet(
	menuRepository.New,
	menuService.New,
)

var orderDomain = wire.NewSet(
	orderRepository.New,
	orderService.New,
)

var inventoryDomain = wire.NewSet(
	inventoryRepository.New,
	inventoryService.New,
)

var reportDomain = wire.NewSet(
	reportRepository.New,
	reportService.New,
)

var domains = wire.NewSet(
	notificationDomain,
	settingsDomain,
	userDomain,
	authDomain,
	tableDomain,
	reservationDomain,
	menuDomain,
	orderDomain,
	inventoryDomain,
	reportDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	tableHandler.New,
	reservationHandler.New,
	orderHandler.New,
	inventoryHandler.New,
	menuHandler.New,
	settingsHandler.New,
	reportHandler.New,
	eventsHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, func()) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		ProvideServer,
	)

	return nil, nil
}
