package router

import (
	"restopos/internal/handlers/auth"
	"restopos/internal/handlers/events"
	"restopos/internal/handlers/inventory"
	"restopos/internal/handlers/menu"
	"restopos/internal/handlers/order"
	"restopos/internal/handlers/report"
	"restopos/internal/handlers/reservation"
	"restopos/internal/handlers/settings"
	"restopos/internal/handlers/table"
	"restopos/internal/handlers/user"
	"restopos/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	User        user.Handler
	Table       table.Handler
	Reservation reservation.Handler
	Order       order.Handler
	Inventory   inventory.Handler
	Menu        menu.Handler
	Settings    settings.Handler
	Report      report.Handler
	Events      events.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

// SetupRoutes mounts every versioned route behind API key, token and role checks.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Table.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Order.Router(routerGroup)
		r.DomainHandlers.Inventory.Router(routerGroup)
		r.DomainHandlers.Menu.Router(routerGroup)
		r.DomainHandlers.Settings.Router(routerGroup)
		r.DomainHandlers.Report.Router(routerGroup)
		r.DomainHandlers.Events.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
