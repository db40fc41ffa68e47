package router

import (
	"github.com/go-chi/chi/v5"

	"alojasys/internal/handlers/payment"
	"alojasys/internal/handlers/reservation"
	"alojasys/internal/handlers/room"
	"alojasys/internal/handlers/transfer"
)

type DomainHandlers struct {
	Room        room.Handler
	Reservation reservation.Handler
	Payment     payment.Handler
	Transfer    transfer.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Transfer.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
