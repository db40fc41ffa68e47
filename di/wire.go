//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"alojasys/config"
	"alojasys/infras/kafka"
	"alojasys/infras/otel"
	"alojasys/infras/postgres"
	"alojasys/infras/redis"
	"alojasys/infras/s3"
	"alojasys/internal/external/cardgateway"
	"alojasys/internal/external/ocr"
	"alojasys/internal/external/pricing"
	"alojasys/shared/cache"
	"alojasys/transport/http"
	"alojasys/transport/http/middleware"
	"alojasys/transport/http/router"

	paymentRepository "alojasys/internal/domains/payment/repository"
	paymentService "alojasys/internal/domains/payment/service"
	reservationRepository "alojasys/internal/domains/reservation/repository"
	reservationService "alojasys/internal/domains/reservation/service"
	roomRepository "alojasys/internal/domains/room/repository"
	roomService "alojasys/internal/domains/room/service"
	transferRepository "alojasys/internal/domains/transfer/repository"
	transferService "alojasys/internal/domains/transfer/service"

	paymentHandler "alojasys/internal/handlers/payment"
	reservationHandler "alojasys/internal/handlers/reservation"
	roomHandler "alojasys/internal/handlers/room"
	transferHandler "alojasys/internal/handlers/transfer"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var externalClients = wire.NewSet(
	cardgateway.New,
	pricing.New,
	ocr.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var transferDomain = wire.NewSet(
	transferRepository.New,
	transferService.New,
)

var domains = wire.NewSet(
	roomDomain,
	reservationDomain,
	paymentDomain,
	transferDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	reservationHandler.New,
	paymentHandler.New,
	transferHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		externalClients,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
