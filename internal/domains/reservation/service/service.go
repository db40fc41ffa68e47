package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"alojasys/config"
	"alojasys/infras/otel"
	"alojasys/internal/domains/availability"
	paymentRepo "alojasys/internal/domains/payment/repository"
	"alojasys/internal/domains/reservation/model"
	"alojasys/internal/domains/reservation/model/dto"
	"alojasys/internal/domains/reservation/repository"
	roomModel "alojasys/internal/domains/room/model"
	roomRepo "alojasys/internal/domains/room/repository"
	"alojasys/internal/external/pricing"
	"alojasys/shared"
	"alojasys/shared/cache"
	"alojasys/shared/constant"
	gDto "alojasys/shared/dto"
	"alojasys/shared/failure"
	"alojasys/shared/timezone"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
	cacheAvailability      = "reservation:availability"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) error
	Availability(ctx context.Context, roomID string) (dto.AvailabilityResponse, error)
	Deposit(ctx context.Context, id string) (dto.DepositResponse, error)
	Balance(ctx context.Context, id string) (dto.BalanceResponse, error)
}

type serviceImpl struct {
	repo        repository.Reservation
	roomRepo    roomRepo.Room
	paymentRepo paymentRepo.Payment
	pricing     pricing.Client
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Reservation,
	roomRepo roomRepo.Room,
	paymentRepo paymentRepo.Payment,
	pricing pricing.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:        repo,
		roomRepo:    roomRepo,
		paymentRepo: paymentRepo,
		pricing:     pricing,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	roomExists, err := s.roomRepo.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !roomExists {
		return res, failure.BadRequestFromString("room does not exist") // nolint:wrapcheck
	}

	reservation, err := req.ToModel(user, 0)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse reservation request")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if err = s.ensureNoConflict(ctx, req.RoomID, reservation.CheckIn, reservation.CheckOut, constant.Empty); err != nil {
		return res, err
	}

	quote, err := s.pricing.Quote(ctx, pricing.QuoteRequest{
		RoomID:   req.RoomID,
		Guests:   req.Guests,
		CheckIn:  reservation.CheckIn,
		CheckOut: reservation.CheckOut,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to quote reservation price")

		return res, fmt.Errorf("failed to quote reservation price: %w", err)
	}

	reservation.TotalPrice = quote.Total

	if err = s.repo.Insert(ctx, reservation); err != nil {
		log.Error().Err(err).Msg("failed to create reservation")

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
		shared.InvalidateCaches(c, s.cache, cacheAvailability)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.getByID(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, user)

	if req.MovesDates() {
		checkIn, checkOut, err := s.resolveWindow(req, current)
		if err != nil {
			return err
		}

		if err = s.ensureNoConflict(ctx, current.RoomID, checkIn, checkOut, current.ID); err != nil {
			return err
		}

		updatedFields[model.FieldCheckIn] = checkIn
		updatedFields[model.FieldCheckOut] = checkOut
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update reservation")

		return fmt.Errorf("failed to update reservation: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if err = validTransition(current.Status, req.Status); err != nil {
		return err
	}

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	// Money gates both door movements: nobody checks in or out with an
	// outstanding balance unless the operator forces it.
	if req.Status == model.StatusCheckIn || req.Status == model.StatusCheckOut {
		balance, err := s.Balance(ctx, id)
		if err != nil {
			return err
		}

		if balance.RequiresPayment && !req.Force {
			return failure.PaymentRequired("reservation has an outstanding balance", constant.ReasonPaymentRequired, balance) // nolint:wrapcheck
		}

		if balance.RequiresPayment && req.Force {
			updatedFields[model.FieldNotes] = appendNote(current.Notes, req.Note)
		}
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update reservation status")

		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Availability(ctx context.Context, roomID string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Availability")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheAvailability, roomID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability")

		return res, nil
	}

	roomExists, err := s.roomRepo.Exist(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !roomExists {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	occupancy, err := s.occupancy(ctx, roomID, constant.Empty)
	if err != nil {
		return res, err
	}

	res.FromOccupancy(roomID, occupancy)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Deposit(ctx context.Context, id string) (res dto.DepositResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Deposit")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.getByID(ctx, id)
	if err != nil {
		return res, err
	}

	policy, err := s.pricing.DepositPolicy(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch deposit policy")

		return res, fmt.Errorf("failed to fetch deposit policy: %w", err)
	}

	res.Required = policy.Required
	res.Amount = policy.Amount
	res.Type = policy.Type
	res.Offerable = policy.Offerable(reservation.TotalPrice)

	return res, nil
}

func (s *serviceImpl) Balance(ctx context.Context, id string) (res dto.BalanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Balance")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.getByID(ctx, id)
	if err != nil {
		return res, err
	}

	paid, err := s.paymentRepo.SumSettled(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to sum settled payments")

		return res, fmt.Errorf("failed to sum settled payments: %w", err)
	}

	res.TotalReservation = reservation.TotalPrice
	res.TotalPaid = paid
	res.BalanceDue = reservation.TotalPrice - paid
	res.RequiresPayment = res.BalanceDue > 0

	return res, nil
}

func (s *serviceImpl) getByID(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	return reservation, nil
}

// occupancy loads every night-holding reservation of a room and projects it.
// excludeID drops one reservation from the picture, which is how an update
// avoids colliding with its own current window.
func (s *serviceImpl) occupancy(ctx context.Context, roomID, excludeID string) (availability.Occupancy, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: roomID},
			gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorIn, Value: model.OccupyingStatuses},
		},
	}

	if excludeID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field: model.FieldID, Table: model.TableName, Operator: gDto.FilterOperatorNotEq, Value: excludeID,
		})
	}

	reservations, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to load room reservations")

		return availability.Occupancy{}, fmt.Errorf("failed to load room reservations: %w", err)
	}

	snapshot := availability.Snapshot{}

	for _, reservation := range reservations {
		booking := availability.Booking{
			ID:       reservation.ID,
			CheckIn:  reservation.CheckIn,
			CheckOut: reservation.CheckOut,
			Status:   reservation.Status,
		}

		if reservation.Status == model.StatusCheckIn && snapshot.Current == nil {
			snapshot.Current = &booking

			continue
		}

		snapshot.Future = append(snapshot.Future, booking)
	}

	return availability.Build(snapshot), nil
}

func (s *serviceImpl) ensureNoConflict(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) error {
	occupancy, err := s.occupancy(ctx, roomID, excludeID)
	if err != nil {
		return err
	}

	if availability.HasConflict(checkIn, checkOut, occupancy.OccupiedNights) {
		return failure.ConflictWithReason("selected dates are no longer available", constant.ReasonDateConflict) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) resolveWindow(req dto.UpdateReservationRequest, current model.Reservation) (time.Time, time.Time, error) {
	checkIn := current.CheckIn
	checkOut := current.CheckOut

	if req.CheckIn != constant.Empty {
		parsed, err := time.Parse(constant.DayFormat, req.CheckIn)
		if err != nil {
			return checkIn, checkOut, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
		}

		checkIn = parsed
	}

	if req.CheckOut != constant.Empty {
		parsed, err := time.Parse(constant.DayFormat, req.CheckOut)
		if err != nil {
			return checkIn, checkOut, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
		}

		checkOut = parsed
	}

	checkIn, checkOut = availability.NormalizeWindow(checkIn, checkOut)

	return checkIn, checkOut, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
		shared.InvalidateCaches(c, s.cache, cacheAvailability)
	}()
}

func validTransition(from, to string) error {
	allowed := map[string][]string{
		model.StatusPending:   {model.StatusConfirmed, model.StatusCheckIn, model.StatusCancelled},
		model.StatusConfirmed: {model.StatusCheckIn, model.StatusCancelled},
		model.StatusCheckIn:   {model.StatusCheckOut},
	}

	for _, next := range allowed[from] {
		if next == to {
			return nil
		}
	}

	return failure.Conflict(fmt.Sprintf("cannot move reservation from %s to %s", from, to)) // nolint:wrapcheck
}

func appendNote(existing, note string) string {
	if existing == constant.Empty {
		return note
	}

	return strings.TrimSpace(existing) + "\n" + note
}
