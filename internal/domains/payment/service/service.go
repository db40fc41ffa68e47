package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"alojasys/config"
	"alojasys/infras/kafka"
	"alojasys/infras/otel"
	"alojasys/internal/domains/payment/model"
	"alojasys/internal/domains/payment/model/dto"
	"alojasys/internal/domains/payment/repository"
	reservationModel "alojasys/internal/domains/reservation/model"
	reservationRepo "alojasys/internal/domains/reservation/repository"
	transferModel "alojasys/internal/domains/transfer/model"
	transferRepo "alojasys/internal/domains/transfer/repository"
	"alojasys/internal/external/cardgateway"
	"alojasys/internal/external/pricing"
	"alojasys/shared"
	"alojasys/shared/cache"
	"alojasys/shared/constant"
	gDto "alojasys/shared/dto"
	"alojasys/shared/failure"
	gModel "alojasys/shared/model"
	"alojasys/shared/timezone"
)

const (
	cacheSession       = "payment:session"
	cacheGetAllPayment = "payment:gets"
	cacheCountPayment  = "payment:count"
)

type Payment interface {
	StartSession(ctx context.Context, req dto.StartSessionRequest) (dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (dto.SessionResponse, error)
	SelectAmount(ctx context.Context, sessionID string, req dto.SelectAmountRequest) (dto.SessionResponse, error)
	SelectMethod(ctx context.Context, sessionID string, req dto.SelectMethodRequest) (dto.SessionResponse, error)
	Back(ctx context.Context, sessionID string) (dto.SessionResponse, error)
	Submit(ctx context.Context, sessionID string, req dto.SubmitRequest) (dto.SessionResponse, error)
	CloseSession(ctx context.Context, sessionID string) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPaymentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo            repository.Payment
	reservationRepo reservationRepo.Reservation
	transferRepo    transferRepo.Transfer
	gateway         cardgateway.Client
	pricing         pricing.Client
	cfg             *config.Config
	cache           cache.RedisCache
	kafka           kafka.Client
	otel            otel.Otel
	poller          Poller

	// one in-flight attempt per session
	attempts sync.Map
}

func New(
	repo repository.Payment,
	reservationRepo reservationRepo.Reservation,
	transferRepo transferRepo.Transfer,
	gateway cardgateway.Client,
	pricingClient pricing.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	kafkaClient kafka.Client,
	otel otel.Otel,
) Payment {
	svc := &serviceImpl{
		repo:            repo,
		reservationRepo: reservationRepo,
		transferRepo:    transferRepo,
		gateway:         gateway,
		pricing:         pricingClient,
		cfg:             cfg,
		cache:           cache,
		kafka:           kafkaClient,
		otel:            otel,
	}

	svc.poller = NewPoller(
		gateway,
		time.Duration(cfg.Payment.Poller.IntervalSeconds)*time.Second,
		cfg.Payment.Poller.MaxAttempts,
		svc.settleGatewayResult,
	)

	return svc
}

func (s *serviceImpl) StartSession(ctx context.Context, req dto.StartSessionRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StartSession")
	defer scope.End()
	defer scope.TraceIfError(err)

	purpose := req.Purpose
	if purpose == constant.Empty {
		purpose = model.PurposeBooking
	}

	reservation, err := s.getReservation(ctx, req.ReservationID)
	if err != nil {
		return res, err
	}

	if reservation.Status == reservationModel.StatusCancelled || reservation.Status == reservationModel.StatusCheckOut {
		return res, failure.Conflict("reservation is no longer payable") // nolint:wrapcheck
	}

	paid, err := s.repo.SumSettled(ctx, reservation.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to sum settled payments")

		return res, fmt.Errorf("failed to sum settled payments: %w", err)
	}

	session := model.Session{
		ID:            uuid.NewString(),
		ReservationID: reservation.ID,
		Purpose:       purpose,
		Step:          model.StepAmountSelection,
		TotalPrice:    reservation.TotalPrice,
		BalanceDue:    reservation.TotalPrice - paid,
	}

	// Balance sessions have nothing to choose: the amount is fixed to what
	// is still owed. Booking sessions only get the amount step when the
	// deposit policy actually offers a partial payment.
	if purpose == model.PurposeBalance {
		amount, isDeposit, err := ResolveAmount(purpose, nil, session.TotalPrice, session.BalanceDue)
		if err != nil {
			return res, err
		}

		session.Amount = &amount
		session.IsDeposit = isDeposit
		session.Step = model.StepMethodSelection
	} else {
		policy, err := s.pricing.DepositPolicy(ctx, reservation.ID)
		if err != nil {
			log.Error().Err(err).Msg("failed to fetch deposit policy")

			return res, fmt.Errorf("failed to fetch deposit policy: %w", err)
		}

		if policy.Offerable(reservation.TotalPrice) {
			session.DepositAmount = &policy.Amount
		} else {
			amount, isDeposit, err := ResolveAmount(purpose, nil, session.TotalPrice, session.BalanceDue)
			if err != nil {
				return res, err
			}

			session.Amount = &amount
			session.IsDeposit = isDeposit
			session.Step = model.StepMethodSelection
		}
	}

	if err = s.saveSession(ctx, session); err != nil {
		return res, err
	}

	res.FromSession(session)

	return res, nil
}

func (s *serviceImpl) GetSession(ctx context.Context, sessionID string) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSession")
	defer scope.End()
	defer scope.TraceIfError(err)

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return res, err
	}

	res.FromSession(session)

	return res, nil
}

func (s *serviceImpl) SelectAmount(ctx context.Context, sessionID string, req dto.SelectAmountRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SelectAmount")
	defer scope.End()
	defer scope.TraceIfError(err)

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return res, err
	}

	if session.Step != model.StepAmountSelection {
		return res, failure.Conflict("session is past amount selection") // nolint:wrapcheck
	}

	amount, isDeposit, err := ResolveAmount(session.Purpose, req.Amount, session.TotalPrice, session.BalanceDue)
	if err != nil {
		return res, err
	}

	session.Amount = &amount
	session.IsDeposit = isDeposit
	session.Step = model.StepMethodSelection

	if err = s.saveSession(ctx, session); err != nil {
		return res, err
	}

	res.FromSession(session)

	return res, nil
}

func (s *serviceImpl) SelectMethod(ctx context.Context, sessionID string, req dto.SelectMethodRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SelectMethod")
	defer scope.End()
	defer scope.TraceIfError(err)

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return res, err
	}

	if session.Step != model.StepMethodSelection {
		return res, failure.Conflict("session is not at method selection") // nolint:wrapcheck
	}

	if !req.Method.Valid() {
		return res, failure.BadRequestFromString("unknown payment method") // nolint:wrapcheck
	}

	// Switching method invalidates whatever charge the previous one left
	// behind, including an in-flight confirmation poll.
	s.poller.Stop(session.ID)

	session.Method = req.Method
	session.GatewayRef = constant.Empty
	session.Outcome = nil
	session.Step = model.StepMethodForm

	if err = s.saveSession(ctx, session); err != nil {
		return res, err
	}

	res.FromSession(session)

	return res, nil
}

func (s *serviceImpl) Back(ctx context.Context, sessionID string) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Back")
	defer scope.End()
	defer scope.TraceIfError(err)

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return res, err
	}

	switch session.Step {
	case model.StepMethodForm:
		session.Method = constant.Empty
		session.Step = model.StepMethodSelection
	case model.StepMethodSelection:
		if session.Purpose == model.PurposeBalance {
			return res, failure.Conflict("balance sessions have a fixed amount") // nolint:wrapcheck
		}

		if session.DepositAmount == nil {
			return res, failure.Conflict("session has no amount step") // nolint:wrapcheck
		}

		session.Amount = nil
		session.IsDeposit = false
		session.Step = model.StepAmountSelection
	case model.StepResult:
		// Reopening a finished attempt resets it: the old result and its
		// gateway reference are gone, and any poll for them stops.
		s.poller.Stop(session.ID)

		session.Outcome = nil
		session.GatewayRef = constant.Empty
		session.Method = constant.Empty
		session.Step = model.StepMethodSelection
	default:
		return res, failure.Conflict("session cannot go further back") // nolint:wrapcheck
	}

	if err = s.saveSession(ctx, session); err != nil {
		return res, err
	}

	res.FromSession(session)

	return res, nil
}

func (s *serviceImpl) Submit(ctx context.Context, sessionID string, req dto.SubmitRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer scope.TraceIfError(err)

	lock, _ := s.attempts.LoadOrStore(sessionID, &sync.Mutex{})

	mutex, _ := lock.(*sync.Mutex)
	if !mutex.TryLock() {
		return res, failure.Conflict("a payment attempt is already in progress") // nolint:wrapcheck
	}
	defer mutex.Unlock()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return res, err
	}

	if session.Step != model.StepMethodForm {
		return res, failure.Conflict("session is not ready to submit") // nolint:wrapcheck
	}

	if session.Amount == nil {
		return res, failure.Conflict("session has no amount selected") // nolint:wrapcheck
	}

	switch session.Method {
	case model.MethodCard:
		err = s.submitCard(ctx, &session, req.Card)
	case model.MethodCash, model.MethodPOS:
		err = s.submitManual(ctx, &session, req.POS)
	case model.MethodTransfer:
		err = s.submitTransfer(ctx, &session)
	default:
		return res, failure.Conflict("session has no method selected") // nolint:wrapcheck
	}

	if err != nil {
		return res, err
	}

	session.Step = model.StepResult

	if err = s.saveSession(ctx, session); err != nil {
		return res, err
	}

	res.FromSession(session)

	return res, nil
}

func (s *serviceImpl) CloseSession(ctx context.Context, sessionID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CloseSession")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.poller.Stop(sessionID)
	s.attempts.Delete(sessionID)

	if err = s.cache.Delete(ctx, shared.BuildCacheKey(cacheSession, sessionID)); err != nil {
		log.Error().Err(err).Msg("failed to delete payment session")

		return fmt.Errorf("failed to delete payment session: %w", err)
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPayment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPayment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payment count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) submitCard(ctx context.Context, session *model.Session, card *dto.CardSubmission) error {
	// No card details means hosted checkout: open a gateway preference and
	// let the poller pick up its outcome.
	if card == nil {
		return s.openPreference(ctx, session)
	}

	token := card.Token
	if token == constant.Empty {
		tokenized, err := s.gateway.Tokenize(ctx, cardgateway.CardDetails{
			Number:          card.Number,
			ExpirationMonth: card.ExpirationMonth,
			ExpirationYear:  card.ExpirationYear,
			SecurityCode:    card.SecurityCode,
			HolderName:      card.HolderName,
			Identification:  card.Identification,
		})
		if err != nil {
			session.Outcome = errorOutcome(err)

			return nil
		}

		token = tokenized
	}

	charge, err := s.gateway.Charge(ctx, cardgateway.ChargeRequest{
		ReservationID:   session.ReservationID,
		Token:           token,
		PaymentMethodID: card.PaymentMethodID,
		Installments:    card.Installments,
		Amount:          *session.Amount,
	})
	if err != nil {
		session.Outcome = errorOutcome(err)

		return nil
	}

	session.GatewayRef = charge.ID

	switch charge.Status {
	case cardgateway.StatusApproved:
		payment := s.buildPayment(session, charge.Status, charge.StatusDetail, charge.ID, true)

		if err = s.registerApproved(ctx, *session, payment); err != nil {
			return err
		}

		session.Outcome = outcomeFor(charge, payment.ID)
	case cardgateway.StatusInProcess:
		payment := s.buildPayment(session, charge.Status, charge.StatusDetail, charge.ID, false)

		if err = s.repo.Insert(ctx, payment); err != nil {
			log.Error().Err(err).Msg("failed to record in-process payment")

			return fmt.Errorf("failed to record in-process payment: %w", err)
		}

		s.poller.Start(PollTarget{
			SessionID:          session.ID,
			PaymentID:          payment.ID,
			ReservationID:      session.ReservationID,
			Reference:          charge.ID,
			ConfirmReservation: session.Purpose == model.PurposeBooking,
			IsDeposit:          session.IsDeposit,
		}, s.pauseWhileEditing(session.ID))

		session.Outcome = outcomeFor(charge, payment.ID)
	default:
		// Declined attempts leave no payment row; the operator can retry
		// from the result step.
		session.Outcome = outcomeFor(charge, constant.Empty)
	}

	return nil
}

func (s *serviceImpl) openPreference(ctx context.Context, session *model.Session) error {
	preference, err := s.gateway.CreatePreference(ctx, session.ReservationID, *session.Amount)
	if err != nil {
		session.Outcome = errorOutcome(err)

		return nil
	}

	session.GatewayRef = preference.ID

	payment := s.buildPayment(session, model.StatusInProcess, "pending_checkout", preference.ID, false)

	if err = s.repo.Insert(ctx, payment); err != nil {
		log.Error().Err(err).Msg("failed to record checkout payment")

		return fmt.Errorf("failed to record checkout payment: %w", err)
	}

	s.poller.Start(PollTarget{
		SessionID:          session.ID,
		PaymentID:          payment.ID,
		ReservationID:      session.ReservationID,
		Reference:          preference.ID,
		ConfirmReservation: session.Purpose == model.PurposeBooking,
		IsDeposit:          session.IsDeposit,
	}, s.pauseWhileEditing(session.ID))

	session.Outcome = &model.Outcome{
		Status:    model.StatusInProcess,
		Detail:    "pending_checkout",
		Message:   "Waiting for the guest to complete the checkout.",
		PaymentID: payment.ID,
	}

	return nil
}

// submitManual takes cash and terminal money. Cash settles on the spot; a
// terminal charge settles only when the operator marks its batch as settled,
// otherwise the row waits for reconciliation and confirms nothing.
func (s *serviceImpl) submitManual(ctx context.Context, session *model.Session, pos *dto.POSSubmission) error {
	settled := true

	if session.Method == model.MethodPOS {
		if pos == nil {
			return failure.BadRequestFromString("terminal details are required") // nolint:wrapcheck
		}

		settled = pos.IsSettled
	}

	payment := s.buildPayment(session, model.StatusApproved, constant.Empty, constant.Empty, settled)

	if pos != nil {
		payment.TerminalID = pos.TerminalID
		payment.BatchNumber = pos.BatchNumber
	}

	if settled {
		if err := s.registerApproved(ctx, *session, payment); err != nil {
			return err
		}
	} else if err := s.repo.Insert(ctx, payment); err != nil {
		log.Error().Err(err).Msg("failed to register manual payment")

		return fmt.Errorf("failed to register manual payment: %w", err)
	}

	session.Outcome = &model.Outcome{
		Status:    model.StatusApproved,
		Message:   "Payment registered.",
		PaymentID: payment.ID,
	}

	return nil
}

func (s *serviceImpl) submitTransfer(ctx context.Context, session *model.Session) error {
	filter := shared.FilterByID(session.ReservationID, transferModel.FieldReservationID, transferModel.TableName)
	params := gDto.QueryParams{Limit: 1, SortBy: constant.FieldCreatedAt, SortDir: constant.DefaultValueSortDir}

	transfers, err := s.transferRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to load transfer records")

		return fmt.Errorf("failed to load transfer records: %w", err)
	}

	if len(transfers) == 0 {
		return failure.BadRequestFromString("no transfer receipt uploaded for this reservation") // nolint:wrapcheck
	}

	latest := transfers[0]

	switch latest.Status {
	case transferModel.StatusConfirmed:
		session.Outcome = &model.Outcome{
			Status:  model.StatusApproved,
			Message: "Transfer confirmed.",
		}
	case transferModel.StatusRejected:
		session.Outcome = &model.Outcome{
			Status:  model.StatusRejected,
			Detail:  latest.ReviewNote,
			Message: "The transfer was rejected. Upload a new receipt.",
		}
	default:
		session.Outcome = &model.Outcome{
			Status:  model.StatusInProcess,
			Message: "The transfer receipt is awaiting review.",
		}
	}

	return nil
}

func (s *serviceImpl) buildPayment(session *model.Session, status, detail, gatewayID string, settled bool) model.Payment {
	return model.Payment{
		ID:               uuid.NewString(),
		ReservationID:    session.ReservationID,
		Method:           session.Method,
		Amount:           *session.Amount,
		Status:           status,
		StatusDetail:     detail,
		GatewayPaymentID: gatewayID,
		IsDeposit:        session.IsDeposit,
		IsSettled:        settled,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

// registerApproved is the single commit point for an approved payment: the
// row, the reservation confirmation and the event go together or not at all.
func (s *serviceImpl) registerApproved(ctx context.Context, session model.Session, payment model.Payment) error {
	if err := s.repo.Insert(ctx, payment); err != nil {
		log.Error().Err(err).Msg("failed to record approved payment")

		return fmt.Errorf("failed to record approved payment: %w", err)
	}

	if session.Purpose == model.PurposeBooking {
		if err := s.confirmReservation(ctx, session.ReservationID); err != nil {
			return err
		}
	}

	s.publishApproved(ctx, payment)
	s.invalidatePaymentCaches(ctx)

	return nil
}

// confirmReservation promotes a pending reservation once money is in. The
// status filter makes it a no-op for reservations already past pending.
func (s *serviceImpl) confirmReservation(ctx context.Context, reservationID string) error {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: reservationModel.FieldID, Table: reservationModel.TableName, Operator: gDto.FilterOperatorEq, Value: reservationID},
			gDto.Filter{Field: reservationModel.FieldStatus, Table: reservationModel.TableName, Operator: gDto.FilterOperatorEq, Value: reservationModel.StatusPending},
		},
	}

	updated := map[string]any{
		reservationModel.FieldStatus: reservationModel.StatusConfirmed,
		constant.FieldModifiedAt:     timezone.Now(),
	}

	if err := s.reservationRepo.Update(ctx, updated, filter); err != nil {
		log.Error().Err(err).Msg("failed to confirm reservation")

		return fmt.Errorf("failed to confirm reservation: %w", err)
	}

	return nil
}

func (s *serviceImpl) publishApproved(ctx context.Context, payment model.Payment) {
	event := dto.PaymentApprovedEvent{
		PaymentID:     payment.ID,
		ReservationID: payment.ReservationID,
		Method:        payment.Method,
		Amount:        payment.Amount,
		IsDeposit:     payment.IsDeposit,
	}

	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{Key: payment.ReservationID, Value: event}
		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.PaymentApproved, message); err != nil {
			log.Error().Err(err).Str("paymentID", payment.ID).Msg("failed to publish payment approved event")
		}
	}()
}

// settleGatewayResult is the poller's finalizer: it lands a terminal gateway
// status on the payment row and, when still relevant, on the session.
func (s *serviceImpl) settleGatewayResult(ctx context.Context, target PollTarget, result cardgateway.ChargeResult) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelPollerScopeName, constant.OtelPollerScopeName+".settleGatewayResult")
	defer scope.End()

	filter := shared.FilterByID(target.PaymentID, model.FieldID, model.TableName)

	updated := map[string]any{
		model.FieldStatus:        result.Status,
		model.FieldStatusDetail:  result.StatusDetail,
		constant.FieldModifiedAt: timezone.Now(),
	}

	if result.Status == cardgateway.StatusApproved {
		updated[model.FieldIsSettled] = true
	}

	if err := s.repo.Update(ctx, updated, filter); err != nil {
		log.Error().Err(err).Str("paymentID", target.PaymentID).Msg("failed to settle polled payment")

		return
	}

	if result.Status == cardgateway.StatusApproved {
		if target.ConfirmReservation {
			if err := s.confirmReservation(ctx, target.ReservationID); err != nil {
				return
			}
		}

		s.publishApproved(ctx, model.Payment{
			ID:            target.PaymentID,
			ReservationID: target.ReservationID,
			Method:        model.MethodCard,
			IsDeposit:     target.IsDeposit,
		})
	}

	s.invalidatePaymentCaches(ctx)

	session, err := s.loadSession(ctx, target.SessionID)
	if err != nil {
		return
	}

	// The session may have moved on to another charge while the poll was
	// running; a stale result never overwrites its state.
	if session.GatewayRef != target.Reference {
		return
	}

	session.Outcome = outcomeFor(result, target.PaymentID)
	session.Step = model.StepResult

	if err := s.saveSession(ctx, session); err != nil {
		log.Error().Err(err).Str("sessionID", target.SessionID).Msg("failed to save polled session result")
	}
}

// pauseWhileEditing skips poll ticks while the operator has navigated the
// session away from the result step. Skipped ticks do not consume attempts.
func (s *serviceImpl) pauseWhileEditing(sessionID string) PauseFunc {
	return func(ctx context.Context) bool {
		var session model.Session

		key := shared.BuildCacheKey(cacheSession, sessionID)
		if err := s.cache.Get(ctx, key, &session); err != nil {
			return false
		}

		return session.Step != model.StepResult
	}
}

func (s *serviceImpl) getReservation(ctx context.Context, id string) (reservationModel.Reservation, error) {
	reservation, err := s.reservationRepo.Get(ctx, shared.FilterByID(id, reservationModel.FieldID, reservationModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	return reservation, nil
}

func (s *serviceImpl) loadSession(ctx context.Context, sessionID string) (model.Session, error) {
	var session model.Session

	key := shared.BuildCacheKey(cacheSession, sessionID)

	if err := s.cache.Get(ctx, key, &session); err != nil {
		return session, failure.NotFound("payment session not found") // nolint:wrapcheck
	}

	return session, nil
}

func (s *serviceImpl) saveSession(ctx context.Context, session model.Session) error {
	key := shared.BuildCacheKey(cacheSession, session.ID)

	if err := s.cache.Save(ctx, key, session, s.cfg.Payment.Session.TTLSeconds); err != nil {
		log.Error().Err(err).Msg("failed to save payment session")

		return fmt.Errorf("failed to save payment session: %w", err)
	}

	return nil
}

func (s *serviceImpl) invalidatePaymentCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllPayment)
		shared.InvalidateCaches(c, s.cache, cacheCountPayment)
	}()
}

func outcomeFor(result cardgateway.ChargeResult, paymentID string) *model.Outcome {
	return &model.Outcome{
		Status:    result.Status,
		Detail:    result.StatusDetail,
		Message:   declinePhrase(result.StatusDetail),
		PaymentID: paymentID,
	}
}

// errorOutcome turns a gateway fault into a retryable result instead of an
// API failure: the attempt ends, the session stays open.
func errorOutcome(err error) *model.Outcome {
	return &model.Outcome{
		Status:  model.StatusError,
		Message: err.Error(),
	}
}
