package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"alojasys/config"
	"alojasys/infras/kafka/kafkatest"
	otelMocks "alojasys/infras/otel/mocks"
	"alojasys/internal/domains/payment/mocks"
	"alojasys/internal/domains/payment/model"
	"alojasys/internal/domains/payment/model/dto"
	"alojasys/internal/domains/payment/service"
	reservationMocks "alojasys/internal/domains/reservation/mocks"
	reservationModel "alojasys/internal/domains/reservation/model"
	transferMocks "alojasys/internal/domains/transfer/mocks"
	transferModel "alojasys/internal/domains/transfer/model"
	"alojasys/internal/external/cardgateway"
	gatewayMocks "alojasys/internal/external/cardgateway/mocks"
	"alojasys/internal/external/pricing"
	pricingMocks "alojasys/internal/external/pricing/mocks"
	"alojasys/shared/cache/cachetest"
)

type fixture struct {
	repo            *mocks.MockPayment
	reservationRepo *reservationMocks.MockReservation
	transferRepo    *transferMocks.MockTransfer
	gateway         *gatewayMocks.MockClient
	pricing         *pricingMocks.MockClient
	kafka           *kafkatest.Recorder
	cfg             *config.Config
	svc             service.Payment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Payment.Session.TTLSeconds = 60
	cfg.Payment.Poller.MaxAttempts = 2
	cfg.Payment.Poller.IntervalSeconds = 1
	cfg.Kafka.Topics.PaymentApproved = "payments.approved"

	f := &fixture{
		repo:            mocks.NewMockPayment(ctrl),
		reservationRepo: reservationMocks.NewMockReservation(ctrl),
		transferRepo:    transferMocks.NewMockTransfer(ctrl),
		gateway:         gatewayMocks.NewMockClient(ctrl),
		pricing:         pricingMocks.NewMockClient(ctrl),
		kafka:           kafkatest.New(),
		cfg:             cfg,
	}

	f.svc = service.New(f.repo, f.reservationRepo, f.transferRepo, f.gateway, f.pricing, cfg, cachetest.New(), f.kafka, otelMocks.NewOtel())

	return f
}

// pendingReservation wires a bookable reservation whose deposit policy keeps
// the amount step on offer.
func (f *fixture) pendingReservation(total, paid float64) {
	f.reservationRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationModel.Reservation{
		ID:         "res-1",
		RoomID:     "room-1",
		Status:     reservationModel.StatusPending,
		TotalPrice: total,
	}, nil)
	f.repo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(paid, nil)
	f.pricing.EXPECT().DepositPolicy(gomock.Any(), "res-1").Return(
		pricing.DepositQuote{Required: true, Amount: total / 2, Type: "fixed"}, nil)
}

// sessionAt walks a booking session up to the method form for the given
// method and amount.
func (f *fixture) sessionAt(t *testing.T, method model.Method, amount *float64) string {
	t.Helper()

	ctx := context.Background()

	started, err := f.svc.StartSession(ctx, dto.StartSessionRequest{ReservationID: "res-1"})
	assert.NoError(t, err)

	_, err = f.svc.SelectAmount(ctx, started.ID, dto.SelectAmountRequest{Amount: amount})
	assert.NoError(t, err)

	_, err = f.svc.SelectMethod(ctx, started.ID, dto.SelectMethodRequest{Method: method})
	assert.NoError(t, err)

	return started.ID
}

func amountOf(value float64) *float64 {
	return &value
}

func TestStartSession(t *testing.T) {
	t.Run("booking sessions with a deposit on offer begin at amount selection", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		res, err := f.svc.StartSession(context.Background(), dto.StartSessionRequest{ReservationID: "res-1"})

		assert.NoError(t, err)
		assert.Equal(t, model.StepAmountSelection, res.Step)
		assert.Equal(t, 300.0, res.TotalPrice)
		assert.NotNil(t, res.DepositAmount)
		assert.Equal(t, 150.0, *res.DepositAmount)
		assert.Nil(t, res.Amount)
	})

	t.Run("booking sessions without a deposit skip to method selection", func(t *testing.T) {
		f := newFixture(t)
		f.reservationRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationModel.Reservation{
			ID: "res-1", Status: reservationModel.StatusPending, TotalPrice: 300,
		}, nil)
		f.repo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(0.0, nil)
		f.pricing.EXPECT().DepositPolicy(gomock.Any(), "res-1").Return(pricing.DepositQuote{Required: false}, nil)

		res, err := f.svc.StartSession(context.Background(), dto.StartSessionRequest{ReservationID: "res-1"})

		assert.NoError(t, err)
		assert.Equal(t, model.StepMethodSelection, res.Step)
		assert.Nil(t, res.DepositAmount)
		assert.NotNil(t, res.Amount)
		assert.Equal(t, 300.0, *res.Amount)
		assert.False(t, res.IsDeposit)
	})

	t.Run("a malformed deposit quote never offers the amount step", func(t *testing.T) {
		f := newFixture(t)
		f.reservationRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationModel.Reservation{
			ID: "res-1", Status: reservationModel.StatusPending, TotalPrice: 300,
		}, nil)
		f.repo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(0.0, nil)
		f.pricing.EXPECT().DepositPolicy(gomock.Any(), "res-1").Return(
			pricing.DepositQuote{Required: true, Amount: 400, Type: "fixed"}, nil)

		res, err := f.svc.StartSession(context.Background(), dto.StartSessionRequest{ReservationID: "res-1"})

		assert.NoError(t, err)
		assert.Equal(t, model.StepMethodSelection, res.Step)
		assert.Nil(t, res.DepositAmount)
	})

	t.Run("balance sessions skip to method selection with a fixed amount", func(t *testing.T) {
		f := newFixture(t)
		f.reservationRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationModel.Reservation{
			ID: "res-1", Status: reservationModel.StatusCheckIn, TotalPrice: 300,
		}, nil)
		f.repo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(100.0, nil)

		res, err := f.svc.StartSession(context.Background(), dto.StartSessionRequest{ReservationID: "res-1", Purpose: model.PurposeBalance})

		assert.NoError(t, err)
		assert.Equal(t, model.StepMethodSelection, res.Step)
		assert.NotNil(t, res.Amount)
		assert.Equal(t, 200.0, *res.Amount)
		assert.False(t, res.IsDeposit)
	})

	t.Run("balance sessions refuse settled reservations", func(t *testing.T) {
		f := newFixture(t)
		f.reservationRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationModel.Reservation{
			ID: "res-1", Status: reservationModel.StatusCheckIn, TotalPrice: 300,
		}, nil)
		f.repo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(300.0, nil)

		_, err := f.svc.StartSession(context.Background(), dto.StartSessionRequest{ReservationID: "res-1", Purpose: model.PurposeBalance})

		assert.Error(t, err)
	})

	t.Run("cancelled reservations are not payable", func(t *testing.T) {
		f := newFixture(t)
		f.reservationRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationModel.Reservation{
			ID: "res-1", Status: reservationModel.StatusCancelled,
		}, nil)

		_, err := f.svc.StartSession(context.Background(), dto.StartSessionRequest{ReservationID: "res-1"})

		assert.Error(t, err)
	})
}

func TestCardFlow(t *testing.T) {
	t.Run("an approved charge records the payment and confirms the reservation", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodCard, nil)

		f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req cardgateway.ChargeRequest) (cardgateway.ChargeResult, error) {
				assert.Equal(t, 300.0, req.Amount)
				assert.Equal(t, "tok-1", req.Token)

				return cardgateway.ChargeResult{ID: "gw-1", Status: cardgateway.StatusApproved, StatusDetail: "accredited"}, nil
			})

		var inserted model.Payment
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, payment model.Payment) error {
				inserted = payment

				return nil
			})
		f.reservationRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{
			Card: &dto.CardSubmission{Token: "tok-1", PaymentMethodID: "visa", Installments: 1},
		})

		assert.NoError(t, err)
		assert.Equal(t, model.StepResult, res.Step)
		assert.Equal(t, cardgateway.StatusApproved, res.Outcome.Status)
		assert.True(t, inserted.IsSettled)
		assert.False(t, inserted.IsDeposit)
		assert.Equal(t, "gw-1", inserted.GatewayPaymentID)

		assert.Eventually(t, func() bool {
			return len(f.kafka.Messages("payments.approved")) == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("a partial amount registers as a deposit", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodCard, amountOf(100))

		f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(
			cardgateway.ChargeResult{ID: "gw-1", Status: cardgateway.StatusApproved, StatusDetail: "accredited"}, nil)

		var inserted model.Payment
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, payment model.Payment) error {
				inserted = payment

				return nil
			})
		f.reservationRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{
			Card: &dto.CardSubmission{Token: "tok-1", PaymentMethodID: "visa", Installments: 1},
		})

		assert.NoError(t, err)
		assert.True(t, inserted.IsDeposit)
		assert.Equal(t, 100.0, inserted.Amount)
	})

	t.Run("raw card details are tokenized before charging", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodCard, nil)

		f.gateway.EXPECT().Tokenize(gomock.Any(), gomock.Any()).Return("tok-9", nil)
		f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req cardgateway.ChargeRequest) (cardgateway.ChargeResult, error) {
				assert.Equal(t, "tok-9", req.Token)

				return cardgateway.ChargeResult{ID: "gw-1", Status: cardgateway.StatusApproved, StatusDetail: "accredited"}, nil
			})
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.reservationRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{
			Card: &dto.CardSubmission{
				Number:          "4111111111111111",
				ExpirationMonth: 11,
				ExpirationYear:  2028,
				SecurityCode:    "123",
				HolderName:      "ANA SUAREZ",
				PaymentMethodID: "visa",
				Installments:    1,
			},
		})

		assert.NoError(t, err)
	})

	t.Run("a declined charge maps the gateway code to an operator phrase", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodCard, nil)

		f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(
			cardgateway.ChargeResult{ID: "gw-1", Status: cardgateway.StatusRejected, StatusDetail: "cc_rejected_insufficient_amount"}, nil)

		res, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{
			Card: &dto.CardSubmission{Token: "tok-1", PaymentMethodID: "visa", Installments: 1},
		})

		assert.NoError(t, err)
		assert.Equal(t, cardgateway.StatusRejected, res.Outcome.Status)
		assert.Equal(t, "The card has insufficient funds.", res.Outcome.Message)
		assert.Empty(t, res.Outcome.PaymentID)
	})

	t.Run("an unmapped decline code passes through verbatim", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodCard, nil)

		f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(
			cardgateway.ChargeResult{ID: "gw-1", Status: cardgateway.StatusRejected, StatusDetail: "cc_rejected_future_code"}, nil)

		res, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{
			Card: &dto.CardSubmission{Token: "tok-1", PaymentMethodID: "visa", Installments: 1},
		})

		assert.NoError(t, err)
		assert.Equal(t, "cc_rejected_future_code", res.Outcome.Message)
	})

	t.Run("a tokenization failure ends the attempt with an error outcome", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodCard, nil)

		f.gateway.EXPECT().Tokenize(gomock.Any(), gomock.Any()).Return("", errors.New("card data rejected"))

		res, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{
			Card: &dto.CardSubmission{
				Number:          "4111111111111111",
				ExpirationMonth: 11,
				ExpirationYear:  2028,
				SecurityCode:    "123",
				HolderName:      "ANA SUAREZ",
				PaymentMethodID: "visa",
				Installments:    1,
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, model.StepResult, res.Step)
		assert.Equal(t, model.StatusError, res.Outcome.Status)
		assert.Equal(t, "card data rejected", res.Outcome.Message)
	})

	t.Run("a charge failure ends the attempt with an error outcome", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodCard, nil)

		f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(
			cardgateway.ChargeResult{}, errors.New("gateway timeout"))

		res, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{
			Card: &dto.CardSubmission{Token: "tok-1", PaymentMethodID: "visa", Installments: 1},
		})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusError, res.Outcome.Status)
		assert.Equal(t, "gateway timeout", res.Outcome.Message)
	})

	t.Run("an in-process charge records a pending row and polls", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodCard, nil)

		f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(
			cardgateway.ChargeResult{ID: "gw-1", Status: cardgateway.StatusInProcess, StatusDetail: "pending_contingency"}, nil)
		f.gateway.EXPECT().PreferenceStatus(gomock.Any(), "gw-1").Return(
			cardgateway.ChargeResult{ID: "gw-1", Status: cardgateway.StatusInProcess}, nil).AnyTimes()

		var inserted model.Payment
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, payment model.Payment) error {
				inserted = payment

				return nil
			})

		res, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{
			Card: &dto.CardSubmission{Token: "tok-1", PaymentMethodID: "visa", Installments: 1},
		})

		assert.NoError(t, err)
		assert.Equal(t, cardgateway.StatusInProcess, res.Outcome.Status)
		assert.False(t, inserted.IsSettled)

		// Closing the session tears the confirmation poll down.
		assert.NoError(t, f.svc.CloseSession(context.Background(), sessionID))
	})

	t.Run("submitting without card details opens a hosted checkout", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodCard, nil)

		f.gateway.EXPECT().CreatePreference(gomock.Any(), "res-1", 300.0).Return(
			cardgateway.Preference{ID: "pref-1", Amount: 300}, nil)
		f.gateway.EXPECT().PreferenceStatus(gomock.Any(), "pref-1").Return(
			cardgateway.ChargeResult{ID: "pref-1", Status: cardgateway.StatusInProcess}, nil).AnyTimes()

		var inserted model.Payment
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, payment model.Payment) error {
				inserted = payment

				return nil
			})

		res, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusInProcess, res.Outcome.Status)
		assert.Equal(t, "pending_checkout", res.Outcome.Detail)
		assert.Equal(t, "pref-1", inserted.GatewayPaymentID)

		assert.NoError(t, f.svc.CloseSession(context.Background(), sessionID))
	})
}

func TestManualFlow(t *testing.T) {
	t.Run("a cash deposit settles and confirms the reservation", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(1000, 0)

		sessionID := f.sessionAt(t, model.MethodCash, amountOf(300))

		var inserted model.Payment
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, payment model.Payment) error {
				inserted = payment

				return nil
			})

		var updated map[string]any
		f.reservationRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ any) error {
				updated = fields

				return nil
			})

		res, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusApproved, res.Outcome.Status)
		assert.True(t, inserted.IsSettled)
		assert.True(t, inserted.IsDeposit)
		assert.Equal(t, 300.0, inserted.Amount)
		assert.Equal(t, reservationModel.StatusConfirmed, updated[reservationModel.FieldStatus])

		assert.Eventually(t, func() bool {
			return len(f.kafka.Messages("payments.approved")) == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("a cash balance settlement never re-confirms the reservation", func(t *testing.T) {
		f := newFixture(t)
		f.reservationRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationModel.Reservation{
			ID: "res-1", Status: reservationModel.StatusCheckIn, TotalPrice: 1000,
		}, nil)
		f.repo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(500.0, nil)

		ctx := context.Background()

		started, err := f.svc.StartSession(ctx, dto.StartSessionRequest{ReservationID: "res-1", Purpose: model.PurposeBalance})
		assert.NoError(t, err)

		_, err = f.svc.SelectMethod(ctx, started.ID, dto.SelectMethodRequest{Method: model.MethodCash})
		assert.NoError(t, err)

		var inserted model.Payment
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, payment model.Payment) error {
				inserted = payment

				return nil
			})

		res, err := f.svc.Submit(ctx, started.ID, dto.SubmitRequest{})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusApproved, res.Outcome.Status)
		assert.True(t, inserted.IsSettled)
		assert.False(t, inserted.IsDeposit)
		assert.Equal(t, 500.0, inserted.Amount)

		assert.Eventually(t, func() bool {
			return len(f.kafka.Messages("payments.approved")) == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("a settled terminal charge confirms the reservation", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodPOS, nil)

		var inserted model.Payment
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, payment model.Payment) error {
				inserted = payment

				return nil
			})
		f.reservationRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{
			POS: &dto.POSSubmission{TerminalID: "term-1", BatchNumber: "batch-7", IsSettled: true},
		})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusApproved, res.Outcome.Status)
		assert.True(t, inserted.IsSettled)
		assert.Equal(t, "term-1", inserted.TerminalID)
		assert.Equal(t, "batch-7", inserted.BatchNumber)

		assert.Eventually(t, func() bool {
			return len(f.kafka.Messages("payments.approved")) == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("an unsettled terminal charge is recorded but confirms nothing", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodPOS, nil)

		var inserted model.Payment
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, payment model.Payment) error {
				inserted = payment

				return nil
			})

		res, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{
			POS: &dto.POSSubmission{TerminalID: "term-1", BatchNumber: "batch-7", IsSettled: false},
		})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusApproved, res.Outcome.Status)
		assert.False(t, inserted.IsSettled)
		assert.Equal(t, "term-1", inserted.TerminalID)
		assert.Empty(t, f.kafka.Messages("payments.approved"))
	})

	t.Run("a terminal submission without its details is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodPOS, nil)

		_, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{})

		assert.Error(t, err)
	})
}

func TestTransferFlow(t *testing.T) {
	submitTransfer := func(t *testing.T, f *fixture, record *transferModel.BankTransfer) (dto.SessionResponse, error) {
		t.Helper()

		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodTransfer, nil)

		records := []transferModel.BankTransfer{}
		if record != nil {
			records = append(records, *record)
		}

		f.transferRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(records, nil)

		return f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{})
	}

	t.Run("a confirmed transfer reads as approved", func(t *testing.T) {
		res, err := submitTransfer(t, newFixture(t), &transferModel.BankTransfer{Status: transferModel.StatusConfirmed})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusApproved, res.Outcome.Status)
	})

	t.Run("a transfer pending review reads as in process", func(t *testing.T) {
		res, err := submitTransfer(t, newFixture(t), &transferModel.BankTransfer{Status: transferModel.StatusPendingReview})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusInProcess, res.Outcome.Status)
	})

	t.Run("a rejected transfer reads as rejected with the review note", func(t *testing.T) {
		record := &transferModel.BankTransfer{Status: transferModel.StatusRejected, ReviewNote: "amount mismatch"}

		res, err := submitTransfer(t, newFixture(t), record)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusRejected, res.Outcome.Status)
		assert.Equal(t, "amount mismatch", res.Outcome.Detail)
	})

	t.Run("a reservation without receipts cannot submit a transfer", func(t *testing.T) {
		_, err := submitTransfer(t, newFixture(t), nil)

		assert.Error(t, err)
	})
}

func TestSessionNavigation(t *testing.T) {
	t.Run("back from the method form clears the method", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodCard, nil)

		res, err := f.svc.Back(context.Background(), sessionID)

		assert.NoError(t, err)
		assert.Equal(t, model.StepMethodSelection, res.Step)
		assert.Empty(t, res.Method)
	})

	t.Run("back from method selection clears the amount", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		ctx := context.Background()

		started, err := f.svc.StartSession(ctx, dto.StartSessionRequest{ReservationID: "res-1"})
		assert.NoError(t, err)

		_, err = f.svc.SelectAmount(ctx, started.ID, dto.SelectAmountRequest{Amount: amountOf(100)})
		assert.NoError(t, err)

		res, err := f.svc.Back(ctx, started.ID)

		assert.NoError(t, err)
		assert.Equal(t, model.StepAmountSelection, res.Step)
		assert.Nil(t, res.Amount)
	})

	t.Run("reopening a result resets the attempt", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		sessionID := f.sessionAt(t, model.MethodCard, nil)

		f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(
			cardgateway.ChargeResult{ID: "gw-1", Status: cardgateway.StatusRejected, StatusDetail: "cc_rejected_max_attempts"}, nil)

		_, err := f.svc.Submit(context.Background(), sessionID, dto.SubmitRequest{
			Card: &dto.CardSubmission{Token: "tok-1", PaymentMethodID: "visa", Installments: 1},
		})
		assert.NoError(t, err)

		res, err := f.svc.Back(context.Background(), sessionID)

		assert.NoError(t, err)
		assert.Equal(t, model.StepMethodSelection, res.Step)
		assert.Nil(t, res.Outcome)

		// The attempt can be retried through a fresh method pick.
		res, err = f.svc.SelectMethod(context.Background(), sessionID, dto.SelectMethodRequest{Method: model.MethodCash})

		assert.NoError(t, err)
		assert.Equal(t, model.StepMethodForm, res.Step)
	})

	t.Run("submitting before the method form is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		started, err := f.svc.StartSession(context.Background(), dto.StartSessionRequest{ReservationID: "res-1"})
		assert.NoError(t, err)

		_, err = f.svc.Submit(context.Background(), started.ID, dto.SubmitRequest{})

		assert.Error(t, err)
	})

	t.Run("a closed session is gone", func(t *testing.T) {
		f := newFixture(t)
		f.pendingReservation(300, 0)

		started, err := f.svc.StartSession(context.Background(), dto.StartSessionRequest{ReservationID: "res-1"})
		assert.NoError(t, err)

		assert.NoError(t, f.svc.CloseSession(context.Background(), started.ID))

		_, err = f.svc.GetSession(context.Background(), started.ID)

		assert.Error(t, err)
	})
}
