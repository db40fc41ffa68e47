package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"alojasys/config"
	otelMocks "alojasys/infras/otel/mocks"
	paymentMocks "alojasys/internal/domains/payment/mocks"
	"alojasys/internal/domains/reservation/mocks"
	"alojasys/internal/domains/reservation/model"
	"alojasys/internal/domains/reservation/model/dto"
	"alojasys/internal/domains/reservation/service"
	roomMocks "alojasys/internal/domains/room/mocks"
	"alojasys/internal/external/pricing"
	pricingMocks "alojasys/internal/external/pricing/mocks"
	"alojasys/shared/cache/cachetest"
	"alojasys/shared/constant"
	"alojasys/shared/failure"
)

type fixture struct {
	repo        *mocks.MockReservation
	roomRepo    *roomMocks.MockRoom
	paymentRepo *paymentMocks.MockPayment
	pricing     *pricingMocks.MockClient
	svc         service.Reservation
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:        mocks.NewMockReservation(ctrl),
		roomRepo:    roomMocks.NewMockRoom(ctrl),
		paymentRepo: paymentMocks.NewMockPayment(ctrl),
		pricing:     pricingMocks.NewMockClient(ctrl),
	}

	f.svc = service.New(f.repo, f.roomRepo, f.paymentRepo, f.pricing, &config.Config{}, cachetest.New(), otelMocks.NewOtel())

	return f
}

func day(value string) time.Time {
	parsed, _ := time.Parse(constant.DayFormat, value)

	return parsed
}

func reservationOn(id, checkIn, checkOut, status string) model.Reservation {
	return model.Reservation{
		ID:       id,
		RoomID:   "room-1",
		CheckIn:  day(checkIn),
		CheckOut: day(checkOut),
		Status:   status,
	}
}

func TestCreateReservation(t *testing.T) {
	createReq := dto.CreateReservationRequest{
		RoomID:    "room-1",
		GuestName: "Ana Suarez",
		Guests:    2,
		CheckIn:   "2025-06-10",
		CheckOut:  "2025-06-12",
	}

	t.Run("inserts a pending reservation priced by the quote", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{}, nil)

		var quoted pricing.QuoteRequest
		f.pricing.EXPECT().Quote(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req pricing.QuoteRequest) (pricing.Quote, error) {
				quoted = req

				return pricing.Quote{Total: 300}, nil
			})

		var inserted model.Reservation
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, reservation model.Reservation) error {
				inserted = reservation

				return nil
			})

		res, err := f.svc.Create(context.Background(), createReq)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, inserted.Status)
		assert.Equal(t, 300.0, inserted.TotalPrice)
		assert.Equal(t, day("2025-06-10"), inserted.CheckIn)
		assert.Equal(t, day("2025-06-12"), inserted.CheckOut)
		assert.Equal(t, inserted.ID, res.ID)

		// The quote window is the parsed stay itself.
		assert.Equal(t, "room-1", quoted.RoomID)
		assert.Equal(t, 2, quoted.Guests)
		assert.Equal(t, day("2025-06-10"), quoted.CheckIn)
		assert.Equal(t, day("2025-06-12"), quoted.CheckOut)
	})

	t.Run("rejects overlapping dates with a conflict reason", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{
			reservationOn("res-1", "2025-06-11", "2025-06-14", model.StatusConfirmed),
		}, nil)

		_, err := f.svc.Create(context.Background(), createReq)

		assert.Error(t, err)
		assert.Equal(t, constant.ReasonDateConflict, failure.GetReason(err))
	})

	t.Run("allows arrival on another reservation's departure day", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{
			reservationOn("res-1", "2025-06-07", "2025-06-10", model.StatusCheckIn),
		}, nil)
		f.pricing.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(pricing.Quote{Total: 200}, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Create(context.Background(), createReq)

		assert.NoError(t, err)
	})

	t.Run("turns a same-day selection into a single night", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{}, nil)
		f.pricing.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(pricing.Quote{Total: 100}, nil)

		var inserted model.Reservation
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, reservation model.Reservation) error {
				inserted = reservation

				return nil
			})

		req := createReq
		req.CheckIn = "2025-06-10"
		req.CheckOut = "2025-06-10"

		_, err := f.svc.Create(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, day("2025-06-11"), inserted.CheckOut)
	})

	t.Run("fails when the room does not exist", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Create(context.Background(), createReq)

		assert.Error(t, err)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("blocks check-in while a balance is outstanding", func(t *testing.T) {
		f := newFixture(t)

		current := reservationOn("res-1", "2025-06-10", "2025-06-12", model.StatusConfirmed)
		current.TotalPrice = 300

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil).Times(2)
		f.paymentRepo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(100.0, nil)

		err := f.svc.UpdateStatus(context.Background(), dto.UpdateStatusRequest{Status: model.StatusCheckIn}, "res-1")

		assert.Error(t, err)
		assert.Equal(t, constant.ReasonPaymentRequired, failure.GetReason(err))

		var fail *failure.Failure
		assert.ErrorAs(t, err, &fail)

		balance, ok := fail.Details.(dto.BalanceResponse)
		assert.True(t, ok)
		assert.Equal(t, 200.0, balance.BalanceDue)
		assert.Equal(t, 100.0, balance.TotalPaid)
		assert.Equal(t, 300.0, balance.TotalReservation)
		assert.True(t, balance.RequiresPayment)
	})

	t.Run("allows forced check-in with an operator note", func(t *testing.T) {
		f := newFixture(t)

		current := reservationOn("res-1", "2025-06-10", "2025-06-12", model.StatusConfirmed)
		current.TotalPrice = 300

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil).Times(2)
		f.paymentRepo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(0.0, nil)

		var updated map[string]any
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ any) error {
				updated = fields

				return nil
			})

		req := dto.UpdateStatusRequest{Status: model.StatusCheckIn, Force: true, Note: "guest pays at departure"}

		err := f.svc.UpdateStatus(context.Background(), req, "res-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCheckIn, updated[model.FieldStatus])
		assert.Equal(t, "guest pays at departure", updated[model.FieldNotes])
	})

	t.Run("checks in directly when the balance is settled", func(t *testing.T) {
		f := newFixture(t)

		current := reservationOn("res-1", "2025-06-10", "2025-06-12", model.StatusConfirmed)
		current.TotalPrice = 300

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil).Times(2)
		f.paymentRepo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(300.0, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.UpdateStatus(context.Background(), dto.UpdateStatusRequest{Status: model.StatusCheckIn}, "res-1")

		assert.NoError(t, err)
	})

	t.Run("blocks check-out while a balance is outstanding", func(t *testing.T) {
		f := newFixture(t)

		current := reservationOn("res-1", "2025-06-10", "2025-06-12", model.StatusCheckIn)
		current.TotalPrice = 300

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil).Times(2)
		f.paymentRepo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(100.0, nil)

		err := f.svc.UpdateStatus(context.Background(), dto.UpdateStatusRequest{Status: model.StatusCheckOut}, "res-1")

		assert.Error(t, err)
		assert.Equal(t, constant.ReasonPaymentRequired, failure.GetReason(err))
	})

	t.Run("allows forced check-out with an operator note", func(t *testing.T) {
		f := newFixture(t)

		current := reservationOn("res-1", "2025-06-10", "2025-06-12", model.StatusCheckIn)
		current.TotalPrice = 300

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil).Times(2)
		f.paymentRepo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(100.0, nil)

		var updated map[string]any
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ any) error {
				updated = fields

				return nil
			})

		req := dto.UpdateStatusRequest{Status: model.StatusCheckOut, Force: true, Note: "invoice to company"}

		err := f.svc.UpdateStatus(context.Background(), req, "res-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCheckOut, updated[model.FieldStatus])
		assert.Equal(t, "invoice to company", updated[model.FieldNotes])
	})

	t.Run("rejects invalid transitions", func(t *testing.T) {
		cases := []struct {
			name string
			from string
			to   string
		}{
			{"checked-out stay cannot move", model.StatusCheckOut, model.StatusCheckIn},
			{"cancelled stay cannot revive", model.StatusCancelled, model.StatusConfirmed},
			{"in-house stay cannot cancel", model.StatusCheckIn, model.StatusCancelled},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newFixture(t)

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationOn("res-1", "2025-06-10", "2025-06-12", tc.from), nil)

				err := f.svc.UpdateStatus(context.Background(), dto.UpdateStatusRequest{Status: tc.to}, "res-1")

				assert.Error(t, err)
			})
		}
	})
}

func TestAvailability(t *testing.T) {
	t.Run("projects occupied nights without departure days", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{
			reservationOn("res-1", "2025-06-10", "2025-06-12", model.StatusCheckIn),
			reservationOn("res-2", "2025-06-12", "2025-06-13", model.StatusPending),
		}, nil)

		res, err := f.svc.Availability(context.Background(), "room-1")

		assert.NoError(t, err)
		assert.Equal(t, []string{"2025-06-10", "2025-06-11", "2025-06-12"}, res.OccupiedNights)
		assert.Equal(t, []string{"2025-06-10", "2025-06-12"}, res.ArrivalDays)
		assert.Len(t, res.Ranges, 2)
	})

	t.Run("returns not found for an unknown room", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Availability(context.Background(), "ghost")

		assert.Error(t, err)
	})
}

func TestDeposit(t *testing.T) {
	cases := []struct {
		name      string
		policy    pricing.DepositQuote
		total     float64
		offerable bool
	}{
		{"required deposit below the total is offerable", pricing.DepositQuote{Required: true, Amount: 100, Type: "fixed"}, 300, true},
		{"deposit above the total is not offerable", pricing.DepositQuote{Required: true, Amount: 400, Type: "fixed"}, 300, false},
		{"zero deposit is not offerable", pricing.DepositQuote{Required: true, Amount: 0, Type: "fixed"}, 300, false},
		{"optional deposit is not offerable", pricing.DepositQuote{Required: false, Amount: 100, Type: "fixed"}, 300, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			reservation := reservationOn("res-1", "2025-06-10", "2025-06-12", model.StatusPending)
			reservation.TotalPrice = tc.total

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservation, nil)
			f.pricing.EXPECT().DepositPolicy(gomock.Any(), "res-1").Return(tc.policy, nil)

			res, err := f.svc.Deposit(context.Background(), "res-1")

			assert.NoError(t, err)
			assert.Equal(t, tc.offerable, res.Offerable)
		})
	}
}

func TestBalance(t *testing.T) {
	t.Run("propagates repository failures", func(t *testing.T) {
		f := newFixture(t)

		reservation := reservationOn("res-1", "2025-06-10", "2025-06-12", model.StatusConfirmed)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservation, nil)
		f.paymentRepo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(0.0, errors.New("db down"))

		_, err := f.svc.Balance(context.Background(), "res-1")

		assert.Error(t, err)
	})

	t.Run("reports a settled reservation as payable-free", func(t *testing.T) {
		f := newFixture(t)

		reservation := reservationOn("res-1", "2025-06-10", "2025-06-12", model.StatusConfirmed)
		reservation.TotalPrice = 250

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservation, nil)
		f.paymentRepo.EXPECT().SumSettled(gomock.Any(), "res-1").Return(250.0, nil)

		res, err := f.svc.Balance(context.Background(), "res-1")

		assert.NoError(t, err)
		assert.False(t, res.RequiresPayment)
		assert.Equal(t, 0.0, res.BalanceDue)
	})
}
