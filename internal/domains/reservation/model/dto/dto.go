package dto

import (
	"time"

	"github.com/google/uuid"

	"alojasys/internal/domains/availability"
	"alojasys/internal/domains/reservation/model"
	"alojasys/shared"
	"alojasys/shared/constant"
	gDto "alojasys/shared/dto"
	gModel "alojasys/shared/model"
	"alojasys/shared/timezone"
)

type CreateReservationRequest struct {
	RoomID    string `json:"room_id"    validate:"required"`
	GuestName string `json:"guest_name" validate:"required,max=100"`
	Guests    int    `json:"guests"     validate:"required,min=1"`
	CheckIn   string `json:"check_in"   validate:"required,datetime=2006-01-02"`
	CheckOut  string `json:"check_out"  validate:"required,datetime=2006-01-02"`
	Notes     string `json:"notes"      validate:"omitempty,max=500"`
}

func (c *CreateReservationRequest) ToModel(user string, totalPrice float64) (model.Reservation, error) {
	checkIn, err := time.Parse(constant.DayFormat, c.CheckIn)
	if err != nil {
		return model.Reservation{}, err
	}

	checkOut, err := time.Parse(constant.DayFormat, c.CheckOut)
	if err != nil {
		return model.Reservation{}, err
	}

	checkIn, checkOut = availability.NormalizeWindow(checkIn, checkOut)

	return model.Reservation{
		ID:         uuid.NewString(),
		RoomID:     c.RoomID,
		GuestName:  c.GuestName,
		Guests:     c.Guests,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     model.StatusPending,
		TotalPrice: totalPrice,
		Notes:      c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateReservationRequest struct {
	GuestName string `db:"guest_name" json:"guest_name" validate:"omitempty,max=100"`
	Guests    *int   `db:"guests"     json:"guests"     validate:"omitempty,min=1"`
	CheckIn   string `json:"check_in"  validate:"omitempty,datetime=2006-01-02"`
	CheckOut  string `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
	Notes     string `db:"notes"      json:"notes"      validate:"omitempty,max=500"`
}

// MovesDates reports whether the update touches the stay window and so
// requires a fresh conflict check.
func (u *UpdateReservationRequest) MovesDates() bool {
	return u.CheckIn != constant.Empty || u.CheckOut != constant.Empty
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed check_in check_out cancelled"`
	// Force acknowledges an outstanding balance on check-in. It requires
	// an operator note explaining the override.
	Force bool   `json:"force"  validate:"omitempty"`
	Note  string `json:"note"   validate:"required_if=Force true,omitempty,max=500"`
}

type ReservationResponse struct {
	ID         string  `json:"id"`
	RoomID     string  `json:"room_id"`
	GuestName  string  `json:"guest_name"`
	Guests     int     `json:"guests"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
	Notes      string  `json:"notes"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.GuestName = model.GuestName
	r.Guests = model.Guests
	r.CheckIn = model.CheckIn.Format(constant.DayFormat)
	r.CheckOut = model.CheckOut.Format(constant.DayFormat)
	r.Status = model.Status
	r.TotalPrice = model.TotalPrice
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

type OccupiedRange struct {
	ReservationID string `json:"reservation_id"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	Status        string `json:"status"`
}

type AvailabilityResponse struct {
	RoomID         string          `json:"room_id"`
	OccupiedNights []string        `json:"occupied_nights"`
	ArrivalDays    []string        `json:"arrival_days"`
	Ranges         []OccupiedRange `json:"ranges"`
}

func (r *AvailabilityResponse) FromOccupancy(roomID string, occupancy availability.Occupancy) {
	r.RoomID = roomID

	r.OccupiedNights = make([]string, len(occupancy.OccupiedNights))
	for i, night := range occupancy.OccupiedNights {
		r.OccupiedNights[i] = night.Format(constant.DayFormat)
	}

	r.ArrivalDays = make([]string, len(occupancy.ArrivalDays))
	for i, day := range occupancy.ArrivalDays {
		r.ArrivalDays[i] = day.Format(constant.DayFormat)
	}

	r.Ranges = make([]OccupiedRange, len(occupancy.ReservationRanges))
	for i, rng := range occupancy.ReservationRanges {
		r.Ranges[i] = OccupiedRange{
			ReservationID: rng.ID,
			CheckIn:       rng.CheckIn.Format(constant.DayFormat),
			CheckOut:      rng.CheckOut.Format(constant.DayFormat),
			Status:        rng.Status,
		}
	}
}

type DepositResponse struct {
	Required  bool    `json:"required"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Offerable bool    `json:"offerable"`
}

type BalanceResponse struct {
	TotalReservation float64 `json:"total_reservation"`
	TotalPaid        float64 `json:"total_paid"`
	BalanceDue       float64 `json:"balance_due"`
	RequiresPayment  bool    `json:"requires_payment"`
}
