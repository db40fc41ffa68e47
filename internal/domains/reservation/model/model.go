package model

import (
	"time"

	"alojasys/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID         = "id"
	FieldRoomID     = "room_id"
	FieldGuestName  = "guest_name"
	FieldGuests     = "guests"
	FieldCheckIn    = "check_in"
	FieldCheckOut   = "check_out"
	FieldStatus     = "status"
	FieldTotalPrice = "total_price"
	FieldNotes      = "notes"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCheckIn   = "check_in"
	StatusCheckOut  = "check_out"
	StatusCancelled = "cancelled"
)

// OccupyingStatuses are the reservation states that hold nights on the
// room calendar. Cancelled and checked-out stays release their nights.
var OccupyingStatuses = []string{StatusPending, StatusConfirmed, StatusCheckIn}

type Reservation struct {
	ID         string    `db:"id"`
	RoomID     string    `db:"room_id"`
	GuestName  string    `db:"guest_name"`
	Guests     int       `db:"guests"`
	CheckIn    time.Time `db:"check_in"`
	CheckOut   time.Time `db:"check_out"`
	Status     string    `db:"status"`
	TotalPrice float64   `db:"total_price"`
	Notes      string    `db:"notes"`
	model.Metadata
}
