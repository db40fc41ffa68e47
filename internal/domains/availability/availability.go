// Package availability turns a room's booking snapshot into the occupied-night
// and arrival-day projections the reservation flow selects dates against. All
// functions are pure; callers may recompute on every request.
package availability

import (
	"slices"
	"time"
)

// Statuses that block nights on the calendar. Cancelled and checked-out
// reservations release their range.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCheckIn   = "check_in"
)

// Range is a reservation's renderable [CheckIn, CheckOut) window.
type Range struct {
	ID       string    `json:"id"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Status   string    `json:"status"`
}

// Booking is the minimal projection of a reservation the calculator needs.
type Booking struct {
	ID       string
	CheckIn  time.Time
	CheckOut time.Time
	Status   string
}

// Snapshot is a room's current occupancy picture: at most one in-house
// reservation plus whatever is on the books for the future.
type Snapshot struct {
	Current *Booking
	Future  []Booking
}

// Occupancy is the derived projection. OccupiedNights is sorted ascending;
// a reservation's check-out day is never an occupied night, which is what
// permits back-to-back bookings on the same calendar day.
type Occupancy struct {
	ReservationRanges []Range
	OccupiedNights    []time.Time
	ArrivalDays       []time.Time
}

func isOccupying(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCheckIn:
		return true
	default:
		return false
	}
}

// Day normalizes a timestamp to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeWindow enforces the 1-night minimum: a selection where check-out
// does not land after check-in becomes a single-night stay. Already-valid
// windows pass through untouched, so the operation is idempotent.
func NormalizeWindow(checkIn, checkOut time.Time) (time.Time, time.Time) {
	in := Day(checkIn)
	out := Day(checkOut)

	if !out.After(in) {
		out = in.AddDate(0, 0, 1)
	}

	return in, out
}

// Build computes the occupancy projection from a room snapshot.
func Build(snapshot Snapshot) Occupancy {
	occupancy := Occupancy{
		ReservationRanges: []Range{},
		OccupiedNights:    []time.Time{},
		ArrivalDays:       []time.Time{},
	}

	nights := map[time.Time]struct{}{}

	bookings := make([]Booking, 0, len(snapshot.Future)+1)
	if snapshot.Current != nil {
		bookings = append(bookings, *snapshot.Current)
	}

	bookings = append(bookings, snapshot.Future...)

	for _, booking := range bookings {
		if !isOccupying(booking.Status) {
			continue
		}

		in := Day(booking.CheckIn)
		out := Day(booking.CheckOut)

		occupancy.ReservationRanges = append(occupancy.ReservationRanges, Range{
			ID:       booking.ID,
			CheckIn:  in,
			CheckOut: out,
			Status:   booking.Status,
		})
		occupancy.ArrivalDays = append(occupancy.ArrivalDays, in)

		for day := in; day.Before(out); day = day.AddDate(0, 0, 1) {
			nights[day] = struct{}{}
		}
	}

	for night := range nights {
		occupancy.OccupiedNights = append(occupancy.OccupiedNights, night)
	}

	slices.SortFunc(occupancy.OccupiedNights, func(a, b time.Time) int {
		return a.Compare(b)
	})
	slices.SortFunc(occupancy.ArrivalDays, func(a, b time.Time) int {
		return a.Compare(b)
	})

	return occupancy
}

// HasConflict reports whether any night of [checkIn, checkOut) is already
// occupied. The check-out day of existing reservations is not in the occupied
// set, so a window starting on another booking's check-out day is allowed.
func HasConflict(checkIn, checkOut time.Time, occupiedNights []time.Time) bool {
	in, out := NormalizeWindow(checkIn, checkOut)

	occupied := make(map[time.Time]struct{}, len(occupiedNights))
	for _, night := range occupiedNights {
		occupied[Day(night)] = struct{}{}
	}

	for day := in; day.Before(out); day = day.AddDate(0, 0, 1) {
		if _, taken := occupied[day]; taken {
			return true
		}
	}

	return false
}
