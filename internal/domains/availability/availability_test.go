package availability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"alojasys/internal/domains/availability"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}

	return t
}

func TestBuildExcludesCheckOutDay(t *testing.T) {
	occ := availability.Build(availability.Snapshot{
		Future: []availability.Booking{
			{CheckIn: day("2025-01-10"), CheckOut: day("2025-01-12"), Status: availability.StatusConfirmed},
		},
	})

	assert.Equal(t, []time.Time{day("2025-01-10"), day("2025-01-11")}, occ.OccupiedNights)
	assert.Equal(t, []time.Time{day("2025-01-10")}, occ.ArrivalDays)

	if assert.Len(t, occ.ReservationRanges, 1) {
		assert.Equal(t, day("2025-01-10"), occ.ReservationRanges[0].CheckIn)
		assert.Equal(t, day("2025-01-12"), occ.ReservationRanges[0].CheckOut)
	}
}

func TestBuildFiltersNonOccupyingStatuses(t *testing.T) {
	occ := availability.Build(availability.Snapshot{
		Current: &availability.Booking{CheckIn: day("2025-02-01"), CheckOut: day("2025-02-03"), Status: "check_out"},
		Future: []availability.Booking{
			{CheckIn: day("2025-02-05"), CheckOut: day("2025-02-06"), Status: "cancelled"},
			{CheckIn: day("2025-02-08"), CheckOut: day("2025-02-09"), Status: availability.StatusPending},
		},
	})

	assert.Equal(t, []time.Time{day("2025-02-08")}, occ.OccupiedNights)
	assert.Len(t, occ.ReservationRanges, 1)
}

func TestBuildIncludesCurrentReservation(t *testing.T) {
	occ := availability.Build(availability.Snapshot{
		Current: &availability.Booking{CheckIn: day("2025-03-01"), CheckOut: day("2025-03-03"), Status: availability.StatusCheckIn},
		Future: []availability.Booking{
			{CheckIn: day("2025-03-10"), CheckOut: day("2025-03-11"), Status: availability.StatusConfirmed},
		},
	})

	assert.Equal(t, []time.Time{
		day("2025-03-01"), day("2025-03-02"), day("2025-03-10"),
	}, occ.OccupiedNights)
	assert.Equal(t, []time.Time{day("2025-03-01"), day("2025-03-10")}, occ.ArrivalDays)
}

func TestBuildSortsOverlappingSources(t *testing.T) {
	occ := availability.Build(availability.Snapshot{
		Future: []availability.Booking{
			{CheckIn: day("2025-04-08"), CheckOut: day("2025-04-10"), Status: availability.StatusConfirmed},
			{CheckIn: day("2025-04-01"), CheckOut: day("2025-04-03"), Status: availability.StatusConfirmed},
			{CheckIn: day("2025-04-02"), CheckOut: day("2025-04-04"), Status: availability.StatusPending},
		},
	})

	assert.Equal(t, []time.Time{
		day("2025-04-01"), day("2025-04-02"), day("2025-04-03"),
		day("2025-04-08"), day("2025-04-09"),
	}, occ.OccupiedNights)
}

func TestNormalizeWindow(t *testing.T) {
	t.Run("single day becomes one night", func(t *testing.T) {
		in, out := availability.NormalizeWindow(day("2025-01-10"), day("2025-01-10"))

		assert.Equal(t, day("2025-01-10"), in)
		assert.Equal(t, day("2025-01-11"), out)
	})

	t.Run("inverted window becomes one night", func(t *testing.T) {
		in, out := availability.NormalizeWindow(day("2025-01-10"), day("2025-01-08"))

		assert.Equal(t, day("2025-01-10"), in)
		assert.Equal(t, day("2025-01-11"), out)
	})

	t.Run("idempotent", func(t *testing.T) {
		in1, out1 := availability.NormalizeWindow(day("2025-01-10"), day("2025-01-10"))
		in2, out2 := availability.NormalizeWindow(in1, out1)

		assert.Equal(t, in1, in2)
		assert.Equal(t, out1, out2)
	})

	t.Run("valid window untouched", func(t *testing.T) {
		in, out := availability.NormalizeWindow(day("2025-01-10"), day("2025-01-14"))

		assert.Equal(t, day("2025-01-10"), in)
		assert.Equal(t, day("2025-01-14"), out)
	})
}

func TestHasConflict(t *testing.T) {
	existing := availability.Build(availability.Snapshot{
		Future: []availability.Booking{
			{CheckIn: day("2025-01-10"), CheckOut: day("2025-01-12"), Status: availability.StatusConfirmed},
		},
	})

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     bool
	}{
		{"back-to-back after existing check-out", "2025-01-12", "2025-01-14", false},
		{"ends on existing check-in", "2025-01-08", "2025-01-10", false},
		{"overlaps middle", "2025-01-11", "2025-01-13", true},
		{"covers whole range", "2025-01-09", "2025-01-13", true},
		{"same range", "2025-01-10", "2025-01-12", true},
		{"single day inside", "2025-01-11", "2025-01-11", true},
		{"single day on check-out", "2025-01-12", "2025-01-12", false},
		{"far away", "2025-02-01", "2025-02-05", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := availability.HasConflict(day(tt.checkIn), day(tt.checkOut), existing.OccupiedNights)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasConflictMatchesNightMembership(t *testing.T) {
	// Property from the calculator contract: conflict iff some night of
	// [a, b) belongs to the occupied set.
	occupied := []time.Time{day("2025-05-03"), day("2025-05-04"), day("2025-05-10")}

	start := day("2025-05-01")
	for a := 0; a < 12; a++ {
		for b := a; b < 13; b++ {
			checkIn := start.AddDate(0, 0, a)
			checkOut := start.AddDate(0, 0, b)

			in, out := availability.NormalizeWindow(checkIn, checkOut)

			expected := false
			for dayCursor := in; dayCursor.Before(out); dayCursor = dayCursor.AddDate(0, 0, 1) {
				for _, night := range occupied {
					if dayCursor.Equal(night) {
						expected = true
					}
				}
			}

			assert.Equal(t, expected, availability.HasConflict(checkIn, checkOut, occupied),
				"window %s..%s", checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
		}
	}
}
