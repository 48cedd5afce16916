package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/DS-BookingService/pkg/types"
)

// Calendar rule engine: pure functions deciding which dates and time labels
// are legally bookable. Past-date exclusion is deliberately NOT done here,
// it is a presentation concern layered on top by callers that need it.

// IsBookableDate returns false iff the date falls on the closed weekday
func IsBookableDate(date time.Time) bool {
	return date.Weekday() != ClosedWeekday
}

// SlotsForDate returns the fixed time-slot grid for a bookable date, ordered.
// The grid is identical for every date: hourly slots from BookingStartHour
// up to (not including) BookingEndHour.
func SlotsForDate(date time.Time) []types.TimeString {
	step := SlotDurationMinutes / 60

	slots := make([]types.TimeString, 0, (BookingEndHour-BookingStartHour)/step)
	for hour := BookingStartHour; hour < BookingEndHour; hour += step {
		slots = append(slots, types.TimeString(fmt.Sprintf("%02d:00", hour)))
	}
	return slots
}

// IsValidTimeLabel returns true iff the label parses as HH:MM and its hour
// component is within [BookingStartHour, BookingEndHour)
func IsValidTimeLabel(label types.TimeString) bool {
	hour, err := label.Hour()
	if err != nil {
		return false
	}
	return hour >= BookingStartHour && hour < BookingEndHour
}

// NormalizeDate truncates a timestamp to midnight UTC so that bookings group
// by calendar date regardless of the time-of-day the client sent
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay returns true if both timestamps fall on the same calendar date
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
