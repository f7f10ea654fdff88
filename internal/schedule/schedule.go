// Package schedule holds the pure time and range rules shared by the
// availability and appointment services.
//
// Times of day are zero-padded 24-hour "HH:MM" strings. For valid values
// lexicographic comparison equals chronological comparison within one day,
// which is an invariant the overlap checks (and the SQL ordering on the
// time columns) rely on.
package schedule

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// MinSlotMinutes is the minimum length of an availability slot.
	MinSlotMinutes = 30

	// CancellationWindow is how long before an appointment's start
	// cancellation closes.
	CancellationWindow = 2 * time.Hour
)

var (
	ErrBadTimeFormat    = errors.New("time must be in HH:MM format (24-hour)")
	ErrPastDate         = errors.New("date cannot be in the past")
	ErrEndNotAfterStart = errors.New("end time must be after start time")
	ErrSlotTooShort     = errors.New("time slot must be at least 30 minutes")
)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateTimeFormat checks that s is a zero-padded 24-hour "HH:MM" value.
func ValidateTimeFormat(s string) error {
	if !timePattern.MatchString(s) {
		return ErrBadTimeFormat
	}
	return nil
}

// ValidateFutureDate fails if the calendar date of d is strictly before
// today's calendar date. Time of day is ignored.
func ValidateFutureDate(d time.Time, now time.Time) error {
	if TruncateToDate(d).Before(TruncateToDate(now)) {
		return ErrPastDate
	}
	return nil
}

// ValidateTimeRange checks that start precedes end and that the range is at
// least MinSlotMinutes long. Both values must already be valid HH:MM.
func ValidateTimeRange(start, end string) error {
	if start >= end {
		return ErrEndNotAfterStart
	}
	if minuteOfDay(end)-minuteOfDay(start) < MinSlotMinutes {
		return ErrSlotTooShort
	}
	return nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// At combines a calendar date and an HH:MM time of day into one instant in
// the server's local time.
func At(date time.Time, hhmm string) time.Time {
	local := date.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(),
		hourOf(hhmm), minuteOf(hhmm), 0, 0, time.Local)
}

// IsPastMoment reports whether the instant (date, hhmm) is before now.
func IsPastMoment(date time.Time, hhmm string, now time.Time) bool {
	return At(date, hhmm).Before(now)
}

// CancellationDeadline returns the last instant at which an appointment
// starting at (date, hhmm) may still be cancelled.
func CancellationDeadline(date time.Time, hhmm string) time.Time {
	return At(date, hhmm).Add(-CancellationWindow)
}

// TruncateToDate drops the time-of-day component in local time.
func TruncateToDate(t time.Time) time.Time {
	local := t.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

func hourOf(hhmm string) int {
	h, _ := strconv.Atoi(strings.SplitN(hhmm, ":", 2)[0])
	return h
}

func minuteOf(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	m, _ := strconv.Atoi(parts[1])
	return m
}

func minuteOfDay(hhmm string) int {
	return hourOf(hhmm)*60 + minuteOf(hhmm)
}
