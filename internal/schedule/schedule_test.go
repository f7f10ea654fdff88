package schedule

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestValidateTimeFormat(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"midnight", "00:00", true},
		{"last minute", "23:59", true},
		{"morning", "09:30", true},
		{"afternoon", "14:05", true},
		{"missing zero pad", "9:30", false},
		{"hour out of range", "24:00", false},
		{"minute out of range", "10:60", false},
		{"not a time", "aa:bb", false},
		{"with seconds", "10:30:00", false},
		{"empty", "", false},
		{"no colon", "1030", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeFormat(tt.value)
			if tt.valid && err != nil {
				t.Errorf("ValidateTimeFormat(%q) = %v, want nil", tt.value, err)
			}
			if !tt.valid && !errors.Is(err, ErrBadTimeFormat) {
				t.Errorf("ValidateTimeFormat(%q) = %v, want ErrBadTimeFormat", tt.value, err)
			}
		})
	}
}

func TestValidateFutureDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		d    time.Time
		err  error
	}{
		{"yesterday", date(2026, time.March, 9), ErrPastDate},
		{"today", date(2026, time.March, 10), nil},
		{"today late evening", time.Date(2026, time.March, 10, 23, 0, 0, 0, time.Local), nil},
		{"tomorrow", date(2026, time.March, 11), nil},
		{"far past", date(2020, time.January, 1), ErrPastDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateFutureDate(tt.d, now); !errors.Is(err, tt.err) {
				t.Errorf("ValidateFutureDate(%v) = %v, want %v", tt.d, err, tt.err)
			}
		})
	}
}

func TestValidateTimeRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		err        error
	}{
		{"one hour", "10:00", "11:00", nil},
		{"exactly thirty minutes", "10:00", "10:30", nil},
		{"twenty nine minutes", "10:00", "10:29", ErrSlotTooShort},
		{"equal", "10:00", "10:00", ErrEndNotAfterStart},
		{"reversed", "11:00", "10:00", ErrEndNotAfterStart},
		{"across noon", "11:45", "12:15", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateTimeRange(tt.start, tt.end); !errors.Is(err, tt.err) {
				t.Errorf("ValidateTimeRange(%q, %q) = %v, want %v", tt.start, tt.end, err, tt.err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{"identical", "10:00", "11:00", "10:00", "11:00", true},
		{"partial", "10:00", "11:00", "10:30", "11:30", true},
		{"contained", "10:00", "12:00", "10:30", "11:00", true},
		{"touching end to start", "10:00", "11:00", "11:00", "12:00", false},
		{"touching start to end", "11:00", "12:00", "10:00", "11:00", false},
		{"disjoint", "08:00", "09:00", "10:00", "11:00", false},
		{"one minute over", "10:00", "11:01", "11:00", "12:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps(%q, %q, %q, %q) = %v, want %v",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
		})
	}
}

func TestAt(t *testing.T) {
	got := At(date(2026, time.March, 10), "14:30")
	want := time.Date(2026, time.March, 10, 14, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("At = %v, want %v", got, want)
	}
}

func TestIsPastMoment(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)
	day := date(2026, time.March, 10)

	tests := []struct {
		name string
		d    time.Time
		hhmm string
		want bool
	}{
		{"earlier today", day, "11:59", true},
		{"exactly now", day, "12:00", false},
		{"later today", day, "12:01", false},
		{"yesterday", date(2026, time.March, 9), "23:00", true},
		{"tomorrow", date(2026, time.March, 11), "00:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPastMoment(tt.d, tt.hhmm, now); got != tt.want {
				t.Errorf("IsPastMoment(%v, %q) = %v, want %v", tt.d, tt.hhmm, got, tt.want)
			}
		})
	}
}

func TestCancellationDeadline(t *testing.T) {
	day := date(2026, time.March, 10)
	deadline := CancellationDeadline(day, "14:00")

	want := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)
	if !deadline.Equal(want) {
		t.Fatalf("CancellationDeadline = %v, want %v", deadline, want)
	}

	// A cancellation is allowed strictly before the deadline only.
	before := want.Add(-time.Second)
	if !before.Before(deadline) {
		t.Error("instant before the deadline should be allowed")
	}
	if want.Before(deadline) {
		t.Error("the deadline instant itself should not be allowed")
	}
}

func TestTruncateToDate(t *testing.T) {
	in := time.Date(2026, time.March, 10, 18, 45, 12, 999, time.Local)
	got := TruncateToDate(in)
	want := date(2026, time.March, 10)
	if !got.Equal(want) {
		t.Errorf("TruncateToDate = %v, want %v", got, want)
	}
}
