package model

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot is a professor-declared bookable time interval on a
// calendar day. StartTime/EndTime are zero-padded 24-hour "HH:MM" strings;
// the interval is half-open, [StartTime, EndTime).
type AvailabilitySlot struct {
	ID            uuid.UUID  `json:"id"`
	ProfessorID   uuid.UUID  `json:"professor_id"`
	Date          time.Time  `json:"date"`
	StartTime     string     `json:"startTime"`
	EndTime       string     `json:"endTime"`
	IsBooked      bool       `json:"isBooked"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	IsActive      bool       `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
}
