package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// ValidAppointmentStatus reports whether s is one of the known statuses.
func ValidAppointmentStatus(s string) bool {
	switch AppointmentStatus(s) {
	case AppointmentStatusScheduled, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s AppointmentStatus) IsTerminal() bool {
	return s != AppointmentStatusScheduled
}

type CancelledBy string

const (
	CancelledByStudent   CancelledBy = "student"
	CancelledByProfessor CancelledBy = "professor"
	CancelledBySystem    CancelledBy = "system"
)

// Appointment is a confirmed reservation of one availability slot by one
// student. Date, StartTime and EndTime are copied from the slot at booking
// time so that later slot mutation cannot alter a past booking record.
type Appointment struct {
	ID             uuid.UUID         `json:"id"`
	StudentID      uuid.UUID         `json:"student_id"`
	ProfessorID    uuid.UUID         `json:"professor_id"`
	AvailabilityID uuid.UUID         `json:"availability_id"`
	Date           time.Time         `json:"date"`
	StartTime      string            `json:"startTime"`
	EndTime        string            `json:"endTime"`
	Status         AppointmentStatus `json:"status"`
	Reason         string            `json:"reason,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	CancelledBy    CancelledBy       `json:"cancelledBy,omitempty"`
	CancelledAt    *time.Time        `json:"cancelledAt,omitempty"`
	IsActive       bool              `json:"-"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Counterpart returns the user on the other side of the appointment from
// the viewer: the professor when viewed by the student and vice versa.
func (a *Appointment) Counterpart(viewer Role) uuid.UUID {
	if viewer == RoleStudent {
		return a.ProfessorID
	}
	return a.StudentID
}
