package httpapi

import (
	"time"

	"github.com/google/uuid"

	"officehours/internal/model"
	"officehours/internal/service"
)

const dateLayout = "2006-01-02"

type professorSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department,omitempty"`
}

type userSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Department    string    `json:"department,omitempty"`
	StudentNumber string    `json:"studentId,omitempty"`
}

type slotView struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	IsBooked  bool      `json:"isBooked"`
}

type ownSlotView struct {
	slotView
	Appointment *ownSlotAppointment `json:"appointment"`
}

type ownSlotAppointment struct {
	ID      uuid.UUID    `json:"id"`
	Student *userSummary `json:"student,omitempty"`
	Reason  string       `json:"reason,omitempty"`
}

type appointmentView struct {
	ID          uuid.UUID               `json:"id"`
	Date        string                  `json:"date"`
	StartTime   string                  `json:"startTime"`
	EndTime     string                  `json:"endTime"`
	Status      model.AppointmentStatus `json:"status"`
	Reason      string                  `json:"reason,omitempty"`
	Notes       string                  `json:"notes,omitempty"`
	CancelledBy model.CancelledBy       `json:"cancelledBy,omitempty"`
	CancelledAt *time.Time              `json:"cancelledAt,omitempty"`
	Student     *userSummary            `json:"student,omitempty"`
	Professor   *userSummary            `json:"professor,omitempty"`
}

func newProfessorSummary(u *model.User) *professorSummary {
	if u == nil {
		return nil
	}
	return &professorSummary{ID: u.ID, Name: u.Name, Department: u.Department}
}

func newUserSummary(u *model.User) *userSummary {
	if u == nil {
		return nil
	}
	return &userSummary{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Department:    u.Department,
		StudentNumber: u.StudentNumber,
	}
}

func newSlotView(s *model.AvailabilitySlot) slotView {
	return slotView{
		ID:        s.ID,
		Date:      s.Date.Format(dateLayout),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		IsBooked:  s.IsBooked,
	}
}

func newOwnSlotView(own service.OwnSlot) ownSlotView {
	view := ownSlotView{slotView: newSlotView(own.Slot)}
	if own.Appointment != nil {
		view.Appointment = &ownSlotAppointment{
			ID:      own.Appointment.ID,
			Student: newUserSummary(own.Appointment.Student),
			Reason:  own.Appointment.Reason,
		}
	}
	return view
}

func newAppointmentView(a *model.Appointment) appointmentView {
	return appointmentView{
		ID:          a.ID,
		Date:        a.Date.Format(dateLayout),
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Status:      a.Status,
		Reason:      a.Reason,
		Notes:       a.Notes,
		CancelledBy: a.CancelledBy,
		CancelledAt: a.CancelledAt,
	}
}
