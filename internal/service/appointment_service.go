package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"officehours/internal/apperror"
	"officehours/internal/model"
	"officehours/internal/repository"
	"officehours/internal/schedule"
)

const (
	maxReasonLength = 500
	maxNotesLength  = 1000
)

// AppointmentService owns the appointment lifecycle and the protocol
// keeping slot and appointment state consistent.
type AppointmentService struct {
	tx       repository.TxManager
	slotRepo repository.SlotRepository
	apptRepo repository.AppointmentRepository
	userRepo repository.UserRepository
	logger   *zap.Logger
	clock    func() time.Time
}

func NewAppointmentService(
	tx repository.TxManager,
	slotRepo repository.SlotRepository,
	apptRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		tx:       tx,
		slotRepo: slotRepo,
		apptRepo: apptRepo,
		userRepo: userRepo,
		logger:   logger,
		clock:    time.Now,
	}
}

// Book reserves an availability slot for a student. The appointment row
// and the slot claim happen in one transaction: if the conditional claim
// loses a race to another booking, the transaction rolls back and the
// appointment created earlier in it never becomes visible.
func (s *AppointmentService) Book(ctx context.Context, studentID, availabilityID uuid.UUID, reason string) (*model.Appointment, error) {
	if len(reason) > maxReasonLength {
		return nil, apperror.Validation("validation failed",
			apperror.FieldError{Field: "reason", Message: "reason cannot exceed 500 characters"})
	}

	var appt *model.Appointment
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		slot, err := repos.Slots.GetByID(ctx, availabilityID)
		if err != nil {
			return err
		}
		if slot == nil || !slot.IsActive || slot.IsBooked {
			return apperror.NotFound("availability slot not found or already booked")
		}

		now := s.clock()
		if schedule.IsPastMoment(slot.Date, slot.StartTime, now) {
			return apperror.Policy("cannot book appointments in the past")
		}

		duplicate, err := repos.Appointments.HasScheduledAt(ctx, studentID, slot.ProfessorID, slot.Date, slot.StartTime)
		if err != nil {
			return err
		}
		if duplicate {
			return apperror.Conflict("you already have an appointment with this professor at this time")
		}

		// Date and times are copied from the slot here and never
		// re-derived, so later slot changes cannot alter the record.
		appt = &model.Appointment{
			ID:             uuid.New(),
			StudentID:      studentID,
			ProfessorID:    slot.ProfessorID,
			AvailabilityID: slot.ID,
			Date:           slot.Date,
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
			Status:         model.AppointmentStatusScheduled,
			Reason:         reason,
			IsActive:       true,
		}

		if err := repos.Appointments.Create(ctx, appt); err != nil {
			return err
		}

		claimed, err := repos.Slots.MarkBooked(ctx, slot.ID, appt.ID)
		if err != nil {
			return err
		}
		if !claimed {
			// Lost the claim race. Returning an error aborts the
			// transaction, which also discards the appointment row.
			return apperror.Conflict("availability slot is already booked")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Appointment booked",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("student_id", studentID.String()),
		zap.String("professor_id", appt.ProfessorID.String()),
		zap.String("slot_id", availabilityID.String()),
	)

	return appt, nil
}

// Cancel transitions a scheduled appointment to cancelled and then frees
// its slot. The free step is best-effort: the appointment is the record of
// truth, and a slot that stays marked booked is recoverable, while a freed
// slot with a live appointment would invite double booking.
func (s *AppointmentService) Cancel(ctx context.Context, appointmentID, userID uuid.UUID, role model.Role) (*model.Appointment, error) {
	appt, err := s.apptRepo.GetByIDForUser(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, apperror.NotFound("appointment not found")
	}

	if appt.Status != model.AppointmentStatusScheduled {
		return nil, apperror.Policy("only scheduled appointments can be cancelled")
	}

	now := s.clock()
	if !now.Before(schedule.CancellationDeadline(appt.Date, appt.StartTime)) {
		return nil, apperror.Policy("appointment cannot be cancelled within 2 hours of start time")
	}

	by := model.CancelledBy(role)
	cancelled, err := s.apptRepo.MarkCancelled(ctx, appointmentID, by, now)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, apperror.Policy("only scheduled appointments can be cancelled")
	}

	if err := s.slotRepo.MarkFreed(ctx, appt.AvailabilityID); err != nil {
		s.logger.Warn("Failed to free slot after cancellation",
			zap.String("appointment_id", appointmentID.String()),
			zap.String("slot_id", appt.AvailabilityID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("Appointment cancelled",
		zap.String("appointment_id", appointmentID.String()),
		zap.String("cancelled_by", string(by)),
	)

	appt.Status = model.AppointmentStatusCancelled
	appt.CancelledBy = by
	appt.CancelledAt = &now

	return appt, nil
}

// Complete marks a scheduled appointment as completed, optionally
// recording the professor's notes. Only the owning professor may complete
// it; anything else looks like a missing record.
func (s *AppointmentService) Complete(ctx context.Context, appointmentID, professorID uuid.UUID, notes string) (*model.Appointment, error) {
	if len(notes) > maxNotesLength {
		return nil, apperror.Validation("validation failed",
			apperror.FieldError{Field: "notes", Message: "notes cannot exceed 1000 characters"})
	}

	completed, err := s.apptRepo.MarkCompleted(ctx, appointmentID, professorID, notes)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, apperror.NotFound("appointment not found")
	}

	s.logger.Info("Appointment completed",
		zap.String("appointment_id", appointmentID.String()),
		zap.String("professor_id", professorID.String()),
	)

	return s.apptRepo.GetByIDForUser(ctx, appointmentID, professorID)
}

// ListForUser returns the user's active appointments on their side of the
// relation, optionally filtered by status.
func (s *AppointmentService) ListForUser(ctx context.Context, userID uuid.UUID, role model.Role, statusFilter string) ([]*model.Appointment, error) {
	var status *model.AppointmentStatus
	if statusFilter != "" && statusFilter != "all" {
		if !model.ValidAppointmentStatus(statusFilter) {
			return nil, apperror.Validation("status must be one of: all, scheduled, completed, cancelled, no-show")
		}
		st := model.AppointmentStatus(statusFilter)
		status = &st
	}

	return s.apptRepo.ListForUser(ctx, userID, role, status)
}

// GetByID returns the appointment when the requester is a party to it.
func (s *AppointmentService) GetByID(ctx context.Context, appointmentID, userID uuid.UUID) (*model.Appointment, error) {
	appt, err := s.apptRepo.GetByIDForUser(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, apperror.NotFound("appointment not found")
	}
	return appt, nil
}

// Counterparties loads the student and professor referenced by an
// appointment for detail responses.
func (s *AppointmentService) Counterparties(ctx context.Context, appt *model.Appointment) (student, professor *model.User, err error) {
	student, err = s.userRepo.GetByID(ctx, appt.StudentID)
	if err != nil {
		return nil, nil, err
	}
	professor, err = s.userRepo.GetByID(ctx, appt.ProfessorID)
	if err != nil {
		return nil, nil, err
	}
	return student, professor, nil
}
