package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"officehours/internal/apperror"
	"officehours/internal/model"
	"officehours/internal/repository"
	"officehours/internal/schedule"
)

// SlotFilter selects which of a professor's own slots to list.
const (
	SlotFilterAll       = "all"
	SlotFilterAvailable = "available"
	SlotFilterBooked    = "booked"
)

// SlotAppointmentSummary is the minimal view of the appointment attached
// to a booked slot in the owner's listing.
type SlotAppointmentSummary struct {
	ID      uuid.UUID   `json:"id"`
	Student *model.User `json:"student"`
	Reason  string      `json:"reason,omitempty"`
}

// OwnSlot is a slot in the owner's listing, with the linked appointment
// summary attached when booked.
type OwnSlot struct {
	Slot        *model.AvailabilitySlot `json:"slot"`
	Appointment *SlotAppointmentSummary `json:"appointment"`
}

// AvailabilityService owns the lifecycle of bookable slots.
type AvailabilityService struct {
	slotRepo repository.SlotRepository
	apptRepo repository.AppointmentRepository
	userRepo repository.UserRepository
	logger   *zap.Logger
	clock    func() time.Time
}

func NewAvailabilityService(
	slotRepo repository.SlotRepository,
	apptRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		slotRepo: slotRepo,
		apptRepo: apptRepo,
		userRepo: userRepo,
		logger:   logger,
		clock:    time.Now,
	}
}

// CreateSlot validates the requested interval, rejects any overlap with
// the professor's existing active slots on that date and persists a new
// unbooked slot.
func (s *AvailabilityService) CreateSlot(ctx context.Context, professorID uuid.UUID, date time.Time, start, end string) (*model.AvailabilitySlot, error) {
	now := s.clock()

	var fields []apperror.FieldError
	if err := schedule.ValidateTimeFormat(start); err != nil {
		fields = append(fields, apperror.FieldError{Field: "startTime", Message: err.Error()})
	}
	if err := schedule.ValidateTimeFormat(end); err != nil {
		fields = append(fields, apperror.FieldError{Field: "endTime", Message: err.Error()})
	}
	if err := schedule.ValidateFutureDate(date, now); err != nil {
		fields = append(fields, apperror.FieldError{Field: "date", Message: err.Error()})
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("validation failed", fields...)
	}

	if err := schedule.ValidateTimeRange(start, end); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	day := schedule.TruncateToDate(date)

	existing, err := s.slotRepo.ListActiveOnDate(ctx, professorID, day)
	if err != nil {
		return nil, fmt.Errorf("scan for overlaps: %w", err)
	}
	for _, other := range existing {
		if schedule.Overlaps(start, end, other.StartTime, other.EndTime) {
			return nil, apperror.Conflict("time slot overlaps with existing availability")
		}
	}

	slot := &model.AvailabilitySlot{
		ID:          uuid.New(),
		ProfessorID: professorID,
		Date:        day,
		StartTime:   start,
		EndTime:     end,
		IsBooked:    false,
		IsActive:    true,
	}

	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("Availability slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("professor_id", professorID.String()),
		zap.String("date", day.Format("2006-01-02")),
		zap.String("start_time", start),
		zap.String("end_time", end),
	)

	return slot, nil
}

// ListOpenSlots returns a professor's active, unbooked slots. With a date
// it returns that day's slots; without one it returns future slots only.
func (s *AvailabilityService) ListOpenSlots(ctx context.Context, professorID uuid.UUID, onDate *time.Time) (*model.User, []*model.AvailabilitySlot, error) {
	professor, err := s.userRepo.GetByID(ctx, professorID)
	if err != nil {
		return nil, nil, err
	}
	if professor == nil || professor.Role != model.RoleProfessor {
		return nil, nil, apperror.NotFound("professor not found")
	}

	if onDate != nil {
		slots, err := s.slotRepo.ListOpenOnDate(ctx, professorID, schedule.TruncateToDate(*onDate))
		if err != nil {
			return nil, nil, err
		}
		return professor, slots, nil
	}

	now := s.clock()
	slots, err := s.slotRepo.ListOpenFrom(ctx, professorID, schedule.TruncateToDate(now))
	if err != nil {
		return nil, nil, err
	}

	// Same-day slots whose start has already passed are not open.
	open := make([]*model.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if schedule.IsPastMoment(slot.Date, slot.StartTime, now) {
			continue
		}
		open = append(open, slot)
	}

	return professor, open, nil
}

// ListOwnSlots returns the professor's active slots matching the booking
// filter, with the linked appointment summary attached when booked.
func (s *AvailabilityService) ListOwnSlots(ctx context.Context, professorID uuid.UUID, filter string) ([]OwnSlot, error) {
	var booked *bool
	switch filter {
	case "", SlotFilterAll:
	case SlotFilterAvailable:
		b := false
		booked = &b
	case SlotFilterBooked:
		b := true
		booked = &b
	default:
		return nil, apperror.Validation("status must be one of: all, available, booked")
	}

	slots, err := s.slotRepo.ListByProfessor(ctx, professorID, booked)
	if err != nil {
		return nil, err
	}

	own := make([]OwnSlot, 0, len(slots))
	for _, slot := range slots {
		entry := OwnSlot{Slot: slot}
		if slot.IsBooked && slot.AppointmentID != nil {
			summary, err := s.appointmentSummary(ctx, *slot.AppointmentID)
			if err != nil {
				return nil, err
			}
			entry.Appointment = summary
		}
		own = append(own, entry)
	}

	return own, nil
}

// SoftDeleteSlot deactivates a slot. Only the owning professor may delete
// it and only while it is unbooked.
func (s *AvailabilityService) SoftDeleteSlot(ctx context.Context, slotID, professorID uuid.UUID) error {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot == nil || !slot.IsActive {
		return apperror.NotFound("availability slot not found")
	}
	if slot.ProfessorID != professorID {
		return apperror.Policy("not the owner of this slot")
	}
	if slot.IsBooked {
		return apperror.Conflict("cannot delete a booked slot")
	}

	if err := s.slotRepo.SoftDelete(ctx, slotID); err != nil {
		return err
	}

	s.logger.Info("Availability slot deleted",
		zap.String("slot_id", slotID.String()),
		zap.String("professor_id", professorID.String()),
	)

	return nil
}

func (s *AvailabilityService) appointmentSummary(ctx context.Context, appointmentID uuid.UUID) (*SlotAppointmentSummary, error) {
	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, nil
	}

	student, err := s.userRepo.GetByID(ctx, appt.StudentID)
	if err != nil {
		return nil, err
	}

	return &SlotAppointmentSummary{
		ID:      appt.ID,
		Student: student,
		Reason:  appt.Reason,
	}, nil
}
