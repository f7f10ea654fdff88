package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"officehours/internal/model"
)

type AppointmentPostgresRepository struct {
	db DB
}

func NewAppointmentPostgresRepository(db DB) *AppointmentPostgresRepository {
	return &AppointmentPostgresRepository{db: db}
}

const appointmentColumns = `id, student_id, professor_id, availability_id, date, start_time, end_time,
	status, reason, notes, cancelled_by, cancelled_at, is_active, created_at, updated_at`

// Create persists a new appointment.
func (r *AppointmentPostgresRepository) Create(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, student_id, professor_id, availability_id, date, start_time, end_time, status, reason, notes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		appt.ID,
		appt.StudentID,
		appt.ProfessorID,
		appt.AvailabilityID,
		appt.Date,
		appt.StartTime,
		appt.EndTime,
		appt.Status,
		appt.Reason,
		appt.Notes,
		appt.IsActive,
	).Scan(&appt.CreatedAt, &appt.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID returns an appointment by id, nil when it does not exist.
func (r *AppointmentPostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1 AND is_active = true
	`

	appt, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return appt, nil
}

// GetByIDForUser returns the appointment only when userID is a party to
// it. A missing row and a row owned by someone else are indistinguishable.
func (r *AppointmentPostgresRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1
		  AND is_active = true
		  AND (student_id = $2 OR professor_id = $2)
	`

	appt, err := scanAppointment(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment for user: %w", err)
	}

	return appt, nil
}

// ListForUser returns active appointments where the user is the student or
// the professor, depending on role, ordered by date then start time.
func (r *AppointmentPostgresRepository) ListForUser(ctx context.Context, userID uuid.UUID, role model.Role, status *model.AppointmentStatus) ([]*model.Appointment, error) {
	column := "professor_id"
	if role == model.RoleStudent {
		column = "student_id"
	}

	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE ` + column + ` = $1
		  AND is_active = true
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY date, start_time
	`

	rows, err := r.db.Query(ctx, query, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appts []*model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	return appts, nil
}

// HasScheduledAt reports whether the student already holds a scheduled
// appointment with the professor at this exact date and start time.
func (r *AppointmentPostgresRepository) HasScheduledAt(ctx context.Context, studentID, professorID uuid.UUID, date time.Time, startTime string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE student_id = $1
			  AND professor_id = $2
			  AND date = $3
			  AND start_time = $4
			  AND status = 'scheduled'
			  AND is_active = true
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, studentID, professorID, date, startTime).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check scheduled appointment: %w", err)
	}

	return exists, nil
}

// MarkCancelled transitions a scheduled appointment to cancelled. The
// status condition keeps terminal states terminal.
func (r *AppointmentPostgresRepository) MarkCancelled(ctx context.Context, id uuid.UUID, by model.CancelledBy, at time.Time) (bool, error) {
	query := `
		UPDATE appointments
		SET status = 'cancelled', cancelled_by = $2, cancelled_at = $3, updated_at = now()
		WHERE id = $1 AND status = 'scheduled' AND is_active = true
	`

	result, err := r.db.Exec(ctx, query, id, by, at)
	if err != nil {
		return false, fmt.Errorf("mark appointment cancelled: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// MarkCompleted transitions a scheduled appointment owned by the professor
// to completed. Empty notes leave the stored notes untouched.
func (r *AppointmentPostgresRepository) MarkCompleted(ctx context.Context, id, professorID uuid.UUID, notes string) (bool, error) {
	query := `
		UPDATE appointments
		SET status = 'completed', notes = COALESCE(NULLIF($3, ''), notes), updated_at = now()
		WHERE id = $1 AND professor_id = $2 AND status = 'scheduled' AND is_active = true
	`

	result, err := r.db.Exec(ctx, query, id, professorID, notes)
	if err != nil {
		return false, fmt.Errorf("mark appointment completed: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var appt model.Appointment
	var cancelledBy *string
	err := row.Scan(
		&appt.ID,
		&appt.StudentID,
		&appt.ProfessorID,
		&appt.AvailabilityID,
		&appt.Date,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.Reason,
		&appt.Notes,
		&cancelledBy,
		&appt.CancelledAt,
		&appt.IsActive,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cancelledBy != nil {
		appt.CancelledBy = model.CancelledBy(*cancelledBy)
	}
	return &appt, nil
}
