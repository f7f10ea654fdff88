package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"officehours/internal/model"
)

type SlotPostgresRepository struct {
	db DB
}

func NewSlotPostgresRepository(db DB) *SlotPostgresRepository {
	return &SlotPostgresRepository{db: db}
}

const slotColumns = `id, professor_id, date, start_time, end_time, is_booked, appointment_id, is_active, created_at`

// Create persists a new availability slot.
func (r *SlotPostgresRepository) Create(ctx context.Context, slot *model.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (id, professor_id, date, start_time, end_time, is_booked, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		slot.ID,
		slot.ProfessorID,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.IsBooked,
		slot.IsActive,
	).Scan(&slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID returns a slot by id, nil when it does not exist.
func (r *SlotPostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE id = $1
	`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// ListActiveOnDate returns every active slot of a professor on one date,
// ordered by start time.
func (r *SlotPostgresRepository) ListActiveOnDate(ctx context.Context, professorID uuid.UUID, date time.Time) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE professor_id = $1
		  AND date = $2
		  AND is_active = true
		ORDER BY start_time
	`

	return r.listSlots(ctx, query, professorID, date)
}

// ListOpenOnDate returns active, unbooked slots on one date.
func (r *SlotPostgresRepository) ListOpenOnDate(ctx context.Context, professorID uuid.UUID, date time.Time) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE professor_id = $1
		  AND date = $2
		  AND is_active = true
		  AND is_booked = false
		ORDER BY date, start_time
	`

	return r.listSlots(ctx, query, professorID, date)
}

// ListOpenFrom returns active, unbooked slots on fromDate or later.
func (r *SlotPostgresRepository) ListOpenFrom(ctx context.Context, professorID uuid.UUID, fromDate time.Time) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE professor_id = $1
		  AND date >= $2
		  AND is_active = true
		  AND is_booked = false
		ORDER BY date, start_time
	`

	return r.listSlots(ctx, query, professorID, fromDate)
}

// ListByProfessor returns a professor's active slots, optionally filtered
// on the booked flag.
func (r *SlotPostgresRepository) ListByProfessor(ctx context.Context, professorID uuid.UUID, booked *bool) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE professor_id = $1
		  AND is_active = true
		  AND ($2::boolean IS NULL OR is_booked = $2)
		ORDER BY date, start_time
	`

	return r.listSlots(ctx, query, professorID, booked)
}

// MarkBooked claims the slot for an appointment. The WHERE clause is the
// compare-and-set: only an unbooked, active slot can be claimed, so
// concurrent attempts resolve to exactly one winner.
func (r *SlotPostgresRepository) MarkBooked(ctx context.Context, slotID, appointmentID uuid.UUID) (bool, error) {
	query := `
		UPDATE availability_slots
		SET is_booked = true, appointment_id = $2
		WHERE id = $1 AND is_booked = false AND is_active = true
	`

	result, err := r.db.Exec(ctx, query, slotID, appointmentID)
	if err != nil {
		return false, fmt.Errorf("mark slot booked: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// MarkFreed releases the slot. Zero affected rows means the slot was
// already free or gone, which callers treat as success.
func (r *SlotPostgresRepository) MarkFreed(ctx context.Context, slotID uuid.UUID) error {
	query := `
		UPDATE availability_slots
		SET is_booked = false, appointment_id = NULL
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, slotID); err != nil {
		return fmt.Errorf("mark slot freed: %w", err)
	}

	return nil
}

// SoftDelete deactivates the slot. Ownership and booking guards live in
// the service layer.
func (r *SlotPostgresRepository) SoftDelete(ctx context.Context, slotID uuid.UUID) error {
	query := `
		UPDATE availability_slots
		SET is_active = false
		WHERE id = $1 AND is_active = true
	`

	result, err := r.db.Exec(ctx, query, slotID)
	if err != nil {
		return fmt.Errorf("soft delete slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("soft delete slot: not found")
	}

	return nil
}

func (r *SlotPostgresRepository) listSlots(ctx context.Context, query string, args ...any) ([]*model.AvailabilitySlot, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailabilitySlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	return slots, nil
}

func scanSlot(row pgx.Row) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	err := row.Scan(
		&slot.ID,
		&slot.ProfessorID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsBooked,
		&slot.AppointmentID,
		&slot.IsActive,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
