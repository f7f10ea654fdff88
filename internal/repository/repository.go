package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"officehours/internal/model"
)

// DB is the query surface the repositories need. Both *pgxpool.Pool and
// pgx.Tx satisfy it, so the same repository code runs directly on the pool
// or inside a transaction handed out by the TxManager.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SlotRepository interface {
	Create(ctx context.Context, slot *model.AvailabilitySlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error)
	// ListActiveOnDate returns every active slot of a professor on one
	// calendar date, booked or not. Used by the overlap scan.
	ListActiveOnDate(ctx context.Context, professorID uuid.UUID, date time.Time) ([]*model.AvailabilitySlot, error)
	// ListOpenOnDate returns active, unbooked slots on one date.
	ListOpenOnDate(ctx context.Context, professorID uuid.UUID, date time.Time) ([]*model.AvailabilitySlot, error)
	// ListOpenFrom returns active, unbooked slots on fromDate or later.
	ListOpenFrom(ctx context.Context, professorID uuid.UUID, fromDate time.Time) ([]*model.AvailabilitySlot, error)
	// ListByProfessor returns active slots, optionally filtered on the
	// booked flag.
	ListByProfessor(ctx context.Context, professorID uuid.UUID, booked *bool) ([]*model.AvailabilitySlot, error)
	// MarkBooked atomically claims an unbooked, active slot for an
	// appointment. It reports false when the slot was already claimed,
	// inactive or missing. This conditional update is the single
	// serialization point preventing double booking.
	MarkBooked(ctx context.Context, slotID, appointmentID uuid.UUID) (bool, error)
	// MarkFreed releases a slot. Freeing an already-free or missing slot
	// is a no-op.
	MarkFreed(ctx context.Context, slotID uuid.UUID) error
	SoftDelete(ctx context.Context, slotID uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// GetByIDForUser returns the appointment only when userID is its
	// student or professor. A miss for either reason looks the same.
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Appointment, error)
	ListForUser(ctx context.Context, userID uuid.UUID, role model.Role, status *model.AppointmentStatus) ([]*model.Appointment, error)
	// HasScheduledAt reports whether the student already holds a scheduled
	// appointment with the professor at the identical date and start time.
	HasScheduledAt(ctx context.Context, studentID, professorID uuid.UUID, date time.Time, startTime string) (bool, error)
	// MarkCancelled transitions a scheduled appointment to cancelled. It
	// reports false when the appointment was not in the scheduled state.
	MarkCancelled(ctx context.Context, id uuid.UUID, by model.CancelledBy, at time.Time) (bool, error)
	// MarkCompleted transitions a scheduled appointment owned by the
	// professor to completed, attaching notes when provided.
	MarkCompleted(ctx context.Context, id, professorID uuid.UUID, notes string) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListProfessors(ctx context.Context) ([]*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*model.User, error)
}
