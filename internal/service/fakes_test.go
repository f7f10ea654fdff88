package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"officehours/internal/model"
	"officehours/internal/repository"
)

// fakeStore is an in-memory stand-in for Postgres. The slot claim is a
// compare-and-set under the store mutex, mirroring the conditional UPDATE
// the real repository issues.
type fakeStore struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	slots map[uuid.UUID]*model.AvailabilitySlot
	appts map[uuid.UUID]*model.Appointment
	users map[uuid.UUID]*model.User

	failNextClaim bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slots: make(map[uuid.UUID]*model.AvailabilitySlot),
		appts: make(map[uuid.UUID]*model.Appointment),
		users: make(map[uuid.UUID]*model.User),
	}
}

func (s *fakeStore) snapshot() (map[uuid.UUID]*model.AvailabilitySlot, map[uuid.UUID]*model.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots := make(map[uuid.UUID]*model.AvailabilitySlot, len(s.slots))
	for id, slot := range s.slots {
		slots[id] = copySlot(slot)
	}
	appts := make(map[uuid.UUID]*model.Appointment, len(s.appts))
	for id, appt := range s.appts {
		appts[id] = copyAppointment(appt)
	}
	return slots, appts
}

func (s *fakeStore) restore(slots map[uuid.UUID]*model.AvailabilitySlot, appts map[uuid.UUID]*model.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = slots
	s.appts = appts
}

func copySlot(slot *model.AvailabilitySlot) *model.AvailabilitySlot {
	c := *slot
	if slot.AppointmentID != nil {
		id := *slot.AppointmentID
		c.AppointmentID = &id
	}
	return &c
}

func copyAppointment(appt *model.Appointment) *model.Appointment {
	c := *appt
	if appt.CancelledAt != nil {
		t := *appt.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

func sortSlots(slots []*model.AvailabilitySlot) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}

type fakeSlotRepo struct {
	store *fakeStore
}

var _ repository.SlotRepository = (*fakeSlotRepo)(nil)

func (r *fakeSlotRepo) Create(_ context.Context, slot *model.AvailabilitySlot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slot.CreatedAt = time.Now()
	r.store.slots[slot.ID] = copySlot(slot)
	return nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slot, ok := r.store.slots[id]
	if !ok {
		return nil, nil
	}
	return copySlot(slot), nil
}

func (r *fakeSlotRepo) ListActiveOnDate(_ context.Context, professorID uuid.UUID, date time.Time) ([]*model.AvailabilitySlot, error) {
	return r.list(func(slot *model.AvailabilitySlot) bool {
		return slot.ProfessorID == professorID && slot.IsActive && slot.Date.Equal(date)
	}), nil
}

func (r *fakeSlotRepo) ListOpenOnDate(_ context.Context, professorID uuid.UUID, date time.Time) ([]*model.AvailabilitySlot, error) {
	return r.list(func(slot *model.AvailabilitySlot) bool {
		return slot.ProfessorID == professorID && slot.IsActive && !slot.IsBooked && slot.Date.Equal(date)
	}), nil
}

func (r *fakeSlotRepo) ListOpenFrom(_ context.Context, professorID uuid.UUID, fromDate time.Time) ([]*model.AvailabilitySlot, error) {
	return r.list(func(slot *model.AvailabilitySlot) bool {
		return slot.ProfessorID == professorID && slot.IsActive && !slot.IsBooked && !slot.Date.Before(fromDate)
	}), nil
}

func (r *fakeSlotRepo) ListByProfessor(_ context.Context, professorID uuid.UUID, booked *bool) ([]*model.AvailabilitySlot, error) {
	return r.list(func(slot *model.AvailabilitySlot) bool {
		if slot.ProfessorID != professorID || !slot.IsActive {
			return false
		}
		return booked == nil || slot.IsBooked == *booked
	}), nil
}

func (r *fakeSlotRepo) MarkBooked(_ context.Context, slotID, appointmentID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failNextClaim {
		r.store.failNextClaim = false
		return false, nil
	}
	slot, ok := r.store.slots[slotID]
	if !ok || slot.IsBooked || !slot.IsActive {
		return false, nil
	}
	id := appointmentID
	slot.IsBooked = true
	slot.AppointmentID = &id
	return true, nil
}

func (r *fakeSlotRepo) MarkFreed(_ context.Context, slotID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if slot, ok := r.store.slots[slotID]; ok {
		slot.IsBooked = false
		slot.AppointmentID = nil
	}
	return nil
}

func (r *fakeSlotRepo) SoftDelete(_ context.Context, slotID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	slot, ok := r.store.slots[slotID]
	if !ok || !slot.IsActive {
		return fmt.Errorf("soft delete slot: not found")
	}
	slot.IsActive = false
	return nil
}

func (r *fakeSlotRepo) list(keep func(*model.AvailabilitySlot) bool) []*model.AvailabilitySlot {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var slots []*model.AvailabilitySlot
	for _, slot := range r.store.slots {
		if keep(slot) {
			slots = append(slots, copySlot(slot))
		}
	}
	sortSlots(slots)
	return slots
}

type fakeAppointmentRepo struct {
	store *fakeStore
}

var _ repository.AppointmentRepository = (*fakeAppointmentRepo)(nil)

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *model.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	r.store.appts[appt.ID] = copyAppointment(appt)
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	appt, ok := r.store.appts[id]
	if !ok || !appt.IsActive {
		return nil, nil
	}
	return copyAppointment(appt), nil
}

func (r *fakeAppointmentRepo) GetByIDForUser(_ context.Context, id, userID uuid.UUID) (*model.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	appt, ok := r.store.appts[id]
	if !ok || !appt.IsActive {
		return nil, nil
	}
	if appt.StudentID != userID && appt.ProfessorID != userID {
		return nil, nil
	}
	return copyAppointment(appt), nil
}

func (r *fakeAppointmentRepo) ListForUser(_ context.Context, userID uuid.UUID, role model.Role, status *model.AppointmentStatus) ([]*model.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var appts []*model.Appointment
	for _, appt := range r.store.appts {
		if !appt.IsActive {
			continue
		}
		if role == model.RoleStudent && appt.StudentID != userID {
			continue
		}
		if role == model.RoleProfessor && appt.ProfessorID != userID {
			continue
		}
		if status != nil && appt.Status != *status {
			continue
		}
		appts = append(appts, copyAppointment(appt))
	}
	sort.Slice(appts, func(i, j int) bool {
		if !appts[i].Date.Equal(appts[j].Date) {
			return appts[i].Date.Before(appts[j].Date)
		}
		return appts[i].StartTime < appts[j].StartTime
	})
	return appts, nil
}

func (r *fakeAppointmentRepo) HasScheduledAt(_ context.Context, studentID, professorID uuid.UUID, date time.Time, startTime string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, appt := range r.store.appts {
		if appt.IsActive &&
			appt.Status == model.AppointmentStatusScheduled &&
			appt.StudentID == studentID &&
			appt.ProfessorID == professorID &&
			appt.Date.Equal(date) &&
			appt.StartTime == startTime {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) MarkCancelled(_ context.Context, id uuid.UUID, by model.CancelledBy, at time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	appt, ok := r.store.appts[id]
	if !ok || !appt.IsActive || appt.Status != model.AppointmentStatusScheduled {
		return false, nil
	}
	when := at
	appt.Status = model.AppointmentStatusCancelled
	appt.CancelledBy = by
	appt.CancelledAt = &when
	appt.UpdatedAt = when
	return true, nil
}

func (r *fakeAppointmentRepo) MarkCompleted(_ context.Context, id, professorID uuid.UUID, notes string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	appt, ok := r.store.appts[id]
	if !ok || !appt.IsActive || appt.ProfessorID != professorID || appt.Status != model.AppointmentStatusScheduled {
		return false, nil
	}
	appt.Status = model.AppointmentStatusCompleted
	if notes != "" {
		appt.Notes = notes
	}
	appt.UpdatedAt = time.Now()
	return true, nil
}

type fakeUserRepo struct {
	store *fakeStore
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.CreatedAt = time.Now()
	c := *user
	r.store.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok || !user.IsActive {
		return nil, nil
	}
	c := *user
	return &c, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.IsActive && user.Email == strings.ToLower(email) {
			c := *user
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListProfessors(_ context.Context) ([]*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var users []*model.User
	for _, user := range r.store.users {
		if user.IsActive && user.Role == model.RoleProfessor {
			c := *user
			users = append(users, &c)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, name, email string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok || !user.IsActive {
		return nil, nil
	}
	user.Name = name
	user.Email = email
	c := *user
	return &c, nil
}

// fakeTxManager serializes transactions and restores a snapshot when the
// callback fails, mirroring commit/rollback.
type fakeTxManager struct {
	store *fakeStore
}

var _ repository.TxManager = (*fakeTxManager)(nil)

func (m *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	slots, appts := m.store.snapshot()
	repos := repository.TxRepositories{
		Slots:        &fakeSlotRepo{store: m.store},
		Appointments: &fakeAppointmentRepo{store: m.store},
	}

	if err := fn(ctx, repos); err != nil {
		m.store.restore(slots, appts)
		return err
	}

	return nil
}
