package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"officehours/internal/model"
)

type bookAppointmentRequest struct {
	AvailabilityID string `json:"availabilityId"`
	Reason         string `json:"reason"`
}

// BookAppointment handles POST /api/appointments.
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	availabilityID, err := uuid.Parse(req.AvailabilityID)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "Valid availability ID is required")
		return
	}

	appt, err := h.appointments.Book(r.Context(), callerID(r.Context()), availabilityID, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	view := newAppointmentView(appt)
	if _, professor, err := h.appointments.Counterparties(r.Context(), appt); err == nil {
		view.Professor = newUserSummary(professor)
	}

	writeSuccess(w, http.StatusCreated, "Appointment booked successfully", map[string]any{
		"appointment": view,
	})
}

// MyAppointments handles GET /api/appointments. The counterpart field is
// role-dependent: students see the professor, professors see the student.
func (h *Handler) MyAppointments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := callerID(ctx)
	role := callerRole(ctx)

	appts, err := h.appointments.ListForUser(ctx, userID, role, r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]appointmentView, 0, len(appts))
	for _, appt := range appts {
		view := newAppointmentView(appt)
		student, professor, err := h.appointments.Counterparties(ctx, appt)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if role == model.RoleStudent {
			view.Professor = newUserSummary(professor)
		} else {
			view.Student = newUserSummary(student)
		}
		views = append(views, view)
	}

	writeSuccessCount(w, len(views), map[string]any{"appointments": views})
}

// GetAppointment handles GET /api/appointments/:id.
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	appt, err := h.appointments.GetByID(r.Context(), id, callerID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}

	view := newAppointmentView(appt)
	student, professor, err := h.appointments.Counterparties(r.Context(), appt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	view.Student = newUserSummary(student)
	view.Professor = newUserSummary(professor)

	writeSuccess(w, http.StatusOK, "", map[string]any{"appointment": view})
}

// CancelAppointment handles PUT /api/appointments/:id/cancel.
func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	ctx := r.Context()
	appt, err := h.appointments.Cancel(ctx, id, callerID(ctx), callerRole(ctx))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Appointment cancelled successfully", map[string]any{
		"appointment": map[string]any{
			"id":          appt.ID,
			"status":      appt.Status,
			"cancelledBy": appt.CancelledBy,
			"cancelledAt": appt.CancelledAt,
		},
	})
}

type completeAppointmentRequest struct {
	Notes string `json:"notes"`
}

// CompleteAppointment handles PUT /api/appointments/:id/complete. The
// body is optional and may carry the professor's notes.
func (h *Handler) CompleteAppointment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	var req completeAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	appt, err := h.appointments.Complete(r.Context(), id, callerID(r.Context()), req.Notes)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Appointment marked as completed", map[string]any{
		"appointment": map[string]any{
			"id":     appt.ID,
			"status": appt.Status,
		},
	})
}
