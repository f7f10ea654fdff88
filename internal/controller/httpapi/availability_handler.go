package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

type createAvailabilityRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// CreateAvailability handles POST /api/availability.
func (h *Handler) CreateAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	date, ok := parseDate(req.Date)
	if !ok {
		writeFail(w, http.StatusBadRequest, "Date must be a valid ISO date")
		return
	}

	slot, err := h.availability.CreateSlot(r.Context(), callerID(r.Context()), date, req.StartTime, req.EndTime)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Availability slot created successfully", map[string]any{
		"availability": newSlotView(slot),
	})
}

// GetProfessorAvailability handles GET /api/availability/professor/:professorId.
func (h *Handler) GetProfessorAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	professorID, err := uuid.Parse(ps.ByName("professorId"))
	if err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid professor ID")
		return
	}

	var onDate *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, ok := parseDate(raw)
		if !ok {
			writeFail(w, http.StatusBadRequest, "Date must be a valid ISO date")
			return
		}
		onDate = &date
	}

	professor, slots, err := h.availability.ListOpenSlots(r.Context(), professorID, onDate)
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]slotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, newSlotView(slot))
	}

	writeSuccessCount(w, len(views), map[string]any{
		"professor":      newProfessorSummary(professor),
		"availabilities": views,
	})
}

// GetMySlots handles GET /api/availability/my-slots.
func (h *Handler) GetMySlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := r.URL.Query().Get("status")

	own, err := h.availability.ListOwnSlots(r.Context(), callerID(r.Context()), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]ownSlotView, 0, len(own))
	for _, entry := range own {
		views = append(views, newOwnSlotView(entry))
	}

	writeSuccessCount(w, len(views), map[string]any{"availabilities": views})
}

// DeleteAvailability handles DELETE /api/availability/:id.
func (h *Handler) DeleteAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slotID, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid slot ID")
		return
	}

	if err := h.availability.SoftDeleteSlot(r.Context(), slotID, callerID(r.Context())); err != nil {
		h.writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Availability slot deleted successfully", nil)
}

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
