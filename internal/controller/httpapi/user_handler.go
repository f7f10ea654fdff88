package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// ListProfessors handles GET /api/users/professors.
func (h *Handler) ListProfessors(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	professors, err := h.users.ListProfessors(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	summaries := make([]*userSummary, 0, len(professors))
	for _, p := range professors {
		summaries = append(summaries, newUserSummary(p))
	}

	writeSuccessCount(w, len(summaries), map[string]any{"professors": summaries})
}

// GetProfessor handles GET /api/users/professors/:id.
func (h *Handler) GetProfessor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid professor ID")
		return
	}

	professor, err := h.users.GetProfessor(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"professor": newUserSummary(professor)})
}

// GetProfile handles GET /api/users/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, err := h.users.GetProfile(r.Context(), callerID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"user": user})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfile handles PUT /api/users/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), callerID(r.Context()), req.Name, req.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Profile updated successfully", map[string]any{"user": user})
}
