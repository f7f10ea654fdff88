package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"officehours/internal/model"
)

type registerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	StudentNumber string `json:"studentId"`
	Department    string `json:"department"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password, req.Role, req.StudentNumber, req.Department)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, "User registered successfully", user)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, "Login successful", user)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, code int, message string, user *model.User) {
	token, err := IssueToken(h.jwtSecret, user, tokenTTL)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeSuccess(w, code, message, map[string]any{
		"token": token,
		"user":  user,
	})
}
