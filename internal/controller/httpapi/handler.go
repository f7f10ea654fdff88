package httpapi

import (
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"officehours/internal/model"
	"officehours/internal/service"
)

const tokenTTL = 24 * time.Hour

type Handler struct {
	users        *service.UserService
	availability *service.AvailabilityService
	appointments *service.AppointmentService
	jwtSecret    []byte
	logger       *zap.Logger
}

func NewHandler(
	users *service.UserService,
	availability *service.AvailabilityService,
	appointments *service.AppointmentService,
	jwtSecret []byte,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		users:        users,
		availability: availability,
		appointments: appointments,
		jwtSecret:    jwtSecret,
		logger:       logger,
	}
}

// NewRouter builds the API router.
func NewRouter(h *Handler) *httprouter.Router {
	router := httprouter.New()

	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/login", h.Login)

	router.GET("/api/users/professors", h.ListProfessors)
	router.GET("/api/users/professors/:id", h.GetProfessor)
	router.GET("/api/users/profile", h.Authenticate(h.GetProfile))
	router.PUT("/api/users/profile", h.Authenticate(h.UpdateProfile))

	router.POST("/api/availability", h.Authenticate(h.RequireRole(model.RoleProfessor, h.CreateAvailability)))
	router.GET("/api/availability/professor/:professorId", h.GetProfessorAvailability)
	router.GET("/api/availability/my-slots", h.Authenticate(h.RequireRole(model.RoleProfessor, h.GetMySlots)))
	router.DELETE("/api/availability/:id", h.Authenticate(h.RequireRole(model.RoleProfessor, h.DeleteAvailability)))

	router.POST("/api/appointments", h.Authenticate(h.RequireRole(model.RoleStudent, h.BookAppointment)))
	router.GET("/api/appointments", h.Authenticate(h.MyAppointments))
	router.GET("/api/appointments/:id", h.Authenticate(h.GetAppointment))
	router.PUT("/api/appointments/:id/cancel", h.Authenticate(h.CancelAppointment))
	router.PUT("/api/appointments/:id/complete", h.Authenticate(h.RequireRole(model.RoleProfessor, h.CompleteAppointment)))

	return router
}
