package get_student_profile

import (
	"errors"
	"net/http"

	"github.com/m04kA/DS-BookingService/internal/api/handlers"
	"github.com/m04kA/DS-BookingService/internal/api/middleware"
	"github.com/m04kA/DS-BookingService/internal/service/students"
)

const (
	msgUnauthorized    = "authentication required"
	msgStudentNotFound = "student record not found"
)

type Handler struct {
	students StudentService
	logger   Logger
}

func NewHandler(students StudentService, logger Logger) *Handler {
	return &Handler{
		students: students,
		logger:   logger,
	}
}

// Handle GET /api/v1/students/me
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userUID, ok := middleware.GetUserUID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.students.GetByUID(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, students.ErrStudentNotFound) {
			h.logger.Warn("GET /students/me - No student record for uid=%s", userUID)
			handlers.RespondNotFound(w, msgStudentNotFound)
			return
		}
		h.logger.Error("GET /students/me - Failed for uid=%s: %v", userUID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
