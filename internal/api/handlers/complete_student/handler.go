package complete_student

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/DS-BookingService/internal/api/handlers"
	"github.com/m04kA/DS-BookingService/internal/service/students"
)

const (
	msgStudentNotFound  = "student not found"
	msgAlreadyCompleted = "student has already completed the course"
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

// Handle POST /api/v1/admin/students/{studentId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	result, err := h.students.Complete(r.Context(), studentID)
	if err != nil {
		switch {
		case errors.Is(err, students.ErrStudentNotFound):
			h.logger.Warn("POST /admin/students/%s/complete - Not found", studentID)
			handlers.RespondNotFound(w, msgStudentNotFound)

		case errors.Is(err, students.ErrAlreadyCompleted):
			h.logger.Warn("POST /admin/students/%s/complete - Already completed", studentID)
			handlers.RespondBadRequest(w, msgAlreadyCompleted)

		default:
			h.logger.Error("POST /admin/students/%s/complete - Failed: %v", studentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/students/%s/complete - Certificate %s issued",
		studentID, deref(result.CertificateID))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
