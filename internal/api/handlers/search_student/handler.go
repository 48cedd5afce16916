package search_student

import (
	"errors"
	"net/http"

	"github.com/m04kA/DS-BookingService/internal/api/handlers"
	"github.com/m04kA/DS-BookingService/internal/service/students"
)

const (
	msgMissingStudentID = "studentId query parameter is required"
	msgStudentNotFound  = "student not found"
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

// Handle GET /api/v1/admin/students?studentId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		handlers.RespondBadRequest(w, msgMissingStudentID)
		return
	}

	result, err := h.students.SearchByStudentID(r.Context(), studentID)
	if err != nil {
		if errors.Is(err, students.ErrStudentNotFound) {
			h.logger.Warn("GET /admin/students - Student %s not found", studentID)
			handlers.RespondNotFound(w, msgStudentNotFound)
			return
		}
		h.logger.Error("GET /admin/students - Failed for %s: %v", studentID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
