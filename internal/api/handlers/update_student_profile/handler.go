package update_student_profile

import (
	"errors"
	"net/http"

	"github.com/m04kA/DS-BookingService/internal/api/handlers"
	"github.com/m04kA/DS-BookingService/internal/api/middleware"
	"github.com/m04kA/DS-BookingService/internal/service/students"
	studentModels "github.com/m04kA/DS-BookingService/internal/service/students/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgUnauthorized       = "authentication required"
	msgStudentNotFound    = "student record not found"
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

// Handle PUT /api/v1/students/me
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userUID, ok := middleware.GetUserUID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req studentModels.UpdateProfileRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /students/me - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.students.UpdateProfile(r.Context(), userUID, &req)
	if err != nil {
		switch {
		case errors.Is(err, students.ErrStudentNotFound):
			h.logger.Warn("PUT /students/me - No student record for uid=%s", userUID)
			handlers.RespondNotFound(w, msgStudentNotFound)

		case errors.Is(err, students.ErrInvalidInput):
			h.logger.Warn("PUT /students/me - Invalid input for uid=%s: %v", userUID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /students/me - Failed for uid=%s: %v", userUID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /students/me - Profile updated for student %s", result.StudentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
