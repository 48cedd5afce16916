package list_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/DS-BookingService/internal/api/handlers"
	"github.com/m04kA/DS-BookingService/internal/service/bookings"
	bookingModels "github.com/m04kA/DS-BookingService/internal/service/bookings/models"
)

const msgInvalidStatus = "invalid status filter"

type Handler struct {
	bookings BookingService
	logger   Logger
}

func NewHandler(bookings BookingService, logger Logger) *Handler {
	return &Handler{
		bookings: bookings,
		logger:   logger,
	}
}

// Handle GET /api/v1/admin/bookings?status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &bookingModels.ListBookingsRequest{}
	if raw := r.URL.Query().Get("status"); raw != "" {
		req.Status = &raw
	}

	result, err := h.bookings.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /admin/bookings - Invalid status filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /admin/bookings - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
