package get_my_bookings

import (
	"net/http"

	"github.com/m04kA/DS-BookingService/internal/api/handlers"
	"github.com/m04kA/DS-BookingService/internal/api/middleware"
)

const msgUnauthorized = "authentication required"

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

// Handle GET /api/v1/bookings/me
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userUID, ok := middleware.GetUserUID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.bookings.ListByUser(r.Context(), userUID)
	if err != nil {
		h.logger.Error("GET /bookings/me - Failed: user=%s, error=%v", userUID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
