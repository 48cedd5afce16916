package decide_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/DS-BookingService/internal/api/handlers"
	"github.com/m04kA/DS-BookingService/internal/service/bookings"
	bookingModels "github.com/m04kA/DS-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidBookingID   = "invalid booking id"
	msgBookingNotFound    = "booking not found"
	msgVersionConflict    = "booking was modified concurrently, please retry"
)

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

// Handle POST /api/v1/admin/bookings/{bookingId}/decision
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req bookingModels.DecideBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/bookings/%d/decision - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.bookings.Decide(r.Context(), bookingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /admin/bookings/%d/decision - Not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrAlreadyProcessed):
			h.logger.Warn("POST /admin/bookings/%d/decision - Already processed: %v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, bookings.ErrVersionConflict):
			h.logger.Warn("POST /admin/bookings/%d/decision - Version conflict", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgVersionConflict)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /admin/bookings/%d/decision - Invalid input: %v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /admin/bookings/%d/decision - Failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/bookings/%d/decision - Booking is now %s", bookingID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
