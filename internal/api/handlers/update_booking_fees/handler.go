package update_booking_fees

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

// Handle PUT /api/v1/admin/bookings/{bookingId}/fees
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req bookingModels.UpdateFeesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/bookings/%d/fees - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.bookings.UpdateFees(r.Context(), bookingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PUT /admin/bookings/%d/fees - Not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrVersionConflict):
			h.logger.Warn("PUT /admin/bookings/%d/fees - Version conflict", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgVersionConflict)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PUT /admin/bookings/%d/fees - Invalid input: %v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /admin/bookings/%d/fees - Failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/bookings/%d/fees - Updated, totalPaid=%.2f, due=%.2f",
		bookingID, result.TotalPaid, result.Due)
	handlers.RespondJSON(w, http.StatusOK, result)
}
