package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/DS-BookingService/internal/api/handlers"
	"github.com/m04kA/DS-BookingService/internal/api/middleware"
	submitBooking "github.com/m04kA/DS-BookingService/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid selectedDate format, expected YYYY-MM-DD"
	msgInvalidTime        = "invalid selectedTime format, expected HH:MM"
	msgUnauthorized       = "authentication required"
	msgClosedDay          = "the school is closed on the selected day"
	msgInvalidSlot        = "selected time is outside the booking hours"
	msgSlotTaken          = "the selected slot is already taken"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userUID, ok := middleware.GetUserUID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userUID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, submitBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: user=%s, date=%s, time=%s",
				userUID, req.SelectedDate, req.SelectedTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, submitBooking.ErrClosedDay):
			h.logger.Warn("POST /bookings - Closed day: user=%s, date=%s", userUID, req.SelectedDate)
			handlers.RespondBadRequest(w, msgClosedDay)

		case errors.Is(err, submitBooking.ErrInvalidSlot):
			h.logger.Warn("POST /bookings - Invalid slot: user=%s, time=%s", userUID, req.SelectedTime)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, submitBooking.ErrMissingFields),
			errors.Is(err, submitBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user=%s: %v", userUID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to submit booking: user=%s, error=%v", userUID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking submitted: booking_id=%d, user=%s, student_id=%s",
		result.ID, userUID, result.StudentID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
