package get_available_slots

import (
	"net/http"
	"time"

	"github.com/m04kA/DS-BookingService/internal/api/handlers"
	"github.com/m04kA/DS-BookingService/internal/domain"
	availableSlots "github.com/m04kA/DS-BookingService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate = "date query parameter is required"
	msgInvalidDate = "invalid date format, expected YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/booking/slots?date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		h.logger.Warn("GET /booking/slots - Invalid date: %s", raw)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &availableSlots.Request{Date: date})
	if err != nil {
		h.logger.Error("GET /booking/slots - Failed for date=%s: %v", raw, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
