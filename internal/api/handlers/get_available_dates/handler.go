package get_available_dates

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/DS-BookingService/internal/api/handlers"
	"github.com/m04kA/DS-BookingService/internal/domain"
	availableDates "github.com/m04kA/DS-BookingService/internal/usecase/get_available_dates"
)

const (
	msgInvalidDate  = "invalid date format, expected YYYY-MM-DD"
	msgInvalidRange = "endDate must not be before startDate"
)

type Handler struct {
	useCase GetAvailableDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/booking/available-dates?startDate=&endDate=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &availableDates.Request{}

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /booking/available-dates - Invalid startDate: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = parsed
	}

	if raw := r.URL.Query().Get("endDate"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /booking/available-dates - Invalid endDate: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = parsed
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, availableDates.ErrInvalidInput) {
			h.logger.Warn("GET /booking/available-dates - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		h.logger.Error("GET /booking/available-dates - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
