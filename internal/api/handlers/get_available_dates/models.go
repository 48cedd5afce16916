package get_available_dates

import (
	availableDates "github.com/m04kA/DS-BookingService/internal/usecase/get_available_dates"
)

// AvailableDatesResponse HTTP response model
type AvailableDatesResponse struct {
	AvailableDates   []string `json:"availableDates"`
	UnavailableDates []string `json:"unavailableDates"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *availableDates.Response) *AvailableDatesResponse {
	return &AvailableDatesResponse{
		AvailableDates:   resp.AvailableDates,
		UnavailableDates: resp.UnavailableDates,
	}
}
