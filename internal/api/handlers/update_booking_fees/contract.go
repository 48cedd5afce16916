package update_booking_fees

import (
	"context"

	bookingModels "github.com/m04kA/DS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	UpdateFees(ctx context.Context, bookingID int64, req *bookingModels.UpdateFeesRequest) (*bookingModels.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
