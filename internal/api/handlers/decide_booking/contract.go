package decide_booking

import (
	"context"

	bookingModels "github.com/m04kA/DS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Decide(ctx context.Context, bookingID int64, req *bookingModels.DecideBookingRequest) (*bookingModels.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
