package get_my_bookings

import (
	"context"

	bookingModels "github.com/m04kA/DS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListByUser(ctx context.Context, uid string) (*bookingModels.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
