package list_bookings

import (
	"context"

	bookingModels "github.com/m04kA/DS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	List(ctx context.Context, req *bookingModels.ListBookingsRequest) (*bookingModels.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
