package submit_booking

import (
	"context"

	"github.com/m04kA/DS-BookingService/internal/domain"
	studentModels "github.com/m04kA/DS-BookingService/internal/service/students/models"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// StudentDirectory интерфейс сервиса учета студентов
type StudentDirectory interface {
	ResolveOrCreate(ctx context.Context, uid string, contact studentModels.ContactInfo) (*studentModels.StudentResponse, error)
	GetByUID(ctx context.Context, uid string) (*studentModels.StudentResponse, error)
	GetByEmail(ctx context.Context, email string) (*studentModels.StudentResponse, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
