package bookings

import (
	"context"
	"time"

	"github.com/m04kA/DS-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/DS-BookingService/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserUID(ctx context.Context, uid string) ([]*domain.Booking, error)
	ListByStatus(ctx context.Context, status *domain.BookingStatus, limit int) ([]*domain.Booking, error)
	UpdateDecision(ctx context.Context, id int64, version int, upd bookingRepo.DecisionUpdate) error
	UpdateFees(ctx context.Context, id int64, version int, upd bookingRepo.FeesUpdate) error
	AddPayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	ListPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider источник текущего времени (подменяется в тестах)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
