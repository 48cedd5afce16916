package students

import (
	"context"
	"time"

	"github.com/m04kA/DS-BookingService/internal/domain"
	studentRepo "github.com/m04kA/DS-BookingService/internal/infra/storage/student"
)

// StudentRepository интерфейс репозитория студентов
type StudentRepository interface {
	GetByUID(ctx context.Context, uid string) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*domain.Student, error)
	Create(ctx context.Context, student *domain.Student) (*domain.Student, error)
	UpdateContact(ctx context.Context, uid string, upd studentRepo.ContactUpdate) error
	UpdateProfile(ctx context.Context, uid string, upd studentRepo.ProfileUpdate) error
	Complete(ctx context.Context, studentID, certificateID, certificateLink string, completedAt time.Time) error
	NextStudentSequence(ctx context.Context, yearPrefix string) (int, error)
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
