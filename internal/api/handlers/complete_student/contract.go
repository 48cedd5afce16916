package complete_student

import (
	"context"

	studentModels "github.com/m04kA/DS-BookingService/internal/service/students/models"
)

type StudentService interface {
	Complete(ctx context.Context, studentID string) (*studentModels.StudentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
