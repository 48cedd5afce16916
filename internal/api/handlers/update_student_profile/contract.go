package update_student_profile

import (
	"context"

	studentModels "github.com/m04kA/DS-BookingService/internal/service/students/models"
)

type StudentService interface {
	UpdateProfile(ctx context.Context, uid string, req *studentModels.UpdateProfileRequest) (*studentModels.StudentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
