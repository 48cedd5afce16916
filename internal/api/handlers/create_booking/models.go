package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/DS-BookingService/internal/domain"
	submitBooking "github.com/m04kA/DS-BookingService/internal/usecase/submit_booking"
	"github.com/m04kA/DS-BookingService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid selectedDate")
	errInvalidTime = errors.New("invalid selectedTime")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	PackageID        string  `json:"packageId"`
	SelectedDate     string  `json:"selectedDate"` // "2026-03-02"
	SelectedTime     string  `json:"selectedTime"` // "09:00"
	Phone            string  `json:"phone"`
	Email            *string `json:"email,omitempty"`
	Name             string  `json:"name"`
	Age              int     `json:"age"`
	Gender           string  `json:"gender"`
	WhyLearning      string  `json:"whyLearning"`
	Address          string  `json:"address"`
	PreviousTraining bool    `json:"previousTraining"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           int64  `json:"id"`
	StudentID    string `json:"studentId,omitempty"`
	PackageID    string `json:"packageId"`
	SelectedDate string `json:"selectedDate"`
	SelectedTime string `json:"selectedTime"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userUID string) (*submitBooking.Request, error) {
	selectedDate, err := time.Parse(domain.DateFormat, r.SelectedDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	selectedTime, err := types.NewTimeStringFromString(r.SelectedTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &submitBooking.Request{
		UserUID:          userUID,
		PackageID:        r.PackageID,
		SelectedDate:     selectedDate,
		SelectedTime:     selectedTime,
		Phone:            r.Phone,
		Email:            r.Email,
		Name:             r.Name,
		Age:              r.Age,
		Gender:           r.Gender,
		WhyLearning:      r.WhyLearning,
		Address:          r.Address,
		PreviousTraining: r.PreviousTraining,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:           resp.ID,
		StudentID:    resp.StudentID,
		PackageID:    resp.PackageID,
		SelectedDate: resp.SelectedDate.Format(domain.DateFormat),
		SelectedTime: resp.SelectedTime.String(),
		Status:       resp.Status,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
	}
}
