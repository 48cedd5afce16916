package models

import (
	"errors"
	"time"

	"github.com/m04kA/DS-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Действия администратора над заявкой
const (
	ActionConfirm = "confirm"
	ActionReject  = "reject"
)

// Request модели

// ListBookingsRequest запрос на получение списка заявок
type ListBookingsRequest struct {
	Status *string `json:"status,omitempty"`
}

// DecideBookingRequest решение администратора по заявке
type DecideBookingRequest struct {
	Action          string   `json:"action"`
	AssignedPackage *string  `json:"assignedPackage,omitempty"`
	Fee             *float64 `json:"fee,omitempty"`
	TotalPaid       *float64 `json:"totalPaid,omitempty"`
}

// PaymentInput один платеж, вносимый при редактировании оплаты
type PaymentInput struct {
	Amount float64    `json:"amount"`
	Method string     `json:"method"`
	Date   *time.Time `json:"date,omitempty"`
	Notes  *string    `json:"notes,omitempty"`
}

// UpdateFeesRequest запрос на редактирование финансовых полей заявки
type UpdateFeesRequest struct {
	Fee       *float64      `json:"fee,omitempty"`
	TotalPaid *float64      `json:"totalPaid,omitempty"`
	Payment   *PaymentInput `json:"payment,omitempty"`
}

// Response модели

// PaymentResponse одна запись журнала платежей
type PaymentResponse struct {
	ID     int64   `json:"id"`
	Amount float64 `json:"amount"`
	PaidAt string  `json:"paidAt"` // ISO 8601
	Method string  `json:"method"`
	Notes  *string `json:"notes,omitempty"`
}

// BookingResponse ответ с данными заявки на бронирование
type BookingResponse struct {
	ID           int64  `json:"id"`
	UserUID      string `json:"userUid"`
	PackageID    string `json:"packageId"`
	SelectedDate string `json:"selectedDate"` // "2026-03-02"
	SelectedTime string `json:"selectedTime"` // "09:00"
	Status       string `json:"status"`

	Phone            string  `json:"phone"`
	Email            *string `json:"email,omitempty"`
	Name             string  `json:"name"`
	Age              int     `json:"age"`
	Gender           string  `json:"gender"`
	WhyLearning      string  `json:"whyLearning"`
	Address          string  `json:"address"`
	PreviousTraining bool    `json:"previousTraining"`

	AssignedPackage *string           `json:"assignedPackage,omitempty"`
	Fee             *float64          `json:"fee,omitempty"`
	TotalPaid       float64           `json:"totalPaid"`
	Due             float64           `json:"due"`
	InvoiceNumber   *string           `json:"invoiceNumber,omitempty"`
	Payments        []PaymentResponse `json:"payments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком заявок
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(status) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusRejected:
		return domain.BookingStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:               b.ID,
		UserUID:          b.UserUID,
		PackageID:        string(b.PackageID),
		SelectedDate:     b.SelectedDate.Format(domain.DateFormat),
		SelectedTime:     b.SelectedTime.String(),
		Status:           string(b.Status),
		Phone:            b.Phone,
		Email:            b.Email,
		Name:             b.Name,
		Age:              b.Age,
		Gender:           b.Gender,
		WhyLearning:      string(b.WhyLearning),
		Address:          b.Address,
		PreviousTraining: b.PreviousTraining,
		Fee:              b.Fee,
		TotalPaid:        b.TotalPaid,
		Due:              b.Due,
		InvoiceNumber:    b.InvoiceNumber,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}

	if b.AssignedPackage != nil {
		assigned := string(*b.AssignedPackage)
		resp.AssignedPackage = &assigned
	}

	for _, p := range b.Payments {
		resp.Payments = append(resp.Payments, FromDomainPayment(p))
	}

	return resp
}

// FromDomainPayment конвертирует платеж в DTO
func FromDomainPayment(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:     p.ID,
		Amount: p.Amount,
		PaidAt: p.PaidAt.Format(time.RFC3339),
		Method: string(p.Method),
		Notes:  p.Notes,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
