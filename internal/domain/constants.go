package domain

import "time"

// Booking calendar constants
const (
	// ClosedWeekday день недели, в который школа закрыта для записи
	ClosedWeekday = time.Friday

	// BookingStartHour час начала первого слота (включительно)
	BookingStartHour = 7

	// BookingEndHour час, до которого идут занятия (не включительно)
	BookingEndHour = 12

	// SlotDurationMinutes канонический шаг сетки слотов
	SlotDurationMinutes = 60
)

// Validation constants
const (
	MinStudentAge = 16
	MaxStudentAge = 100
)

// Identifier format constants
const (
	// StudentIDPrefix префикс студенческого номера, за ним идут 2 цифры года
	// и 4-значный порядковый номер (например, TS260042)
	StudentIDPrefix = "TS"

	// StudentIDSequenceDigits ширина порядкового номера в студенческом ID
	StudentIDSequenceDigits = 4

	// InvoiceNumberPrefix префикс номера счета (INV-2026-A1B2C3)
	InvoiceNumberPrefix = "INV"

	// CertificateIDPrefix префикс ID сертификата (CERT-2026-A1B2C3D4)
	CertificateIDPrefix = "CERT"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultAvailabilityRangeDays диапазон по умолчанию для запроса доступных дат
const DefaultAvailabilityRangeDays = 60

// ActiveStatuses статусы бронирований, занимающих слот
// Используются в проверке занятости (date, time)
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
