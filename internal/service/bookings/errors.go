package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAlreadyProcessed возвращается при попытке решения по заявке,
	// которая уже не в статусе pending
	ErrAlreadyProcessed = errors.New("booking already processed")

	// ErrVersionConflict возвращается, когда конкурентная админская
	// мутация обогнала текущую
	ErrVersionConflict = errors.New("booking was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
