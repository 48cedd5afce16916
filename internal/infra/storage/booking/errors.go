package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда пара (дата, время) уже занята
	// pending/confirmed бронированием (нарушение uq_bookings_slot)
	ErrSlotTaken = errors.New("booking.repository: slot already taken")

	// ErrVersionConflict возвращается, когда конкурентная мутация
	// обогнала текущую (optimistic version check не прошел)
	ErrVersionConflict = errors.New("booking.repository: booking version conflict")

	// ErrDuplicateInvoice возвращается при коллизии номера счета
	ErrDuplicateInvoice = errors.New("booking.repository: duplicate invoice number")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
