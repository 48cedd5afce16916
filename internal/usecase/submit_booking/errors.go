package submit_booking

import "errors"

var (
	// ErrMissingFields возвращается, когда в запросе не заполнены
	// обязательные поля; текст перечисляет каждое из них
	ErrMissingFields = errors.New("submit_booking: missing required fields")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_booking: invalid input data")

	// ErrClosedDay возвращается при попытке записаться на выходной день школы
	ErrClosedDay = errors.New("submit_booking: school is closed on this day")

	// ErrInvalidSlot возвращается, когда время не попадает в сетку слотов
	ErrInvalidSlot = errors.New("submit_booking: time is outside the slot grid")

	// ErrSlotTaken возвращается, когда слот уже занят другой заявкой
	ErrSlotTaken = errors.New("submit_booking: slot is already taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_booking: internal error")
)
