package get_available_dates

import "time"

// Request модель запроса доступных дат.
// Нулевые значения заменяются диапазоном по умолчанию: от сегодня
// и на DefaultAvailabilityRangeDays вперед.
type Request struct {
	StartDate time.Time // Начало диапазона (опционально)
	EndDate   time.Time // Конец диапазона (опционально)
}

// Response модель ответа со списками дат
type Response struct {
	AvailableDates   []string // Даты с хотя бы одним свободным слотом, "2026-03-02"
	UnavailableDates []string // Закрытые или полностью занятые даты
}
