package get_available_slots

import "time"

// Request модель запроса слотов на дату
type Request struct {
	Date time.Time // Дата, на которую запрашиваются слоты
}

// Slot один слот сетки с признаком доступности
type Slot struct {
	Time      string // "09:00"
	Available bool
}

// Response модель ответа со слотами на дату.
// Для выходного дня школы Available=false и пустой список слотов.
type Response struct {
	Date        string // "2026-03-02"
	Available   bool   // false для выходного дня
	AnySlotOpen bool   // есть ли хотя бы один свободный слот
	Slots       []Slot
}
