package submit_booking

import (
	"time"

	"github.com/m04kA/DS-BookingService/pkg/types"
)

// Request модель заявки на бронирование слота
type Request struct {
	UserUID      string           // UID аутентифицированного пользователя
	PackageID    string           // Пакет из каталога ("15-days", "1-month", "pay-as-you-go")
	SelectedDate time.Time        // Желаемая дата (без времени)
	SelectedTime types.TimeString // Желаемый слот (например, "09:00")

	// Контактный снимок заявителя
	Phone            string
	Email            *string
	Name             string
	Age              int
	Gender           string
	WhyLearning      string // Причина обучения ("going-abroad", "interest-hobby", ...)
	Address          string
	PreviousTraining bool
}

// Response модель ответа с принятой заявкой
type Response struct {
	ID           int64            // ID созданной заявки
	StudentID    string           // Студенческий номер (пустой, если выдача не удалась)
	PackageID    string           // Выбранный пакет
	SelectedDate time.Time        // Дата слота
	SelectedTime types.TimeString // Время слота
	Status       string           // Статус заявки (pending)

	CreatedAt time.Time // Время создания
}
