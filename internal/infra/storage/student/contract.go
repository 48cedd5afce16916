package student

import (
	"time"

	"github.com/m04kA/DS-BookingService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// ContactUpdate контактные данные, обновляемые при повторном бронировании.
// nil-поле означает "не трогать".
type ContactUpdate struct {
	Email   *string
	Phone   *string
	Name    *string
	Age     *int
	Gender  *string
	Address *string
}

// ProfileUpdate расширенный профиль, редактируемый самим студентом
type ProfileUpdate struct {
	Phone            *string
	Name             *string
	Age              *int
	Gender           *string
	Address          *string
	DateOfBirth      *time.Time
	NID              *string
	EmergencyContact *string
	EmergencyPhone   *string
	BloodGroup       *string
	Occupation       *string
	Education        *string
	Facebook         *string
	Instagram        *string
	Twitter          *string
	LinkedIn         *string
}
