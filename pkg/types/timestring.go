package types

import (
	"fmt"
	"time"
)

// timeLayout формат времени HH:MM (24 часа)
const timeLayout = "15:04"

// TimeString время в формате "HH:MM" (например, "10:00")
// Используется для хранения времени слота без привязки к дате и таймзоне
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата.
// Принимается только каноническая запись с ведущими нулями: "07:00", не "7:00".
// Без этого одна и та же точка времени имела бы две строковых формы и
// сравнение строк (уникальный индекс, сортировка) переставало бы работать.
func NewTimeStringFromString(s string) (TimeString, error) {
	parsed, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid time string format: %v", err)
	}
	if parsed.Format(timeLayout) != s {
		return "", fmt.Errorf("invalid time string format: %q is not canonical HH:MM", s)
	}
	return TimeString(s), nil
}

// String возвращает строковое представление времени
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет, что строка соответствует каноническому формату HH:MM
func (t TimeString) Validate() error {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return fmt.Errorf("invalid time string format: %v", err)
	}
	if parsed.Format(timeLayout) != string(t) {
		return fmt.Errorf("invalid time string format: %q is not canonical HH:MM", string(t))
	}
	return nil
}

// Hour возвращает часовую составляющую времени
func (t TimeString) Hour() (int, error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0, fmt.Errorf("invalid time string format: %v", err)
	}
	return parsed.Hour(), nil
}

// AddMinutes возвращает новое время, сдвинутое на minutes минут вперед
// Переход через полночь считается ошибкой - слоты не пересекают границу дня
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return "", fmt.Errorf("invalid time string format: %v", err)
	}

	shifted := parsed.Add(time.Duration(minutes) * time.Minute)
	if shifted.Day() != parsed.Day() {
		return "", fmt.Errorf("time %s + %d minutes crosses midnight", t, minutes)
	}

	return TimeString(shifted.Format(timeLayout)), nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}
