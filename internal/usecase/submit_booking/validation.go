package submit_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/DS-BookingService/internal/domain"
)

// validateRequest валидирует заявку. Отсутствующие обязательные поля
// собираются в один список, чтобы клиент увидел все разом.
func validateRequest(req *Request) error {
	var missing []string

	if req.UserUID == "" {
		missing = append(missing, "userUid")
	}
	if req.PackageID == "" {
		missing = append(missing, "packageId")
	}
	if req.SelectedDate.IsZero() {
		missing = append(missing, "selectedDate")
	}
	if req.SelectedTime.IsZero() {
		missing = append(missing, "selectedTime")
	}
	if req.Phone == "" {
		missing = append(missing, "phone")
	}
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if req.Age == 0 {
		missing = append(missing, "age")
	}
	if req.Gender == "" {
		missing = append(missing, "gender")
	}
	if req.WhyLearning == "" {
		missing = append(missing, "whyLearning")
	}
	if req.Address == "" {
		missing = append(missing, "address")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	if !domain.IsValidPackageID(domain.PackageID(req.PackageID)) {
		return fmt.Errorf("%w: unknown packageId %q", ErrInvalidInput, req.PackageID)
	}

	if req.Age < domain.MinStudentAge || req.Age > domain.MaxStudentAge {
		return fmt.Errorf("%w: age must be between %d and %d", ErrInvalidInput, domain.MinStudentAge, domain.MaxStudentAge)
	}

	if !domain.IsValidWhyLearning(domain.WhyLearning(req.WhyLearning)) {
		return fmt.Errorf("%w: unknown whyLearning %q", ErrInvalidInput, req.WhyLearning)
	}

	if err := req.SelectedTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid selectedTime format: %v", ErrInvalidInput, err)
	}

	return nil
}
