package submit_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DS-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/DS-BookingService/internal/infra/storage/booking"
	studentModels "github.com/m04kA/DS-BookingService/internal/service/students/models"
)

// UseCase use case подачи заявки на слот
type UseCase struct {
	bookingRepo BookingRepository
	students    StudentDirectory
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	students StudentDirectory,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		students:    students,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет подачу заявки на слот.
// Проверка занятости и вставка - одна атомарная операция: уникальный
// индекс по (дата, время) для активных заявок отдает нарушение
// уникальности всем проигравшим конкурентам, здесь оно становится
// ErrSlotTaken. Привязка студента выполняется после фиксации заявки
// и не может её откатить.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitBooking: user=%s, package=%s, date=%s, time=%s",
		req.UserUID, req.PackageID, req.SelectedDate.Format(domain.DateFormat), req.SelectedTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Нормализуем дату до полуночи
	date := domain.NormalizeDate(req.SelectedDate)

	// 3. Календарные правила школы
	if !domain.IsBookableDate(date) {
		uc.logger.Warn("SubmitBooking: %s is a closed day", date.Format(domain.DateFormat))
		return nil, ErrClosedDay
	}
	if !domain.IsValidTimeLabel(req.SelectedTime) {
		uc.logger.Warn("SubmitBooking: time %s is outside the slot grid", req.SelectedTime)
		return nil, ErrInvalidSlot
	}

	// 4. Атомарная вставка в сериализуемой транзакции
	var created *domain.Booking
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking := &domain.Booking{
			UserUID:          req.UserUID,
			PackageID:        domain.PackageID(req.PackageID),
			SelectedDate:     date,
			SelectedTime:     req.SelectedTime,
			Status:           domain.StatusPending,
			Phone:            req.Phone,
			Email:            req.Email,
			Name:             req.Name,
			Age:              req.Age,
			Gender:           req.Gender,
			WhyLearning:      domain.WhyLearning(req.WhyLearning),
			Address:          req.Address,
			PreviousTraining: req.PreviousTraining,
		}

		result, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.logger.Warn("SubmitBooking: slot %s %s is already taken",
					date.Format(domain.DateFormat), req.SelectedTime)
				return ErrSlotTaken
			}
			uc.logger.Error("SubmitBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		created = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("SubmitBooking: booking id=%d accepted", created.ID)

	// 5. Привязка студента после фиксации заявки
	studentID, err := uc.linkStudent(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: booking id=%d accepted but student linkage failed: %v",
			ErrInternal, created.ID, err)
	}

	return &Response{
		ID:           created.ID,
		StudentID:    studentID,
		PackageID:    string(created.PackageID),
		SelectedDate: created.SelectedDate,
		SelectedTime: created.SelectedTime,
		Status:       string(created.Status),
		CreatedAt:    created.CreatedAt,
	}, nil
}

// linkStudent находит или создает запись студента для принятой заявки.
// Сбой здесь не отменяет заявку: сначала повторяем поиск по uid, затем
// по email. Если восстановиться не удалось, возвращается ошибка, но
// заявка остается зафиксированной.
func (uc *UseCase) linkStudent(ctx context.Context, req *Request) (string, error) {
	contact := studentModels.ContactInfo{
		Email:   req.Email,
		Phone:   req.Phone,
		Name:    req.Name,
		Age:     req.Age,
		Gender:  req.Gender,
		Address: req.Address,
	}

	student, err := uc.students.ResolveOrCreate(ctx, req.UserUID, contact)
	if err == nil {
		return student.StudentID, nil
	}
	uc.logger.Error("SubmitBooking: student linkage failed for user=%s: %v", req.UserUID, err)

	if recovered, lookupErr := uc.students.GetByUID(ctx, req.UserUID); lookupErr == nil {
		uc.logger.Info("SubmitBooking: recovered student %s by uid", recovered.StudentID)
		return recovered.StudentID, nil
	}

	if req.Email != nil {
		if recovered, lookupErr := uc.students.GetByEmail(ctx, *req.Email); lookupErr == nil {
			uc.logger.Info("SubmitBooking: recovered student %s by email", recovered.StudentID)
			return recovered.StudentID, nil
		}
	}

	uc.logger.Error("SubmitBooking: booking for user=%s is left without a student id", req.UserUID)
	return "", err
}
