package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/DS-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/DS-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/DS-BookingService/internal/service/bookings/models"
)

// defaultListLimit максимум заявок в админском списке
const defaultListLimit = 100

// invoiceAllocateAttempts попытки выдачи номера счета при коллизии суффикса
const invoiceAllocateAttempts = 3

// Service сервис жизненного цикла заявок: решения администратора,
// взносы, платежи и выдача номеров счетов
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	timeSource  TimeProvider
	logger      Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		timeSource:  &RealTimeProvider{},
		logger:      logger,
	}
}

// List получает заявки для админской панели, сначала новые
// Опционально фильтрует по статусу
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings, status=%v", req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.ListByStatus(ctx, domainStatus, defaultListLimit)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// ListByUser получает заявки пользователя, сначала новые
func (s *Service) ListByUser(ctx context.Context, uid string) (*models.BookingListResponse, error) {
	s.logger.Info("ListByUser: fetching bookings for user=%s", uid)

	bookings, err := s.bookingRepo.GetByUserUID(ctx, uid)
	if err != nil {
		s.logger.Error("ListByUser: repository error for user=%s: %v", uid, err)
		return nil, fmt.Errorf("%w: ListByUser - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetByID получает заявку с журналом платежей
func (s *Service) GetByID(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	booking, err := s.loadWithPayments(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// Decide применяет решение администратора к заявке.
// Переход разрешен только из pending: confirmed и rejected терминальны.
// Конкурентные решения по одной заявке разруливает optimistic version check.
func (s *Service) Decide(ctx context.Context, bookingID int64, req *models.DecideBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Decide: action=%s for booking id=%d", req.Action, bookingID)

	upd, err := s.buildDecision(req)
	if err != nil {
		s.logger.Warn("Decide: invalid request for booking id=%d: %v", bookingID, err)
		return nil, err
	}

	var decided *domain.Booking
	txErr := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, bookingID, "Decide")
		if err != nil {
			return err
		}

		if !booking.IsPending() {
			s.logger.Warn("Decide: booking id=%d is already %s", bookingID, booking.Status)
			return fmt.Errorf("%w: booking is already %s", ErrAlreadyProcessed, booking.Status)
		}

		if req.Action == models.ActionConfirm {
			fee := req.Fee
			totalPaid := 0.0
			if req.TotalPaid != nil {
				totalPaid = *req.TotalPaid
			}
			due := 0.0
			if fee != nil {
				due = *fee - totalPaid
			}
			upd.Fee = fee
			upd.TotalPaid = &totalPaid
			upd.Due = &due
		}

		if err := s.bookingRepo.UpdateDecision(ctx, bookingID, booking.Version, upd); err != nil {
			if errors.Is(err, bookingRepo.ErrVersionConflict) {
				s.logger.Warn("Decide: version conflict for booking id=%d", bookingID)
				return ErrVersionConflict
			}
			s.logger.Error("Decide: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Decide - repository error: %v", ErrInternal, err)
		}

		decided, err = s.loadWithPayments(ctx, bookingID)
		return err
	})

	if txErr != nil {
		return nil, txErr
	}

	s.logger.Info("Decide: booking id=%d is now %s", bookingID, decided.Status)
	return models.FromDomainBooking(decided), nil
}

// UpdateFees редактирует финансовые поля подтвержденной заявки.
// Внесение платежа увеличивает totalPaid на его сумму; due всегда
// пересчитывается как fee - totalPaid. Номер счета выдается один раз,
// при первом выставлении взноса.
func (s *Service) UpdateFees(ctx context.Context, bookingID int64, req *models.UpdateFeesRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateFees: updating booking id=%d", bookingID)

	if err := s.validateFeesRequest(req); err != nil {
		s.logger.Warn("UpdateFees: invalid request for booking id=%d: %v", bookingID, err)
		return nil, err
	}

	var updated *domain.Booking
	txErr := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, bookingID, "UpdateFees")
		if err != nil {
			return err
		}

		if booking.Status != domain.StatusConfirmed {
			s.logger.Warn("UpdateFees: booking id=%d is %s, fees require a confirmed booking", bookingID, booking.Status)
			return fmt.Errorf("%w: fees can only be edited on a confirmed booking", ErrInvalidInput)
		}

		fee := booking.Fee
		if req.Fee != nil {
			fee = req.Fee
		}

		totalPaid := booking.TotalPaid
		if req.TotalPaid != nil {
			totalPaid = *req.TotalPaid
		}

		if req.Payment != nil {
			payment := &domain.Payment{
				BookingID: bookingID,
				Amount:    req.Payment.Amount,
				PaidAt:    s.timeSource.Now(),
				Method:    domain.PaymentMethod(req.Payment.Method),
				Notes:     req.Payment.Notes,
			}
			if req.Payment.Date != nil {
				payment.PaidAt = *req.Payment.Date
			}
			if _, err := s.bookingRepo.AddPayment(ctx, payment); err != nil {
				s.logger.Error("UpdateFees: failed to add payment for booking id=%d: %v", bookingID, err)
				return fmt.Errorf("%w: UpdateFees - add payment: %v", ErrInternal, err)
			}
			totalPaid += req.Payment.Amount
		}

		due := 0.0
		if fee != nil {
			due = *fee - totalPaid
		}

		upd := bookingRepo.FeesUpdate{
			Fee:       fee,
			TotalPaid: totalPaid,
			Due:       due,
		}

		allocateInvoice := fee != nil && booking.InvoiceNumber == nil
		if err := s.applyFees(ctx, bookingID, booking.Version, upd, allocateInvoice); err != nil {
			return err
		}

		updated, err = s.loadWithPayments(ctx, bookingID)
		return err
	})

	if txErr != nil {
		return nil, txErr
	}

	s.logger.Info("UpdateFees: booking id=%d updated, totalPaid=%.2f, due=%.2f", bookingID, updated.TotalPaid, updated.Due)
	return models.FromDomainBooking(updated), nil
}

// applyFees записывает финансовые поля, при необходимости выдавая номер
// счета. Суффикс номера случайный, поэтому на коллизию отвечаем
// перегенерацией, а не ошибкой.
func (s *Service) applyFees(ctx context.Context, bookingID int64, version int, upd bookingRepo.FeesUpdate, allocateInvoice bool) error {
	if !allocateInvoice {
		if err := s.bookingRepo.UpdateFees(ctx, bookingID, version, upd); err != nil {
			return s.mapFeesError(bookingID, err)
		}
		return nil
	}

	for attempt := 0; attempt < invoiceAllocateAttempts; attempt++ {
		invoice := s.newInvoiceNumber()
		upd.InvoiceNumber = &invoice

		err := s.bookingRepo.UpdateFees(ctx, bookingID, version, upd)
		if err == nil {
			s.logger.Info("applyFees: allocated invoice %s for booking id=%d", invoice, bookingID)
			return nil
		}
		if errors.Is(err, bookingRepo.ErrDuplicateInvoice) {
			s.logger.Warn("applyFees: invoice %s collided for booking id=%d, retrying", invoice, bookingID)
			continue
		}
		return s.mapFeesError(bookingID, err)
	}

	s.logger.Error("applyFees: exhausted invoice allocation attempts for booking id=%d", bookingID)
	return fmt.Errorf("%w: applyFees - invoice allocation exhausted", ErrInternal)
}

func (s *Service) mapFeesError(bookingID int64, err error) error {
	if errors.Is(err, bookingRepo.ErrVersionConflict) {
		s.logger.Warn("UpdateFees: version conflict for booking id=%d", bookingID)
		return ErrVersionConflict
	}
	s.logger.Error("UpdateFees: repository error for booking id=%d: %v", bookingID, err)
	return fmt.Errorf("%w: UpdateFees - repository error: %v", ErrInternal, err)
}

// newInvoiceNumber формирует номер счета вида INV-2026-A1B2C3
func (s *Service) newInvoiceNumber() string {
	year := s.timeSource.Now().Year()
	return fmt.Sprintf("%s-%d-%s", domain.InvoiceNumberPrefix, year, randomSuffix(6))
}

func (s *Service) buildDecision(req *models.DecideBookingRequest) (bookingRepo.DecisionUpdate, error) {
	switch req.Action {
	case models.ActionConfirm:
		if req.AssignedPackage == nil {
			return bookingRepo.DecisionUpdate{}, fmt.Errorf("%w: assignedPackage is required to confirm", ErrInvalidInput)
		}
		if !domain.IsValidAssignedPackage(domain.AssignedPackage(*req.AssignedPackage)) {
			return bookingRepo.DecisionUpdate{}, fmt.Errorf("%w: invalid assignedPackage", ErrInvalidInput)
		}
		if req.Fee != nil && *req.Fee < 0 {
			return bookingRepo.DecisionUpdate{}, fmt.Errorf("%w: fee must not be negative", ErrInvalidInput)
		}
		return bookingRepo.DecisionUpdate{
			Status:          string(domain.StatusConfirmed),
			AssignedPackage: req.AssignedPackage,
		}, nil
	case models.ActionReject:
		return bookingRepo.DecisionUpdate{
			Status: string(domain.StatusRejected),
		}, nil
	default:
		return bookingRepo.DecisionUpdate{}, fmt.Errorf("%w: action must be confirm or reject", ErrInvalidInput)
	}
}

func (s *Service) validateFeesRequest(req *models.UpdateFeesRequest) error {
	if req.Fee == nil && req.TotalPaid == nil && req.Payment == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if req.Fee != nil && *req.Fee < 0 {
		return fmt.Errorf("%w: fee must not be negative", ErrInvalidInput)
	}
	if req.TotalPaid != nil && *req.TotalPaid < 0 {
		return fmt.Errorf("%w: totalPaid must not be negative", ErrInvalidInput)
	}
	if req.Payment != nil {
		if req.Payment.Amount <= 0 {
			return fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
		}
		if !domain.IsValidPaymentMethod(domain.PaymentMethod(req.Payment.Method)) {
			return fmt.Errorf("%w: invalid payment method", ErrInvalidInput)
		}
	}
	return nil
}

func (s *Service) getBooking(ctx context.Context, bookingID int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) loadWithPayments(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID, "loadWithPayments")
	if err != nil {
		return nil, err
	}

	payments, err := s.bookingRepo.ListPayments(ctx, bookingID)
	if err != nil {
		s.logger.Error("loadWithPayments: failed to list payments for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: loadWithPayments - list payments: %v", ErrInternal, err)
	}
	booking.Payments = payments

	return booking, nil
}

// randomSuffix возвращает n верхних hex-символов случайного UUID
func randomSuffix(n int) string {
	hexed := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(hexed[:n])
}
