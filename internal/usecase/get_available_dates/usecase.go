package get_available_dates

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/DS-BookingService/internal/domain"
)

// UseCase use case получения доступных дат за период
type UseCase struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute классифицирует каждую дату диапазона: выходной день школы и
// день без единого свободного слота попадают в UnavailableDates, все
// остальные в AvailableDates. Прошедшие даты не исключаются, их
// трактовка остается за клиентом.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	start, end, err := uc.resolveRange(req)
	if err != nil {
		uc.logger.Warn("GetAvailableDates: invalid range: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableDates: range %s..%s",
		start.Format(domain.DateFormat), end.Format(domain.DateFormat))

	counts, err := uc.bookingRepo.CountActiveByDate(ctx, start, end)
	if err != nil {
		uc.logger.Error("GetAvailableDates: failed to count bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
	}

	resp := &Response{
		AvailableDates:   make([]string, 0),
		UnavailableDates: make([]string, 0),
	}

	slotsPerDay := len(domain.SlotsForDate(start))
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		label := d.Format(domain.DateFormat)

		if !domain.IsBookableDate(d) || counts[label] >= slotsPerDay {
			resp.UnavailableDates = append(resp.UnavailableDates, label)
			continue
		}
		resp.AvailableDates = append(resp.AvailableDates, label)
	}

	uc.logger.Info("GetAvailableDates: %d available, %d unavailable",
		len(resp.AvailableDates), len(resp.UnavailableDates))
	return resp, nil
}

// resolveRange подставляет дефолтный диапазон и нормализует границы
func (uc *UseCase) resolveRange(req *Request) (start, end time.Time, err error) {
	now := uc.timeProvider.Now()

	start = domain.NormalizeDate(now)
	if !req.StartDate.IsZero() {
		start = domain.NormalizeDate(req.StartDate)
	}

	end = start.AddDate(0, 0, domain.DefaultAvailabilityRangeDays)
	if !req.EndDate.IsZero() {
		end = domain.NormalizeDate(req.EndDate)
	}

	if end.Before(start) {
		return start, end, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	return start, end, nil
}
