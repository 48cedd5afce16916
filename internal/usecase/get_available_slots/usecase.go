package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/DS-BookingService/internal/domain"
	"github.com/m04kA/DS-BookingService/pkg/types"
)

// UseCase use case получения сетки слотов на дату
type UseCase struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Execute возвращает сетку слотов с признаком доступности каждого.
// Ответ носит справочный характер: единственная авторитетная проверка
// занятости происходит при вставке заявки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Date.IsZero() {
		uc.logger.Warn("GetAvailableSlots: date is required")
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date := domain.NormalizeDate(req.Date)
	label := date.Format(domain.DateFormat)
	uc.logger.Info("GetAvailableSlots: date=%s", label)

	if !domain.IsBookableDate(date) {
		uc.logger.Info("GetAvailableSlots: %s is a closed day", label)
		return &Response{
			Date:      label,
			Available: false,
			Slots:     make([]Slot, 0),
		}, nil
	}

	taken, err := uc.bookingRepo.GetActiveTimesByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get taken slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get taken slots: %v", ErrInternal, err)
	}

	takenSet := make(map[types.TimeString]struct{}, len(taken))
	for _, t := range taken {
		takenSet[t] = struct{}{}
	}

	resp := &Response{
		Date:      label,
		Available: true,
		Slots:     make([]Slot, 0),
	}

	for _, slotTime := range domain.SlotsForDate(date) {
		_, isTaken := takenSet[slotTime]
		if !isTaken {
			resp.AnySlotOpen = true
		}
		resp.Slots = append(resp.Slots, Slot{
			Time:      slotTime.String(),
			Available: !isTaken,
		})
	}

	uc.logger.Info("GetAvailableSlots: %s, anySlotOpen=%t", label, resp.AnySlotOpen)
	return resp, nil
}
