package get_available_slots

import (
	availableSlots "github.com/m04kA/DS-BookingService/internal/usecase/get_available_slots"
)

// SlotResponse один слот сетки
type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date        string         `json:"date"`
	Available   bool           `json:"available"`
	AnySlotOpen bool           `json:"anySlotOpen"`
	Slots       []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *availableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		Date:        resp.Date,
		Available:   resp.Available,
		AnySlotOpen: resp.AnySlotOpen,
		Slots:       make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, slot := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			Time:      slot.Time,
			Available: slot.Available,
		})
	}
	return out
}
