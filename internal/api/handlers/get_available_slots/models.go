package get_available_slots

import (
	"time"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	getAvailableSlots "github.com/sahabranjbar-dev/reservito-booking-service/internal/usecase/get_available_slots"
)

// SlotItem HTTP модель доступного слота
type SlotItem struct {
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	StaffCount      int    `json:"staffCount"` // Количество свободных сотрудников
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	BusinessID      int64      `json:"businessId"`
	ServiceID       int64      `json:"serviceId"`
	Date            string     `json:"date"` // "2026-03-02"
	DurationMinutes int        `json:"durationMinutes"`
	Slots           []SlotItem `json:"slots"`
}

// ToUseCaseRequest формирует запрос к use case с парсингом даты
func ToUseCaseRequest(businessID, serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]SlotItem, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotItem{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			StaffCount:      slot.StaffCount,
		}
	}

	return &SlotsResponse{
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
