package get_available_staff

import (
	"time"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	getAvailableStaff "github.com/sahabranjbar-dev/reservito-booking-service/internal/usecase/get_available_staff"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/types"
)

// StaffItem HTTP модель свободного сотрудника
type StaffItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// StaffResponse HTTP response model
type StaffResponse struct {
	BusinessID      int64       `json:"businessId"`
	ServiceID       int64       `json:"serviceId"`
	Date            string      `json:"date"`      // "2026-03-02"
	StartTime       string      `json:"startTime"` // "10:00"
	DurationMinutes int         `json:"durationMinutes"`
	Staff           []StaffItem `json:"staff"`
}

// ToUseCaseRequest формирует запрос к use case с парсингом даты и времени
func ToUseCaseRequest(businessID, serviceID int64, dateStr, timeStr string) (*getAvailableStaff.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(timeStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableStaff.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
		StartTime:  startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableStaff.Response) *StaffResponse {
	staff := make([]StaffItem, len(resp.Staff))
	for i, item := range resp.Staff {
		staff[i] = StaffItem{
			ID:        item.ID,
			Name:      item.Name,
			AvatarURL: item.AvatarURL,
		}
	}

	return &StaffResponse{
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Staff:           staff,
	}
}
