package update_business_config

import (
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/service/config/models"
)

// UpsertConfigRequest тело запроса на обновление конфигурации бронирования
type UpsertConfigRequest struct {
	ServiceID               *int64 `json:"serviceId,omitempty"`
	SlotStepMinutes         int    `json:"slotStepMinutes"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
	AutoConfirm             bool   `json:"autoConfirm"`
}

// ToServiceRequest конвертирует HTTP-запрос в запрос сервисного слоя
func (r *UpsertConfigRequest) ToServiceRequest(userID, businessID int64) *models.UpsertConfigRequest {
	return &models.UpsertConfigRequest{
		UserID:                  userID,
		BusinessID:              businessID,
		ServiceID:               r.ServiceID,
		SlotStepMinutes:         r.SlotStepMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		AutoConfirm:             r.AutoConfirm,
	}
}
