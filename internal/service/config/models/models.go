package models

import (
	"time"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
)

// Request модели

// UpsertConfigRequest запрос на создание или обновление конфигурации бронирования
type UpsertConfigRequest struct {
	UserID                  int64  `json:"userId"`
	BusinessID              int64  `json:"businessId"`
	ServiceID               *int64 `json:"serviceId,omitempty"` // NULL = для всех услуг
	SlotStepMinutes         int    `json:"slotStepMinutes"`     // Шаг сетки слотов: 15, 30, 60 и т.д.
	AdvanceBookingDays      int    `json:"advanceBookingDays"`  // 0 = без ограничений
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
	AutoConfirm             bool   `json:"autoConfirm"` // Создавать бронирования сразу подтвержденными
}

// GetConfigRequest запрос на получение эффективной конфигурации
// ServiceID может быть nil для получения общей конфигурации бизнеса
type GetConfigRequest struct {
	BusinessID int64  `json:"businessId"`
	ServiceID  *int64 `json:"serviceId,omitempty"` // nil означает любая услуга
}

// Response модели

// ConfigResponse ответ с данными конфигурации бронирования
type ConfigResponse struct {
	ID                      int64     `json:"id"`
	BusinessID              int64     `json:"businessId"`
	ServiceID               *int64    `json:"serviceId,omitempty"`
	SlotStepMinutes         int       `json:"slotStepMinutes"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	AutoConfirm             bool      `json:"autoConfirm"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// ConfigListResponse ответ со списком конфигураций
type ConfigListResponse struct {
	Configs []ConfigResponse `json:"configs"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.BookingConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                      c.ID,
		BusinessID:              c.BusinessID,
		ServiceID:               c.ServiceID,
		SlotStepMinutes:         c.SlotStepMinutes,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
		AutoConfirm:             c.AutoConfirm,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

// FromDomainConfigList конвертирует список domain моделей в DTO
func FromDomainConfigList(configs []*domain.BookingConfig) *ConfigListResponse {
	if configs == nil {
		return &ConfigListResponse{
			Configs: []ConfigResponse{},
		}
	}

	resp := &ConfigListResponse{
		Configs: make([]ConfigResponse, len(configs)),
	}

	for i, config := range configs {
		if configResp := FromDomainConfig(config); configResp != nil {
			resp.Configs[i] = *configResp
		}
	}

	return resp
}

// ToDomainConfig конвертирует UpsertConfigRequest в domain модель
func (r *UpsertConfigRequest) ToDomainConfig() *domain.BookingConfig {
	return &domain.BookingConfig{
		BusinessID:              r.BusinessID,
		ServiceID:               r.ServiceID,
		SlotStepMinutes:         r.SlotStepMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		AutoConfirm:             r.AutoConfirm,
	}
}
