package update_business_config

import (
	"context"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/service/config/models"
)

// ConfigService определяет контракт сервиса конфигураций бронирования
type ConfigService interface {
	Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error)
}

// Logger определяет контракт для логирования
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
