package get_business_configs

import (
	"context"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/service/config/models"
)

// ConfigService определяет контракт сервиса конфигураций бронирования
type ConfigService interface {
	GetAllByBusiness(ctx context.Context, businessID int64, userID int64) (*models.ConfigListResponse, error)
}

// Logger определяет контракт для логирования
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
