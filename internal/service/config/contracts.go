package config

import (
	"context"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingConfig, error)
	GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.BookingConfig, error)
	Upsert(ctx context.Context, cfg *domain.BookingConfig) (*domain.BookingConfig, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
