package get_available_slots

import (
	"context"
	"time"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
}

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	GetBookableByService(ctx context.Context, businessID, serviceID int64) ([]*domain.Staff, error)
	GetWeeklySchedules(ctx context.Context, staffIDs []int64) ([]*domain.WeeklySchedule, error)
	GetExceptionsByDate(ctx context.Context, staffIDs []int64, date time.Time) ([]*domain.ScheduleException, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetBlockingByStaffIDsAndDate(ctx context.Context, staffIDs []int64, date time.Time) ([]*domain.Booking, error)
}

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingConfig, error)
}

// SlotsCache интерфейс кэша рассчитанных слотов
type SlotsCache interface {
	Get(ctx context.Context, businessID, serviceID int64, date string) ([]domain.AvailableSlot, bool)
	Set(ctx context.Context, businessID, serviceID int64, date string, slots []domain.AvailableSlot)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
