package get_business_bookings

import (
	"context"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/service/bookings/models"
)

// BookingService определяет контракт сервиса бронирований
type BookingService interface {
	GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error)
}

// Logger определяет контракт для логирования
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
