package get_customer_bookings

import (
	"context"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/service/bookings/models"
)

// BookingService определяет контракт сервиса бронирований
type BookingService interface {
	GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error)
}

// Logger определяет контракт для логирования
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
