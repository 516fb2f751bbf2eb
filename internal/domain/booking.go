package domain

import (
	"time"

	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusCompleted           BookingStatus = "completed"
	StatusRejected            BookingStatus = "rejected"
	StatusCancelledByCustomer BookingStatus = "cancelled_by_customer"
	StatusCancelledByBusiness BookingStatus = "cancelled_by_business"
	StatusNoShow              BookingStatus = "no_show"
)

// Booking represents an appointment booking in the system
type Booking struct {
	ID              int64
	Number          string // public booking reference (uuid)
	BusinessID      int64
	CustomerID      int64
	StaffID         int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus

	// Denormalized data for history
	ServiceName   string
	ServicePrice  float64
	CustomerName  *string
	CustomerPhone *string
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the booking occupies the staff member's time
// and must be counted in availability and conflict checks
func (b *Booking) IsBlocking() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if no further transitions are defined for the booking
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case StatusCompleted, StatusRejected, StatusCancelledByCustomer, StatusCancelledByBusiness, StatusNoShow:
		return true
	}
	return false
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking time can still be changed
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo reports whether a business-initiated status change is legal
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusRejected ||
			next == StatusCancelledByCustomer || next == StatusCancelledByBusiness
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusNoShow ||
			next == StatusCancelledByCustomer || next == StatusCancelledByBusiness
	default:
		return false
	}
}

// BusinessBookingsFilter фильтр для получения бронирований бизнеса
type BusinessBookingsFilter struct {
	BusinessID      int64          // Обязательный параметр
	StaffID         *int64         // Фильтр по сотруднику (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершённые/отменённые бронирования
}
