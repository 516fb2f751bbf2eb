package domain

// Default configuration values
const (
	DefaultSlotStepMinutes         = 30
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
)

// Business validation constants
const (
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 240
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses список статусов, занимающих время сотрудника
// Единственный источник истины для расчёта доступности и проверки конфликтов:
// pending-бронирование тоже блокирует слот до решения бизнеса
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses список статусов неактивных бронирований
// Используется для фильтрации в списках бронирований
var InactiveStatuses = []BookingStatus{
	StatusRejected,
	StatusCancelledByCustomer,
	StatusCancelledByBusiness,
	StatusNoShow,
}
