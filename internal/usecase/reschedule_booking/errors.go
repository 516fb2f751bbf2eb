package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь не имеет прав на перенос
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrNotReschedulable возвращается, когда бронирование нельзя перенести
	// (завершено, отклонено или отменено)
	ErrNotReschedulable = errors.New("reschedule_booking: booking cannot be rescheduled")

	// ErrStaffNotAvailable возвращается, когда сотрудник больше недоступен для записи
	ErrStaffNotAvailable = errors.New("reschedule_booking: staff is not available")

	// ErrInvalidDate возвращается при некорректной дате переноса
	ErrInvalidDate = errors.New("reschedule_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("reschedule_booking: date is too far in the future")

	// ErrStaffNotWorking возвращается, когда сотрудник не работает в указанное время
	ErrStaffNotWorking = errors.New("reschedule_booking: staff is not working at this time")

	// ErrTooLateToBook возвращается, когда перенос нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("reschedule_booking: too late to book this slot")

	// ErrSlotConflict возвращается, когда новый интервал пересекается с другим бронированием
	ErrSlotConflict = errors.New("reschedule_booking: slot conflicts with an existing booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
