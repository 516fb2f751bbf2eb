package reschedule_booking

import (
	"time"

	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID   int64            // ID бронирования
	ActorUserID int64            // ID пользователя, выполняющего перенос
	Date        time.Time        // Новая дата (без времени)
	StartTime   types.TimeString // Новое время начала
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID              int64            // ID бронирования
	Number          string           // Публичный номер бронирования
	CustomerID      int64            // ID клиента
	BusinessID      int64            // ID бизнеса
	StaffID         int64            // ID сотрудника
	ServiceID       int64            // ID услуги
	BookingDate     time.Time        // Новая дата бронирования
	StartTime       types.TimeString // Новое время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус после переноса (всегда pending)
}
