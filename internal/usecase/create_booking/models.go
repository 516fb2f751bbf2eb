package create_booking

import (
	"time"

	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64            // ID клиента
	BusinessID int64            // ID бизнеса
	StaffID    int64            // ID сотрудника
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64            // ID созданного бронирования
	Number          string           // Публичный номер бронирования
	CustomerID      int64            // ID клиента
	BusinessID      int64            // ID бизнеса
	StaffID         int64            // ID сотрудника
	ServiceID       int64            // ID услуги
	BookingDate     time.Time        // Дата бронирования
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус бронирования

	// Денормализованные данные
	ServiceName   string  // Название услуги
	ServicePrice  float64 // Цена услуги
	CustomerName  *string // Имя клиента
	CustomerPhone *string // Телефон клиента
	Notes         *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
