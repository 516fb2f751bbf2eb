package get_available_slots

import (
	"time"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	BusinessID      int64                  // ID бизнеса
	ServiceID       int64                  // ID услуги
	Date            time.Time              // Запрошенная дата
	DurationMinutes int                    // Длительность услуги в минутах
	Slots           []domain.AvailableSlot // Доступные слоты, отсортированы по времени
}
