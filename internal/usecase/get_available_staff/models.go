package get_available_staff

import (
	"time"

	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/types"
)

// Request модель запроса на подбор свободных сотрудников
type Request struct {
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
}

// StaffItem информация о свободном сотруднике
type StaffItem struct {
	ID        int64   // ID сотрудника
	Name      string  // Имя сотрудника
	AvatarURL *string // Ссылка на фото
}

// Response модель ответа со списком свободных сотрудников
type Response struct {
	BusinessID      int64            // ID бизнеса
	ServiceID       int64            // ID услуги
	Date            time.Time        // Запрошенная дата
	StartTime       types.TimeString // Время начала слота
	DurationMinutes int              // Длительность услуги в минутах
	Staff           []StaffItem      // Свободные сотрудники
}
