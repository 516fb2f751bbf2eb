package availability

import (
	"sort"
	"time"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/types"
)

// Пакет availability содержит чистую логику расчёта доступности:
// обе проекции (список слотов и список свободных сотрудников) и проверка
// конфликтов при записи построены на одном предикате IsStaffFree,
// чтобы исключить расхождение между режимами.

// StaffDay все данные, необходимые для оценки одного сотрудника на одну дату
type StaffDay struct {
	Staff      *domain.Staff
	Weekly     []*domain.WeeklySchedule    // недельное расписание (вся неделя)
	Exceptions []*domain.ScheduleException // переопределения на конкретные даты
	Bookings   []*domain.Booking           // бронирования сотрудника на эту дату
}

// WorkingWindow возвращает рабочие часы сотрудника на указанную дату.
// Исключение на дату имеет приоритет над недельным расписанием:
// - исключение с is_closed закрывает день целиком
// - исключение с часами заменяет часы недельного расписания
// Отсутствие записи недельного расписания на день недели означает выходной
func (d *StaffDay) WorkingWindow(date time.Time) (start, end types.TimeString, open bool) {
	for _, exc := range d.Exceptions {
		if !exc.AppliesTo(date) {
			continue
		}
		if exc.IsClosed {
			return "", "", false
		}
		if exc.HasOverrideHours() {
			return *exc.StartTime, *exc.EndTime, true
		}
		// Исключение без часов и без флага закрытия - некорректные данные,
		// трактуем как закрытый день
		return "", "", false
	}

	dayOfWeek := domain.StorageDayOfWeek(date)
	for _, ws := range d.Weekly {
		if ws.DayOfWeek != dayOfWeek {
			continue
		}
		if ws.IsClosed {
			return "", "", false
		}
		return ws.StartTime, ws.EndTime, true
	}

	return "", "", false
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов [start, start+duration)
// Граничащие интервалы (конец одного равен началу другого) НЕ пересекаются
func Overlaps(aStart types.TimeString, aDuration int, bStart types.TimeString, bDuration int) bool {
	aStartMin := aStart.Minutes()
	aEndMin := aStartMin + aDuration
	bStartMin := bStart.Minutes()
	bEndMin := bStartMin + bDuration

	return bStartMin < aEndMin && bEndMin > aStartMin
}

// HasConflict проверяет, пересекается ли интервал [start, start+duration)
// хотя бы с одним блокирующим бронированием
// excludeBookingID исключает из проверки одно бронирование (при переносе
// бронирование не должно конфликтовать само с собой); 0 = не исключать
func HasConflict(bookings []*domain.Booking, start types.TimeString, duration int, excludeBookingID int64) bool {
	for _, b := range bookings {
		if excludeBookingID != 0 && b.ID == excludeBookingID {
			continue
		}
		if !b.IsBlocking() {
			continue
		}
		if Overlaps(start, duration, b.StartTime, b.DurationMinutes) {
			return true
		}
	}
	return false
}

// IsStaffFree общий предикат обеих проекций: свободен ли сотрудник
// для интервала [start, start+duration) на указанную дату
//
// Сотрудник свободен, если:
// - он активен и не удалён
// - дата не в прошлом
// - рабочие часы на дату (с учётом исключений) полностью вмещают интервал
// - для сегодняшней даты начало строго позже now + noticeMinutes
// - интервал не пересекается ни с одним блокирующим бронированием
func IsStaffFree(
	day *StaffDay,
	date time.Time,
	start types.TimeString,
	duration int,
	now time.Time,
	noticeMinutes int,
) bool {
	if !day.Staff.IsBookable() {
		return false
	}

	if isDateInPast(date, now) {
		return false
	}

	winStart, winEnd, open := day.WorkingWindow(date)
	if !open {
		return false
	}

	startMin := start.Minutes()
	if startMin < winStart.Minutes() || startMin+duration > winEnd.Minutes() {
		return false
	}

	if isSameDay(date, now) {
		// Слот со стартом в прошлом или прямо сейчас недоступен
		minAllowed := now.Hour()*60 + now.Minute() + noticeMinutes
		if startMin <= minAllowed {
			return false
		}
	}

	return !HasConflict(day.Bookings, start, duration, 0)
}

// EnumerateSlotTimes генерирует кандидатов начала слота от начала смены
// с фиксированным шагом step; кандидаты, чей конец выходит за конец смены,
// не генерируются
func EnumerateSlotTimes(winStart, winEnd types.TimeString, duration, step int) []types.TimeString {
	if duration <= 0 || step <= 0 {
		return nil
	}

	times := make([]types.TimeString, 0)
	endMin := winEnd.Minutes()

	for cur := winStart.Minutes(); cur+duration <= endMin; cur += step {
		ts, err := types.NewTimeStringFromMinutes(cur)
		if err != nil {
			break
		}
		times = append(times, ts)
	}

	return times
}

// ComputeSlots режим списка слотов: для каждого времени подсчитывает,
// сколько сотрудников свободны для интервала [t, t+duration)
// Времена с нулём свободных сотрудников в результат не попадают
// Результат отсортирован по возрастанию времени
func ComputeSlots(
	days []*StaffDay,
	date time.Time,
	duration, step int,
	now time.Time,
	noticeMinutes int,
) []domain.AvailableSlot {
	if isDateInPast(date, now) {
		return []domain.AvailableSlot{}
	}

	counts := make(map[types.TimeString]int)

	for _, day := range days {
		winStart, winEnd, open := day.WorkingWindow(date)
		if !open {
			continue
		}
		for _, t := range EnumerateSlotTimes(winStart, winEnd, duration, step) {
			if IsStaffFree(day, date, t, duration, now, noticeMinutes) {
				counts[t]++
			}
		}
	}

	slots := make([]domain.AvailableSlot, 0, len(counts))
	for t, count := range counts {
		slots = append(slots, domain.AvailableSlot{
			StartTime:       t,
			DurationMinutes: duration,
			StaffCount:      count,
		})
	}

	// "HH:MM" с ведущими нулями, поэтому лексикографический порядок
	// совпадает с хронологическим
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	})

	return slots
}

// FilterFreeStaff режим выбора сотрудника: возвращает сотрудников,
// свободных для одного фиксированного интервала [start, start+duration)
func FilterFreeStaff(
	days []*StaffDay,
	date time.Time,
	start types.TimeString,
	duration int,
	now time.Time,
	noticeMinutes int,
) []*domain.Staff {
	staff := make([]*domain.Staff, 0)
	for _, day := range days {
		if IsStaffFree(day, date, start, duration, now, noticeMinutes) {
			staff = append(staff, day.Staff)
		}
	}
	return staff
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
