package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/ptr"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

func staff(id int64) *domain.Staff {
	return &domain.Staff{ID: id, BusinessID: 1, Name: "staff", IsActive: true}
}

// fullWeek недельное расписание: каждый день открыто с start до end
func fullWeek(staffID int64, start, end types.TimeString) []*domain.WeeklySchedule {
	week := make([]*domain.WeeklySchedule, 0, 7)
	for day := 0; day < 7; day++ {
		week = append(week, &domain.WeeklySchedule{
			StaffID:   staffID,
			DayOfWeek: day,
			StartTime: start,
			EndTime:   end,
		})
	}
	return week
}

func booking(id, staffID int64, start types.TimeString, duration int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		StaffID:         staffID,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
	}
}

// now заведомо раньше всех тестовых дат
var testNow = at(2026, time.March, 2, 10, 0) // понедельник

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart types.TimeString
		aDur   int
		bStart types.TimeString
		bDur   int
		want   bool
	}{
		{"partial overlap", "10:00", 30, "10:15", 30, true},
		{"contained", "10:00", 60, "10:15", 15, true},
		{"identical", "10:00", 30, "10:00", 30, true},
		{"adjacent after", "10:00", 30, "10:30", 30, false},
		{"adjacent before", "10:30", 30, "10:00", 30, false},
		{"disjoint", "09:00", 30, "12:00", 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aDur, tt.bStart, tt.bDur))
			// Пересечение симметрично
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bDur, tt.aStart, tt.aDur))
		})
	}
}

func TestHasConflict_ExcludesOwnBooking(t *testing.T) {
	bookings := []*domain.Booking{
		booking(7, 1, "10:00", 30, domain.StatusConfirmed),
	}

	assert.True(t, HasConflict(bookings, "10:00", 30, 0))
	// Перенос на тот же слот не конфликтует с самим собой
	assert.False(t, HasConflict(bookings, "10:00", 30, 7))
}

func TestHasConflict_IgnoresNonBlockingStatuses(t *testing.T) {
	bookings := []*domain.Booking{
		booking(1, 1, "10:00", 30, domain.StatusCancelledByCustomer),
		booking(2, 1, "10:00", 30, domain.StatusRejected),
		booking(3, 1, "10:00", 30, domain.StatusNoShow),
	}

	assert.False(t, HasConflict(bookings, "10:00", 30, 0))

	// Pending блокирует наравне с confirmed
	bookings = append(bookings, booking(4, 1, "10:15", 30, domain.StatusPending))
	assert.True(t, HasConflict(bookings, "10:00", 30, 0))
}

func TestStorageDayOfWeek_FullCycle(t *testing.T) {
	// 2026-03-07 - суббота; в БД суббота хранится как 0
	saturday := date(2026, time.March, 7)
	for offset := 0; offset < 7; offset++ {
		d := saturday.AddDate(0, 0, offset)
		assert.Equal(t, offset, domain.StorageDayOfWeek(d), "date %s", d.Format(domain.DateFormat))
	}
}

func TestWorkingWindow_WeeklyScheduleByDayOfWeek(t *testing.T) {
	// Расписание только на хранимый день 0 (суббота)
	day := &StaffDay{
		Staff: staff(1),
		Weekly: []*domain.WeeklySchedule{
			{StaffID: 1, DayOfWeek: 0, StartTime: "09:00", EndTime: "17:00"},
		},
	}

	saturday := date(2026, time.March, 7)
	start, end, open := day.WorkingWindow(saturday)
	require.True(t, open)
	assert.Equal(t, types.TimeString("09:00"), start)
	assert.Equal(t, types.TimeString("17:00"), end)

	// Остальные шесть дней недели закрыты: записи нет
	for offset := 1; offset < 7; offset++ {
		_, _, open := day.WorkingWindow(saturday.AddDate(0, 0, offset))
		assert.False(t, open, "offset %d", offset)
	}
}

func TestWorkingWindow_ClosedFlagAndMissingEntry(t *testing.T) {
	tuesday := date(2026, time.March, 3)

	closed := &StaffDay{
		Staff: staff(1),
		Weekly: []*domain.WeeklySchedule{
			{StaffID: 1, DayOfWeek: domain.StorageDayOfWeek(tuesday), StartTime: "09:00", EndTime: "17:00", IsClosed: true},
		},
	}
	_, _, open := closed.WorkingWindow(tuesday)
	assert.False(t, open)

	noEntry := &StaffDay{Staff: staff(1)}
	_, _, open = noEntry.WorkingWindow(tuesday)
	assert.False(t, open)
}

func TestWorkingWindow_ExceptionPrecedence(t *testing.T) {
	tuesday := date(2026, time.March, 3)

	t.Run("closed exception overrides open schedule", func(t *testing.T) {
		day := &StaffDay{
			Staff:  staff(1),
			Weekly: fullWeek(1, "09:00", "17:00"),
			Exceptions: []*domain.ScheduleException{
				{StaffID: 1, Date: tuesday, IsClosed: true},
			},
		}

		_, _, open := day.WorkingWindow(tuesday)
		assert.False(t, open)

		// Исключение действует только на свою дату
		_, _, open = day.WorkingWindow(tuesday.AddDate(0, 0, 1))
		assert.True(t, open)
	})

	t.Run("override hours replace weekly hours", func(t *testing.T) {
		day := &StaffDay{
			Staff:  staff(1),
			Weekly: fullWeek(1, "09:00", "17:00"),
			Exceptions: []*domain.ScheduleException{
				{
					StaffID:   1,
					Date:      tuesday,
					StartTime: ptr.Ptr(types.TimeString("12:00")),
					EndTime:   ptr.Ptr(types.TimeString("15:00")),
				},
			},
		}

		start, end, open := day.WorkingWindow(tuesday)
		require.True(t, open)
		assert.Equal(t, types.TimeString("12:00"), start)
		assert.Equal(t, types.TimeString("15:00"), end)
	})
}

func TestComputeSlots_ExceptionClosesDate(t *testing.T) {
	tuesday := date(2026, time.March, 3)
	day := &StaffDay{
		Staff:  staff(1),
		Weekly: fullWeek(1, "09:00", "17:00"),
		Exceptions: []*domain.ScheduleException{
			{StaffID: 1, Date: tuesday, IsClosed: true},
		},
	}

	slots := ComputeSlots([]*StaffDay{day}, tuesday, 30, 30, testNow, 0)
	assert.Empty(t, slots)
}

func TestEnumerateSlotTimes_DurationBoundary(t *testing.T) {
	// Услуга 60 минут, смена до 17:00, шаг 30:
	// последний допустимый старт 16:00, кандидат 16:30 не генерируется
	times := EnumerateSlotTimes("09:00", "17:00", 60, 30)

	require.NotEmpty(t, times)
	assert.Equal(t, types.TimeString("09:00"), times[0])
	assert.Equal(t, types.TimeString("16:00"), times[len(times)-1])
	assert.NotContains(t, times, types.TimeString("16:30"))
	assert.Len(t, times, 15)
}

func TestComputeSlots_SortedAndCounted(t *testing.T) {
	tuesday := date(2026, time.March, 3)

	// Два сотрудника: у второго смена короче и одно бронирование
	day1 := &StaffDay{Staff: staff(1), Weekly: fullWeek(1, "09:00", "11:00")}
	day2 := &StaffDay{
		Staff:  staff(2),
		Weekly: fullWeek(2, "10:00", "12:00"),
		Bookings: []*domain.Booking{
			booking(1, 2, "10:00", 30, domain.StatusConfirmed),
		},
	}

	slots := ComputeSlots([]*StaffDay{day1, day2}, tuesday, 30, 30, testNow, 0)

	byTime := make(map[types.TimeString]int)
	for _, s := range slots {
		byTime[s.StartTime] = s.StaffCount
	}

	assert.Equal(t, 1, byTime["09:00"])  // только первый
	assert.Equal(t, 1, byTime["09:30"])  // только первый
	assert.Equal(t, 2, byTime["10:30"])  // оба свободны
	assert.Equal(t, 1, byTime["10:00"])  // второй занят бронированием
	assert.Equal(t, 1, byTime["11:00"])  // только второй
	assert.Equal(t, 1, byTime["11:30"])  // только второй

	// Отсортировано по возрастанию времени
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].StartTime < slots[i].StartTime)
	}

	// Времён с нулём свободных сотрудников нет
	for _, s := range slots {
		assert.GreaterOrEqual(t, s.StaffCount, 1)
	}
}

func TestComputeSlots_PastTimeExclusionToday(t *testing.T) {
	now := at(2026, time.March, 3, 12, 0)
	today := date(2026, time.March, 3)

	day := &StaffDay{Staff: staff(1), Weekly: fullWeek(1, "09:00", "17:00")}
	slots := ComputeSlots([]*StaffDay{day}, today, 30, 30, now, 0)

	require.NotEmpty(t, slots)
	// Слот со стартом ровно "сейчас" тоже исключается
	assert.Equal(t, types.TimeString("12:30"), slots[0].StartTime)
	for _, s := range slots {
		assert.True(t, s.StartTime.Minutes() > 12*60)
	}
}

func TestComputeSlots_NoticeMinutesShiftsCutoff(t *testing.T) {
	now := at(2026, time.March, 3, 12, 0)
	today := date(2026, time.March, 3)

	day := &StaffDay{Staff: staff(1), Weekly: fullWeek(1, "09:00", "17:00")}
	slots := ComputeSlots([]*StaffDay{day}, today, 30, 30, now, 60)

	require.NotEmpty(t, slots)
	assert.Equal(t, types.TimeString("13:30"), slots[0].StartTime)
}

func TestComputeSlots_PastDateEmpty(t *testing.T) {
	day := &StaffDay{Staff: staff(1), Weekly: fullWeek(1, "09:00", "17:00")}
	yesterday := date(2026, time.March, 1)

	slots := ComputeSlots([]*StaffDay{day}, yesterday, 30, 30, testNow, 0)
	assert.Empty(t, slots)
}

func TestComputeSlots_UnbookableStaffSkipped(t *testing.T) {
	tuesday := date(2026, time.March, 3)

	inactive := staff(1)
	inactive.IsActive = false

	deleted := staff(2)
	deleted.DeletedAt = ptr.Ptr(testNow)

	days := []*StaffDay{
		{Staff: inactive, Weekly: fullWeek(1, "09:00", "17:00")},
		{Staff: deleted, Weekly: fullWeek(2, "09:00", "17:00")},
	}

	assert.Empty(t, ComputeSlots(days, tuesday, 30, 30, testNow, 0))
	assert.Empty(t, FilterFreeStaff(days, tuesday, "10:00", 30, testNow, 0))
}

func TestFilterFreeStaff_ConflictAndAdjacent(t *testing.T) {
	tuesday := date(2026, time.March, 3)

	day := &StaffDay{
		Staff:  staff(1),
		Weekly: fullWeek(1, "09:00", "17:00"),
		Bookings: []*domain.Booking{
			booking(1, 1, "10:00", 30, domain.StatusConfirmed),
		},
	}
	days := []*StaffDay{day}

	// Пересечение 10:15-10:45 с бронированием 10:00-10:30
	assert.Empty(t, FilterFreeStaff(days, tuesday, "10:15", 30, testNow, 0))
	// Граничащий интервал 10:30-11:00 свободен
	assert.Len(t, FilterFreeStaff(days, tuesday, "10:30", 30, testNow, 0), 1)
}

// Согласованность режимов: время есть в списке слотов со счётчиком n
// тогда и только тогда, когда режим выбора сотрудника возвращает n сотрудников
func TestSlotAndStaffModesConsistent(t *testing.T) {
	tuesday := date(2026, time.March, 3)

	days := []*StaffDay{
		{Staff: staff(1), Weekly: fullWeek(1, "09:00", "12:00"), Bookings: []*domain.Booking{
			booking(1, 1, "09:30", 60, domain.StatusPending),
		}},
		{Staff: staff(2), Weekly: fullWeek(2, "10:00", "14:00"), Bookings: []*domain.Booking{
			booking(2, 2, "11:00", 30, domain.StatusConfirmed),
		}},
		{Staff: staff(3), Weekly: fullWeek(3, "09:00", "17:00"), Exceptions: []*domain.ScheduleException{
			{StaffID: 3, Date: tuesday, IsClosed: true},
		}},
	}

	const duration = 30
	slots := ComputeSlots(days, tuesday, duration, 30, testNow, 0)

	counted := make(map[types.TimeString]int)
	for _, s := range slots {
		counted[s.StartTime] = s.StaffCount
	}

	// Проверяем все кандидаты всех смен, включая отсутствующие в списке слотов
	for _, candidate := range EnumerateSlotTimes("09:00", "17:00", duration, 30) {
		free := FilterFreeStaff(days, tuesday, candidate, duration, testNow, 0)
		assert.Equal(t, len(free), counted[candidate],
			"time %s: staff mode and slot mode disagree", candidate)
	}
}
