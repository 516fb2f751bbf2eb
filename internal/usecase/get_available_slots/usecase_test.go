package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/types"
)

// Фейки репозиториев

type fakeBusinessRepo struct {
	business *domain.Business
	err      error
}

func (f *fakeBusinessRepo) GetByID(_ context.Context, _ int64) (*domain.Business, error) {
	return f.business, f.err
}

type fakeServiceRepo struct {
	service *domain.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _, _ int64) (*domain.Service, error) {
	return f.service, nil
}

type fakeStaffRepo struct {
	staff     []*domain.Staff
	schedules []*domain.WeeklySchedule
}

func (f *fakeStaffRepo) GetBookableByService(_ context.Context, _, _ int64) ([]*domain.Staff, error) {
	return f.staff, nil
}

func (f *fakeStaffRepo) GetWeeklySchedules(_ context.Context, _ []int64) ([]*domain.WeeklySchedule, error) {
	return f.schedules, nil
}

func (f *fakeStaffRepo) GetExceptionsByDate(_ context.Context, _ []int64, _ time.Time) ([]*domain.ScheduleException, error) {
	return nil, nil
}

type fakeBookingRepo struct {
	blocking []*domain.Booking
}

func (f *fakeBookingRepo) GetBlockingByStaffIDsAndDate(_ context.Context, _ []int64, _ time.Time) ([]*domain.Booking, error) {
	return f.blocking, nil
}

type fakeConfigRepo struct {
	config *domain.BookingConfig
}

func (f *fakeConfigRepo) GetConfigWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.BookingConfig, error) {
	return f.config, nil
}

type fakeSlotsCache struct {
	cached  []domain.AvailableSlot
	hasHit  bool
	getKeys []string
	setKeys []string
}

func (f *fakeSlotsCache) Get(_ context.Context, _, _ int64, date string) ([]domain.AvailableSlot, bool) {
	f.getKeys = append(f.getKeys, date)
	return f.cached, f.hasHit
}

func (f *fakeSlotsCache) Set(_ context.Context, _, _ int64, date string, slots []domain.AvailableSlot) {
	f.setKeys = append(f.setKeys, date)
	f.cached = slots
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time {
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Тестовое окружение

var testNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

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

type fixture struct {
	uc         *UseCase
	staff      *fakeStaffRepo
	bookings   *fakeBookingRepo
	config     *fakeConfigRepo
	slotsCache *fakeSlotsCache
}

func newFixture() *fixture {
	schedules := fullWeek(10, "10:00", "12:00")
	schedules = append(schedules, fullWeek(11, "10:00", "12:00")...)

	f := &fixture{
		staff: &fakeStaffRepo{
			staff: []*domain.Staff{
				{ID: 10, BusinessID: 1, Name: "Анна", IsActive: true},
				{ID: 11, BusinessID: 1, Name: "Борис", IsActive: true},
			},
			schedules: schedules,
		},
		bookings:   &fakeBookingRepo{},
		config:     &fakeConfigRepo{config: domain.DefaultBookingConfig()},
		slotsCache: &fakeSlotsCache{},
	}

	f.uc = NewUseCase(
		&fakeBusinessRepo{business: &domain.Business{ID: 1, OwnerUserID: 5}},
		&fakeServiceRepo{service: &domain.Service{ID: 20, BusinessID: 1, Name: "Стрижка", DurationMinutes: 60, Price: 1500, IsActive: true}},
		f.staff,
		f.bookings,
		f.config,
		f.slotsCache,
		noopLogger{},
	)
	f.uc.timeProvider = &fixedTimeProvider{now: testNow}
	return f
}

func validRequest() *Request {
	return &Request{
		BusinessID: 1,
		ServiceID:  20,
		Date:       time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestExecute_ComputesSlots(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Окно 10:00-12:00, услуга 60 минут, шаг 30 минут, два свободных сотрудника
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("10:30"), resp.Slots[1].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[2].StartTime)
	for _, slot := range resp.Slots {
		assert.Equal(t, 60, slot.DurationMinutes)
		assert.Equal(t, 2, slot.StaffCount)
	}

	// Результат сохранен в кэш
	assert.Equal(t, []string{"2026-03-03"}, f.slotsCache.setKeys)
}

func TestExecute_BookingReducesStaffCount(t *testing.T) {
	f := newFixture()
	f.bookings.blocking = []*domain.Booking{
		{ID: 1, StaffID: 10, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Анна занята 10:00-11:00: слоты 10:00 и 10:30 доступны только у Бориса
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, 1, resp.Slots[0].StaffCount)
	assert.Equal(t, 1, resp.Slots[1].StaffCount)
	assert.Equal(t, 2, resp.Slots[2].StaffCount)
}

func TestExecute_CacheHitSkipsComputation(t *testing.T) {
	f := newFixture()
	f.slotsCache.hasHit = true
	f.slotsCache.cached = []domain.AvailableSlot{
		{StartTime: "10:00", DurationMinutes: 60, StaffCount: 1},
	}
	// Сотрудников нет, но кэш должен вернуть результат без пересчета
	f.staff.staff = nil

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].StartTime)
	assert.Empty(t, f.slotsCache.setKeys)
}

func TestExecute_NoBookableStaff(t *testing.T) {
	f := newFixture()
	f.staff.staff = nil

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	f := newFixture()

	f.uc = NewUseCase(
		&fakeBusinessRepo{err: assert.AnError},
		&fakeServiceRepo{service: &domain.Service{ID: 20, BusinessID: 1, DurationMinutes: 60, IsActive: true}},
		f.staff,
		f.bookings,
		f.config,
		f.slotsCache,
		noopLogger{},
	)
	f.uc.timeProvider = &fixedTimeProvider{now: testNow}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	f := newFixture()
	f.config.config.AdvanceBookingDays = 7

	req := validRequest()
	req.Date = time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}
