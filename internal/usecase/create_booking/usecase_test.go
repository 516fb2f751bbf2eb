package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/integrations/identityservice"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/types"
)

// Фейки репозиториев и клиентов

type fakeBusinessRepo struct {
	business *domain.Business
	err      error
}

func (f *fakeBusinessRepo) GetByID(_ context.Context, _ int64) (*domain.Business, error) {
	return f.business, f.err
}

type fakeServiceRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _, _ int64) (*domain.Service, error) {
	return f.service, f.err
}

type fakeStaffRepo struct {
	staff      *domain.Staff
	staffErr   error
	performs   bool
	schedules  []*domain.WeeklySchedule
	exceptions []*domain.ScheduleException
}

func (f *fakeStaffRepo) GetByID(_ context.Context, _ int64) (*domain.Staff, error) {
	return f.staff, f.staffErr
}

func (f *fakeStaffRepo) PerformsService(_ context.Context, _, _ int64) (bool, error) {
	return f.performs, nil
}

func (f *fakeStaffRepo) GetWeeklySchedules(_ context.Context, _ []int64) ([]*domain.WeeklySchedule, error) {
	return f.schedules, nil
}

func (f *fakeStaffRepo) GetExceptionsByDate(_ context.Context, _ []int64, _ time.Time) ([]*domain.ScheduleException, error) {
	return f.exceptions, nil
}

type fakeBookingRepo struct {
	blocking []*domain.Booking
	created  *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	created.ID = 100
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetBlockingByStaffAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Booking, error) {
	return f.blocking, nil
}

type fakeConfigRepo struct {
	config *domain.BookingConfig
	err    error
}

func (f *fakeConfigRepo) GetConfigWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.BookingConfig, error) {
	return f.config, f.err
}

type fakeIdentityClient struct {
	profile *identityservice.Profile
	err     error
}

func (f *fakeIdentityClient) GetProfileWithGracefulDegradation(_ context.Context, _ int64) (*identityservice.Profile, error) {
	return f.profile, f.err
}

type fakeSlotsCache struct {
	invalidated []string
}

func (f *fakeSlotsCache) Invalidate(_ context.Context, _ int64, date string) {
	f.invalidated = append(f.invalidated, date)
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

var testNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC) // понедельник

type fixture struct {
	uc         *UseCase
	bookings   *fakeBookingRepo
	staff      *fakeStaffRepo
	config     *fakeConfigRepo
	identity   *fakeIdentityClient
	slotsCache *fakeSlotsCache
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

func newFixture() *fixture {
	f := &fixture{
		bookings: &fakeBookingRepo{},
		staff: &fakeStaffRepo{
			staff:     &domain.Staff{ID: 10, BusinessID: 1, Name: "Анна", IsActive: true},
			performs:  true,
			schedules: fullWeek(10, "09:00", "18:00"),
		},
		config:     &fakeConfigRepo{config: domain.DefaultBookingConfig()},
		identity:   &fakeIdentityClient{profile: &identityservice.Profile{ID: 42, Name: "Иван", Phone: "+79990001122"}},
		slotsCache: &fakeSlotsCache{},
	}

	f.uc = NewUseCase(
		&fakeBusinessRepo{business: &domain.Business{ID: 1, OwnerUserID: 5}},
		&fakeServiceRepo{service: &domain.Service{ID: 20, BusinessID: 1, Name: "Стрижка", DurationMinutes: 30, Price: 1500, IsActive: true}},
		f.staff,
		f.bookings,
		f.config,
		f.identity,
		f.slotsCache,
		&fakeTxManager{},
		noopLogger{},
	)
	f.uc.timeProvider = &fixedTimeProvider{now: testNow}
	return f
}

func validRequest() *Request {
	return &Request{
		CustomerID: 42,
		BusinessID: 1,
		StaffID:    10,
		ServiceID:  20,
		Date:       time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.NotEmpty(t, resp.Number)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, 30, resp.DurationMinutes)
	// Денормализованные данные услуги и клиента
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)
	require.NotNil(t, resp.CustomerName)
	assert.Equal(t, "Иван", *resp.CustomerName)
	// Кэш слотов инвалидирован на дату бронирования
	assert.Equal(t, []string{"2026-03-03"}, f.slotsCache.invalidated)
}

func TestExecute_AutoConfirm(t *testing.T) {
	f := newFixture()
	f.config.config.AutoConfirm = true

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_SlotConflict(t *testing.T) {
	f := newFixture()
	f.bookings.blocking = []*domain.Booking{
		{ID: 1, StaffID: 10, StartTime: "10:00", DurationMinutes: 30, Status: domain.StatusConfirmed},
	}

	tests := []struct {
		name      string
		startTime types.TimeString
		wantErr   error
	}{
		{"identical slot", "10:00", ErrSlotConflict},
		{"partial overlap", "10:15", ErrSlotConflict},
		{"adjacent after is free", "10:30", nil},
		{"adjacent before is free", "09:30", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.StartTime = tt.startTime

			_, err := f.uc.Execute(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.bookings.blocking = []*domain.Booking{
		{ID: 1, StaffID: 10, StartTime: "10:00", DurationMinutes: 30, Status: domain.StatusCancelledByCustomer},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.StartTime = "17:45" // услуга 30 минут не вмещается до 18:00

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotWorking)
}

func TestExecute_StaffNotWorkingOnClosedDay(t *testing.T) {
	f := newFixture()
	f.staff.exceptions = []*domain.ScheduleException{
		{StaffID: 10, Date: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), IsClosed: true},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotWorking)
}

func TestExecute_TooLateToBookSameDay(t *testing.T) {
	f := newFixture()
	f.config.config.MinBookingNoticeMinutes = 60

	req := validRequest()
	req.Date = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC) // сегодня
	req.StartTime = "10:30"                                         // now=10:00, требуется минимум час

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	f := newFixture()
	f.config.config.AdvanceBookingDays = 7

	req := validRequest()
	req.Date = time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_StaffFromAnotherBusiness(t *testing.T) {
	f := newFixture()
	f.staff.staff.BusinessID = 99

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotAvailable)
}

func TestExecute_StaffDoesNotPerformService(t *testing.T) {
	f := newFixture()
	f.staff.performs = false

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotAvailable)
}

func TestExecute_IdentityServiceDegraded(t *testing.T) {
	f := newFixture()
	f.identity.profile = nil
	f.identity.err = identityservice.ErrServiceDegraded

	// Бронирование создается без денормализованных данных клиента
	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Nil(t, resp.CustomerName)
	assert.Nil(t, resp.CustomerPhone)
}
