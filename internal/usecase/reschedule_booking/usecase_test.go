package reschedule_booking

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

type fakeBookingRepo struct {
	booking     *domain.Booking
	blocking    []*domain.Booking
	rescheduled bool
	newDate     time.Time
	newTime     types.TimeString
	newStatus   domain.BookingStatus
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.booking == nil {
		return nil, ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) GetBlockingByStaffAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Booking, error) {
	return f.blocking, nil
}

func (f *fakeBookingRepo) Reschedule(_ context.Context, _ int64, date time.Time, startTime types.TimeString, status domain.BookingStatus) error {
	f.rescheduled = true
	f.newDate = date
	f.newTime = startTime
	f.newStatus = status
	return nil
}

type fakeBusinessRepo struct {
	business *domain.Business
}

func (f *fakeBusinessRepo) GetByID(_ context.Context, _ int64) (*domain.Business, error) {
	return f.business, nil
}

type fakeStaffRepo struct {
	staff     *domain.Staff
	schedules []*domain.WeeklySchedule
}

func (f *fakeStaffRepo) GetByID(_ context.Context, _ int64) (*domain.Staff, error) {
	return f.staff, nil
}

func (f *fakeStaffRepo) GetWeeklySchedules(_ context.Context, _ []int64) ([]*domain.WeeklySchedule, error) {
	return f.schedules, nil
}

func (f *fakeStaffRepo) GetExceptionsByDate(_ context.Context, _ []int64, _ time.Time) ([]*domain.ScheduleException, error) {
	return nil, nil
}

type fakeConfigRepo struct {
	config *domain.BookingConfig
}

func (f *fakeConfigRepo) GetConfigWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.BookingConfig, error) {
	return f.config, nil
}

type fakeSlotsCache struct {
	invalidated []string
}

func (f *fakeSlotsCache) Invalidate(_ context.Context, _ int64, date string) {
	f.invalidated = append(f.invalidated, date)
}

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
	bookings   *fakeBookingRepo
	slotsCache *fakeSlotsCache
}

func newFixture() *fixture {
	f := &fixture{
		bookings: &fakeBookingRepo{
			booking: &domain.Booking{
				ID:              50,
				Number:          "b-50",
				CustomerID:      42,
				BusinessID:      1,
				StaffID:         10,
				ServiceID:       20,
				BookingDate:     time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
				StartTime:       "10:00",
				DurationMinutes: 30,
				Status:          domain.StatusConfirmed,
			},
		},
		slotsCache: &fakeSlotsCache{},
	}

	f.uc = NewUseCase(
		f.bookings,
		&fakeBusinessRepo{business: &domain.Business{ID: 1, OwnerUserID: 5}},
		&fakeStaffRepo{
			staff:     &domain.Staff{ID: 10, BusinessID: 1, Name: "Анна", IsActive: true},
			schedules: fullWeek(10, "09:00", "18:00"),
		},
		&fakeConfigRepo{config: domain.DefaultBookingConfig()},
		f.slotsCache,
		&fakeTxManager{},
		noopLogger{},
	)
	f.uc.timeProvider = &fixedTimeProvider{now: testNow}
	return f
}

func validRequest() *Request {
	return &Request{
		BookingID:   50,
		ActorUserID: 42,
		Date:        time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC),
		StartTime:   "14:00",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, f.bookings.rescheduled)
	assert.Equal(t, types.TimeString("14:00"), f.bookings.newTime)
	// После переноса статус сбрасывается в pending
	assert.Equal(t, domain.StatusPending, f.bookings.newStatus)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	// Кэш инвалидирован на старую и новую даты
	assert.Equal(t, []string{"2026-03-03", "2026-03-04"}, f.slotsCache.invalidated)
}

func TestExecute_SameSlotIsIdempotent(t *testing.T) {
	f := newFixture()
	// Единственное блокирующее бронирование в слоте - само переносимое
	f.bookings.blocking = []*domain.Booking{f.bookings.booking}

	req := validRequest()
	req.Date = f.bookings.booking.BookingDate
	req.StartTime = f.bookings.booking.StartTime

	_, err := f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_ConflictWithOtherBooking(t *testing.T) {
	f := newFixture()
	f.bookings.blocking = []*domain.Booking{
		{ID: 51, StaffID: 10, StartTime: "14:15", DurationMinutes: 30, Status: domain.StatusPending},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.False(t, f.bookings.rescheduled)
}

func TestExecute_TerminalStatusNotReschedulable(t *testing.T) {
	tests := []struct {
		name   string
		status domain.BookingStatus
	}{
		{"completed", domain.StatusCompleted},
		{"rejected", domain.StatusRejected},
		{"cancelled by customer", domain.StatusCancelledByCustomer},
		{"cancelled by business", domain.StatusCancelledByBusiness},
		{"no show", domain.StatusNoShow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.bookings.booking.Status = tt.status

			_, err := f.uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrNotReschedulable)
		})
	}
}

func TestExecute_AccessControl(t *testing.T) {
	tests := []struct {
		name    string
		actorID int64
		wantErr error
	}{
		{"customer can reschedule own booking", 42, nil},
		{"business owner can reschedule", 5, nil},
		{"stranger is denied", 777, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			req := validRequest()
			req.ActorUserID = tt.actorID

			_, err := f.uc.Execute(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture()
	f.bookings.booking = nil

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.StartTime = "17:45" // 30 минут не вмещаются до 18:00

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotWorking)
}
