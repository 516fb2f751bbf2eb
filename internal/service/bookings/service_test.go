package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	bookingRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/booking"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/service/bookings/models"
)

// Фейки репозиториев

type fakeBookingRepo struct {
	booking       *domain.Booking
	list          []*domain.Booking
	updatedStatus *domain.BookingStatus
	cancelStatus  *domain.BookingStatus
	cancelReason  string
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.booking == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) GetByCustomerID(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.list, nil
}

func (f *fakeBookingRepo) GetByBusinessWithFilter(_ context.Context, _ domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	return f.list, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus) error {
	f.updatedStatus = &status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, _ int64, status domain.BookingStatus, reason string) error {
	f.cancelStatus = &status
	f.cancelReason = reason
	return nil
}

type fakeBusinessRepo struct {
	business *domain.Business
}

func (f *fakeBusinessRepo) GetByID(_ context.Context, _ int64) (*domain.Business, error) {
	return f.business, nil
}

type fakeSlotsCache struct {
	invalidated []string
}

func (f *fakeSlotsCache) Invalidate(_ context.Context, _ int64, date string) {
	f.invalidated = append(f.invalidated, date)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Тестовое окружение

type fixture struct {
	svc        *Service
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
				Status:          domain.StatusPending,
			},
		},
		slotsCache: &fakeSlotsCache{},
	}

	f.svc = NewService(
		f.bookings,
		&fakeBusinessRepo{business: &domain.Business{ID: 1, OwnerUserID: 5}},
		f.slotsCache,
		noopLogger{},
	)
	return f
}

func TestGetByID_AccessControl(t *testing.T) {
	tests := []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{"customer sees own booking", 42, nil},
		{"business owner sees booking", 5, nil},
		{"stranger is denied", 777, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			resp, err := f.svc.GetByID(context.Background(), 50, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(50), resp.ID)
			}
		})
	}
}

func TestCancel_ByCustomer(t *testing.T) {
	f := newFixture()

	err := f.svc.Cancel(context.Background(), 50, &models.CancelBookingRequest{UserID: 42, CancellationReason: "не смогу прийти"})
	require.NoError(t, err)

	require.NotNil(t, f.bookings.cancelStatus)
	assert.Equal(t, domain.StatusCancelledByCustomer, *f.bookings.cancelStatus)
	assert.Equal(t, "не смогу прийти", f.bookings.cancelReason)
	// Слот освободился - кэш инвалидирован
	assert.Equal(t, []string{"2026-03-03"}, f.slotsCache.invalidated)
}

func TestCancel_ByBusinessOwner(t *testing.T) {
	f := newFixture()

	err := f.svc.Cancel(context.Background(), 50, &models.CancelBookingRequest{UserID: 5})
	require.NoError(t, err)

	require.NotNil(t, f.bookings.cancelStatus)
	assert.Equal(t, domain.StatusCancelledByBusiness, *f.bookings.cancelStatus)
}

func TestCancel_StrangerDenied(t *testing.T) {
	f := newFixture()

	err := f.svc.Cancel(context.Background(), 50, &models.CancelBookingRequest{UserID: 777})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, f.bookings.cancelStatus)
}

func TestCancel_TerminalStatus(t *testing.T) {
	f := newFixture()
	f.bookings.booking.Status = domain.StatusCompleted

	err := f.svc.Cancel(context.Background(), 50, &models.CancelBookingRequest{UserID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.BookingStatus
		to      string
		wantErr error
	}{
		{"pending to confirmed", domain.StatusPending, "confirmed", nil},
		{"pending to rejected", domain.StatusPending, "rejected", nil},
		{"confirmed to completed", domain.StatusConfirmed, "completed", nil},
		{"confirmed to no_show", domain.StatusConfirmed, "no_show", nil},
		{"completed is terminal", domain.StatusCompleted, "confirmed", ErrInvalidTransition},
		{"rejected is terminal", domain.StatusRejected, "pending", ErrInvalidTransition},
		{"unknown status", domain.StatusPending, "unknown", ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.bookings.booking.Status = tt.from

			err := f.svc.UpdateStatus(context.Background(), 50, &models.UpdateStatusRequest{UserID: 5, Status: tt.to})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f.bookings.updatedStatus)
			} else {
				require.NoError(t, err)
				require.NotNil(t, f.bookings.updatedStatus)
				assert.Equal(t, domain.BookingStatus(tt.to), *f.bookings.updatedStatus)
			}
		})
	}
}

func TestUpdateStatus_OnlyOwner(t *testing.T) {
	f := newFixture()

	// Клиент бронирования не может менять статус
	err := f.svc.UpdateStatus(context.Background(), 50, &models.UpdateStatusRequest{UserID: 42, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateStatus_LeavingBlockingStatusFreesSlot(t *testing.T) {
	f := newFixture()
	f.bookings.booking.Status = domain.StatusPending

	// pending (блокирующий) -> rejected (не блокирующий)
	err := f.svc.UpdateStatus(context.Background(), 50, &models.UpdateStatusRequest{UserID: 5, Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-03"}, f.slotsCache.invalidated)

	// pending -> confirmed: слот остается занятым, кэш не трогаем
	f = newFixture()
	err = f.svc.UpdateStatus(context.Background(), 50, &models.UpdateStatusRequest{UserID: 5, Status: "confirmed"})
	require.NoError(t, err)
	assert.Empty(t, f.slotsCache.invalidated)
}

func TestGetBusinessBookings_InvalidStatusFilter(t *testing.T) {
	f := newFixture()

	bad := "nonsense"
	_, err := f.svc.GetBusinessBookings(context.Background(), &models.GetBusinessBookingsRequest{
		UserID:     5,
		BusinessID: 1,
		Status:     &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
