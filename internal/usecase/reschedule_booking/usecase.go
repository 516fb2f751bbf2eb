package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/availability"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	configRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/config"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/ptr"
)

// UseCase use case для переноса бронирования на новое время
type UseCase struct {
	bookingRepo  BookingRepository
	businessRepo BusinessRepository
	staffRepo    StaffRepository
	configRepo   ConfigRepository
	slotsCache   SlotsCache
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	staffRepo StaffRepository,
	configRepo ConfigRepository,
	slotsCache SlotsCache,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		businessRepo: businessRepo,
		staffRepo:    staffRepo,
		configRepo:   configRepo,
		slotsCache:   slotsCache,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case переноса бронирования
// Проверка конфликтов исключает само переносимое бронирование, поэтому
// перенос на тот же слот идемпотентен
// После переноса бронирование возвращается в статус pending и требует
// повторного подтверждения бизнесом
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, actor=%d, date=%s, time=%s",
		req.BookingID, req.ActorUserID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: booking id=%d not found: %v", req.BookingID, err)
		return nil, ErrBookingNotFound
	}

	// 4. Проверяем права доступа: перенос доступен клиенту и владельцу бизнеса
	if err := uc.checkAccess(ctx, booking, req.ActorUserID); err != nil {
		return nil, err
	}

	// 5. Проверяем, что бронирование можно перенести
	if !booking.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%d in status %s cannot be rescheduled",
			booking.ID, booking.Status)
		return nil, ErrNotReschedulable
	}

	// 6. Проверяем, что сотрудник все еще доступен для записи
	staff, err := uc.staffRepo.GetByID(ctx, booking.StaffID)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: staff id=%d not found: %v", booking.StaffID, err)
		return nil, ErrStaffNotAvailable
	}
	if !staff.IsBookable() {
		uc.logger.Warn("RescheduleBooking: staff id=%d is no longer bookable", booking.StaffID)
		return nil, ErrStaffNotAvailable
	}

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Получаем конфигурацию с учетом иерархии
		config, err := uc.configRepo.GetConfigWithHierarchy(txCtx, booking.BusinessID, ptr.Ptr(booking.ServiceID))
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("RescheduleBooking: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		if config == nil {
			config = domain.DefaultBookingConfig()
		}

		// 7.2. Валидация новой даты с учетом конфигурации
		if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
			uc.logger.Warn("RescheduleBooking: date validation failed: %v", err)
			return err
		}

		// 7.3. Получаем рабочие часы сотрудника на новую дату
		day, err := uc.buildStaffDay(txCtx, staff, req)
		if err != nil {
			return err
		}

		winStart, winEnd, open := day.WorkingWindow(req.Date)
		if !open {
			uc.logger.Warn("RescheduleBooking: staff id=%d is not working on %s",
				booking.StaffID, req.Date.Format(domain.DateFormat))
			return ErrStaffNotWorking
		}

		// 7.4. Проверяем, что интервал полностью вмещается в рабочие часы
		startMin := req.StartTime.Minutes()
		if startMin < winStart.Minutes() || startMin+booking.DurationMinutes > winEnd.Minutes() {
			uc.logger.Warn("RescheduleBooking: interval %s+%dm is outside working hours %s-%s",
				req.StartTime, booking.DurationMinutes, winStart, winEnd)
			return ErrStaffNotWorking
		}

		// 7.5. Валидация времени переноса (minBookingNoticeMinutes)
		if isSameDay(req.Date, now) {
			minAllowed := now.Hour()*60 + now.Minute() + config.MinBookingNoticeMinutes
			if startMin <= minAllowed {
				uc.logger.Warn("RescheduleBooking: too late to book %s, notice=%dm",
					req.StartTime, config.MinBookingNoticeMinutes)
				return ErrTooLateToBook
			}
		}

		// 7.6. Проверяем пересечения, исключая само переносимое бронирование
		if availability.HasConflict(day.Bookings, req.StartTime, booking.DurationMinutes, booking.ID) {
			uc.logger.Warn("RescheduleBooking: slot %s+%dm conflicts with an existing booking",
				req.StartTime, booking.DurationMinutes)
			return ErrSlotConflict
		}

		// 7.7. Переносим бронирование и сбрасываем статус в pending
		if err := uc.bookingRepo.Reschedule(txCtx, booking.ID, req.Date, req.StartTime, domain.StatusPending); err != nil {
			uc.logger.Error("RescheduleBooking: failed to reschedule booking: %v", err)
			return fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: successfully rescheduled booking id=%d to %s %s",
		booking.ID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 8. Инвалидируем кэш слотов на старую и новую даты
	if uc.slotsCache != nil {
		uc.slotsCache.Invalidate(ctx, booking.BusinessID, booking.BookingDate.Format(domain.DateFormat))
		uc.slotsCache.Invalidate(ctx, booking.BusinessID, req.Date.Format(domain.DateFormat))
	}

	return &Response{
		ID:              booking.ID,
		Number:          booking.Number,
		CustomerID:      booking.CustomerID,
		BusinessID:      booking.BusinessID,
		StaffID:         booking.StaffID,
		ServiceID:       booking.ServiceID,
		BookingDate:     req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: booking.DurationMinutes,
		Status:          string(domain.StatusPending),
	}, nil
}

// checkAccess проверяет, что actor является клиентом бронирования
// или владельцем бизнеса
func (uc *UseCase) checkAccess(ctx context.Context, booking *domain.Booking, actorUserID int64) error {
	if booking.CustomerID == actorUserID {
		return nil
	}

	business, err := uc.businessRepo.GetByID(ctx, booking.BusinessID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get business id=%d: %v", booking.BusinessID, err)
		return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsOwnedBy(actorUserID) {
		uc.logger.Warn("RescheduleBooking: user id=%d has no access to booking id=%d", actorUserID, booking.ID)
		return ErrAccessDenied
	}

	return nil
}

// buildStaffDay загружает расписание, исключения и блокирующие бронирования
// сотрудника на новую дату
// Бронирования читаются с блокировкой FOR UPDATE при вызове внутри транзакции
func (uc *UseCase) buildStaffDay(ctx context.Context, staff *domain.Staff, req *Request) (*availability.StaffDay, error) {
	staffIDs := []int64{staff.ID}

	schedules, err := uc.staffRepo.GetWeeklySchedules(ctx, staffIDs)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get schedules: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedules: %v", ErrInternal, err)
	}

	exceptions, err := uc.staffRepo.GetExceptionsByDate(ctx, staffIDs, req.Date)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get schedule exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule exceptions: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetBlockingByStaffAndDate(ctx, staff.ID, req.Date)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return &availability.StaffDay{
		Staff:      staff,
		Weekly:     schedules,
		Exceptions: exceptions,
		Bookings:   bookings,
	}, nil
}
