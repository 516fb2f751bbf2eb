package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/availability"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	configRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/config"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/integrations/identityservice"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	businessRepo   BusinessRepository
	serviceRepo    ServiceRepository
	staffRepo      StaffRepository
	bookingRepo    BookingRepository
	configRepo     ConfigRepository
	identityClient IdentityServiceClient
	slotsCache     SlotsCache
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	staffRepo StaffRepository,
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	identityClient IdentityServiceClient,
	slotsCache SlotsCache,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo:   businessRepo,
		serviceRepo:    serviceRepo,
		staffRepo:      staffRepo,
		bookingRepo:    bookingRepo,
		configRepo:     configRepo,
		identityClient: identityClient,
		slotsCache:     slotsCache,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, business=%d, staff=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.BusinessID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование бизнеса
	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		uc.logger.Warn("CreateBooking: business id=%d not found: %v", req.BusinessID, err)
		return nil, ErrBusinessNotFound
	}

	// 4. Получаем услугу и проверяем, что она доступна для записи
	service, err := uc.serviceRepo.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		uc.logger.Warn("CreateBooking: service id=%d not found: %v", req.ServiceID, err)
		return nil, ErrServiceNotFound
	}
	if !service.IsBookable() {
		uc.logger.Warn("CreateBooking: service id=%d is not bookable", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Получаем сотрудника и проверяем, что он выполняет услугу
	staff, err := uc.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		uc.logger.Warn("CreateBooking: staff id=%d not found: %v", req.StaffID, err)
		return nil, ErrStaffNotFound
	}
	if staff.BusinessID != req.BusinessID || !staff.IsBookable() {
		uc.logger.Warn("CreateBooking: staff id=%d is not bookable for business id=%d", req.StaffID, req.BusinessID)
		return nil, ErrStaffNotAvailable
	}

	performs, err := uc.staffRepo.PerformsService(ctx, req.StaffID, req.ServiceID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check staff services: %v", err)
		return nil, fmt.Errorf("%w: failed to check staff services: %v", ErrInternal, err)
	}
	if !performs {
		uc.logger.Warn("CreateBooking: staff id=%d does not perform service id=%d", req.StaffID, req.ServiceID)
		return nil, ErrStaffNotAvailable
	}

	// 6. Получаем профиль клиента с graceful degradation:
	// при недоступности IdentityService бронирование создается без
	// денормализованных данных клиента
	var customerName, customerPhone *string
	profile, err := uc.identityClient.GetProfileWithGracefulDegradation(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, identityservice.ErrProfileNotFound) {
			uc.logger.Info("CreateBooking: customer id=%d has no profile", req.CustomerID)
		} else {
			uc.logger.Warn("CreateBooking: proceeding without customer profile: %v", err)
		}
	} else {
		customerName = ptr.Ptr(profile.Name)
		customerPhone = ptr.Ptr(profile.Phone)
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Получаем конфигурацию с учетом иерархии
		config, err := uc.configRepo.GetConfigWithHierarchy(txCtx, req.BusinessID, ptr.Ptr(req.ServiceID))
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("CreateBooking: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		if config == nil {
			config = domain.DefaultBookingConfig()
			uc.logger.Info("CreateBooking: using default config for business=%d, service=%d",
				req.BusinessID, req.ServiceID)
		} else {
			uc.logger.Info("CreateBooking: using config id=%d", config.ID)
		}

		// 7.2. Валидация даты с учетом конфигурации
		if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return err
		}

		// 7.3. Получаем рабочие часы сотрудника на дату (с учетом исключений)
		day, err := uc.buildStaffDay(txCtx, staff, req)
		if err != nil {
			return err
		}

		winStart, winEnd, open := day.WorkingWindow(req.Date)
		if !open {
			uc.logger.Warn("CreateBooking: staff id=%d is not working on %s",
				req.StaffID, req.Date.Format(domain.DateFormat))
			return ErrStaffNotWorking
		}

		// 7.4. Проверяем, что интервал полностью вмещается в рабочие часы
		startMin := req.StartTime.Minutes()
		if startMin < winStart.Minutes() || startMin+service.DurationMinutes > winEnd.Minutes() {
			uc.logger.Warn("CreateBooking: interval %s+%dm is outside working hours %s-%s",
				req.StartTime, service.DurationMinutes, winStart, winEnd)
			return ErrStaffNotWorking
		}

		// 7.5. Валидация времени бронирования (minBookingNoticeMinutes)
		if isSameDay(req.Date, now) {
			minAllowed := now.Hour()*60 + now.Minute() + config.MinBookingNoticeMinutes
			if startMin <= minAllowed {
				uc.logger.Warn("CreateBooking: too late to book %s, notice=%dm",
					req.StartTime, config.MinBookingNoticeMinutes)
				return ErrTooLateToBook
			}
		}

		// 7.6. Проверяем пересечения с блокирующими бронированиями
		// (day.Bookings получены с блокировкой FOR UPDATE)
		if availability.HasConflict(day.Bookings, req.StartTime, service.DurationMinutes, 0) {
			uc.logger.Warn("CreateBooking: slot %s+%dm conflicts with an existing booking",
				req.StartTime, service.DurationMinutes)
			return ErrSlotConflict
		}

		// 7.7. Создаем бронирование с денормализацией данных
		status := domain.StatusPending
		if config.AutoConfirm {
			status = domain.StatusConfirmed
		}

		booking := &domain.Booking{
			Number:          uuid.NewString(),
			BusinessID:      req.BusinessID,
			CustomerID:      req.CustomerID,
			StaffID:         req.StaffID,
			ServiceID:       req.ServiceID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          status,
			// Денормализация данных услуги
			ServiceName:  service.Name,
			ServicePrice: service.Price,
			// Денормализация данных клиента
			CustomerName:  customerName,
			CustomerPhone: customerPhone,
			// Заметки
			Notes: req.Notes,
		}

		// 7.8. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, number=%s, status=%s",
		result.ID, result.Number, result.Status)

	// 8. Инвалидируем кэш слотов на эту дату
	if uc.slotsCache != nil {
		uc.slotsCache.Invalidate(ctx, req.BusinessID, req.Date.Format(domain.DateFormat))
	}

	// Конвертируем в response
	return toResponse(result), nil
}

// buildStaffDay загружает расписание, исключения и блокирующие бронирования
// сотрудника на дату запроса
// Бронирования читаются с блокировкой FOR UPDATE при вызове внутри транзакции
func (uc *UseCase) buildStaffDay(ctx context.Context, staff *domain.Staff, req *Request) (*availability.StaffDay, error) {
	staffIDs := []int64{staff.ID}

	schedules, err := uc.staffRepo.GetWeeklySchedules(ctx, staffIDs)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get schedules: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedules: %v", ErrInternal, err)
	}

	exceptions, err := uc.staffRepo.GetExceptionsByDate(ctx, staffIDs, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get schedule exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule exceptions: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetBlockingByStaffAndDate(ctx, staff.ID, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return &availability.StaffDay{
		Staff:      staff,
		Weekly:     schedules,
		Exceptions: exceptions,
		Bookings:   bookings,
	}, nil
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		Number:          b.Number,
		CustomerID:      b.CustomerID,
		BusinessID:      b.BusinessID,
		StaffID:         b.StaffID,
		ServiceID:       b.ServiceID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		ServicePrice:    b.ServicePrice,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
