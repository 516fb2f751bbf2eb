package get_available_staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/availability"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	configRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/config"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/ptr"
)

// UseCase use case для подбора сотрудников, свободных в указанное время
type UseCase struct {
	businessRepo BusinessRepository
	serviceRepo  ServiceRepository
	staffRepo    StaffRepository
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	staffRepo StaffRepository,
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo: businessRepo,
		serviceRepo:  serviceRepo,
		staffRepo:    staffRepo,
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case подбора свободных сотрудников
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableStaff: business=%d, service=%d, date=%s, time=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableStaff: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование бизнеса
	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		uc.logger.Warn("GetAvailableStaff: business id=%d not found: %v", req.BusinessID, err)
		return nil, ErrBusinessNotFound
	}

	// 4. Получаем услугу и проверяем, что она доступна для записи
	service, err := uc.serviceRepo.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		uc.logger.Warn("GetAvailableStaff: service id=%d not found: %v", req.ServiceID, err)
		return nil, ErrServiceNotFound
	}
	if !service.IsBookable() {
		uc.logger.Warn("GetAvailableStaff: service id=%d is not bookable", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Получаем конфигурацию с учетом иерархии
	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.BusinessID, ptr.Ptr(req.ServiceID))
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		uc.logger.Error("GetAvailableStaff: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}
	if config == nil {
		config = domain.DefaultBookingConfig()
	}

	// 6. Валидация даты с учетом конфигурации
	if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableStaff: date validation failed: %v", err)
		return nil, err
	}

	// 7. Получаем сотрудников, выполняющих услугу
	staff, err := uc.staffRepo.GetBookableByService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailableStaff: failed to get staff: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if len(staff) == 0 {
		uc.logger.Info("GetAvailableStaff: no bookable staff for service id=%d", req.ServiceID)
		return uc.buildResponse(req, service, nil), nil
	}

	// 8. Собираем расписания, исключения и бронирования по каждому сотруднику
	days, err := uc.buildStaffDays(ctx, staff, req)
	if err != nil {
		return nil, err
	}

	// 9. Отбираем сотрудников, свободных для интервала [startTime, startTime+duration)
	free := availability.FilterFreeStaff(days, req.Date, req.StartTime, service.DurationMinutes, now, config.MinBookingNoticeMinutes)

	uc.logger.Info("GetAvailableStaff: %d of %d staff free for business=%d, service=%d, date=%s, time=%s",
		len(free), len(staff), req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	return uc.buildResponse(req, service, free), nil
}

// buildStaffDays загружает недельные расписания, исключения и блокирующие
// бронирования и группирует их по сотрудникам
func (uc *UseCase) buildStaffDays(ctx context.Context, staff []*domain.Staff, req *Request) ([]*availability.StaffDay, error) {
	staffIDs := make([]int64, 0, len(staff))
	for _, s := range staff {
		staffIDs = append(staffIDs, s.ID)
	}

	schedules, err := uc.staffRepo.GetWeeklySchedules(ctx, staffIDs)
	if err != nil {
		uc.logger.Error("GetAvailableStaff: failed to get schedules: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedules: %v", ErrInternal, err)
	}

	exceptions, err := uc.staffRepo.GetExceptionsByDate(ctx, staffIDs, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableStaff: failed to get schedule exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule exceptions: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetBlockingByStaffIDsAndDate(ctx, staffIDs, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableStaff: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	schedulesByStaff := make(map[int64][]*domain.WeeklySchedule)
	for _, s := range schedules {
		schedulesByStaff[s.StaffID] = append(schedulesByStaff[s.StaffID], s)
	}

	exceptionsByStaff := make(map[int64][]*domain.ScheduleException)
	for _, e := range exceptions {
		exceptionsByStaff[e.StaffID] = append(exceptionsByStaff[e.StaffID], e)
	}

	bookingsByStaff := make(map[int64][]*domain.Booking)
	for _, b := range bookings {
		bookingsByStaff[b.StaffID] = append(bookingsByStaff[b.StaffID], b)
	}

	days := make([]*availability.StaffDay, 0, len(staff))
	for _, s := range staff {
		days = append(days, &availability.StaffDay{
			Staff:      s,
			Weekly:     schedulesByStaff[s.ID],
			Exceptions: exceptionsByStaff[s.ID],
			Bookings:   bookingsByStaff[s.ID],
		})
	}

	return days, nil
}

func (uc *UseCase) buildResponse(req *Request, service *domain.Service, free []*domain.Staff) *Response {
	items := make([]StaffItem, 0, len(free))
	for _, s := range free {
		items = append(items, StaffItem{
			ID:        s.ID,
			Name:      s.Name,
			AvatarURL: s.AvatarURL,
		})
	}

	return &Response{
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: service.DurationMinutes,
		Staff:           items,
	}
}
