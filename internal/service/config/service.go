package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	businessRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/business"
	configRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/config"
	serviceRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/service"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/service/config/models"
)

// Service сервис для работы с конфигурацией бронирования
type Service struct {
	configRepo   ConfigRepository
	businessRepo BusinessRepository
	serviceRepo  ServiceRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	logger Logger,
) *Service {
	return &Service{
		configRepo:   configRepo,
		businessRepo: businessRepo,
		serviceRepo:  serviceRepo,
		logger:       logger,
	}
}

// GetEffective получает эффективную конфигурацию с учетом иерархии приоритетов
// Публичный метод - используется для отображения настроек записи
// Приоритет: service > business-wide > встроенные дефолты
func (s *Service) GetEffective(ctx context.Context, req *models.GetConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("GetEffective: fetching config for business=%d, service=%v", req.BusinessID, req.ServiceID)

	// Проверяем существование бизнеса
	if _, err := s.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("GetEffective: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("GetEffective: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	config, err := s.configRepo.GetConfigWithHierarchy(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			// Нет сохраненной конфигурации - возвращаем дефолтную
			s.logger.Info("GetEffective: no stored config for business=%d, using defaults", req.BusinessID)
			defaultConfig := domain.DefaultBookingConfig()
			defaultConfig.BusinessID = req.BusinessID
			return models.FromDomainConfig(defaultConfig), nil
		}
		s.logger.Error("GetEffective: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetEffective - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetEffective: successfully fetched config id=%d (level: %s)",
		config.ID, s.getConfigLevel(config))
	return models.FromDomainConfig(config), nil
}

// GetAllByBusiness получает все конфигурации бизнеса
// Доступно только владельцу бизнеса
func (s *Service) GetAllByBusiness(ctx context.Context, businessID int64, userID int64) (*models.ConfigListResponse, error) {
	s.logger.Info("GetAllByBusiness: fetching configs for business=%d by user=%d", businessID, userID)

	// Проверяем права доступа (только владелец бизнеса)
	if err := s.checkOwnerAccess(ctx, businessID, userID); err != nil {
		return nil, err
	}

	configs, err := s.configRepo.GetAllByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("GetAllByBusiness: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetAllByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllByBusiness: successfully fetched %d configs for business=%d", len(configs), businessID)
	return models.FromDomainConfigList(configs), nil
}

// Upsert создает или обновляет конфигурацию для (business_id, service_id)
// Доступно только владельцу бизнеса
// Проверяет существование услуги, если конфигурация создается для конкретной услуги
func (s *Service) Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Upsert: upserting config for business=%d, service=%v by user=%d",
		req.BusinessID, req.ServiceID, req.UserID)

	// 1. Валидируем параметры конфигурации
	if err := s.validateConfigData(req.SlotStepMinutes, req.AdvanceBookingDays, req.MinBookingNoticeMinutes); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа (только владелец бизнеса)
	if err := s.checkOwnerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Если указан serviceID, проверяем существование услуги
	if req.ServiceID != nil {
		if _, err := s.serviceRepo.GetByID(ctx, req.BusinessID, *req.ServiceID); err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				s.logger.Warn("Upsert: service id=%d not found in business=%d", *req.ServiceID, req.BusinessID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Upsert: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
	}

	// 4. Создаем или обновляем конфигурацию
	upserted, err := s.configRepo.Upsert(ctx, req.ToDomainConfig())
	if err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully upserted config id=%d", upserted.ID)
	return models.FromDomainConfig(upserted), nil
}

// Вспомогательные методы

// checkOwnerAccess проверяет, что пользователь является владельцем бизнеса
func (s *Service) checkOwnerAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkOwnerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsOwnedBy(userID) {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}

// validateConfigData валидирует параметры конфигурации
func (s *Service) validateConfigData(slotStep, advanceDays, minNotice int) error {
	if slotStep < domain.MinSlotStepMinutes || slotStep > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: slotStepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	if advanceDays < domain.MinAdvanceBookingDays || advanceDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if minNotice < domain.MinBookingNoticeMinutes || minNotice > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}

// getConfigLevel возвращает строковое представление уровня конфигурации для логирования
func (s *Service) getConfigLevel(config *domain.BookingConfig) string {
	if config.IsServiceSpecific() {
		return "service"
	}
	return "business"
}
