package config

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/dbmetrics"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/psqlbuilder"
)

var configColumns = []string{
	"id",
	"business_id",
	"service_id",
	"slot_step_minutes",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"auto_confirm",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с конфигурацией бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetConfigWithHierarchy получает конфигурацию с учетом иерархии приоритетов:
// 1. Конфигурация для конкретной услуги (business_id, service_id)
// 2. Общая конфигурация бизнеса (business_id, NULL)
// Если ничего не найдено, возвращает ErrConfigNotFound - вызывающая сторона
// подставляет дефолтные значения
func (r *Repository) GetConfigWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingConfig, error) {
	if serviceID != nil {
		cfg, err := r.get(ctx, businessID, serviceID)
		if err == nil {
			return cfg, nil
		}
		if err != ErrConfigNotFound {
			return nil, err
		}
	}

	return r.get(ctx, businessID, nil)
}

// GetAllByBusiness получает все конфигурации бизнеса
func (r *Repository) GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.BookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(configColumns...).
		From("business_booking_config").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("service_id ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]*domain.BookingConfig, 0)
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByBusiness - scan row: %v", ErrScanRow, err)
		}
		configs = append(configs, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - rows error: %v", ErrScanRow, err)
	}

	return configs, nil
}

// Upsert создает или обновляет конфигурацию для (business_id, service_id)
func (r *Repository) Upsert(ctx context.Context, cfg *domain.BookingConfig) (*domain.BookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("business_booking_config").
		Columns(
			"business_id",
			"service_id",
			"slot_step_minutes",
			"advance_booking_days",
			"min_booking_notice_minutes",
			"auto_confirm",
		).
		Values(
			cfg.BusinessID,
			cfg.ServiceID,
			cfg.SlotStepMinutes,
			cfg.AdvanceBookingDays,
			cfg.MinBookingNoticeMinutes,
			cfg.AutoConfirm,
		).
		Suffix(`ON CONFLICT (business_id, service_id) DO UPDATE SET
			slot_step_minutes = EXCLUDED.slot_step_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			auto_confirm = EXCLUDED.auto_confirm,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time
	return cfg, nil
}

func (r *Repository) get(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(configColumns...).
		From("business_booking_config").
		Where(squirrel.Eq{"business_id": businessID})

	if serviceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: get - build select query: %v", ErrBuildQuery, err)
	}

	cfg, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get - scan config: %v", ErrScanRow, err)
	}

	return cfg, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(row rowScanner) (*domain.BookingConfig, error) {
	var cfg domain.BookingConfig
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&cfg.ID,
		&cfg.BusinessID,
		&cfg.ServiceID,
		&cfg.SlotStepMinutes,
		&cfg.AdvanceBookingDays,
		&cfg.MinBookingNoticeMinutes,
		&cfg.AutoConfirm,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time
	return &cfg, nil
}
