package staff

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/dbmetrics"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/psqlbuilder"
)

var staffColumns = []string{
	"id",
	"business_id",
	"name",
	"avatar_url",
	"is_active",
	"deleted_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с сотрудниками, их недельными
// расписаниями и исключениями на конкретные даты
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает сотрудника по ID (включая неактивных и удалённых -
// фильтрация на стороне вызывающего через Staff.IsBookable)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(staffColumns...).
		From("staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Staff
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.BusinessID,
		&s.Name,
		&s.AvatarURL,
		&s.IsActive,
		&s.DeletedAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan staff: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return &s, nil
}

// GetBookableByService получает активных неудалённых сотрудников бизнеса,
// выполняющих указанную услугу
func (r *Repository) GetBookableByService(ctx context.Context, businessID, serviceID int64) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"s.id",
		"s.business_id",
		"s.name",
		"s.avatar_url",
		"s.is_active",
		"s.deleted_at",
		"s.created_at",
		"s.updated_at",
	).
		From("staff s").
		Join("staff_services ss ON ss.staff_id = s.id").
		Where(squirrel.Eq{"s.business_id": businessID}).
		Where(squirrel.Eq{"ss.service_id": serviceID}).
		Where(squirrel.Eq{"s.is_active": true}).
		Where(squirrel.Eq{"s.deleted_at": nil}).
		OrderBy("s.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBookableByService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookableByService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staff := make([]*domain.Staff, 0)
	for rows.Next() {
		var s domain.Staff
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.BusinessID,
			&s.Name,
			&s.AvatarURL,
			&s.IsActive,
			&s.DeletedAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetBookableByService - scan row: %v", ErrScanRow, err)
		}

		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time
		staff = append(staff, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBookableByService - rows error: %v", ErrScanRow, err)
	}

	return staff, nil
}

// PerformsService проверяет, что сотрудник выполняет услугу
func (r *Repository) PerformsService(ctx context.Context, staffID, serviceID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("staff_services").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"service_id": serviceID}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: PerformsService - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: PerformsService - scan row: %v", ErrScanRow, err)
	}
	return true, nil
}

// GetWeeklySchedules получает недельные расписания группы сотрудников
func (r *Repository) GetWeeklySchedules(ctx context.Context, staffIDs []int64) ([]*domain.WeeklySchedule, error) {
	if len(staffIDs) == 0 {
		return []*domain.WeeklySchedule{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"day_of_week",
		"start_time",
		"end_time",
		"is_closed",
	).
		From("staff_schedules").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		OrderBy("staff_id ASC, day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklySchedules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklySchedules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.WeeklySchedule, 0)
	for rows.Next() {
		var ws domain.WeeklySchedule
		err := rows.Scan(
			&ws.ID,
			&ws.StaffID,
			&ws.DayOfWeek,
			&ws.StartTime,
			&ws.EndTime,
			&ws.IsClosed,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWeeklySchedules - scan row: %v", ErrScanRow, err)
		}
		schedules = append(schedules, &ws)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklySchedules - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

// GetExceptionsByDate получает исключения расписания группы сотрудников
// на конкретную дату
func (r *Repository) GetExceptionsByDate(ctx context.Context, staffIDs []int64, date time.Time) ([]*domain.ScheduleException, error) {
	if len(staffIDs) == 0 {
		return []*domain.ScheduleException{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"date",
		"is_closed",
		"start_time",
		"end_time",
		"reason",
	).
		From("staff_schedule_exceptions").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.Eq{"date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.ScheduleException, 0)
	for rows.Next() {
		var exc domain.ScheduleException
		err := rows.Scan(
			&exc.ID,
			&exc.StaffID,
			&exc.Date,
			&exc.IsClosed,
			&exc.StartTime,
			&exc.EndTime,
			&exc.Reason,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetExceptionsByDate - scan row: %v", ErrScanRow, err)
		}
		exceptions = append(exceptions, &exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByDate - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}
