package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

const table = "provider_schedules"

// Repository репозиторий недельных расписаний провайдеров
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get расписание провайдера
func (r *Repository) Get(ctx context.Context, providerID uuid.UUID) (*domain.ProviderSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"provider_id",
		"timezone",
		"default_slot_duration",
		"default_break_duration",
		"working_start",
		"working_end",
		"weekdays",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s        domain.ProviderSchedule
		weekdays []byte
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ProviderID,
		&s.Timezone,
		&s.DefaultSlotDuration,
		&s.DefaultBreakDuration,
		&s.WorkingHours.StartTime,
		&s.WorkingHours.EndTime,
		&weekdays,
		&s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan schedule: %v", ErrScanRow, err)
	}

	if err := decodeWeekdays(weekdays, &s); err != nil {
		return nil, fmt.Errorf("%w: Get - decode weekdays: %v", ErrScanRow, err)
	}

	return &s, nil
}

// Upsert создает или полностью заменяет расписание провайдера
func (r *Repository) Upsert(ctx context.Context, s *domain.ProviderSchedule) (*domain.ProviderSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weekdays, err := encodeWeekdays(s)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"provider_id",
			"timezone",
			"default_slot_duration",
			"default_break_duration",
			"working_start",
			"working_end",
			"weekdays",
		).
		Values(
			s.ProviderID,
			s.Timezone,
			s.DefaultSlotDuration,
			s.DefaultBreakDuration,
			s.WorkingHours.StartTime,
			s.WorkingHours.EndTime,
			weekdays,
		).
		Suffix(`ON CONFLICT (provider_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			default_slot_duration = EXCLUDED.default_slot_duration,
			default_break_duration = EXCLUDED.default_break_duration,
			working_start = EXCLUDED.working_start,
			working_end = EXCLUDED.working_end,
			weekdays = EXCLUDED.weekdays,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}
