package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

const table = "availability_slots"

var columns = []string{
	"id",
	"provider_id",
	"slot_date",
	"start_time",
	"end_time",
	"timezone",
	"appointment_type",
	"slot_duration",
	"break_duration",
	"max_appointments",
	"current_bookings",
	"location",
	"pricing",
	"notes",
	"tags",
	"is_recurring",
	"recurrence_pattern",
	"recurrence_group_id",
	"status",
	"cancellation_reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый слот. ID генерируется, если не задан.
func (r *Repository) Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}

	location, pricing, pattern, err := encodeNested(slot)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[:20]...).
		Values(
			slot.ID,
			slot.ProviderID,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			slot.Timezone,
			slot.AppointmentType,
			slot.SlotDuration,
			slot.BreakDuration,
			slot.MaxAppointments,
			slot.CurrentBookings,
			location,
			pricing,
			slot.Notes,
			pq.Array(tagsOrEmpty(slot.Tags)),
			slot.IsRecurring,
			pattern,
			slot.RecurrenceGroupID,
			slot.Status,
			slot.CancellationReason,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.CreatedAt, &slot.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// GetByID получает слот по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// List возвращает слоты по фильтру, упорядоченные по дате и времени начала
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.ProviderID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"provider_id": *filter.ProviderID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_date": domain.DateOnly(*filter.Date)})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"slot_date": domain.DateOnly(*filter.DateFrom)})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"slot_date": domain.DateOnly(*filter.DateTo)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.AppointmentType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_type": *filter.AppointmentType})
	}

	selectBuilder = selectBuilder.OrderBy("slot_date ASC", "start_time ASC")

	// Под блокировкой провайдера читаем его слоты на дату с FOR UPDATE для проверки конфликтов
	if dbmetrics.IsInTransaction(ctx) && filter.ProviderID != nil && filter.Date != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// ListExpirable доступные слоты без бронирований с датой не позже before.
// Точный момент окончания с учетом часового пояса проверяет вызывающий код.
func (r *Repository) ListExpirable(ctx context.Context, before time.Time) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": domain.SlotStatusAvailable}).
		Where(squirrel.Eq{"current_bookings": 0}).
		Where(squirrel.LtOrEq{"slot_date": domain.DateOnly(before)}).
		OrderBy("slot_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExpirable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpirable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Update перезаписывает изменяемые поля слота
func (r *Repository) Update(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	location, pricing, pattern, err := encodeNested(slot)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update(table).
		Set("slot_date", slot.Date).
		Set("start_time", slot.StartTime).
		Set("end_time", slot.EndTime).
		Set("timezone", slot.Timezone).
		Set("appointment_type", slot.AppointmentType).
		Set("slot_duration", slot.SlotDuration).
		Set("break_duration", slot.BreakDuration).
		Set("max_appointments", slot.MaxAppointments).
		Set("current_bookings", slot.CurrentBookings).
		Set("location", location).
		Set("pricing", pricing).
		Set("notes", slot.Notes).
		Set("tags", pq.Array(tagsOrEmpty(slot.Tags))).
		Set("recurrence_pattern", pattern).
		Set("status", slot.Status).
		Set("cancellation_reason", slot.CancellationReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slot.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&slot.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// Delete физически удаляет слот
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.AvailabilitySlot, error) {
	var (
		slot                       domain.AvailabilitySlot
		location, pricing, pattern []byte
	)

	err := row.Scan(
		&slot.ID,
		&slot.ProviderID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Timezone,
		&slot.AppointmentType,
		&slot.SlotDuration,
		&slot.BreakDuration,
		&slot.MaxAppointments,
		&slot.CurrentBookings,
		&location,
		&pricing,
		&slot.Notes,
		pq.Array(&slot.Tags),
		&slot.IsRecurring,
		&pattern,
		&slot.RecurrenceGroupID,
		&slot.Status,
		&slot.CancellationReason,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if slot.Location, err = decodeLocation(location); err != nil {
		return nil, fmt.Errorf("decode location: %v", err)
	}
	if slot.Pricing, err = decodePricing(pricing); err != nil {
		return nil, fmt.Errorf("decode pricing: %v", err)
	}
	if slot.RecurrencePattern, err = decodePattern(pattern); err != nil {
		return nil, fmt.Errorf("decode recurrence pattern: %v", err)
	}
	slot.Date = domain.DateOnly(slot.Date)

	return &slot, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.AvailabilitySlot, error) {
	slots := make([]*domain.AvailabilitySlot, 0)

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

func encodeNested(slot *domain.AvailabilitySlot) (location, pricing, pattern interface{}, err error) {
	rawLocation, err := encodeLocation(slot.Location)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("location: %v", err)
	}
	rawPricing, err := encodePricing(slot.Pricing)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("pricing: %v", err)
	}
	rawPattern, err := encodePattern(slot.RecurrencePattern)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("recurrence pattern: %v", err)
	}
	return jsonArg(rawLocation), jsonArg(rawPricing), jsonArg(rawPattern), nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
