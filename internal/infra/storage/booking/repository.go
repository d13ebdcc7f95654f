package booking

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

const table = "bookings"

var columns = []string{
	"id",
	"slot_id",
	"provider_id",
	"patient_id",
	"patient_name",
	"patient_email",
	"patient_phone",
	"appointment_date",
	"appointment_time",
	"timezone",
	"reason",
	"status",
	"insurance_provider",
	"insurance_policy_number",
	"special_requirements",
	"emergency_contact_name",
	"emergency_contact_phone",
	"emergency_contact_relationship",
	"provider_notes",
	"confirmation_code",
	"cancellation_reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается внутри транзакции вместе с обновлением счетчика слота.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	ecName, ecPhone, ecRelationship := emergencyColumns(booking.EmergencyContact)

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[:21]...).
		Values(
			booking.ID,
			booking.SlotID,
			booking.ProviderID,
			booking.PatientID,
			booking.PatientName,
			booking.PatientEmail,
			booking.PatientPhone,
			booking.AppointmentDate,
			booking.AppointmentTime,
			booking.Timezone,
			booking.Reason,
			booking.Status,
			booking.InsuranceProvider,
			booking.InsurancePolicyNumber,
			booking.SpecialRequirements,
			ecName,
			ecPhone,
			ecRelationship,
			booking.ProviderNotes,
			booking.ConfirmationCode,
			booking.CancellationReason,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
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

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListBySlot бронирования слота в порядке создания
func (r *Repository) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*domain.Booking, error) {
	return r.list(ctx, "ListBySlot", squirrel.Eq{"slot_id": slotID}, "created_at ASC")
}

// ListByProvider все бронирования провайдера, новые в конце
func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*domain.Booking, error) {
	return r.list(ctx, "ListByProvider", squirrel.Eq{"provider_id": providerID}, "appointment_date ASC", "appointment_time ASC")
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer, orderBy ...string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		OrderBy(orderBy...).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Update сохраняет статус, заметки провайдера и причину отмены
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", booking.Status).
		Set("provider_notes", booking.ProviderNotes).
		Set("cancellation_reason", booking.CancellationReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking                         domain.Booking
		ecName, ecPhone, ecRelationship sql.NullString
	)

	err := row.Scan(
		&booking.ID,
		&booking.SlotID,
		&booking.ProviderID,
		&booking.PatientID,
		&booking.PatientName,
		&booking.PatientEmail,
		&booking.PatientPhone,
		&booking.AppointmentDate,
		&booking.AppointmentTime,
		&booking.Timezone,
		&booking.Reason,
		&booking.Status,
		&booking.InsuranceProvider,
		&booking.InsurancePolicyNumber,
		&booking.SpecialRequirements,
		&ecName,
		&ecPhone,
		&ecRelationship,
		&booking.ProviderNotes,
		&booking.ConfirmationCode,
		&booking.CancellationReason,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if ecName.Valid || ecPhone.Valid {
		booking.EmergencyContact = &domain.EmergencyContact{
			Name:         ecName.String,
			Phone:        ecPhone.String,
			Relationship: ecRelationship.String,
		}
	}
	booking.AppointmentDate = domain.DateOnly(booking.AppointmentDate)

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func emergencyColumns(ec *domain.EmergencyContact) (name, phone, relationship *string) {
	if ec == nil {
		return nil, nil, nil
	}
	return &ec.Name, &ec.Phone, &ec.Relationship
}
