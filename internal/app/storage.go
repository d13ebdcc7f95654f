package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/memory"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

// SlotStore полный набор операций хранилища слотов
type SlotStore interface {
	Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AvailabilitySlot, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error)
	ListExpirable(ctx context.Context, before time.Time) ([]*domain.AvailabilitySlot, error)
	Update(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingStore полный набор операций хранилища бронирований
type BookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*domain.Booking, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ScheduleStore хранилище недельных расписаний
type ScheduleStore interface {
	Get(ctx context.Context, providerID uuid.UUID) (*domain.ProviderSchedule, error)
	Upsert(ctx context.Context, schedule *domain.ProviderSchedule) (*domain.ProviderSchedule, error)
}

// TransactionManager транзакции хранилища
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Storage репозитории одного бэкенда и их менеджер транзакций
type Storage struct {
	Slots     SlotStore
	Bookings  BookingStore
	Schedules ScheduleStore
	TxManager TransactionManager
}

// NewMemoryStorage хранилище в памяти процесса
func NewMemoryStorage() Storage {
	return Storage{
		Slots:     memory.NewSlotRepository(),
		Bookings:  memory.NewBookingRepository(),
		Schedules: memory.NewScheduleRepository(),
		TxManager: txmanager.NewNoopManager(),
	}
}

// NewPostgresStorage репозитории Postgres поверх обёртки с метриками
func NewPostgresStorage(db *dbmetrics.DB) Storage {
	return Storage{
		Slots:     slotRepo.NewRepository(db),
		Bookings:  bookingRepo.NewRepository(db),
		Schedules: scheduleRepo.NewRepository(db),
		TxManager: txmanager.NewTransactionManager(db),
	}
}
