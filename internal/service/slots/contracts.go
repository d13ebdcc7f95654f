package slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/notification"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AvailabilitySlot, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error)
	ListExpirable(ctx context.Context, before time.Time) ([]*domain.AvailabilitySlot, error)
	Update(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*domain.Booking, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	Get(ctx context.Context, providerID uuid.UUID) (*domain.ProviderSchedule, error)
}

// Locker сериализация изменений по провайдеру
type Locker interface {
	WithProviderLock(ctx context.Context, providerID uuid.UUID, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// ZoneResolver часовые пояса
type ZoneResolver interface {
	IsKnown(name string) bool
	Resolve(name string) string
	ConvertDate(date time.Time, t types.TimeString, from, to string) (time.Time, types.TimeString, error)
	Location(name string) (*time.Location, error)
}

// Notifier публикация событий
type Notifier interface {
	Publish(event notification.Event)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
