package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	Get(ctx context.Context, providerID uuid.UUID) (*domain.ProviderSchedule, error)
	Upsert(ctx context.Context, schedule *domain.ProviderSchedule) (*domain.ProviderSchedule, error)
}

// Locker сериализация изменений по провайдеру
type Locker interface {
	WithProviderLock(ctx context.Context, providerID uuid.UUID, fn func(ctx context.Context) error) error
}

// ZoneResolver проверка часовых поясов
type ZoneResolver interface {
	IsKnown(name string) bool
	Resolve(name string) string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
