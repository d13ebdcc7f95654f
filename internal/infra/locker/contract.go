package locker

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Locker сериализует изменения данных одного провайдера
type Locker interface {
	WithProviderLock(ctx context.Context, providerID uuid.UUID, fn func(ctx context.Context) error) error
}

// WaitObserver принимает время ожидания блокировки (*metrics.Metrics)
type WaitObserver interface {
	ObserveLockWait(d time.Duration)
}
