package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	schedulestorage "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
)

// ScheduleRepository хранилище расписаний провайдеров в памяти
type ScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[uuid.UUID]*domain.ProviderSchedule
	now       func() time.Time
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{
		schedules: make(map[uuid.UUID]*domain.ProviderSchedule),
		now:       time.Now,
	}
}

func (r *ScheduleRepository) Get(ctx context.Context, providerID uuid.UUID) (*domain.ProviderSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schedules[providerID]
	if !ok {
		return nil, schedulestorage.ErrScheduleNotFound
	}
	return s.Clone(), nil
}

func (r *ScheduleRepository) Upsert(ctx context.Context, s *domain.ProviderSchedule) (*domain.ProviderSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.UpdatedAt = r.now()
	r.schedules[s.ProviderID] = s.Clone()
	return s, nil
}
