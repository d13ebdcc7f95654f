package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	slotstorage "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/slot"
)

// SlotRepository хранилище слотов в памяти.
// Наружу отдаются только копии, чтобы вызывающий код не менял состояние в обход Update.
type SlotRepository struct {
	mu    sync.RWMutex
	slots map[uuid.UUID]*domain.AvailabilitySlot
	now   func() time.Time
}

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{
		slots: make(map[uuid.UUID]*domain.AvailabilitySlot),
		now:   time.Now,
	}
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	now := r.now()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	if slot.Tags == nil {
		slot.Tags = []string{}
	}

	r.slots[slot.ID] = slot.Clone()
	return slot, nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AvailabilitySlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[id]
	if !ok {
		return nil, slotstorage.ErrSlotNotFound
	}
	return s.Clone(), nil
}

// List слоты по фильтру в порядке дата, время начала
func (r *SlotRepository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.AvailabilitySlot, 0)
	for _, s := range r.slots {
		if filter.Matches(s) {
			result = append(result, s.Clone())
		}
	}
	sortSlots(result)
	return result, nil
}

func (r *SlotRepository) ListExpirable(ctx context.Context, before time.Time) ([]*domain.AvailabilitySlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := domain.DateOnly(before)
	result := make([]*domain.AvailabilitySlot, 0)
	for _, s := range r.slots {
		if s.Status != domain.SlotStatusAvailable || s.CurrentBookings != 0 {
			continue
		}
		if domain.DateOnly(s.Date).After(limit) {
			continue
		}
		result = append(result, s.Clone())
	}
	sortSlots(result)
	return result, nil
}

func (r *SlotRepository) Update(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.slots[slot.ID]
	if !ok {
		return nil, slotstorage.ErrSlotNotFound
	}
	slot.CreatedAt = current.CreatedAt
	slot.UpdatedAt = r.now()

	r.slots[slot.ID] = slot.Clone()
	return slot, nil
}

func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[id]; !ok {
		return slotstorage.ErrSlotNotFound
	}
	delete(r.slots, id)
	return nil
}

func sortSlots(slots []*domain.AvailabilitySlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		di, dj := domain.DateOnly(slots[i].Date), domain.DateOnly(slots[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})
}
