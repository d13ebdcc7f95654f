package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingstorage "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
)

// BookingRepository хранилище бронирований в памяти
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*domain.Booking
	now      func() time.Time
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		bookings: make(map[uuid.UUID]*domain.Booking),
		now:      time.Now,
	}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := r.now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	r.bookings[booking.ID] = booking.Clone()
	return booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingstorage.ErrBookingNotFound
	}
	return b.Clone(), nil
}

func (r *BookingRepository) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*domain.Booking, error) {
	result := r.collect(func(b *domain.Booking) bool { return b.SlotID == slotID })
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *BookingRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*domain.Booking, error) {
	result := r.collect(func(b *domain.Booking) bool { return b.ProviderID == providerID })
	sort.SliceStable(result, func(i, j int) bool {
		di, dj := domain.DateOnly(result[i].AppointmentDate), domain.DateOnly(result[j].AppointmentDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return result[i].AppointmentTime.IsBefore(result[j].AppointmentTime)
	})
	return result, nil
}

// Update сохраняет те же поля, что и postgres репозиторий
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.bookings[booking.ID]
	if !ok {
		return nil, bookingstorage.ErrBookingNotFound
	}

	stored := current.Clone()
	stored.Status = booking.Status
	stored.ProviderNotes = booking.ProviderNotes
	stored.CancellationReason = booking.CancellationReason
	stored.UpdatedAt = r.now()
	r.bookings[booking.ID] = stored

	booking.UpdatedAt = stored.UpdatedAt
	return booking, nil
}

func (r *BookingRepository) collect(match func(b *domain.Booking) bool) []*domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if match(b) {
			result = append(result, b.Clone())
		}
	}
	return result
}
