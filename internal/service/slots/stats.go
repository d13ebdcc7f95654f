package slots

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

// StatsFor статистика провайдера. "Сегодня" считается в поясе расписания провайдера,
// без расписания - в текущем поясе сервиса.
func (s *Service) StatsFor(ctx context.Context, providerID uuid.UUID) (*models.StatsResponse, error) {
	s.logger.Info("StatsFor: computing stats for provider=%s", providerID)

	var (
		list     []*domain.AvailabilitySlot
		bookings []*domain.Booking
		schedule *domain.ProviderSchedule
	)
	// слоты, бронирования и расписание читаются из одного снимка
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		list, err = s.slotRepo.List(txCtx, domain.SlotFilter{ProviderID: &providerID})
		if err != nil {
			s.logger.Error("StatsFor: failed to list slots for provider=%s: %v", providerID, err)
			return fmt.Errorf("%w: StatsFor - list slots: %v", ErrInternal, err)
		}

		bookings, err = s.bookingRepo.ListByProvider(txCtx, providerID)
		if err != nil {
			s.logger.Error("StatsFor: failed to list bookings for provider=%s: %v", providerID, err)
			return fmt.Errorf("%w: StatsFor - list bookings: %v", ErrInternal, err)
		}

		schedule, err = s.getSchedule(txCtx, providerID)
		if err != nil {
			s.logger.Error("StatsFor: failed to get schedule for provider=%s: %v", providerID, err)
			return fmt.Errorf("%w: StatsFor - get schedule: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapInternal("StatsFor", err)
	}

	zone := ""
	if schedule != nil {
		zone = schedule.Timezone
	}
	today, err := s.today(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: StatsFor - %v", ErrInternal, err)
	}

	stats := computeStats(list, bookings, today)

	s.logger.Info("StatsFor: provider=%s total=%d booked=%d", providerID, stats.TotalSlots, stats.BookedSlots)
	return models.FromDomainStats(stats), nil
}

func (s *Service) today(zone string) (time.Time, error) {
	loc, err := s.zones.Location(zone)
	if err != nil {
		return time.Time{}, err
	}
	return domain.DateOnly(s.timeProvider.Now().In(loc)), nil
}

// computeStats доля занятых слотов: booked_slots / total_slots, 0 без слотов
func computeStats(list []*domain.AvailabilitySlot, bookings []*domain.Booking, today time.Time) *domain.AvailabilityStats {
	stats := &domain.AvailabilityStats{TotalSlots: len(list)}

	slotsByID := make(map[uuid.UUID]*domain.AvailabilitySlot, len(list))
	for _, slot := range list {
		slotsByID[slot.ID] = slot

		switch slot.Status {
		case domain.SlotStatusAvailable:
			stats.AvailableSlots++
		case domain.SlotStatusBooked:
			stats.BookedSlots++
		case domain.SlotStatusCancelled:
			stats.CancelledSlots++
		case domain.SlotStatusExpired:
			stats.ExpiredSlots++
		}
	}

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		date := domain.DateOnly(b.AppointmentDate)

		if date.Equal(today) {
			stats.TodayBookings++
		}
		if !date.Before(today) && (b.Status == domain.StatusPending || b.Status == domain.StatusConfirmed) {
			stats.UpcomingBookings++
		}
		if date.Year() == today.Year() && date.Month() == today.Month() {
			if slot, ok := slotsByID[b.SlotID]; ok && slot.Pricing != nil {
				stats.RevenueThisMonth += slot.Pricing.Fee
			}
		}
	}

	if stats.TotalSlots > 0 {
		stats.AverageBookingRate = float64(stats.BookedSlots) / float64(stats.TotalSlots)
	}
	stats.RevenueThisMonth = math.Round(stats.RevenueThisMonth*100) / 100

	return stats
}
