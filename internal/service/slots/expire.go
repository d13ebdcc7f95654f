package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ExpirePast переводит в expired доступные слоты без бронирований, чье время окончания
// в поясе слота уже прошло. Возвращает число истекших слотов.
func (s *Service) ExpirePast(ctx context.Context, now time.Time) (int, error) {
	// запас в сутки покрывает пояса восточнее UTC
	candidates, err := s.slotRepo.ListExpirable(ctx, now.UTC().AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("ExpirePast: failed to list expirable slots: %v", err)
		return 0, fmt.Errorf("%w: ExpirePast - list: %v", ErrInternal, err)
	}

	expired := 0
	for _, candidate := range candidates {
		endsAt, err := s.endMoment(candidate)
		if err != nil {
			s.logger.Warn("ExpirePast: skipping slot id=%s: %v", candidate.ID, err)
			continue
		}
		if endsAt.After(now) {
			continue
		}

		id := candidate.ID
		err = s.mutate(ctx, candidate.ProviderID, func(txCtx context.Context) error {
			slot, err := s.getSlot(txCtx, "ExpirePast", id)
			if err != nil {
				return err
			}
			// бронирование могло появиться после выборки
			if slot.Status != domain.SlotStatusAvailable || slot.CurrentBookings > 0 {
				return nil
			}
			slot.Status = domain.SlotStatusExpired
			if _, err := s.slotRepo.Update(txCtx, slot); err != nil {
				return err
			}
			expired++
			return nil
		})
		if err != nil {
			s.logger.Error("ExpirePast: failed to expire slot id=%s: %v", id, err)
			continue
		}
	}

	if expired > 0 {
		s.logger.Info("ExpirePast: expired %d slots", expired)
	}
	return expired, nil
}

func (s *Service) endMoment(slot *domain.AvailabilitySlot) (time.Time, error) {
	loc, err := s.zones.Location(slot.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	return slot.EndTime.On(slot.Date, loc), nil
}
