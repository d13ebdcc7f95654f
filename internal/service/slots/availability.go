package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// CheckAvailability есть ли на дату слот, на который можно записаться,
// полностью покрывающий интервал [start, end]
func (s *Service) CheckAvailability(
	ctx context.Context,
	providerID uuid.UUID,
	date time.Time,
	start, end types.TimeString,
) (*models.CheckAvailabilityResponse, error) {
	s.logger.Info("CheckAvailability: provider=%s, date=%s, %s-%s",
		providerID, date.Format(domain.DateFormat), start, end)

	if !start.IsBefore(end) {
		return nil, fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
	}

	list, err := s.slotRepo.List(ctx, domain.SlotFilter{ProviderID: &providerID, Date: &date})
	if err != nil {
		s.logger.Error("CheckAvailability: repository error for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: CheckAvailability - repository error: %v", ErrInternal, err)
	}

	for _, slot := range list {
		if slot.IsBookable() && slot.Covers(start, end) {
			return &models.CheckAvailabilityResponse{Available: true, Slot: models.FromDomainSlot(slot)}, nil
		}
	}

	return &models.CheckAvailabilityResponse{Available: false}, nil
}

// AvailableTimes слоты провайдера на дату со свободными местами.
// Время переводится из пояса слота в zone, дата может сдвинуться.
func (s *Service) AvailableTimes(ctx context.Context, providerID uuid.UUID, date time.Time, zone string) (*models.AvailableTimesResponse, error) {
	zone = s.zones.Resolve(zone)
	s.logger.Info("AvailableTimes: provider=%s, date=%s, timezone=%s", providerID, date.Format(domain.DateFormat), zone)

	if !s.zones.IsKnown(zone) {
		s.logger.Warn("AvailableTimes: unknown timezone %s", zone)
		return nil, fmt.Errorf("%w: %s", ErrUnknownTimezone, zone)
	}

	list, err := s.slotRepo.List(ctx, domain.SlotFilter{ProviderID: &providerID, Date: &date})
	if err != nil {
		s.logger.Error("AvailableTimes: repository error for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: AvailableTimes - repository error: %v", ErrInternal, err)
	}

	resp := &models.AvailableTimesResponse{
		ProviderID: providerID.String(),
		Date:       date.Format(domain.DateFormat),
		Timezone:   zone,
		Slots:      make([]models.AvailableSlot, 0, len(list)),
	}

	for _, slot := range list {
		if !slot.IsBookable() {
			continue
		}

		localDate, start, err := s.zones.ConvertDate(slot.Date, slot.StartTime, slot.Timezone, zone)
		if err != nil {
			s.logger.Warn("AvailableTimes: skipping slot id=%s: %v", slot.ID, err)
			continue
		}
		_, end, err := s.zones.ConvertDate(slot.Date, slot.EndTime, slot.Timezone, zone)
		if err != nil {
			s.logger.Warn("AvailableTimes: skipping slot id=%s: %v", slot.ID, err)
			continue
		}

		resp.Slots = append(resp.Slots, models.AvailableSlot{
			SlotID:          slot.ID.String(),
			Date:            localDate.Format(domain.DateFormat),
			StartTime:       start.String(),
			EndTime:         end.String(),
			AppointmentType: slot.AppointmentType,
			SpotsLeft:       slot.SpotsLeft(),
		})
	}

	s.logger.Info("AvailableTimes: provider=%s has %d available slots", providerID, len(resp.Slots))
	return resp, nil
}
