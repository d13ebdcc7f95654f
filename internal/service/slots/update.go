package slots

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// UpdateSlot частично обновляет слот.
// Результат заново проверяется целиком и на конфликты с остальными слотами провайдера.
// max_appointments нельзя опустить ниже текущего числа бронирований.
func (s *Service) UpdateSlot(ctx context.Context, id uuid.UUID, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("UpdateSlot: updating slot id=%s", id)

	current, err := s.getSlot(ctx, "UpdateSlot", id)
	if err != nil {
		return nil, err
	}

	var result *domain.AvailabilitySlot
	err = s.mutate(ctx, current.ProviderID, func(txCtx context.Context) error {
		// перечитываем под блокировкой
		slot, err := s.getSlot(txCtx, "UpdateSlot", id)
		if err != nil {
			return err
		}

		if slot.IsCancelled() || slot.Status == domain.SlotStatusExpired {
			s.logger.Warn("UpdateSlot: slot id=%s is %s", id, slot.Status)
			return ErrSlotNotEditable
		}
		if req.ChangesSchedule() && slot.CurrentBookings > 0 {
			s.logger.Warn("UpdateSlot: slot id=%s has %d bookings, cannot move", id, slot.CurrentBookings)
			return ErrSlotHasBookings
		}

		draft := mergeDraft(slot, req)
		failures := conflicts.Validate(draft, s.opts.Policy)
		if draft.MaxAppointments < slot.CurrentBookings {
			failures = append(failures, domain.ValidationFailure{
				Field:        "max_appointments",
				MinValue:     ptr.Ptr(slot.CurrentBookings),
				ErrorMessage: fmt.Sprintf("max_appointments cannot be lower than current bookings (%d)", slot.CurrentBookings),
			})
		}
		if len(failures) > 0 {
			s.logger.Warn("UpdateSlot: validation failed for slot id=%s: %d errors", id, len(failures))
			return &domain.ValidationError{Failures: failures}
		}

		if err := applyPatch(slot, req, draft); err != nil {
			return err
		}
		slot.Timezone = s.zones.Resolve(slot.Timezone)
		if !s.zones.IsKnown(slot.Timezone) {
			return fmt.Errorf("%w: %s", ErrUnknownTimezone, slot.Timezone)
		}

		existing, err := s.slotRepo.List(txCtx, domain.SlotFilter{ProviderID: &slot.ProviderID, Date: &slot.Date})
		if err != nil {
			return fmt.Errorf("%w: UpdateSlot - list slots: %v", ErrInternal, err)
		}
		schedule, err := s.getSchedule(txCtx, slot.ProviderID)
		if err != nil {
			return fmt.Errorf("%w: UpdateSlot - get schedule: %v", ErrInternal, err)
		}

		if found := conflicts.CheckConflicts(slot, existing, schedule, s.opts.Policy); len(found) > 0 {
			s.logger.Warn("UpdateSlot: slot id=%s has %d conflicts: %v", id, len(found), conflicts.Types(found))
			return &domain.ConflictError{Conflicts: found}
		}

		slot.RecomputeStatus()
		result, err = s.slotRepo.Update(txCtx, slot)
		return err
	})
	if err != nil {
		return nil, wrapInternal("UpdateSlot", err)
	}

	s.logger.Info("UpdateSlot: successfully updated slot id=%s", id)
	return models.FromDomainSlot(result), nil
}

// mergeDraft черновик из текущего слота и изменений для повторной проверки
func mergeDraft(slot *domain.AvailabilitySlot, req *models.UpdateSlotRequest) domain.SlotDraft {
	draft := domain.SlotDraft{
		Date:            slot.Date.Format(domain.DateFormat),
		StartTime:       slot.StartTime.String(),
		EndTime:         slot.EndTime.String(),
		Timezone:        slot.Timezone,
		SlotDuration:    slot.SlotDuration,
		BreakDuration:   slot.BreakDuration,
		MaxAppointments: slot.MaxAppointments,
		Location:        slot.Location,
	}

	if req.Date != nil {
		draft.Date = *req.Date
	}
	if req.StartTime != nil {
		draft.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		draft.EndTime = *req.EndTime
	}
	if req.Timezone != nil {
		draft.Timezone = *req.Timezone
	}
	if req.SlotDuration != nil {
		draft.SlotDuration = *req.SlotDuration
	}
	if req.BreakDuration != nil {
		draft.BreakDuration = *req.BreakDuration
	}
	if req.MaxAppointments != nil {
		draft.MaxAppointments = *req.MaxAppointments
	}
	if req.Location != nil {
		draft.Location = req.Location.ToDomain()
	}

	return draft
}

// applyPatch переносит проверенный черновик и остальные поля в слот
func applyPatch(slot *domain.AvailabilitySlot, req *models.UpdateSlotRequest, draft domain.SlotDraft) error {
	date, err := domain.ParseDate(draft.Date)
	if err != nil {
		return fmt.Errorf("%w: date: %v", ErrInvalidInput, err)
	}
	start, err := types.NewTimeStringFromString(draft.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start_time: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(draft.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end_time: %v", ErrInvalidInput, err)
	}

	slot.Date = date
	slot.StartTime = start
	slot.EndTime = end
	slot.Timezone = draft.Timezone
	slot.SlotDuration = draft.SlotDuration
	slot.BreakDuration = draft.BreakDuration
	slot.MaxAppointments = draft.MaxAppointments
	slot.Location = draft.Location

	if req.AppointmentType != nil {
		slot.AppointmentType = *req.AppointmentType
	}
	if req.Pricing != nil {
		slot.Pricing = req.Pricing.ToDomain()
	}
	if req.Notes != nil {
		if len(*req.Notes) > domain.MaxNotesLength {
			return fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		slot.Notes = req.Notes
	}
	if req.Tags != nil {
		slot.Tags = req.Tags
	}

	return nil
}
