package slots

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/notification"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

// CancelSlot удаляет слот, у которого никогда не было бронирований (если разрешено
// физическое удаление), иначе переводит его в cancelled с причиной. Повторная отмена ничего не меняет.
func (s *Service) CancelSlot(ctx context.Context, id uuid.UUID, reason string) (*models.CancelSlotResponse, error) {
	s.logger.Info("CancelSlot: cancelling slot id=%s", id)

	if len(reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	current, err := s.getSlot(ctx, "CancelSlot", id)
	if err != nil {
		return nil, err
	}

	resp := &models.CancelSlotResponse{}
	var cancelled *domain.AvailabilitySlot
	err = s.mutate(ctx, current.ProviderID, func(txCtx context.Context) error {
		slot, err := s.getSlot(txCtx, "CancelSlot", id)
		if err != nil {
			return err
		}

		if slot.IsCancelled() {
			resp.Slot = models.FromDomainSlot(slot)
			return nil
		}

		deletable := false
		if slot.CurrentBookings == 0 && s.opts.AllowHardDelete {
			// отмененные бронирования хранят ссылку на слот
			history, err := s.bookingRepo.ListBySlot(txCtx, id)
			if err != nil {
				return fmt.Errorf("%w: CancelSlot - list bookings: %v", ErrInternal, err)
			}
			deletable = len(history) == 0
		}

		if deletable {
			if err := s.slotRepo.Delete(txCtx, id); err != nil {
				return fmt.Errorf("%w: CancelSlot - delete: %v", ErrInternal, err)
			}
			resp.Deleted = true
			cancelled = slot
			return nil
		}

		slot.Status = domain.SlotStatusCancelled
		if reason != "" {
			slot.CancellationReason = &reason
		}
		updated, err := s.slotRepo.Update(txCtx, slot)
		if err != nil {
			return fmt.Errorf("%w: CancelSlot - update: %v", ErrInternal, err)
		}
		resp.Slot = models.FromDomainSlot(updated)
		cancelled = updated
		return nil
	})
	if err != nil {
		return nil, wrapInternal("CancelSlot", err)
	}

	if cancelled != nil {
		s.notifier.Publish(notification.NewEvent(notification.EventSlotCancelled, cancelled.ProviderID, cancelled.ID).
			WithReason(reason))
	}

	s.logger.Info("CancelSlot: slot id=%s cancelled, deleted=%t", id, resp.Deleted)
	return resp, nil
}
