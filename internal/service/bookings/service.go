package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AvailabilityService/internal/notification"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	locker      Locker
	txManager   TransactionManager
	notifier    Notifier
	metrics     Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	locker Locker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		locker:      locker,
		txManager:   txManager,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// ListBySlot бронирования слота в порядке создания
func (s *Service) ListBySlot(ctx context.Context, slotID uuid.UUID) (*models.BookingListResponse, error) {
	s.logger.Info("ListBySlot: fetching bookings for slot=%s", slotID)

	if _, err := s.getSlot(ctx, "ListBySlot", slotID); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListBySlot(ctx, slotID)
	if err != nil {
		s.logger.Error("ListBySlot: repository error for slot=%s: %v", slotID, err)
		return nil, fmt.Errorf("%w: ListBySlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBySlot: successfully fetched %d bookings for slot=%s", len(bookings), slotID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и освобождает место в слоте.
// Слот возвращается в available, когда в нем не осталось бронирований.
func (s *Service) Cancel(ctx context.Context, bookingID uuid.UUID, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s", bookingID)

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	current, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	var cancelled *domain.Booking
	err = s.mutate(ctx, current.ProviderID, func(txCtx context.Context) error {
		// перечитываем под блокировкой
		booking, err := s.getBooking(txCtx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, domain.StatusCancelled)
		}

		booking.Status = domain.StatusCancelled
		if req.Reason != "" {
			reason := req.Reason
			booking.CancellationReason = &reason
		}
		cancelled, err = s.bookingRepo.Update(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: Cancel - update booking: %v", ErrInternal, err)
		}

		return s.releaseSeat(txCtx, booking.SlotID)
	})
	if err != nil {
		return nil, wrapInternal("Cancel", err)
	}

	s.metrics.BookingResult("cancelled")
	s.notifier.Publish(notification.NewEvent(notification.EventBookingCancelled, cancelled.ProviderID, cancelled.SlotID).
		WithBooking(cancelled.ID, string(cancelled.Status)).
		WithReason(req.Reason))

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return models.FromDomainBooking(cancelled), nil
}

// UpdateStatus меняет статус по таблице переходов. Отмена выполняется через Cancel,
// заметки в этом случае становятся причиной отмены.
func (s *Service) UpdateStatus(ctx context.Context, bookingID uuid.UUID, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s", bookingID, req.Status)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%s", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}

	if newStatus == domain.StatusCancelled {
		reason := ""
		if req.Notes != nil {
			reason = *req.Notes
		}
		return s.Cancel(ctx, bookingID, &models.CancelBookingRequest{Reason: reason})
	}

	current, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Booking
	err = s.mutate(ctx, current.ProviderID, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "UpdateStatus", bookingID)
		if err != nil {
			return err
		}

		if !domain.CanTransition(booking.Status, newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for booking id=%s",
				booking.Status, newStatus, bookingID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		booking.Status = newStatus
		if req.Notes != nil {
			notes := *req.Notes
			booking.ProviderNotes = &notes
		}
		updated, err = s.bookingRepo.Update(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: UpdateStatus - update booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapInternal("UpdateStatus", err)
	}

	s.metrics.BookingResult(string(newStatus))
	s.notifier.Publish(notification.NewEvent(notification.EventBookingStatusChanged, updated.ProviderID, updated.SlotID).
		WithBooking(updated.ID, string(updated.Status)))

	s.logger.Info("UpdateStatus: successfully updated booking id=%s to status=%s", bookingID, newStatus)
	return models.FromDomainBooking(updated), nil
}

// Вспомогательные методы

// releaseSeat уменьшает счетчик слота. Слот без записи не блокирует отмену бронирования.
func (s *Service) releaseSeat(ctx context.Context, slotID uuid.UUID) error {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("releaseSeat: slot id=%s not found, skipping counter update", slotID)
			return nil
		}
		return fmt.Errorf("%w: releaseSeat - get slot: %v", ErrInternal, err)
	}

	if slot.CurrentBookings > 0 {
		slot.CurrentBookings--
	}
	slot.RecomputeStatus()

	if _, err := s.slotRepo.Update(ctx, slot); err != nil {
		return fmt.Errorf("%w: releaseSeat - update slot: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) getBooking(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) getSlot(ctx context.Context, op string, id uuid.UUID) (*domain.AvailabilitySlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%s not found", op, id)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: repository error for slot id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return slot, nil
}

// mutate выполняет fn под блокировкой провайдера в сериализуемой транзакции
func (s *Service) mutate(ctx context.Context, providerID uuid.UUID, fn func(ctx context.Context) error) error {
	err := s.locker.WithProviderLock(ctx, providerID, func(lockCtx context.Context) error {
		return s.txManager.DoSerializable(lockCtx, fn)
	})
	if errors.Is(err, locker.ErrLockTimeout) {
		return fmt.Errorf("%w: %v", ErrProviderBusy, err)
	}
	return err
}

func wrapInternal(op string, err error) error {
	switch {
	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrSlotNotFound),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrProviderBusy),
		errors.Is(err, ErrInternal):
		return err
	}
	return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
}
