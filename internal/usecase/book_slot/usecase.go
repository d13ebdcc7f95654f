package book_slot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	slotRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AvailabilityService/internal/notification"
)

const confirmationCodePrefix = "BK"

// UseCase use case для записи пациента в слот
type UseCase struct {
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	locker       Locker
	txManager    TransactionManager
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	locker Locker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		locker:       locker,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case записи в слот.
// Счетчик слота и бронирование меняются под блокировкой провайдера в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: slot=%s, patient=%s", req.SlotID, req.PatientID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Провайдер нужен для блокировки, поэтому слот читается до нее
	slot, err := uc.getSlot(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}

	var result *Response

	// 3. Под блокировкой перечитываем слот и занимаем место
	err = uc.locker.WithProviderLock(ctx, slot.ProviderID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			current, err := uc.getSlot(txCtx, req.SlotID)
			if err != nil {
				return err
			}

			if !current.IsBookable() {
				uc.logger.Warn("BookSlot: slot id=%s is not bookable, status=%s, bookings=%d/%d",
					current.ID, current.Status, current.CurrentBookings, current.MaxAppointments)
				return fmt.Errorf("%w: status=%s, bookings=%d/%d",
					ErrSlotFull, current.Status, current.CurrentBookings, current.MaxAppointments)
			}

			current.CurrentBookings++
			current.RecomputeStatus()

			updatedSlot, err := uc.slotRepo.Update(txCtx, current)
			if err != nil {
				uc.logger.Error("BookSlot: failed to update slot id=%s: %v", current.ID, err)
				return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
			}

			booking, err := uc.bookingRepo.Create(txCtx, uc.newBooking(req, updatedSlot))
			if err != nil {
				uc.logger.Error("BookSlot: failed to create booking for slot id=%s: %v", current.ID, err)
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}

			result = &Response{Booking: booking, Slot: updatedSlot}
			return nil
		})
	})
	if err != nil {
		return nil, uc.mapError(err)
	}

	// 4. Метрики и уведомление после успешной транзакции
	uc.metrics.BookingResult("booked")
	uc.notifier.Publish(notification.NewEvent(notification.EventBookingCreated, result.Booking.ProviderID, result.Booking.SlotID).
		WithBooking(result.Booking.ID, string(result.Booking.Status)))

	uc.logger.Info("BookSlot: successfully created booking id=%s, code=%s",
		result.Booking.ID, result.Booking.ConfirmationCode)
	return result, nil
}

// newBooking бронирование в статусе pending с данными слота на момент записи
func (uc *UseCase) newBooking(req *Request, slot *domain.AvailabilitySlot) *domain.Booking {
	id := uuid.New()
	return &domain.Booking{
		ID:                    id,
		SlotID:                slot.ID,
		ProviderID:            slot.ProviderID,
		PatientID:             req.PatientID,
		PatientName:           strings.TrimSpace(req.PatientName),
		PatientEmail:          req.PatientEmail,
		PatientPhone:          req.PatientPhone,
		AppointmentDate:       slot.Date,
		AppointmentTime:       slot.StartTime,
		Timezone:              slot.Timezone,
		Reason:                req.Reason,
		Status:                domain.StatusPending,
		InsuranceProvider:     req.InsuranceProvider,
		InsurancePolicyNumber: req.InsurancePolicyNumber,
		SpecialRequirements:   req.SpecialRequirements,
		EmergencyContact:      req.EmergencyContact,
		ConfirmationCode:      uc.confirmationCode(id),
	}
}

// confirmationCode "BK" + unix millis + первые 8 символов ID в верхнем регистре
func (uc *UseCase) confirmationCode(id uuid.UUID) string {
	millis := strconv.FormatInt(uc.timeProvider.Now().UnixMilli(), 10)
	return confirmationCodePrefix + millis + strings.ToUpper(id.String()[:8])
}

func (uc *UseCase) getSlot(ctx context.Context, id uuid.UUID) (*domain.AvailabilitySlot, error) {
	slot, err := uc.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("BookSlot: slot id=%s not found", id)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("BookSlot: failed to get slot id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}
	return slot, nil
}

func (uc *UseCase) mapError(err error) error {
	switch {
	case errors.Is(err, ErrSlotFull):
		uc.metrics.BookingResult("full")
		return err
	case errors.Is(err, ErrSlotNotFound), errors.Is(err, ErrInternal):
		return err
	case errors.Is(err, locker.ErrLockTimeout):
		uc.logger.Warn("BookSlot: provider lock timeout: %v", err)
		return fmt.Errorf("%w: %v", ErrProviderBusy, err)
	}
	uc.logger.Error("BookSlot: transaction failed: %v", err)
	return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
}
