package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

// Options настройки сервиса слотов
type Options struct {
	Policy          conflicts.Policy
	AllowHardDelete bool
}

// Service фасад хранилища слотов: чтение, изменение, отмена, статистика
type Service struct {
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	locker       Locker
	txManager    TransactionManager
	zones        ZoneResolver
	notifier     Notifier
	timeProvider TimeProvider
	opts         Options
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	locker Locker,
	txManager TransactionManager,
	zones ZoneResolver,
	notifier Notifier,
	opts Options,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		locker:       locker,
		txManager:    txManager,
		zones:        zones,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		opts:         opts,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// ListSlots слоты провайдера по фильтрам, упорядочены по дате и времени начала
func (s *Service) ListSlots(ctx context.Context, providerID uuid.UUID, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("ListSlots: fetching slots for provider=%s", providerID)

	filter := domain.SlotFilter{
		ProviderID:      &providerID,
		Date:            req.Date,
		DateFrom:        req.DateFrom,
		DateTo:          req.DateTo,
		AppointmentType: req.AppointmentType,
	}
	if req.Status != nil {
		status := domain.SlotStatus(*req.Status)
		if !status.IsValid() {
			s.logger.Warn("ListSlots: invalid status=%s for provider=%s", *req.Status, providerID)
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	list, err := s.slotRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListSlots: repository error for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: ListSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListSlots: successfully fetched %d slots for provider=%s", len(list), providerID)
	return models.FromDomainSlotList(list), nil
}

// GetSlot слот по ID
func (s *Service) GetSlot(ctx context.Context, id uuid.UUID) (*models.SlotResponse, error) {
	slot, err := s.getSlot(ctx, "GetSlot", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot), nil
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

func (s *Service) getSchedule(ctx context.Context, providerID uuid.UUID) (*domain.ProviderSchedule, error) {
	schedule, err := s.scheduleRepo.Get(ctx, providerID)
	if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
		return nil, nil
	}
	return schedule, err
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

// wrapInternal оборачивает неожиданные ошибки, сохраняя ошибки сервиса и domain
func wrapInternal(op string, err error) error {
	switch {
	case errors.Is(err, ErrSlotNotFound),
		errors.Is(err, ErrSlotNotEditable),
		errors.Is(err, ErrSlotHasBookings),
		errors.Is(err, ErrUnknownTimezone),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrProviderBusy),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict):
		return err
	}
	return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
}
