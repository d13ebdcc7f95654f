package create_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

// UseCase use case для создания одиночного слота
type UseCase struct {
	slotRepo     SlotRepository
	scheduleRepo ScheduleRepository
	locker       Locker
	txManager    TransactionManager
	zones        ZoneResolver
	policy       conflicts.Policy
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	scheduleRepo ScheduleRepository,
	locker Locker,
	txManager TransactionManager,
	zones ZoneResolver,
	policy conflicts.Policy,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		scheduleRepo: scheduleRepo,
		locker:       locker,
		txManager:    txManager,
		zones:        zones,
		policy:       policy,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute проверяет слот целиком, затем под блокировкой провайдера ищет конфликты
// с его слотами на ту же дату. Любой конфликт отклоняет создание.
func (uc *UseCase) Execute(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	uc.logger.Info("CreateSlot: provider=%s, date=%s, time=%s-%s",
		req.ProviderID, req.Date, req.StartTime, req.EndTime)

	// 1. Провайдер
	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		uc.logger.Warn("CreateSlot: invalid provider_id %q", req.ProviderID)
		return nil, fmt.Errorf("%w: provider_id must be a UUID", ErrInvalidInput)
	}

	// 2. Структурная проверка, все ошибки сразу
	if failures := validateRequest(req, uc.policy); len(failures) > 0 {
		uc.logger.Warn("CreateSlot: validation failed with %d errors", len(failures))
		return nil, &domain.ValidationError{Failures: failures}
	}

	slot, err := req.ToDomainSlot(providerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	slot.Timezone = uc.zones.Resolve(slot.Timezone)

	// 3. Проверка конфликтов и сохранение под блокировкой провайдера
	var created *domain.AvailabilitySlot
	err = uc.locker.WithProviderLock(ctx, providerID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			existing, err := uc.slotRepo.List(txCtx, domain.SlotFilter{ProviderID: &providerID, Date: &slot.Date})
			if err != nil {
				uc.logger.Error("CreateSlot: failed to list slots: %v", err)
				return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
			}

			schedule, err := uc.scheduleRepo.Get(txCtx, providerID)
			if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				uc.logger.Error("CreateSlot: failed to get schedule: %v", err)
				return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
			}

			if found := conflicts.CheckConflicts(slot, existing, schedule, uc.policy); len(found) > 0 {
				for _, c := range found {
					uc.metrics.ConflictDetected(string(c.Type))
				}
				uc.logger.Warn("CreateSlot: %d conflicts for provider=%s: %v", len(found), providerID, conflicts.Types(found))
				return &domain.ConflictError{Conflicts: found}
			}

			created, err = uc.slotRepo.Create(txCtx, slot)
			if err != nil {
				uc.logger.Error("CreateSlot: failed to create slot: %v", err)
				return fmt.Errorf("%w: failed to create slot: %v", ErrInternal, err)
			}
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, locker.ErrLockTimeout) {
			uc.logger.Warn("CreateSlot: provider=%s is busy", providerID)
			return nil, fmt.Errorf("%w: %v", ErrProviderBusy, err)
		}
		return nil, err
	}

	uc.metrics.SlotsCreated("single", 1)
	uc.logger.Info("CreateSlot: successfully created slot id=%s", created.ID)
	return models.FromDomainSlot(created), nil
}
