package check_conflicts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

// UseCase use case для предварительной проверки слота без сохранения
type UseCase struct {
	slotRepo     SlotRepository
	scheduleRepo ScheduleRepository
	zones        ZoneResolver
	policy       conflicts.Policy
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	scheduleRepo ScheduleRepository,
	zones ZoneResolver,
	policy conflicts.Policy,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		scheduleRepo: scheduleRepo,
		zones:        zones,
		policy:       policy,
		logger:       logger,
	}
}

// Execute возвращает все ошибки проверки и все конфликты кандидата.
// Конфликты ищутся, только если дату и время удалось разобрать.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.CheckConflictsResponse, error) {
	uc.logger.Info("CheckConflicts: provider=%s, date=%s, time=%s-%s",
		req.ProviderID, req.Date, req.StartTime, req.EndTime)

	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		uc.logger.Warn("CheckConflicts: invalid provider_id %q", req.ProviderID)
		return nil, fmt.Errorf("%w: provider_id must be a UUID", ErrInvalidInput)
	}

	resp := &models.CheckConflictsResponse{
		Conflicts:        []models.SlotConflict{},
		ValidationErrors: models.FromDomainFailures(conflicts.Validate(req.Draft(), uc.policy)),
	}

	candidate, err := req.ToDomainSlot(providerID)
	if err != nil {
		// без даты и времени сравнивать не с чем
		uc.logger.Info("CheckConflicts: skipping relational check: %v", err)
		return resp, nil
	}
	candidate.Timezone = uc.zones.Resolve(candidate.Timezone)
	if req.SlotID != "" {
		id, err := uuid.Parse(req.SlotID)
		if err != nil {
			return nil, fmt.Errorf("%w: slot_id must be a UUID", ErrInvalidInput)
		}
		candidate.ID = id
	}

	existing, err := uc.slotRepo.List(ctx, domain.SlotFilter{ProviderID: &providerID, Date: &candidate.Date})
	if err != nil {
		uc.logger.Error("CheckConflicts: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	schedule, err := uc.scheduleRepo.Get(ctx, providerID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
		uc.logger.Error("CheckConflicts: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	resp.Conflicts = models.FromDomainConflicts(conflicts.CheckConflicts(candidate, existing, schedule, uc.policy))
	resp.HasConflicts = len(resp.Conflicts) > 0

	uc.logger.Info("CheckConflicts: provider=%s conflicts=%d validation_errors=%d",
		providerID, len(resp.Conflicts), len(resp.ValidationErrors))
	return resp, nil
}
