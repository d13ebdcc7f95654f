package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

// Service сервис недельных расписаний провайдеров
type Service struct {
	scheduleRepo ScheduleRepository
	locker       Locker
	zones        ZoneResolver
	policy       conflicts.Policy
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	locker Locker,
	zones ZoneResolver,
	policy conflicts.Policy,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		locker:       locker,
		zones:        zones,
		policy:       policy,
		logger:       logger,
	}
}

// Get расписание провайдера
func (s *Service) Get(ctx context.Context, providerID uuid.UUID) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching schedule for provider=%s", providerID)

	schedule, err := s.scheduleRepo.Get(ctx, providerID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("Get: schedule for provider=%s not found", providerID)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("Get: repository error for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(schedule), nil
}

// Upsert полностью заменяет расписание провайдера.
// Пустые значения заменяются значениями по умолчанию.
func (s *Service) Upsert(ctx context.Context, providerID uuid.UUID, req *models.UpsertScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Upsert: saving schedule for provider=%s, timezone=%s", providerID, req.Timezone)

	if providerID == uuid.Nil {
		return nil, fmt.Errorf("%w: providerID is required", ErrInvalidInput)
	}

	applyScheduleDefaults(req)

	schedule, err := req.ToDomainSchedule(providerID)
	if err != nil {
		s.logger.Warn("Upsert: failed to parse schedule for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	schedule.Timezone = s.zones.Resolve(schedule.Timezone)
	if !s.zones.IsKnown(schedule.Timezone) {
		s.logger.Warn("Upsert: unknown timezone %s for provider=%s", schedule.Timezone, providerID)
		return nil, fmt.Errorf("%w: %s", ErrUnknownTimezone, schedule.Timezone)
	}

	if err := validateSchedule(schedule, s.policy); err != nil {
		s.logger.Warn("Upsert: validation failed for provider=%s: %v", providerID, err)
		return nil, err
	}

	var saved *domain.ProviderSchedule
	err = s.locker.WithProviderLock(ctx, providerID, func(lockCtx context.Context) error {
		var err error
		saved, err = s.scheduleRepo.Upsert(lockCtx, schedule)
		return err
	})
	if err != nil {
		s.logger.Error("Upsert: failed to save schedule for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: schedule saved for provider=%s, working days=%d", providerID, countWorkingDays(saved))
	return models.FromDomainSchedule(saved), nil
}

func applyScheduleDefaults(req *models.UpsertScheduleRequest) {
	if req.DefaultSlotDuration == 0 {
		req.DefaultSlotDuration = domain.DefaultSlotDurationMinutes
	}
	if req.DefaultBreakDuration == 0 {
		req.DefaultBreakDuration = domain.DefaultBreakDurationMinutes
	}
	if req.WorkingHours.StartTime == "" {
		req.WorkingHours.StartTime = "09:00"
	}
	if req.WorkingHours.EndTime == "" {
		req.WorkingHours.EndTime = "17:00"
	}
}

func countWorkingDays(schedule *domain.ProviderSchedule) int {
	n := 0
	for _, day := range schedule.Weekdays {
		if day.IsWorkingDay {
			n++
		}
	}
	return n
}
