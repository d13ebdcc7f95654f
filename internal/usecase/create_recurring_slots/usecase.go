package create_recurring_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	"github.com/m04kA/SMC-AvailabilityService/internal/slotgen"
)

// UseCase use case для создания серии слотов по правилу повторения
type UseCase struct {
	slotRepo     SlotRepository
	scheduleRepo ScheduleRepository
	locker       Locker
	txManager    TransactionManager
	zones        ZoneResolver
	policy       conflicts.Policy
	horizonDays  int
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// horizonDays ограничивает правила без даты окончания и числа повторений.
func NewUseCase(
	slotRepo SlotRepository,
	scheduleRepo ScheduleRepository,
	locker Locker,
	txManager TransactionManager,
	zones ZoneResolver,
	policy conflicts.Policy,
	horizonDays int,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if horizonDays <= 0 || horizonDays > domain.MaxRecurrenceDays {
		horizonDays = domain.MaxRecurrenceDays
	}
	return &UseCase{
		slotRepo:     slotRepo,
		scheduleRepo: scheduleRepo,
		locker:       locker,
		txManager:    txManager,
		zones:        zones,
		policy:       policy,
		horizonDays:  horizonDays,
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

// Execute разворачивает правило повторения в даты не раньше сегодняшней
// и создает слот на каждую дату без конфликтов. Конфликтные даты возвращаются
// вместе с причинами, остальные слоты все равно создаются. Вся серия создается
// одним пакетом под блокировкой провайдера.
func (uc *UseCase) Execute(ctx context.Context, req *models.CreateRecurringRequest) (*models.BatchResponse, error) {
	uc.logger.Info("CreateRecurringSlots: provider=%s, start=%s, frequency=%s",
		req.BaseSlot.ProviderID, req.BaseSlot.Date, req.Recurrence.Frequency)

	// 1. Провайдер
	providerID, err := uuid.Parse(req.BaseSlot.ProviderID)
	if err != nil {
		uc.logger.Warn("CreateRecurringSlots: invalid provider_id %q", req.BaseSlot.ProviderID)
		return nil, fmt.Errorf("%w: provider_id must be a UUID", ErrInvalidInput)
	}

	// 2. Шаблон
	if failures := validateBaseSlot(&req.BaseSlot, uc.policy); len(failures) > 0 {
		uc.logger.Warn("CreateRecurringSlots: base slot validation failed with %d errors", len(failures))
		return nil, &domain.ValidationError{Failures: failures}
	}

	pattern, err := buildPattern(req)
	if err != nil {
		uc.logger.Warn("CreateRecurringSlots: %v", err)
		return nil, err
	}

	template, err := req.BaseSlot.ToDomainSlot(providerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	template.Timezone = uc.zones.Resolve(template.Timezone)
	groupID := uuid.New()
	template.IsRecurring = true
	template.RecurrencePattern = pattern
	template.RecurrenceGroupID = &groupID

	// 3. Даты повторения
	dates, err := uc.expand(template.Date, template.Timezone, *pattern)
	if err != nil {
		uc.logger.Warn("CreateRecurringSlots: failed to expand pattern: %v", err)
		return nil, err
	}
	if len(dates) == 0 {
		uc.logger.Info("CreateRecurringSlots: pattern produced no dates for provider=%s", providerID)
		return models.FromDomainBatch(&groupID, nil, nil), nil
	}

	// 4. Пакетное создание под блокировкой провайдера
	var (
		accepted []*domain.AvailabilitySlot
		rejected []domain.RejectedDate
	)
	err = uc.locker.WithProviderLock(ctx, providerID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			accepted, rejected = nil, nil

			first, last := dates[0], dates[len(dates)-1]
			existing, err := uc.slotRepo.List(txCtx, domain.SlotFilter{
				ProviderID: &providerID,
				DateFrom:   &first,
				DateTo:     &last,
			})
			if err != nil {
				uc.logger.Error("CreateRecurringSlots: failed to list slots: %v", err)
				return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
			}

			schedule, err := uc.scheduleRepo.Get(txCtx, providerID)
			if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				uc.logger.Error("CreateRecurringSlots: failed to get schedule: %v", err)
				return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
			}

			for _, date := range dates {
				candidate := slotgen.Materialize(*template, date)

				if found := conflicts.CheckConflicts(&candidate, existing, schedule, uc.policy); len(found) > 0 {
					reasons := make([]string, 0, len(found))
					for _, c := range found {
						uc.metrics.ConflictDetected(string(c.Type))
						reasons = append(reasons, c.Message)
					}
					rejected = append(rejected, domain.RejectedDate{Date: candidate.Date, Reasons: reasons})
					continue
				}

				created, err := uc.slotRepo.Create(txCtx, &candidate)
				if err != nil {
					uc.logger.Error("CreateRecurringSlots: failed to create slot on %s: %v",
						candidate.Date.Format(domain.DateFormat), err)
					return fmt.Errorf("%w: failed to create slot: %v", ErrInternal, err)
				}
				accepted = append(accepted, created)
				// следующие даты проверяются и против только что созданных слотов
				existing = append(existing, created)
			}
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, locker.ErrLockTimeout) {
			uc.logger.Warn("CreateRecurringSlots: provider=%s is busy", providerID)
			return nil, fmt.Errorf("%w: %v", ErrProviderBusy, err)
		}
		return nil, err
	}

	uc.metrics.SlotsCreated("recurring", len(accepted))
	uc.logger.Info("CreateRecurringSlots: provider=%s group=%s accepted=%d rejected=%d",
		providerID, groupID, len(accepted), len(rejected))
	return models.FromDomainBatch(&groupID, accepted, rejected), nil
}

// expand разворачивает правило от даты шаблона, начиная отсчет повторений с сегодняшнего
// дня: прошедшие даты не выдаются, а дни недели и число месяца берутся из шаблона
func (uc *UseCase) expand(base time.Time, zone string, pattern domain.RecurrencePattern) ([]time.Time, error) {
	loc, err := uc.zones.Location(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	today := domain.DateOnly(uc.timeProvider.Now().In(loc))

	dates, err := slotgen.RecurrenceDatesFrom(base, today, pattern, uc.horizonDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return dates, nil
}
