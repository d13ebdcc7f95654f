package generate_schedule_slots

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

// UseCase use case для генерации слотов по недельному расписанию провайдера
type UseCase struct {
	slotRepo     SlotRepository
	scheduleRepo ScheduleRepository
	locker       Locker
	txManager    TransactionManager
	zones        ZoneResolver
	policy       conflicts.Policy
	metrics      Metrics
	timeProvider TimeProvider
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
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute нарезает рабочие дни периода на слоты по длительностям из расписания.
// Прошедшие даты и нерабочие дни пропускаются, слоты с конфликтами попадают в rejected.
func (uc *UseCase) Execute(ctx context.Context, providerID uuid.UUID, req *models.GenerateSlotsRequest) (*models.BatchResponse, error) {
	uc.logger.Info("GenerateScheduleSlots: provider=%s, period=%s..%s", providerID, req.StartDate, req.EndDate)

	// 1. Валидация периода
	from, to, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("GenerateScheduleSlots: validation failed: %v", err)
		return nil, err
	}

	var (
		accepted []*domain.AvailabilitySlot
		rejected []domain.RejectedDate
	)

	// 2. Все слоты периода создаются одним пакетом под блокировкой провайдера
	err = uc.locker.WithProviderLock(ctx, providerID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			accepted, rejected = nil, nil

			schedule, err := uc.scheduleRepo.Get(txCtx, providerID)
			if err != nil {
				if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
					uc.logger.Warn("GenerateScheduleSlots: schedule for provider=%s not found", providerID)
					return ErrScheduleNotFound
				}
				uc.logger.Error("GenerateScheduleSlots: failed to get schedule: %v", err)
				return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
			}
			zone := uc.zones.Resolve(schedule.Timezone)

			today, err := uc.today(zone)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			if from.Before(today) {
				from = today
			}
			if to.Before(from) {
				return nil
			}

			existing, err := uc.slotRepo.List(txCtx, domain.SlotFilter{ProviderID: &providerID, DateFrom: &from, DateTo: &to})
			if err != nil {
				uc.logger.Error("GenerateScheduleSlots: failed to list slots: %v", err)
				return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
			}

			for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
				day, ok := schedule.ForDate(date)
				if !ok {
					continue
				}

				appointmentType, ok := pickAppointmentType(day, req.AppointmentType)
				if !ok {
					rejected = append(rejected, domain.RejectedDate{
						Date:    date,
						Reasons: []string{fmt.Sprintf("appointment type %q is not offered on %s", req.AppointmentType, domain.WeekdayNames[date.Weekday()])},
					})
					continue
				}

				ranges, err := slotgen.GenerateDaySlots(day, schedule.DefaultSlotDuration, schedule.DefaultBreakDuration)
				if err != nil {
					rejected = append(rejected, domain.RejectedDate{Date: date, Reasons: []string{err.Error()}})
					continue
				}

				var reasons []string
				for _, r := range ranges {
					candidate := &domain.AvailabilitySlot{
						ProviderID:      providerID,
						Date:            date,
						StartTime:       r.Start,
						EndTime:         r.End,
						Timezone:        zone,
						AppointmentType: appointmentType,
						SlotDuration:    schedule.DefaultSlotDuration,
						BreakDuration:   schedule.DefaultBreakDuration,
						MaxAppointments: req.MaxAppointments,
						Status:          domain.SlotStatusAvailable,
					}
					models.ApplySlotDefaults(candidate)

					if found := conflicts.CheckConflicts(candidate, existing, schedule, uc.policy); len(found) > 0 {
						for _, c := range found {
							uc.metrics.ConflictDetected(string(c.Type))
							reasons = append(reasons, fmt.Sprintf("%s-%s: %s", r.Start, r.End, c.Message))
						}
						continue
					}

					created, err := uc.slotRepo.Create(txCtx, candidate)
					if err != nil {
						uc.logger.Error("GenerateScheduleSlots: failed to create slot on %s: %v", date.Format(domain.DateFormat), err)
						return fmt.Errorf("%w: failed to create slot: %v", ErrInternal, err)
					}
					accepted = append(accepted, created)
					existing = append(existing, created)
				}

				if len(reasons) > 0 {
					rejected = append(rejected, domain.RejectedDate{Date: date, Reasons: reasons})
				}
			}
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, locker.ErrLockTimeout) {
			uc.logger.Warn("GenerateScheduleSlots: provider=%s is busy", providerID)
			return nil, fmt.Errorf("%w: %v", ErrProviderBusy, err)
		}
		return nil, err
	}

	uc.metrics.SlotsCreated("schedule", len(accepted))
	uc.logger.Info("GenerateScheduleSlots: provider=%s accepted=%d rejected_dates=%d", providerID, len(accepted), len(rejected))
	return models.FromDomainBatch(nil, accepted, rejected), nil
}

func (uc *UseCase) today(zone string) (time.Time, error) {
	loc, err := uc.zones.Location(zone)
	if err != nil {
		return time.Time{}, err
	}
	return domain.DateOnly(uc.timeProvider.Now().In(loc)), nil
}

// pickAppointmentType тип из запроса должен входить в типы дня, если они заданы.
// Без запроса берется первый тип дня или тип по умолчанию.
func pickAppointmentType(day domain.DaySchedule, requested string) (string, bool) {
	if requested == "" {
		if len(day.AppointmentTypes) > 0 {
			return day.AppointmentTypes[0], true
		}
		return domain.DefaultAppointmentType, true
	}
	if len(day.AppointmentTypes) == 0 {
		return requested, true
	}
	for _, t := range day.AppointmentTypes {
		if t == requested {
			return requested, true
		}
	}
	return "", false
}
