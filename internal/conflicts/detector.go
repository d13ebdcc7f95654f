package conflicts

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// CheckConflicts ищет конфликты кандидата с существующими слотами провайдера на ту же дату.
// Отмененные слоты и сам кандидат (тот же ID) не учитываются. Проверки не прерываются
// на первом конфликте, решение принимает вызывающий код.
func CheckConflicts(
	candidate *domain.AvailabilitySlot,
	existing []*domain.AvailabilitySlot,
	schedule *domain.ProviderSchedule,
	policy Policy,
) []domain.SlotConflict {
	conflicts := make([]domain.SlotConflict, 0)

	breakMinutes := candidate.BreakDuration
	if schedule != nil && schedule.DefaultBreakDuration > 0 {
		breakMinutes = schedule.DefaultBreakDuration
	}

	start, end := candidate.StartTime.Minutes(), candidate.EndTime.Minutes()
	dayTotal := candidate.MaxAppointments

	for _, other := range existing {
		if other == nil || other.ID == candidate.ID || other.IsCancelled() || !candidate.SameDay(other) {
			continue
		}
		dayTotal += other.MaxAppointments

		if candidate.Overlaps(other) {
			conflicts = append(conflicts, domain.SlotConflict{
				Type: domain.ConflictOverlap,
				Message: fmt.Sprintf("slot %s-%s overlaps existing slot %s-%s",
					candidate.StartTime, candidate.EndTime, other.StartTime, other.EndTime),
				ConflictingSlot: other,
			})
			continue
		}

		if breakMinutes <= 0 {
			continue
		}

		gapAfter := start - other.EndTime.Minutes()
		gapBefore := other.StartTime.Minutes() - end
		if (gapAfter >= 0 && gapAfter < breakMinutes) || (gapBefore >= 0 && gapBefore < breakMinutes) {
			conflicts = append(conflicts, domain.SlotConflict{
				Type: domain.ConflictBreakViolation,
				Message: fmt.Sprintf("slot %s-%s leaves less than %d minutes break next to slot %s-%s",
					candidate.StartTime, candidate.EndTime, breakMinutes, other.StartTime, other.EndTime),
				ConflictingSlot: other,
			})
		}
	}

	if policy.MaxAppointments > 0 && candidate.MaxAppointments > policy.MaxAppointments {
		conflicts = append(conflicts, domain.SlotConflict{
			Type: domain.ConflictMaxAppointments,
			Message: fmt.Sprintf("max_appointments %d exceeds the per-slot limit of %d",
				candidate.MaxAppointments, policy.MaxAppointments),
		})
	}

	if day, ok := schedule.ForDate(candidate.Date); ok && day.MaxAppointments > 0 && dayTotal > day.MaxAppointments {
		conflicts = append(conflicts, domain.SlotConflict{
			Type: domain.ConflictMaxAppointments,
			Message: fmt.Sprintf("%d appointments on %s exceed the daily limit of %d",
				dayTotal, candidate.Date.Format(domain.DateFormat), day.MaxAppointments),
		})
	}

	if schedule != nil && schedule.Timezone != "" && candidate.Timezone != schedule.Timezone {
		conflicts = append(conflicts, domain.SlotConflict{
			Type: domain.ConflictTimezoneMismatch,
			Message: fmt.Sprintf("slot timezone %s differs from provider timezone %s",
				candidate.Timezone, schedule.Timezone),
		})
	}

	return conflicts
}

// Types типы найденных конфликтов без повторов
func Types(conflicts []domain.SlotConflict) []domain.ConflictType {
	seen := make(map[domain.ConflictType]struct{}, len(conflicts))
	out := make([]domain.ConflictType, 0, len(conflicts))
	for _, c := range conflicts {
		if _, ok := seen[c.Type]; ok {
			continue
		}
		seen[c.Type] = struct{}{}
		out = append(out, c.Type)
	}
	return out
}
