package schedule

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// validateSchedule проверяет длительности, рабочие часы и окна перерывов
func validateSchedule(s *domain.ProviderSchedule, policy conflicts.Policy) error {
	if s.DefaultSlotDuration < policy.MinSlotDuration || s.DefaultSlotDuration > policy.MaxSlotDuration {
		return fmt.Errorf("%w: default_slot_duration must be between %d and %d",
			ErrInvalidInput, policy.MinSlotDuration, policy.MaxSlotDuration)
	}

	if s.DefaultBreakDuration < policy.MinBreakDuration || s.DefaultBreakDuration > policy.MaxBreakDuration {
		return fmt.Errorf("%w: default_break_duration must be between %d and %d",
			ErrInvalidInput, policy.MinBreakDuration, policy.MaxBreakDuration)
	}

	if !s.WorkingHours.StartTime.IsBefore(s.WorkingHours.EndTime) {
		return fmt.Errorf("%w: working_hours.start_time must be before end_time", ErrInvalidInput)
	}

	for wd, day := range s.Weekdays {
		if !day.IsWorkingDay {
			continue
		}
		if day.StartTime.IsZero() {
			day.StartTime = s.WorkingHours.StartTime
		}
		if day.EndTime.IsZero() {
			day.EndTime = s.WorkingHours.EndTime
		}
		name := domain.WeekdayNames[wd]

		if !day.StartTime.IsBefore(day.EndTime) {
			return fmt.Errorf("%w: %s start_time must be before end_time", ErrInvalidInput, name)
		}

		if (day.BreakStart == nil) != (day.BreakEnd == nil) {
			return fmt.Errorf("%w: %s break_start and break_end must be set together", ErrInvalidInput, name)
		}
		if day.BreakStart != nil {
			if !day.HasBreak() {
				return fmt.Errorf("%w: %s break_start must be before break_end", ErrInvalidInput, name)
			}
			if day.BreakStart.IsBefore(day.StartTime) || day.BreakEnd.IsAfter(day.EndTime) {
				return fmt.Errorf("%w: %s break must be within working hours", ErrInvalidInput, name)
			}
		}

		if day.MaxAppointments < 0 {
			return fmt.Errorf("%w: %s max_appointments must not be negative", ErrInvalidInput, name)
		}

		for _, t := range day.AppointmentTypes {
			if _, ok := domain.FindAppointmentType(t); !ok {
				return fmt.Errorf("%w: %s has unknown appointment type %q", ErrInvalidInput, name, t)
			}
		}
	}

	return nil
}
