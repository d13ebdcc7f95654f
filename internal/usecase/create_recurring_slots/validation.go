package create_recurring_slots

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

// validateBaseSlot структурная проверка шаблона, дата шаблона - начало повторения
func validateBaseSlot(req *models.CreateSlotRequest, policy conflicts.Policy) []domain.ValidationFailure {
	failures := conflicts.Validate(req.Draft(), policy)

	if req.AppointmentType != "" {
		if _, ok := domain.FindAppointmentType(req.AppointmentType); !ok {
			failures = append(failures, domain.ValidationFailure{
				Field:        "appointment_type",
				ErrorMessage: fmt.Sprintf("unknown appointment type %q", req.AppointmentType),
			})
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		failures = append(failures, domain.ValidationFailure{
			Field:        "notes",
			ErrorMessage: fmt.Sprintf("notes must not exceed %d characters", domain.MaxNotesLength),
		})
	}

	return failures
}

// buildPattern правило повторения с дополнительными исключениями запроса
func buildPattern(req *models.CreateRecurringRequest) (*domain.RecurrencePattern, error) {
	pattern, err := req.Recurrence.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	if !pattern.Frequency.IsValid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidPattern, req.Recurrence.Frequency)
	}

	for _, raw := range req.Exceptions {
		date, err := domain.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: exception %q", ErrInvalidPattern, raw)
		}
		pattern.Exceptions = append(pattern.Exceptions, date)
	}

	return pattern, nil
}
