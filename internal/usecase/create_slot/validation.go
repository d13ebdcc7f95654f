package create_slot

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/conflicts"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

// validateRequest собирает все ошибки структурной проверки
func validateRequest(req *models.CreateSlotRequest, policy conflicts.Policy) []domain.ValidationFailure {
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

	if req.RecurrencePattern != nil {
		if _, err := req.RecurrencePattern.ToDomain(); err != nil {
			failures = append(failures, domain.ValidationFailure{
				Field:        "recurrence_pattern",
				ErrorMessage: err.Error(),
			})
		}
	}

	return failures
}
