package generate_schedule_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

// validateRequest разбирает период генерации
func validateRequest(req *models.GenerateSlotsRequest) (time.Time, time.Time, error) {
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > domain.MaxRecurrenceDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period of %d days exceeds %d", ErrInvalidInput, days, domain.MaxRecurrenceDays)
	}

	if req.AppointmentType != "" {
		if _, ok := domain.FindAppointmentType(req.AppointmentType); !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown appointment type %q", ErrInvalidInput, req.AppointmentType)
		}
	}
	if req.MaxAppointments < 0 || req.MaxAppointments > domain.MaxAppointmentsPerSlot {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: max_appointments must be between %d and %d",
			ErrInvalidInput, domain.MinAppointmentsPerSlot, domain.MaxAppointmentsPerSlot)
	}

	return start, end, nil
}
