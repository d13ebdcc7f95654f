package create_recurring_slots

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

type CreateRecurringSlotsUseCase interface {
	Execute(ctx context.Context, req *models.CreateRecurringRequest) (*models.BatchResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
