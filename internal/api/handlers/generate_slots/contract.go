package generate_slots

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
)

type GenerateSlotsUseCase interface {
	Execute(ctx context.Context, providerID uuid.UUID, req *models.GenerateSlotsRequest) (*models.BatchResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
