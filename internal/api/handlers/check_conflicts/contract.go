package check_conflicts

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	checkConflicts "github.com/m04kA/SMC-AvailabilityService/internal/usecase/check_conflicts"
)

type CheckConflictsUseCase interface {
	Execute(ctx context.Context, req *checkConflicts.Request) (*models.CheckConflictsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
